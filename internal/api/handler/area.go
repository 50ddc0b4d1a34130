package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-coworking-reservation/internal/application"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
)

type AreaHandler struct {
	service AreaServiceInterface
}

func NewAreaHandler(s AreaServiceInterface) *AreaHandler {
	return &AreaHandler{service: s}
}

// CreateAreaRequest の price_per_day は "1500.00" のような文字列でも数値でもよい
type CreateAreaRequest struct {
	Name        string          `json:"name" validate:"required,max=200" example:"窓際デスク"`
	Type        string          `json:"type" validate:"omitempty,max=50" example:"desk"`
	Capacity    int             `json:"capacity" validate:"required,gt=0" example:"4"`
	PricePerDay decimal.Decimal `json:"price_per_day" swaggertype:"string" example:"1500.00"`
}

type UpdateAreaRequest struct {
	Capacity    int             `json:"capacity" validate:"required,gt=0" example:"6"`
	PricePerDay decimal.Decimal `json:"price_per_day" swaggertype:"string" example:"1800.00"`
}

type AreaResponse struct {
	ID          string    `json:"id"`
	SpaceID     string    `json:"coworking_space_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Capacity    int       `json:"capacity"`
	PricePerDay string    `json:"price_per_day"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAreaResponse(a *area.Area) AreaResponse {
	return AreaResponse{
		ID: a.ID, SpaceID: a.SpaceID, Name: a.Name, Type: a.Type, Capacity: a.Capacity,
		PricePerDay: a.PricePerDay.StringFixed(2), CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

// List godoc
// @Summary スペースのエリア一覧
// @Tags areas
// @Produce json
// @Param space_id path string true "スペースID"
// @Success 200 {array} AreaResponse
// @Router /spaces/{space_id}/areas [get]
func (h *AreaHandler) List(c echo.Context) error {
	areas, err := h.service.ListAreas(c.Request().Context(), c.Param("space_id"))
	if err != nil {
		return err
	}
	resp := make([]AreaResponse, len(areas))
	for i, a := range areas {
		resp[i] = toAreaResponse(a)
	}
	return c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary エリアを追加
// @Description スペースのホストがエリアを追加します。収容人数の合計はスペースの収容人数以下
// @Tags areas
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ホストのユーザーID"
// @Param space_id path string true "スペースID"
// @Param request body CreateAreaRequest true "エリア情報"
// @Success 201 {object} AreaResponse
// @Failure 409 {object} api.ErrorResponse "収容人数超過"
// @Router /spaces/{space_id}/areas [post]
func (h *AreaHandler) Create(c echo.Context) error {
	hostID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CreateAreaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	a, err := h.service.CreateArea(c.Request().Context(), application.CreateAreaInput{
		HostID:      hostID,
		SpaceID:     c.Param("space_id"),
		Name:        req.Name,
		Type:        req.Type,
		Capacity:    req.Capacity,
		PricePerDay: req.PricePerDay,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAreaResponse(a))
}

// Update godoc
// @Summary エリアの収容人数と料金を変更
// @Tags areas
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ホストのユーザーID"
// @Param id path string true "エリアID"
// @Param request body UpdateAreaRequest true "変更内容"
// @Success 200 {object} AreaResponse
// @Failure 409 {object} api.ErrorResponse "収容人数超過"
// @Router /areas/{id} [put]
func (h *AreaHandler) Update(c echo.Context) error {
	hostID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req UpdateAreaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	a, err := h.service.UpdateArea(c.Request().Context(), application.UpdateAreaInput{
		HostID:      hostID,
		AreaID:      c.Param("id"),
		Capacity:    req.Capacity,
		PricePerDay: req.PricePerDay,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAreaResponse(a))
}
