package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-coworking-reservation/internal/application"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
)

type SpaceHandler struct {
	service SpaceServiceInterface
}

func NewSpaceHandler(s SpaceServiceInterface) *SpaceHandler {
	return &SpaceHandler{service: s}
}

type CreateSpaceRequest struct {
	Name     string `json:"name" validate:"required,max=200" example:"渋谷コワーキング"`
	Capacity int    `json:"capacity" validate:"required,gt=0" example:"30"`
}

type SpaceResponse struct {
	ID        string    `json:"id"`
	HostID    string    `json:"host_id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status" example:"pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toSpaceResponse(s *coworking.Space) SpaceResponse {
	return SpaceResponse{
		ID: s.ID, HostID: s.HostID, Name: s.Name, Capacity: s.Capacity,
		Status: string(s.Status), CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// Create godoc
// @Summary スペースを登録
// @Description ホストがスペースを登録します（審査待ちで作成）
// @Tags spaces
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ホストのユーザーID"
// @Param request body CreateSpaceRequest true "スペース情報"
// @Success 201 {object} SpaceResponse
// @Router /spaces [post]
func (h *SpaceHandler) Create(c echo.Context) error {
	hostID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CreateSpaceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.service.CreateSpace(c.Request().Context(), application.CreateSpaceInput{
		HostID: hostID, Name: req.Name, Capacity: req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSpaceResponse(s))
}

// GetByID godoc
// @Summary スペースを取得
// @Tags spaces
// @Produce json
// @Param id path string true "スペースID"
// @Success 200 {object} SpaceResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /spaces/{id} [get]
func (h *SpaceHandler) GetByID(c echo.Context) error {
	s, err := h.service.GetSpace(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSpaceResponse(s))
}
