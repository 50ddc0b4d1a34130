package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-coworking-reservation/internal/application"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CreateReservationRequest struct {
	SpaceID       string   `json:"coworking_space_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	StartDate     string   `json:"start_date" validate:"required,dateonly" example:"2025-06-01"`
	EndDate       string   `json:"end_date" validate:"required,dateonly" example:"2025-06-03"`
	AreaIDs       []string `json:"area_ids" validate:"required,min=1,dive,required" example:"area-1,area-2"`
	PaymentMethod string   `json:"payment_method" validate:"omitempty,max=32" example:"card"`
}

type ReservationDetailResponse struct {
	AreaID      string `json:"area_id"`
	PricePerDay string `json:"price_per_day" example:"1500.00"`
}

type ReservationResponse struct {
	ID            string                      `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID        string                      `json:"user_id" example:"user-123"`
	SpaceID       string                      `json:"coworking_space_id"`
	StartDate     string                      `json:"start_date" example:"2025-06-01"`
	EndDate       string                      `json:"end_date" example:"2025-06-03"`
	Days          int                         `json:"days" example:"3"`
	Status        string                      `json:"status" example:"pending"`
	TotalPrice    string                      `json:"total_price" example:"4500.00"`
	PaymentMethod string                      `json:"payment_method,omitempty"`
	Details       []ReservationDetailResponse `json:"details"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	details := make([]ReservationDetailResponse, len(r.Details))
	for i, d := range r.Details {
		details[i] = ReservationDetailResponse{AreaID: d.AreaID, PricePerDay: d.PricePerDay.StringFixed(2)}
	}
	return ReservationResponse{
		ID: r.ID, UserID: r.UserID, SpaceID: r.SpaceID,
		StartDate: formatDate(r.Period.Start), EndDate: formatDate(r.Period.End), Days: r.Period.Days(),
		Status: string(r.Status), TotalPrice: r.TotalPrice.StringFixed(2), PaymentMethod: r.PaymentMethod,
		Details: details, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toReservationResponses(list []*reservation.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(list))
	for i, r := range list {
		resp[i] = toReservationResponse(r)
	}
	return resp
}

// Create godoc
// @Summary 予約を作成
// @Description エリアを日付範囲で予約します（保留中で作成）
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "エリアが既に予約済み"
// @Failure 422 {object} api.ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CreateReservationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	r, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		UserID:        userID,
		SpaceID:       req.SpaceID,
		StartDate:     start,
		EndDate:       end,
		AreaIDs:       req.AreaIDs,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	r, err := h.service.GetReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// GetUserReservations godoc
// @Summary ユーザーの予約一覧を取得
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /reservations [get]
func (h *ReservationHandler) GetUserReservations(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, err := h.service.GetUserReservations(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}

// Confirm godoc
// @Summary 予約を確定
// @Description スペースのホストが保留中の予約を確定します
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ホストのユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 422 {object} api.ErrorResponse
// @Router /reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c echo.Context) error {
	actorID, err := requireUserID(c)
	if err != nil {
		return err
	}
	r, err := h.service.ConfirmReservation(c.Request().Context(), c.Param("id"), actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約者本人が予約をキャンセルし、エリアを解放します
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 422 {object} api.ErrorResponse
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	requesterID, err := requireUserID(c)
	if err != nil {
		return err
	}
	r, err := h.service.CancelReservation(c.Request().Context(), c.Param("id"), requesterID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}
