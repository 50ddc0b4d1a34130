package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-coworking-reservation/internal/application"
)

type AvailabilityHandler struct {
	service AvailabilityServiceInterface
}

func NewAvailabilityHandler(s AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: s}
}

type AvailabilityRequest struct {
	SpaceID   string `param:"space_id" validate:"required"`
	StartDate string `query:"start_date" validate:"required,dateonly"`
	EndDate   string `query:"end_date" validate:"required,dateonly"`
	AreaIDs   string `query:"area_ids" validate:"required"`
}

type AvailabilityResponse struct {
	Available          bool     `json:"available"`
	ConflictingAreaIDs []string `json:"conflicting_area_ids"`
}

// Check godoc
// @Summary エリアの空き状況を確認
// @Tags availability
// @Produce json
// @Param space_id path string true "スペースID"
// @Param start_date query string true "開始日 (YYYY-MM-DD)"
// @Param end_date query string true "終了日 (YYYY-MM-DD)"
// @Param area_ids query string true "エリアID（カンマ区切り）"
// @Success 200 {object} AvailabilityResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /spaces/{space_id}/availability [get]
func (h *AvailabilityHandler) Check(c echo.Context) error {
	var req AvailabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	a, err := h.service.CheckAvailabilityCached(c.Request().Context(), application.CheckAvailabilityInput{
		SpaceID:   req.SpaceID,
		StartDate: start,
		EndDate:   end,
		AreaIDs:   splitIDs(req.AreaIDs),
	})
	if err != nil {
		return err
	}
	conflicts := a.ConflictingAreaIDs
	if conflicts == nil {
		conflicts = []string{}
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{Available: a.Available, ConflictingAreaIDs: conflicts})
}
