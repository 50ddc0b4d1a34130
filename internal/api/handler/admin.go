package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminHandler は運営向けの操作（スペース審査、期限切れ予約の手動完了）
type AdminHandler struct {
	spaces       SpaceServiceInterface
	reservations ReservationServiceInterface
}

func NewAdminHandler(spaces SpaceServiceInterface, reservations ReservationServiceInterface) *AdminHandler {
	return &AdminHandler{spaces: spaces, reservations: reservations}
}

type CompleteExpiredResponse struct {
	Completed int `json:"completed"`
}

// ApproveSpace godoc
// @Summary スペースを承認
// @Tags admin
// @Produce json
// @Param id path string true "スペースID"
// @Success 200 {object} SpaceResponse
// @Router /admin/spaces/{id}/approve [post]
func (h *AdminHandler) ApproveSpace(c echo.Context) error {
	s, err := h.spaces.ApproveSpace(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSpaceResponse(s))
}

// RejectSpace godoc
// @Summary スペースを却下
// @Tags admin
// @Produce json
// @Param id path string true "スペースID"
// @Success 200 {object} SpaceResponse
// @Router /admin/spaces/{id}/reject [post]
func (h *AdminHandler) RejectSpace(c echo.Context) error {
	s, err := h.spaces.RejectSpace(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSpaceResponse(s))
}

// CompleteExpired godoc
// @Summary 期限切れの確定済み予約を完了にする
// @Description 定期実行と同じ処理を即時に実行します
// @Tags admin
// @Produce json
// @Success 200 {object} CompleteExpiredResponse
// @Router /admin/reservations/complete-expired [post]
func (h *AdminHandler) CompleteExpired(c echo.Context) error {
	n, err := h.reservations.CompleteExpired(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CompleteExpiredResponse{Completed: n})
}
