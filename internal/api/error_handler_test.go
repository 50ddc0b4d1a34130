package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"引数エラー", reservation.ErrSpanTooLong, http.StatusBadRequest},
		{"エリア不一致", &area.MismatchError{AreaIDs: []string{"x"}}, http.StatusBadRequest},
		{"存在しない", coworking.ErrSpaceNotFound, http.StatusNotFound},
		{"競合", &reservation.UnavailableError{AreaIDs: []string{"a1"}}, http.StatusConflict},
		{"権限なし", reservation.ErrNotOwner, http.StatusForbidden},
		{"状態不正", reservation.ErrReservationAlreadyCancelled, http.StatusUnprocessableEntity},
		{"ラップされた業務エラー", fmt.Errorf("wrap: %w", reservation.ErrReservationNotFound), http.StatusNotFound},
		{"内部エラー", errors.New("db down"), http.StatusInternalServerError},
		{"echoのエラー", echo.NewHTTPError(http.StatusUnauthorized, "no user"), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestCustomHTTPErrorHandler(t *testing.T) {
	e := echo.New()

	serve := func(err error) (*httptest.ResponseRecorder, ErrorResponse) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", nil)
		rec := httptest.NewRecorder()
		CustomHTTPErrorHandler(err, e.NewContext(req, rec))
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return rec, resp
	}

	t.Run("競合エリアを詳細に含める", func(t *testing.T) {
		rec, resp := serve(&reservation.UnavailableError{AreaIDs: []string{"a1", "a2"}})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "areas_unavailable", resp.Code)
		assert.Equal(t, http.StatusConflict, resp.Status)
		assert.Equal(t, []string{"a1", "a2"}, resp.Details)
	})

	t.Run("内部エラーの内容は返さない", func(t *testing.T) {
		rec, resp := serve(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal", resp.Code)
		assert.NotContains(t, resp.Error, "pq")
	})

	t.Run("echoのエラーはメッセージをそのまま返す", func(t *testing.T) {
		rec, resp := serve(echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthenticated", resp.Code)
		assert.Equal(t, "ユーザーIDが必要です", resp.Error)
	})

	t.Run("検証エラー", func(t *testing.T) {
		rec, resp := serve(&ValidationError{Fields: []string{"start_date:dateonly"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_failed", resp.Code)
		assert.Equal(t, []string{"start_date:dateonly"}, resp.Details)
	})
}
