package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/apperror"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Status  int      `json:"status"`
	Details []string `json:"details,omitempty"`
}

var kindStatus = map[apperror.Kind]int{
	apperror.KindInvalidArgument: http.StatusBadRequest,
	apperror.KindNotFound:        http.StatusNotFound,
	apperror.KindConflict:        http.StatusConflict,
	apperror.KindUnauthorized:    http.StatusForbidden,
	apperror.KindInvalidState:    http.StatusUnprocessableEntity,
	apperror.KindInternal:        http.StatusInternalServerError,
}

// HTTPStatus はエラーに対応するHTTPステータスを返す
func HTTPStatus(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	if status, ok := kindStatus[apperror.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewErrorResponse はエラーからレスポンスを組み立てる
// 業務エラー以外の内部エラーは詳細を返さない
func NewErrorResponse(err error) ErrorResponse {
	if he, ok := err.(*echo.HTTPError); ok {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		return ErrorResponse{Error: message, Code: codeForStatus(he.Code), Status: he.Code}
	}
	if appErr, ok := apperror.As(err); ok {
		return ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Status:  HTTPStatus(err),
			Details: apperror.DetailsOf(err),
		}
	}
	return ErrorResponse{
		Error:  "内部サーバーエラー",
		Code:   string(apperror.KindInternal),
		Status: http.StatusInternalServerError,
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusServiceUnavailable:
		return "unavailable"
	}
	if status >= 500 {
		return string(apperror.KindInternal)
	}
	return "error"
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := NewErrorResponse(err)

	// エラーログを出力（5xx エラーの場合）
	if resp.Status >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", resp.Status),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(resp.Status)
	} else {
		sendErr = c.JSON(resp.Status, resp)
	}
	if sendErr != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(sendErr))
	}
}
