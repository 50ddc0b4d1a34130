package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// HeaderUserID は呼び出し元ユーザーを示すヘッダー
const HeaderUserID = "X-User-ID"

// requireUserID は X-User-ID ヘッダーの値を返す。なければ 401
func requireUserID(c echo.Context) (string, error) {
	userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	return userID, nil
}

// bindAndValidate はリクエストを読み込んで検証する
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	return c.Validate(req)
}

// parseDate は YYYY-MM-DD 文字列を UTC の日付にする。解釈できなければ 400
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "日付はYYYY-MM-DD形式で指定してください").SetInternal(err)
	}
	return t, nil
}

// parsePeriod は開始日と終了日をまとめて解釈する
func parsePeriod(start, end string) (time.Time, time.Time, error) {
	s, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

// splitIDs はカンマ区切りのIDを分割する
func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
