package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("YYYY-MM-DD を UTC の日付にする", func(t *testing.T) {
		got, err := parseDate("2025-06-01")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)
	})

	tests := []struct {
		name  string
		input string
	}{
		{name: "存在しない日付", input: "2025-02-30"},
		{name: "書式違い", input: "2025/06/01"},
		{name: "空文字", input: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name+"は400エラー", func(t *testing.T) {
			_, err := parseDate(tt.input)

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
			assert.Error(t, httpErr.Internal)
		})
	}
}

func TestParsePeriod(t *testing.T) {
	t.Run("開始日と終了日を解釈する", func(t *testing.T) {
		start, end, err := parsePeriod("2025-06-01", "2025-06-03")

		require.NoError(t, err)
		assert.Equal(t, "2025-06-01", formatDate(start))
		assert.Equal(t, "2025-06-03", formatDate(end))
	})

	t.Run("終了日が不正ならエラー", func(t *testing.T) {
		_, _, err := parsePeriod("2025-06-01", "2025-13-01")

		assert.Error(t, err)
	})
}
