package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo *echo.Echo
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// Admin は運営の資格情報付きでリクエストを実行
func (s *TestServer) Admin(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.SetBasicAuth(adminUser, adminPassword)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func user(id string) map[string]string {
	return map[string]string{"X-User-ID": id}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// daysFromToday は今日から n 日後の日付を返す
func daysFromToday(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format("2006-01-02")
}

// setupSpace は承認済みスペースとエリアを作成し、スペースIDとエリアIDを返す
func setupSpace(t *testing.T, server *TestServer, hostID string, capacity int, areaCapacities ...int) (string, []string) {
	t.Helper()
	rec := server.Request("POST", "/api/v1/spaces", map[string]interface{}{
		"name":     "E2Eコワーキング",
		"capacity": capacity,
	}, user(hostID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	spaceID := decodeJSON(t, rec)["id"].(string)

	rec = server.Admin("POST", fmt.Sprintf("/api/v1/admin/spaces/%s/approve", spaceID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	areaIDs := make([]string, 0, len(areaCapacities))
	for i, c := range areaCapacities {
		rec = server.Request("POST", fmt.Sprintf("/api/v1/spaces/%s/areas", spaceID), map[string]interface{}{
			"name":          fmt.Sprintf("エリア%d", i+1),
			"type":          "desk",
			"capacity":      c,
			"price_per_day": "1500.00",
		}, user(hostID))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		areaIDs = append(areaIDs, decodeJSON(t, rec)["id"].(string))
	}
	return spaceID, areaIDs
}

func bookingBody(spaceID, start, end string, areaIDs ...string) map[string]interface{} {
	return map[string]interface{}{
		"coworking_space_id": spaceID,
		"start_date":         start,
		"end_date":           end,
		"area_ids":           areaIDs,
		"payment_method":     "card",
	}
}

// TestE2E_HealthCheck はヘルスチェックをテスト
func TestE2E_HealthCheck(t *testing.T) {
	server := getTestServer(t)

	rec := server.Request("GET", "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeJSON(t, rec)["status"])
}

// TestE2E_CompleteReservationJourney は完全な予約ジャーニーをテスト
func TestE2E_CompleteReservationJourney(t *testing.T) {
	server := getTestServer(t)

	hostID := "e2e-host-suzuki"
	userID := "e2e-user-yamada"
	spaceID, areaIDs := setupSpace(t, server, hostID, 20, 5, 5)
	start, end := daysFromToday(7), daysFromToday(9)
	var reservationID string

	// 1. 空き確認
	t.Run("空き確認", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/spaces/%s/availability?start_date=%s&end_date=%s&area_ids=%s,%s",
			spaceID, start, end, areaIDs[0], areaIDs[1])
		rec := server.Request("GET", path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeJSON(t, rec)
		assert.Equal(t, true, resp["available"])
		assert.Empty(t, resp["conflicting_area_ids"])
	})

	// 2. 予約作成
	t.Run("予約作成", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations", bookingBody(spaceID, start, end, areaIDs...), user(userID))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		resp := decodeJSON(t, rec)
		reservationID = resp["id"].(string)
		assert.Equal(t, "pending", resp["status"])
		// 2エリア × 3日 × 1500
		assert.Equal(t, "9000.00", resp["total_price"])
		assert.Equal(t, float64(3), resp["days"])
	})

	// 3. 予約者本人は確定できない
	t.Run("予約者は確定できない", func(t *testing.T) {
		rec := server.Request("POST", fmt.Sprintf("/api/v1/reservations/%s/confirm", reservationID), nil, user(userID))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	// 4. ホストが確定
	t.Run("ホストが予約確定", func(t *testing.T) {
		rec := server.Request("POST", fmt.Sprintf("/api/v1/reservations/%s/confirm", reservationID), nil, user(hostID))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "confirmed", decodeJSON(t, rec)["status"])
	})

	// 5. 空きがなくなっていることを確認
	t.Run("空きなし確認", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/spaces/%s/availability?start_date=%s&end_date=%s&area_ids=%s",
			spaceID, daysFromToday(9), daysFromToday(10), areaIDs[0])
		rec := server.Request("GET", path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeJSON(t, rec)
		assert.Equal(t, false, resp["available"])
		assert.Equal(t, []interface{}{areaIDs[0]}, resp["conflicting_area_ids"])
	})

	// 6. 予約詳細と一覧
	t.Run("予約詳細確認", func(t *testing.T) {
		rec := server.Request("GET", fmt.Sprintf("/api/v1/reservations/%s", reservationID), nil, user(userID))
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeJSON(t, rec)
		assert.Equal(t, reservationID, resp["id"])
		assert.Equal(t, start, resp["start_date"])
		assert.Len(t, resp["details"], 2)

		rec = server.Request("GET", "/api/v1/reservations", nil, user(userID))
		require.Equal(t, http.StatusOK, rec.Code)
		var list []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})

	// 7. 終了前なので完了処理の対象外
	t.Run("期限前は完了にならない", func(t *testing.T) {
		rec := server.Admin("POST", "/api/v1/admin/reservations/complete-expired")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(0), decodeJSON(t, rec)["completed"])
	})
}

// TestE2E_ReservationConflict は予約競合をテスト
func TestE2E_ReservationConflict(t *testing.T) {
	server := getTestServer(t)

	spaceID, areaIDs := setupSpace(t, server, "host-conflict", 10, 4)

	t.Run("ユーザーAが予約成功", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations",
			bookingBody(spaceID, daysFromToday(3), daysFromToday(5), areaIDs[0]), user("user-A"))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("ユーザーBが重なる期間を予約しようとして失敗", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations",
			bookingBody(spaceID, daysFromToday(5), daysFromToday(6), areaIDs[0]), user("user-B"))
		require.Equal(t, http.StatusConflict, rec.Code)

		resp := decodeJSON(t, rec)
		assert.Equal(t, "areas_unavailable", resp["code"])
		assert.Equal(t, []interface{}{areaIDs[0]}, resp["details"])
	})

	t.Run("隣接する期間は予約できる", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations",
			bookingBody(spaceID, daysFromToday(6), daysFromToday(6), areaIDs[0]), user("user-B"))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

// TestE2E_CancelAndRebook はキャンセル後の再予約をテスト
func TestE2E_CancelAndRebook(t *testing.T) {
	server := getTestServer(t)

	spaceID, areaIDs := setupSpace(t, server, "host-rebook", 10, 2)
	body := bookingBody(spaceID, daysFromToday(5), daysFromToday(5), areaIDs[0])
	var reservationID string

	t.Run("ユーザーAが予約", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations", body, user("user-A"))
		require.Equal(t, http.StatusCreated, rec.Code)
		reservationID = decodeJSON(t, rec)["id"].(string)
	})

	t.Run("他人はキャンセルできない", func(t *testing.T) {
		rec := server.Request("POST", fmt.Sprintf("/api/v1/reservations/%s/cancel", reservationID), nil, user("user-B"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("ユーザーAがキャンセル", func(t *testing.T) {
		rec := server.Request("POST", fmt.Sprintf("/api/v1/reservations/%s/cancel", reservationID), nil, user("user-A"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cancelled", decodeJSON(t, rec)["status"])
	})

	t.Run("二重キャンセルは422", func(t *testing.T) {
		rec := server.Request("POST", fmt.Sprintf("/api/v1/reservations/%s/cancel", reservationID), nil, user("user-A"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("ユーザーBが再予約に成功", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations", body, user("user-B"))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

// TestE2E_ConcurrentBooking は同じエリアへの同時予約で1件だけ成功することをテスト
func TestE2E_ConcurrentBooking(t *testing.T) {
	server := getTestServer(t)

	spaceID, areaIDs := setupSpace(t, server, "host-concurrent", 10, 1)
	body := bookingBody(spaceID, daysFromToday(10), daysFromToday(12), areaIDs[0])

	const n = 10
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := server.Request("POST", "/api/v1/reservations", body, user(fmt.Sprintf("user-%d", i)))
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
		default:
			t.Errorf("予期しないステータス: %d", code)
		}
	}
	assert.Equal(t, 1, created)

	var claims int
	require.NoError(t, testDB.Get(&claims, "SELECT COUNT(*) FROM reservation_area_days WHERE coworking_area_id = $1", areaIDs[0]))
	assert.Equal(t, 3, claims)
}

// TestE2E_SpaceAndAreaRules はスペース審査とエリア収容人数の制約をテスト
func TestE2E_SpaceAndAreaRules(t *testing.T) {
	server := getTestServer(t)

	t.Run("未承認スペースは予約できない", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/spaces", map[string]interface{}{"name": "審査待ち", "capacity": 5}, user("host-pending"))
		require.Equal(t, http.StatusCreated, rec.Code)
		spaceID := decodeJSON(t, rec)["id"].(string)

		rec = server.Request("POST", "/api/v1/reservations",
			bookingBody(spaceID, daysFromToday(1), daysFromToday(1), "area-x"), user("user-A"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("収容人数の合計を超えるエリアは作れない", func(t *testing.T) {
		spaceID, _ := setupSpace(t, server, "host-capacity", 10, 6)

		rec := server.Request("POST", fmt.Sprintf("/api/v1/spaces/%s/areas", spaceID), map[string]interface{}{
			"name": "大部屋", "capacity": 5, "price_per_day": "1000",
		}, user("host-capacity"))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "capacity_exceeded", decodeJSON(t, rec)["code"])
	})

	t.Run("ホストは自分のスペースを予約できない", func(t *testing.T) {
		spaceID, areaIDs := setupSpace(t, server, "host-self", 10, 2)

		rec := server.Request("POST", "/api/v1/reservations",
			bookingBody(spaceID, daysFromToday(2), daysFromToday(2), areaIDs[0]), user("host-self"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("過去の日付は予約できない", func(t *testing.T) {
		spaceID, areaIDs := setupSpace(t, server, "host-past", 10, 2)

		rec := server.Request("POST", "/api/v1/reservations",
			bookingBody(spaceID, daysFromToday(-1), daysFromToday(1), areaIDs[0]), user("user-A"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
