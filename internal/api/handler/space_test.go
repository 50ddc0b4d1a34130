package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-coworking-reservation/internal/api"
	"github.com/sanosuguru/go-coworking-reservation/internal/application"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
)

func sampleSpace(status coworking.Status) *coworking.Space {
	return &coworking.Space{ID: "space-1", HostID: "host-1", Name: "渋谷スペース", Capacity: 20, Status: status, CreatedAt: testNow, UpdatedAt: testNow}
}

func TestSpaceHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("審査待ちで作成される", func(t *testing.T) {
		svc := new(MockSpaceService)
		svc.On("CreateSpace", mock.Anything, application.CreateSpaceInput{HostID: "host-1", Name: "渋谷スペース", Capacity: 20}).
			Return(sampleSpace(coworking.StatusPending), nil)

		rec := httptest.NewRecorder()
		c := e.NewContext(newJSONRequest(http.MethodPost, "/spaces", `{"name":"渋谷スペース","capacity":20}`, "host-1"), rec)

		require.NoError(t, NewSpaceHandler(svc).Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp SpaceResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "host-1", resp.HostID)
	})

	t.Run("収容人数が0なら400", func(t *testing.T) {
		c := e.NewContext(newJSONRequest(http.MethodPost, "/spaces", `{"name":"渋谷スペース","capacity":0}`, "host-1"), httptest.NewRecorder())

		err := NewSpaceHandler(new(MockSpaceService)).Create(c)

		assert.Equal(t, http.StatusBadRequest, api.HTTPStatus(err))
	})
}

func TestAreaHandler(t *testing.T) {
	e := NewTestEcho()
	sampleArea := &area.Area{ID: "area-1", SpaceID: "space-1", Name: "窓際デスク", Type: "desk", Capacity: 4, PricePerDay: decimal.NewFromInt(1500), CreatedAt: testNow, UpdatedAt: testNow}

	t.Run("エリアを追加できる", func(t *testing.T) {
		svc := new(MockAreaService)
		svc.On("CreateArea", mock.Anything, mock.MatchedBy(func(in application.CreateAreaInput) bool {
			return in.HostID == "host-1" && in.SpaceID == "space-1" && in.Capacity == 4 &&
				in.PricePerDay.Equal(decimal.NewFromInt(1500))
		})).Return(sampleArea, nil)

		rec := httptest.NewRecorder()
		c := e.NewContext(newJSONRequest(http.MethodPost, "/spaces/space-1/areas",
			`{"name":"窓際デスク","type":"desk","capacity":4,"price_per_day":"1500"}`, "host-1"), rec)
		c.SetParamNames("space_id")
		c.SetParamValues("space-1")

		require.NoError(t, NewAreaHandler(svc).Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"price_per_day":"1500.00"`)
		svc.AssertExpectations(t)
	})

	t.Run("収容人数超過は409", func(t *testing.T) {
		svc := new(MockAreaService)
		svc.On("UpdateArea", mock.Anything, mock.Anything).Return(nil, area.ErrCapacityExceeded)

		c := e.NewContext(newJSONRequest(http.MethodPut, "/areas/area-1", `{"capacity":50,"price_per_day":1500}`, "host-1"), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues("area-1")

		err := NewAreaHandler(svc).Update(c)

		assert.Equal(t, http.StatusConflict, api.HTTPStatus(err))
	})

	t.Run("ホスト以外は403", func(t *testing.T) {
		svc := new(MockAreaService)
		svc.On("CreateArea", mock.Anything, mock.Anything).Return(nil, coworking.ErrNotHost)

		c := e.NewContext(newJSONRequest(http.MethodPost, "/spaces/space-1/areas", `{"name":"個室","capacity":2}`, "intruder"), httptest.NewRecorder())
		c.SetParamNames("space_id")
		c.SetParamValues("space-1")

		err := NewAreaHandler(svc).Create(c)

		assert.Equal(t, http.StatusForbidden, api.HTTPStatus(err))
	})

	t.Run("一覧を取得できる", func(t *testing.T) {
		svc := new(MockAreaService)
		svc.On("ListAreas", mock.Anything, "space-1").Return([]*area.Area{sampleArea}, nil)

		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/spaces/space-1/areas", nil), rec)
		c.SetParamNames("space_id")
		c.SetParamValues("space-1")

		require.NoError(t, NewAreaHandler(svc).List(c))
		var resp []AreaResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "desk", resp[0].Type)
	})
}

func TestAdminHandler(t *testing.T) {
	e := NewTestEcho()

	t.Run("スペースを承認できる", func(t *testing.T) {
		spaces := new(MockSpaceService)
		spaces.On("ApproveSpace", mock.Anything, "space-1").Return(sampleSpace(coworking.StatusApproved), nil)

		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/admin/spaces/space-1/approve", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues("space-1")

		require.NoError(t, NewAdminHandler(spaces, new(MockReservationService)).ApproveSpace(c))
		assert.Contains(t, rec.Body.String(), `"status":"approved"`)
	})

	t.Run("却下済みの再却下は422", func(t *testing.T) {
		spaces := new(MockSpaceService)
		spaces.On("RejectSpace", mock.Anything, "space-1").Return(nil, coworking.ErrSpaceAlreadyRejected)

		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/admin/spaces/space-1/reject", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues("space-1")

		err := NewAdminHandler(spaces, new(MockReservationService)).RejectSpace(c)

		assert.Equal(t, http.StatusUnprocessableEntity, api.HTTPStatus(err))
	})

	t.Run("期限切れ予約を完了にした件数を返す", func(t *testing.T) {
		reservations := new(MockReservationService)
		reservations.On("CompleteExpired", mock.Anything).Return(3, nil)

		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/admin/reservations/complete-expired", nil), rec)

		require.NoError(t, NewAdminHandler(new(MockSpaceService), reservations).CompleteExpired(c))
		assert.JSONEq(t, `{"completed":3}`, rec.Body.String())
	})
}
