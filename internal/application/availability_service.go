package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/metrics"
)

// AvailabilityCache は空き状況の判定結果のキャッシュ
// 結果はスペースの世代ごとに保持し、InvalidateSpace で世代を進める
// Set は渡された世代が現在の世代と一致する場合だけ保存する
type AvailabilityCache interface {
	Generation(ctx context.Context, spaceID string) (int64, error)
	Get(ctx context.Context, spaceID string, generation int64, key string) (*reservation.Availability, bool, error)
	Set(ctx context.Context, spaceID string, generation int64, key string, a *reservation.Availability) error
	InvalidateSpace(ctx context.Context, spaceID string) error
}

type AvailabilityService struct {
	catalog         *AreaCatalog
	reservationRepo reservation.Repository
	clock           clock.Clock
	cache           AvailabilityCache
	metrics         *metrics.Metrics
}

// NewAvailabilityService は空き状況の判定サービスを作成する。cache と m は nil でもよい
func NewAvailabilityService(catalog *AreaCatalog, rr reservation.Repository, clk clock.Clock, cache AvailabilityCache, m *metrics.Metrics) *AvailabilityService {
	return &AvailabilityService{catalog: catalog, reservationRepo: rr, clock: clk, cache: cache, metrics: m}
}

type CheckAvailabilityInput struct {
	SpaceID   string
	StartDate time.Time
	EndDate   time.Time
	AreaIDs   []string
}

// CheckAvailability は要求したエリアが期間中すべて空いているかを判定する
// 読み取りのみで排他は保証しない
func (s *AvailabilityService) CheckAvailability(ctx context.Context, input CheckAvailabilityInput) (*reservation.Availability, error) {
	space, err := s.catalog.GetSpace(ctx, input.SpaceID)
	if err != nil {
		return nil, err
	}
	period, areas, err := s.validateRequest(ctx, space, input.StartDate, input.EndDate, input.AreaIDs)
	if err != nil {
		return nil, err
	}
	result, err := s.check(ctx, nil, space.ID, period, areaIDsOf(areas))
	if err != nil {
		return nil, err
	}
	s.record("store", result)
	return result, nil
}

// CheckAvailabilityCached は CheckAvailability の結果をキャッシュする公開照会用の入口
// 予約作成はキャッシュを参照しない
func (s *AvailabilityService) CheckAvailabilityCached(ctx context.Context, input CheckAvailabilityInput) (*reservation.Availability, error) {
	if s.cache == nil {
		return s.CheckAvailability(ctx, input)
	}

	space, err := s.catalog.GetSpace(ctx, input.SpaceID)
	if err != nil {
		return nil, err
	}
	period, areas, err := s.validateRequest(ctx, space, input.StartDate, input.EndDate, input.AreaIDs)
	if err != nil {
		return nil, err
	}
	ids := areaIDsOf(areas)
	key := cacheKey(period, ids)

	// 世代は判定より前に読む。判定中に予約が入れば Set は捨てられる
	gen, err := s.cache.Generation(ctx, space.ID)
	if err != nil {
		logger.Warn("キャッシュ世代取得エラー", zap.String("space_id", space.ID), zap.Error(err))
		result, err := s.check(ctx, nil, space.ID, period, ids)
		if err != nil {
			return nil, err
		}
		s.record("store", result)
		return result, nil
	}

	cached, ok, err := s.cache.Get(ctx, space.ID, gen, key)
	if err != nil {
		logger.Warn("キャッシュ取得エラー", zap.String("space_id", space.ID), zap.Error(err))
	}
	if ok {
		logger.Debug("キャッシュヒット", zap.String("space_id", space.ID), zap.String("key", key))
		s.record("cache", cached)
		return cached, nil
	}

	result, err := s.check(ctx, nil, space.ID, period, ids)
	if err != nil {
		return nil, err
	}
	s.record("store", result)

	if err := s.cache.Set(ctx, space.ID, gen, key, result); err != nil {
		logger.Warn("キャッシュ保存エラー", zap.String("space_id", space.ID), zap.Error(err))
	}
	return result, nil
}

// InvalidateSpace はスペースのキャッシュを無効化する
func (s *AvailabilityService) InvalidateSpace(ctx context.Context, spaceID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSpace(ctx, spaceID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.String("space_id", spaceID), zap.Error(err))
	}
}

// validateRequest は照会・予約に共通の事前条件を検証し、正規化した期間と要求順のエリアを返す
func (s *AvailabilityService) validateRequest(ctx context.Context, space *coworking.Space, start, end time.Time, areaIDs []string) (reservation.DateRange, []*area.Area, error) {
	ids := uniqueIDs(areaIDs)
	if len(ids) == 0 {
		return reservation.DateRange{}, nil, reservation.ErrAreaIDsRequired
	}
	period := reservation.NewDateRange(start, end)
	if err := period.Validate(s.clock.Today()); err != nil {
		return reservation.DateRange{}, nil, err
	}
	areas, err := s.catalog.ResolveAreas(ctx, space.ID, ids)
	if err != nil {
		return reservation.DateRange{}, nil, err
	}
	return period, areas, nil
}

// check は期間が重なる有効な予約と要求エリアを突き合わせる。tx が nil ならトランザクション外で読む
func (s *AvailabilityService) check(ctx context.Context, tx transaction.Tx, spaceID string, period reservation.DateRange, areaIDs []string) (*reservation.Availability, error) {
	overlapping, err := s.reservationRepo.FindOverlapping(ctx, tx, spaceID, period)
	if err != nil {
		return nil, fmt.Errorf("重複予約の取得に失敗: %w", err)
	}
	return reservation.Check(overlapping, areaIDs), nil
}

func (s *AvailabilityService) record(source string, a *reservation.Availability) {
	if s.metrics == nil {
		return
	}
	result := "available"
	if !a.Available {
		result = "unavailable"
	}
	s.metrics.AvailabilityChecksTotal.WithLabelValues(source, result).Inc()
}

func cacheKey(period reservation.DateRange, areaIDs []string) string {
	sorted := make([]string, len(areaIDs))
	copy(sorted, areaIDs)
	sort.Strings(sorted)
	return period.String() + "|" + strings.Join(sorted, ",")
}

func areaIDsOf(areas []*area.Area) []string {
	ids := make([]string, len(areas))
	for i, a := range areas {
		ids[i] = a.ID
	}
	return ids
}
