package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/logger"
)

// AreaService はホストによるエリアの登録と変更を扱う
type AreaService struct {
	txManager transaction.Manager
	spaceRepo coworking.Repository
	areaRepo  area.Repository
	capacity  *CapacityValidator
	clock     clock.Clock
}

func NewAreaService(txm transaction.Manager, sr coworking.Repository, ar area.Repository, cv *CapacityValidator, clk clock.Clock) *AreaService {
	return &AreaService{txManager: txm, spaceRepo: sr, areaRepo: ar, capacity: cv, clock: clk}
}

type CreateAreaInput struct {
	HostID      string
	SpaceID     string
	Name        string
	Type        string
	Capacity    int
	PricePerDay decimal.Decimal
}

// CreateArea はスペースにエリアを追加する
func (s *AreaService) CreateArea(ctx context.Context, input CreateAreaInput) (*area.Area, error) {
	a := area.NewArea(input.SpaceID, input.Name, input.Type, input.Capacity, input.PricePerDay, s.clock.Now())
	if err := a.Validate(); err != nil {
		return nil, err
	}

	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		space, err := s.lockHostedSpace(ctx, tx, input.SpaceID, input.HostID)
		if err != nil {
			return err
		}
		if err := s.capacity.Validate(ctx, tx, space, a.Capacity); err != nil {
			return err
		}
		return s.areaRepo.Create(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("エリアを作成しました", zap.String("area_id", a.ID), zap.String("space_id", a.SpaceID), zap.Int("capacity", a.Capacity))
	return a, nil
}

type UpdateAreaInput struct {
	HostID      string
	AreaID      string
	Capacity    int
	PricePerDay decimal.Decimal
}

// UpdateArea はエリアの収容人数と日額料金を変更する
// 既存の予約明細は予約時点の料金を保持しているため影響しない
func (s *AreaService) UpdateArea(ctx context.Context, input UpdateAreaInput) (*area.Area, error) {
	current, err := s.areaRepo.GetByID(ctx, input.AreaID)
	if err != nil {
		return nil, err
	}

	var updated *area.Area
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		space, err := s.lockHostedSpace(ctx, tx, current.SpaceID, input.HostID)
		if err != nil {
			return err
		}
		// ロック待ちの間に他の変更が入っている可能性があるので読み直す
		a, err := s.areaRepo.GetByID(ctx, input.AreaID)
		if err != nil {
			return err
		}
		delta := input.Capacity - a.Capacity

		a.Capacity = input.Capacity
		a.PricePerDay = input.PricePerDay
		a.UpdatedAt = s.clock.Now()
		if err := a.Validate(); err != nil {
			return err
		}
		if err := s.capacity.Validate(ctx, tx, space, delta); err != nil {
			return err
		}
		if err := s.areaRepo.Update(ctx, tx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListAreas はスペースのエリア一覧を返す
func (s *AreaService) ListAreas(ctx context.Context, spaceID string) ([]*area.Area, error) {
	if _, err := s.spaceRepo.GetByID(ctx, spaceID); err != nil {
		return nil, err
	}
	areas, err := s.areaRepo.GetBySpaceID(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("エリア一覧の取得に失敗: %w", err)
	}
	return areas, nil
}

func (s *AreaService) lockHostedSpace(ctx context.Context, tx transaction.Tx, spaceID, hostID string) (*coworking.Space, error) {
	space, err := s.spaceRepo.GetForUpdate(ctx, tx, spaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsHostedBy(hostID) {
		return nil, coworking.ErrNotHost
	}
	return space, nil
}
