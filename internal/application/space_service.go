package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/logger"
)

type SpaceService struct {
	spaceRepo coworking.Repository
	clock     clock.Clock
}

func NewSpaceService(sr coworking.Repository, clk clock.Clock) *SpaceService {
	return &SpaceService{spaceRepo: sr, clock: clk}
}

type CreateSpaceInput struct {
	HostID   string
	Name     string
	Capacity int
}

// CreateSpace は審査待ちのスペースを登録する
func (s *SpaceService) CreateSpace(ctx context.Context, input CreateSpaceInput) (*coworking.Space, error) {
	sp := coworking.NewSpace(input.HostID, input.Name, input.Capacity, s.clock.Now())
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	if err := s.spaceRepo.Create(ctx, sp); err != nil {
		return nil, fmt.Errorf("スペース作成に失敗しました: %w", err)
	}
	return sp, nil
}

func (s *SpaceService) GetSpace(ctx context.Context, id string) (*coworking.Space, error) {
	return s.spaceRepo.GetByID(ctx, id)
}

// ApproveSpace はスペースを承認し、予約を受け付けられるようにする
func (s *SpaceService) ApproveSpace(ctx context.Context, id string) (*coworking.Space, error) {
	return s.review(ctx, id, (*coworking.Space).Approve)
}

// RejectSpace はスペースを却下する
func (s *SpaceService) RejectSpace(ctx context.Context, id string) (*coworking.Space, error) {
	return s.review(ctx, id, (*coworking.Space).Reject)
}

func (s *SpaceService) review(ctx context.Context, id string, apply func(*coworking.Space, time.Time) error) (*coworking.Space, error) {
	sp, err := s.spaceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(sp, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.spaceRepo.UpdateStatus(ctx, sp); err != nil {
		return nil, fmt.Errorf("スペースの審査状態の更新に失敗: %w", err)
	}
	logger.Info("スペースの審査状態を更新しました", zap.String("space_id", sp.ID), zap.String("status", string(sp.Status)))
	return sp, nil
}
