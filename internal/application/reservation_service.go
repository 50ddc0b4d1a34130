package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-coworking-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/apperror"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/metrics"
)

const (
	lockTTL           = 10 * time.Second
	lockMaxRetries    = 3
	lockRetryInterval = 100 * time.Millisecond

	defaultListLimit = 20
	maxListLimit     = 100
)

// ReservationService は予約の作成と状態遷移を担う。予約の状態を変更するのはこのサービスだけ
type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	spaceRepo       coworking.Repository
	availability    *AvailabilityService
	lockManager     redisinfra.LockManagerInterface
	clock           clock.Clock
	metrics         *metrics.Metrics
}

// NewReservationService は予約サービスを作成する。lm と m は nil でもよい
func NewReservationService(
	txm transaction.Manager,
	rr reservation.Repository,
	sr coworking.Repository,
	availability *AvailabilityService,
	lm redisinfra.LockManagerInterface,
	clk clock.Clock,
	m *metrics.Metrics,
) *ReservationService {
	return &ReservationService{
		txManager:       txm,
		reservationRepo: rr,
		spaceRepo:       sr,
		availability:    availability,
		lockManager:     lm,
		clock:           clk,
		metrics:         m,
	}
}

type CreateReservationInput struct {
	UserID        string
	SpaceID       string
	StartDate     time.Time
	EndDate       time.Time
	AreaIDs       []string
	PaymentMethod string
}

// CreateReservation は保留中の予約を作成する
// 空き確認から保存までを1トランザクションで行い、スペース行のロックで同一スペースの予約作成を直列化する
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	res, err := s.createReservation(ctx, input)
	s.record("create", err)
	if err != nil {
		return nil, err
	}
	logger.Info("予約を作成しました",
		zap.String("reservation_id", res.ID),
		zap.String("space_id", res.SpaceID),
		zap.String("user_id", res.UserID),
		zap.Stringer("period", res.Period),
		zap.Strings("area_ids", res.AreaIDs()),
	)
	return res, nil
}

func (s *ReservationService) createReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	if input.UserID == "" {
		return nil, reservation.ErrUserIDRequired
	}

	space, err := s.availability.catalog.GetSpace(ctx, input.SpaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsApproved() {
		return nil, coworking.ErrSpaceNotApproved
	}
	if space.IsHostedBy(input.UserID) {
		return nil, reservation.ErrSelfBooking
	}

	period, areas, err := s.availability.validateRequest(ctx, space, input.StartDate, input.EndDate, input.AreaIDs)
	if err != nil {
		return nil, err
	}
	areaIDs := areaIDsOf(areas)

	// 同じエリアへの同時リクエストを早めに弾く。正しさはトランザクション側で担保する
	if s.lockManager != nil {
		lock, err := s.acquireAreaLocks(ctx, areaIDs)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("ロック解放エラー", zap.Error(err))
			}
		}()
	}

	var res *reservation.Reservation
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		locked, err := s.spaceRepo.GetForUpdate(ctx, tx, space.ID)
		if err != nil {
			return err
		}
		if !locked.IsApproved() {
			return coworking.ErrSpaceNotApproved
		}

		availability, err := s.availability.check(ctx, tx, space.ID, period, areaIDs)
		if err != nil {
			return err
		}
		if !availability.Available {
			return &reservation.UnavailableError{AreaIDs: availability.ConflictingAreaIDs}
		}

		res = reservation.NewReservation(input.UserID, space.ID, period, input.PaymentMethod, areas, s.clock.Now())
		if err := res.Validate(); err != nil {
			return err
		}
		return s.reservationRepo.Create(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}

	s.availability.InvalidateSpace(ctx, space.ID)
	return res, nil
}

func (s *ReservationService) acquireAreaLocks(ctx context.Context, areaIDs []string) (redisinfra.Lock, error) {
	keys := make([]string, len(areaIDs))
	for i, id := range areaIDs {
		keys[i] = redisinfra.AreaLockKey(id)
	}

	start := time.Now()
	lock, err := s.lockManager.AcquireLocks(ctx, keys, lockTTL, lockMaxRetries, lockRetryInterval)
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "failed"
		}
		s.metrics.DistributedLockDuration.WithLabelValues("acquire", status).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			return nil, reservation.ErrBookingInProgress
		}
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	return lock, nil
}

// CancelReservation は予約者本人の予約をキャンセルし、押さえていたエリアを解放する
func (s *ReservationService) CancelReservation(ctx context.Context, id, requesterID string) (*reservation.Reservation, error) {
	var res *reservation.Reservation
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		r, err := s.reservationRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !r.IsOwnedBy(requesterID) {
			return reservation.ErrNotOwner
		}
		if err := r.Cancel(s.clock.Today(), s.clock.Now()); err != nil {
			return err
		}
		if err := s.reservationRepo.UpdateStatus(ctx, tx, r); err != nil {
			return err
		}
		if err := s.reservationRepo.ReleaseAreaDays(ctx, tx, r.ID); err != nil {
			return err
		}
		res = r
		return nil
	})
	s.record("cancel", err)
	if err != nil {
		return nil, err
	}

	s.availability.InvalidateSpace(ctx, res.SpaceID)
	logger.Info("予約をキャンセルしました", zap.String("reservation_id", res.ID), zap.String("user_id", requesterID))
	return res, nil
}

// ConfirmReservation はスペースのホストが保留中の予約を確定する
func (s *ReservationService) ConfirmReservation(ctx context.Context, id, actorID string) (*reservation.Reservation, error) {
	var res *reservation.Reservation
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		r, err := s.reservationRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		space, err := s.spaceRepo.GetByID(ctx, r.SpaceID)
		if err != nil {
			return err
		}
		if !space.IsHostedBy(actorID) {
			return coworking.ErrNotHost
		}
		if err := r.Confirm(s.clock.Today(), s.clock.Now()); err != nil {
			return err
		}
		if err := s.reservationRepo.UpdateStatus(ctx, tx, r); err != nil {
			return err
		}
		res = r
		return nil
	})
	s.record("confirm", err)
	if err != nil {
		return nil, err
	}

	logger.Info("予約を確定しました", zap.String("reservation_id", res.ID), zap.String("host_id", actorID))
	return res, nil
}

// CompleteExpired は最終日が今日より前の確定済み予約を一括で完了にし、遷移した件数を返す
// 対象がなければ何もしない。確定済みのままの予約だけを更新するので繰り返し実行してよい
func (s *ReservationService) CompleteExpired(ctx context.Context) (int, error) {
	today := s.clock.Today()
	now := s.clock.Now()

	var completed int
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		expired, err := s.reservationRepo.FindConfirmedExpired(ctx, tx, today)
		if err != nil {
			return fmt.Errorf("期限切れ予約の取得に失敗: %w", err)
		}
		ids := make([]string, 0, len(expired))
		for _, r := range expired {
			if err := r.Complete(today, now); err != nil {
				logger.Warn("完了にできない予約をスキップしました", zap.String("reservation_id", r.ID), zap.Error(err))
				continue
			}
			ids = append(ids, r.ID)
		}
		if len(ids) == 0 {
			return nil
		}
		completed, err = s.reservationRepo.CompleteBatch(ctx, tx, ids, now)
		if err != nil {
			return fmt.Errorf("予約の一括完了に失敗: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.CompletedReservationsTotal.Add(float64(completed))
	}
	return completed, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

func (s *ReservationService) GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	if userID == "" {
		return nil, reservation.ErrUserIDRequired
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.reservationRepo.GetByUserID(ctx, userID, limit, offset)
}

func (s *ReservationService) record(operation string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReservationsTotal.WithLabelValues(operation, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, reservation.ErrBookingInProgress):
		return "lock_failed"
	case apperror.IsKind(err, apperror.KindConflict):
		return "conflict"
	case apperror.KindOf(err) != apperror.KindInternal:
		return "rejected"
	default:
		return "error"
	}
}
