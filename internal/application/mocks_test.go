package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-coworking-reservation/internal/infrastructure/redis"
)

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}

// MockReservationRepository implements reservation.Repository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	return m.Called(ctx, tx, r).Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindOverlapping(ctx context.Context, tx transaction.Tx, spaceID string, period reservation.DateRange) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, tx, spaceID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	return m.Called(ctx, tx, r).Error(0)
}

func (m *MockReservationRepository) ReleaseAreaDays(ctx context.Context, tx transaction.Tx, reservationID string) error {
	return m.Called(ctx, tx, reservationID).Error(0)
}

func (m *MockReservationRepository) FindConfirmedExpired(ctx context.Context, tx transaction.Tx, asOf time.Time) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, tx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CompleteBatch(ctx context.Context, tx transaction.Tx, ids []string, updatedAt time.Time) (int, error) {
	args := m.Called(ctx, tx, ids, updatedAt)
	return args.Int(0), args.Error(1)
}

// MockSpaceRepository implements coworking.Repository
type MockSpaceRepository struct {
	mock.Mock
}

func (m *MockSpaceRepository) Create(ctx context.Context, s *coworking.Space) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSpaceRepository) GetByID(ctx context.Context, id string) (*coworking.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coworking.Space), args.Error(1)
}

func (m *MockSpaceRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*coworking.Space, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coworking.Space), args.Error(1)
}

func (m *MockSpaceRepository) UpdateStatus(ctx context.Context, s *coworking.Space) error {
	return m.Called(ctx, s).Error(0)
}

// MockAreaRepository implements area.Repository
type MockAreaRepository struct {
	mock.Mock
}

func (m *MockAreaRepository) Create(ctx context.Context, tx transaction.Tx, a *area.Area) error {
	return m.Called(ctx, tx, a).Error(0)
}

func (m *MockAreaRepository) Update(ctx context.Context, tx transaction.Tx, a *area.Area) error {
	return m.Called(ctx, tx, a).Error(0)
}

func (m *MockAreaRepository) GetByID(ctx context.Context, id string) (*area.Area, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*area.Area), args.Error(1)
}

func (m *MockAreaRepository) GetByIDs(ctx context.Context, ids []string) ([]*area.Area, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*area.Area), args.Error(1)
}

func (m *MockAreaRepository) GetBySpaceID(ctx context.Context, spaceID string) ([]*area.Area, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*area.Area), args.Error(1)
}

func (m *MockAreaRepository) SumCapacityBySpaceID(ctx context.Context, tx transaction.Tx, spaceID string) (int, error) {
	args := m.Called(ctx, tx, spaceID)
	return args.Int(0), args.Error(1)
}

// MockLockManager implements redisinfra.LockManagerInterface
type MockLockManager struct {
	mock.Mock
}

func (m *MockLockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

func (m *MockLockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryInterval time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, key, ttl, maxRetries, retryInterval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

func (m *MockLockManager) AcquireLocks(ctx context.Context, keys []string, ttl time.Duration, maxRetries int, retryInterval time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, keys, ttl, maxRetries, retryInterval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

// MockLock implements redisinfra.Lock
type MockLock struct {
	mock.Mock
}

func (m *MockLock) Release(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLock) Extend(ctx context.Context, ttl time.Duration) error {
	return m.Called(ctx, ttl).Error(0)
}

// MockAvailabilityCache implements AvailabilityCache
type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) Generation(ctx context.Context, spaceID string) (int64, error) {
	args := m.Called(ctx, spaceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAvailabilityCache) Get(ctx context.Context, spaceID string, generation int64, key string) (*reservation.Availability, bool, error) {
	args := m.Called(ctx, spaceID, generation, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*reservation.Availability), args.Bool(1), args.Error(2)
}

func (m *MockAvailabilityCache) Set(ctx context.Context, spaceID string, generation int64, key string, a *reservation.Availability) error {
	return m.Called(ctx, spaceID, generation, key, a).Error(0)
}

func (m *MockAvailabilityCache) InvalidateSpace(ctx context.Context, spaceID string) error {
	return m.Called(ctx, spaceID).Error(0)
}
