package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockManager struct{ mock.Mock }

func (m *mockManager) Begin(ctx context.Context) (Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Tx), args.Error(1)
}

type mockTx struct{ mock.Mock }

func (m *mockTx) Commit() error   { return m.Called().Error(0) }
func (m *mockTx) Rollback() error { return m.Called().Error(0) }

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("成功時はコミットする", func(t *testing.T) {
		tx := new(mockTx)
		tx.On("Commit").Return(nil)
		m := new(mockManager)
		m.On("Begin", ctx).Return(tx, nil)

		err := Run(ctx, m, func(Tx) error { return nil })

		require.NoError(t, err)
		tx.AssertExpectations(t)
		tx.AssertNotCalled(t, "Rollback")
	})

	t.Run("失敗時はロールバックしてエラーを返す", func(t *testing.T) {
		tx := new(mockTx)
		tx.On("Rollback").Return(nil)
		m := new(mockManager)
		m.On("Begin", ctx).Return(tx, nil)
		boom := errors.New("boom")

		err := Run(ctx, m, func(Tx) error { return boom })

		assert.ErrorIs(t, err, boom)
		tx.AssertNotCalled(t, "Commit")
		tx.AssertExpectations(t)
	})

	t.Run("開始に失敗した場合", func(t *testing.T) {
		m := new(mockManager)
		m.On("Begin", ctx).Return(nil, assert.AnError)

		called := false
		err := Run(ctx, m, func(Tx) error { called = true; return nil })

		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, called)
	})

	t.Run("コミット失敗はロールバックする", func(t *testing.T) {
		tx := new(mockTx)
		tx.On("Commit").Return(assert.AnError)
		tx.On("Rollback").Return(nil)
		m := new(mockManager)
		m.On("Begin", ctx).Return(tx, nil)

		err := Run(ctx, m, func(Tx) error { return nil })

		assert.ErrorIs(t, err, assert.AnError)
		tx.AssertExpectations(t)
	})
}
