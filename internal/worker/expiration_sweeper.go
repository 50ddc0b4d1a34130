package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/metrics"
)

// ReservationCompleter は利用期間を過ぎた確定済み予約を完了にするインターフェース
type ReservationCompleter interface {
	CompleteExpired(ctx context.Context) (int, error)
}

// ExpirationSweeper は定期的に期限切れ予約を完了にするワーカー
// 1回の失敗は記録するだけで、次の実行で同じ条件を再度処理する
type ExpirationSweeper struct {
	completer  ReservationCompleter
	interval   time.Duration
	runOnStart bool
	timeout    time.Duration
	metrics    *metrics.Metrics

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// SweeperOption は ExpirationSweeper のオプション
type SweeperOption func(*ExpirationSweeper)

// WithRunOnStart は開始直後に1回実行する
func WithRunOnStart(enabled bool) SweeperOption {
	return func(s *ExpirationSweeper) { s.runOnStart = enabled }
}

// WithRunTimeout は1回の実行の制限時間を設定する
func WithRunTimeout(d time.Duration) SweeperOption {
	return func(s *ExpirationSweeper) { s.timeout = d }
}

// WithMetrics は実行結果をメトリクスに記録する
func WithMetrics(m *metrics.Metrics) SweeperOption {
	return func(s *ExpirationSweeper) { s.metrics = m }
}

// NewExpirationSweeper は新しいスイーパーを作成
func NewExpirationSweeper(c ReservationCompleter, interval time.Duration, opts ...SweeperOption) *ExpirationSweeper {
	s := &ExpirationSweeper{
		completer: c,
		interval:  interval,
		timeout:   time.Minute,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start はスイーパーを開始し、停止するまでブロックする
func (s *ExpirationSweeper) Start(ctx context.Context) {
	s.started.Store(true)
	defer close(s.doneCh)

	logger.Info("期限切れ予約スイーパー開始",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_start", s.runOnStart),
	)

	if s.runOnStart {
		s.sweep(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れ予約スイーパー停止（コンテキストキャンセル）")
			return
		case <-s.stopCh:
			logger.Info("期限切れ予約スイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止し、実行中の処理の終了を待つ。複数回呼んでもよい
func (s *ExpirationSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if s.started.Load() {
		<-s.doneCh
	}
}

// RunOnce は1回だけ実行し、完了にした件数を返す
func (s *ExpirationSweeper) RunOnce(ctx context.Context) (int, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	count, err := s.completer.CompleteExpired(runCtx)
	if s.metrics != nil {
		result := "success"
		if err != nil {
			result = "error"
		}
		s.metrics.SweeperRunsTotal.WithLabelValues(result).Inc()
	}
	if err != nil {
		return 0, err
	}

	log := logger.Get()
	if count > 0 {
		log.Info("期限切れ予約を完了にしました", zap.Int("count", count), zap.Duration("elapsed", time.Since(start)))
	} else {
		log.Debug("期限切れ予約なし")
	}
	return count, nil
}

func (s *ExpirationSweeper) sweep(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		logger.Error("期限切れ予約の完了処理に失敗", logger.ErrorFields(err)...)
	}
}
