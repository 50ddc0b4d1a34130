package clock

import (
	"sync"
	"time"
)

// Clock は現在時刻の取得元
// 予約の「今日」を決める処理はすべてこれを経由する
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// DateOf は時刻をその時刻自身のロケーションでの暦日に切り詰め、UTC の 0 時として返す
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// System は実時計
type System struct {
	loc *time.Location
}

// New は指定ロケーションで「今日」を判定する実時計を作成する
func New(loc *time.Location) *System {
	if loc == nil {
		loc = time.UTC
	}
	return &System{loc: loc}
}

func (c *System) Now() time.Time {
	return time.Now()
}

func (c *System) Today() time.Time {
	return DateOf(time.Now().In(c.loc))
}

// Fixed はテスト用の固定時計
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixed は固定時計を作成する
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (c *Fixed) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *Fixed) Today() time.Time {
	return DateOf(c.Now())
}

// Set は時刻を進める（戻す）
func (c *Fixed) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
