package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
)

// AvailabilityCache はプロセス内に空き状況の判定結果をスペースの世代ごとに保持する
type AvailabilityCache struct {
	c *gocache.Cache

	mu          sync.Mutex
	generations map[string]int64
}

func NewAvailabilityCache(ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{c: gocache.New(ttl, 2*ttl), generations: make(map[string]int64)}
}

func (c *AvailabilityCache) Generation(ctx context.Context, spaceID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[spaceID], nil
}

func (c *AvailabilityCache) Get(ctx context.Context, spaceID string, generation int64, key string) (*reservation.Availability, bool, error) {
	v, ok := c.c.Get(entryKey(spaceID, generation, key))
	if !ok {
		return nil, false, nil
	}
	return copyAvailability(v.(*reservation.Availability)), true, nil
}

// Set は世代が読み取り時から変わっていない場合だけ保存する
func (c *AvailabilityCache) Set(ctx context.Context, spaceID string, generation int64, key string, a *reservation.Availability) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[spaceID] != generation {
		return nil
	}
	c.c.SetDefault(entryKey(spaceID, generation, key), copyAvailability(a))
	return nil
}

// InvalidateSpace は世代を進め、古い世代の結果を削除する
func (c *AvailabilityCache) InvalidateSpace(ctx context.Context, spaceID string) error {
	c.mu.Lock()
	c.generations[spaceID]++
	c.mu.Unlock()

	prefix := spaceID + "|"
	for k := range c.c.Items() {
		if strings.HasPrefix(k, prefix) {
			c.c.Delete(k)
		}
	}
	return nil
}

func entryKey(spaceID string, generation int64, key string) string {
	return spaceID + "|" + strconv.FormatInt(generation, 10) + "|" + key
}

func copyAvailability(a *reservation.Availability) *reservation.Availability {
	return &reservation.Availability{
		Available:          a.Available,
		ConflictingAreaIDs: append([]string{}, a.ConflictingAreaIDs...),
	}
}
