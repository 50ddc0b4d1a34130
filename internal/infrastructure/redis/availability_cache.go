package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
)

// setIfGenerationScript は世代カウンターが読み取り時と同じ場合だけ結果を保存する
// KEYS[1]: 世代キー, KEYS[2]: 結果キー, ARGV[1]: 世代, ARGV[2]: 値, ARGV[3]: 期限(ms)
const setIfGenerationScript = `
local current = redis.call("GET", KEYS[1]) or "0"
if current == ARGV[1] then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
	return 1
end
return 0
`

// AvailabilityCache は空き状況の判定結果をスペースの世代ごとに保存する
// 予約が変わると世代を進めるので、古い世代の結果は参照されずに期限切れで消える
type AvailabilityCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client redis.Cmdable, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

type cachedAvailability struct {
	Available          bool     `json:"available"`
	ConflictingAreaIDs []string `json:"conflicting_area_ids"`
}

// Generation はスペースの現在の世代を返す。一度も無効化されていなければ 0
func (c *AvailabilityCache) Generation(ctx context.Context, spaceID string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(spaceID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("キャッシュ世代の取得に失敗: %w", err)
	}
	return gen, nil
}

// Get はキャッシュから判定結果を取得する。存在しなければ ok=false
func (c *AvailabilityCache) Get(ctx context.Context, spaceID string, generation int64, key string) (*reservation.Availability, bool, error) {
	raw, err := c.client.Get(ctx, entryKey(spaceID, generation, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var v cachedAvailability
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	return &reservation.Availability{Available: v.Available, ConflictingAreaIDs: v.ConflictingAreaIDs}, true, nil
}

// Set は判定結果を結果ごとの期限付きで保存する
// 判定中にスペースが無効化されていた場合は何もしない
func (c *AvailabilityCache) Set(ctx context.Context, spaceID string, generation int64, key string, a *reservation.Availability) error {
	raw, err := json.Marshal(cachedAvailability{Available: a.Available, ConflictingAreaIDs: a.ConflictingAreaIDs})
	if err != nil {
		return fmt.Errorf("キャッシュの変換に失敗: %w", err)
	}
	keys := []string{generationKey(spaceID), entryKey(spaceID, generation, key)}
	if err := c.client.Eval(ctx, setIfGenerationScript, keys, generation, raw, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// InvalidateSpace はスペースの世代を進め、それまでの判定結果を参照されなくする
func (c *AvailabilityCache) InvalidateSpace(ctx context.Context, spaceID string) error {
	if err := c.client.Incr(ctx, generationKey(spaceID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func generationKey(spaceID string) string {
	return fmt.Sprintf("availability:%s:gen", spaceID)
}

func entryKey(spaceID string, generation int64, key string) string {
	return fmt.Sprintf("availability:%s:%d:%s", spaceID, generation, key)
}
