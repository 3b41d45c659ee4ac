package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-event-registration/internal/pkg/metrics"
)

const (
	countKeyPrefix   = "registrations:count:"
	versionKeyPrefix = "registrations:version:"
	countCacheTTL    = 30 * time.Second
	versionTTL       = 24 * time.Hour
)

var (
	ErrCacheMiss  = errors.New("キャッシュにデータがありません")
	ErrStaleCount = errors.New("キャッシュの世代が更新されたため保存しませんでした")
)

// 世代が一致する場合のみ登録数を保存する。世代キーがなければ 0 とみなす
var setCountScript = redis.NewScript(`
	local current = redis.call("GET", KEYS[1])
	if not current then
		current = "0"
	end
	if current ~= ARGV[1] then
		return 0
	end
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
	return 1
`)

// CountCache はイベントごとの登録数をキャッシュする
// 登録・キャンセル時に Invalidate で世代を進め、古い世代で読んだ件数は保存しない
type CountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCountCache(client *redis.Client) *CountCache {
	return &CountCache{client: client, ttl: countCacheTTL}
}

func countKey(eventID string) string {
	return countKeyPrefix + eventID
}

func versionKey(eventID string) string {
	return versionKeyPrefix + eventID
}

// GetCount はキャッシュから登録数を取得する
func (c *CountCache) GetCount(ctx context.Context, eventID string) (int, error) {
	count, err := c.client.Get(ctx, countKey(eventID)).Int()
	if errors.Is(err, redis.Nil) {
		recordLookup("miss")
		return 0, ErrCacheMiss
	}
	if err != nil {
		recordLookup("error")
		return 0, fmt.Errorf("登録数キャッシュ取得に失敗: %w", err)
	}
	recordLookup("hit")
	return count, nil
}

// Version は現在の世代を返す。未設定なら 0
// DB から件数を読む前に取得し、SetCount に渡す
func (c *CountCache) Version(ctx context.Context, eventID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(eventID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("登録数キャッシュの世代取得に失敗: %w", err)
	}
	return v, nil
}

// SetCount は世代が version のままであれば登録数を保存する
// 世代が進んでいた場合は ErrStaleCount を返す
func (c *CountCache) SetCount(ctx context.Context, eventID string, count int, version int64) error {
	stored, err := setCountScript.Run(ctx, c.client,
		[]string{versionKey(eventID), countKey(eventID)},
		version, count, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("登録数キャッシュ保存に失敗: %w", err)
	}
	if stored == 0 {
		return ErrStaleCount
	}
	return nil
}

// Invalidate は世代を進めてキャッシュを削除する
func (c *CountCache) Invalidate(ctx context.Context, eventID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(eventID))
		pipe.Expire(ctx, versionKey(eventID), versionTTL)
		pipe.Del(ctx, countKey(eventID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("登録数キャッシュ削除に失敗: %w", err)
	}
	return nil
}

func recordLookup(result string) {
	if m := metrics.Get(); m != nil {
		m.CacheLookupsTotal.WithLabelValues(result).Inc()
	}
}
