package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/logger"
)

const (
	dayKeyPrefix = "consultations:day:"

	// versions outlive any listing so an in-flight read cannot see one reset
	versionTTL = 24 * time.Hour
)

// setIfUnchanged writes KEYS[2] only while KEYS[1] (missing counts as 0)
// still holds ARGV[1]. ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfUnchanged = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
if ARGV[3] == '0' then
	redis.call('SET', KEYS[2], ARGV[2])
else
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
end
return 1
`)

// NewRedisClient parses a redis:// URL and pings the server once.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Log.Info("connected to redis")
	return client, nil
}

// RedisDayCache stores the by-date consultation listing as JSON. Failures
// are logged and treated as misses; the database stays the source of truth.
type RedisDayCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisDayCache(client redis.Cmdable, ttl time.Duration) *RedisDayCache {
	return &RedisDayCache{client: client, ttl: ttl}
}

func dayKey(date string) string {
	return dayKeyPrefix + date
}

func versionKey(date string) string {
	return dayKeyPrefix + date + ":version"
}

func (c *RedisDayCache) Get(ctx context.Context, date string) ([]dto.ConsultationView, bool) {
	raw, err := c.client.Get(ctx, dayKey(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.WithField("date", date).WithError(err).Warn("day cache read failed")
		return nil, false
	}

	var views []dto.ConsultationView
	if err := json.Unmarshal(raw, &views); err != nil {
		logger.WithField("date", date).WithError(err).Warn("day cache entry corrupt")
		return nil, false
	}
	return views, true
}

// Version returns -1 when redis cannot answer, which no write will match.
func (c *RedisDayCache) Version(ctx context.Context, date string) int64 {
	v, err := c.client.Get(ctx, versionKey(date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		logger.WithField("date", date).WithError(err).Warn("day cache version read failed")
		return -1
	}
	return v
}

func (c *RedisDayCache) SetIfUnchanged(ctx context.Context, date string, version int64, views []dto.ConsultationView) {
	if version < 0 {
		return
	}

	raw, err := json.Marshal(views)
	if err != nil {
		return
	}

	err = setIfUnchanged.Run(ctx, c.client,
		[]string{versionKey(date), dayKey(date)},
		strconv.FormatInt(version, 10), raw, c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		logger.WithField("date", date).WithError(err).Warn("day cache write failed")
	}
}

func (c *RedisDayCache) Invalidate(ctx context.Context, dates ...string) {
	if len(dates) == 0 {
		return
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range dates {
			pipe.Incr(ctx, versionKey(d))
			pipe.Expire(ctx, versionKey(d), versionTTL)
			pipe.Del(ctx, dayKey(d))
		}
		return nil
	})
	if err != nil {
		logger.WithField("dates", dates).WithError(err).Warn("day cache invalidation failed")
	}
}

// Noop is used when no redis URL is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]dto.ConsultationView, bool)            { return nil, false }
func (Noop) Version(context.Context, string) int64                                 { return 0 }
func (Noop) SetIfUnchanged(context.Context, string, int64, []dto.ConsultationView) {}
func (Noop) Invalidate(context.Context, ...string)                                 {}
