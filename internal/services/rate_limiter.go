package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/pkg/models"
)

const rateLimitKeyPrefix = "stylist:ratelimit:"

// RateLimiter counts recommendation requests per caller over a sliding window.
type RateLimiter interface {
	Allow(ctx context.Context, callerKey string) (bool, *models.RateLimitInfo, error)
}

// MemoryRateLimiter keeps request timestamps in process memory.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	callers map[string][]time.Time
}

func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		callers: make(map[string][]time.Time),
	}
}

func (l *MemoryRateLimiter) Allow(ctx context.Context, callerKey string) (bool, *models.RateLimitInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	recent := l.callers[callerKey][:0]
	for _, at := range l.callers[callerKey] {
		if at.After(windowStart) {
			recent = append(recent, at)
		}
	}

	info := &models.RateLimitInfo{Limit: l.limit, ResetTime: now.Add(l.window).Unix()}
	if len(recent) >= l.limit {
		l.callers[callerKey] = recent
		return false, info, nil
	}

	recent = append(recent, now)
	l.callers[callerKey] = recent
	info.Remaining = l.limit - len(recent)

	// Drop callers whose whole history fell out of the window.
	for key, times := range l.callers {
		if len(times) == 0 || !times[len(times)-1].After(windowStart) {
			delete(l.callers, key)
		}
	}
	return true, info, nil
}

// RedisRateLimiter shares the window across instances with a sorted set per
// caller. Redis failures let the request through.
type RedisRateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	logger *logrus.Logger
}

func NewRedisRateLimiter(redis *redis.Client, limit int, window time.Duration, logger *logrus.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		redis:  redis,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, callerKey string) (bool, *models.RateLimitInfo, error) {
	key := rateLimitKey(callerKey)
	now := time.Now()
	windowStart := now.Add(-l.window)
	info := &models.RateLimitInfo{Limit: l.limit, ResetTime: now.Add(l.window).Unix()}

	// Redis pipeline for atomic operations
	pipe := l.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.WithError(err).WithField("caller", callerKey).Warn("Rate limit check failed, allowing request")
		info.Remaining = l.limit - 1
		return true, info, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	count := int(countCmd.Val())
	if count >= l.limit {
		return false, info, nil
	}
	info.Remaining = l.limit - count - 1
	return true, info, nil
}

func rateLimitKey(callerKey string) string {
	return rateLimitKeyPrefix + callerKey
}
