package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/siherrmann/lexent/helper"
)

// CacheKeyPrefix prefixes every cached answer.
const CacheKeyPrefix = "lexent:oracle:"

// CachedOracle stores answers of a wrapped oracle in redis. Answers are only
// cached for successful calls with a non-blank answer. Redis errors fall back to the wrapped oracle.
type CachedOracle struct {
	next   Oracle
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedOracle wraps next with a redis cache. A ttl of zero keeps answers
// without expiry.
func NewCachedOracle(next Oracle, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedOracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedOracle{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// CacheKey returns the redis key of a prompt under the given options.
func CacheKey(prompt string, opts Options) string {
	sum := sha256.Sum256([]byte(opts.Model + "|" + strconv.FormatFloat(opts.Temperature, 'f', -1, 64) + "|" + prompt))
	return CacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Adjudicate returns the cached answer for prompt or asks the wrapped oracle.
func (c *CachedOracle) Adjudicate(ctx context.Context, prompt string, opts Options) (string, error) {
	key := CacheKey(prompt, opts)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("oracle cache read failed", "key", key, "error", err)
	}

	answer, err := c.next.Adjudicate(ctx, prompt, opts)
	if err != nil {
		return "", helper.NewError("cached oracle", err)
	}

	// Blank answers count as oracle failures and are asked again next time.
	if strings.TrimSpace(answer) == "" {
		return answer, nil
	}

	if err := c.client.Set(ctx, key, answer, c.ttl).Err(); err != nil {
		c.logger.Warn("oracle cache write failed", "key", key, "error", err)
	}
	return answer, nil
}
