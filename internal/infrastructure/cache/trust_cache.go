package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arenapulse/anticheat-backend/internal/service/anticheat"
)

const trustKeyPrefix = "anticheat:trust:"

// trustCache implements anticheat.TrustScoreCache using Redis.
type trustCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTrustCache creates a Redis-backed trust-score cache.
func NewTrustCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) (anticheat.TrustScoreCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &trustCache{client: client, ttl: ttl, logger: logger}, nil
}

// Get retrieves a cached trust score. A miss is not an error.
func (c *trustCache) Get(ctx context.Context, playerID uuid.UUID) (int, bool, error) {
	result, err := c.client.Get(ctx, trustKeyPrefix+playerID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		c.logger.Debug("trust cache get failed", zap.String("player_id", playerID.String()), zap.Error(err))
		return 0, false, fmt.Errorf("redis get failed: %w", err)
	}

	score, err := strconv.Atoi(result)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt trust cache entry: %w", err)
	}
	return score, true, nil
}

// Set stores a trust score with the configured TTL.
func (c *trustCache) Set(ctx context.Context, playerID uuid.UUID, score int) error {
	err := c.client.Set(ctx, trustKeyPrefix+playerID.String(), strconv.Itoa(score), c.ttl).Err()
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
