package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *trustCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c, err := NewTrustCache(client, time.Minute, zap.NewNop())
	require.NoError(t, err)
	return mr, c.(*trustCache)
}

func TestTrustCacheMissIsNotAnError(t *testing.T) {
	_, c := newTestCache(t)

	score, ok, err := c.Get(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, score)
}

func TestTrustCacheRoundTrip(t *testing.T) {
	mr, c := newTestCache(t)
	playerID := uuid.New()

	require.NoError(t, c.Set(context.Background(), playerID, 42))

	score, ok, err := c.Get(context.Background(), playerID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, score)

	ttl := mr.TTL(trustKeyPrefix + playerID.String())
	assert.Equal(t, time.Minute, ttl)
}

func TestTrustCacheCorruptEntry(t *testing.T) {
	mr, c := newTestCache(t)
	playerID := uuid.New()
	mr.Set(trustKeyPrefix+playerID.String(), "not-a-number")

	_, ok, err := c.Get(context.Background(), playerID)

	require.Error(t, err)
	assert.False(t, ok)
}

func TestNewTrustCacheRequiresClient(t *testing.T) {
	_, err := NewTrustCache(nil, time.Minute, zap.NewNop())
	assert.Error(t, err)
}
