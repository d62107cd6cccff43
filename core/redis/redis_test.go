package redis_test

import (
	"errors"
	"testing"
	"time"

	"bling-sync/core/redis"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestConnect_Unreachable(t *testing.T) {
	_, err := redis.Connect(redis.Config{Addr: "127.0.0.1:1", TimeoutSeconds: 1})
	assert.ErrorContains(t, err, "failed to ping redis")
}

func TestConfig_TTL(t *testing.T) {
	assert.Equal(t, time.Duration(0), redis.Config{}.TTL())
	assert.Equal(t, 90*time.Minute, redis.Config{CacheTTLMinutes: 90}.TTL())
}

func TestIsMiss(t *testing.T) {
	assert.True(t, redis.IsMiss(goredis.Nil))
	assert.False(t, redis.IsMiss(errors.New("other")))
	assert.False(t, redis.IsMiss(nil))
}
