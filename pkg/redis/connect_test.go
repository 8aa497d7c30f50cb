package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeguard/dashkit/pkg/redis"
)

func TestConnect_InvalidConnectionString(t *testing.T) {
	t.Parallel()

	cfg := redis.Config{
		ConnectionURL:  "not-a-redis-url",
		RetryAttempts:  1,
		RetryInterval:  time.Millisecond,
		ConnectTimeout: time.Second,
	}

	client, err := redis.Connect(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, redis.ErrFailedToParseConnString)
}
