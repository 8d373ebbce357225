package events_test

import (
	"context"
	"testing"
	"time"

	"ctchen222/tictak/internal/events"
	"ctchen222/tictak/internal/game"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestRedisSink_PublishesToSessionChannel(t *testing.T) {
	rdb := newRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	received, err := events.Subscribe(ctx, rdb, "", "session-1")
	require.NoError(t, err)

	sink := events.NewRedisSink(rdb, "")
	sink.Notify(ctx, events.Moved("session-1", game.Human, 4))
	sink.Notify(ctx, events.Moved("other-session", game.Human, 0))
	finished, _ := events.Finished("session-1", game.HumanWin)
	sink.Notify(ctx, finished)

	first := <-received
	assert.Equal(t, events.HumanMoved, first.Type)
	assert.Equal(t, 4, first.Square)

	second := <-received
	assert.Equal(t, events.HumanWon, second.Type)
	assert.Equal(t, "session-1", second.SessionID)
}
