package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/codmetric/codmetricbot/pkg/adapters/redis"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunTranscriptStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	now := time.Date(2026, time.October, 15, 14, 5, 0, 0, time.UTC)
	clock := ports.ClockFunc(func() time.Time { return now })

	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithClock(clock))
	ctx := context.Background()
	name := "chatlog_20261015_140500.txt"

	require.NoError(t, store.Save(ctx, name, "You: hi"))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, name)

	mr.FastForward(2 * time.Second)
	_, err = store.Load(ctx, name)
	assert.ErrorIs(t, err, domain.ErrTranscriptNotFound)

	now = now.Add(2 * time.Second)
	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names, "expired entries are pruned from the index on List")
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "chatlog_a.txt", "You: hi"))

	assert.True(t, mr.Exists("custom:app:chatlog_a.txt"))
	assert.True(t, mr.Exists("custom:app:index"))

	got, err := mr.Get("custom:app:chatlog_a.txt")
	require.NoError(t, err)
	assert.Equal(t, "You: hi", got)
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client)
	require.NoError(t, store.Save(context.Background(), "chatlog_a.txt", "x"))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"chatlog_a.txt"))
	assert.Zero(t, mr.TTL(redis.DefaultPrefix+"chatlog_a.txt"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	mr.Close()

	ctx := context.Background()
	assert.Error(t, store.Save(ctx, "chatlog_a.txt", "x"))
	_, err := store.Load(ctx, "chatlog_a.txt")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrTranscriptNotFound)
}
