package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/codmetric/codmetricbot/pkg/adapters/memory"
	"github.com/codmetric/codmetricbot/pkg/adapters/redis"
	"github.com/codmetric/codmetricbot/pkg/intent"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newReplica builds a Manager the way a separate process would: its own
// client, lock table and saved-transcript store, sharing only Redis.
func newReplica(t *testing.T, mr *miniredis.Miniredis) *Manager {
	t.Helper()
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewManager(memory.NewStore(),
		WithLiveStore(redis.NewFromClient(client, redis.WithPrefix("test:live:"))),
		WithLocker(redis.NewLocker(client, "test:")),
		WithWelcome(intent.Welcome),
	)
}

func TestManager_ReplicasShareConversation(t *testing.T) {
	mr := miniredis.RunT(t)
	a, b := newReplica(t, mr), newReplica(t, mr)
	d := intent.New()
	ctx := context.Background()

	id, _, err := a.Chat(ctx, d, "", "2+2")
	require.NoError(t, err)

	_, out, err := b.Chat(ctx, d, id, "3*3")
	require.NoError(t, err)
	assert.Equal(t, "Result = 9", out.Reply.Response)

	lines, err := a.Transcript(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CodmetricBot: " + intent.Welcome, "",
		"You: 2+2", "CodmetricBot: Result = 4", "",
		"You: 3*3", "CodmetricBot: Result = 9", "",
	}, lines)

	_, _, err = b.Chat(ctx, d, id, "bye")
	require.NoError(t, err)
	_, err = a.Transcript(ctx, id)
	assert.Error(t, err, "a farewell on one replica ends the conversation everywhere")
}

func TestManager_ReplicasSerializeExchanges(t *testing.T) {
	mr := miniredis.RunT(t)
	replicas := []*Manager{newReplica(t, mr), newReplica(t, mr)}
	d := intent.New()
	ctx := context.Background()

	id, err := replicas[0].Open(ctx, "shared")
	require.NoError(t, err)

	const perReplica = 4
	var wg sync.WaitGroup
	for r, m := range replicas {
		for i := range perReplica {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := m.Chat(ctx, d, id, fmt.Sprintf("%d+%d", r, i))
				assert.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	lines, err := replicas[1].Transcript(ctx, id)
	require.NoError(t, err)
	// Welcome plus every exchange: a lost update would drop lines.
	assert.Len(t, lines, 2+3*perReplica*len(replicas))
}
