package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestEnqueueScoresByReadyAt(t *testing.T) {
	mr, client := setupRedis(t)
	producer := NewProducer(client)

	now := time.Now().Unix()
	job := Job{
		ID:        "job-1",
		Type:      "room_update",
		Payload:   json.RawMessage(`{"room_id":"r1"}`),
		MaxRetry:  3,
		CreatedAt: now,
		ExpireAt:  now + 60,
	}

	require.NoError(t, producer.Enqueue(context.Background(), job))

	members, err := mr.ZMembers(PendingQueue)
	require.NoError(t, err)
	require.Len(t, members, 1)

	var stored Job
	require.NoError(t, json.Unmarshal([]byte(members[0]), &stored))
	assert.Equal(t, job.ID, stored.ID)
	assert.Equal(t, job.Type, stored.Type)

	score, err := mr.ZScore(PendingQueue, members[0])
	require.NoError(t, err)
	assert.Equal(t, float64(now), score, "fresh jobs must be eligible as soon as they are created")
}

func TestMustMarshal(t *testing.T) {
	raw := MustMarshal(map[string]string{"k": "v"})
	assert.JSONEq(t, `{"k":"v"}`, string(raw))

	assert.Nil(t, MustMarshal(make(chan int)))
}
