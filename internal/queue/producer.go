package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	PendingQueue = "room_events"
	DLQ          = "room_events_dlq"
)

type Producer interface {
	Enqueue(ctx context.Context, job Job) error
}

type RedisProducer struct {
	Redis *redis.Client
}

func NewProducer(redis *redis.Client) Producer {
	return &RedisProducer{Redis: redis}
}

func (p *RedisProducer) Enqueue(ctx context.Context, job Job) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return err
	}

	// Score is the ready-at time: fresh jobs are eligible immediately,
	// retried jobs are re-added with their backoff deadline.
	score := float64(job.CreatedAt)
	return p.Redis.ZAdd(ctx, PendingQueue, redis.Z{
		Score:  score,
		Member: jobBytes,
	}).Err()
}
