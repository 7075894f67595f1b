package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/xenn00/pair-chat/internal/entity"
	"github.com/xenn00/pair-chat/internal/queue"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	dlqDatabase   = "pair_chat"
	dlqCollection = "dlq_jobs"
)

// StartDLQWorker archives dead fanout jobs to Mongo for operators. There is
// no redelivery from here: a missed live update is reconciled when the client
// re-fetches room state.
func (wp *WorkerPool) StartDLQWorker(ctx context.Context) {
	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()

		log.Info().Msg("DLQ worker started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("DLQ worker stopping")
				return
			default:
				result, err := wp.Redis.BLPop(ctx, 10*time.Second, queue.DLQ).Result()
				if err == redis.Nil {
					continue
				} else if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Error().Err(err).Msg("DLQWorker pop failed")
					continue
				}

				payload := result[1]
				var job queue.Job
				if err := json.Unmarshal([]byte(payload), &job); err != nil {
					log.Warn().Err(err).Msg("DLQWorker invalid job payload")
					continue
				}

				dlqDoc := entity.DLQJob{
					JobID:      job.ID,
					Type:       job.Type,
					Payload:    job.Payload,
					ErrorMsg:   job.ErrorMsg,
					RetryCount: job.Retry,
					CreatedAt:  time.Unix(job.CreatedAt, 0).UTC(),
					FailedAt:   time.Now().UTC(),
				}

				collection := wp.AppState.Mongo.Database(dlqDatabase).Collection(dlqCollection)
				if _, err := collection.InsertOne(ctx, dlqDoc); err != nil {
					log.Error().Err(err).Msg("Failed to persist DLQ job to MongoDB")

					// fallback: put back to Redis DLQ
					wp.Redis.RPush(ctx, queue.DLQ, payload)
				} else {
					log.Info().Str("job_id", job.ID).Msg("DLQ job persisted to MongoDB")
				}
			}
		}
	}()
}

// GetDLQStats aggregates archived dead jobs by type.
func (wp *WorkerPool) GetDLQStats(ctx context.Context) (map[string]int64, error) {
	collection := wp.AppState.Mongo.Database(dlqDatabase).Collection(dlqCollection)

	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":   "$type",
			"count": bson.M{"$sum": 1},
		}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := make(map[string]int64)
	for cursor.Next(ctx) {
		var result struct {
			Type  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&result); err != nil {
			continue
		}
		stats[result.Type] = result.Count
	}

	return stats, nil
}
