package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/xenn00/pair-chat/internal/queue"
	"github.com/xenn00/pair-chat/internal/websocket"
	"github.com/xenn00/pair-chat/state"
)

// WorkerPool drains the fanout queue and pushes room updates to live
// sessions. It sits between the request path and the websocket hub so a slow
// or failing delivery never blocks an append or a status transition.
type WorkerPool struct {
	AppState   *state.AppState
	Redis      *redis.Client
	WorkerNum  int
	JobChannel chan string
	wg         sync.WaitGroup
	ws         *websocket.Hub
}

func NewWorkerPool(appState *state.AppState, workerNum int, ws *websocket.Hub) *WorkerPool {
	return &WorkerPool{
		AppState:   appState,
		Redis:      appState.Redis,
		WorkerNum:  workerNum,
		JobChannel: make(chan string, 100),
		ws:         ws,
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	log.Info().Msgf("Starting worker pool with %d workers", wp.WorkerNum)

	for i := 0; i < wp.WorkerNum; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}

	go func() {
		defer close(wp.JobChannel)
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Stopping worker pool")
				return
			default:
				now := float64(time.Now().Unix())
				result, err := wp.Redis.ZRangeByScore(ctx, queue.PendingQueue, &redis.ZRangeBy{
					Min:    "-inf",
					Max:    fmt.Sprintf("%f", now),
					Offset: 0,
					Count:  1,
				}).Result()

				if err != nil {
					if err != redis.Nil {
						log.Error().Err(err).Msg("Worker: failed to pop job")
					}
					continue
				}

				if len(result) == 0 {
					time.Sleep(1 * time.Second)
					continue
				}

				payload := result[0]
				// ZRem is the claim: only one poller instance wins the job.
				removed, err := wp.Redis.ZRem(ctx, queue.PendingQueue, payload).Result()
				if err != nil || removed == 0 {
					continue
				}
				// The workers exit on ctx too; an unconditional send here
				// would block forever on shutdown once they are gone.
				select {
				case wp.JobChannel <- payload:
				case <-ctx.Done():
					log.Info().Msg("Stopping worker pool")
					return
				}
			}
		}
	}()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log.Info().Msgf("Worker %d started", id)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("Worker %d stopping", id)
			return
		case payload, ok := <-wp.JobChannel:
			if !ok {
				return
			}

			var job queue.Job
			if err := json.Unmarshal([]byte(payload), &job); err != nil {
				log.Warn().Err(err).Msgf("Worker %d: Failed to unmarshal job payload", id)
				continue
			}
			if err := wp.HandleJob(ctx, job); err != nil {
				wp.retryOrBury(ctx, job, err)
			}
		}
	}
}

// retryOrBury re-enqueues the failed job with exponential backoff until its
// retry budget or deadline runs out, then moves it to the DLQ.
func (wp *WorkerPool) retryOrBury(ctx context.Context, job queue.Job, cause error) {
	job.Retry++
	job.ErrorMsg = cause.Error()

	now := time.Now().Unix()
	if job.Retry >= job.MaxRetry || now > job.ExpireAt {
		log.Error().Str("job_id", job.ID).Str("type", job.Type).Msg("Job moved to DLQ")
		dlqBytes, _ := json.Marshal(job)
		wp.Redis.RPush(ctx, queue.DLQ, dlqBytes)

		sendDLA(job)
		return
	}

	delay := time.Duration(5*(1<<job.Retry)) * time.Second // exponential backoff
	retryAt := time.Now().Add(delay).Unix()

	jobBytes, _ := json.Marshal(job)
	wp.Redis.ZAdd(ctx, queue.PendingQueue, redis.Z{
		Score:  float64(retryAt),
		Member: jobBytes,
	})
	log.Warn().Str("job_id", job.ID).Msgf("Retrying in %v seconds (%d/%d)", delay.Seconds(), job.Retry, job.MaxRetry)
}

var dlaCache = make(map[string]time.Time)
var dlaMu sync.Mutex

// sendDLA emits a rate-limited dead letter alert per job type.
func sendDLA(job queue.Job) {
	dlaMu.Lock()
	defer dlaMu.Unlock()

	now := time.Now()
	lastAlert, ok := dlaCache[job.Type]
	if ok && now.Sub(lastAlert) < 10*time.Minute {
		return
	}

	log.Error().Str("job_id", job.ID).Str("type", job.Type).Str("error", job.ErrorMsg).Msg("Dead Letter Alert: Job failed permanently")

	dlaCache[job.Type] = now
}

func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
	log.Info().Msg("All workers have stopped")
}
