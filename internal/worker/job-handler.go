package worker

import (
	"context"
	"fmt"

	"github.com/xenn00/pair-chat/internal/queue"
	room_service "github.com/xenn00/pair-chat/internal/use-case/room-case"
	worker_handler "github.com/xenn00/pair-chat/internal/worker/worker-handler"
)

func (wp *WorkerPool) HandleJob(ctx context.Context, job queue.Job) error {
	workerHandler := worker_handler.NewWorkerHandler(ctx, wp.Redis, wp.ws)
	switch job.Type {
	case room_service.JobRoomUpdate:
		return workerHandler.HandleRoomUpdate(job.Payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}
