package room_service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xenn00/pair-chat/internal/entity"
	"github.com/xenn00/pair-chat/internal/queue"
	"github.com/xenn00/pair-chat/internal/utils/types"
)

const JobRoomUpdate = "room_update"

// notifyRoomUpdate hands the mutation to the fanout queue. Enqueue failures
// are logged and swallowed: live delivery is best-effort and must never fail
// the append or transition that triggered it. Clients reconcile by
// re-fetching room state on reconnect.
func (s *RoomService) notifyRoomUpdate(room *entity.Room, msg *entity.Message, statusChanged bool) {
	payload := &types.RoomUpdatePayload{
		RoomID:        room.ID.String(),
		Status:        string(room.Status),
		UserA:         room.UserA,
		UserB:         room.UserB,
		StatusChanged: statusChanged,
		UpdatedAt:     time.Now(),
	}
	if msg != nil {
		payload.LastMessage = toLastMessageSummary(msg)
	}

	job := queue.Job{
		ID:        uuid.New().String(),
		Type:      JobRoomUpdate,
		Payload:   queue.MustMarshal(payload),
		Retry:     0,
		MaxRetry:  3,
		CreatedAt: time.Now().Unix(),
		ExpireAt:  time.Now().Add(1 * time.Minute).Unix(),
	}

	if err := s.Producer.Enqueue(s.AppState.Ctx, job); err != nil {
		log.Error().Err(err).Str("roomID", payload.RoomID).Msg("failed to enqueue room update")
		return
	}

	log.Debug().Str("job_id", job.ID).Str("roomID", payload.RoomID).Msg("room update enqueued")
}

func toLastMessageSummary(msg *entity.Message) *types.LastMessageSummary {
	summary := &types.LastMessageSummary{
		ID:        msg.Seq,
		SenderID:  msg.SenderID,
		Type:      string(msg.Type),
		CreatedAt: msg.CreatedAt,
	}
	switch msg.Type {
	case entity.MessageImage:
		summary.ImageURL = msg.Content
	default:
		summary.Content = msg.Content
	}
	return summary
}
