package room_service

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xenn00/pair-chat/config"
	"github.com/xenn00/pair-chat/internal/dtos/room_dto"
	"github.com/xenn00/pair-chat/internal/entity"
	app_error "github.com/xenn00/pair-chat/internal/errors"
	"github.com/xenn00/pair-chat/internal/queue"
	message_repo "github.com/xenn00/pair-chat/internal/repo/message"
	room_repo "github.com/xenn00/pair-chat/internal/repo/room"
	"github.com/xenn00/pair-chat/state"
)

// RetentionFeedKey is the Redis list the external retention process drains to
// learn which room logs became eligible for archival or purge.
const RetentionFeedKey = "retention:expired_rooms"

type RoomService struct {
	AppState    *state.AppState
	RoomRepo    room_repo.RoomRepoContract
	MessageRepo message_repo.MessageRepoContract
	Producer    queue.Producer
	RoomTTL     time.Duration
}

func NewRoomService(appState *state.AppState) RoomServiceContract {
	return &RoomService{
		AppState:    appState,
		RoomRepo:    room_repo.NewRoomRepo(appState),
		MessageRepo: message_repo.NewMessageRepo(appState),
		Producer:    queue.NewProducer(appState.Redis),
		RoomTTL:     config.Conf.ROOM.TTL,
	}
}

func (s *RoomService) CreateOrGetRoom(ctx context.Context, userID, partnerID string) (*room_dto.RoomResponse, *app_error.AppError) {
	if userID == partnerID {
		return nil, app_error.NewAppError(http.StatusBadRequest, "cannot open a room with yourself", "partner-id")
	}

	room, appErr := s.RoomRepo.FindOrCreateRoom(ctx, userID, partnerID, s.RoomTTL)
	if appErr != nil {
		return nil, appErr
	}

	return toRoomResponse(room), nil
}

func (s *RoomService) PostMessage(ctx context.Context, req room_dto.PostMessageRequest, roomID, senderID string) (*room_dto.PostMessageResponse, *app_error.AppError) {
	room, appErr := s.usableRoom(ctx, roomID)
	if appErr != nil {
		return nil, appErr
	}
	if !room.HasParticipant(senderID) {
		return nil, app_error.NewInvalidSender("sender is not a participant of this room")
	}

	// The room check above and the append below hit different stores. A
	// transition racing into that gap leaves this message in the log of a
	// just-closed room; the guarded RecordMessage refuses the stale pointer
	// update and the log stays authoritative.
	msg, appErr := s.MessageRepo.Append(ctx, roomID, senderID, req.Content, entity.MessageType(req.Type))
	if appErr != nil {
		return nil, appErr
	}

	// The log write above is the source of truth. A failure past this point
	// leaves the denormalized room fields or the live clients transiently
	// stale, never the message lost.
	updated, recErr := s.RoomRepo.RecordMessage(ctx, roomID, msg)
	if recErr != nil {
		log.Warn().Str("roomID", roomID).Int64("seq", msg.Seq).Str("reason", recErr.Message).Msg("denormalization skipped after append")
		updated = room
	}

	s.notifyRoomUpdate(updated, msg, false)

	return toPostMessageResponse(msg), nil
}

func (s *RoomService) EndRoom(ctx context.Context, roomID, userID string) (*room_dto.RoomResponse, *app_error.AppError) {
	if _, appErr := s.usableRoom(ctx, roomID); appErr != nil {
		return nil, appErr
	}

	room, appErr := s.RoomRepo.RequestEnd(ctx, roomID, userID)
	if appErr != nil {
		return nil, appErr
	}

	if room.Status == entity.RoomEndedByUsers {
		s.notifyRoomUpdate(room, nil, true)
	}

	return toRoomResponse(room), nil
}

func (s *RoomService) ListMessages(ctx context.Context, req room_dto.ListMessagesRequest, roomID string) (*room_dto.ListMessagesResponse, *app_error.AppError) {
	// Snapshot read is fine here: terminal rooms stay readable and the
	// message log itself is authoritative.
	room, appErr := s.RoomRepo.GetRoomSnapshot(ctx, roomID)
	if appErr != nil {
		return nil, appErr
	}

	messages, appErr := s.MessageRepo.Range(ctx, roomID, req.Start, req.End)
	if appErr != nil {
		return nil, appErr
	}

	views := make([]room_dto.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, toMessageView(msg))
	}

	return &room_dto.ListMessagesResponse{
		RoomID:   room.ID.String(),
		Messages: views,
	}, nil
}

func (s *RoomService) SweepExpired(ctx context.Context, now time.Time) ([]*entity.Room, *app_error.AppError) {
	changed, appErr := s.RoomRepo.SweepExpired(ctx, now)
	if appErr != nil {
		return nil, appErr
	}

	for _, room := range changed {
		s.notifyRoomUpdate(room, nil, true)
		s.feedRetention(ctx, room)
	}

	if len(changed) > 0 {
		log.Info().Int("count", len(changed)).Msg("expiry sweep transitioned rooms")
	}

	return changed, nil
}

// feedRetention hands the swept room to the external archival/purge process.
// Purge itself is not this subsystem's job.
func (s *RoomService) feedRetention(ctx context.Context, room *entity.Room) {
	if err := s.AppState.Redis.RPush(ctx, RetentionFeedKey, room.ID.String()).Err(); err != nil {
		log.Error().Err(err).Str("roomID", room.ID.String()).Msg("failed to feed retention channel")
	}
}

func toRoomResponse(room *entity.Room) *room_dto.RoomResponse {
	return &room_dto.RoomResponse{
		RoomID:        room.ID.String(),
		UserA:         room.UserA,
		UserB:         room.UserB,
		Status:        string(room.Status),
		EndedByA:      room.EndedByA,
		EndedByB:      room.EndedByB,
		ExpiresAt:     room.ExpiresAt,
		LastMessageID: room.LastMessageID,
		LastMessageAt: room.LastMessageAt,
		CreatedAt:     room.CreatedAt,
	}
}

func toPostMessageResponse(msg *entity.Message) *room_dto.PostMessageResponse {
	resp := &room_dto.PostMessageResponse{
		MessageID: msg.Seq,
		RoomID:    msg.RoomID,
		SenderID:  msg.SenderID,
		Type:      string(msg.Type),
		CreatedAt: msg.CreatedAt,
	}
	switch msg.Type {
	case entity.MessageImage:
		resp.ImageURL = msg.Content
	default:
		resp.Content = msg.Content
	}
	return resp
}

func toMessageView(msg *entity.Message) room_dto.MessageView {
	view := room_dto.MessageView{
		ID:        msg.Seq,
		SenderID:  msg.SenderID,
		Type:      string(msg.Type),
		CreatedAt: msg.CreatedAt,
	}
	switch msg.Type {
	case entity.MessageImage:
		view.ImageURL = msg.Content
	default:
		view.Content = msg.Content
	}
	return view
}
