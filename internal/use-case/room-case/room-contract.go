package room_service

import (
	"context"
	"time"

	"github.com/xenn00/pair-chat/internal/dtos/room_dto"
	"github.com/xenn00/pair-chat/internal/entity"
	app_error "github.com/xenn00/pair-chat/internal/errors"
)

// RoomServiceContract is the inbound surface of the room lifecycle and
// message log core. Callers are assumed to be authenticated already.
type RoomServiceContract interface {
	// CreateOrGetRoom resolves the active room for the unordered pair,
	// creating it when none exists. Idempotent under retry: a duplicate pair
	// request returns the existing room, never an error.
	CreateOrGetRoom(ctx context.Context, userID, partnerID string) (*room_dto.RoomResponse, *app_error.AppError)
	// PostMessage appends one entry to the room's log, refreshes the room's
	// denormalized tail and triggers the live update fanout.
	PostMessage(ctx context.Context, req room_dto.PostMessageRequest, roomID, senderID string) (*room_dto.PostMessageResponse, *app_error.AppError)
	// EndRoom records the caller's termination vote; the room closes once
	// both participants have voted.
	EndRoom(ctx context.Context, roomID, userID string) (*room_dto.RoomResponse, *app_error.AppError)
	ListMessages(ctx context.Context, req room_dto.ListMessagesRequest, roomID string) (*room_dto.ListMessagesResponse, *app_error.AppError)
	// SweepExpired transitions every active room past its deadline, notifies
	// live sessions and feeds the retention channel. Idempotent.
	SweepExpired(ctx context.Context, now time.Time) ([]*entity.Room, *app_error.AppError)
}
