package room_repo

import (
	"context"
	"time"

	"github.com/xenn00/pair-chat/internal/entity"
	app_error "github.com/xenn00/pair-chat/internal/errors"
)

// RoomRepoContract owns every room status transition. No other component
// writes to the rooms table.
type RoomRepoContract interface {
	FindActiveRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError)
	// FindOrCreateRoom returns the existing active room for the pair when one
	// exists; creation is idempotent under retry.
	FindOrCreateRoom(ctx context.Context, userA, userB string, ttl time.Duration) (*entity.Room, *app_error.AppError)
	// FindRoomByID always reads the database; mutation paths validate against
	// it so a stale cache can never admit a write to a terminal room.
	FindRoomByID(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError)
	// GetRoomSnapshot is the cached read for list/detail views. Snapshots can
	// lag the database by the cache TTL, which the denormalization contract
	// tolerates.
	GetRoomSnapshot(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError)
	// RecordMessage refreshes the denormalized last_message_* fields. The
	// update is guarded on status = active and a growing last_message_id, so
	// late or duplicate calls cannot move the pointer backwards.
	RecordMessage(ctx context.Context, roomID string, msg *entity.Message) (*entity.Room, *app_error.AppError)
	// RequestEnd records one participant's termination vote and flips the
	// room to ended_by_users once both votes are in.
	RequestEnd(ctx context.Context, roomID, userID string) (*entity.Room, *app_error.AppError)
	// MarkExpired transitions a single active room past its deadline; no-op
	// result (nil room) when someone else already did.
	MarkExpired(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError)
	// SweepExpired transitions every active room with expires_at <= now and
	// returns the changed set. Running it twice yields an empty second set.
	SweepExpired(ctx context.Context, now time.Time) ([]*entity.Room, *app_error.AppError)
}
