package message_repo

import (
	"context"

	"github.com/xenn00/pair-chat/internal/entity"
	app_error "github.com/xenn00/pair-chat/internal/errors"
)

// MessageRepoContract owns message ordering and persistence. The log is
// append-only: there is no update or delete on this interface.
type MessageRepoContract interface {
	// Append assigns the next per-room sequence number, stores the entry and
	// returns it. Sequence ids are dense and start at 0, so a room's N
	// messages carry ids 0..N-1. It does not validate the room; the caller
	// resolves room state first.
	Append(ctx context.Context, roomID, senderID, content string, msgType entity.MessageType) (*entity.Message, *app_error.AppError)
	// Range returns messages with start <= seq (and seq <= *end when end is
	// non-nil) in append order. A room with no messages yields an empty
	// slice, never an error.
	Range(ctx context.Context, roomID string, start int64, end *int64) ([]*entity.Message, *app_error.AppError)
	Count(ctx context.Context, roomID string) (int64, *app_error.AppError)
}
