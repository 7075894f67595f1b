package room_service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xenn00/pair-chat/internal/entity"
	app_error "github.com/xenn00/pair-chat/internal/errors"
)

// usableRoom resolves a room for a mutating operation. It always reads the
// database (never the snapshot cache) and applies the lazy expiry check: a
// room read past its deadline is transitioned to expired right here, so the
// outcome agrees with whatever the periodic sweep would have done. Terminal
// rooms are read-only and reject every mutation with InvalidRoom.
func (s *RoomService) usableRoom(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	room, appErr := s.RoomRepo.FindRoomByID(ctx, roomID)
	if appErr != nil {
		return nil, appErr
	}

	if room.Status == entity.RoomActive && !time.Now().Before(room.ExpiresAt) {
		expired, appErr := s.RoomRepo.MarkExpired(ctx, roomID)
		if appErr != nil {
			return nil, appErr
		}
		if expired != nil {
			// This access fired the transition before the sweeper did;
			// clients and the retention feed still learn about it the same
			// way.
			s.notifyRoomUpdate(expired, nil, true)
			s.feedRetention(ctx, expired)
			room = expired
		} else {
			log.Debug().Str("roomID", roomID).Msg("room expired concurrently")
			room.Status = entity.RoomExpired
		}
	}

	if room.Status.Terminal() {
		return nil, app_error.NewInvalidRoom("room is closed")
	}

	return room, nil
}
