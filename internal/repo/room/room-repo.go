package room_repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xenn00/pair-chat/internal/entity"
	app_error "github.com/xenn00/pair-chat/internal/errors"
	"github.com/xenn00/pair-chat/internal/utils"
	"github.com/xenn00/pair-chat/state"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const roomCacheTTL = 30 * time.Second

type RoomRepo struct {
	AppState *state.AppState
}

func NewRoomRepo(appState *state.AppState) RoomRepoContract {
	return &RoomRepo{
		AppState: appState,
	}
}

func roomCacheKey(roomID string) string {
	return "room:" + roomID
}

func (r *RoomRepo) FindActiveRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError) {
	var room entity.Room
	err := r.AppState.DB.WithContext(ctx).
		Where("pair_key = ? AND status = ?", entity.MakePairKey(userA, userB), entity.RoomActive).
		First(&room).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to query active room", "db-error")
	}
	return &room, nil
}

func (r *RoomRepo) FindOrCreateRoom(ctx context.Context, userA, userB string, ttl time.Duration) (*entity.Room, *app_error.AppError) {
	room, appErr := r.FindActiveRoom(ctx, userA, userB)
	if appErr != nil {
		return nil, appErr
	}
	if room != nil {
		return room, nil
	}

	newRoom := &entity.Room{
		ID:        uuid.New(),
		UserA:     userA,
		UserB:     userB,
		PairKey:   entity.MakePairKey(userA, userB),
		Status:    entity.RoomActive,
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := r.AppState.DB.WithContext(ctx).Create(newRoom).Error; err != nil {
		// Concurrent creators race on the partial unique index; the loser
		// re-reads the winner's row.
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			room, appErr := r.FindActiveRoom(ctx, userA, userB)
			if appErr != nil {
				return nil, appErr
			}
			if room != nil {
				return room, nil
			}
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to create room", "db-error")
	}

	return newRoom, nil
}

func (r *RoomRepo) GetRoomSnapshot(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	cached, appErr := utils.GetCacheData[entity.Room](ctx, r.AppState.Redis, roomCacheKey(roomID))
	if appErr != nil {
		log.Warn().Str("roomID", roomID).Msg("room cache read failed, falling through to db")
	}
	if cached != nil {
		return cached, nil
	}
	return r.FindRoomByID(ctx, roomID)
}

func (r *RoomRepo) FindRoomByID(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	var room entity.Room
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", roomID).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "room not found", app_error.FieldInvalidRoom)
		}
		log.Error().Err(err).Msgf("failed to fetch room: %v", err)
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to fetch room", "db-error")
	}

	if err := utils.SetCacheData(ctx, r.AppState.Redis, roomCacheKey(roomID), &room, roomCacheTTL); err != nil {
		log.Warn().Err(err).Str("roomID", roomID).Msg("failed to cache room snapshot")
	}

	return &room, nil
}

func (r *RoomRepo) RecordMessage(ctx context.Context, roomID string, msg *entity.Message) (*entity.Room, *app_error.AppError) {
	res := r.AppState.DB.WithContext(ctx).Model(&entity.Room{}).
		Where("id = ? AND status = ? AND (last_message_id IS NULL OR last_message_id < ?)", roomID, entity.RoomActive, msg.Seq).
		Updates(map[string]any{
			"last_message_id": msg.Seq,
			"last_message_at": msg.CreatedAt,
		})

	if res.Error != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to update last message metadata", "db-error")
	}
	if res.RowsAffected == 0 {
		// Room went terminal (or a newer append already advanced the
		// pointer) between the log write and this update. The message is
		// durable either way; the denormalized copy reconciles on next read.
		return nil, app_error.NewInvalidRoom("room is no longer active")
	}

	r.invalidate(ctx, roomID)
	return r.reload(ctx, roomID)
}

func (r *RoomRepo) RequestEnd(ctx context.Context, roomID, userID string) (*entity.Room, *app_error.AppError) {
	var room entity.Room

	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serializes concurrent termination votes on the same room.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", roomID).First(&room).Error; err != nil {
			return err
		}

		if room.Status.Terminal() {
			return app_error.NewInvalidRoom("room is already closed")
		}
		if !room.HasParticipant(userID) {
			return app_error.NewNotParticipant("user is not a participant of this room")
		}

		switch userID {
		case room.UserA:
			room.EndedByA = true
		case room.UserB:
			room.EndedByB = true
		}
		if room.EndedByA && room.EndedByB {
			room.Status = entity.RoomEndedByUsers
		}

		return tx.Save(&room).Error
	})

	if err != nil {
		var appErr *app_error.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "room not found", app_error.FieldInvalidRoom)
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to record end request: %v", err), "db-error")
	}

	r.invalidate(ctx, roomID)
	return &room, nil
}

func (r *RoomRepo) MarkExpired(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	res := r.AppState.DB.WithContext(ctx).Model(&entity.Room{}).
		Where("id = ? AND status = ?", roomID, entity.RoomActive).
		Update("status", entity.RoomExpired)

	if res.Error != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to expire room", "db-error")
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	r.invalidate(ctx, roomID)
	return r.reload(ctx, roomID)
}

func (r *RoomRepo) SweepExpired(ctx context.Context, now time.Time) ([]*entity.Room, *app_error.AppError) {
	var roomIDs []string
	if err := r.AppState.DB.WithContext(ctx).Model(&entity.Room{}).
		Where("status = ? AND expires_at <= ?", entity.RoomActive, now).
		Pluck("id", &roomIDs).Error; err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to list expiry candidates", "db-error")
	}

	// One guarded update per room: the sweep never holds a lock across the
	// whole set, and a candidate that went terminal in the meantime is
	// skipped. A failure on one room does not abort the rest.
	var changed []*entity.Room
	for _, id := range roomIDs {
		room, appErr := r.MarkExpired(ctx, id)
		if appErr != nil {
			log.Error().Str("roomID", id).Msg(appErr.Message)
			continue
		}
		if room != nil {
			changed = append(changed, room)
		}
	}

	return changed, nil
}

func (r *RoomRepo) reload(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	var room entity.Room
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", roomID).First(&room).Error; err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to reload room", "db-error")
	}
	return &room, nil
}

func (r *RoomRepo) invalidate(ctx context.Context, roomID string) {
	if err := utils.DeleteCacheData(ctx, r.AppState.Redis, roomCacheKey(roomID)); err != nil {
		log.Warn().Err(err).Str("roomID", roomID).Msg("failed to invalidate room cache")
	}
}
