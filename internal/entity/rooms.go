package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type RoomStatus string

const (
	RoomActive       RoomStatus = "active"
	RoomEndedByUsers RoomStatus = "ended_by_users"
	RoomExpired      RoomStatus = "expired"
)

// Terminal reports whether the status admits no further transitions.
func (s RoomStatus) Terminal() bool {
	return s == RoomEndedByUsers || s == RoomExpired
}

type Room struct {
	ID    uuid.UUID `gorm:"primaryKey"`
	UserA string    `gorm:"not null"`
	UserB string    `gorm:"not null"`
	// PairKey is the canonical form of the participant pair, see MakePairKey.
	// Guards the one-active-room-per-pair invariant together with the partial
	// unique index created in state.InitPostgres.
	PairKey       string     `gorm:"not null;index"`
	Status        RoomStatus `gorm:"not null;default:active"`
	EndedByA      bool       `gorm:"not null;default:false"`
	EndedByB      bool       `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"not null"`
	// LastMessageID is nil until the first append; seq ids start at 0, so a
	// zero default would swallow the first denormalization update.
	LastMessageID *int64
	LastMessageAt *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// HasParticipant reports whether userID is one of the room's two participants.
func (r *Room) HasParticipant(userID string) bool {
	return r.UserA == userID || r.UserB == userID
}

// PartnerOf returns the other participant, or "" if userID is not in the room.
func (r *Room) PartnerOf(userID string) string {
	switch userID {
	case r.UserA:
		return r.UserB
	case r.UserB:
		return r.UserA
	}
	return ""
}

// MakePairKey canonicalizes an unordered participant pair so both orderings
// resolve to the same lookup key.
func MakePairKey(userA, userB string) string {
	if strings.Compare(userA, userB) > 0 {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}
