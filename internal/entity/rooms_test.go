package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakePairKey(t *testing.T) {
	assert.Equal(t, "alice:bob", MakePairKey("alice", "bob"))
	assert.Equal(t, "alice:bob", MakePairKey("bob", "alice"), "pair key must not depend on argument order")
	assert.Equal(t, MakePairKey("u1", "u2"), MakePairKey("u2", "u1"))
}

func TestRoomStatusTerminal(t *testing.T) {
	assert.False(t, RoomActive.Terminal())
	assert.True(t, RoomEndedByUsers.Terminal())
	assert.True(t, RoomExpired.Terminal())
}

func TestRoomParticipants(t *testing.T) {
	room := &Room{UserA: "alice", UserB: "bob"}

	assert.True(t, room.HasParticipant("alice"))
	assert.True(t, room.HasParticipant("bob"))
	assert.False(t, room.HasParticipant("mallory"))

	assert.Equal(t, "bob", room.PartnerOf("alice"))
	assert.Equal(t, "alice", room.PartnerOf("bob"))
	assert.Equal(t, "", room.PartnerOf("mallory"))
}
