package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id, userID, roomID string, hub *Hub) *Client {
	// nil conn keeps the pumps off so tests can read Send directly
	return NewClient(id, userID, roomID, nil, hub)
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	client := newTestClient("c1", "alice", "room-1", hub)
	hub.Register(client)

	assert.True(t, hub.IsUserOnline("alice"))
	assert.Len(t, hub.GetUserClients("alice"), 1)

	hub.Unregister(client)
	assert.False(t, hub.IsUserOnline("alice"))
	assert.Empty(t, hub.GetUserClients("alice"))
}

func TestHubTracksMultipleSessionsPerUser(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	first := newTestClient("c1", "alice", "", hub)
	second := newTestClient("c2", "alice", "", hub)
	hub.Register(first)
	hub.Register(second)

	assert.Len(t, hub.GetUserClients("alice"), 2)

	hub.Unregister(first)
	assert.Len(t, hub.GetUserClients("alice"), 1)
	assert.True(t, hub.IsUserOnline("alice"))
}

func TestBroadcastToUserReachesEverySession(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	first := newTestClient("c1", "alice", "", hub)
	second := newTestClient("c2", "alice", "", hub)
	bystander := newTestClient("c3", "bob", "", hub)
	hub.Register(first)
	hub.Register(second)
	hub.Register(bystander)

	msg := OutgoingMessage{
		Type:   EventRoomUpdate,
		RoomID: "room-1",
		Data:   map[string]any{"status": "active"},
	}
	hub.BroadcastToUser("alice", msg)

	for _, client := range []*Client{first, second} {
		select {
		case raw := <-client.Send:
			var got OutgoingMessage
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, EventRoomUpdate, got.Type)
			assert.Equal(t, "room-1", got.RoomID)
		default:
			t.Fatalf("client %s did not receive the frame", client.ID)
		}
	}

	select {
	case <-bystander.Send:
		t.Fatal("frame leaked to another user")
	default:
	}
}

func TestBroadcastToUserWithNoSessionsIsNoop(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	hub.BroadcastToUser("ghost", OutgoingMessage{Type: EventRoomUpdate})

	stats := hub.GetHubStats()
	assert.Equal(t, int64(0), stats.MessageSent)
}

func TestBroadcastToRoom(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	inRoom := newTestClient("c1", "alice", "room-1", hub)
	elsewhere := newTestClient("c2", "bob", "room-2", hub)
	hub.Register(inRoom)
	hub.Register(elsewhere)

	hub.BroadcastToRoom("room-1", OutgoingMessage{Type: EventSystem, Content: "hello"})

	select {
	case raw := <-inRoom.Send:
		var got OutgoingMessage
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "room-1", got.RoomID)
	default:
		t.Fatal("room member did not receive the frame")
	}

	select {
	case <-elsewhere.Send:
		t.Fatal("frame leaked to another room")
	default:
	}
}

func TestHubStats(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	hub.Register(newTestClient("c1", "alice", "room-1", hub))
	hub.Register(newTestClient("c2", "bob", "room-1", hub))

	stats := hub.GetHubStats()
	assert.Equal(t, 2, stats.TotalClients)
	assert.Equal(t, 1, stats.TotalRooms)
	assert.Equal(t, int64(2), stats.TotalConnections)

	roomStats := hub.GetRoomStats("room-1")
	assert.Equal(t, true, roomStats["exists"])
	assert.Equal(t, 2, roomStats["active_connections"])
	assert.Equal(t, 2, roomStats["unique_users"])

	missing := hub.GetRoomStats("nope")
	assert.Equal(t, false, missing["exists"])
}
