package worker_handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xenn00/pair-chat/internal/utils/types"
	"github.com/xenn00/pair-chat/internal/websocket"
)

func TestHandleRoomUpdateReachesBothParticipants(t *testing.T) {
	hub := websocket.NewHub()
	defer hub.Close()

	alice := websocket.NewClient("c1", "alice", "", nil, hub)
	bob := websocket.NewClient("c2", "bob", "", nil, hub)
	hub.Register(alice)
	hub.Register(bob)

	wh := &WorkerHandler{Ws: hub}

	payload := types.RoomUpdatePayload{
		RoomID:        "room-1",
		Status:        "active",
		UserA:         "alice",
		UserB:         "bob",
		StatusChanged: false,
		LastMessage: &types.LastMessageSummary{
			ID:        7,
			SenderID:  "alice",
			Type:      "text",
			Content:   "hello",
			CreatedAt: time.Now(),
		},
		UpdatedAt: time.Now(),
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	require.NoError(t, wh.HandleRoomUpdate(raw))

	for _, client := range []*websocket.Client{alice, bob} {
		select {
		case frame := <-client.Send:
			var msg websocket.OutgoingMessage
			require.NoError(t, json.Unmarshal(frame, &msg))
			assert.Equal(t, websocket.EventRoomUpdate, msg.Type)
			assert.Equal(t, "room-1", msg.RoomID)
			assert.Equal(t, "active", msg.Data["status"])

			last, ok := msg.Data["last_message"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, float64(7), last["id"])
			assert.Equal(t, "hello", last["content"])
		default:
			t.Fatalf("client %s did not receive the room update", client.ID)
		}
	}
}

func TestHandleRoomUpdateStatusChange(t *testing.T) {
	hub := websocket.NewHub()
	defer hub.Close()

	alice := websocket.NewClient("c1", "alice", "", nil, hub)
	hub.Register(alice)

	wh := &WorkerHandler{Ws: hub}

	payload := types.RoomUpdatePayload{
		RoomID:        "room-1",
		Status:        "expired",
		UserA:         "alice",
		UserB:         "bob",
		StatusChanged: true,
		UpdatedAt:     time.Now(),
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	require.NoError(t, wh.HandleRoomUpdate(raw))

	frame := <-alice.Send
	var msg websocket.OutgoingMessage
	require.NoError(t, json.Unmarshal(frame, &msg))
	assert.Equal(t, "expired", msg.Data["status"])
	assert.Equal(t, true, msg.Data["status_changed"])
	_, hasLast := msg.Data["last_message"]
	assert.False(t, hasLast)
}

func TestHandleRoomUpdateRejectsMalformedPayload(t *testing.T) {
	wh := &WorkerHandler{}
	err := wh.HandleRoomUpdate(json.RawMessage(`{not json`))
	assert.Error(t, err)
}
