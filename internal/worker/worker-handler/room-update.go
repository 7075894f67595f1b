package worker_handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xenn00/pair-chat/internal/utils/types"
	"github.com/xenn00/pair-chat/internal/websocket"
)

// HandleRoomUpdate delivers one room mutation to every live session of both
// participants. Sessions that are offline are simply skipped; they re-fetch
// room state on reconnect.
func (wh *WorkerHandler) HandleRoomUpdate(raw json.RawMessage) error {
	var payload types.RoomUpdatePayload

	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid room update payload: %w", err)
	}

	data := map[string]any{
		"status":         payload.Status,
		"status_changed": payload.StatusChanged,
	}
	if payload.LastMessage != nil {
		lastMessage := map[string]any{
			"id":         payload.LastMessage.ID,
			"sender_id":  payload.LastMessage.SenderID,
			"type":       payload.LastMessage.Type,
			"created_at": payload.LastMessage.CreatedAt,
		}
		switch payload.LastMessage.Type {
		case "image":
			lastMessage["image_url"] = payload.LastMessage.ImageURL
		default:
			lastMessage["content"] = payload.LastMessage.Content
		}
		data["last_message"] = lastMessage
	}

	msg := websocket.OutgoingMessage{
		Type:      websocket.EventRoomUpdate,
		RoomID:    payload.RoomID,
		Data:      data,
		Timestamp: payload.UpdatedAt.Unix(),
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	wh.Ws.BroadcastToUser(payload.UserA, msg)
	wh.Ws.BroadcastToUser(payload.UserB, msg)

	return nil
}
