package websocket

import "time"

const (
	EventRoomUpdate = "room_update"
	EventSystem     = "system"
)

type OutgoingMessage struct {
	Type      string         `json:"type"`
	RoomID    string         `json:"room_id,omitempty"`
	SenderID  string         `json:"sender_id,omitempty"`
	Content   string         `json:"content,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

func NewSystemMessage(roomID, content string, data map[string]any) OutgoingMessage {
	return OutgoingMessage{
		Type:      EventSystem,
		RoomID:    roomID,
		Content:   content,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}
