package room_dto

import "time"

type RoomResponse struct {
	RoomID        string     `json:"room_id"`
	UserA         string     `json:"user_a"`
	UserB         string     `json:"user_b"`
	Status        string     `json:"status"`
	EndedByA      bool       `json:"ended_by_a"`
	EndedByB      bool       `json:"ended_by_b"`
	ExpiresAt     time.Time  `json:"expires_at"`
	LastMessageID *int64     `json:"last_message_id,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PostMessageResponse struct {
	MessageID int64     `json:"message_id"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageView struct {
	ID        int64     `json:"id"`
	SenderID  string    `json:"sender_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ListMessagesResponse struct {
	RoomID   string        `json:"room_id"`
	Messages []MessageView `json:"messages"`
}
