package room_dto

type PostMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
	Type    string `json:"type" validate:"required,oneof=text image"`
}

type ListMessagesRequest struct {
	// Start is the first sequence id to return, inclusive.
	Start int64 `json:"start" validate:"omitempty,min=0"`
	// End bounds the range inclusively; nil drains to the latest entry.
	End *int64 `json:"end,omitempty" validate:"omitempty,min=0"`
}
