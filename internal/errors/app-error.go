package app_error

import (
	"encoding/json"
	"net/http"
)

type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e AppError) Error() string {
	return e.Message
}

func (e AppError) JSON(w http.ResponseWriter) error {
	return json.NewEncoder(w).Encode(e)
}

func NewAppError(code int, msg, field string) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Field:   field,
	}
}

// Stable field codes for the domain taxonomy. Callers match on Field, not on
// Message text.
const (
	FieldInvalidRoom    = "invalid-room"
	FieldInvalidSender  = "invalid-sender"
	FieldNotParticipant = "not-participant"
)

// NewInvalidRoom covers both a missing room and a terminal (read-only) one;
// the caller is expected to re-resolve room state either way.
func NewInvalidRoom(msg string) *AppError {
	return NewAppError(http.StatusGone, msg, FieldInvalidRoom)
}

func NewInvalidSender(msg string) *AppError {
	return NewAppError(http.StatusForbidden, msg, FieldInvalidSender)
}

func NewNotParticipant(msg string) *AppError {
	return NewAppError(http.StatusForbidden, msg, FieldNotParticipant)
}
