package room_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/xenn00/pair-chat/internal/dtos/room_dto"
	app_error "github.com/xenn00/pair-chat/internal/errors"
	"github.com/xenn00/pair-chat/internal/handlers"
	"github.com/xenn00/pair-chat/internal/middleware"
	room_service "github.com/xenn00/pair-chat/internal/use-case/room-case"
	"github.com/xenn00/pair-chat/state"
)

type RoomHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  room_service.RoomServiceContract
}

func NewRoomHandler(appState *state.AppState) *RoomHandler {
	return &RoomHandler{
		State:    appState,
		Validate: validator.New(),
		Service:  room_service.NewRoomService(appState),
	}
}

// CreateOrGetRoom pairs the caller with the partner from the uri. Retrying
// the same pair returns the existing active room.
func (h *RoomHandler) CreateOrGetRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	partnerID := chi.URLParam(r, "partnerId")
	if partnerID == "" {
		return app_error.NewAppError(http.StatusBadRequest, "partner id is required", "partner-id")
	}

	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, appErr := h.Service.CreateOrGetRoom(r.Context(), userID, partnerID)
	if appErr != nil {
		return appErr
	}

	writeResponse(w, r, "room resolved successfully", *resp)
	return nil
}

func (h *RoomHandler) PostMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req room_dto.PostMessageRequest
	defer r.Body.Close()

	roomID := chi.URLParam(r, "roomId")

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, appErr := h.Service.PostMessage(r.Context(), req, roomID, userID)
	if appErr != nil {
		return appErr
	}

	writeResponse(w, r, "message sent successfully", *resp)
	return nil
}

func (h *RoomHandler) ListMessages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")

	req := room_dto.ListMessagesRequest{}
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return app_error.NewAppError(http.StatusBadRequest, "start must be an integer", "start")
		}
		req.Start = start
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return app_error.NewAppError(http.StatusBadRequest, "end must be an integer", "end")
		}
		req.End = &end
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, appErr := h.Service.ListMessages(r.Context(), req, roomID)
	if appErr != nil {
		return appErr
	}

	writeResponse(w, r, "messages fetch successfully", *resp)
	return nil
}

// EndRoom records the caller's termination vote. The room closes only after
// both participants have asked for it.
func (h *RoomHandler) EndRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")

	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, appErr := h.Service.EndRoom(r.Context(), roomID, userID)
	if appErr != nil {
		return appErr
	}

	writeResponse(w, r, "end request recorded", *resp)
	return nil
}

func writeResponse[T any](w http.ResponseWriter, r *http.Request, message string, data T) {
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse(message, data, reqID))
}
