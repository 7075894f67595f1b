package hub_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	app_error "github.com/xenn00/pair-chat/internal/errors"
	"github.com/xenn00/pair-chat/internal/handlers"
	"github.com/xenn00/pair-chat/internal/middleware"
	"github.com/xenn00/pair-chat/internal/websocket"
)

// HubHandler is the ops surface over the live session registry.
type HubHandler struct {
	Hub *websocket.Hub
}

func NewHubHandler(hub *websocket.Hub) *HubHandler {
	return &HubHandler{
		Hub: hub,
	}
}

func (h *HubHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "pair-chat",
	})
}

func (h *HubHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	stats := h.Hub.GetHubStats()
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("get websocket stats", stats, reqID))
	return nil
}

func (h *HubHandler) HandleGetRoomStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")
	stats := h.Hub.GetRoomStats(roomID)
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("get websocket room stats", stats, reqID))

	return nil
}

func (h *HubHandler) HandleGetUserStatus(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID := chi.URLParam(r, "userId")

	clients := h.Hub.GetUserClients(userID)

	resp := map[string]any{
		"user_id":        userID,
		"online":         len(clients) > 0,
		"active_clients": len(clients),
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("successful get user status", resp, reqID))

	return nil
}

func (h *HubHandler) HandleGetUserConnections(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID := chi.URLParam(r, "userId")
	clients := h.Hub.GetUserClients(userID)

	type ConnectionInfo struct {
		ClientID    string    `json:"client_id"`
		RoomID      string    `json:"room_id,omitempty"`
		ConnectedAt time.Time `json:"connected_at"`
		LastSeen    time.Time `json:"last_seen"`
		IsActive    bool      `json:"is_active"`
	}

	var connections []ConnectionInfo
	for _, client := range clients {
		connections = append(connections, ConnectionInfo{
			ClientID:    client.ID,
			RoomID:      client.RoomID,
			ConnectedAt: client.ConnectedAt,
			LastSeen:    client.GetLastSeen(),
			IsActive:    client.IsClientActive(),
		})
	}

	resp := map[string]any{
		"user_id":     userID,
		"count":       len(connections),
		"connections": connections,
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("successfully get user connection", resp, reqID))

	return nil
}

func (h *HubHandler) HandleDisconnectUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID := chi.URLParam(r, "userId")

	var payload struct {
		Reason string `json:"reason"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "invalid request body", "request-body-disconnect-user")
	}

	clients := h.Hub.GetUserClients(userID)
	disconnected := 0

	for _, client := range clients {
		msg := websocket.NewSystemMessage(client.RoomID, fmt.Sprintf("Connection closed: %s", payload.Reason), map[string]any{"action": "force_disconnect"})
		client.SendMessage(msg)
		client.Close()
		disconnected++
	}

	resp := map[string]any{
		"status":               "success",
		"disconnected_clients": disconnected,
		"user_id":              userID,
		"reason":               payload.Reason,
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("successfully disconnect user", resp, reqID))

	return nil
}
