package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: limit your cors, don't get true so easy in production
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AuthFunc resolves the connecting user's identity. Authentication itself is
// an external concern; the default wiring trusts the identity the upstream
// layer forwarded on the request.
type AuthFunc func(r *http.Request) (string, error)

// HeaderAuth reads the identity the authenticating proxy set on the request.
func HeaderAuth(r *http.Request) (string, error) {
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return userID, nil
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		return userID, nil
	}
	return "", ErrNoIdentity
}

type WebSocketHandler struct {
	Hub            *Hub
	Auth           AuthFunc
	MaxConnections int
}

func NewWebSocketHandler(hub *Hub, auth AuthFunc) *WebSocketHandler {
	return &WebSocketHandler{
		Hub:            hub,
		Auth:           auth,
		MaxConnections: 10000,
	}
}

// ServeWS upgrades the request and registers the session with the hub. The
// optional room_id query parameter adds room presence on top of the per-user
// registration the fanout path uses.
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := h.Auth(r)
	if err != nil {
		http.Error(w, "identity required", http.StatusUnauthorized)
		return
	}

	if h.MaxConnections > 0 && h.Hub.GetHubStats().TotalClients >= h.MaxConnections {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws: upgrade failed")
		return
	}

	client := NewClient(uuid.New().String(), userID, r.URL.Query().Get("room_id"), conn, h.Hub)
	h.Hub.Register(client)
}
