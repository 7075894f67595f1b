package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xenn00/pair-chat/internal/middleware"
	"github.com/xenn00/pair-chat/internal/websocket"
	"github.com/xenn00/pair-chat/state"
)

func NewRouter(state *state.AppState, hub *websocket.Hub, wsHandler *websocket.WebSocketHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)
	RoomRouter(r, state)
	HubRouter(r, hub)

	r.Get("/ws", wsHandler.ServeWS)

	return r
}
