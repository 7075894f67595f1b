package routers

import (
	"github.com/go-chi/chi/v5"
	"github.com/xenn00/pair-chat/internal/handlers"
	room_handler "github.com/xenn00/pair-chat/internal/handlers/room-handler"
	"github.com/xenn00/pair-chat/internal/middleware"
	"github.com/xenn00/pair-chat/state"
)

func RoomRouter(r chi.Router, state *state.AppState) {
	roomHandler := room_handler.NewRoomHandler(state)
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.WithCallerIdentity)
		protected.Post("/api/v1/rooms/{partnerId}", handlers.WrapHandler(roomHandler.CreateOrGetRoom))
		protected.Post("/api/v1/rooms/{roomId}/messages", handlers.WrapHandler(roomHandler.PostMessage))
		protected.Get("/api/v1/rooms/{roomId}/messages", handlers.WrapHandler(roomHandler.ListMessages)) // receive query params start, end
		protected.Post("/api/v1/rooms/{roomId}/end", handlers.WrapHandler(roomHandler.EndRoom))
	})
}
