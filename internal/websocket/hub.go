package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Hub is the process-wide registry of live client sessions. It is owned by
// the serving process's lifetime and injected into whatever needs to reach
// connected users (the fanout worker, the ops handlers).
type Hub struct {
	// Room presence (clients that declared a room on connect)
	rooms map[string]map[*Client]struct{}
	mu    sync.RWMutex

	// User tracking: userID -> all live clients of that user
	userClients map[string][]*Client
	userMu      sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc

	stats   HubStats
	statsMu sync.RWMutex

	cleanupTicker *time.Ticker
}

type HubStats struct {
	TotalRooms       int       `json:"total_rooms"`
	TotalClients     int       `json:"total_clients"`
	TotalConnections int64     `json:"total_connections"`
	MessageSent      int64     `json:"message_sent"`
	LastReset        time.Time `json:"last_reset"`
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	hub := &Hub{
		rooms:       make(map[string]map[*Client]struct{}),
		userClients: make(map[string][]*Client),
		ctx:         ctx,
		cancel:      cancel,
		stats: HubStats{
			LastReset: time.Now(),
		},
		cleanupTicker: time.NewTicker(1 * time.Minute),
	}

	go hub.cleanupRoutine()

	return hub
}

// Register adds a client to the registry and starts its pumps.
func (h *Hub) Register(client *Client) {
	if client.RoomID != "" {
		h.mu.Lock()
		if h.rooms[client.RoomID] == nil {
			h.rooms[client.RoomID] = make(map[*Client]struct{})
		}
		h.rooms[client.RoomID][client] = struct{}{}
		h.mu.Unlock()
	}

	h.userMu.Lock()
	h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
	h.userMu.Unlock()

	h.updateStats(func(stats *HubStats) {
		stats.TotalConnections++
	})

	if client.Conn != nil {
		client.Start()
	}

	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Str("roomID", client.RoomID).Msg("ws: client registered")
}

// Unregister removes a client from the registry.
func (h *Hub) Unregister(client *Client) {
	if client.RoomID != "" {
		h.mu.Lock()
		if clients, ok := h.rooms[client.RoomID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.rooms, client.RoomID)
			}
		}
		h.mu.Unlock()
	}

	h.userMu.Lock()
	userClients := h.userClients[client.UserID]
	for i, c := range userClients {
		if c == client {
			h.userClients[client.UserID] = append(userClients[:i], userClients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.userMu.Unlock()

	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client unregistered")
}

// BroadcastToUser sends a frame to every live client of a user. Delivery is
// best-effort per session: a full buffer drops the frame for that session
// only.
func (h *Hub) BroadcastToUser(userID string, message OutgoingMessage) {
	h.userMu.RLock()
	clients := make([]*Client, len(h.userClients[userID]))
	copy(clients, h.userClients[userID])
	h.userMu.RUnlock()

	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ws: failed to marshal user message")
		return
	}

	sent := 0
	for _, client := range clients {
		if !client.IsClientActive() {
			continue
		}

		select {
		case client.Send <- data:
			sent++
		case <-client.ctx.Done():
		default:
			log.Warn().Str("userID", userID).Str("clientID", client.ID).Msg("ws: user client buffer full")
		}
	}

	h.updateStats(func(stats *HubStats) {
		stats.MessageSent += int64(sent)
	})
}

// BroadcastToRoom sends a frame to every client with room presence.
func (h *Hub) BroadcastToRoom(roomID string, message OutgoingMessage) {
	message.RoomID = roomID

	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("roomID", roomID).Msg("ws: failed to marshal broadcast message")
		return
	}

	h.mu.RLock()
	var targets []*Client
	if clients, ok := h.rooms[roomID]; ok {
		targets = make([]*Client, 0, len(clients))
		for client := range clients {
			if client.IsClientActive() {
				targets = append(targets, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- data:
		case <-client.ctx.Done():
		default:
			log.Warn().Str("roomID", roomID).Str("clientID", client.ID).Msg("ws: slow consumer, dropping message")
		}
	}

	h.updateStats(func(stats *HubStats) {
		stats.MessageSent += int64(len(targets))
	})
}

// GetUserClients returns all active clients for a user.
func (h *Hub) GetUserClients(userID string) []*Client {
	h.userMu.RLock()
	defer h.userMu.RUnlock()

	var activeClients []*Client
	for _, client := range h.userClients[userID] {
		if client.IsClientActive() {
			activeClients = append(activeClients, client)
		}
	}

	return activeClients
}

// IsUserOnline reports whether the user has at least one active session.
func (h *Hub) IsUserOnline(userID string) bool {
	return len(h.GetUserClients(userID)) > 0
}

// GetRoomStats returns presence statistics for a room.
func (h *Hub) GetRoomStats(roomID string) map[string]any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := map[string]any{
		"room_id": roomID,
		"exists":  false,
	}

	if clients, ok := h.rooms[roomID]; ok {
		activeClients := 0
		uniqueUsers := make(map[string]bool)

		for client := range clients {
			if client.IsClientActive() {
				activeClients++
				uniqueUsers[client.UserID] = true
			}
		}

		stats["exists"] = true
		stats["total_connections"] = len(clients)
		stats["active_connections"] = activeClients
		stats["unique_users"] = len(uniqueUsers)
	}

	return stats
}

// GetHubStats returns overall hub statistics.
func (h *Hub) GetHubStats() HubStats {
	h.statsMu.Lock()
	defer h.statsMu.Unlock()

	h.mu.RLock()
	h.stats.TotalRooms = len(h.rooms)
	h.mu.RUnlock()

	h.userMu.RLock()
	totalClients := 0
	for _, clients := range h.userClients {
		for _, client := range clients {
			if client.IsClientActive() {
				totalClients++
			}
		}
	}
	h.stats.TotalClients = totalClients
	h.userMu.RUnlock()

	return h.stats
}

func (h *Hub) updateStats(fn func(*HubStats)) {
	h.statsMu.Lock()
	fn(&h.stats)
	h.statsMu.Unlock()
}

func (h *Hub) cleanupRoutine() {
	defer h.cleanupTicker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.cleanupTicker.C:
			h.performCleanup()
		}
	}
}

func (h *Hub) performCleanup() {
	now := time.Now()
	inactiveThreshold := 2 * time.Minute

	var toRemove []*Client

	h.userMu.RLock()
	for _, clients := range h.userClients {
		for _, client := range clients {
			if !client.IsClientActive() || now.Sub(client.GetLastSeen()) > inactiveThreshold {
				toRemove = append(toRemove, client)
			}
		}
	}
	h.userMu.RUnlock()

	for _, client := range toRemove {
		log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: cleaning up inactive client")
		client.Close()
		h.Unregister(client)
	}
}

// Close gracefully shuts down the hub and every client.
func (h *Hub) Close() {
	log.Info().Msg("ws: shutting down hub")

	h.cancel()

	h.userMu.RLock()
	var allClients []*Client
	for _, clients := range h.userClients {
		allClients = append(allClients, clients...)
	}
	h.userMu.RUnlock()

	for _, client := range allClients {
		client.Close()
	}

	log.Info().Int("clients", len(allClients)).Msg("ws: hub shutdown completed")
}
