package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MB
)

// Client is one live websocket session of a user. A user can hold several
// clients at once (multiple tabs/devices); the hub tracks all of them.
type Client struct {
	ID     string
	UserID string
	RoomID string
	Conn   *websocket.Conn
	Send   chan []byte

	hub    *Hub
	ctx    context.Context
	cancel context.CancelFunc

	ConnectedAt time.Time
	lastSeen    time.Time
	seenMu      sync.RWMutex
	closeOnce   sync.Once
}

func NewClient(id, userID, roomID string, conn *websocket.Conn, hub *Hub) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	return &Client{
		ID:          id,
		UserID:      userID,
		RoomID:      roomID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		hub:         hub,
		ctx:         ctx,
		cancel:      cancel,
		ConnectedAt: now,
		lastSeen:    now,
	}
}

// Start launches the read and write pumps. Called once, by Hub.Register.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) IsClientActive() bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
		return true
	}
}

func (c *Client) GetLastSeen() time.Time {
	c.seenMu.RLock()
	defer c.seenMu.RUnlock()
	return c.lastSeen
}

func (c *Client) touch() {
	c.seenMu.Lock()
	c.lastSeen = time.Now()
	c.seenMu.Unlock()
}

// SendMessage marshals and queues a frame for this client. Drops the frame
// when the client's buffer is full rather than blocking the caller.
func (c *Client) SendMessage(msg OutgoingMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("clientID", c.ID).Msg("ws: failed to marshal message")
		return
	}

	select {
	case c.Send <- data:
	case <-c.ctx.Done():
	default:
		log.Warn().Str("clientID", c.ID).Str("userID", c.UserID).Msg("ws: client buffer full, dropping frame")
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

// writePump drains c.Send to the socket and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// readPump consumes inbound frames. This server pushes updates only; client
// frames are discarded, but the read loop carries pong handling and surfaces
// disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.touch()
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
		c.touch()
	}
}
