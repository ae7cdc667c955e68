package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sheworks/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Client is one realtime connection. It has no identity until it authenticates.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	mu            sync.RWMutex
	participantID string
	kind          string
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
}

// Identity returns the participant this connection authenticated as.
func (c *Client) Identity() (participantID, kind string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.participantID, c.kind, c.participantID != ""
}

func (c *Client) setIdentity(participantID, kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.participantID = participantID
	c.kind = kind
}

// ReadPump feeds incoming frames to the coordinator until the connection drops,
// then unregisters the client.
func (c *Client) ReadPump(m *Manager, coordinator *Coordinator) {
	defer func() {
		m.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		m.Touch(c)
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: connection %s closed unexpectedly: %v", c.ID, err)
			}
			break
		}

		coordinator.HandleClientMessage(c, message)
	}
}

// WritePump drains Send to the connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket: write to %s failed: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
