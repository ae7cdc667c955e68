package websocket

import (
	"context"
	"sync"

	"sheworks/internal/infrastructure/presence"
	"sheworks/pkg/logger"
)

// Manager owns the live connections of this process and resolves participants
// to connections through the presence registry.
type Manager struct {
	clients  map[string]*Client
	registry presence.Registry
	mutex    sync.RWMutex
}

func NewManager(registry presence.Registry) *Manager {
	return &Manager{
		clients:  make(map[string]*Client),
		registry: registry,
	}
}

func (m *Manager) Registry() presence.Registry {
	return m.registry
}

func (m *Manager) Register(client *Client) {
	m.mutex.Lock()
	m.clients[client.ID] = client
	m.mutex.Unlock()
	logger.Debug("WebSocket: connection %s opened", client.ID)
}

// Unregister drops the connection and its presence entry. Safe to call twice.
func (m *Manager) Unregister(client *Client) {
	m.mutex.Lock()
	_, ok := m.clients[client.ID]
	if ok {
		delete(m.clients, client.ID)
		close(client.Send)
	}
	m.mutex.Unlock()

	if !ok {
		return
	}

	identity, found, err := m.registry.Unregister(context.Background(), client.ID)
	if err != nil {
		logger.Error("WebSocket: failed to clear presence for %s: %v", client.ID, err)
		return
	}
	if found {
		logger.Info("WebSocket: %s %s disconnected", identity.Kind, identity.ParticipantID)
	}
}

// Touch keeps an authenticated connection's presence entry from expiring.
func (m *Manager) Touch(client *Client) {
	if _, _, ok := client.Identity(); !ok {
		return
	}
	if err := m.registry.Refresh(context.Background(), client.ID); err != nil {
		logger.Warn("WebSocket: failed to refresh presence for %s: %v", client.ID, err)
	}
}

func (m *Manager) ClientCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// SendToConnection queues message on a local connection. It reports false when
// the connection is not on this process or its buffer is full.
func (m *Manager) SendToConnection(connID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[connID]
	if !ok {
		return false
	}

	select {
	case client.Send <- message:
		return true
	default:
		logger.Warn("WebSocket: send buffer full for %s, dropping frame", connID)
		return false
	}
}

func (m *Manager) sendToClient(client *Client, eventType string, data interface{}) {
	frame, err := encodeFrame(eventType, data)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s for %s: %v", eventType, client.ID, err)
		return
	}
	m.SendToConnection(client.ID, frame)
}

func (m *Manager) sendErrorToClient(client *Client, message string) {
	m.sendToClient(client, EventMessageError, ErrorData{Error: message})
}

// NotifyParticipant delivers an event to the participant's live connection, if any.
func (m *Manager) NotifyParticipant(ctx context.Context, participantID, kind, eventType string, data interface{}) (bool, error) {
	connID, ok, err := m.registry.Lookup(ctx, participantID, kind)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	frame, err := encodeFrame(eventType, data)
	if err != nil {
		return false, err
	}
	return m.SendToConnection(connID, frame), nil
}
