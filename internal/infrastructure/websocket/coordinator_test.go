package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheworks/internal/adapter/repository"
	"sheworks/internal/domain/entity"
	"sheworks/internal/infrastructure/auth"
	"sheworks/internal/infrastructure/presence"
	"sheworks/internal/usecase"
)

type testFrame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

type harness struct {
	manager     *Manager
	coordinator *Coordinator
	messages    *usecase.MessageUseCase
}

func newHarness(t *testing.T, verifier auth.TokenVerifier) *harness {
	t.Helper()

	participants := repository.NewMemoryParticipantRepository()
	for _, p := range []*entity.Participant{
		{ID: "c1", Kind: entity.ParticipantCustomer, Name: "Ada"},
		{ID: "v1", Kind: entity.ParticipantVendor, Name: "Bea"},
	} {
		require.NoError(t, participants.Create(context.Background(), p))
	}

	manager := NewManager(presence.NewMemoryRegistry())
	messages := usecase.NewMessageUseCase(repository.NewMemoryMessageRepository(), participants, nil, manager, nil, nil)

	return &harness{
		manager:     manager,
		coordinator: NewCoordinator(manager, messages, verifier),
		messages:    messages,
	}
}

func (h *harness) connect() *Client {
	client := NewClient(nil)
	h.manager.Register(client)
	return client
}

func (h *harness) send(t *testing.T, client *Client, eventType string, data interface{}) {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	raw, err := json.Marshal(Frame{Type: eventType, Data: payload})
	require.NoError(t, err)
	h.coordinator.HandleClientMessage(client, raw)
}

func (h *harness) authenticate(t *testing.T, client *Client, id, kind string) {
	t.Helper()
	h.send(t, client, EventAuthenticate, AuthenticateData{UserID: id, UserType: kind})
	frame := next(t, client)
	require.Equal(t, EventAuthenticated, frame.Type, string(frame.Data))
}

func next(t *testing.T, client *Client) testFrame {
	t.Helper()
	select {
	case raw := <-client.Send:
		var frame testFrame
		require.NoError(t, json.Unmarshal(raw, &frame))
		_, err := time.Parse(time.RFC3339, frame.Timestamp)
		require.NoError(t, err)
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame queued")
		return testFrame{}
	}
}

func assertSilent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case raw := <-client.Send:
		t.Fatalf("unexpected frame: %s", raw)
	default:
	}
}

func TestAuthenticateRegistersPresence(t *testing.T) {
	h := newHarness(t, nil)
	client := h.connect()

	h.send(t, client, EventAuthenticate, AuthenticateData{UserID: "c1", UserType: "customer"})
	frame := next(t, client)
	require.Equal(t, EventAuthenticated, frame.Type)

	var data AuthenticatedData
	require.NoError(t, json.Unmarshal(frame.Data, &data))
	assert.Equal(t, "c1", data.UserID)
	assert.Equal(t, client.ID, data.ConnectionID)

	connID, ok, err := h.manager.Registry().Lookup(context.Background(), "c1", "customer")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, client.ID, connID)
}

func TestAuthenticateRejectsBadKind(t *testing.T) {
	h := newHarness(t, nil)
	client := h.connect()

	h.send(t, client, EventAuthenticate, AuthenticateData{UserID: "c1", UserType: "admin"})
	assert.Equal(t, EventMessageError, next(t, client).Type)

	_, _, ok := client.Identity()
	assert.False(t, ok)
}

func TestAuthenticateWithVerifier(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	h := newHarness(t, jwtManager)
	token, err := jwtManager.IssueToken(context.Background(), "v1", "vendor")
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		client := h.connect()
		h.send(t, client, EventAuthenticate, AuthenticateData{UserID: "v1", UserType: "vendor"})
		assert.Equal(t, EventMessageError, next(t, client).Type)
	})

	t.Run("mismatched user", func(t *testing.T) {
		client := h.connect()
		h.send(t, client, EventAuthenticate, AuthenticateData{UserID: "c1", UserType: "customer", Token: token})
		assert.Equal(t, EventMessageError, next(t, client).Type)
	})

	t.Run("kind comes from the token", func(t *testing.T) {
		client := h.connect()
		h.send(t, client, EventAuthenticate, AuthenticateData{UserID: "v1", UserType: "customer", Token: token})
		require.Equal(t, EventAuthenticated, next(t, client).Type)

		_, kind, ok := client.Identity()
		assert.True(t, ok)
		assert.Equal(t, "vendor", kind)
	})
}

func TestSendMessageDeliversToOnlineRecipient(t *testing.T) {
	h := newHarness(t, nil)
	customer := h.connect()
	vendor := h.connect()
	h.authenticate(t, customer, "c1", "customer")
	h.authenticate(t, vendor, "v1", "vendor")

	h.send(t, customer, EventSendMessage, SendMessageData{RecipientID: "v1", Message: "Hola", Language: "es"})

	pushed := next(t, vendor)
	require.Equal(t, EventNewMessage, pushed.Type)
	var incoming entity.Message
	require.NoError(t, json.Unmarshal(pushed.Data, &incoming))
	assert.Equal(t, "Hola", incoming.Text)
	assert.Equal(t, "c1", incoming.Sender.ID)

	ack := next(t, customer)
	require.Equal(t, EventMessageSent, ack.Type)
	var sent entity.Message
	require.NoError(t, json.Unmarshal(ack.Data, &sent))
	assert.Equal(t, entity.MessageStatusDelivered, sent.Status)
	assert.Equal(t, "vendor", sent.Recipient.Kind)
}

func TestSendMessageToOfflineRecipient(t *testing.T) {
	h := newHarness(t, nil)
	customer := h.connect()
	h.authenticate(t, customer, "c1", "customer")

	h.send(t, customer, EventSendMessage, SendMessageData{RecipientID: "v1", Message: "Are you there?"})

	ack := next(t, customer)
	require.Equal(t, EventMessageSent, ack.Type)
	var sent entity.Message
	require.NoError(t, json.Unmarshal(ack.Data, &sent))
	assert.Equal(t, entity.MessageStatusSent, sent.Status)

	count, err := h.messages.UnreadCount(context.Background(), "v1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSendMessageErrors(t *testing.T) {
	h := newHarness(t, nil)
	client := h.connect()

	h.send(t, client, EventSendMessage, SendMessageData{RecipientID: "v1", Message: "hi"})
	assert.Equal(t, EventMessageError, next(t, client).Type)

	h.authenticate(t, client, "c1", "customer")
	h.send(t, client, EventSendMessage, SendMessageData{RecipientID: "ghost", Message: "hi"})
	frame := next(t, client)
	require.Equal(t, EventMessageError, frame.Type)

	var data ErrorData
	require.NoError(t, json.Unmarshal(frame.Data, &data))
	assert.Equal(t, "Recipient not found", data.Error)
}

func TestTypingRoutesToOppositeKind(t *testing.T) {
	h := newHarness(t, nil)
	customer := h.connect()
	vendor := h.connect()
	h.authenticate(t, customer, "c1", "customer")
	h.authenticate(t, vendor, "v1", "vendor")

	h.send(t, customer, EventTyping, TypingData{RecipientID: "v1", IsTyping: true, SenderType: "customer"})

	frame := next(t, vendor)
	require.Equal(t, EventUserTyping, frame.Type)
	var data UserTypingData
	require.NoError(t, json.Unmarshal(frame.Data, &data))
	assert.Equal(t, "c1", data.UserID)
	assert.True(t, data.IsTyping)
	assertSilent(t, customer)
}

func TestTypingToOfflineRecipientIsDropped(t *testing.T) {
	h := newHarness(t, nil)
	customer := h.connect()
	h.authenticate(t, customer, "c1", "customer")

	h.send(t, customer, EventTyping, TypingData{RecipientID: "v1", IsTyping: true})
	assertSilent(t, customer)
}

func TestPingAndUnknownEvents(t *testing.T) {
	h := newHarness(t, nil)
	client := h.connect()

	h.send(t, client, EventPing, struct{}{})
	assert.Equal(t, EventPong, next(t, client).Type)

	h.send(t, client, "dance", struct{}{})
	assert.Equal(t, EventMessageError, next(t, client).Type)

	h.coordinator.HandleClientMessage(client, []byte("{not json"))
	assert.Equal(t, EventMessageError, next(t, client).Type)
}
