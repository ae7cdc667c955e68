package websocket

import (
	"context"
	stderrors "errors"
	"encoding/json"
	"time"

	"sheworks/internal/domain/entity"
	"sheworks/internal/infrastructure/auth"
	"sheworks/internal/usecase"
	"sheworks/pkg/errors"
	"sheworks/pkg/logger"
)

const handlerTimeout = 15 * time.Second

// MessageSender persists a message and fans it out.
type MessageSender interface {
	SendMessage(ctx context.Context, input usecase.SendMessageInput) (*entity.Message, error)
}

// Coordinator handles the events of one connection:
// Connecting -> Authenticated -> Active <-> Typing -> Disconnected.
// Handler failures never escape; they become message_error frames.
type Coordinator struct {
	manager  *Manager
	sender   MessageSender
	verifier auth.TokenVerifier
}

// NewCoordinator requires a token on authenticate when verifier is non-nil.
func NewCoordinator(manager *Manager, sender MessageSender, verifier auth.TokenVerifier) *Coordinator {
	return &Coordinator{
		manager:  manager,
		sender:   sender,
		verifier: verifier,
	}
}

func (co *Coordinator) HandleClientMessage(client *Client, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("WebSocket: handler panic on %s: %v", client.ID, r)
			co.manager.sendErrorToClient(client, "Internal error")
		}
	}()

	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		co.manager.sendErrorToClient(client, "Invalid message format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	switch frame.Type {
	case EventPing:
		co.manager.sendToClient(client, EventPong, map[string]string{"status": "alive"})
	case EventAuthenticate:
		co.handleAuthenticate(ctx, client, frame.Data)
	case EventSendMessage:
		co.handleSendMessage(ctx, client, frame.Data)
	case EventTyping:
		co.handleTyping(ctx, client, frame.Data)
	default:
		logger.Debug("WebSocket: unknown event '%s' from %s", frame.Type, client.ID)
		co.manager.sendErrorToClient(client, "Unknown message type")
	}
}

func (co *Coordinator) handleAuthenticate(ctx context.Context, client *Client, data json.RawMessage) {
	var payload AuthenticateData
	if err := json.Unmarshal(data, &payload); err != nil {
		co.manager.sendErrorToClient(client, "Invalid authenticate format")
		return
	}

	participantID, kind := payload.UserID, payload.UserType
	if co.verifier != nil {
		if payload.Token == "" {
			co.manager.sendErrorToClient(client, "Authentication token is required")
			return
		}
		identity, err := co.verifier.VerifyToken(ctx, payload.Token)
		if err != nil {
			co.manager.sendErrorToClient(client, "Invalid or expired token")
			return
		}
		if participantID != "" && participantID != identity.UID {
			co.manager.sendErrorToClient(client, "Token does not match user")
			return
		}
		participantID = identity.UID
		if identity.Kind != "" {
			kind = identity.Kind
		}
	}

	if participantID == "" || !entity.IsParticipantKind(kind) {
		co.manager.sendErrorToClient(client, "userId and a userType of customer or vendor are required")
		return
	}

	if err := co.manager.Registry().Register(ctx, participantID, kind, client.ID); err != nil {
		logger.Error("WebSocket: presence register failed for %s: %v", participantID, err)
		co.manager.sendErrorToClient(client, "Failed to register connection")
		return
	}
	client.setIdentity(participantID, kind)
	logger.Info("WebSocket: %s %s authenticated on %s", kind, participantID, client.ID)

	co.manager.sendToClient(client, EventAuthenticated, AuthenticatedData{
		UserID:       participantID,
		UserType:     kind,
		ConnectionID: client.ID,
	})
}

func (co *Coordinator) handleSendMessage(ctx context.Context, client *Client, data json.RawMessage) {
	senderID, senderKind, ok := client.Identity()
	if !ok {
		co.manager.sendErrorToClient(client, "Not authenticated")
		return
	}

	var payload SendMessageData
	if err := json.Unmarshal(data, &payload); err != nil {
		co.manager.sendErrorToClient(client, "Invalid send message format")
		return
	}

	message, err := co.sender.SendMessage(ctx, usecase.SendMessageInput{
		SenderID:    senderID,
		SenderKind:  senderKind,
		RecipientID: payload.RecipientID,
		Text:        payload.Message,
		Language:    payload.Language,
		Attachments: payload.Attachments,
	})
	if err != nil {
		co.manager.sendErrorToClient(client, clientMessage(err))
		return
	}

	co.manager.sendToClient(client, EventMessageSent, message)
}

// handleTyping routes through the registry table opposite to the sender's
// declared kind. Offline recipients are ignored.
func (co *Coordinator) handleTyping(ctx context.Context, client *Client, data json.RawMessage) {
	senderID, senderKind, ok := client.Identity()
	if !ok {
		co.manager.sendErrorToClient(client, "Not authenticated")
		return
	}

	var payload TypingData
	if err := json.Unmarshal(data, &payload); err != nil {
		co.manager.sendErrorToClient(client, "Invalid typing format")
		return
	}
	if payload.RecipientID == "" {
		return
	}

	declared := payload.SenderType
	if !entity.IsParticipantKind(declared) {
		declared = senderKind
	}

	delivered, err := co.manager.NotifyParticipant(ctx, payload.RecipientID, entity.OppositeKind(declared), EventUserTyping, UserTypingData{
		UserID:   senderID,
		IsTyping: payload.IsTyping,
	})
	if err != nil {
		logger.Warn("WebSocket: typing relay from %s failed: %v", senderID, err)
		return
	}
	if !delivered {
		logger.Debug("WebSocket: typing from %s dropped, %s is offline", senderID, payload.RecipientID)
	}
}

func clientMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "Failed to send message"
}
