package websocket

import (
	"encoding/json"
	"time"

	"sheworks/internal/usecase"
)

// Client -> server event types
const (
	EventAuthenticate = "authenticate"
	EventSendMessage  = "send_message"
	EventTyping       = "typing"
	EventPing         = "ping"
)

// Server -> client event types
const (
	EventAuthenticated = "authenticated"
	EventNewMessage    = usecase.EventNewMessage
	EventMessageSent   = "message_sent"
	EventUserTyping    = "user_typing"
	EventMessageError  = "message_error"
	EventOrderPlaced   = usecase.EventOrderPlaced
	EventPong          = "pong"
)

// Frame is the JSON envelope for every event on the socket.
type Frame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

type outgoingFrame struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

func encodeFrame(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(outgoingFrame{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

type AuthenticateData struct {
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
	Token    string `json:"token,omitempty"`
}

type AuthenticatedData struct {
	UserID       string `json:"userId"`
	UserType     string `json:"userType"`
	ConnectionID string `json:"connectionId"`
}

type SendMessageData struct {
	RecipientID string   `json:"recipientId"`
	Message     string   `json:"message"`
	Language    string   `json:"language"`
	SenderType  string   `json:"senderType"`
	Attachments []string `json:"attachments,omitempty"`
}

type TypingData struct {
	RecipientID string `json:"recipientId"`
	IsTyping    bool   `json:"isTyping"`
	SenderType  string `json:"senderType"`
}

type UserTypingData struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

type ErrorData struct {
	Error string `json:"error"`
}
