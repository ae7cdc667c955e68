package entity

import "time"

const (
	ParticipantCustomer = "customer"
	ParticipantVendor   = "vendor"
)

const (
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
)

// ParticipantRef identifies one side of a message. Role mirrors Kind for display.
type ParticipantRef struct {
	ID   string `json:"participant_id" firestore:"participantId" bson:"participant_id"`
	Kind string `json:"participant_kind" firestore:"participantKind" bson:"participant_kind"`
	Role string `json:"role" firestore:"role" bson:"role"`
}

type Message struct {
	ID             string         `json:"id" firestore:"id" bson:"_id"`
	Sender         ParticipantRef `json:"sender" firestore:"sender" bson:"sender"`
	Recipient      ParticipantRef `json:"recipient" firestore:"recipient" bson:"recipient"`
	Participants   []string       `json:"-" firestore:"participants" bson:"participants"` // sender and recipient ids, for "either side" queries
	ConversationID string         `json:"conversation_id" firestore:"conversationId" bson:"conversation_id"`
	Text           string         `json:"text" firestore:"text" bson:"text"`
	SourceLanguage string         `json:"source_language" firestore:"sourceLanguage" bson:"source_language"`
	TranslatedText string         `json:"translated_text,omitempty" firestore:"translatedText,omitempty" bson:"translated_text,omitempty"`
	Attachments    []string       `json:"attachments" firestore:"attachments" bson:"attachments"`
	Status         string         `json:"status" firestore:"status" bson:"status"` // "sent", "delivered", "read"
	ReadAt         *time.Time     `json:"read_at,omitempty" firestore:"readAt,omitempty" bson:"read_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at" firestore:"createdAt" bson:"created_at"`
}

// IsUnreadFor reports whether the message is addressed to participantID and not yet read.
func (m *Message) IsUnreadFor(participantID string) bool {
	return m.Recipient.ID == participantID && m.Status != MessageStatusRead
}

// OppositeKind maps customer to vendor and vendor to customer.
func OppositeKind(kind string) string {
	if kind == ParticipantCustomer {
		return ParticipantVendor
	}
	return ParticipantCustomer
}

func IsParticipantKind(kind string) bool {
	return kind == ParticipantCustomer || kind == ParticipantVendor
}
