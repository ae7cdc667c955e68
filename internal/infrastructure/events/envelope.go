// Package events publishes domain events to the message broker.
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeOrderPlaced = "orders.placed.v1"
	TypeMessageSent = "messages.sent.v1"
)

type Meta struct {
	ID            string    `json:"id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Producer      string    `json:"producer,omitempty"`
	Time          time.Time `json:"time"`
	// Event name and version, e.g. orders.placed.v1
	Type string `json:"type"`
}

type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// NewEnvelope stamps a fresh id and time on data.
func NewEnvelope(eventType string, data any) Envelope {
	return Envelope{
		Meta: Meta{
			ID:       uuid.NewString(),
			Producer: "sheworks-api",
			Time:     time.Now().UTC(),
			Type:     eventType,
		},
		Data: data,
	}
}
