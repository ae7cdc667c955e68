package entity

import "time"

// Participant is a customer or vendor account as seen by the messaging core.
type Participant struct {
	ID                string    `json:"id" firestore:"id" bson:"_id"`
	Kind              string    `json:"kind" firestore:"kind" bson:"kind"`
	Name              string    `json:"name" firestore:"name" bson:"name"`
	Email             string    `json:"email,omitempty" firestore:"email,omitempty" bson:"email,omitempty"`
	PreferredLanguage string    `json:"preferred_language,omitempty" firestore:"preferredLanguage,omitempty" bson:"preferred_language,omitempty"`
	CreatedAt         time.Time `json:"created_at" firestore:"createdAt" bson:"created_at"`
}

func (p *Participant) Ref() ParticipantRef {
	return ParticipantRef{ID: p.ID, Kind: p.Kind, Role: p.Kind}
}
