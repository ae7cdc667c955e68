package entity

import "time"

const (
	NotificationKindOrderPlaced = "order_placed"
	NotificationKindNewMessage  = "new_message"
)

type Notification struct {
	ID        string                 `json:"id" firestore:"id" bson:"_id"`
	OwnerID   string                 `json:"owner_id" firestore:"ownerId" bson:"owner_id"`
	OwnerKind string                 `json:"owner_kind" firestore:"ownerKind" bson:"owner_kind"`
	Kind      string                 `json:"kind" firestore:"kind" bson:"kind"`
	Text      string                 `json:"text" firestore:"text" bson:"text"`
	Payload   map[string]interface{} `json:"payload,omitempty" firestore:"payload,omitempty" bson:"payload,omitempty"`
	Read      bool                   `json:"read" firestore:"read" bson:"read"`
	CreatedAt time.Time              `json:"created_at" firestore:"createdAt" bson:"created_at"`
}
