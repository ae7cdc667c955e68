package entity

import (
	"sort"
	"strconv"
	"strings"
)

// Conversation is derived from the message set on every read; it is never stored.
type Conversation struct {
	Key          string           `json:"conversation_id"`
	LastMessage  *Message         `json:"last_message"`
	UnreadCount  int              `json:"unread_count"`
	Participants []ParticipantRef `json:"participants"`
}

// ConversationKey pairs two participant ids independent of order. The first id
// is length-prefixed ("<len>:<a>:<b>") so ids containing any separator still
// map to distinct keys.
func ConversationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return strconv.Itoa(len(a)) + ":" + a + ":" + b
}

// SplitConversationKey is the inverse of ConversationKey. It only accepts keys
// in canonical form, so a plain participant id never parses as a key by accident
// unless it is exactly what ConversationKey would produce.
func SplitConversationKey(key string) (string, string, bool) {
	prefix, rest, ok := strings.Cut(key, ":")
	if !ok {
		return "", "", false
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n <= 0 || n >= len(rest) || strconv.Itoa(n) != prefix {
		return "", "", false
	}
	a, b := rest[:n], rest[n:]
	if !strings.HasPrefix(b, ":") {
		return "", "", false
	}
	b = b[1:]
	if b == "" || ConversationKey(a, b) != key {
		return "", "", false
	}
	return a, b, true
}

// GroupConversations folds messages (newest first) into per-pair conversations
// as seen by viewerID, ordered by most recent message descending.
func GroupConversations(viewerID string, newestFirst []*Message) []*Conversation {
	byKey := make(map[string]*Conversation)
	seen := make(map[string]map[string]bool)
	order := make([]*Conversation, 0)

	for _, msg := range newestFirst {
		key := ConversationKey(msg.Sender.ID, msg.Recipient.ID)

		conv, ok := byKey[key]
		if !ok {
			conv = &Conversation{Key: key, LastMessage: msg}
			byKey[key] = conv
			seen[key] = make(map[string]bool)
			order = append(order, conv)
		}

		for _, p := range []ParticipantRef{msg.Sender, msg.Recipient} {
			if !seen[key][p.ID] {
				seen[key][p.ID] = true
				conv.Participants = append(conv.Participants, p)
			}
		}

		if msg.IsUnreadFor(viewerID) {
			conv.UnreadCount++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].LastMessage.CreatedAt.After(order[j].LastMessage.CreatedAt)
	})

	return order
}
