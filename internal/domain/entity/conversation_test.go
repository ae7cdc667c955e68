package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(id, kind string) ParticipantRef {
	return ParticipantRef{ID: id, Kind: kind, Role: kind}
}

func msg(id string, from, to ParticipantRef, status string, at time.Time) *Message {
	return &Message{ID: id, Sender: from, Recipient: to, Status: status, CreatedAt: at}
}

func TestConversationKeySymmetry(t *testing.T) {
	pairs := [][2]string{{"u1", "v1"}, {"v9", "a"}, {"same-prefix", "same"}}
	for _, p := range pairs {
		assert.Equal(t, ConversationKey(p[0], p[1]), ConversationKey(p[1], p[0]))
	}

	a, b, ok := SplitConversationKey(ConversationKey("v1", "u1"))
	require.True(t, ok)
	assert.Equal(t, "u1", a)
	assert.Equal(t, "v1", b)

	for _, bad := range []string{"nounderscore", "u1_v1", "2:u1", "x:u1:v1", "02:u1:v1", "2:v1:u1", "9:u1:v1"} {
		_, _, ok = SplitConversationKey(bad)
		assert.False(t, ok, bad)
	}
}

func TestConversationKeyIsInjective(t *testing.T) {
	assert.NotEqual(t, ConversationKey("ann_b", "c"), ConversationKey("ann", "b_c"))
	assert.NotEqual(t, ConversationKey("a:b", "c"), ConversationKey("a", "b:c"))
	assert.NotEqual(t, ConversationKey("1:a", "b"), ConversationKey("1", "a:b"))

	for _, pair := range [][2]string{{"ann_b", "c"}, {"a:b", "c:d"}, {"1:x", "y"}} {
		a, b, ok := SplitConversationKey(ConversationKey(pair[0], pair[1]))
		require.True(t, ok)
		assert.ElementsMatch(t, []string{pair[0], pair[1]}, []string{a, b})
	}
}

func TestGroupConversations(t *testing.T) {
	u1 := ref("u1", ParticipantCustomer)
	v1 := ref("v1", ParticipantVendor)
	v2 := ref("v2", ParticipantVendor)
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	// newest first
	messages := []*Message{
		msg("m4", v2, u1, MessageStatusSent, t0.Add(4*time.Minute)),
		msg("m3", v1, u1, MessageStatusDelivered, t0.Add(3*time.Minute)),
		msg("m2", u1, v1, MessageStatusSent, t0.Add(2*time.Minute)),
		msg("m1", v1, u1, MessageStatusRead, t0.Add(1*time.Minute)),
	}

	convs := GroupConversations("u1", messages)
	require.Len(t, convs, 2)

	assert.Equal(t, ConversationKey("u1", "v2"), convs[0].Key)
	assert.Equal(t, "m4", convs[0].LastMessage.ID)
	assert.Equal(t, 1, convs[0].UnreadCount)

	assert.Equal(t, ConversationKey("u1", "v1"), convs[1].Key)
	assert.Equal(t, "m3", convs[1].LastMessage.ID)
	// m3 is unread for u1; m2 is addressed to v1; m1 is read
	assert.Equal(t, 1, convs[1].UnreadCount)
	assert.Len(t, convs[1].Participants, 2)
}

func TestGroupConversationsEmpty(t *testing.T) {
	assert.Empty(t, GroupConversations("u1", nil))
}
