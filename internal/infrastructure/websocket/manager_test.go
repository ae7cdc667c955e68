package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheworks/internal/infrastructure/presence"
)

func TestUnregisterClearsPresence(t *testing.T) {
	registry := presence.NewMemoryRegistry()
	manager := NewManager(registry)
	client := NewClient(nil)
	manager.Register(client)
	require.NoError(t, registry.Register(context.Background(), "c1", "customer", client.ID))

	manager.Unregister(client)
	manager.Unregister(client)

	assert.Equal(t, 0, manager.ClientCount())
	_, ok, err := registry.Lookup(context.Background(), "c1", "customer")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReconnectKeepsNewestConnection(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(presence.NewMemoryRegistry())
	first := NewClient(nil)
	second := NewClient(nil)
	manager.Register(first)
	manager.Register(second)

	require.NoError(t, manager.Registry().Register(ctx, "v1", "vendor", first.ID))
	require.NoError(t, manager.Registry().Register(ctx, "v1", "vendor", second.ID))
	manager.Unregister(first)

	delivered, err := manager.NotifyParticipant(ctx, "v1", "vendor", EventOrderPlaced, map[string]string{"orderId": "o1"})
	require.NoError(t, err)
	assert.True(t, delivered)
	assert.Len(t, second.Send, 1)
}

func TestNotifyOfflineParticipant(t *testing.T) {
	manager := NewManager(presence.NewMemoryRegistry())

	delivered, err := manager.NotifyParticipant(context.Background(), "nobody", "customer", EventNewMessage, nil)
	require.NoError(t, err)
	assert.False(t, delivered)
}

func TestSendToUnknownConnection(t *testing.T) {
	manager := NewManager(presence.NewMemoryRegistry())
	assert.False(t, manager.SendToConnection("missing", []byte("{}")))
}

func TestTouchExtendsPresenceOfAuthenticatedClient(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	registry := presence.NewRedisRegistry(rdb, "p", time.Minute)
	manager := NewManager(registry)

	anonymous := NewClient(nil)
	authed := NewClient(nil)
	manager.Register(anonymous)
	manager.Register(authed)
	authed.setIdentity("v1", "vendor")
	require.NoError(t, registry.Register(ctx, "v1", "vendor", authed.ID))

	mr.FastForward(50 * time.Second)
	manager.Touch(anonymous)
	manager.Touch(authed)
	mr.FastForward(50 * time.Second)

	connID, ok, err := registry.Lookup(ctx, "v1", "vendor")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, authed.ID, connID)
}
