// Package presence tracks which participants hold a live realtime connection.
package presence

import (
	"context"
	"sync"
)

// Identity is what a connection authenticated as.
type Identity struct {
	ParticipantID string
	Kind          string
}

// Registry maps participants to their active connection, one table per kind.
// A participant holds at most one connection; registering again replaces it.
type Registry interface {
	Register(ctx context.Context, participantID, kind, connID string) error
	Lookup(ctx context.Context, participantID, kind string) (connID string, ok bool, err error)
	// Unregister removes whatever connID authenticated as and reports that identity.
	Unregister(ctx context.Context, connID string) (Identity, bool, error)
	// Refresh keeps connID's entry alive. Unknown connections are ignored.
	Refresh(ctx context.Context, connID string) error
}

type memoryRegistry struct {
	mu     sync.RWMutex
	byKind map[string]map[string]string
	byConn map[string]Identity
}

// NewMemoryRegistry returns a process-local registry.
func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		byKind: make(map[string]map[string]string),
		byConn: make(map[string]Identity),
	}
}

func (r *memoryRegistry) Register(ctx context.Context, participantID, kind, connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.byKind[kind]
	if !ok {
		table = make(map[string]string)
		r.byKind[kind] = table
	}

	// The previous connection is orphaned; forget its reverse entry so its
	// eventual disconnect cannot evict the new one.
	if prev, ok := table[participantID]; ok && prev != connID {
		delete(r.byConn, prev)
	}
	if prevIdentity, ok := r.byConn[connID]; ok {
		if prevTable := r.byKind[prevIdentity.Kind]; prevTable[prevIdentity.ParticipantID] == connID {
			delete(prevTable, prevIdentity.ParticipantID)
		}
	}

	table[participantID] = connID
	r.byConn[connID] = Identity{ParticipantID: participantID, Kind: kind}
	return nil
}

func (r *memoryRegistry) Lookup(ctx context.Context, participantID, kind string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.byKind[kind][participantID]
	return connID, ok, nil
}

func (r *memoryRegistry) Unregister(ctx context.Context, connID string) (Identity, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byConn[connID]
	if !ok {
		return Identity{}, false, nil
	}
	delete(r.byConn, connID)

	if table := r.byKind[identity.Kind]; table[identity.ParticipantID] == connID {
		delete(table, identity.ParticipantID)
	}
	return identity, true, nil
}

// Refresh is a no-op: memory entries live exactly as long as the process.
func (r *memoryRegistry) Refresh(ctx context.Context, connID string) error {
	return nil
}
