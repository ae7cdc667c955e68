package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/internal/infrastructure/events"
)

type fakeProvider struct {
	name    string
	fail    bool
	delay   time.Duration
	calls   int32
	active  int32
	maxSeen int32
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	cur := atomic.AddInt32(&p.active, 1)
	defer atomic.AddInt32(&p.active, -1)
	for {
		seen := atomic.LoadInt32(&p.maxSeen)
		if cur <= seen || atomic.CompareAndSwapInt32(&p.maxSeen, seen, cur) {
			break
		}
	}

	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.fail {
		return "", errors.New(p.name + " unavailable")
	}
	return "[" + target + "] " + text, nil
}

func (p *fakeProvider) Calls() int { return int(atomic.LoadInt32(&p.calls)) }

type sentEvent struct {
	ParticipantID string
	Kind          string
	Event         string
	Data          interface{}
}

// fakeNotifier delivers to participants marked online.
type fakeNotifier struct {
	mu     sync.Mutex
	online map[string]bool
	sent   []sentEvent
	err    error
}

func newFakeNotifier(online ...string) *fakeNotifier {
	n := &fakeNotifier{online: make(map[string]bool)}
	for _, id := range online {
		n.online[id] = true
	}
	return n
}

func (n *fakeNotifier) NotifyParticipant(ctx context.Context, participantID, kind, event string, data interface{}) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return false, n.err
	}
	if !n.online[participantID] {
		return false, nil
	}
	n.sent = append(n.sent, sentEvent{ParticipantID: participantID, Kind: kind, Event: event, Data: data})
	return true, nil
}

func (n *fakeNotifier) events() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.sent...)
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, msg events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func seedParticipants(repo repository.ParticipantRepository, participants ...*entity.Participant) {
	for _, p := range participants {
		if err := repo.Create(context.Background(), p); err != nil {
			panic(err)
		}
	}
}
