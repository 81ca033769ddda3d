package notify

import (
	"context"
	"sync"
	"time"

	"jobfit-backend/internal/shared/telemetry"
)

// Sink receives every published notice, e.g. a message broker.
type Sink interface {
	Deliver(ctx context.Context, n Notice) error
}

// Bus keeps the most recent notice per session and fans notices out to sinks.
// Sink failures are logged and never reach the publisher.
type Bus struct {
	mu     sync.RWMutex
	latest map[string]Notice
	sinks  []Sink
	now    func() time.Time
}

// NewBus constructs a Bus with optional sinks.
func NewBus(sinks ...Sink) *Bus {
	return &Bus{
		latest: make(map[string]Notice),
		sinks:  sinks,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Publish records n as the session's latest notice and forwards it.
func (b *Bus) Publish(ctx context.Context, n Notice) {
	if n.Severity == "" {
		n.Severity = SeverityInfo
	}
	if n.At.IsZero() {
		n.At = b.now()
	}

	b.mu.Lock()
	if n.SessionID != "" {
		b.latest[n.SessionID] = n
	}
	sinks := b.sinks
	b.mu.Unlock()

	for _, s := range sinks {
		if err := s.Deliver(ctx, n); err != nil {
			telemetry.Warn("notify.sink_failed", map[string]any{
				"session_id": n.SessionID,
				"severity":   string(n.Severity),
				"error":      err,
			})
		}
	}
}

// Latest returns the most recent notice for a session.
func (b *Bus) Latest(sessionID string) (Notice, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, ok := b.latest[sessionID]
	return n, ok
}

// Forget drops the stored notice for a session.
func (b *Bus) Forget(sessionID string) {
	b.mu.Lock()
	delete(b.latest, sessionID)
	b.mu.Unlock()
}

var _ Publisher = (*Bus)(nil)
