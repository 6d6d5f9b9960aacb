package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/rai/commerce-saga-go/modules/shared/events"
)

// Deduplicator tracks recently processed deliveries keyed on (type, id) so
// at-least-once redeliveries can be acknowledged without reprocessing. The
// window only needs to cover realistic redelivery latency; it is not a
// forever-dedup store.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// maxEntries caps the window before a sweep of expired entries runs.
const maxEntries = 4096

func NewDeduplicator(ttl time.Duration) *Deduplicator {
	return &Deduplicator{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Seen reports whether this delivery was already processed within the window.
// It does not record the delivery; call Mark after the handler succeeds, so a
// failed handling attempt is still retried on redelivery.
func (d *Deduplicator) Seen(env events.Envelope) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	at, ok := d.seen[dedupKey(env)]
	return ok && d.now().Sub(at) < d.ttl
}

// Mark records a successfully processed delivery.
func (d *Deduplicator) Mark(env events.Envelope) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.seen) >= maxEntries {
		d.sweepLocked()
	}
	d.seen[dedupKey(env)] = d.now()
}

func (d *Deduplicator) sweepLocked() {
	cutoff := d.now().Add(-d.ttl)
	for key, at := range d.seen {
		if at.Before(cutoff) {
			delete(d.seen, key)
		}
	}
}

func dedupKey(env events.Envelope) string {
	return env.Type.String() + ":" + env.ID
}

// WithDedup wraps a handler with the redelivery window: duplicate deliveries
// are acknowledged without invoking next, and a delivery is only recorded
// once next succeeds.
func WithDedup(d *Deduplicator, next events.Handler) events.Handler {
	return events.HandlerFunc(func(ctx context.Context, env events.Envelope) error {
		if d.Seen(env) {
			return nil
		}
		if err := next.Handle(ctx, env); err != nil {
			return err
		}
		d.Mark(env)
		return nil
	})
}
