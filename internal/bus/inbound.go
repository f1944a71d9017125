// Package bus implements the bounded inbound and outbound event buses
// described in spec §4.2/§4.3: transports are producers, the engine is
// the single consumer, and a full bus disconnects the offending
// session rather than blocking the producer indefinitely.
//
// Grounded in the teacher's channel-per-connection style
// (cmd/server/main.go Client.send) and generalized from a single
// per-session channel into the shared multi-producer inbound queue
// spec §4.3 requires.
package bus

import (
	"time"

	"github.com/ambonmud/ambonmud/internal/events"
)

// Inbound is a bounded multi-producer single-consumer queue of
// InboundEvent. Producers are transports; the consumer is the engine's
// tick loop (Drain).
type Inbound struct {
	ch chan events.InboundEvent
}

// NewInbound creates an inbound bus with the given channel capacity.
func NewInbound(capacity int) *Inbound {
	return &Inbound{ch: make(chan events.InboundEvent, capacity)}
}

// TryPush attempts to enqueue ev, retrying with a small per-attempt
// timeout up to maxAttempts times before reporting failure. Per spec
// §4.3, a transport that exhausts all attempts must disconnect the
// session with reason "backpressure"; TryPush itself does not
// disconnect anything — it only reports whether the push succeeded, so
// the transport retains control of its own session lifecycle.
func (b *Inbound) TryPush(ev events.InboundEvent, attemptTimeout time.Duration, maxAttempts int) bool {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case b.ch <- ev:
			return true
		case <-time.After(attemptTimeout):
			continue
		}
	}
	return false
}

// Push enqueues ev, blocking until there is room. Used internally by
// the engine and by tests; transports should prefer TryPush so they
// can honor the backpressure contract.
func (b *Inbound) Push(ev events.InboundEvent) {
	b.ch <- ev
}

// Drain pulls events off the bus for up to budget wall-clock time, or
// until the bus is empty, whichever comes first, invoking handle for
// each. It returns true if the budget was exhausted with events still
// queued (the "budget exceeded" condition spec §4.1 requires the
// engine to meter and warn about).
func (b *Inbound) Drain(budget time.Duration, handle func(events.InboundEvent)) (budgetExceeded bool) {
	deadline := time.Now().Add(budget)
	for {
		if time.Now().After(deadline) {
			return len(b.ch) > 0
		}
		select {
		case ev := <-b.ch:
			handle(ev)
		default:
			return false
		}
	}
}

// Len reports the number of events currently queued. Diagnostic only.
func (b *Inbound) Len() int { return len(b.ch) }
