package bus

import (
	"sync"
	"time"

	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
)

// SessionQueue is the per-session bounded frame queue a transport
// registers at connect time; the transport is the sole consumer.
type SessionQueue struct {
	Frames chan events.OutboundEvent
}

// Outbound is the single bus engine subsystems enqueue OutboundEvents
// onto; the router dispatches each to the target session's queue.
// Ordering is FIFO per session only — across sessions, interleaving is
// nondeterministic by design (spec §4.2).
type Outbound struct {
	ch chan events.OutboundEvent

	mu       sync.Mutex
	sessions map[ids.SessionId]*SessionQueue
	onClose  func(ids.SessionId, events.DisconnectReason)

	capacity       int
	enqueueTimeout time.Duration
}

// NewOutbound creates an outbound router. busCapacity bounds the
// shared bus and sessionQueueCapacity bounds each per-session queue;
// enqueueTimeout is the small
// backpressure timeout from spec §4.2 — if delivering to a session's
// queue would block longer than this, the router closes that session
// with reason "backpressure" and drops further events for it.
func NewOutbound(busCapacity, sessionQueueCapacity int, enqueueTimeout time.Duration, onClose func(ids.SessionId, events.DisconnectReason)) *Outbound {
	return &Outbound{
		ch:             make(chan events.OutboundEvent, busCapacity),
		sessions:       make(map[ids.SessionId]*SessionQueue),
		onClose:        onClose,
		capacity:       sessionQueueCapacity,
		enqueueTimeout: enqueueTimeout,
	}
}

// Enqueue is called by engine subsystems to publish an event onto the
// shared bus.
func (o *Outbound) Enqueue(ev events.OutboundEvent) {
	o.ch <- ev
}

// Register creates (or replaces) the per-session queue a transport
// will read from, returning it. Called by the transport at connect
// time.
func (o *Outbound) Register(sid ids.SessionId) *SessionQueue {
	o.mu.Lock()
	defer o.mu.Unlock()
	q := &SessionQueue{Frames: make(chan events.OutboundEvent, o.capacity)}
	o.sessions[sid] = q
	return q
}

// Unregister removes a session's queue, e.g. on disconnect.
func (o *Outbound) Unregister(sid ids.SessionId) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sessions, sid)
}

// RunDispatch drains the shared bus and fans events out to per-session
// queues until stop is closed. Intended to run in its own goroutine;
// it is the only writer to per-session queues, so transports never
// need to synchronize reads against it beyond the channel itself.
func (o *Outbound) RunDispatch(stop <-chan struct{}) {
	for {
		select {
		case ev := <-o.ch:
			o.dispatchOne(ev)
		case <-stop:
			return
		}
	}
}

func (o *Outbound) dispatchOne(ev events.OutboundEvent) {
	// SessionRedirect is consumed locally and never forwarded to a
	// transport (spec §4.2).
	if ev.Kind == events.SessionRedirect {
		return
	}

	o.mu.Lock()
	q, ok := o.sessions[ev.Sid]
	o.mu.Unlock()
	if !ok {
		return
	}

	select {
	case q.Frames <- ev:
		return
	default:
	}

	select {
	case q.Frames <- ev:
	case <-time.After(o.enqueueTimeout):
		o.Unregister(ev.Sid)
		if o.onClose != nil {
			o.onClose(ev.Sid, events.ReasonBackpressure)
		}
	}
}
