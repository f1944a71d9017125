// Package scheduler implements the tick-driven due-time priority queue
// described in spec §4.7: two min-heaps ordered by due time, a per-tick
// action cap, and a metered overdue backlog that retries next tick
// rather than dropping (spec §9 open question, resolved in favor of
// retry-next-tick).
package scheduler

import (
	"container/heap"

	"github.com/ambonmud/ambonmud/internal/clock"
)

// Action is a scheduled unit of work. Returning an error logs it and
// does not abort the run (spec §4.7); a cancellation should be
// signaled by the action itself via a captured context or flag, since
// the scheduler has no cancellation type of its own to propagate.
type Action func() error

type entry struct {
	dueAtMs int64
	seq     uint64 // stable FIFO tiebreak among equal due times
	action  Action
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].dueAtMs != h[j].dueAtMs {
		return h[i].dueAtMs < h[j].dueAtMs
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)         { *h = append(*h, x.(*entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Scheduler holds the future and due min-heaps. Not safe for
// concurrent use; the engine worker is its sole caller (spec §5).
type Scheduler struct {
	clock   clock.Clock
	future  entryHeap
	due     entryHeap
	nextSeq uint64

	// OnActionError is invoked for every action that returns an error;
	// nil is a valid no-op logger.
	OnActionError func(err error)
}

func New(c clock.Clock) *Scheduler {
	s := &Scheduler{clock: c}
	heap.Init(&s.future)
	heap.Init(&s.due)
	return s
}

func (s *Scheduler) push(dueAtMs int64, action Action) {
	e := &entry{dueAtMs: dueAtMs, seq: s.nextSeq, action: action}
	s.nextSeq++
	now := s.clock.NowMs()
	if dueAtMs <= now {
		heap.Push(&s.due, e)
	} else {
		heap.Push(&s.future, e)
	}
}

// ScheduleIn enqueues action to run after delayMs from now.
func (s *Scheduler) ScheduleIn(delayMs int64, action Action) {
	s.push(s.clock.NowMs()+delayMs, action)
}

// ScheduleAt enqueues action to run at the given epoch millisecond.
func (s *Scheduler) ScheduleAt(epochMs int64, action Action) {
	s.push(epochMs, action)
}

// RunDue executes step 1-3 of spec §4.7: promote newly-due future
// entries, then pop and run up to maxActions from the due heap.
// dropped reports the number of due-but-unrun entries remaining (they
// stay queued for the next tick, per the retry-next-tick policy).
func (s *Scheduler) RunDue(maxActions int) (ran int, dropped int) {
	now := s.clock.NowMs()
	for s.future.Len() > 0 && s.future[0].dueAtMs <= now {
		e := heap.Pop(&s.future).(*entry)
		heap.Push(&s.due, e)
	}

	for ran < maxActions && s.due.Len() > 0 {
		e := heap.Pop(&s.due).(*entry)
		if err := e.action(); err != nil && s.OnActionError != nil {
			s.OnActionError(err)
		}
		ran++
	}
	return ran, s.due.Len()
}

// Pending reports the combined size of both heaps. Diagnostic only.
func (s *Scheduler) Pending() int {
	return s.future.Len() + s.due.Len()
}
