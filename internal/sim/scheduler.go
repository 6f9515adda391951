package sim

import (
	"container/heap"
	"fmt"
)

// Action is a deferred zero-argument behavior fired by the driver.
type Action func()

type event struct {
	time      float64
	seq       uint64
	action    Action
	owner     string
	cancelled bool
	index     int
}

// eventQueue orders events by fire time, then by scheduling order so
// same-time events fire FIFO.
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x any) {
	ev := x.(*event)
	ev.index = len(*q)
	*q = append(*q, ev)
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}

// Scheduler keeps the time-ordered queue of pending events. It never
// advances the simulated clock itself; the driver does that while
// extracting due events. Cancellation by owner is O(k) in the owner's
// pending events through a secondary index; cancelled entries stay in
// the heap and are discarded when they surface.
type Scheduler struct {
	now     float64
	seq     uint64
	queue   eventQueue
	byOwner map[string][]*event
	live    int
}

// NewScheduler returns an empty scheduler at simulated time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{byOwner: make(map[string][]*event)}
}

// Now returns the current simulated time.
func (s *Scheduler) Now() float64 {
	return s.now
}

// ScheduleEvent enqueues action to fire afterPeriod simulated seconds
// from now, bound to the owning entity id. An empty owner id marks an
// entity-independent event that cannot be cancelled. A zero period is
// legal and fires as soon as the driver next drains the queue, after
// anything already due. Negative periods are a programming error.
func (s *Scheduler) ScheduleEvent(owner string, action Action, afterPeriod float64) {
	if afterPeriod < 0 {
		panic(fmt.Sprintf("sim: negative schedule period %v", afterPeriod))
	}
	if action == nil {
		panic("sim: nil action scheduled")
	}
	ev := &event{
		time:   s.now + afterPeriod,
		seq:    s.seq,
		action: action,
		owner:  owner,
	}
	s.seq++
	heap.Push(&s.queue, ev)
	s.live++
	if owner != "" {
		s.byOwner[owner] = append(s.byOwner[owner], ev)
	}
}

// UnscheduleAllEvents cancels every pending event bound to owner. It
// is a no-op for owners with nothing queued. After it returns no event
// for that owner will ever fire.
func (s *Scheduler) UnscheduleAllEvents(owner string) {
	if owner == "" {
		return
	}
	pending, ok := s.byOwner[owner]
	if !ok {
		return
	}
	for _, ev := range pending {
		if !ev.cancelled {
			ev.cancelled = true
			s.live--
		}
	}
	delete(s.byOwner, owner)
}

// PendingFor reports how many live events are queued for owner.
func (s *Scheduler) PendingFor(owner string) int {
	count := 0
	for _, ev := range s.byOwner[owner] {
		if !ev.cancelled {
			count++
		}
	}
	return count
}

// Len reports how many live events are queued in total.
func (s *Scheduler) Len() int {
	return s.live
}

// popDue removes and returns the earliest live event with fire time at
// or before until, skipping cancelled entries. It advances the clock
// to the returned event's fire time.
func (s *Scheduler) popDue(until float64) (*event, bool) {
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.time > until {
			return nil, false
		}
		heap.Pop(&s.queue)
		if next.cancelled {
			continue
		}
		s.live--
		s.forgetOwned(next)
		if next.time > s.now {
			s.now = next.time
		}
		return next, true
	}
	return nil, false
}

// forgetOwned drops a fired event from the owner index.
func (s *Scheduler) forgetOwned(ev *event) {
	if ev.owner == "" {
		return
	}
	pending := s.byOwner[ev.owner]
	for i, candidate := range pending {
		if candidate == ev {
			pending = append(pending[:i], pending[i+1:]...)
			break
		}
	}
	if len(pending) == 0 {
		delete(s.byOwner, ev.owner)
	} else {
		s.byOwner[ev.owner] = pending
	}
}

// advanceTo moves the clock forward once the queue is drained up to a
// target time. The clock never moves backwards.
func (s *Scheduler) advanceTo(t float64) {
	if t > s.now {
		s.now = t
	}
}
