package runtime

import "sort"

// Scheduler implements the concurrency model of spec §5: a microtask
// queue, which the interpreter drains once a whole script or module body
// has run and which AdvanceTo drains after each fired timer, plus a
// macrotask (timer) queue advanced by a
// virtual clock so tests observe deterministic ordering instead of
// real wall-clock races.
type Scheduler struct {
	microtasks []func()
	timers     []*timer
	nextTimerID int
	clock      int64 // virtual milliseconds
}

type timer struct {
	id       int
	due      int64
	interval int64 // 0 for one-shot (setTimeout); >0 for setInterval
	fn       func()
	cancelled bool
}

// NewScheduler creates an empty scheduler with the virtual clock at 0.
func NewScheduler() *Scheduler { return &Scheduler{} }

// EnqueueMicrotask appends a continuation to the microtask queue.
func (s *Scheduler) EnqueueMicrotask(fn func()) { s.microtasks = append(s.microtasks, fn) }

// DrainMicrotasks runs queued microtasks to completion, including any
// further microtasks a reaction enqueues while running.
func (s *Scheduler) DrainMicrotasks() {
	for len(s.microtasks) > 0 {
		next := s.microtasks[0]
		s.microtasks = s.microtasks[1:]
		next()
	}
}

// ScheduleTimer registers a macrotask due delayMs from the current
// virtual clock, returning a cancellable id (spec §5 "Cancellation of
// pending timers is supported by storing a cancelled bit").
func (s *Scheduler) ScheduleTimer(delayMs int64, interval bool, fn func()) int {
	s.nextTimerID++
	id := s.nextTimerID
	due := s.clock + delayMs
	var iv int64
	if interval {
		iv = delayMs
		if iv <= 0 {
			iv = 1
		}
	}
	s.timers = append(s.timers, &timer{id: id, due: due, interval: iv, fn: fn})
	return id
}

// CancelTimer marks a pending timer cancelled; dispatch skips it.
func (s *Scheduler) CancelTimer(id int) {
	for _, t := range s.timers {
		if t.id == id {
			t.cancelled = true
		}
	}
}

// AdvanceTo moves the virtual clock forward to `to` (must be >= current),
// firing every timer whose due time falls within (current, to] in
// due-time order, insertion order for ties (spec §5), draining
// microtasks after each fired timer. Recurring timers (setInterval) are
// rescheduled for their next tick as long as it is still <= to.
func (s *Scheduler) AdvanceTo(to int64) {
	for {
		idx, found := s.nextDueIndex(to)
		if !found {
			break
		}
		t := s.timers[idx]
		s.timers = append(s.timers[:idx], s.timers[idx+1:]...)
		s.clock = t.due
		if t.cancelled {
			continue
		}
		t.fn()
		s.DrainMicrotasks()
		if t.interval > 0 && !t.cancelled {
			t.due += t.interval
			s.timers = append(s.timers, t)
		}
	}
	if to > s.clock {
		s.clock = to
	}
}

func (s *Scheduler) nextDueIndex(to int64) (int, bool) {
	best := -1
	for i, t := range s.timers {
		if t.due > to {
			continue
		}
		if best == -1 || t.due < s.timers[best].due {
			best = i
		}
	}
	return best, best != -1
}

// Clock returns the current virtual-clock reading.
func (s *Scheduler) Clock() int64 { return s.clock }

// HasPendingTimers reports whether any uncancelled timer remains.
func (s *Scheduler) HasPendingTimers() bool {
	for _, t := range s.timers {
		if !t.cancelled {
			return true
		}
	}
	return false
}

// NextDue returns the due time of the earliest pending timer and true,
// or 0 and false if none remain — used by a host driving the clock
// automatically ("run to completion") rather than to a fixed instant.
func (s *Scheduler) NextDue() (int64, bool) {
	sorted := append([]*timer{}, s.timers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].due < sorted[j].due })
	for _, t := range sorted {
		if !t.cancelled {
			return t.due, true
		}
	}
	return 0, false
}
