package sched

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by a virtual clock. Nothing runs until the
// caller advances time, which makes debounce and time-slicing behavior
// deterministic under test.
type Manual struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
	idle   []*task
}

type manualTimer struct {
	*task
	due time.Time
	seq uint64
}

// NewManual creates a virtual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc schedules fn at Now()+d. A non-positive d runs on the next
// Advance, including Advance(0).
func (m *Manual) AfterFunc(d time.Duration, fn func()) Task {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{task: &task{fn: fn}, due: m.now.Add(d), seq: m.seq}
	m.timers = append(m.timers, t)
	return t.task
}

// RequestIdle queues fn until the next RunIdle.
func (m *Manual) RequestIdle(fn func()) Task {
	t := &task{fn: fn}
	m.idle = append(m.idle, t)
	return t
}

// Advance moves the clock forward by d, running due timers in order of their
// deadline. Callbacks observe Now() equal to their own deadline, and timers
// they schedule within the window also run.
func (m *Manual) Advance(d time.Duration) int {
	target := m.now.Add(d)
	n := 0
	for {
		t := m.next(target)
		if t == nil {
			break
		}
		m.now = t.due
		if t.run() {
			n++
		}
	}
	m.now = target
	return n
}

// RunIdle runs the idle callbacks queued so far.
func (m *Manual) RunIdle() int {
	queued := m.idle
	m.idle = nil

	n := 0
	for _, t := range queued {
		if t.run() {
			n++
		}
	}
	return n
}

// Pending returns the number of timers and idle callbacks still waiting.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if t.pending() {
			n++
		}
	}
	for _, t := range m.idle {
		if t.pending() {
			n++
		}
	}
	return n
}

// next removes and returns the earliest pending timer due at or before
// target, dropping stopped timers along the way.
func (m *Manual) next(target time.Time) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if t.pending() {
			live = append(live, t)
		}
	}
	m.timers = live
	if len(m.timers) == 0 {
		return nil
	}

	sort.Slice(m.timers, func(i, j int) bool {
		if m.timers[i].due.Equal(m.timers[j].due) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].due.Before(m.timers[j].due)
	})

	first := m.timers[0]
	if first.due.After(target) {
		return nil
	}
	m.timers = m.timers[1:]
	return first
}
