package sched

import (
	"context"
	"sync"
	"time"
)

// Loop is a wall-clock Scheduler whose callbacks run only when the owning
// goroutine calls RunPending, RunIdle or Run. Timers fire on runtime
// goroutines and append their task to a queue; they never block, so a host
// that stops pumping only lets the queue grow.
type Loop struct {
	wake chan struct{}

	mu    sync.Mutex
	fired []*task
	idle  []*task
}

// NewLoop creates an event loop scheduler.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn to be delivered to the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Task {
	t := &task{fn: fn}
	t.timer = time.AfterFunc(d, func() {
		if !t.pending() {
			return
		}
		l.mu.Lock()
		l.fired = append(l.fired, t)
		l.mu.Unlock()
		l.signal()
	})
	return t
}

// RequestIdle queues fn to run the next time the loop is idle.
func (l *Loop) RequestIdle(fn func()) Task {
	t := &task{fn: fn}
	l.mu.Lock()
	l.idle = append(l.idle, t)
	l.mu.Unlock()
	l.signal()
	return t
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RunPending runs every timer callback that has already fired and returns
// how many ran. It never blocks.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	fired := l.fired
	l.fired = nil
	l.mu.Unlock()

	n := 0
	for _, t := range fired {
		if t.run() {
			n++
		}
	}
	return n
}

// RunIdle runs the idle callbacks queued so far. Callbacks queued while it
// runs wait for the next call.
func (l *Loop) RunIdle() int {
	l.mu.Lock()
	queued := l.idle
	l.idle = nil
	l.mu.Unlock()

	n := 0
	for _, t := range queued {
		if t.run() {
			n++
		}
	}
	return n
}

// Run pumps the loop until ctx is done. Idle callbacks run whenever no
// timer callback is ready.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if l.RunPending() == 0 {
			l.RunIdle()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.queued() {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) queued() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fired) > 0 || len(l.idle) > 0
}
