// Package sched provides cancellable deferred callbacks for the editor's
// single-threaded event loop.
//
// Brush strokes, history commits and spatial index maintenance never start
// goroutines of their own. They ask a Scheduler to run a callback later and
// the host decides where that callback executes: Loop delivers callbacks on
// the goroutine that pumps it, Manual runs them against a virtual clock.
package sched

import (
	"sync/atomic"
	"time"
)

// Task is a scheduled callback that has not necessarily run yet.
type Task interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped it; false means it already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
	Now() time.Time
}

// Idler is implemented by schedulers that can run a callback the next time
// the event loop has nothing else to do.
type Idler interface {
	RequestIdle(fn func()) Task
}

const (
	taskPending int32 = iota
	taskStopped
	taskRan
)

// task is shared by Loop and Manual. The state word makes Stop and run
// mutually exclusive even when a timer goroutine races the loop goroutine.
type task struct {
	state atomic.Int32
	fn    func()
	timer *time.Timer
}

func (t *task) Stop() bool {
	if !t.state.CompareAndSwap(taskPending, taskStopped) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

func (t *task) run() bool {
	if !t.state.CompareAndSwap(taskPending, taskRan) {
		return false
	}
	t.fn()
	return true
}

func (t *task) pending() bool {
	return t.state.Load() == taskPending
}
