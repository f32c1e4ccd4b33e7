package sched

import "time"

// Debouncer runs fn once after a quiet period of delay with no further
// Trigger calls. Each Trigger cancels the pending run and starts the wait
// over, so only the last trigger in a burst produces a call.
type Debouncer struct {
	sched Scheduler
	delay time.Duration
	fn    func()
	task  Task
}

// NewDebouncer creates a debouncer on s.
func NewDebouncer(s Scheduler, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{sched: s, delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	if d.task != nil {
		d.task.Stop()
	}
	var t Task
	t = d.sched.AfterFunc(d.delay, func() {
		if d.task == t {
			d.task = nil
		}
		d.fn()
	})
	d.task = t
}

// Flush runs fn immediately if a call is pending and reports whether it did.
func (d *Debouncer) Flush() bool {
	if !d.Cancel() {
		return false
	}
	d.fn()
	return true
}

// Cancel drops the pending call, if any, and reports whether there was one.
func (d *Debouncer) Cancel() bool {
	if d.task == nil {
		return false
	}
	stopped := d.task.Stop()
	d.task = nil
	return stopped
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	return d.task != nil
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
