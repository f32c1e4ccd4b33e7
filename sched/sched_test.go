package sched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualAdvanceRunsInDeadlineOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string

	m.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })

	assert.Equal(t, 0, m.Advance(5*time.Millisecond))
	assert.Equal(t, 2, m.Advance(20*time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, epoch.Add(25*time.Millisecond), m.Now())

	assert.Equal(t, 1, m.Advance(time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, m.Pending())
}

func TestManualCallbackSeesDeadline(t *testing.T) {
	m := NewManual(epoch)
	var seen time.Time
	m.AfterFunc(40*time.Millisecond, func() { seen = m.Now() })

	m.Advance(time.Second)
	assert.Equal(t, epoch.Add(40*time.Millisecond), seen)
}

func TestManualNestedScheduling(t *testing.T) {
	m := NewManual(epoch)
	calls := 0
	m.AfterFunc(10*time.Millisecond, func() {
		calls++
		m.AfterFunc(10*time.Millisecond, func() { calls++ })
	})

	assert.Equal(t, 2, m.Advance(25*time.Millisecond))
	assert.Equal(t, 2, calls)
}

func TestManualStop(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	task := m.AfterFunc(10*time.Millisecond, func() { ran = true })

	assert.Equal(t, 1, m.Pending())
	assert.True(t, task.Stop())
	assert.False(t, task.Stop(), "second stop is a no-op")
	assert.Equal(t, 0, m.Pending())

	m.Advance(time.Second)
	assert.False(t, ran)
}

func TestManualIdle(t *testing.T) {
	m := NewManual(epoch)
	calls := 0
	m.RequestIdle(func() {
		calls++
		m.RequestIdle(func() { calls++ })
	})

	assert.Equal(t, 1, m.RunIdle())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, m.Pending(), "callbacks queued during RunIdle wait for the next call")
	assert.Equal(t, 1, m.RunIdle())
	assert.Equal(t, 2, calls)
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	m := NewManual(epoch)
	calls := 0
	d := NewDebouncer(m, 100*time.Millisecond, func() { calls++ })

	d.Trigger()
	m.Advance(60 * time.Millisecond)
	d.Trigger()
	m.Advance(60 * time.Millisecond)
	d.Trigger()
	assert.True(t, d.Pending())
	assert.Equal(t, 0, calls)

	m.Advance(99 * time.Millisecond)
	assert.Equal(t, 0, calls)

	m.Advance(time.Millisecond)
	assert.Equal(t, 1, calls)
	assert.False(t, d.Pending())

	m.Advance(time.Second)
	assert.Equal(t, 1, calls)
}

func TestDebouncerFlushAndCancel(t *testing.T) {
	m := NewManual(epoch)
	calls := 0
	d := NewDebouncer(m, 100*time.Millisecond, func() { calls++ })

	assert.False(t, d.Flush(), "nothing pending")

	d.Trigger()
	assert.True(t, d.Flush())
	assert.Equal(t, 1, calls)
	m.Advance(time.Second)
	assert.Equal(t, 1, calls, "flushed call does not fire again")

	d.Trigger()
	assert.True(t, d.Cancel())
	m.Advance(time.Second)
	assert.Equal(t, 1, calls)
	assert.False(t, d.Cancel())
}

func TestLoopDeliversOnPump(t *testing.T) {
	l := NewLoop()
	done := make(chan struct{})
	l.AfterFunc(time.Millisecond, func() { close(done) })

	require.Eventually(t, func() bool {
		l.RunPending()
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestLoopStopBeforeDelivery(t *testing.T) {
	l := NewLoop()
	ran := false
	task := l.AfterFunc(20*time.Millisecond, func() { ran = true })
	assert.True(t, task.Stop())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 0, l.RunPending())
	assert.False(t, ran)
}

func TestLoopRunIdleAndCancel(t *testing.T) {
	l := NewLoop()
	calls := 0
	l.RequestIdle(func() { calls++ })
	skipped := l.RequestIdle(func() { calls += 10 })
	skipped.Stop()

	assert.Equal(t, 1, l.RunIdle())
	assert.Equal(t, 1, calls)
}

func TestLoopRun(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	var order []string
	l.RequestIdle(func() { order = append(order, "idle") })
	l.AfterFunc(5*time.Millisecond, func() {
		order = append(order, "timer")
		cancel()
	})

	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"idle", "timer"}, order)
}

func TestLoopQueuesFiredTimersWithoutPump(t *testing.T) {
	l := NewLoop()
	const timers = 200
	for i := 0; i < timers; i++ {
		l.AfterFunc(0, func() {})
	}

	// Every timer goroutine hands its task over even though nobody pumps.
	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.fired) == timers
	}, time.Second, time.Millisecond)

	assert.Equal(t, timers, l.RunPending())
	assert.Equal(t, 0, l.RunPending())
}
