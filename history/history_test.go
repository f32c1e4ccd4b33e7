package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterCommand moves a shared value from before to after.
func counterCommand(state *int, before, after int) *FuncCommand {
	return &FuncCommand{
		Label:     fmt.Sprintf("set %d", after),
		ExecuteFn: func() { *state = after },
		UndoFn:    func() { *state = before },
	}
}

func TestHistoryUndoRedo(t *testing.T) {
	var reasons []string
	h := NewHistory(10, func(reason string) { reasons = append(reasons, reason) })
	state := 0

	assert.False(t, h.CanUndo())
	assert.False(t, h.Undo(), "undo on empty history is a no-op")
	assert.False(t, h.Redo())
	assert.Equal(t, -1, h.Index())

	h.Do(counterCommand(&state, 0, 1))
	h.Do(counterCommand(&state, 1, 2))
	assert.Equal(t, 2, state)
	assert.Equal(t, 1, h.Index())

	assert.True(t, h.Undo())
	assert.Equal(t, 1, state)
	assert.True(t, h.CanRedo())

	assert.True(t, h.Redo())
	assert.Equal(t, 2, state)
	assert.False(t, h.Redo(), "redo at the end is a no-op")

	assert.True(t, h.Undo())
	assert.True(t, h.Undo())
	assert.Equal(t, 0, state)
	assert.False(t, h.Undo())
	assert.Equal(t, -1, h.Index())

	assert.Equal(t, []string{"set 1", "set 2", "undo set 2", "redo set 2", "undo set 2", "undo set 1"}, reasons)
}

func TestHistoryPushTruncatesRedoTail(t *testing.T) {
	h := NewHistory(10, nil)
	state := 0

	h.Do(counterCommand(&state, 0, 1))
	h.Do(counterCommand(&state, 1, 2))
	h.Do(counterCommand(&state, 2, 3))
	h.Undo()
	h.Undo()

	h.Do(counterCommand(&state, 1, 5))
	assert.Equal(t, []string{"set 1", "set 5"}, h.Labels())
	assert.False(t, h.CanRedo())

	h.Undo()
	assert.Equal(t, 1, state)
}

func TestHistoryBound(t *testing.T) {
	const capacity = 200
	h := NewHistory(capacity, nil)
	state := 0

	for i := 1; i <= capacity+5; i++ {
		h.Push(counterCommand(&state, i-1, i))
		state = i
	}

	require.Equal(t, capacity, h.Len())
	assert.Equal(t, capacity-1, h.Index())
	assert.Equal(t, "set 6", h.Labels()[0], "oldest five were evicted")

	for i := 0; i < capacity; i++ {
		require.True(t, h.Undo(), "undo %d", i)
	}
	assert.Equal(t, 5, state, "back to the state right after command #5")
	assert.False(t, h.Undo())
	assert.Equal(t, -1, h.Index())

	assert.True(t, h.Redo())
	assert.Equal(t, 6, state)
}

func TestHistoryRecoversPanics(t *testing.T) {
	bumps := 0
	h := NewHistory(10, func(string) { bumps++ })
	state := 0

	h.Do(counterCommand(&state, 0, 1))
	h.Push(&FuncCommand{
		Label:     "broken",
		ExecuteFn: func() { state = 99 },
		UndoFn:    func() { panic("boom") },
	})

	assert.NotPanics(t, func() { h.Undo() })
	assert.Equal(t, 0, h.Index(), "cursor still moves past the failed command")

	assert.True(t, h.Undo())
	assert.Equal(t, 0, state)

	assert.True(t, h.Redo())
	assert.True(t, h.Redo())
	assert.Equal(t, 99, state)
	assert.Equal(t, 6, bumps)
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(0, nil)
	state := 0
	h.Do(counterCommand(&state, 0, 1))
	h.Clear()

	assert.Equal(t, 0, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.Undo())
	assert.Equal(t, 1, state)
}
