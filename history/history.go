// Package history implements the editor's two undo tiers: a bounded stack of
// reversible commands for fine-grained edits, and a bounded list of whole
// scene snapshots for structural edits.
package history

import (
	"go.uber.org/zap"

	"sculpt-engine/internal/logger"
	"sculpt-engine/internal/metrics"
)

// DefaultCapacity bounds both history tiers.
const DefaultCapacity = 200

// Command represents an undoable editor action. Execute applies (or
// re-applies) the edit and Undo reverses it; both must be safe to call
// repeatedly in alternation.
type Command interface {
	Execute()
	Undo()
	Description() string
}

// FuncCommand adapts a pair of closures to Command.
type FuncCommand struct {
	Label     string
	ExecuteFn func()
	UndoFn    func()
}

func (c *FuncCommand) Execute()            { c.ExecuteFn() }
func (c *FuncCommand) Undo()               { c.UndoFn() }
func (c *FuncCommand) Description() string { return c.Label }

// Notifier is told about every committed edit, e.g. Scene.BumpVersion.
type Notifier func(reason string)

// History is a bounded command stack with a cursor. index is the command
// that the next Undo reverses; -1 means nothing is undoable.
type History struct {
	commands []Command
	index    int
	capacity int
	notify   Notifier
	log      *zap.Logger
}

// NewHistory creates a history holding at most capacity commands.
// notify may be nil.
func NewHistory(capacity int, notify Notifier) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		commands: make([]Command, 0, capacity),
		index:    -1,
		capacity: capacity,
		notify:   notify,
		log:      logger.Named("history"),
	}
}

// Push records a command whose effect has already been applied. The redo
// tail is discarded and, once over capacity, the oldest command is evicted.
func (h *History) Push(cmd Command) {
	h.commands = append(h.commands[:h.index+1], cmd)
	h.index = len(h.commands) - 1

	if len(h.commands) > h.capacity {
		h.commands[0] = nil
		h.commands = h.commands[1:]
		h.index--
		metrics.HistoryEvictions.WithLabelValues(metrics.TierCommand).Inc()
	}
	metrics.SetHistoryDepth(metrics.TierCommand, len(h.commands))

	h.bump(cmd.Description())
}

// Do executes a command and pushes it to the undo stack
func (h *History) Do(cmd Command) {
	h.invoke("execute", cmd, cmd.Execute)
	h.Push(cmd)
}

// Undo reverts the command at the cursor. It reports false when there is
// nothing to undo.
func (h *History) Undo() bool {
	if h.index < 0 {
		return false
	}
	cmd := h.commands[h.index]
	h.invoke("undo", cmd, cmd.Undo)
	h.index--

	metrics.ObserveHistoryOp(metrics.TierCommand, "undo")
	h.bump("undo " + cmd.Description())
	return true
}

// Redo reapplies the command after the cursor. It reports false when there
// is nothing to redo.
func (h *History) Redo() bool {
	if h.index >= len(h.commands)-1 {
		return false
	}
	h.index++
	cmd := h.commands[h.index]
	h.invoke("redo", cmd, cmd.Execute)

	metrics.ObserveHistoryOp(metrics.TierCommand, "redo")
	h.bump("redo " + cmd.Description())
	return true
}

// CanUndo returns whether there are actions to undo
func (h *History) CanUndo() bool { return h.index >= 0 }

// CanRedo returns whether there are actions to redo
func (h *History) CanRedo() bool { return h.index < len(h.commands)-1 }

// Len returns the number of stored commands, undone ones included.
func (h *History) Len() int { return len(h.commands) }

// Index returns the cursor, -1 when nothing is undoable.
func (h *History) Index() int { return h.index }

// Labels returns the description of every stored command, oldest first.
func (h *History) Labels() []string {
	out := make([]string, len(h.commands))
	for i, c := range h.commands {
		out[i] = c.Description()
	}
	return out
}

// Clear wipes all undo/redo history
func (h *History) Clear() {
	clear(h.commands)
	h.commands = h.commands[:0]
	h.index = -1
	metrics.SetHistoryDepth(metrics.TierCommand, 0)
}

// invoke runs one side of a command. A panic is logged and swallowed; the
// scene keeps whatever partial state the command left behind.
func (h *History) invoke(op string, cmd Command, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			metrics.CommandPanics.Inc()
			h.log.Error("command failed",
				zap.String("op", op),
				zap.String("command", cmd.Description()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	fn()
}

func (h *History) bump(reason string) {
	if h.notify != nil {
		h.notify(reason)
	}
}
