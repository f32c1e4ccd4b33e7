package history

import (
	"time"

	"go.uber.org/zap"

	"sculpt-engine/internal/logger"
	"sculpt-engine/internal/metrics"
	"sculpt-engine/sched"
)

// DefaultSnapshotDebounce is the quiet period before a requested snapshot is
// taken.
const DefaultSnapshotDebounce = 600 * time.Millisecond

// State is the scene as seen by snapshot history.
type State interface {
	// Signature fingerprints the current scene; equal signatures mean
	// equal states.
	Signature() string
	// Capture serialises every top-level user object.
	Capture() ([][]byte, error)
	// Restore disposes the current user objects and replaces them with the
	// deserialised ones.
	Restore(objects [][]byte) error
}

// Snapshot is one stored scene state.
type Snapshot struct {
	Label     string
	Objects   [][]byte
	Signature string
}

// Snapshots is the coarse history tier: whole-scene states with their own
// cursor. index is the entry matching the current scene, -1 when empty.
type Snapshots struct {
	state    State
	entries  []Snapshot
	index    int
	capacity int
	notify   Notifier
	log      *zap.Logger

	debounce     *sched.Debouncer
	pendingLabel string
}

// NewSnapshots creates a snapshot history over state. Debounced requests run
// on s after delay.
func NewSnapshots(state State, capacity int, s sched.Scheduler, delay time.Duration, notify Notifier) *Snapshots {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if delay <= 0 {
		delay = DefaultSnapshotDebounce
	}
	sn := &Snapshots{
		state:    state,
		index:    -1,
		capacity: capacity,
		notify:   notify,
		log:      logger.Named("snapshots"),
	}
	sn.debounce = sched.NewDebouncer(s, delay, func() {
		sn.PushSnapshot(sn.pendingLabel)
	})
	return sn
}

// PushSnapshot records the current scene. It is a no-op, returning false,
// when the scene signature equals that of the current entry or when capture
// fails.
func (s *Snapshots) PushSnapshot(label string) bool {
	sig := s.state.Signature()
	if s.index >= 0 && s.entries[s.index].Signature == sig {
		metrics.SnapshotDeduped.Inc()
		s.log.Debug("snapshot unchanged", zap.String("label", label))
		return false
	}

	objects, err := s.state.Capture()
	if err != nil {
		s.log.Error("snapshot capture failed", zap.String("label", label), zap.Error(err))
		return false
	}

	s.entries = append(s.entries[:s.index+1], Snapshot{Label: label, Objects: objects, Signature: sig})
	s.index = len(s.entries) - 1

	if len(s.entries) > s.capacity {
		s.entries[0] = Snapshot{}
		s.entries = s.entries[1:]
		s.index--
		metrics.HistoryEvictions.WithLabelValues(metrics.TierSnapshot).Inc()
	}
	metrics.SetHistoryDepth(metrics.TierSnapshot, len(s.entries))

	s.log.Debug("snapshot stored",
		zap.String("label", label),
		zap.Int("objects", len(objects)),
		zap.Int("index", s.index))
	return true
}

// RequestSnapshot schedules a snapshot once edits have been quiet for the
// debounce delay. Only the last label of a burst is kept.
func (s *Snapshots) RequestSnapshot(label string) {
	s.pendingLabel = label
	s.debounce.Trigger()
}

// FlushPending takes a requested snapshot now instead of waiting.
func (s *Snapshots) FlushPending() bool {
	return s.debounce.Flush()
}

// CancelPending drops a requested snapshot.
func (s *Snapshots) CancelPending() bool {
	return s.debounce.Cancel()
}

// HasPending reports whether a debounced snapshot is scheduled.
func (s *Snapshots) HasPending() bool {
	return s.debounce.Pending()
}

// Load replaces the scene with a stored entry.
func (s *Snapshots) Load(entry Snapshot) error {
	if err := s.state.Restore(entry.Objects); err != nil {
		s.log.Error("snapshot restore failed", zap.String("label", entry.Label), zap.Error(err))
		return err
	}
	if s.notify != nil {
		s.notify("load snapshot " + entry.Label)
	}
	return nil
}

// Undo loads the entry before the cursor. A pending request is taken first
// so the state being left is not lost.
func (s *Snapshots) Undo() bool {
	s.FlushPending()
	if s.index <= 0 {
		return false
	}
	if err := s.Load(s.entries[s.index-1]); err != nil {
		return false
	}
	s.index--
	metrics.ObserveHistoryOp(metrics.TierSnapshot, "undo")
	return true
}

// Redo loads the entry after the cursor.
func (s *Snapshots) Redo() bool {
	if s.index >= len(s.entries)-1 {
		return false
	}
	if err := s.Load(s.entries[s.index+1]); err != nil {
		return false
	}
	s.index++
	metrics.ObserveHistoryOp(metrics.TierSnapshot, "redo")
	return true
}

// CanUndo reports whether an earlier state is stored.
func (s *Snapshots) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether a later state is stored.
func (s *Snapshots) CanRedo() bool { return s.index < len(s.entries)-1 }

func (s *Snapshots) Len() int { return len(s.entries) }

func (s *Snapshots) Index() int { return s.index }

// Entries returns the stored snapshots, oldest first.
func (s *Snapshots) Entries() []Snapshot {
	return append([]Snapshot(nil), s.entries...)
}

// Clear drops every entry and any pending request.
func (s *Snapshots) Clear() {
	s.debounce.Cancel()
	s.entries = nil
	s.index = -1
	metrics.SetHistoryDepth(metrics.TierSnapshot, 0)
}
