package editor

import (
	"fmt"
	"strings"
	"time"

	"sculpt-engine/history"
	"sculpt-engine/math"
	"sculpt-engine/scene"
	"sculpt-engine/sched"
)

// DefaultTransformDebounce is the quiet period after the last queued value
// before a batch is applied.
const DefaultTransformDebounce = 90 * time.Millisecond

// Property is a transform channel edited from a continuous control.
type Property int

const (
	PropPosition Property = iota
	PropRotation          // Euler angles in radians
	PropScale
	numProperties
)

func (p Property) String() string {
	switch p {
	case PropPosition:
		return "position"
	case PropRotation:
		return "rotation"
	case PropScale:
		return "scale"
	}
	return "unknown"
}

// ParseProperty maps "position", "rotation" or "scale" to a Property.
func ParseProperty(name string) (Property, error) {
	for p := PropPosition; p < numProperties; p++ {
		if strings.EqualFold(name, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown transform property %q", name)
}

// Axis selects a component of a property.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// ParseAxis maps "x", "y" or "z" to an Axis.
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(name) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", name)
}

type pendingValue struct {
	set   bool
	value float32
}

// TransformBatcher coalesces a burst of per-axis transform edits, such as
// the values a slider emits while dragged, into one applied transform and
// one history entry.
type TransformBatcher struct {
	history   *history.History
	snapshots *history.Snapshots
	debounce  *sched.Debouncer

	node   *scene.Node
	values [numProperties][3]pendingValue
}

// NewTransformBatcher creates a batcher that commits to h and requests a
// snapshot from snaps, which may be nil.
func NewTransformBatcher(s sched.Scheduler, delay time.Duration, h *history.History, snaps *history.Snapshots) *TransformBatcher {
	if delay <= 0 {
		delay = DefaultTransformDebounce
	}
	b := &TransformBatcher{history: h, snapshots: snaps}
	b.debounce = sched.NewDebouncer(s, delay, b.commit)
	return b
}

// Queue buffers value for the given property axis of node and restarts the
// quiet period. Queueing for a different node commits the previous batch
// first.
func (b *TransformBatcher) Queue(node *scene.Node, prop Property, axis Axis, value float32) {
	if node == nil || prop < 0 || prop >= numProperties || axis < AxisX || axis > AxisZ {
		return
	}
	if b.node != nil && b.node != node {
		b.Flush()
	}
	b.node = node
	b.values[prop][axis] = pendingValue{set: true, value: value}
	b.debounce.Trigger()
}

// Flush commits the pending batch now and reports whether there was one.
func (b *TransformBatcher) Flush() bool {
	return b.debounce.Flush()
}

// Cancel drops the pending batch without applying it.
func (b *TransformBatcher) Cancel() {
	b.debounce.Cancel()
	b.reset()
}

// Pending reports whether a batch is waiting to be committed.
func (b *TransformBatcher) Pending() bool {
	return b.debounce.Pending()
}

// Node returns the node of the pending batch, or nil.
func (b *TransformBatcher) Node() *scene.Node {
	return b.node
}

func (b *TransformBatcher) commit() {
	node, values := b.node, b.values
	b.reset()
	if node == nil {
		return
	}

	t := node.Transform
	var touched []Property
	for p := PropPosition; p < numProperties; p++ {
		for a := AxisX; a <= AxisZ; a++ {
			v := values[p][a]
			if !v.set {
				continue
			}
			if len(touched) == 0 || touched[len(touched)-1] != p {
				touched = append(touched, p)
			}
			switch p {
			case PropPosition:
				t.Position = t.Position.WithComponent(int(a), v.value)
			case PropScale:
				t.Scale = t.Scale.WithComponent(int(a), v.value)
			case PropRotation:
				euler := t.Euler().WithComponent(int(a), v.value)
				t.Rotation = math.QuaternionFromEuler(euler)
			}
		}
	}
	if t == node.Transform {
		return
	}

	cmd := NewTransformCommand(node, t, batchLabel(node, touched))
	b.history.Do(cmd)
	if b.snapshots != nil {
		b.snapshots.RequestSnapshot(cmd.Description())
	}
}

func (b *TransformBatcher) reset() {
	b.node = nil
	b.values = [numProperties][3]pendingValue{}
}

func batchLabel(node *scene.Node, props []Property) string {
	verb := "Transform"
	if len(props) == 1 {
		verb = [...]string{"Move", "Rotate", "Scale"}[props[0]]
	}
	return verb + " " + node.Name
}
