package editor

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sculpt-engine/history"
	"sculpt-engine/math"
	"sculpt-engine/scene"
	"sculpt-engine/sched"
)

type batchFixture struct {
	clock     *sched.Manual
	scene     *scene.Scene
	history   *history.History
	snapshots *history.Snapshots
	batcher   *TransformBatcher
	reasons   []string
}

func newBatchFixture() *batchFixture {
	f := &batchFixture{clock: sched.NewManual(epoch), scene: scene.NewScene()}
	notify := func(reason string) {
		f.reasons = append(f.reasons, reason)
		f.scene.BumpVersion(reason)
	}
	f.history = history.NewHistory(0, notify)
	state := &sceneState{scene: f.scene, selection: NewSelection()}
	f.snapshots = history.NewSnapshots(state, 0, f.clock, 600*time.Millisecond, notify)
	f.batcher = NewTransformBatcher(f.clock, 90*time.Millisecond, f.history, f.snapshots)
	return f
}

func TestTransformBatchCoalesces(t *testing.T) {
	f := newBatchFixture()
	n := scene.NewMeshNode("cube", scene.CreateCube(1))
	f.scene.AddNode(n)
	f.snapshots.PushSnapshot("Initial state")

	f.batcher.Queue(n, PropPosition, AxisX, 1)
	f.clock.Advance(30 * time.Millisecond)
	f.batcher.Queue(n, PropPosition, AxisX, 2)
	f.clock.Advance(30 * time.Millisecond)
	f.batcher.Queue(n, PropPosition, AxisX, 3)

	assert.True(t, f.batcher.Pending())
	assert.Equal(t, float32(0), n.Transform.Position.X, "nothing applied during the burst")

	f.clock.Advance(89 * time.Millisecond)
	assert.Equal(t, 0, f.history.Len())

	f.clock.Advance(time.Millisecond)
	assert.False(t, f.batcher.Pending())
	assert.Equal(t, float32(3), n.Transform.Position.X)
	assert.Equal(t, 1, f.history.Len())
	assert.Equal(t, []string{"Move cube"}, f.history.Labels())
	assert.Equal(t, uint64(1), f.scene.Version())

	assert.True(t, f.snapshots.HasPending())
	f.clock.Advance(time.Second)
	assert.Equal(t, 2, f.snapshots.Len())

	require.True(t, f.history.Undo())
	assert.Equal(t, float32(0), n.Transform.Position.X)
}

func TestTransformBatchMixedProperties(t *testing.T) {
	f := newBatchFixture()
	n := scene.NewMeshNode("cube", scene.CreateCube(1))

	f.batcher.Queue(n, PropPosition, AxisY, 2)
	f.batcher.Queue(n, PropScale, AxisZ, 3)
	f.batcher.Queue(n, PropRotation, AxisY, math32.Pi/4)
	require.True(t, f.batcher.Flush())

	assert.Equal(t, math.Vec3{Y: 2}, n.Transform.Position)
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 3}, n.Transform.Scale)
	assert.InDelta(t, math32.Pi/4, n.Transform.Euler().Y, 1e-4)
	assert.Equal(t, []string{"Transform cube"}, f.history.Labels())
	assert.False(t, f.batcher.Flush(), "nothing left")
}

func TestTransformBatchSwitchingNodeCommits(t *testing.T) {
	f := newBatchFixture()
	a := scene.NewMeshNode("a", scene.CreateCube(1))
	b := scene.NewMeshNode("b", scene.CreateCube(1))

	f.batcher.Queue(a, PropPosition, AxisX, 1)
	f.batcher.Queue(b, PropPosition, AxisZ, 5)

	assert.Equal(t, float32(1), a.Transform.Position.X)
	assert.Equal(t, []string{"Move a"}, f.history.Labels())
	assert.Same(t, b, f.batcher.Node())

	f.clock.Advance(time.Second)
	assert.Equal(t, float32(5), b.Transform.Position.Z)
	assert.Equal(t, 2, f.history.Len())
}

func TestTransformBatchUnchangedValueIsDropped(t *testing.T) {
	f := newBatchFixture()
	n := scene.NewMeshNode("cube", scene.CreateCube(1))

	f.batcher.Queue(n, PropScale, AxisX, 1)
	f.clock.Advance(time.Second)
	assert.Equal(t, 0, f.history.Len())
	assert.Zero(t, f.scene.Version())
}

func TestTransformBatchCancelAndInvalid(t *testing.T) {
	f := newBatchFixture()
	n := scene.NewMeshNode("cube", scene.CreateCube(1))

	f.batcher.Queue(nil, PropPosition, AxisX, 1)
	f.batcher.Queue(n, Property(7), AxisX, 1)
	f.batcher.Queue(n, PropPosition, Axis(3), 1)
	assert.False(t, f.batcher.Pending())

	f.batcher.Queue(n, PropPosition, AxisX, 1)
	f.batcher.Cancel()
	assert.False(t, f.batcher.Pending())
	assert.Nil(t, f.batcher.Node())
	f.clock.Advance(time.Second)
	assert.Equal(t, float32(0), n.Transform.Position.X)
}

func TestParsePropertyAndAxis(t *testing.T) {
	p, err := ParseProperty("Rotation")
	require.NoError(t, err)
	assert.Equal(t, PropRotation, p)
	_, err = ParseProperty("skew")
	assert.Error(t, err)

	a, err := ParseAxis("Z")
	require.NoError(t, err)
	assert.Equal(t, AxisZ, a)
	assert.Equal(t, "z", a.String())
	_, err = ParseAxis("w")
	assert.Error(t, err)
}
