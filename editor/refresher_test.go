package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sculpt-engine/internal/config"
	"sculpt-engine/scene"
	"sculpt-engine/sched"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// timerOnly hides the idle support of a Manual scheduler.
type timerOnly struct {
	m *sched.Manual
}

func (s timerOnly) AfterFunc(d time.Duration, fn func()) sched.Task { return s.m.AfterFunc(d, fn) }
func (s timerOnly) Now() time.Time                                   { return s.m.Now() }

func TestRefresherIdleRebuild(t *testing.T) {
	m := sched.NewManual(epoch)
	r := NewRefresher(m, config.Default().Spatial)

	group := scene.NewNode("group")
	a := scene.NewMeshNode("a", scene.CreateSphere(1, 8, 6))
	b := scene.NewMeshNode("b", scene.CreateCube(1))
	group.AddChild(a)
	group.AddChild(b)

	r.ScheduleRebuild(group)
	r.ScheduleRebuild(a)
	assert.True(t, r.Pending())
	assert.Nil(t, a.Mesh.BVH(), "nothing runs before the idle callback")
	assert.Equal(t, 1, m.Pending(), "one slice is armed at a time")

	m.RunIdle()
	assert.False(t, r.Pending())
	require.NotNil(t, a.Mesh.BVH())
	require.NotNil(t, b.Mesh.BVH())
	assert.Equal(t, a.Mesh.TriangleCount(), a.Mesh.BVH().TriangleCount())
	assert.Equal(t, 0, m.Pending())
}

func TestRefresherTimerFallback(t *testing.T) {
	m := sched.NewManual(epoch)
	r := NewRefresher(timerOnly{m}, config.SpatialConfig{FallbackDelay: 16 * time.Millisecond})

	n := scene.NewMeshNode("cube", scene.CreateCube(1))
	r.ScheduleRebuild(n)

	assert.Equal(t, 0, m.RunIdle())
	m.Advance(10 * time.Millisecond)
	assert.Nil(t, n.Mesh.BVH())
	m.Advance(10 * time.Millisecond)
	assert.NotNil(t, n.Mesh.BVH())
}

func TestRefresherSlicesRespectBudget(t *testing.T) {
	m := sched.NewManual(epoch)
	r := NewRefresher(m, config.SpatialConfig{SliceBudget: 8 * time.Millisecond})

	// Every clock read costs 3ms, so a slice gets at most a few steps.
	clock := epoch
	r.SetClock(func() time.Time {
		clock = clock.Add(3 * time.Millisecond)
		return clock
	})

	n := scene.NewMeshNode("ball", scene.CreateSphere(1, 64, 48))
	r.ScheduleRebuild(n)

	slices := 0
	for r.Pending() && slices < 10000 {
		require.Equal(t, 1, m.RunIdle())
		slices++
	}
	assert.False(t, r.Pending())
	assert.Greater(t, slices, 1, "work was spread over several slices")
	assert.NotNil(t, n.Mesh.BVH())
}

func TestRefresherRestartsChangedMesh(t *testing.T) {
	m := sched.NewManual(epoch)
	r := NewRefresher(m, config.SpatialConfig{SliceBudget: 8 * time.Millisecond})
	clock := epoch
	r.SetClock(func() time.Time {
		clock = clock.Add(5 * time.Millisecond)
		return clock
	})

	n := scene.NewMeshNode("ball", scene.CreateSphere(1, 64, 48))
	r.ScheduleRebuild(n)
	m.RunIdle()
	require.True(t, r.Pending())

	n.Mesh.SetIndices(n.Mesh.Indices[:3*100])
	r.ScheduleRebuild(n)
	r.Flush()

	require.NotNil(t, n.Mesh.BVH())
	assert.Equal(t, 100, n.Mesh.BVH().TriangleCount())
	assert.Equal(t, n.Mesh.TopologyVersion(), n.Mesh.BVH().Topology())
	assert.Equal(t, 0, m.RunIdle(), "flush cancels the armed slice")
}

func TestRefresherIgnoresEmptyNodes(t *testing.T) {
	m := sched.NewManual(epoch)
	r := NewRefresher(m, config.SpatialConfig{})
	r.ScheduleRebuild(nil)
	r.ScheduleRebuild(scene.NewNode("empty"))
	assert.False(t, r.Pending())
	assert.Equal(t, 0, m.Pending())
}
