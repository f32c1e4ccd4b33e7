package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sculpt-engine/math"
	"sculpt-engine/scene"
)

// topDown casts straight down from y = 10 above (screen.X, screen.Y) on the
// XZ plane.
func topDown(screen math.Vec2) scene.Ray {
	return scene.Ray{Origin: math.Vec3{X: screen.X, Y: 10, Z: screen.Y}, Direction: math.Vec3{Y: -1}}
}

func TestRaycastSceneNearest(t *testing.T) {
	s := scene.NewScene()
	low := scene.NewMeshNode("low", scene.CreatePlane(2, 2, 4))
	high := scene.NewMeshNode("high", scene.CreatePlane(2, 2, 4))
	high.SetPosition(math.Vec3{Y: 1})
	s.AddNode(low)
	s.AddNode(high)

	hit := RaycastScene(topDown(math.Vec2{X: 0.13, Y: -0.21}), s)
	require.True(t, hit.Hit)
	assert.Same(t, high, hit.Node)
	assert.InDelta(t, 9, hit.Distance, 1e-5)
	assert.InDelta(t, 1, hit.Point.Y, 1e-5)
	assert.InDelta(t, 0.13, hit.Point.X, 1e-5)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-5)
	assert.GreaterOrEqual(t, hit.FaceIdx, 0)

	miss := RaycastScene(topDown(math.Vec2{X: 5}), s)
	assert.False(t, miss.Hit)
}

func TestRaycastSceneSkipsHelpers(t *testing.T) {
	s := scene.NewScene()
	helper := scene.NewNode("grid")
	helper.Mesh = scene.CreatePlane(2, 2, 1)
	s.AddNode(helper)

	hidden := scene.NewMeshNode("hidden", scene.CreatePlane(2, 2, 1))
	hidden.Visible = false
	s.AddNode(hidden)

	assert.False(t, RaycastScene(topDown(math.Vec2{X: 0.1}), s).Hit)
}

func TestRaycastSceneScaledNode(t *testing.T) {
	s := scene.NewScene()
	n := scene.NewMeshNode("ball", scene.CreateSphere(1, 16, 12))
	n.SetScale(math.Vec3{X: 2, Y: 2, Z: 2})
	n.SetPosition(math.Vec3{X: 3})
	s.AddNode(n)

	hit := RaycastScene(topDown(math.Vec2{X: 3.01, Y: 0.02}), s)
	require.True(t, hit.Hit)
	// The top of a radius-2 sphere is about 8 below the ray origin.
	assert.InDelta(t, 8, hit.Distance, 0.05)
	assert.Greater(t, hit.Normal.Y, float32(0.9))
}

func TestRaycastBVHMatchesBruteForce(t *testing.T) {
	s := scene.NewScene()
	n := scene.NewMeshNode("ball", scene.CreateSphere(1, 24, 16))
	s.AddNode(n)

	screens := []math.Vec2{{X: 0.011, Y: 0.017}, {X: 0.5, Y: -0.31}, {X: -0.7, Y: 0.2}, {X: 0.9, Y: 0.9}}
	var brute []HitResult
	for _, sc := range screens {
		brute = append(brute, RaycastScene(topDown(sc), s))
	}

	n.Mesh.SetBVH(scene.BuildBVH(n.Mesh, scene.DefaultLeafSize))
	for i, sc := range screens {
		got := RaycastScene(topDown(sc), s)
		assert.Equal(t, brute[i].Hit, got.Hit, "screen %v", sc)
		assert.InDelta(t, brute[i].Distance, got.Distance, 1e-5, "screen %v", sc)
	}
}

func TestScenePicker(t *testing.T) {
	s := scene.NewScene()
	n := scene.NewMeshNode("plane", scene.CreatePlane(1, 1, 2))
	s.AddNode(n)

	hit, ok := NewScenePicker(s, topDown).CastRay(math.Vec2{X: 0.1, Y: 0.2})
	require.True(t, ok)
	assert.Same(t, n, hit.Node)
	assert.InDelta(t, 0.2, hit.Point.Z, 1e-6)

	_, ok = NewScenePicker(s, nil).CastRay(math.Vec2{})
	assert.False(t, ok)
}
