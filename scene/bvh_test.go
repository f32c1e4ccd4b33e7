package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sculpt-engine/math"
)

func TestBVHMatchesBruteForce(t *testing.T) {
	m := CreateSphere(1, 16, 12)
	b := BuildBVH(m, DefaultLeafSize)
	require.Equal(t, m.TriangleCount(), b.TriangleCount())

	rays := []Ray{
		{Origin: math.Vec3{X: 0.05, Y: 0.07, Z: 5}, Direction: math.Vec3{Z: -1}},
		{Origin: math.Vec3{X: 0.3, Y: 0.2, Z: 5}, Direction: math.Vec3{Z: -1}},
		{Origin: math.Vec3{X: 0.03, Y: -4, Z: 0.02}, Direction: math.Vec3{Y: 1}},
		{Origin: math.Vec3{X: 3, Y: 3.1, Z: 2.9}, Direction: math.Vec3{X: -1, Y: -1, Z: -1}.Normalize()},
	}
	for _, r := range rays {
		want := bruteForce(m, r)
		got, tri, ok := b.Intersect(m, r)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-5)
		assert.GreaterOrEqual(t, tri, 0)
	}

	_, _, ok := b.Intersect(m, Ray{Origin: math.Vec3{X: 5, Z: 5}, Direction: math.Vec3{Z: -1}})
	assert.False(t, ok)
}

func TestBVHBuilderSteps(t *testing.T) {
	m := CreatePlane(2, 2, 16)
	b := NewBVHBuilder(m, 2)

	steps := 0
	for !b.Step(4) {
		assert.Nil(t, b.Result())
		steps++
	}
	assert.Greater(t, steps, 1)
	require.NotNil(t, b.Result())
	assert.Same(t, m, b.Mesh())

	root := b.Result().Bounds()
	assert.Equal(t, m.Bounds, root)

	dist, _, ok := b.Result().Intersect(m, Ray{Origin: math.Vec3{X: 0.1, Y: 1, Z: 0.1}, Direction: math.Vec3{Y: -1}})
	require.True(t, ok)
	assert.InDelta(t, 1, dist, 1e-6)
}

func TestBVHEmptyMesh(t *testing.T) {
	m := NewMesh("empty", nil, nil)
	b := BuildBVH(m, 0)
	assert.Equal(t, 0, b.TriangleCount())
	_, _, ok := b.Intersect(m, Ray{Direction: math.Vec3Up})
	assert.False(t, ok)
}

func TestAABBIntersectRay(t *testing.T) {
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}

	d, ok := box.IntersectRay(Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}})
	assert.True(t, ok)
	assert.InDelta(t, 4, d, 1e-6)

	d, ok = box.IntersectRay(Ray{Direction: math.Vec3{X: 1}})
	assert.True(t, ok)
	assert.Equal(t, float32(0), d, "origin inside")

	_, ok = box.IntersectRay(Ray{Origin: math.Vec3{Y: 3, Z: 5}, Direction: math.Vec3{Z: -1}})
	assert.False(t, ok)

	_, ok = EmptyAABB().IntersectRay(Ray{Direction: math.Vec3{X: 1}})
	assert.False(t, ok)
}

func bruteForce(m *Mesh, r Ray) float32 {
	best := float32(1e30)
	for tri := 0; tri < m.TriangleCount(); tri++ {
		a, b, c, _ := m.Triangle(tri)
		if d, ok := IntersectTriangle(r, m.Position(a), m.Position(b), m.Position(c)); ok && d < best {
			best = d
		}
	}
	return best
}
