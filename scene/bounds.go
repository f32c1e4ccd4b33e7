package scene

import (
	"github.com/chewxy/math32"

	"sculpt-engine/math"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (box AABB) IsEmpty() bool {
	return box.Min.X > box.Max.X || box.Min.Y > box.Max.Y || box.Min.Z > box.Max.Z
}

// Extend grows the box to include p.
func (box AABB) Extend(p math.Vec3) AABB {
	return AABB{Min: box.Min.Min(p), Max: box.Max.Max(p)}
}

// Union grows the box to include other.
func (box AABB) Union(other AABB) AABB {
	return AABB{Min: box.Min.Min(other.Min), Max: box.Max.Max(other.Max)}
}

func (box AABB) Center() math.Vec3 {
	return box.Min.Add(box.Max).Mul(0.5)
}

func (box AABB) Size() math.Vec3 {
	return box.Max.Sub(box.Min)
}

// LongestAxis returns 0, 1 or 2 for the widest extent of the box.
func (box AABB) LongestAxis() int {
	s := box.Size()
	if s.X >= s.Y && s.X >= s.Z {
		return 0
	}
	if s.Y >= s.Z {
		return 1
	}
	return 2
}

// IntersectRay performs the slab test and returns the entry distance along
// the ray. A ray starting inside the box reports t = 0.
func (box AABB) IntersectRay(r Ray) (float32, bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tmin := float32(0)
	tmax := math32.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Component(axis)
		d := r.Direction.Component(axis)
		lo := box.Min.Component(axis)
		hi := box.Max.Component(axis)
		if math32.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// Transform returns the world-space box enclosing the 8 transformed corners.
func (box AABB) Transform(m math.Mat4) AABB {
	if box.IsEmpty() {
		return box
	}
	mn, mx := box.Min, box.Max
	corners := [8]math.Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z},
		{X: mx.X, Y: mn.Y, Z: mn.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z},
		{X: mx.X, Y: mx.Y, Z: mn.Z},
		{X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mx.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mx.Z},
		{X: mx.X, Y: mx.Y, Z: mx.Z},
	}
	out := EmptyAABB()
	for _, c := range corners {
		out = out.Extend(m.MulVec3(c))
	}
	return out
}

// Ray is a half-line used for picking.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // normalized
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps the ray by m. The direction is renormalized, so distances
// measured along the result are in the target space.
func (r Ray) Transform(m math.Mat4) Ray {
	return Ray{
		Origin:    m.MulVec3(r.Origin),
		Direction: m.MulDir(r.Direction).Normalize(),
	}
}

// IntersectTriangle is the Möller–Trumbore ray/triangle test. It returns the
// distance along the ray to the hit. Both faces are hit.
func IntersectTriangle(r Ray, v0, v1, v2 math.Vec3) (float32, bool) {
	const epsilon = 1e-7

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false
	}

	f := 1.0 / a
	s := r.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t <= epsilon {
		return 0, false
	}
	return t, true
}
