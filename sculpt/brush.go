// Package sculpt implements brush-driven vertex displacement and the stroke
// session that turns pointer input into undoable edits.
package sculpt

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"sculpt-engine/math"
	"sculpt-engine/scene"
)

const (
	// DisplacementScale converts strength × falloff into local units.
	DisplacementScale float32 = 0.08
	// SmoothFactor converts strength into the Laplacian blend factor.
	SmoothFactor float32 = 0.6
)

// Mode selects what a brush does to the vertices under it. The set of modes
// is closed: Inflate, Deflate, Grab, Smooth, Pinch and Flatten.
type Mode interface {
	fmt.Stringer
	isMode()
}

// Inflate pushes vertices out along their normals.
type Inflate struct{}

// Deflate pulls vertices in along their normals.
type Deflate struct{}

// Grab drags vertices along a fixed direction, usually the view-space drag.
type Grab struct {
	Direction math.Vec3
}

// Smooth relaxes vertices toward the average of their neighbors.
type Smooth struct{}

// Pinch draws vertices toward the brush center.
type Pinch struct{}

// Flatten moves vertices toward the plane through the brush center with the
// given normal.
type Flatten struct {
	Normal math.Vec3
}

func (Inflate) isMode() {}
func (Deflate) isMode() {}
func (Grab) isMode()    {}
func (Smooth) isMode()  {}
func (Pinch) isMode()   {}
func (Flatten) isMode() {}

func (Inflate) String() string { return "inflate" }
func (Deflate) String() string { return "deflate" }
func (Grab) String() string    { return "grab" }
func (Smooth) String() string  { return "smooth" }
func (Pinch) String() string   { return "pinch" }
func (Flatten) String() string { return "flatten" }

// ParseMode maps a mode name to its variant. dir becomes the Grab direction
// or the Flatten normal and is ignored by the other modes.
func ParseMode(name string, dir math.Vec3) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "inflate":
		return Inflate{}, nil
	case "deflate":
		return Deflate{}, nil
	case "grab":
		return Grab{Direction: dir}, nil
	case "smooth":
		return Smooth{}, nil
	case "pinch":
		return Pinch{}, nil
	case "flatten":
		return Flatten{Normal: dir}, nil
	}
	return nil, fmt.Errorf("unknown brush mode %q", name)
}

// Brush is the full set of parameters for one application.
type Brush struct {
	Mode     Mode
	Radius   float32
	Strength float32
}

// Touched maps vertex index to its position before the first displacement.
type Touched map[int]math.Vec3

// Merge copies entries of other that are not already present, so the
// earliest baseline of every vertex wins.
func (t Touched) Merge(other Touched) {
	for i, p := range other {
		if _, ok := t[i]; !ok {
			t[i] = p
		}
	}
}

// Falloff is the raised-cosine weight: 1 at the center, 0 at the radius and
// beyond, C¹-smooth in between.
func Falloff(d, radius float32) float32 {
	if radius <= 0 {
		return 0
	}
	x := math32.Min(1, d/radius)
	return 0.5 * (1 + math32.Cos(math32.Pi*x))
}

// Apply displaces the vertices of m within b.Radius of center, both in the
// mesh's local space, and returns their positions from before the call.
// adj is only read by Smooth. Normals and bounds are refreshed afterwards;
// the picking BVH is left for the spatial index refresher.
func Apply(m *scene.Mesh, center math.Vec3, b Brush, adj Adjacency) Touched {
	touched := Touched{}
	if b.Radius <= 0 || !m.HasGeometry() || b.Mode == nil {
		return touched
	}

	if _, ok := b.Mode.(Smooth); ok {
		applySmooth(m, center, b, adj, touched)
	} else {
		applyDirectional(m, center, b, touched)
	}

	if len(touched) > 0 {
		m.RecomputeNormals()
		m.RecomputeBounds()
	}
	return touched
}

func applyDirectional(m *scene.Mesh, center math.Vec3, b Brush, touched Touched) {
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		d := p.Distance(center)
		if d > b.Radius {
			continue
		}
		touched[i] = p

		w := Falloff(d, b.Radius)
		delta := b.Strength * w * DisplacementScale

		var dir math.Vec3
		switch mode := b.Mode.(type) {
		case Inflate:
			dir = m.Normal(i).Normalize()
		case Deflate:
			dir = m.Normal(i).Normalize()
			delta = -delta
		case Grab:
			dir = mode.Direction.Normalize()
		case Pinch:
			to := center.Sub(p)
			dist := to.Length()
			if dist == 0 {
				continue
			}
			dir = to.Div(dist)
			delta = math32.Min(delta, dist)
		case Flatten:
			dir = mode.Normal.Normalize()
			side := p.Sub(center).Dot(dir)
			switch {
			case side > 0:
				delta = -math32.Min(delta, side)
			case side < 0:
				delta = math32.Min(delta, -side)
			default:
				continue
			}
		}

		if delta != 0 {
			m.SetPosition(i, p.Add(dir.Mul(delta)))
		}
	}
}

// applySmooth computes every new position from the unmodified buffer before
// writing any of them back, so iteration order cannot bias the result.
func applySmooth(m *scene.Mesh, center math.Vec3, b Brush, adj Adjacency, touched Touched) {
	type update struct {
		index int
		pos   math.Vec3
	}
	blend := clamp01(b.Strength * SmoothFactor)

	var updates []update
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		d := p.Distance(center)
		if d > b.Radius {
			continue
		}
		touched[i] = p

		neighbors := adj.Neighbors(i)
		if len(neighbors) == 0 {
			continue
		}
		var sum math.Vec3
		for _, n := range neighbors {
			sum = sum.Add(m.Position(n))
		}
		avg := sum.Div(float32(len(neighbors)))

		updates = append(updates, update{index: i, pos: p.Lerp(avg, blend)})
	}

	for _, u := range updates {
		m.SetPosition(u.index, u.pos)
	}
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

// ApplyWorld applies b at a world-space point on node's mesh. The point and
// any direction carried by the mode are taken into the node's local space;
// the radius is used as is.
func ApplyWorld(node *scene.Node, worldPoint math.Vec3, b Brush, cache *NeighborCache) Touched {
	if node == nil || !node.Mesh.HasGeometry() {
		return Touched{}
	}
	inv := node.GetWorldMatrix().Inverse()
	local := localBrush(b, inv)

	var adj Adjacency
	if _, ok := local.Mode.(Smooth); ok && cache != nil {
		adj = cache.Get(node.Mesh)
	}
	return Apply(node.Mesh, inv.MulVec3(worldPoint), local, adj)
}

// localBrush converts the mode's direction into the space given by inv.
func localBrush(b Brush, inv math.Mat4) Brush {
	switch mode := b.Mode.(type) {
	case Grab:
		b.Mode = Grab{Direction: inv.MulDir(mode.Direction)}
	case Flatten:
		b.Mode = Flatten{Normal: inv.MulDir(mode.Normal)}
	}
	return b
}
