package scene

import (
	"github.com/google/uuid"

	"sculpt-engine/math"
)

// GeometryKey identifies a mesh's connectivity. Position edits keep the key;
// replacing the index buffer produces a new one.
type GeometryKey struct {
	ID       uuid.UUID
	Topology uint64
}

// Mesh holds CPU-side geometry as flat float buffers, three floats per
// vertex. Indices are optional; without them every three consecutive
// vertices form a triangle.
type Mesh struct {
	ID        uuid.UUID
	Name      string
	Positions []float32
	Indices   []uint32
	Normals   []float32
	Bounds    AABB

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	topology uint64
	bvh      *BVH
}

// NewMesh builds a mesh with a fresh geometry identity and derived normals
// and bounds.
func NewMesh(name string, positions []float32, indices []uint32) *Mesh {
	m := &Mesh{
		ID:        uuid.New(),
		Name:      name,
		Positions: positions,
		Indices:   indices,
	}
	m.RecomputeNormals()
	m.RecomputeBounds()
	return m
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// HasGeometry reports whether the mesh has at least one vertex.
func (m *Mesh) HasGeometry() bool {
	return m != nil && m.VertexCount() > 0
}

func (m *Mesh) Position(i int) math.Vec3 {
	return math.Vec3At(m.Positions, i)
}

func (m *Mesh) SetPosition(i int, p math.Vec3) {
	p.Store(m.Positions, i)
}

// Normal returns the unit normal of vertex i, or +Y when normals have not
// been derived.
func (m *Mesh) Normal(i int) math.Vec3 {
	if 3*i+2 >= len(m.Normals) {
		return math.Vec3Up
	}
	return math.Vec3At(m.Normals, i)
}

// SetIndices replaces the triangle connectivity and invalidates everything
// derived from it.
func (m *Mesh) SetIndices(indices []uint32) {
	m.Indices = indices
	m.topology++
	m.bvh = nil
	m.RecomputeNormals()
}

// TopologyVersion counts SetIndices calls.
func (m *Mesh) TopologyVersion() uint64 {
	return m.topology
}

// Key returns the cache key for connectivity-derived data.
func (m *Mesh) Key() GeometryKey {
	return GeometryKey{ID: m.ID, Topology: m.topology}
}

// TriangleCount returns the number of triangles, indexed or implicit.
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// Triangle returns the vertex indices of triangle t. ok is false when the
// index buffer refers past the end of the vertex buffer.
func (m *Mesh) Triangle(t int) (a, b, c int, ok bool) {
	if len(m.Indices) > 0 {
		a, b, c = int(m.Indices[3*t]), int(m.Indices[3*t+1]), int(m.Indices[3*t+2])
	} else {
		a, b, c = 3*t, 3*t+1, 3*t+2
	}
	n := m.VertexCount()
	return a, b, c, a < n && b < n && c < n
}

// RecomputeNormals derives area-weighted vertex normals from the triangles.
// Vertices on no triangle get +Y.
func (m *Mesh) RecomputeNormals() {
	n := m.VertexCount()
	if cap(m.Normals) >= n*3 {
		m.Normals = m.Normals[:n*3]
		clear(m.Normals)
	} else {
		m.Normals = make([]float32, n*3)
	}

	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c, ok := m.Triangle(t)
		if !ok {
			continue
		}
		p0, p1, p2 := m.Position(a), m.Position(b), m.Position(c)
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, v := range [3]int{a, b, c} {
			math.Vec3At(m.Normals, v).Add(face).Store(m.Normals, v)
		}
	}

	for i := 0; i < n; i++ {
		nv := math.Vec3At(m.Normals, i)
		if nv.LengthSqr() == 0 {
			nv = math.Vec3Up
		}
		nv.Normalize().Store(m.Normals, i)
	}
}

// RecomputeBounds refreshes the local-space bounding box.
func (m *Mesh) RecomputeBounds() {
	box := EmptyAABB()
	for i := 0; i < m.VertexCount(); i++ {
		box = box.Extend(m.Position(i))
	}
	m.Bounds = box
}

// BVH returns the picking hierarchy last installed by the spatial index
// refresher. It may be stale with respect to in-flight brush edits, or nil.
func (m *Mesh) BVH() *BVH {
	return m.bvh
}

func (m *Mesh) SetBVH(b *BVH) {
	m.bvh = b
}

// Clone deep-copies the geometry under a new identity.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		ID:        uuid.New(),
		Name:      m.Name,
		Positions: append([]float32(nil), m.Positions...),
		Normals:   append([]float32(nil), m.Normals...),
		Bounds:    m.Bounds,
	}
	if m.Indices != nil {
		c.Indices = append([]uint32(nil), m.Indices...)
	}
	if m.Material != nil {
		c.Material = m.Material.Clone()
	}
	return c
}
