package scene

import (
	"sort"

	"github.com/chewxy/math32"

	"sculpt-engine/math"
)

// DefaultLeafSize is the triangle count below which BVH nodes stop splitting.
const DefaultLeafSize = 4

// BVH is a bounding volume hierarchy over a mesh's triangles in local space.
// It stores triangle numbers only, so it stays usable while vertex positions
// move; boxes are then merely stale, not wrong in kind.
type BVH struct {
	nodes    []bvhNode
	tris     []int32
	topology uint64
}

type bvhNode struct {
	box          AABB
	left, right  int32 // child node indices, -1 for leaves
	start, count int32
}

func (n *bvhNode) isLeaf() bool {
	return n.left < 0
}

// BuildBVH builds the whole hierarchy at once.
func BuildBVH(m *Mesh, leafSize int) *BVH {
	b := NewBVHBuilder(m, leafSize)
	for !b.Done() {
		b.Step(1024)
	}
	return b.Result()
}

// BVHBuilder builds a BVH in resumable steps so the work can be spread over
// several event-loop slices.
type BVHBuilder struct {
	mesh      *Mesh
	leafSize  int
	bvh       *BVH
	centroids []float32
	stack     []int32
}

// NewBVHBuilder prepares a build over the mesh's current triangles.
func NewBVHBuilder(m *Mesh, leafSize int) *BVHBuilder {
	if leafSize < 1 {
		leafSize = DefaultLeafSize
	}
	b := &BVHBuilder{
		mesh:     m,
		leafSize: leafSize,
		bvh:      &BVH{topology: m.TopologyVersion()},
	}

	for t := 0; t < m.TriangleCount(); t++ {
		i0, i1, i2, ok := m.Triangle(t)
		if !ok {
			continue
		}
		b.bvh.tris = append(b.bvh.tris, int32(t))
		c := m.Position(i0).Add(m.Position(i1)).Add(m.Position(i2)).Mul(1.0 / 3.0)
		b.centroids = append(b.centroids, c.X, c.Y, c.Z)
	}

	if len(b.bvh.tris) > 0 {
		b.bvh.nodes = append(b.bvh.nodes, bvhNode{left: -1, right: -1, count: int32(len(b.bvh.tris))})
		b.stack = append(b.stack, 0)
	}
	return b
}

// Step processes up to n node splits and reports whether the build is done.
func (b *BVHBuilder) Step(n int) bool {
	for ; n > 0 && len(b.stack) > 0; n-- {
		idx := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		b.split(idx)
	}
	return len(b.stack) == 0
}

// Done reports whether every node has been processed.
func (b *BVHBuilder) Done() bool {
	return len(b.stack) == 0
}

// Result returns the finished hierarchy, or nil while building.
func (b *BVHBuilder) Result() *BVH {
	if !b.Done() {
		return nil
	}
	return b.bvh
}

// Mesh returns the mesh being indexed.
func (b *BVHBuilder) Mesh() *Mesh {
	return b.mesh
}

func (b *BVHBuilder) split(idx int32) {
	node := &b.bvh.nodes[idx]
	start, count := int(node.start), int(node.count)

	box := EmptyAABB()
	cbox := EmptyAABB()
	for k := start; k < start+count; k++ {
		t := int(b.bvh.tris[k])
		i0, i1, i2, _ := b.mesh.Triangle(t)
		box = box.Extend(b.mesh.Position(i0)).Extend(b.mesh.Position(i1)).Extend(b.mesh.Position(i2))
		cbox = cbox.Extend(b.centroid(k))
	}
	node.box = box

	if count <= b.leafSize {
		return
	}
	axis := cbox.LongestAxis()
	if cbox.Size().Component(axis) == 0 {
		return
	}

	// Sort the range by centroid, moving centroids along with triangles.
	r := bvhRange{b: b, start: start, count: count, axis: axis}
	sort.Sort(r)

	mid := int32(count / 2)
	left := int32(len(b.bvh.nodes))
	b.bvh.nodes = append(b.bvh.nodes,
		bvhNode{left: -1, right: -1, start: int32(start), count: mid},
		bvhNode{left: -1, right: -1, start: int32(start) + mid, count: int32(count) - mid},
	)
	node = &b.bvh.nodes[idx] // append may have moved the slice
	node.left, node.right = left, left+1
	b.stack = append(b.stack, left, left+1)
}

func (b *BVHBuilder) centroid(k int) math.Vec3 {
	return math.Vec3At(b.centroids, k)
}

type bvhRange struct {
	b            *BVHBuilder
	start, count int
	axis         int
}

func (r bvhRange) Len() int { return r.count }

func (r bvhRange) Less(i, j int) bool {
	c := r.b.centroids
	return c[3*(r.start+i)+r.axis] < c[3*(r.start+j)+r.axis]
}

func (r bvhRange) Swap(i, j int) {
	i, j = r.start+i, r.start+j
	t := r.b.bvh.tris
	t[i], t[j] = t[j], t[i]
	c := r.b.centroids
	for a := 0; a < 3; a++ {
		c[3*i+a], c[3*j+a] = c[3*j+a], c[3*i+a]
	}
}

// TriangleCount returns the number of triangles indexed.
func (b *BVH) TriangleCount() int {
	return len(b.tris)
}

// Bounds returns the root box.
func (b *BVH) Bounds() AABB {
	if len(b.nodes) == 0 {
		return EmptyAABB()
	}
	return b.nodes[0].box
}

// Topology returns the mesh topology version the hierarchy was built for.
func (b *BVH) Topology() uint64 {
	return b.topology
}

// Intersect returns the nearest triangle of m hit by the local-space ray r.
func (b *BVH) Intersect(m *Mesh, r Ray) (dist float32, tri int, ok bool) {
	if len(b.nodes) == 0 {
		return 0, -1, false
	}
	dist = math32.Inf(1)
	tri = -1

	stack := []int32{0}
	for len(stack) > 0 {
		n := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if t, hit := n.box.IntersectRay(r); !hit || t > dist {
			continue
		}
		if !n.isLeaf() {
			stack = append(stack, n.left, n.right)
			continue
		}
		for k := n.start; k < n.start+n.count; k++ {
			t := int(b.tris[k])
			i0, i1, i2, valid := m.Triangle(t)
			if !valid {
				continue
			}
			if d, hit := IntersectTriangle(r, m.Position(i0), m.Position(i1), m.Position(i2)); hit && d < dist {
				dist, tri = d, t
			}
		}
	}
	return dist, tri, tri >= 0
}
