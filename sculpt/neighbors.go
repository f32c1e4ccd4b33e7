package sculpt

import (
	"slices"

	"github.com/google/uuid"

	"sculpt-engine/scene"
)

// Adjacency lists, for each vertex, the vertices sharing a triangle with it,
// sorted and without duplicates.
type Adjacency [][]int

// Neighbors returns the neighbors of vertex i, or nil when i is out of range.
func (a Adjacency) Neighbors(i int) []int {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// BuildNeighbors derives the adjacency of m from its index buffer, or from
// consecutive vertex triples when it has none. Triangles that reference
// missing vertices are ignored, and a position buffer whose length is not a
// multiple of three yields an empty result.
func BuildNeighbors(m *scene.Mesh) Adjacency {
	if m == nil || len(m.Positions)%3 != 0 || m.VertexCount() == 0 {
		return Adjacency{}
	}

	adj := make(Adjacency, m.VertexCount())
	for t := 0; t < m.TriangleCount(); t++ {
		v0, v1, v2, ok := m.Triangle(t)
		if !ok {
			continue
		}
		// Each vertex in a triangle is a neighbor of the other two
		adj[v0] = append(adj[v0], v1, v2)
		adj[v1] = append(adj[v1], v0, v2)
		adj[v2] = append(adj[v2], v0, v1)
	}

	for i, list := range adj {
		slices.Sort(list)
		list = slices.Compact(list)
		// Degenerate triangles can make a vertex its own neighbor.
		if j, found := slices.BinarySearch(list, i); found {
			list = slices.Delete(list, j, j+1)
		}
		adj[i] = slices.Clip(list)
	}
	return adj
}

// NeighborCache owns the adjacency of every mesh the sculpt subsystem has
// touched, keyed by geometry identity and topology version. A mesh whose
// index buffer is replaced gets a fresh entry and its stale one is dropped.
type NeighborCache struct {
	entries map[scene.GeometryKey]Adjacency
	latest  map[uuid.UUID]uint64
}

func NewNeighborCache() *NeighborCache {
	return &NeighborCache{
		entries: make(map[scene.GeometryKey]Adjacency),
		latest:  make(map[uuid.UUID]uint64),
	}
}

// Get returns the adjacency of m, building it on first use.
func (c *NeighborCache) Get(m *scene.Mesh) Adjacency {
	key := m.Key()
	if adj, ok := c.entries[key]; ok {
		return adj
	}

	if prev, ok := c.latest[key.ID]; ok && prev != key.Topology {
		delete(c.entries, scene.GeometryKey{ID: key.ID, Topology: prev})
	}
	adj := BuildNeighbors(m)
	c.entries[key] = adj
	c.latest[key.ID] = key.Topology
	return adj
}

// Len returns the number of cached meshes.
func (c *NeighborCache) Len() int {
	return len(c.entries)
}
