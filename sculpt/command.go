package sculpt

import (
	"fmt"

	"sculpt-engine/scene"
)

// MeshDiff is the footprint of one stroke on one mesh: the touched vertex
// indices in ascending order and their positions before and after, three
// floats per index.
type MeshDiff struct {
	Node    *scene.Node
	Mesh    *scene.Mesh
	Indices []int
	Before  []float32
	After   []float32
}

func (d *MeshDiff) write(values []float32) {
	for j, idx := range d.Indices {
		copy(d.Mesh.Positions[3*idx:3*idx+3], values[3*j:3*j+3])
	}
	d.Mesh.RecomputeNormals()
	d.Mesh.RecomputeBounds()
}

// StrokeCommand replays or reverses one brush stroke by writing stored
// vertex values back into the mesh buffers.
type StrokeCommand struct {
	Label     string
	Diffs     []MeshDiff
	refresher Refresher
}

func (c *StrokeCommand) Execute() { c.apply(false) }
func (c *StrokeCommand) Undo()    { c.apply(true) }

func (c *StrokeCommand) Description() string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("Sculpt %d vertices", c.VertexCount())
}

// VertexCount returns the number of vertices the stroke touched.
func (c *StrokeCommand) VertexCount() int {
	n := 0
	for i := range c.Diffs {
		n += len(c.Diffs[i].Indices)
	}
	return n
}

func (c *StrokeCommand) apply(undo bool) {
	for i := range c.Diffs {
		d := &c.Diffs[i]
		if undo {
			d.write(d.Before)
		} else {
			d.write(d.After)
		}
		if c.refresher != nil && d.Node != nil {
			c.refresher.ScheduleRebuild(d.Node)
		}
	}
}
