package editor

import (
	"fmt"

	"sculpt-engine/core"
	"sculpt-engine/math"
	"sculpt-engine/scene"
)

// DuplicateOffset is how far along X a duplicate is placed from its original.
var DuplicateOffset = math.Vec3{X: 0.5}

// TransformCommand records a transform change on a node
type TransformCommand struct {
	Node         *scene.Node
	OldTransform core.Transform
	NewTransform core.Transform
	desc         string
}

// NewTransformCommand captures the node's current transform as the undo
// state.
func NewTransformCommand(node *scene.Node, newTransform core.Transform, desc string) *TransformCommand {
	return &TransformCommand{
		Node:         node,
		OldTransform: node.Transform,
		NewTransform: newTransform,
		desc:         desc,
	}
}

func (c *TransformCommand) Execute()            { c.Node.SetTransform(c.NewTransform) }
func (c *TransformCommand) Undo()               { c.Node.SetTransform(c.OldTransform) }
func (c *TransformCommand) Description() string { return c.desc }

// AddNodeCommand records adding objects to the scene
type AddNodeCommand struct {
	Scene *scene.Scene
	Nodes []*scene.Node
	desc  string
}

func NewAddNodeCommand(s *scene.Scene, desc string, nodes ...*scene.Node) *AddNodeCommand {
	return &AddNodeCommand{Scene: s, Nodes: nodes, desc: desc}
}

func (c *AddNodeCommand) Execute() {
	for _, n := range c.Nodes {
		c.Scene.AddNode(n)
	}
}

func (c *AddNodeCommand) Undo() {
	for _, n := range c.Nodes {
		c.Scene.RemoveNode(n)
	}
}

func (c *AddNodeCommand) Description() string { return c.desc }

// placement remembers where a node sat in the graph so that undoing its
// removal puts it back in the same slot.
type placement struct {
	node   *scene.Node
	parent *scene.Node
	index  int
}

func placementOf(s *scene.Scene, n *scene.Node) placement {
	parent := n.Parent
	if parent == nil {
		parent = s.Root
	}
	return placement{node: n, parent: parent, index: parent.ChildIndex(n)}
}

// DeleteNodeCommand records deleting an object from the scene
type DeleteNodeCommand struct {
	Scene *scene.Scene
	Node  *scene.Node
	at    placement
}

func NewDeleteNodeCommand(s *scene.Scene, node *scene.Node) *DeleteNodeCommand {
	return &DeleteNodeCommand{Scene: s, Node: node, at: placementOf(s, node)}
}

func (c *DeleteNodeCommand) Execute()            { c.at.parent.RemoveChild(c.Node) }
func (c *DeleteNodeCommand) Undo()               { c.at.parent.InsertChild(c.Node, c.at.index) }
func (c *DeleteNodeCommand) Description() string { return "Delete " + c.Node.Name }

// DuplicateNodeCommand records duplicating an object. The duplicate owns a
// deep copy of every mesh, so sculpting one does not change the other.
type DuplicateNodeCommand struct {
	Scene     *scene.Scene
	Original  *scene.Node
	Duplicate *scene.Node
}

func NewDuplicateNodeCommand(s *scene.Scene, original *scene.Node) *DuplicateNodeCommand {
	dup := cloneTree(original)
	dup.Name = original.Name + ".copy"
	dup.Translate(DuplicateOffset)
	return &DuplicateNodeCommand{Scene: s, Original: original, Duplicate: dup}
}

func (c *DuplicateNodeCommand) Execute()            { c.Scene.AddNode(c.Duplicate) }
func (c *DuplicateNodeCommand) Undo()               { c.Scene.RemoveNode(c.Duplicate) }
func (c *DuplicateNodeCommand) Description() string { return "Duplicate " + c.Original.Name }

// ResetSceneCommand removes every user object, leaving editor helpers in
// place.
type ResetSceneCommand struct {
	Scene   *scene.Scene
	removed []placement
}

func NewResetSceneCommand(s *scene.Scene) *ResetSceneCommand {
	c := &ResetSceneCommand{Scene: s}
	for _, n := range s.UserObjects() {
		c.removed = append(c.removed, placementOf(s, n))
	}
	return c
}

func (c *ResetSceneCommand) Execute() {
	for _, p := range c.removed {
		p.parent.RemoveChild(p.node)
	}
}

// Undo reinserts in ascending index order so every slot is valid when it is
// filled.
func (c *ResetSceneCommand) Undo() {
	for _, p := range c.removed {
		p.parent.InsertChild(p.node, p.index)
	}
}

func (c *ResetSceneCommand) Description() string {
	return fmt.Sprintf("Reset scene (%d objects)", len(c.removed))
}

// cloneTree copies n and its subtree. Meshes get a new geometry identity.
func cloneTree(n *scene.Node) *scene.Node {
	dup := scene.NewNode(n.Name)
	dup.Transform = n.Transform
	dup.Visible = n.Visible
	dup.UserContent = n.UserContent
	if n.Mesh != nil {
		dup.Mesh = n.Mesh.Clone()
	}
	for _, c := range n.Children {
		dup.AddChild(cloneTree(c))
	}
	return dup
}
