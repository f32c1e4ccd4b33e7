package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sculpt-engine/core"
	"sculpt-engine/math"
	"sculpt-engine/scene"
)

func TestTransformCommand(t *testing.T) {
	n := scene.NewMeshNode("cube", scene.CreateCube(1))
	next := n.Transform
	next.Position = math.Vec3{X: 2}

	cmd := NewTransformCommand(n, next, "Move cube")
	cmd.Execute()
	assert.Equal(t, math.Vec3{X: 2}, n.Transform.Position)
	assert.Equal(t, float32(2), n.GetWorldMatrix().MulVec3(math.Vec3Zero).X)

	cmd.Undo()
	assert.Equal(t, core.NewTransform(), n.Transform)
	assert.Equal(t, "Move cube", cmd.Description())
}

func TestDeleteNodeCommandKeepsSlot(t *testing.T) {
	s := scene.NewScene()
	a := scene.NewMeshNode("a", scene.CreateCube(1))
	b := scene.NewMeshNode("b", scene.CreateCube(1))
	c := scene.NewMeshNode("c", scene.CreateCube(1))
	s.AddNode(a)
	s.AddNode(b)
	s.AddNode(c)

	cmd := NewDeleteNodeCommand(s, b)
	cmd.Execute()
	assert.Equal(t, []*scene.Node{a, c}, s.Root.Children)
	assert.Nil(t, b.Parent)

	cmd.Undo()
	assert.Equal(t, []*scene.Node{a, b, c}, s.Root.Children)
	assert.Same(t, s.Root, b.Parent)
	assert.Equal(t, "Delete b", cmd.Description())
}

func TestDeleteNestedNode(t *testing.T) {
	s := scene.NewScene()
	group := scene.NewNode("group")
	child := scene.NewMeshNode("child", scene.CreateCube(1))
	group.AddChild(child)
	s.AddNode(group)

	cmd := NewDeleteNodeCommand(s, child)
	cmd.Execute()
	assert.Empty(t, group.Children)
	cmd.Undo()
	assert.Same(t, group, child.Parent)
}

func TestDuplicateNodeCommand(t *testing.T) {
	s := scene.NewScene()
	orig := scene.NewMeshNode("ball", scene.CreateSphere(1, 8, 6))
	orig.Mesh.Material = scene.NewMaterial("clay", core.Color{R: 0.8, G: 0.5, B: 0.3, A: 1})
	orig.AddChild(scene.NewMeshNode("nub", scene.CreateCube(0.1)))
	s.AddNode(orig)

	cmd := NewDuplicateNodeCommand(s, orig)
	cmd.Execute()
	dup := cmd.Duplicate

	require.Len(t, s.Root.Children, 2)
	assert.Equal(t, "ball.copy", dup.Name)
	assert.Equal(t, orig.Transform.Position.Add(DuplicateOffset), dup.Transform.Position)
	assert.True(t, dup.UserContent)
	require.Len(t, dup.Children, 1)
	assert.Equal(t, "nub", dup.Children[0].Name)

	assert.NotEqual(t, orig.Mesh.ID, dup.Mesh.ID, "new geometry identity")
	assert.Equal(t, orig.Mesh.Positions, dup.Mesh.Positions)
	assert.NotSame(t, orig.Mesh.Material, dup.Mesh.Material)
	assert.Equal(t, orig.Mesh.Material.Fingerprint(), dup.Mesh.Material.Fingerprint())

	dup.Mesh.SetPosition(0, math.Vec3{X: 42})
	assert.NotEqual(t, float32(42), orig.Mesh.Position(0).X, "buffers are not shared")

	cmd.Undo()
	assert.Equal(t, []*scene.Node{orig}, s.Root.Children)
}

func TestResetSceneCommand(t *testing.T) {
	s := scene.NewScene()
	a := scene.NewMeshNode("a", scene.CreateCube(1))
	helper := scene.NewNode("grid")
	b := scene.NewMeshNode("b", scene.CreateCube(1))
	s.AddNode(a)
	s.AddNode(helper)
	s.AddNode(b)

	cmd := NewResetSceneCommand(s)
	cmd.Execute()
	assert.Equal(t, []*scene.Node{helper}, s.Root.Children)
	assert.Empty(t, s.UserObjects())

	cmd.Undo()
	assert.Equal(t, []*scene.Node{a, helper, b}, s.Root.Children)
	assert.Equal(t, "Reset scene (2 objects)", cmd.Description())
}

func TestAddNodeCommand(t *testing.T) {
	s := scene.NewScene()
	a := scene.NewMeshNode("a", scene.CreateCube(1))
	b := scene.NewMeshNode("b", scene.CreateCube(1))

	cmd := NewAddNodeCommand(s, "Import pair.glb", a, b)
	cmd.Execute()
	assert.Equal(t, []*scene.Node{a, b}, s.UserObjects())
	cmd.Undo()
	assert.Empty(t, s.Root.Children)
}
