package scene

import (
	"go.uber.org/zap"

	"sculpt-engine/internal/logger"
)

// ChangeFunc is called after every committed edit with the new scene version.
type ChangeFunc func(version uint64, reason string)

// Scene owns the node graph and a version counter that viewers poll instead
// of rescanning the graph.
type Scene struct {
	Root *Node

	version   uint64
	listeners []ChangeFunc
}

func NewScene() *Scene {
	return &Scene{
		Root: NewNode("Root"),
	}
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

// BumpVersion marks the scene as changed and notifies listeners.
func (s *Scene) BumpVersion(reason string) uint64 {
	s.version++
	logger.Log.Debug("scene changed",
		zap.Uint64("version", s.version),
		zap.String("reason", reason))
	for _, fn := range s.listeners {
		fn(s.version, reason)
	}
	return s.version
}

// Version returns the number of committed edits so far.
func (s *Scene) Version() uint64 {
	return s.version
}

// OnChange registers fn to run after every BumpVersion.
func (s *Scene) OnChange(fn ChangeFunc) {
	s.listeners = append(s.listeners, fn)
}

// UserObjects returns the top-level user-content nodes in child order.
func (s *Scene) UserObjects() []*Node {
	var out []*Node
	for _, c := range s.Root.Children {
		if c.UserContent {
			out = append(out, c)
		}
	}
	return out
}

// GetVisibleNodes returns all nodes with meshes that are visible
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node

	s.Root.Traverse(func(node *Node) {
		if node.Visible && node.Mesh != nil {
			visible = append(visible, node)
		}
	})

	return visible
}
