package editor

import (
	"sculpt-engine/math"
	"sculpt-engine/scene"
)

// EditorMode defines the editor's operating mode
type EditorMode int

const (
	ModeObject EditorMode = iota
	ModeSculpt
)

func (m EditorMode) String() string {
	switch m {
	case ModeObject:
		return "object"
	case ModeSculpt:
		return "sculpt"
	}
	return "unknown"
}

// Selection tracks all selected objects
type Selection struct {
	Objects []*scene.Node

	// Active object (last selected, shown in properties and used as the
	// sculpt and transform target)
	ActiveObject *scene.Node
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{
		Objects: make([]*scene.Node, 0),
	}
}

// Clear removes all selections
func (s *Selection) Clear() {
	s.Objects = s.Objects[:0]
	s.ActiveObject = nil
}

// SelectSingle selects a single object, clearing the previous selection
func (s *Selection) SelectSingle(node *scene.Node) {
	s.Objects = []*scene.Node{node}
	s.ActiveObject = node
}

// ToggleObject adds/removes an object from the selection (Shift+Click)
func (s *Selection) ToggleObject(node *scene.Node) {
	if s.Remove(node) {
		return
	}
	s.Objects = append(s.Objects, node)
	s.ActiveObject = node
}

// Remove drops node from the selection and reports whether it was selected.
func (s *Selection) Remove(node *scene.Node) bool {
	for i, n := range s.Objects {
		if n != node {
			continue
		}
		s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
		if s.ActiveObject == node {
			if len(s.Objects) > 0 {
				s.ActiveObject = s.Objects[len(s.Objects)-1]
			} else {
				s.ActiveObject = nil
			}
		}
		return true
	}
	return false
}

// Prune drops selected nodes that are no longer attached under root.
func (s *Selection) Prune(root *scene.Node) {
	kept := s.Objects[:0]
	for _, n := range s.Objects {
		if n != root && n.IsDescendantOf(root) {
			kept = append(kept, n)
		}
	}
	s.Objects = kept
	if s.ActiveObject != nil && !s.IsSelected(s.ActiveObject) {
		s.ActiveObject = nil
		if len(kept) > 0 {
			s.ActiveObject = kept[len(kept)-1]
		}
	}
}

// IsSelected checks if a node is selected
func (s *Selection) IsSelected(node *scene.Node) bool {
	for _, n := range s.Objects {
		if n == node {
			return true
		}
	}
	return false
}

// GetSelectionCenter returns the center position of all selected objects
func (s *Selection) GetSelectionCenter() math.Vec3 {
	if len(s.Objects) == 0 {
		return math.Vec3Zero
	}

	center := math.Vec3Zero
	for _, obj := range s.Objects {
		center = center.Add(obj.Transform.Position)
	}
	return center.Div(float32(len(s.Objects)))
}

// HasSelection returns true if anything is selected
func (s *Selection) HasSelection() bool {
	return len(s.Objects) > 0
}
