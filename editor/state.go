package editor

import (
	"fmt"

	"sculpt-engine/scene"
)

// sceneState exposes the user objects of a scene to snapshot history.
type sceneState struct {
	scene     *scene.Scene
	selection *Selection
	// restored runs after a snapshot replaced the user objects.
	restored func()
}

func (s *sceneState) Signature() string {
	return scene.Signature(s.scene.UserObjects())
}

func (s *sceneState) Capture() ([][]byte, error) {
	objects := s.scene.UserObjects()
	out := make([][]byte, 0, len(objects))
	for _, n := range objects {
		data, err := scene.MarshalNode(n)
		if err != nil {
			return nil, fmt.Errorf("capture %q: %w", n.Name, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// Restore decodes every object before touching the scene, so a corrupt
// entry leaves the current objects in place.
func (s *sceneState) Restore(objects [][]byte) error {
	nodes := make([]*scene.Node, 0, len(objects))
	for i, data := range objects {
		n, err := scene.UnmarshalNode(data)
		if err != nil {
			return fmt.Errorf("restore object %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}

	for _, n := range s.scene.UserObjects() {
		s.scene.RemoveNode(n)
	}
	for _, n := range nodes {
		s.scene.AddNode(n)
	}
	if s.selection != nil {
		s.selection.Clear()
	}
	if s.restored != nil {
		s.restored()
	}
	return nil
}
