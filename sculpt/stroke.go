package sculpt

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"sculpt-engine/history"
	"sculpt-engine/internal/logger"
	"sculpt-engine/internal/metrics"
	"sculpt-engine/math"
	"sculpt-engine/scene"
)

// Hit is the result of a pick from the pointer into the scene.
type Hit struct {
	Node   *scene.Node
	Point  math.Vec3 // world space
	Normal math.Vec3 // world space
}

// Picker casts a ray from a screen position into the scene.
type Picker interface {
	CastRay(screen math.Vec2) (Hit, bool)
}

// Controls is the camera/transform gizmo system, which must stay inert while
// the pointer sculpts.
type Controls interface {
	SetControlsEnabled(enabled bool)
}

// Refresher rebuilds picking structures off the input path.
type Refresher interface {
	ScheduleRebuild(node *scene.Node)
}

// Recorder receives committed strokes.
type Recorder interface {
	Push(cmd history.Command)
}

// Options configures a sculpt session.
type Options struct {
	Brush    Brush
	Symmetry Symmetry
}

// Session turns pointer input into brush applications on one target and
// commits one StrokeCommand per pointer-down/up pair. At most one session
// should be active per target; nothing here locks the mesh.
type Session struct {
	picker    Picker
	controls  Controls
	refresher Refresher
	recorder  Recorder
	cache     *NeighborCache
	log       *zap.Logger

	active      bool
	target      *scene.Node
	brush       Brush
	symmetry    Symmetry
	pointerDown bool

	// touched holds, per mesh, the pre-stroke position of every vertex the
	// current stroke has moved.
	touched map[*scene.Mesh]Touched
	nodes   map[*scene.Mesh]*scene.Node
	order   []*scene.Mesh
}

// NewSession wires a session to its collaborators. controls and refresher
// may be nil.
func NewSession(picker Picker, controls Controls, refresher Refresher, recorder Recorder, cache *NeighborCache) *Session {
	if cache == nil {
		cache = NewNeighborCache()
	}
	return &Session{
		picker:    picker,
		controls:  controls,
		refresher: refresher,
		recorder:  recorder,
		cache:     cache,
		log:       logger.Named("sculpt"),
	}
}

// Start enters sculpt mode on target. It returns false when target is nil or
// carries no geometry, in itself or in any user-content descendant. Starting
// while active ends the previous session first.
func (s *Session) Start(target *scene.Node, opts Options) bool {
	if target == nil || !hasGeometry(target) {
		return false
	}
	if s.active {
		s.Stop()
	}

	s.active = true
	s.target = target
	s.brush = opts.Brush
	s.symmetry = opts.Symmetry
	s.resetStroke()
	if s.controls != nil {
		s.controls.SetControlsEnabled(false)
	}

	s.log.Info("sculpt session started",
		zap.String("target", target.Name),
		zap.Stringer("mode", modeOrNone(opts.Brush.Mode)),
		zap.Float32("radius", opts.Brush.Radius),
		zap.Float32("strength", opts.Brush.Strength))
	return true
}

// Stop leaves sculpt mode, committing a stroke still in progress.
func (s *Session) Stop() {
	if !s.active {
		return
	}
	if s.pointerDown {
		s.PointerUp()
	}
	if s.controls != nil {
		s.controls.SetControlsEnabled(true)
	}
	s.log.Info("sculpt session stopped", zap.String("target", s.target.Name))

	s.active = false
	s.target = nil
	s.resetStroke()
}

// PointerDown begins a stroke and applies the brush where the pointer hits.
// It reports whether the brush touched geometry; a miss still begins the
// stroke so that dragging onto the target starts sculpting.
func (s *Session) PointerDown(screen math.Vec2) bool {
	if !s.active {
		return false
	}
	s.pointerDown = true
	return s.stroke(screen)
}

// PointerMove continues the stroke while the pointer is down.
func (s *Session) PointerMove(screen math.Vec2) bool {
	if !s.active || !s.pointerDown {
		return false
	}
	return s.stroke(screen)
}

// PointerUp ends the stroke. When any vertex was touched, one command with
// the stroke's before/after values is pushed to the recorder.
func (s *Session) PointerUp() {
	if !s.active || !s.pointerDown {
		return
	}
	s.pointerDown = false
	defer s.resetStroke()

	cmd := s.buildCommand()
	if cmd == nil {
		return
	}
	metrics.StrokesCommitted.Inc()
	metrics.StrokeVertices.Observe(float64(cmd.VertexCount()))
	s.log.Debug("stroke committed",
		zap.Int("meshes", len(cmd.Diffs)),
		zap.Int("vertices", cmd.VertexCount()))
	s.recorder.Push(cmd)
}

// SetBrush replaces the brush; a stroke in progress uses it from the next
// pointer event on.
func (s *Session) SetBrush(b Brush) {
	s.brush = b
}

func (s *Session) Brush() Brush { return s.brush }

func (s *Session) SetSymmetry(sym Symmetry) {
	s.symmetry = sym
}

func (s *Session) Symmetry() Symmetry { return s.symmetry }

// Active reports whether sculpt mode is on.
func (s *Session) Active() bool { return s.active }

// PointerIsDown reports whether a stroke is in progress.
func (s *Session) PointerIsDown() bool { return s.pointerDown }

// Target returns the node being sculpted, nil when idle.
func (s *Session) Target() *scene.Node { return s.target }

func (s *Session) stroke(screen math.Vec2) bool {
	hit, ok := s.picker.CastRay(screen)
	if !ok || !s.accepts(hit.Node) {
		return false
	}
	node := hit.Node
	mesh := node.Mesh

	inv := node.GetWorldMatrix().Inverse()
	b := localBrush(s.brush, inv)
	center := inv.MulVec3(hit.Point)

	var adj Adjacency
	if _, smooth := b.Mode.(Smooth); smooth {
		adj = s.cache.Get(mesh)
	}

	baseline, seen := s.touched[mesh]
	if !seen {
		baseline = Touched{}
		s.touched[mesh] = baseline
		s.nodes[mesh] = node
		s.order = append(s.order, mesh)
	}
	for _, m := range s.symmetry.Mirrors(center, b.Mode) {
		baseline.Merge(Apply(mesh, m.Center, Brush{Mode: m.Mode, Radius: b.Radius, Strength: b.Strength}, adj))
	}

	if s.refresher != nil {
		s.refresher.ScheduleRebuild(node)
	}
	return true
}

// accepts reports whether the brush may edit node: the target itself or a
// user-content node below it, with geometry.
func (s *Session) accepts(node *scene.Node) bool {
	if node == nil || !node.Mesh.HasGeometry() {
		return false
	}
	if node == s.target {
		return true
	}
	return node.UserContent && node.IsDescendantOf(s.target)
}

func (s *Session) buildCommand() *StrokeCommand {
	cmd := &StrokeCommand{refresher: s.refresher}
	for _, mesh := range s.order {
		baseline := s.touched[mesh]
		if len(baseline) == 0 {
			continue
		}
		d := MeshDiff{
			Node:    s.nodes[mesh],
			Mesh:    mesh,
			Indices: make([]int, 0, len(baseline)),
		}
		for idx := range baseline {
			d.Indices = append(d.Indices, idx)
		}
		sort.Ints(d.Indices)

		d.Before = make([]float32, 0, 3*len(d.Indices))
		d.After = make([]float32, 0, 3*len(d.Indices))
		for _, idx := range d.Indices {
			b := baseline[idx]
			d.Before = append(d.Before, b.X, b.Y, b.Z)
			d.After = append(d.After, mesh.Positions[3*idx:3*idx+3]...)
		}
		cmd.Diffs = append(cmd.Diffs, d)
	}
	if len(cmd.Diffs) == 0 {
		return nil
	}
	return cmd
}

func (s *Session) resetStroke() {
	s.touched = make(map[*scene.Mesh]Touched)
	s.nodes = make(map[*scene.Mesh]*scene.Node)
	s.order = nil
}

func hasGeometry(n *scene.Node) bool {
	if n.Mesh.HasGeometry() {
		return true
	}
	for _, c := range n.Children {
		if c.UserContent && hasGeometry(c) {
			return true
		}
	}
	return false
}

type noMode struct{}

func (noMode) String() string { return "none" }

func modeOrNone(m Mode) fmt.Stringer {
	if m == nil {
		return noMode{}
	}
	return m
}
