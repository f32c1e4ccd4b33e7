// Package editor wires the scene, the sculpt session and both history tiers
// into the editing operations a host UI calls.
package editor

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"sculpt-engine/history"
	"sculpt-engine/internal/config"
	"sculpt-engine/internal/logger"
	"sculpt-engine/math"
	"sculpt-engine/scene"
	"sculpt-engine/sched"
	"sculpt-engine/sculpt"
)

// Importer loads objects from a file.
type Importer interface {
	Import(path string) ([]*scene.Node, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(path string) ([]*scene.Node, error)

func (f ImporterFunc) Import(path string) ([]*scene.Node, error) { return f(path) }

// GLTFImporter reads .gltf and .glb files.
var GLTFImporter Importer = ImporterFunc(scene.LoadGLTF)

// Options holds the host collaborators of an Editor.
type Options struct {
	// Scheduler runs debounce timers and spatial index slices. Defaults to
	// a new sched.Loop the host must pump.
	Scheduler sched.Scheduler
	// Ray maps screen positions to world rays. Picking misses without it.
	Ray RayFunc
	// Controls is disabled while sculpting. Optional.
	Controls sculpt.Controls
	// Importer defaults to GLTFImporter.
	Importer Importer
}

// Editor is the top-level editor state machine
type Editor struct {
	// Core state
	Mode      EditorMode
	Selection *Selection
	History   *history.History
	Snapshots *history.Snapshots
	Scene     *scene.Scene

	// Sculpting
	Session   *sculpt.Session
	Picker    *ScenePicker
	Refresher *Refresher
	Batcher   *TransformBatcher
	Scheduler sched.Scheduler

	// Status info
	StatusText string

	cfg      *config.Config
	importer Importer
	log      *zap.Logger
}

// NewEditor initializes a new editor instance over s and records its
// current contents as the first snapshot.
func NewEditor(cfg *config.Config, s *scene.Scene, opts Options) *Editor {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = sched.NewLoop()
	}
	if opts.Importer == nil {
		opts.Importer = GLTFImporter
	}

	e := &Editor{
		Mode:       ModeObject,
		Selection:  NewSelection(),
		Scene:      s,
		Scheduler:  opts.Scheduler,
		StatusText: "Ready",
		cfg:        cfg,
		importer:   opts.Importer,
		log:        logger.Named("editor"),
	}
	notify := func(reason string) { s.BumpVersion(reason) }

	e.History = history.NewHistory(cfg.History.CommandCapacity, notify)
	state := &sceneState{scene: s, selection: e.Selection, restored: e.afterRestore}
	e.Snapshots = history.NewSnapshots(state, cfg.History.SnapshotCapacity, opts.Scheduler, cfg.History.SnapshotDebounce, notify)
	e.Refresher = NewRefresher(opts.Scheduler, cfg.Spatial)
	e.Picker = NewScenePicker(s, opts.Ray)
	e.Session = sculpt.NewSession(e.Picker, opts.Controls, e.Refresher, e.History, sculpt.NewNeighborCache())
	e.Batcher = NewTransformBatcher(opts.Scheduler, cfg.History.TransformDebounce, e.History, e.Snapshots)

	e.Snapshots.PushSnapshot("Initial state")
	for _, n := range s.UserObjects() {
		e.Refresher.ScheduleRebuild(n)
	}
	return e
}

// --- Structural edits ---

// AddObject inserts node as user content and selects it.
func (e *Editor) AddObject(node *scene.Node) {
	if node == nil {
		return
	}
	node.UserContent = true
	e.do(NewAddNodeCommand(e.Scene, "Add "+node.Name, node))
	e.Refresher.ScheduleRebuild(node)
	e.Selection.SelectSingle(node)
}

// Delete removes node from the scene. It reports false when node is not
// part of the scene.
func (e *Editor) Delete(node *scene.Node) bool {
	if node == nil || node == e.Scene.Root || !node.IsDescendantOf(e.Scene.Root) {
		return false
	}
	if target := e.Session.Target(); target != nil && target.IsDescendantOf(node) {
		e.ExitSculpt()
	}
	e.do(NewDeleteNodeCommand(e.Scene, node))
	e.Selection.Remove(node)
	return true
}

// DeleteSelected removes every selected object and returns how many were
// removed.
func (e *Editor) DeleteSelected() int {
	n := 0
	for _, node := range append([]*scene.Node(nil), e.Selection.Objects...) {
		if e.Delete(node) {
			n++
		}
	}
	e.Selection.Clear()
	e.StatusText = fmt.Sprintf("Deleted %d", n)
	return n
}

// Duplicate adds a deep copy of node beside it and selects the copy.
func (e *Editor) Duplicate(node *scene.Node) *scene.Node {
	if node == nil {
		return nil
	}
	cmd := NewDuplicateNodeCommand(e.Scene, node)
	e.do(cmd)
	e.Refresher.ScheduleRebuild(cmd.Duplicate)
	e.Selection.SelectSingle(cmd.Duplicate)
	return cmd.Duplicate
}

// DuplicateSelected duplicates every selected object.
func (e *Editor) DuplicateSelected() []*scene.Node {
	var out []*scene.Node
	for _, node := range append([]*scene.Node(nil), e.Selection.Objects...) {
		out = append(out, e.Duplicate(node))
	}
	e.StatusText = "Duplicated"
	return out
}

// Import loads path through the configured importer and adds every root
// object it yields as one undoable step.
func (e *Editor) Import(path string) ([]*scene.Node, error) {
	nodes, err := e.importer.Import(path)
	if err != nil {
		e.log.Warn("import failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	for _, n := range nodes {
		n.UserContent = true
	}
	e.do(NewAddNodeCommand(e.Scene, "Import "+filepath.Base(path), nodes...))
	for _, n := range nodes {
		e.Refresher.ScheduleRebuild(n)
	}
	e.Selection.SelectSingle(nodes[len(nodes)-1])
	e.log.Info("imported", zap.String("path", path), zap.Int("objects", len(nodes)))
	return nodes, nil
}

// ResetScene removes every user object.
func (e *Editor) ResetScene() {
	e.ExitSculpt()
	e.do(NewResetSceneCommand(e.Scene))
	e.Selection.Clear()
}

// do applies a structural command, records it and requests a snapshot of
// the result. A pending transform batch is committed first so it lands in
// history ahead of the structural edit.
func (e *Editor) do(cmd history.Command) {
	e.Batcher.Flush()
	e.History.Do(cmd)
	e.Snapshots.RequestSnapshot(cmd.Description())
	e.StatusText = cmd.Description()
}

// --- Undo / redo ---

// Undo reverts the latest command, or the latest snapshot when the command
// history has nothing left to undo. A pending transform batch is committed
// first so that it is what gets undone.
func (e *Editor) Undo() bool {
	e.Batcher.Flush()
	if e.History.CanUndo() {
		return e.afterHistoryStep(e.History.Undo(), "Undo")
	}
	return e.afterHistoryStep(e.Snapshots.Undo(), "Undo")
}

// Redo mirrors Undo.
func (e *Editor) Redo() bool {
	e.Batcher.Flush()
	if e.History.CanRedo() {
		return e.afterHistoryStep(e.History.Redo(), "Redo")
	}
	return e.afterHistoryStep(e.Snapshots.Redo(), "Redo")
}

func (e *Editor) CanUndo() bool { return e.History.CanUndo() || e.Snapshots.CanUndo() }
func (e *Editor) CanRedo() bool { return e.History.CanRedo() || e.Snapshots.CanRedo() }

func (e *Editor) afterHistoryStep(ok bool, status string) bool {
	if !ok {
		return false
	}
	e.Selection.Prune(e.Scene.Root)
	if target := e.Session.Target(); target != nil && !target.IsDescendantOf(e.Scene.Root) {
		e.ExitSculpt()
	}
	e.StatusText = status
	return true
}

// afterRestore runs when a snapshot has replaced the user objects. Commands
// recorded so far refer to nodes that no longer exist.
func (e *Editor) afterRestore() {
	if e.Session.Active() {
		e.Session.Stop()
		e.Mode = ModeObject
	}
	e.Batcher.Cancel()
	e.History.Clear()
	for _, n := range e.Scene.UserObjects() {
		e.Refresher.ScheduleRebuild(n)
	}
}

// --- Selection and transforms ---

// Select makes node the only selected object; nil clears the selection.
func (e *Editor) Select(node *scene.Node) {
	if node == nil {
		e.Selection.Clear()
		e.StatusText = "Selection cleared"
		return
	}
	e.Selection.SelectSingle(node)
	e.StatusText = fmt.Sprintf("Selected: %s", node.Name)
}

// SelectAt selects the object under screen, toggling it when additive.
func (e *Editor) SelectAt(screen math.Vec2, additive bool) *scene.Node {
	hit, ok := e.Picker.CastRay(screen)
	switch {
	case ok && additive:
		e.Selection.ToggleObject(hit.Node)
	case ok:
		e.Select(hit.Node)
	case !additive:
		e.Select(nil)
	}
	return hit.Node
}

// QueueTransform buffers one axis of a transform edit on the active object.
// It reports false when nothing is selected.
func (e *Editor) QueueTransform(prop Property, axis Axis, value float32) bool {
	node := e.Selection.ActiveObject
	if node == nil {
		return false
	}
	e.Batcher.Queue(node, prop, axis, value)
	return true
}

// --- Sculpting ---

// BrushFromConfig builds the brush and symmetry configured in cfg. An
// unknown mode name falls back to inflate.
func BrushFromConfig(cfg config.SculptConfig) (sculpt.Options, error) {
	dir := math.Vec3{X: cfg.Direction[0], Y: cfg.Direction[1], Z: cfg.Direction[2]}
	mode, err := sculpt.ParseMode(cfg.Brush, dir)
	if err != nil {
		mode = sculpt.Inflate{}
	}
	return sculpt.Options{
		Brush: sculpt.Brush{Mode: mode, Radius: cfg.Radius, Strength: cfg.Strength},
		Symmetry: sculpt.Symmetry{
			X: cfg.SymmetryX,
			Y: cfg.SymmetryY,
			Z: cfg.SymmetryZ,
		},
	}, err
}

// EnterSculpt starts a sculpt session on target, or on the active object
// when target is nil, with the configured brush.
func (e *Editor) EnterSculpt(target *scene.Node) bool {
	if target == nil {
		target = e.Selection.ActiveObject
	}
	opts, err := BrushFromConfig(e.cfg.Sculpt)
	if err != nil {
		e.log.Warn("invalid brush in config, using inflate", zap.Error(err))
	}
	e.Batcher.Flush()
	if !e.Session.Start(target, opts) {
		e.StatusText = "Nothing to sculpt"
		return false
	}
	e.Mode = ModeSculpt
	e.StatusText = "Sculpt Mode"
	return true
}

// ExitSculpt ends the sculpt session, committing a stroke in progress.
func (e *Editor) ExitSculpt() {
	if !e.Session.Active() {
		return
	}
	e.Session.Stop()
	e.Mode = ModeObject
	e.StatusText = "Object Mode"
}

func (e *Editor) SetBrush(b sculpt.Brush) { e.Session.SetBrush(b) }

func (e *Editor) SetSymmetry(s sculpt.Symmetry) { e.Session.SetSymmetry(s) }

func (e *Editor) PointerDown(screen math.Vec2) bool { return e.Session.PointerDown(screen) }

func (e *Editor) PointerMove(screen math.Vec2) bool { return e.Session.PointerMove(screen) }

// PointerUp ends the stroke and commits any pending transform batch, which
// is how a released slider lands in history without waiting for the timer.
func (e *Editor) PointerUp() {
	e.Session.PointerUp()
	e.Batcher.Flush()
}

// Close commits every pending edit and finishes outstanding index builds.
func (e *Editor) Close() {
	e.ExitSculpt()
	e.Batcher.Flush()
	e.Snapshots.FlushPending()
	e.Refresher.Flush()
}

// GetStats returns scene statistics for the status bar
func (e *Editor) GetStats() (objectCount, vertexCount, faceCount int) {
	e.Scene.Root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil && n.UserContent {
			objectCount++
			vertexCount += n.Mesh.VertexCount()
			faceCount += n.Mesh.TriangleCount()
		}
	})
	return
}
