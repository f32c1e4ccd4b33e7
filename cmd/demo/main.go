// Command demo drives a scripted sculpting session without a window: it
// builds a scene, sculpts a few strokes through the editor, undoes them and
// reports what history recorded along the way.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"sculpt-engine/editor"
	"sculpt-engine/internal/config"
	"sculpt-engine/internal/logger"
	"sculpt-engine/math"
	"sculpt-engine/scene"
	"sculpt-engine/sched"
)

var (
	flagImport  = flag.String("import", "", "glTF file to sculpt instead of the built-in sphere")
	flagStrokes = flag.Int("strokes", 3, "Number of strokes to sculpt")
	flagSave    = flag.String("save-config", "", "Write the effective config to this path and exit")
)

// topView maps screen coordinates straight onto the XZ plane, looking down.
func topView(screen math.Vec2) scene.Ray {
	return scene.Ray{
		Origin:    math.Vec3{X: screen.X, Y: 50, Z: screen.Y},
		Direction: math.Vec3{Y: -1},
	}
}

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if *flagSave != "" {
		if err := cfg.SaveTo(*flagSave); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Sculpt demo ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	loop := sched.NewLoop()
	s := scene.NewScene()
	s.OnChange(func(version uint64, reason string) {
		logger.Debug("scene changed", zap.Uint64("version", version), zap.String("reason", reason))
	})

	e := editor.NewEditor(cfg, s, editor.Options{Scheduler: loop, Ray: topView})
	defer e.Close()

	if *flagImport != "" {
		if _, err := e.Import(*flagImport); err != nil {
			return err
		}
	} else {
		ball := scene.NewMeshNode("Sphere", scene.CreateSphere(1, 48, 32))
		ball.Mesh.Material = scene.NewPBRMaterial("Clay", scene.DefaultMaterial().Albedo, 0, 0.8)
		e.AddObject(ball)
	}
	pump(loop)

	target := e.Selection.ActiveObject
	if !e.EnterSculpt(target) {
		return errors.New("imported scene has nothing to sculpt")
	}
	before := snapshotPositions(target)

	// Each stroke is a short arc across the top of the object.
	for i := 0; i < *flagStrokes; i++ {
		angle := float32(i) * 2 * math32.Pi / float32(max(*flagStrokes, 1))
		start := math.Vec2{X: 0.3 * math32.Cos(angle), Y: 0.3 * math32.Sin(angle)}
		e.PointerDown(start)
		for step := 1; step <= 8; step++ {
			e.PointerMove(start.Add(math.Vec2{X: 0.04 * float32(step)}))
		}
		e.PointerUp()
		pump(loop)
	}
	e.ExitSculpt()

	objects, vertices, faces := e.GetStats()
	fmt.Printf("scene: %d objects, %d vertices, %d faces, version %d\n", objects, vertices, faces, s.Version())
	for i, label := range e.History.Labels() {
		fmt.Printf("  command %d: %s\n", i, label)
	}

	undone := 0
	for e.History.CanUndo() {
		if !strings.HasPrefix(e.History.Labels()[e.History.Index()], "Sculpt") {
			break
		}
		e.Undo()
		undone++
	}
	fmt.Printf("undid %d strokes, mesh restored: %v\n", undone, equalPositions(before, snapshotPositions(target)))

	// Let the debounced snapshot land before reporting.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.History.SnapshotDebounce+100*time.Millisecond)
	defer cancel()
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	for i, entry := range e.Snapshots.Entries() {
		fmt.Printf("  snapshot %d: %s (%d objects)\n", i, entry.Label, len(entry.Objects))
	}
	return nil
}

// pump runs ready and idle callbacks until neither queue has work.
func pump(loop *sched.Loop) {
	for loop.RunPending()+loop.RunIdle() > 0 {
	}
}

func snapshotPositions(n *scene.Node) [][]float32 {
	var out [][]float32
	for _, m := range n.Meshes() {
		out = append(out, append([]float32(nil), m.Positions...))
	}
	return out
}

func equalPositions(a, b [][]float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
