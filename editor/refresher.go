package editor

import (
	"time"

	"go.uber.org/zap"

	"sculpt-engine/internal/config"
	"sculpt-engine/internal/logger"
	"sculpt-engine/internal/metrics"
	"sculpt-engine/scene"
	"sculpt-engine/sched"
)

// splitsPerCheck is how many BVH node splits run between clock reads.
const splitsPerCheck = 64

// Refresher keeps mesh BVHs in step with sculpted geometry without blocking
// pointer input. Rebuilds are queued per mesh and carried out in short
// slices, on idle callbacks when the scheduler offers them and on a short
// timer otherwise.
type Refresher struct {
	sched    sched.Scheduler
	budget   time.Duration
	fallback time.Duration
	leafSize int
	now      func() time.Time
	log      *zap.Logger

	queue   []*scene.Mesh
	queued  map[*scene.Mesh]bool
	builder *scene.BVHBuilder
	started time.Time
	task    sched.Task
}

// NewRefresher creates a refresher that runs on s.
func NewRefresher(s sched.Scheduler, cfg config.SpatialConfig) *Refresher {
	def := config.Default().Spatial
	if cfg.SliceBudget <= 0 {
		cfg.SliceBudget = def.SliceBudget
	}
	if cfg.FallbackDelay <= 0 {
		cfg.FallbackDelay = def.FallbackDelay
	}
	if cfg.LeafSize <= 0 {
		cfg.LeafSize = scene.DefaultLeafSize
	}
	return &Refresher{
		sched:    s,
		budget:   cfg.SliceBudget,
		fallback: cfg.FallbackDelay,
		leafSize: cfg.LeafSize,
		now:      s.Now,
		log:      logger.Named("refresher"),
		queued:   make(map[*scene.Mesh]bool),
	}
}

// SetClock replaces the clock used to measure slice budgets.
func (r *Refresher) SetClock(now func() time.Time) {
	r.now = now
}

// ScheduleRebuild queues every mesh under node. A mesh already queued keeps
// its place; a mesh whose build is in progress starts over from its current
// positions.
func (r *Refresher) ScheduleRebuild(node *scene.Node) {
	if node == nil {
		return
	}
	for _, m := range node.Meshes() {
		if !m.HasGeometry() {
			continue
		}
		if r.builder != nil && r.builder.Mesh() == m {
			r.builder = nil
			r.queue = append([]*scene.Mesh{m}, r.queue...)
			continue
		}
		if r.queued[m] {
			continue
		}
		r.queued[m] = true
		r.queue = append(r.queue, m)
	}
	if r.Pending() {
		r.arm()
	}
}

// Pending reports whether any rebuild is queued or in progress.
func (r *Refresher) Pending() bool {
	return r.builder != nil || len(r.queue) > 0
}

// Flush finishes all queued rebuilds synchronously.
func (r *Refresher) Flush() {
	if r.task != nil {
		r.task.Stop()
		r.task = nil
	}
	for r.Pending() {
		r.step()
	}
}

func (r *Refresher) arm() {
	if r.task != nil {
		return
	}
	if idler, ok := r.sched.(sched.Idler); ok {
		r.task = idler.RequestIdle(r.slice)
		return
	}
	r.task = r.sched.AfterFunc(r.fallback, r.slice)
}

// slice works through the queue until the budget is spent, then re-arms for
// whatever is left.
func (r *Refresher) slice() {
	r.task = nil
	metrics.RefresherSlices.Inc()

	start := r.now()
	finished := 0
	for r.Pending() && r.now().Sub(start) < r.budget {
		if r.step() {
			finished++
		}
	}

	r.log.Debug("refresh slice",
		zap.Int("finished", finished),
		zap.Int("queued", len(r.queue)),
		zap.Bool("in_progress", r.builder != nil),
		zap.Duration("elapsed", r.now().Sub(start)))

	if r.Pending() {
		r.arm()
	}
}

// step advances the current build, starting the next queued mesh when idle.
// It reports whether a mesh's BVH was installed.
func (r *Refresher) step() bool {
	if r.builder == nil {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.builder = scene.NewBVHBuilder(m, r.leafSize)
		r.started = r.now()
	}
	if !r.builder.Step(splitsPerCheck) {
		return false
	}

	m := r.builder.Mesh()
	m.SetBVH(r.builder.Result())
	delete(r.queued, m)
	r.builder = nil
	metrics.RefresherRebuildDuration.Observe(r.now().Sub(r.started).Seconds())
	return true
}
