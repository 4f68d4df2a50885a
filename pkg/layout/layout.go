package layout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cwirth/forcelayout/pkg/graph"
)

var (
	// ErrPositionCount is returned by [Layout.Run] when the starting
	// positions do not cover every node exactly once.
	ErrPositionCount = errors.New("position count does not match node count")

	// ErrNegativeIterations is returned by [Layout.Run] for a negative
	// iteration count.
	ErrNegativeIterations = errors.New("iteration count must not be negative")
)

// Point is a node position. Results are indexed in node order.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IterationStats describes one completed iteration. Swinging and Traction
// are the controller's aggregate feedback signals; Speed and
// SpeedEfficiency are its state after the iteration.
type IterationStats struct {
	Iteration       int
	Swinging        float64
	Traction        float64
	Speed           float64
	SpeedEfficiency float64
	TreeTime        time.Duration
	RepulsionTime   time.Duration
	GravityTime     time.Duration
	AttractionTime  time.Duration
}

// Option configures a Layout beyond its Config.
type Option func(*Layout)

// IterationHook observes per-iteration statistics.
type IterationHook func(IterationStats)

// WithIterationHook registers a callback invoked after every completed
// iteration. The hook runs synchronously on the simulation goroutine, so it
// should return quickly; it is the supported progress side channel.
func WithIterationHook(fn IterationHook) Option {
	return func(l *Layout) { l.hook = fn }
}

// Layout runs force-directed simulations for a fixed configuration.
// A Layout is stateless across runs and may be reused; each call to Run owns
// an independent simulation store.
type Layout struct {
	cfg  Config
	hook IterationHook
}

// New validates the configuration and returns a Layout.
func New(cfg Config, opts ...Option) (*Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Layout{cfg: cfg}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// RandomPositions returns a deterministic pseudo-random starting layout for
// n nodes, uniform over [0,1)². This is the default placement policy when a
// caller has no positions of its own; any fixed starting layout works.
func RandomPositions(n int, seed uint64) []Point {
	rng := rand.New(rand.NewPCG(seed, seed))
	pos := make([]Point, n)
	for i := range pos {
		pos[i] = Point{X: rng.Float64(), Y: rng.Float64()}
	}
	return pos
}

// Run simulates the graph for the given number of iterations, starting from
// pos, and returns the final positions in node order. The input positions
// are not modified.
//
// Graphs with zero or one node, and runs with zero iterations, return a copy
// of the input unchanged. Cancellation is honored between iterations; every
// iteration leaves a fully consistent state, but a cancelled run returns
// only the context's error.
func (l *Layout) Run(ctx context.Context, g *graph.Graph, pos []Point, iterations int) ([]Point, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeIterations, iterations)
	}
	if len(pos) != g.NodeCount() {
		return nil, fmt.Errorf("%w: %d positions for %d nodes", ErrPositionCount, len(pos), g.NodeCount())
	}

	out := make([]Point, len(pos))
	copy(out, pos)
	if g.NodeCount() <= 1 || iterations == 0 {
		return out, nil
	}

	nodes, edges := buildSim(g, pos)
	ctrl := newSpeedController(l.cfg.JitterTolerance)

	// In distributed-attraction mode the per-edge division by source mass is
	// compensated globally by the mean node mass.
	attractionCoeff := 1.0
	if l.cfg.OutboundAttractionDistribution {
		var total float64
		for i := range nodes {
			total += nodes[i].mass
		}
		attractionCoeff = total / float64(len(nodes))
	}

	for it := 0; it < iterations; it++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for i := range nodes {
			nodes[i].dx = 0
			nodes[i].dy = 0
		}

		var stats IterationStats
		start := time.Now()
		if l.cfg.BarnesHutOptimize {
			tree := buildQuadTree(nodes)
			stats.TreeTime = time.Since(start)

			start = time.Now()
			for i := range nodes {
				tree.applyForce(nodes, i, l.cfg.BarnesHutTheta, l.cfg.ScalingRatio)
			}
		} else {
			applyRepulsion(nodes, l.cfg.ScalingRatio)
		}
		stats.RepulsionTime = time.Since(start)

		start = time.Now()
		applyGravity(nodes, l.cfg.Gravity, l.cfg.ScalingRatio, l.cfg.StrongGravityMode)
		stats.GravityTime = time.Since(start)

		start = time.Now()
		applyAttraction(nodes, edges, attractionCoeff, l.cfg.EdgeWeightInfluence,
			l.cfg.OutboundAttractionDistribution)
		stats.AttractionTime = time.Since(start)

		swinging, traction := ctrl.step(nodes)

		if l.hook != nil {
			stats.Iteration = it
			stats.Swinging = swinging
			stats.Traction = traction
			stats.Speed = ctrl.speed
			stats.SpeedEfficiency = ctrl.speedEfficiency
			l.hook(stats)
		}
	}

	for i := range nodes {
		out[i] = Point{X: nodes[i].x, Y: nodes[i].y}
	}
	return out, nil
}
