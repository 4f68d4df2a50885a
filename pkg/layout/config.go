package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFeature is returned by [Config.Validate] when a reserved
	// configuration flag is enabled. Reserved flags are recognized but have
	// no implemented behavior; enabling one is rejected at construction time
	// instead of being silently ignored.
	ErrUnsupportedFeature = errors.New("reserved feature is not implemented")

	// ErrInvalidConfig is returned by [Config.Validate] when a tuning
	// parameter is outside its valid range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds the simulation parameters. The zero value is not usable -
// start from [DefaultConfig] and override fields as needed. A Config is
// treated as immutable once passed to [New].
type Config struct {
	// OutboundAttractionDistribution divides each edge's attraction by the
	// source node's mass ("dissuade hubs"), so high-degree nodes exert
	// proportionally less pull per edge. The driver compensates globally by
	// scaling attraction with the mean node mass.
	OutboundAttractionDistribution bool

	// LinLogMode is reserved and must be false.
	LinLogMode bool

	// AdjustSizes (node-size collision avoidance) is reserved and must be false.
	AdjustSizes bool

	// EdgeWeightInfluence is the exponent applied to edge weights in the
	// attraction force. 0 makes all edges pull equally; 1 makes attraction
	// linear in weight.
	EdgeWeightInfluence float64

	// JitterTolerance bounds how aggressively the adaptive controller may
	// raise the global speed. Must be positive.
	JitterTolerance float64

	// BarnesHutOptimize enables quadtree-approximated repulsion. Without it
	// repulsion is exact all-pairs, appropriate for small graphs.
	BarnesHutOptimize bool

	// BarnesHutTheta is the size/distance ratio below which a tree region is
	// approximated as a single aggregated body. Smaller values are more
	// accurate; 0 degenerates to exact pairwise repulsion.
	BarnesHutTheta float64

	// MultiThreaded is reserved and must be false. The simulation is
	// sequential: every phase depends on the fully updated state of the
	// previous one, and results are sensitive to floating-point summation
	// order.
	MultiThreaded bool

	// ScalingRatio is the global repulsion coefficient. Must be positive.
	ScalingRatio float64

	// StrongGravityMode selects the gravity variant whose strength does not
	// decay with distance from the origin, producing a tighter, rounder
	// layout.
	StrongGravityMode bool

	// Gravity is the strength of the pull toward the origin. Must not be
	// negative; 0 disables gravity entirely.
	Gravity float64
}

// DefaultConfig returns the standard tuning: linear edge-weight influence,
// jitter tolerance 1.0, Barnes-Hut theta 1.2, scaling ratio 2.0 and gravity
// 1.0. Barnes-Hut approximation is off by default.
func DefaultConfig() Config {
	return Config{
		EdgeWeightInfluence: 1.0,
		JitterTolerance:     1.0,
		BarnesHutTheta:      1.2,
		ScalingRatio:        2.0,
		Gravity:             1.0,
	}
}

// Validate checks the configuration and returns an error wrapping
// [ErrUnsupportedFeature] if a reserved flag is set, or [ErrInvalidConfig]
// if a tuning parameter is out of range.
func (c Config) Validate() error {
	if c.LinLogMode {
		return fmt.Errorf("lin-log mode: %w", ErrUnsupportedFeature)
	}
	if c.AdjustSizes {
		return fmt.Errorf("adjust sizes (overlap prevention): %w", ErrUnsupportedFeature)
	}
	if c.MultiThreaded {
		return fmt.Errorf("multi-threaded execution: %w", ErrUnsupportedFeature)
	}
	if c.JitterTolerance <= 0 {
		return fmt.Errorf("%w: jitter tolerance must be positive, got %v", ErrInvalidConfig, c.JitterTolerance)
	}
	if c.ScalingRatio <= 0 {
		return fmt.Errorf("%w: scaling ratio must be positive, got %v", ErrInvalidConfig, c.ScalingRatio)
	}
	if c.BarnesHutTheta < 0 {
		return fmt.Errorf("%w: theta must not be negative, got %v", ErrInvalidConfig, c.BarnesHutTheta)
	}
	if c.Gravity < 0 {
		return fmt.Errorf("%w: gravity must not be negative, got %v", ErrInvalidConfig, c.Gravity)
	}
	if c.EdgeWeightInfluence < 0 {
		return fmt.Errorf("%w: edge weight influence must not be negative, got %v", ErrInvalidConfig, c.EdgeWeightInfluence)
	}
	return nil
}
