// Package pipeline provides the core layout pipeline for Forcelayout.
//
// This package implements the complete load → layout → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Run the force simulation to compute node positions
//  2. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Iterations: 200,
//	    BarnesHut:  true,
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Layout only
//	l, err := runner.ComputeLayout(ctx, g, opts)
//
//	// Render from an existing layout
//	artifacts, err := runner.Render(ctx, g, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cwirth/forcelayout/pkg/cache"
	fgerrors "github.com/cwirth/forcelayout/pkg/errors"
	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultIterations is the default number of simulation iterations.
	// Enough for graphs up to a few thousand nodes to settle.
	DefaultIterations = 200

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultWidth is the default output width in pixels.
	DefaultWidth = 1000.0

	// DefaultScale is the default PNG scale factor (2x for high-DPI displays).
	DefaultScale = 2.0

	// BarnesHutThreshold is the node count above which Barnes-Hut
	// approximation is enabled automatically when the caller did not
	// choose either way.
	BarnesHutThreshold = 1000
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
//
// Zero-valued tuning fields take the simulation defaults; NoGravity exists
// because a zero Gravity field is indistinguishable from "use the default".
type Options struct {
	// Layout options
	Iterations          int     `json:"iterations,omitempty"`
	Seed                uint64  `json:"seed,omitempty"`
	ScalingRatio        float64 `json:"scaling_ratio,omitempty"`
	Gravity             float64 `json:"gravity,omitempty"`
	NoGravity           bool    `json:"no_gravity,omitempty"`
	StrongGravity       bool    `json:"strong_gravity,omitempty"`
	DistributeHubs      bool    `json:"distribute_hubs,omitempty"`
	EdgeWeightInfluence float64 `json:"edge_weight_influence,omitempty"`
	JitterTolerance     float64 `json:"jitter_tolerance,omitempty"`
	BarnesHut           *bool   `json:"barnes_hut,omitempty"`
	Theta               float64 `json:"theta,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Width     float64  `json:"width,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	Labels    bool     `json:"labels,omitempty"`
	HideEdges bool     `json:"hide_edges,omitempty"`
	Graphviz  bool     `json:"graphviz,omitempty"` // Route SVG through neato instead of the direct renderer
	Refresh   bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger          `json:"-"`
	Hook   layout.IterationHook `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID uuid.UUID

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout contains the serializable layout data (positions, params).
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Iterations int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Iterations < 0 {
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "iterations must not be negative, got %d", o.Iterations)
	}
	cfg := o.layoutConfig(0)
	if err := cfg.Validate(); err != nil {
		return fgerrors.Wrap(fgerrors.ErrCodeInvalidConfig, err, "layout parameters")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for _, f := range o.Formats {
		if err := fgerrors.ValidateFormat(f, ValidFormats); err != nil {
			return err
		}
	}
	return nil
}

// LayoutConfig builds the simulation configuration for a graph of n nodes.
// Unset fields fall back to the simulation defaults, and Barnes-Hut is
// enabled automatically for large graphs unless explicitly chosen.
func (o *Options) LayoutConfig(n int) layout.Config {
	return o.layoutConfig(n)
}

func (o *Options) layoutConfig(n int) layout.Config {
	cfg := layout.DefaultConfig()
	cfg.OutboundAttractionDistribution = o.DistributeHubs
	cfg.StrongGravityMode = o.StrongGravity
	if o.ScalingRatio != 0 {
		cfg.ScalingRatio = o.ScalingRatio
	}
	if o.Gravity != 0 {
		cfg.Gravity = o.Gravity
	}
	if o.NoGravity {
		cfg.Gravity = 0
	}
	if o.EdgeWeightInfluence != 0 {
		cfg.EdgeWeightInfluence = o.EdgeWeightInfluence
	}
	if o.JitterTolerance != 0 {
		cfg.JitterTolerance = o.JitterTolerance
	}
	if o.Theta != 0 {
		cfg.BarnesHutTheta = o.Theta
	}
	if o.BarnesHut != nil {
		cfg.BarnesHutOptimize = *o.BarnesHut
	} else {
		cfg.BarnesHutOptimize = n > BarnesHutThreshold
	}
	return cfg
}

// Params returns the serializable copy of the effective simulation
// parameters for a graph of n nodes.
func (o *Options) Params(n int) graph.Params {
	cfg := o.layoutConfig(n)
	return graph.Params{
		OutboundAttractionDistribution: cfg.OutboundAttractionDistribution,
		EdgeWeightInfluence:            cfg.EdgeWeightInfluence,
		JitterTolerance:                cfg.JitterTolerance,
		BarnesHutOptimize:              cfg.BarnesHutOptimize,
		BarnesHutTheta:                 cfg.BarnesHutTheta,
		ScalingRatio:                   cfg.ScalingRatio,
		StrongGravityMode:              cfg.StrongGravityMode,
		Gravity:                        cfg.Gravity,
	}
}

// LayoutKeyOpts returns cache key options for layout computation on a
// graph of n nodes.
func (o *Options) LayoutKeyOpts(n int) cache.LayoutKeyOpts {
	cfg := o.layoutConfig(n)
	return cache.LayoutKeyOpts{
		Iterations:          o.Iterations,
		Seed:                o.Seed,
		ScalingRatio:        cfg.ScalingRatio,
		Gravity:             cfg.Gravity,
		StrongGravity:       cfg.StrongGravityMode,
		DistributeHubs:      cfg.OutboundAttractionDistribution,
		EdgeWeightInfluence: cfg.EdgeWeightInfluence,
		JitterTolerance:     cfg.JitterTolerance,
		BarnesHut:           cfg.BarnesHutOptimize,
		Theta:               cfg.BarnesHutTheta,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Width:     o.Width,
		Labels:    o.Labels,
		ShowEdges: !o.HideEdges,
	}
}
