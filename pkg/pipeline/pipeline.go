// Package pipeline runs the four layout engines in order and caches the
// result.
//
// The CLI, the HTTP service and tests all go through this package so that
// defaults, validation and caching behave the same everywhere.
//
// # Stages
//
//  1. Placement: position equipment ([placement.Place])
//  2. Routing: route pipes between placed equipment ([routing.Route])
//  3. Instrumentation: classify, connect and position instruments ([instrument.Process])
//  4. Annotation: generate and de-overlap annotations ([annotation.Place])
//
// Each stage only reads the output of earlier stages. Degraded outcomes are
// collected as diagnostics on the returned diagram; only invalid options fail
// the run.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, input, pipeline.Options{
//	    Placement: "equipment-type",
//	    Routing:   "smart",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(res.Diagram.Routes), "routes")
//
// Drag a node and re-run the downstream stages:
//
//	res, err = runner.Rearrange(ctx, res.Diagram, "P-101", diagram.Point{X: 400, Y: 200}, opts)
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pidlayout/pkg/cache"
	"github.com/matzehuels/pidlayout/pkg/core/annotation"
	"github.com/matzehuels/pidlayout/pkg/core/instrument"
	"github.com/matzehuels/pidlayout/pkg/core/placement"
	"github.com/matzehuels/pidlayout/pkg/core/routing"
	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Config
// =============================================================================

const (
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
	DefaultMargin = 50.0

	DefaultPlacement   = "process-sequence"
	DefaultDirection   = "auto"
	DefaultRouting     = "manhattan"
	DefaultInstruments = "auto"

	// DefaultSeed drives revision-cloud jitter.
	DefaultSeed = uint64(42)
)

// Format constants for rendered artifacts.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatJSON:    true,
	FormatMsgpack: true,
	FormatDOT:     true,
	FormatSVG:     true,
}

// Annotation categories accepted in Options.Annotations.
const (
	AnnotateProcessData    = "process_data"
	AnnotateEquipmentNotes = "equipment_notes"
	AnnotateSafety         = "safety"
	AnnotateDesignBasis    = "design_basis"
	AnnotateRevisionBlock  = "revision_block"
	AnnotateLegend         = "legend"
	AnnotateGeneralNotes   = "general_notes"
	AnnotateRevisionClouds = "revision_clouds"

	// AnnotateNone disables generated annotations. User markups are still
	// placed.
	AnnotateNone = "none"
)

// AnnotationCategories lists every category in generation order.
var AnnotationCategories = []string{
	AnnotateSafety,
	AnnotateEquipmentNotes,
	AnnotateProcessData,
	AnnotateDesignBasis,
	AnnotateRevisionBlock,
	AnnotateLegend,
	AnnotateGeneralNotes,
	AnnotateRevisionClouds,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. Zero values mean "use the default".
// Settings that default to on are expressed as Skip/No flags so that the
// zero value stays the default.
type Options struct {
	// Canvas
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Margin   float64 `json:"margin,omitempty"`
	GridSize float64 `json:"grid_size,omitempty"`

	// Placement
	Placement        string  `json:"placement,omitempty"`
	FlowDirection    string  `json:"flow_direction,omitempty"`
	MinSpacing       float64 `json:"min_spacing,omitempty"`
	RespectElevation bool    `json:"respect_elevation,omitempty"`
	SkipOptimize     bool    `json:"skip_optimize,omitempty"`

	// Routing
	Routing        string  `json:"routing,omitempty"`
	AvoidCrossings bool    `json:"avoid_crossings,omitempty"`
	SkipSnap       bool    `json:"skip_snap,omitempty"`
	PipeSpacing    float64 `json:"pipe_spacing,omitempty"`
	MinPipeSpacing float64 `json:"min_pipe_spacing,omitempty"`
	MaxExpansions  int     `json:"max_expansions,omitempty"`

	// Instrumentation
	Instruments  string `json:"instruments,omitempty"`
	AutoGenerate bool   `json:"auto_generate,omitempty"`

	// Annotation: empty means every category.
	Annotations []string `json:"annotations,omitempty"`
	Seed        uint64   `json:"seed,omitempty"`

	// Output
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the fully positioned diagram.
	Diagram *diagram.Diagram

	// InputHash identifies the input document.
	InputHash string

	// Artifacts holds rendered outputs keyed by format, when requested.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information per stage.
type Stats struct {
	Equipment   int
	Routes      int
	Instruments int
	Annotations int
	Diagnostics int

	// PipeLength is the summed polyline length of all process routes.
	PipeLength float64
	// Diagonal counts routes from orthogonal strategies that still have a
	// slanted segment. It should stay zero.
	Diagonal int

	PlacementTime       time.Duration
	RoutingTime         time.Duration
	InstrumentationTime time.Duration
	AnnotationTime      time.Duration
	RenderTime          time.Duration
}

// Total returns the time spent in the four engines.
func (s Stats) Total() time.Duration {
	return s.PlacementTime + s.RoutingTime + s.InstrumentationTime + s.AnnotationTime
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	DiagramHit bool // laid-out diagram came from cache
	RenderHit  bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, msgpack, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAnnotations checks annotation category names.
func ValidateAnnotations(names []string) error {
	for _, n := range names {
		if n != AnnotateNone && !slices.Contains(AnnotationCategories, n) {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid annotation category: %q", n)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults for every stage and validates the
// result. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, validate := range []func() error{
		o.ValidateForPlacement,
		o.ValidateForRouting,
		o.ValidateForInstrumentation,
		o.ValidateForAnnotation,
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetCanvasDefaults fills the canvas size and grid.
func (o *Options) SetCanvasDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.GridSize == 0 {
		o.GridSize = placement.DefaultGridSize
	}
}

// ValidateForPlacement sets placement defaults and validates them.
func (o *Options) ValidateForPlacement() error {
	o.SetCanvasDefaults()
	if o.Placement == "" {
		o.Placement = DefaultPlacement
	}
	if o.FlowDirection == "" {
		o.FlowDirection = DefaultDirection
	}
	if o.MinSpacing == 0 {
		o.MinSpacing = placement.DefaultMinSpacing
	}
	return placement.Validate(o.PlacementOptions())
}

// ValidateForRouting sets routing defaults and validates them.
func (o *Options) ValidateForRouting() error {
	o.SetCanvasDefaults()
	if o.Routing == "" {
		o.Routing = DefaultRouting
	}
	if o.PipeSpacing == 0 {
		o.PipeSpacing = routing.DefaultPipeSpacing
	}
	if o.MinPipeSpacing == 0 {
		o.MinPipeSpacing = routing.DefaultMinPipeSpacing
	}
	if o.MaxExpansions == 0 {
		o.MaxExpansions = routing.DefaultMaxExpansions
	}
	return routing.Validate(o.RoutingOptions())
}

// ValidateForInstrumentation sets instrumentation defaults and validates them.
func (o *Options) ValidateForInstrumentation() error {
	o.SetCanvasDefaults()
	if o.Instruments == "" {
		o.Instruments = DefaultInstruments
	}
	_, err := instrument.LayoutFor(o.Instruments)
	return err
}

// ValidateForAnnotation sets annotation defaults and validates them.
func (o *Options) ValidateForAnnotation() error {
	o.SetCanvasDefaults()
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return ValidateAnnotations(o.Annotations)
}

// Canvas returns the configured canvas.
func (o *Options) Canvas() diagram.Canvas {
	return diagram.Canvas{Width: o.Width, Height: o.Height, Margin: o.Margin}
}

// PlacementOptions maps o onto the placement engine.
func (o *Options) PlacementOptions() placement.Options {
	return placement.Options{
		Canvas:           o.Canvas(),
		GridSize:         o.GridSize,
		MinSpacing:       o.MinSpacing,
		Strategy:         o.Placement,
		FlowDirection:    o.FlowDirection,
		RespectElevation: o.RespectElevation,
		AutoOptimize:     !o.SkipOptimize,
	}
}

// RoutingOptions maps o onto the routing engine.
func (o *Options) RoutingOptions() routing.Options {
	return routing.Options{
		Canvas:         o.Canvas(),
		Strategy:       o.Routing,
		AvoidCrossings: o.AvoidCrossings,
		SnapToGrid:     !o.SkipSnap,
		GridSize:       o.GridSize,
		PipeSpacing:    o.PipeSpacing,
		MinPipeSpacing: o.MinPipeSpacing,
		MaxExpansions:  o.MaxExpansions,
	}
}

// InstrumentOptions maps o onto the instrumentation engine.
func (o *Options) InstrumentOptions() instrument.Options {
	return instrument.Options{
		Canvas:       o.Canvas(),
		Strategy:     o.Instruments,
		AutoGenerate: o.AutoGenerate,
	}
}

// Annotates reports whether an annotation category is enabled.
func (o *Options) Annotates(category string) bool {
	if len(o.Annotations) == 0 {
		return true
	}
	if slices.Contains(o.Annotations, AnnotateNone) {
		return false
	}
	return slices.Contains(o.Annotations, category)
}

// AnnotationOptions maps o onto the annotation generator.
func (o *Options) AnnotationOptions() annotation.Options {
	return annotation.Options{
		Canvas:         o.Canvas(),
		ProcessData:    o.Annotates(AnnotateProcessData),
		EquipmentNotes: o.Annotates(AnnotateEquipmentNotes),
		Safety:         o.Annotates(AnnotateSafety),
		DesignBasis:    o.Annotates(AnnotateDesignBasis),
		RevisionBlock:  o.Annotates(AnnotateRevisionBlock),
		Legend:         o.Annotates(AnnotateLegend),
		GeneralNotes:   o.Annotates(AnnotateGeneralNotes),
	}
}

// DiagramKeyOpts returns the cache key options for the laid-out diagram.
func (o *Options) DiagramKeyOpts() cache.DiagramKeyOpts {
	categories := make([]string, 0, len(AnnotationCategories))
	for _, c := range AnnotationCategories {
		if o.Annotates(c) {
			categories = append(categories, c)
		}
	}
	return cache.DiagramKeyOpts{
		Width:            o.Width,
		Height:           o.Height,
		Margin:           o.Margin,
		GridSize:         o.GridSize,
		MinSpacing:       o.MinSpacing,
		Placement:        o.Placement,
		FlowDirection:    o.FlowDirection,
		RespectElevation: o.RespectElevation,
		AutoOptimize:     !o.SkipOptimize,
		Routing:          o.Routing,
		AvoidCrossings:   o.AvoidCrossings,
		SnapToGrid:       !o.SkipSnap,
		PipeSpacing:      o.PipeSpacing,
		MinPipeSpacing:   o.MinPipeSpacing,
		MaxExpansions:    o.MaxExpansions,
		Instruments:      o.Instruments,
		AutoGenerate:     o.AutoGenerate,
		Annotations:      categories,
		Seed:             o.Seed,
	}
}
