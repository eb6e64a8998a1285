package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pidlayout/pkg/cache"
	"github.com/matzehuels/pidlayout/pkg/diagram"
	pidio "github.com/matzehuels/pidlayout/pkg/io"
	"github.com/matzehuels/pidlayout/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute lays out in and renders the requested formats, consulting the
// cache first unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, in diagram.Input, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	inputData, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}
	result := &Result{InputHash: cache.Hash(inputData)}

	d, stats, hit, err := r.LayoutWithCacheInfo(ctx, in, result.InputHash, opts)
	if err != nil {
		return nil, err
	}
	result.Diagram = d
	result.Stats = stats
	result.CacheInfo.DiagramHit = hit
	r.report(opts.Logger, d, stats, hit)

	if len(opts.Formats) == 0 {
		return result, nil
	}
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo lays out in with caching and returns cache hit info.
// inputHash identifies in; see [cache.Hash].
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, in diagram.Input, inputHash string, opts Options) (*diagram.Diagram, Stats, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Stats{}, false, err
	}
	hooks := observability.Cache()
	cacheKey := r.Keyer.DiagramKey(inputHash, opts.DiagramKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if d, err := pidio.UnmarshalDiagram(data, pidio.FormatMsgpack); err == nil {
				hooks.OnCacheHit(ctx, cacheKey)
				var stats Stats
				stats.count(d)
				return d, stats, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "key", cacheKey, "error", err)
		}
		hooks.OnCacheMiss(ctx, cacheKey)
	}

	d, stats, err := Layout(ctx, in, opts)
	if err != nil {
		return nil, stats, false, err
	}

	if data, err := pidio.MarshalDiagram(d, pidio.FormatMsgpack); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDiagram); err != nil {
			r.Logger.Warn("cache store failed", "key", cacheKey, "error", err)
		} else {
			hooks.OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	return d, stats, false, nil
}

// Rearrange moves one node of a laid-out diagram and re-runs the downstream
// stages. The result is not cached; interactive edits rarely repeat.
func (r *Runner) Rearrange(ctx context.Context, d *diagram.Diagram, tag string, pos diagram.Point, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	out, stats, err := Rearrange(ctx, d, tag, pos, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("rearranged diagram", "tag", tag, "x", pos.X, "y", pos.Y)
	r.report(opts.Logger, out, stats, false)

	result := &Result{Diagram: out, Stats: stats}
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		if result.Artifacts, err = Render(ctx, out, opts.Formats); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Stats.RenderTime = time.Since(renderStart)
	}
	return result, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit flag is true only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *diagram.Diagram, opts Options) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	diagramData, err := pidio.MarshalDiagram(d, pidio.FormatMsgpack)
	if err != nil {
		return nil, false, fmt.Errorf("serialize diagram for cache key: %w", err)
	}
	diagramHash := cache.Hash(diagramData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.PreviewKey(diagramHash, format)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, d, missing)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		_ = r.Cache.Set(ctx, r.Keyer.PreviewKey(diagramHash, format), data, cache.TTLPreview)
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// report logs a per-stage summary and every diagnostic.
func (r *Runner) report(logger *log.Logger, d *diagram.Diagram, stats Stats, cached bool) {
	if cached {
		logger.Info("loaded diagram from cache",
			"equipment", stats.Equipment,
			"routes", stats.Routes)
	} else {
		logger.Info("placed equipment", "nodes", stats.Equipment, "duration", stats.PlacementTime)
		logger.Info("routed pipes", "routes", stats.Routes, "length", math.Round(stats.PipeLength), "duration", stats.RoutingTime)
		if stats.Diagonal > 0 {
			logger.Debug("orthogonal routes with slanted segments", "routes", stats.Diagonal)
		}
		logger.Info("placed instruments", "instruments", stats.Instruments, "loops", len(d.Loops), "duration", stats.InstrumentationTime)
		logger.Info("placed annotations", "annotations", stats.Annotations, "duration", stats.AnnotationTime)
	}
	for _, diag := range d.Diagnostics {
		logger.Warn(diag.Message,
			"stage", diag.Stage,
			"kind", diag.Kind,
			"subject", diag.Subject)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
