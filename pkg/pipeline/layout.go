package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/pidlayout/pkg/core/annotation"
	"github.com/matzehuels/pidlayout/pkg/core/instrument"
	"github.com/matzehuels/pidlayout/pkg/core/placement"
	"github.com/matzehuels/pidlayout/pkg/core/routing"
	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/observability"
)

// Layout runs all four stages on in without caching or logging.
//
// When in has no connections, equipment is connected in list order. The
// returned diagram keeps the connections it routed so that [Rearrange] can
// re-route the same set.
func Layout(ctx context.Context, in diagram.Input, opts Options) (*diagram.Diagram, Stats, error) {
	var stats Stats
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, stats, err
	}

	d := &diagram.Diagram{
		Metadata:    in.Metadata,
		Canvas:      opts.Canvas(),
		Connections: in.Connections,
		Instruments: in.Instruments,
		Markups:     in.Markups,
	}

	err := runStage(ctx, d, diagram.StagePlacement, len(in.Equipment), &stats.PlacementTime, func() ([]diagram.Diagnostic, error) {
		res, err := placement.Place(in.Equipment, opts.PlacementOptions())
		if err != nil {
			return nil, err
		}
		d.Equipment = res.Nodes
		return res.Diagnostics, nil
	})
	if err != nil {
		return nil, stats, err
	}
	if len(d.Connections) == 0 {
		d.Connections = routing.SynthesizeConnections(d.Equipment)
	}

	if err := downstream(ctx, d, opts, &stats); err != nil {
		return nil, stats, err
	}
	stats.count(d)
	return d, stats, nil
}

// Rearrange moves one placed node, pins it, resolves collisions and re-runs
// routing, instrumentation and annotation. d is not modified.
func Rearrange(ctx context.Context, d *diagram.Diagram, tag string, pos diagram.Point, opts Options) (*diagram.Diagram, Stats, error) {
	var stats Stats
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, stats, err
	}
	if d.Canvas.Width > 0 && d.Canvas.Height > 0 {
		opts.Width, opts.Height, opts.Margin = d.Canvas.Width, d.Canvas.Height, d.Canvas.Margin
	}

	out := &diagram.Diagram{
		Metadata:    d.Metadata,
		Canvas:      opts.Canvas(),
		Connections: d.Connections,
		Instruments: d.Instruments,
		Markups:     d.Markups,
	}
	err := runStage(ctx, out, diagram.StagePlacement, len(d.Equipment), &stats.PlacementTime, func() ([]diagram.Diagnostic, error) {
		res, err := placement.Rearrange(d.Equipment, tag, pos, opts.PlacementOptions())
		if err != nil {
			return nil, err
		}
		out.Equipment = res.Nodes
		return res.Diagnostics, nil
	})
	if err != nil {
		return nil, stats, err
	}
	if err := downstream(ctx, out, opts, &stats); err != nil {
		return nil, stats, err
	}
	stats.count(out)
	return out, stats, nil
}

// downstream runs routing, instrumentation and annotation against d's placed
// equipment.
func downstream(ctx context.Context, d *diagram.Diagram, opts Options, stats *Stats) error {
	err := runStage(ctx, d, diagram.StageRouting, len(d.Connections), &stats.RoutingTime, func() ([]diagram.Diagnostic, error) {
		res, err := routing.Route(d.Equipment, d.Connections, opts.RoutingOptions())
		if err != nil {
			return nil, err
		}
		d.Routes = res.Routes
		return res.Diagnostics, nil
	})
	if err != nil {
		return err
	}

	err = runStage(ctx, d, diagram.StageInstrumentation, len(d.Instruments), &stats.InstrumentationTime, func() ([]diagram.Diagnostic, error) {
		res, err := instrument.Process(d.Equipment, d.Instruments, opts.InstrumentOptions())
		if err != nil {
			return nil, err
		}
		d.Instruments = res.Instruments
		d.Loops = res.Loops
		d.SignalRoutes = res.SignalRoutes
		return res.Diagnostics, nil
	})
	if err != nil {
		return err
	}

	return runStage(ctx, d, diagram.StageAnnotation, len(d.Equipment)+len(d.Markups), &stats.AnnotationTime, func() ([]diagram.Diagnostic, error) {
		generated := annotation.Generate(annotation.Input{
			Metadata:     d.Metadata,
			Equipment:    d.Equipment,
			Routes:       d.Routes,
			SignalRoutes: d.SignalRoutes,
		}, opts.AnnotationOptions())
		if opts.Annotates(AnnotateRevisionClouds) && d.Metadata.Revision != "" {
			generated = append(generated, annotation.RevisionClouds(d.Equipment, d.Metadata.Revision, annotation.NewRand(opts.Seed))...)
		}
		marks, diags := annotation.Resolve(d.Markups, d.Equipment)
		placed, residual := annotation.Place(append(generated, marks...))
		d.Annotations = placed
		return append(diags, residual...), nil
	})
}

// runStage times fn, reports it to the pipeline hooks and records its
// diagnostics on d.
func runStage(ctx context.Context, d *diagram.Diagram, stage diagram.Stage, items int, elapsed *time.Duration, fn func() ([]diagram.Diagnostic, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, string(stage), items)

	start := time.Now()
	diags, err := fn()
	*elapsed = time.Since(start)

	hooks.OnStageComplete(ctx, string(stage), len(diags), *elapsed, err)
	if err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}
	d.Diagnostics = append(d.Diagnostics, diags...)
	return nil
}

func (s *Stats) count(d *diagram.Diagram) {
	s.Equipment = len(d.Equipment)
	s.Routes = len(d.Routes)
	s.Instruments = len(d.Instruments)
	s.Annotations = len(d.Annotations)
	s.Diagnostics = len(d.Diagnostics)
	s.PipeLength, s.Diagonal = 0, 0
	for _, r := range d.Routes {
		s.PipeLength += r.Length()
		if r.Strategy != (routing.Direct{}).Name() && !r.IsOrthogonal() {
			s.Diagonal++
		}
	}
}
