// Package pkg provides the libraries behind pidlayout, an automatic layout
// engine for piping and instrumentation diagrams (P&IDs).
//
// # Overview
//
// pidlayout turns an equipment list into a positioned drawing. The pkg
// directory is organized into four areas:
//
//  1. [core] - The four layout engines (placement, routing, instruments, annotations)
//  2. [diagram] - The shared data model and geometry
//  3. [pipeline] - Orchestration and caching used by the CLI and the HTTP service
//  4. Infrastructure - [cache], [config], [session], [observability], [api]
//
// # Architecture
//
// The data flow through pidlayout:
//
//	Input document (JSON / YAML)
//	         ↓
//	    [io] package (schema validation, decoding)
//	         ↓
//	    [core/placement] (position equipment)
//	         ↓
//	    [core/routing] (route pipes)
//	         ↓
//	    [core/instrument] (classify, connect and place instruments)
//	         ↓
//	    [core/annotation] (generate and de-overlap annotations)
//	         ↓
//	    Diagram (JSON / msgpack), preview (DOT / SVG)
//
// Every stage only reads the output of the stages before it. Problems that
// do not invalidate the drawing, such as an instrument referencing unknown
// equipment, are collected as diagnostics on the diagram instead of failing
// the run.
//
// # Quick Start
//
//	in, _ := io.ImportInput("plant.yaml")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, in, pipeline.Options{
//	    Placement: "equipment-type",
//	    Routing:   "smart",
//	    Formats:   []string{"svg"},
//	})
//	os.WriteFile("plant.svg", res.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// ## Layout Engines
//
// [core/placement] - Strategies that position equipment (process sequence,
// equipment type, elevation bands, grid), followed by collision resolution
// and grid snapping.
//
// [core/routing] - Pipe routing between placed equipment: direct, manhattan,
// orthogonal and smart (A* around obstacles with manhattan fallback).
// Assigns line styles, widths and flow arrows.
//
// [core/instrument] - ISA-5.1 tag parsing, mounting and signal
// classification, control-loop grouping and instrument positioning.
//
// [core/annotation] - Process data, safety warnings, title blocks, legends,
// user markups and revision clouds, placed without overlap.
//
// ## Pipeline
//
// [pipeline] - Runs the engines in order, validates options, and caches
// results keyed by input and options. Used by the CLI, the HTTP service and
// tests so that behavior is identical everywhere.
//
// [io] - Input documents (JSON or YAML, checked against an embedded JSON
// schema) and diagram files (JSON or msgpack).
//
// [preview] - Graphviz DOT and SVG rendering of a laid-out diagram with
// pinned node positions.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches for diagrams and previews.
//
// [session] - Editing sessions that keep a diagram between rearrange calls,
// backed by memory, files or the cache.
//
// [config] - TOML configuration file shared by the CLI and the server.
//
// [api] - HTTP service exposing layout, rearrange and editing sessions.
//
// [observability] - Hooks for metrics and tracing of pipeline stages, cache
// lookups and HTTP requests.
//
// [errors] - Coded errors with user-facing messages and HTTP status mapping.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/routing/...       # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis integration tests
//
// [core]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/core
// [core/placement]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/core/placement
// [core/routing]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/core/routing
// [core/instrument]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/core/instrument
// [core/annotation]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/core/annotation
// [diagram]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/diagram
// [io]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/pipeline
// [preview]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/preview
// [cache]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pidlayout/pkg/errors
package pkg
