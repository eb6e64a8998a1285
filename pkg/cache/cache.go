// Package cache stores finished diagrams and previews between runs.
//
// The pipeline caches the positioned diagram keyed by a hash of the input
// document plus every option that influences the result, so rerunning a
// layout with unchanged input is a single lookup. Three backends exist:
//
//   - [FileCache] for the CLI (one file per entry under the user cache dir)
//   - [RedisCache] for the HTTP service, shared between replicas
//   - [NullCache] when caching is disabled
//
// Keys are produced by a [Keyer]; wrap one in a [ScopedKeyer] to give
// different tenants separate namespaces.
package cache

import (
	"context"
	"time"
)

// TTLs for cached values.
const (
	// TTLDiagram is how long a laid-out diagram stays cached.
	TTLDiagram = 7 * 24 * time.Hour

	// TTLPreview is how long a rendered preview stays cached.
	TTLPreview = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// =============================================================================
// Keys
// =============================================================================

// DiagramKeyOpts lists the options that change a laid-out diagram.
type DiagramKeyOpts struct {
	Width, Height, Margin float64
	GridSize              float64
	MinSpacing            float64
	Placement             string
	FlowDirection         string
	RespectElevation      bool
	AutoOptimize          bool
	Routing               string
	AvoidCrossings        bool
	SnapToGrid            bool
	PipeSpacing           float64
	MinPipeSpacing        float64
	MaxExpansions         int
	Instruments           string
	AutoGenerate          bool
	Annotations           []string
	Seed                  uint64
}

// Keyer generates cache keys.
type Keyer interface {
	// DiagramKey identifies a laid-out diagram.
	DiagramKey(inputHash string, opts DiagramKeyOpts) string

	// PreviewKey identifies a rendered preview of a diagram.
	PreviewKey(diagramHash, format string) string
}

// DefaultKeyer hashes its arguments into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey returns "diagram:<sha256>".
func (DefaultKeyer) DiagramKey(inputHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", inputHash, opts)
}

// PreviewKey returns "preview:<format>:<diagramHash>".
func (DefaultKeyer) PreviewKey(diagramHash, format string) string {
	return "preview:" + format + ":" + diagramHash
}
