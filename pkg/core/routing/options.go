package routing

import (
	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

const (
	DefaultGridSize       = 20.0
	DefaultPipeSpacing    = 20.0
	DefaultMinPipeSpacing = 10.0

	// DefaultMaxExpansions caps the A* search per connection.
	DefaultMaxExpansions = 1000

	// EquipmentClearance grows each equipment footprint in the occupied space.
	EquipmentClearance = 30.0

	// ConnectionOffset is the distance from a node centre to its connection point.
	ConnectionOffset = 30.0
)

// Options configures [Route].
type Options struct {
	Canvas         diagram.Canvas
	Strategy       string
	AvoidCrossings bool
	SnapToGrid     bool
	GridSize       float64
	PipeSpacing    float64
	MinPipeSpacing float64

	// MaxExpansions overrides DefaultMaxExpansions when positive.
	MaxExpansions int
}

func (o Options) withDefaults() (Options, error) {
	if o.Strategy == "" {
		o.Strategy = Manhattan{}.Name()
	}
	if o.GridSize == 0 {
		o.GridSize = DefaultGridSize
	}
	if o.PipeSpacing == 0 {
		o.PipeSpacing = DefaultPipeSpacing
	}
	if o.MinPipeSpacing == 0 {
		o.MinPipeSpacing = DefaultMinPipeSpacing
	}
	if o.MaxExpansions <= 0 {
		o.MaxExpansions = DefaultMaxExpansions
	}
	if err := errors.ValidateCanvas(o.Canvas.Width, o.Canvas.Height, o.Canvas.Margin); err != nil {
		return o, err
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"grid size", o.GridSize},
		{"pipe spacing", o.PipeSpacing},
		{"minimum pipe spacing", o.MinPipeSpacing},
	} {
		if err := errors.ValidatePositive(v.name, v.val); err != nil {
			return o, err
		}
	}
	return o, nil
}

// Validate checks opts without routing anything.
func Validate(opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	_, err = StrategyFor(opts.Strategy)
	return err
}
