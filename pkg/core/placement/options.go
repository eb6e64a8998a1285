package placement

import (
	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

const (
	// DefaultGridSize is the snapping grid in canvas units.
	DefaultGridSize = 20.0

	// DefaultMinSpacing is the minimum centre distance along the flow axis
	// and the clearance budget used by collision resolution.
	DefaultMinSpacing = 100.0

	// MaxOptimizeRounds caps collision resolution.
	MaxOptimizeRounds = 50
)

// Direction is the main process flow direction.
type Direction string

// Flow directions.
const (
	LeftToRight Direction = "left-to-right"
	TopToBottom Direction = "top-to-bottom"
	Auto        Direction = "auto"
)

// ParseDirection validates a flow direction name. Empty means auto.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case "":
		return Auto, nil
	case LeftToRight, TopToBottom, Auto:
		return d, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy,
		"invalid flow direction: %q (must be one of: left-to-right, top-to-bottom, auto)", s)
}

// Options configures [Place] and [Rearrange].
type Options struct {
	Canvas           diagram.Canvas
	GridSize         float64
	MinSpacing       float64
	Strategy         string
	FlowDirection    string
	RespectElevation bool
	AutoOptimize     bool

	// MaxRounds overrides MaxOptimizeRounds when positive.
	MaxRounds int
}

// withDefaults fills zero values and validates the result.
func (o Options) withDefaults() (Options, error) {
	if o.GridSize == 0 {
		o.GridSize = DefaultGridSize
	}
	if o.MinSpacing == 0 {
		o.MinSpacing = DefaultMinSpacing
	}
	if o.Strategy == "" {
		o.Strategy = ProcessSequence{}.Name()
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = MaxOptimizeRounds
	}
	if err := errors.ValidateCanvas(o.Canvas.Width, o.Canvas.Height, o.Canvas.Margin); err != nil {
		return o, err
	}
	if err := errors.ValidatePositive("grid size", o.GridSize); err != nil {
		return o, err
	}
	if err := errors.ValidatePositive("minimum spacing", o.MinSpacing); err != nil {
		return o, err
	}
	return o, nil
}
