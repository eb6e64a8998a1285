package placement

import (
	"math"
	"strings"

	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

// Frame is the resolved geometry a strategy lays nodes out in.
type Frame struct {
	Canvas     diagram.Canvas
	Direction  Direction // never Auto
	MinSpacing float64
}

// axes returns the start and extent of the drawable area along the flow
// (primary) axis and across it (secondary axis).
func (f Frame) axes() (pStart, pExtent, sStart, sExtent float64) {
	d := f.Canvas.Drawable()
	if f.Direction == TopToBottom {
		return d.Y, d.Height, d.X, d.Width
	}
	return d.X, d.Width, d.Y, d.Height
}

// point maps (primary, secondary) coordinates back to canvas x/y.
func (f Frame) point(primary, secondary float64) diagram.Point {
	if f.Direction == TopToBottom {
		return diagram.Point{X: secondary, Y: primary}
	}
	return diagram.Point{X: primary, Y: secondary}
}

// Strategy computes initial node positions. Implementations write Position
// on each element of nodes and must not change anything else.
type Strategy interface {
	Name() string
	Place(nodes []diagram.EquipmentNode, f Frame)
}

var strategies = []Strategy{
	ProcessSequence{},
	EquipmentType{},
	Elevation{},
	Grid{},
}

// Strategies returns the names of all registered strategies.
func Strategies() []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	return names
}

// StrategyFor looks up a strategy by name.
func StrategyFor(name string) (Strategy, error) {
	for _, s := range strategies {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidStrategy,
		"invalid placement strategy: %q (must be one of: %s)", name, strings.Join(Strategies(), ", "))
}

// =============================================================================
// process-sequence
// =============================================================================

// ProcessSequence spaces nodes evenly along the flow axis in list order,
// centred on the perpendicular axis. The spacing never drops below the
// minimum spacing, so long trains may run past the far margin.
type ProcessSequence struct{}

func (ProcessSequence) Name() string { return "process-sequence" }

func (ProcessSequence) Place(nodes []diagram.EquipmentNode, f Frame) {
	n := len(nodes)
	if n == 0 {
		return
	}
	pStart, pExtent, _, _ := f.axes()
	center := f.Canvas.Center()
	cross := center.Y
	if f.Direction == TopToBottom {
		cross = center.X
	}
	if n == 1 {
		nodes[0].Position = f.point(pStart+pExtent/2, cross)
		return
	}
	spacing := math.Max(f.MinSpacing, pExtent/float64(n-1))
	for i := range nodes {
		nodes[i].Position = f.point(pStart+float64(i)*spacing, cross)
	}
}

// =============================================================================
// equipment-type
// =============================================================================

// EquipmentType allocates one band per category along the flow axis, in
// order of first appearance, and spreads each band's members evenly across it.
type EquipmentType struct{}

func (EquipmentType) Name() string { return "equipment-type" }

func (EquipmentType) Place(nodes []diagram.EquipmentNode, f Frame) {
	if len(nodes) == 0 {
		return
	}
	var order []diagram.Category
	groups := make(map[diagram.Category][]int)
	for i, n := range nodes {
		if _, ok := groups[n.Category]; !ok {
			order = append(order, n.Category)
		}
		groups[n.Category] = append(groups[n.Category], i)
	}

	pStart, pExtent, sStart, sExtent := f.axes()
	band := pExtent / float64(len(order))
	for g, cat := range order {
		members := groups[cat]
		primary := pStart + (float64(g)+0.5)*band
		step := sExtent / float64(len(members)+1)
		for j, idx := range members {
			nodes[idx].Position = f.point(primary, sStart+float64(j+1)*step)
		}
	}
}

// =============================================================================
// elevation
// =============================================================================

// elevationFractions map bands to a fraction of the canvas height.
var elevationFractions = map[diagram.ElevationBand]float64{
	diagram.ElevationOverhead: 0.20,
	diagram.ElevationHigh:     0.35,
	diagram.ElevationMedium:   0.50,
	diagram.ElevationLow:      0.65,
	diagram.ElevationGround:   0.85,
}

// Elevation places nodes at a fixed height per elevation band and spreads
// them evenly across the drawable width. It ignores the flow direction.
type Elevation struct{}

func (Elevation) Name() string { return "elevation" }

func (Elevation) Place(nodes []diagram.EquipmentNode, f Frame) {
	n := len(nodes)
	if n == 0 {
		return
	}
	d := f.Canvas.Drawable()
	step := d.Width / float64(n)
	for i := range nodes {
		frac, ok := elevationFractions[nodes[i].Elevation]
		if !ok {
			frac = elevationFractions[diagram.ElevationMedium]
		}
		nodes[i].Position = diagram.Point{
			X: d.X + (float64(i)+0.5)*step,
			Y: f.Canvas.Height * frac,
		}
	}
}

// =============================================================================
// grid
// =============================================================================

// Grid arranges nodes into ceil(sqrt(n)) columns of equal cells. Cells fill
// row by row for left-to-right flow and column by column for top-to-bottom.
type Grid struct{}

func (Grid) Name() string { return "grid" }

func (Grid) Place(nodes []diagram.EquipmentNode, f Frame) {
	n := len(nodes)
	if n == 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	d := f.Canvas.Drawable()
	cellW := d.Width / float64(cols)
	cellH := d.Height / float64(rows)
	for i := range nodes {
		r, c := i/cols, i%cols
		if f.Direction == TopToBottom {
			c, r = i/rows, i%rows
		}
		nodes[i].Position = diagram.Point{
			X: d.X + (float64(c)+0.5)*cellW,
			Y: d.Y + (float64(r)+0.5)*cellH,
		}
	}
}

// =============================================================================
// Flow direction and elevation adjustment
// =============================================================================

// ResolveDirection turns Auto into a concrete direction. More than two major
// nodes (columns, reactors) favour left-to-right; otherwise rotating
// equipment outnumbering major equipment favours top-to-bottom.
func ResolveDirection(nodes []diagram.EquipmentNode, d Direction) Direction {
	if d != Auto {
		return d
	}
	var major, rotating int
	for _, n := range nodes {
		switch {
		case n.Category.IsMajor():
			major++
		case n.Category.IsRotating():
			rotating++
		}
	}
	if major > 2 {
		return LeftToRight
	}
	if rotating > major {
		return TopToBottom
	}
	return LeftToRight
}

// elevationOffsets nudge nodes across the flow axis by band.
var elevationOffsets = map[diagram.ElevationBand]float64{
	diagram.ElevationOverhead: -150,
	diagram.ElevationHigh:     -75,
	diagram.ElevationMedium:   0,
	diagram.ElevationLow:      75,
	diagram.ElevationGround:   150,
}

// AdjustElevation shifts each node's secondary-axis coordinate by its band
// offset. It does not resolve any collisions it creates.
func AdjustElevation(nodes []diagram.EquipmentNode, d Direction) {
	for i := range nodes {
		off := elevationOffsets[nodes[i].Elevation]
		if d == TopToBottom {
			nodes[i].Position.X += off
		} else {
			nodes[i].Position.Y += off
		}
	}
}
