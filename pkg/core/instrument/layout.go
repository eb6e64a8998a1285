package instrument

import (
	"math"
	"strings"

	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

const (
	// FieldRadius is the distance of field instruments from their equipment.
	FieldRadius = 80.0

	// RowSpacing separates instruments in rows and grids.
	RowSpacing = 60.0

	// GroupSpacing separates group columns in the grouped layouts.
	GroupSpacing = 150.0
)

// Layout positions classified and connected instruments. Implementations
// write Position on each element of insts and nothing else.
type Layout interface {
	Name() string
	Arrange(insts []diagram.Instrument, nodes map[string]diagram.EquipmentNode, canvas diagram.Canvas)
}

var layouts = []Layout{
	Auto{},
	ByEquipment{},
	ByFunction{},
	ByLoop{},
}

// Layouts returns the names of all registered layouts.
func Layouts() []string {
	names := make([]string, len(layouts))
	for i, l := range layouts {
		names[i] = l.Name()
	}
	return names
}

// LayoutFor looks up a layout by name.
func LayoutFor(name string) (Layout, error) {
	for _, l := range layouts {
		if l.Name() == name {
			return l, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidStrategy,
		"invalid instrument strategy: %q (must be one of: %s)", name, strings.Join(Layouts(), ", "))
}

// =============================================================================
// auto
// =============================================================================

// Auto places instruments by mounting location. Field instruments circle
// their equipment at index·45°+22.5°, or fill a grid along the bottom of the
// canvas when unconnected. Panel instruments form a row in the bottom
// margin; DCS and shared instruments a row in the top margin.
type Auto struct{}

func (Auto) Name() string { return "auto" }

func (Auto) Arrange(insts []diagram.Instrument, nodes map[string]diagram.EquipmentNode, canvas diagram.Canvas) {
	around := make(map[string]int)
	var loose, panel, dcs int
	cols := max(1, int(canvas.Drawable().Width/RowSpacing)+1)

	for i := range insts {
		inst := &insts[i]
		switch inst.Mounting {
		case diagram.MountPanel:
			inst.Position = diagram.Point{X: canvas.Margin + float64(panel)*RowSpacing, Y: canvas.Height - canvas.Margin/2}
			panel++
		case diagram.MountDCS, diagram.MountShared:
			inst.Position = diagram.Point{X: canvas.Margin + float64(dcs)*RowSpacing, Y: canvas.Margin / 2}
			dcs++
		default:
			if eq, ok := nodes[inst.ConnectionPoint]; ok {
				k := around[eq.Tag]
				around[eq.Tag]++
				angle := (float64(k)*45 + 22.5) * math.Pi / 180
				inst.Position = eq.Position.Add(FieldRadius*math.Cos(angle), FieldRadius*math.Sin(angle))
				continue
			}
			row, col := loose/cols, loose%cols
			inst.Position = diagram.Point{
				X: canvas.Margin + float64(col)*RowSpacing,
				Y: canvas.Height - canvas.Margin - float64(row)*RowSpacing,
			}
			loose++
		}
	}
}

// =============================================================================
// by-equipment, by-function, by-loop
// =============================================================================

// ByEquipment groups instruments by connected equipment. Unconnected
// instruments form their own group.
type ByEquipment struct{}

func (ByEquipment) Name() string { return "by-equipment" }

func (ByEquipment) Arrange(insts []diagram.Instrument, _ map[string]diagram.EquipmentNode, canvas diagram.Canvas) {
	arrangeGroups(insts, canvas, func(i diagram.Instrument) string { return i.ConnectionPoint })
}

// ByFunction groups instruments by their function letters.
type ByFunction struct{}

func (ByFunction) Name() string { return "by-function" }

func (ByFunction) Arrange(insts []diagram.Instrument, _ map[string]diagram.EquipmentNode, canvas diagram.Canvas) {
	arrangeGroups(insts, canvas, func(i diagram.Instrument) string { return strings.Join(i.Functions, "") })
}

// ByLoop groups instruments by loop number.
type ByLoop struct{}

func (ByLoop) Name() string { return "by-loop" }

func (ByLoop) Arrange(insts []diagram.Instrument, _ map[string]diagram.EquipmentNode, canvas diagram.Canvas) {
	arrangeGroups(insts, canvas, func(i diagram.Instrument) string { return i.LoopNumber })
}

// arrangeGroups stacks instruments sharing a key in columns GroupSpacing
// apart, one group after the other in order of first appearance. A group
// taller than the drawable area continues in the next column.
func arrangeGroups(insts []diagram.Instrument, canvas diagram.Canvas, key func(diagram.Instrument) string) {
	var order []string
	members := make(map[string][]int)
	for i, inst := range insts {
		k := key(inst)
		if _, ok := members[k]; !ok {
			order = append(order, k)
		}
		members[k] = append(members[k], i)
	}

	perColumn := max(1, int(canvas.Drawable().Height/RowSpacing)+1)
	col := 0
	for _, k := range order {
		for j, idx := range members[k] {
			if j > 0 && j%perColumn == 0 {
				col++
			}
			insts[idx].Position = diagram.Point{
				X: canvas.Margin + float64(col)*GroupSpacing,
				Y: canvas.Margin + float64(j%perColumn)*RowSpacing,
			}
		}
		col++
	}
}
