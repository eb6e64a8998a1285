package instrument

import (
	"fmt"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// FirstLoopNumber is the loop number given to the first generated loop.
const FirstLoopNumber = 101

type template struct {
	letters string
	purpose string
}

// templates list the instruments a typical unit of each category carries.
var templates = map[diagram.Category][]template{
	diagram.CategoryPump:          {{"FT", "discharge flow"}, {"FIC", "flow control"}, {"FV", "flow control valve"}},
	diagram.CategoryVessel:        {{"LT", "level"}, {"LIC", "level control"}, {"PI", "pressure"}},
	diagram.CategorySeparator:     {{"LT", "interface level"}, {"PT", "pressure"}},
	diagram.CategoryColumn:        {{"PT", "top pressure"}, {"TT", "tray temperature"}, {"LT", "bottoms level"}},
	diagram.CategoryHeatExchanger: {{"TT", "outlet temperature"}, {"TIC", "temperature control"}, {"TV", "temperature control valve"}},
	diagram.CategoryCompressor:    {{"PT", "discharge pressure"}, {"PIC", "pressure control"}},
	diagram.CategoryReactor:       {{"TT", "bed temperature"}, {"TIC", "temperature control"}, {"PT", "pressure"}},
}

// Generate proposes a standard instrument set for nodes: one loop per node
// with a template for its category, numbered from FirstLoopNumber in node
// order. Nodes without a template get no instruments.
func Generate(nodes []diagram.EquipmentNode) []diagram.Instrument {
	var out []diagram.Instrument
	loop := FirstLoopNumber
	for _, n := range nodes {
		ts, ok := templates[n.Category]
		if !ok {
			continue
		}
		for _, t := range ts {
			out = append(out, diagram.Instrument{
				Tag:         fmt.Sprintf("%s-%d", t.letters, loop),
				Description: fmt.Sprintf("%s %s", n.Tag, t.purpose),
				Equipment:   n.Tag,
			})
		}
		loop++
	}
	return out
}
