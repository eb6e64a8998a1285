package routing

import (
	"math"
	"strings"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// categoryKeywords are matched in order against the lower-cased fluid and
// line number. The first hit wins.
var categoryKeywords = []struct {
	category diagram.PipeCategory
	keywords []string
}{
	{diagram.PipeSignal, []string{"signal", "electric"}},
	{diagram.PipeInstrument, []string{"instrument"}},
	{diagram.PipeUtilitySteam, []string{"steam"}},
	{diagram.PipeUtilityCooling, []string{"cooling", "cw"}},
	{diagram.PipeUtilityNitrogen, []string{"nitrogen", "n2"}},
	{diagram.PipeUtilityAir, []string{"air"}},
}

// Categorize returns the connection's category, deriving it from the fluid
// and line number when none is set.
func Categorize(c diagram.Connection) diagram.PipeCategory {
	if c.Category != "" {
		return c.Category
	}
	text := strings.ToLower(c.Fluid + " " + c.LineNumber)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(text, kw) {
				return ck.category
			}
		}
	}
	return diagram.PipeProcess
}

// LineStyleFor maps a pipe category to its stroke style.
func LineStyleFor(c diagram.PipeCategory) diagram.LineStyle {
	switch c {
	case diagram.PipeProcess:
		return diagram.LineSolid
	case diagram.PipeInstrument, diagram.PipeSignal:
		return diagram.LineDotted
	case diagram.PipeUtilitySteam, diagram.PipeUtilityCooling,
		diagram.PipeUtilityAir, diagram.PipeUtilityNitrogen:
		return diagram.LineDashed
	}
	return diagram.LineSolid
}

// LineWidth maps a nominal pipe size in inches ("6", `8"`, "2.5 in") to a
// stroke width. Sizes that do not start with a number get width 2.
func LineWidth(size string) float64 {
	v, ok := diagram.LeadingNumber(size)
	if !ok {
		return 2
	}
	switch {
	case v >= 12:
		return 6
	case v >= 8:
		return 5
	case v >= 6:
		return 4
	case v >= 4:
		return 3
	case v >= 2:
		return 2
	}
	return 1
}

// FlowArrows places one arrow at the midpoint of every segment with
// non-zero length, pointing along the segment.
func FlowArrows(path []diagram.Point) []diagram.Arrow {
	var arrows []diagram.Arrow
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if a == b {
			continue
		}
		arrows = append(arrows, diagram.Arrow{
			Position: diagram.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2},
			Angle:    math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi,
		})
	}
	return arrows
}
