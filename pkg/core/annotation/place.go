package annotation

import (
	"slices"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// ResidualShift is how far right an annotation moves when no candidate
// position is free.
const ResidualShift = 60.0

// candidateOffsets are tried in order; the first free one wins.
var candidateOffsets = [...]diagram.Point{
	{X: 0, Y: 0},
	{X: 50, Y: 0},
	{X: -50, Y: 0},
	{X: 0, Y: 50},
	{X: 0, Y: -50},
	{X: 50, Y: 50},
	{X: -50, Y: -50},
	{X: 50, Y: -50},
	{X: -50, Y: 50},
}

// Place resolves overlaps between annotations and returns them in placement
// order. The input slice is not modified.
func Place(annotations []diagram.Annotation) ([]diagram.Annotation, []diagram.Diagnostic) {
	order := slices.Clone(annotations)
	slices.SortStableFunc(order, func(a, b diagram.Annotation) int {
		return a.Priority - b.Priority
	})

	var diags []diagram.Diagnostic
	placed := make([]diagram.Annotation, 0, len(order))
	for _, a := range order {
		if a.Fixed {
			placed = append(placed, a)
			continue
		}
		box, ok := freeBox(a.Box, placed)
		if !ok {
			box = a.Box.Translate(ResidualShift, 0)
			diags = append(diags, diagram.NewDiagnostic(
				diagram.StageAnnotation, diagram.KindResidualOverlap, subject(a),
				"no free position for %s annotation, shifted right and left overlapping", a.Type))
		}
		a.Path = shiftPath(a.Path, box.X-a.Box.X, box.Y-a.Box.Y)
		a.Box = box
		placed = append(placed, a)
	}
	return placed, diags
}

func freeBox(box diagram.Rect, placed []diagram.Annotation) (diagram.Rect, bool) {
	for _, off := range candidateOffsets {
		c := box.Translate(off.X, off.Y)
		if !slices.ContainsFunc(placed, func(p diagram.Annotation) bool { return p.Box.Intersects(c) }) {
			return c, true
		}
	}
	return diagram.Rect{}, false
}

// shiftPath moves path geometry with its box. Callout leaders keep their
// target end in place.
func shiftPath(path []diagram.Point, dx, dy float64) []diagram.Point {
	if len(path) == 0 || (dx == 0 && dy == 0) {
		return path
	}
	out := slices.Clone(path)
	out[0] = out[0].Add(dx, dy)
	return out
}

// Overlaps counts intersecting pairs among annotations.
func Overlaps(annotations []diagram.Annotation) int {
	n := 0
	for i := range annotations {
		for j := i + 1; j < len(annotations); j++ {
			if annotations[i].Box.Intersects(annotations[j].Box) {
				n++
			}
		}
	}
	return n
}

func subject(a diagram.Annotation) string {
	if a.Associated != "" {
		return a.Associated
	}
	return a.ID
}
