package annotation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// Callout is a floating label at `at` with a leader line to target. The
// first point of Path follows the box during placement; the second stays on
// the target.
func Callout(id, text string, at, target diagram.Point) diagram.Annotation {
	box := textBox(at, text)
	return diagram.Annotation{
		ID:       id,
		Type:     diagram.AnnotationCallout,
		Box:      box,
		Text:     text,
		Priority: PriorityEquipment,
		Path:     []diagram.Point{leaderAnchor(box, target), target},
	}
}

// leaderAnchor is the midpoint of the box edge facing target.
func leaderAnchor(box diagram.Rect, target diagram.Point) diagram.Point {
	c := box.Center()
	dx, dy := target.X-c.X, target.Y-c.Y
	if math.Abs(dx)*box.Height > math.Abs(dy)*box.Width {
		if dx > 0 {
			return diagram.Point{X: box.Right(), Y: c.Y}
		}
		return diagram.Point{X: box.X, Y: c.Y}
	}
	if dy > 0 {
		return diagram.Point{X: c.X, Y: box.Bottom()}
	}
	return diagram.Point{X: c.X, Y: box.Y}
}

// Dimension measures the distance between a and b on a line offset by
// `offset` to the left of a→b. The label sits at the middle of that line.
func Dimension(id string, a, b diagram.Point, offset float64) diagram.Annotation {
	length := a.Distance(b)
	var nx, ny float64
	if length > 0 {
		nx, ny = (b.Y-a.Y)/length, -(b.X-a.X)/length
	}
	pa := a.Add(nx*offset, ny*offset)
	pb := b.Add(nx*offset, ny*offset)
	text := fmt.Sprintf("%.0f", length)
	box := textBox(diagram.Point{}, text)
	box.X = (pa.X+pb.X)/2 - box.Width/2
	box.Y = (pa.Y+pb.Y)/2 - box.Height/2
	return diagram.Annotation{
		ID:    id,
		Type:  diagram.AnnotationDimension,
		Box:   box,
		Text:  text,
		Fixed: true,
		Path:  []diagram.Point{a, pa, pb, b},
	}
}

// CloudArcLength is the target chord between revision-cloud scallops.
const CloudArcLength = 30.0

// RevisionCloud outlines a circle of the given radius with scalloped
// vertices. Scallop angles and depths are jittered from rng, so a fixed
// seed always yields the same outline.
func RevisionCloud(id, revision string, center diagram.Point, radius float64, rng *rand.Rand) diagram.Annotation {
	n := max(8, int(2*math.Pi*radius/CloudArcLength))
	step := 2 * math.Pi / float64(n)
	path := make([]diagram.Point, 0, n+1)
	for i := 0; i < n; i++ {
		angle := float64(i)*step + (rng.Float64()-0.5)*step*0.25
		r := radius * (1 + (rng.Float64()-0.5)*0.1)
		path = append(path, center.Add(r*math.Cos(angle), r*math.Sin(angle)))
	}
	path = append(path, path[0])

	box := diagram.Rect{X: path[0].X, Y: path[0].Y}
	for _, p := range path[1:] {
		box = box.Union(diagram.Rect{X: p.X, Y: p.Y})
	}
	return diagram.Annotation{
		ID:    id,
		Type:  diagram.AnnotationRevision,
		Box:   box,
		Text:  revision,
		Fixed: true,
		Path:  path,
	}
}

// NewRand returns the generator used for revision clouds.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// RevisionClouds draws a cloud around every node whose "revised" attribute is
// true, labelled with the drawing revision. Clouds are generated in node
// order from one generator.
func RevisionClouds(nodes []diagram.EquipmentNode, revision string, rng *rand.Rand) []diagram.Annotation {
	var out []diagram.Annotation
	for _, n := range nodes {
		if v := diagram.AttributeString(n.Attributes, "revised"); v != "true" {
			continue
		}
		radius := math.Hypot(n.Size.Width, n.Size.Height)/2 + CloudArcLength/2
		id := annotationID(diagram.AnnotationRevision, n.Tag, "cloud")
		out = append(out, RevisionCloud(id, revision, n.Position, radius, rng))
	}
	return out
}
