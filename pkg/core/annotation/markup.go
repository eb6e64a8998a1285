package annotation

import (
	"strconv"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// DefaultDimensionOffset is used when a dimension markup has no offset.
const DefaultDimensionOffset = 40.0

// Resolve turns user markups into annotations against placed nodes. A markup
// that names an unknown tag is dropped with a missing-reference diagnostic.
// Unrecognised types are treated as notes.
func Resolve(markups []diagram.Markup, nodes []diagram.EquipmentNode) ([]diagram.Annotation, []diagram.Diagnostic) {
	byTag := make(map[string]diagram.EquipmentNode, len(nodes))
	for _, n := range nodes {
		if _, ok := byTag[n.Tag]; !ok {
			byTag[n.Tag] = n
		}
	}
	var out []diagram.Annotation
	var diags []diagram.Diagnostic
	missing := func(i int, tag string) {
		diags = append(diags, diagram.NewDiagnostic(
			diagram.StageAnnotation, diagram.KindMissingReference, tag,
			"markup %d references unknown equipment %q", i, tag))
	}

	for i, m := range markups {
		id := annotationID(m.Type, strconv.Itoa(i), m.Target+m.From+m.To)
		switch m.Type {
		case diagram.AnnotationDimension:
			a, okA := byTag[m.From]
			b, okB := byTag[m.To]
			if !okA || !okB {
				tag := m.From
				if okA {
					tag = m.To
				}
				missing(i, tag)
				continue
			}
			offset := m.Offset
			if offset == 0 {
				offset = DefaultDimensionOffset
			}
			d := Dimension(id, a.Position, b.Position, offset)
			d.Associated = m.From
			out = append(out, d)

		case diagram.AnnotationCallout:
			n, ok := byTag[m.Target]
			if !ok {
				missing(i, m.Target)
				continue
			}
			at := n.Position.Add(n.Size.Width/2+40, -n.Size.Height/2-40)
			if m.At != nil {
				at = *m.At
			}
			c := Callout(id, m.Text, at, n.Position)
			c.Associated = n.Tag
			out = append(out, c)

		default:
			var at diagram.Point
			var assoc string
			switch {
			case m.At != nil:
				at = *m.At
			case m.Target != "":
				n, ok := byTag[m.Target]
				if !ok {
					missing(i, m.Target)
					continue
				}
				at = n.Position.Add(-n.Size.Width/2, n.Size.Height/2+30)
				assoc = n.Tag
			default:
				continue
			}
			out = append(out, diagram.Annotation{
				ID:         id,
				Type:       diagram.AnnotationNote,
				Box:        textBox(at, m.Text),
				Text:       m.Text,
				Priority:   PriorityEquipment,
				Associated: assoc,
			})
		}
	}
	return out, diags
}
