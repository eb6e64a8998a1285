package annotation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

const (
	// CharWidth and LineHeight size text boxes.
	CharWidth  = 7.0
	LineHeight = 18.0

	// PanelInset keeps fixed panels off the canvas edge.
	PanelInset = 10.0

	// MaxPanelHeight caps the legend and notes panels.
	MaxPanelHeight = 300.0
)

// Priorities. Lower values are placed first.
const (
	PrioritySafety = iota
	PriorityEquipment
	PriorityProcessData
)

var annotationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/pidlayout/annotation"))

// Options selects which categories [Generate] produces.
type Options struct {
	Canvas diagram.Canvas

	ProcessData    bool
	EquipmentNotes bool
	Safety         bool
	DesignBasis    bool
	RevisionBlock  bool
	Legend         bool
	GeneralNotes   bool
}

// AllCategories returns options with every category enabled.
func AllCategories(canvas diagram.Canvas) Options {
	return Options{
		Canvas:         canvas,
		ProcessData:    true,
		EquipmentNotes: true,
		Safety:         true,
		DesignBasis:    true,
		RevisionBlock:  true,
		Legend:         true,
		GeneralNotes:   true,
	}
}

// Input is the diagram content annotations are derived from.
type Input struct {
	Metadata     diagram.Metadata
	Equipment    []diagram.EquipmentNode
	Routes       []diagram.Route
	SignalRoutes []diagram.Route
}

// Generate builds annotations for every enabled category. The result is not
// yet de-overlapped; pass it through [Place].
func Generate(in Input, opts Options) []diagram.Annotation {
	var out []diagram.Annotation
	if opts.Safety {
		for _, n := range in.Equipment {
			if a, ok := SafetyWarning(n); ok {
				out = append(out, a)
			}
		}
	}
	if opts.EquipmentNotes {
		for _, n := range in.Equipment {
			if a, ok := EquipmentNote(n); ok {
				out = append(out, a)
			}
		}
	}
	if opts.ProcessData {
		nodes := make(map[string]diagram.EquipmentNode, len(in.Equipment))
		for _, n := range in.Equipment {
			nodes[n.Tag] = n
		}
		for _, r := range in.Routes {
			out = append(out, ProcessData(r, nodes[r.From])...)
		}
	}
	if opts.DesignBasis {
		out = append(out, DesignBasis(in.Metadata))
	}
	if opts.RevisionBlock {
		out = append(out, RevisionBlock(in.Metadata, opts.Canvas))
	}
	if opts.Legend {
		if items := legendItems(in.Routes, in.SignalRoutes); len(items) > 0 {
			out = append(out, Legend(items, opts.Canvas))
		}
	}
	if opts.GeneralNotes && len(in.Metadata.Notes) > 0 {
		out = append(out, NotesBlock(in.Metadata.Notes, opts.Canvas))
	}
	return out
}

// =============================================================================
// Process data
// =============================================================================

var processFields = []struct {
	key, label string
}{
	{"flow", "F"},
	{"temperature", "T"},
	{"pressure", "P"},
}

// ProcessData stacks flow, temperature and pressure labels beside the
// route's midpoint waypoint. Values come from the route attributes, falling
// back to the source equipment. Missing values are skipped but keep their
// slot in the stack.
func ProcessData(r diagram.Route, source diagram.EquipmentNode) []diagram.Annotation {
	if len(r.Waypoints) == 0 {
		return nil
	}
	mid := r.Midpoint()
	var out []diagram.Annotation
	for k, f := range processFields {
		v := diagram.AttributeString(r.Attributes, f.key)
		if v == "" {
			v = source.AttrString(f.key)
		}
		if v == "" {
			continue
		}
		text := fmt.Sprintf("%s: %s", f.label, v)
		out = append(out, diagram.Annotation{
			ID:         annotationID(diagram.AnnotationProcessData, r.ID, f.key),
			Type:       diagram.AnnotationProcessData,
			Box:        textBox(diagram.Point{X: mid.X + 10, Y: mid.Y - 60 + float64(k)*20}, text),
			Text:       text,
			Priority:   PriorityProcessData,
			Associated: r.ID,
		})
	}
	return out
}

// =============================================================================
// Equipment
// =============================================================================

// EquipmentNote puts the node's "notes" attribute, or its description,
// centred just below the node.
func EquipmentNote(n diagram.EquipmentNode) (diagram.Annotation, bool) {
	text := n.AttrString("notes")
	if text == "" {
		text = n.Description
	}
	if text == "" {
		return diagram.Annotation{}, false
	}
	b := n.Bounds()
	box := textBox(diagram.Point{}, text)
	box.X = n.Position.X - box.Width/2
	box.Y = b.Bottom() + 10
	return diagram.Annotation{
		ID:         annotationID(diagram.AnnotationNote, n.Tag, "note"),
		Type:       diagram.AnnotationNote,
		Box:        box,
		Text:       text,
		Priority:   PriorityEquipment,
		Associated: n.Tag,
	}, true
}

// flammableKeywords mark fluids that need a fire-hazard warning.
var flammableKeywords = []string{
	"hydrogen", "methane", "ethane", "propane", "butane", "pentane", "hexane",
	"ethylene", "propylene", "lpg", "lng", "natural gas", "gasoline", "naphtha",
	"kerosene", "diesel", "fuel", "crude", "hydrocarbon", "methanol", "ethanol",
	"acetone", "benzene", "toluene", "xylene",
}

// pressureVessels are the categories graded by design pressure.
var pressureVessels = map[diagram.Category]bool{
	diagram.CategoryVessel:    true,
	diagram.CategoryColumn:    true,
	diagram.CategorySeparator: true,
	diagram.CategoryReactor:   true,
}

// SafetyLevelFor grades a node. A pressure vessel with design pressure above
// 40 bar is CRITICAL and above 10 bar HIGH. Any node handling a flammable
// fluid is at least HIGH.
func SafetyLevelFor(n diagram.EquipmentNode) (diagram.SafetyLevel, string) {
	var level diagram.SafetyLevel
	var reasons []string
	if p, ok := n.AttrFloat("design_pressure"); ok && p > 10 && pressureVessels[n.Category] {
		level = diagram.SafetyHigh
		if p > 40 {
			level = diagram.SafetyCritical
		}
		reasons = append(reasons, fmt.Sprintf("design pressure %g bar", p))
	}
	fluid := strings.ToLower(n.AttrString("fluid"))
	for _, kw := range flammableKeywords {
		if fluid != "" && strings.Contains(fluid, kw) {
			if level == "" {
				level = diagram.SafetyHigh
			}
			reasons = append(reasons, "flammable "+fluid)
			break
		}
	}
	return level, strings.Join(reasons, ", ")
}

// SafetyWarning builds a warning above the node when [SafetyLevelFor]
// grades it.
func SafetyWarning(n diagram.EquipmentNode) (diagram.Annotation, bool) {
	level, reason := SafetyLevelFor(n)
	if level == "" {
		return diagram.Annotation{}, false
	}
	text := fmt.Sprintf("%s: %s", level, reason)
	box := textBox(diagram.Point{}, text)
	box.X = n.Position.X - box.Width/2
	box.Y = n.Bounds().Y - 10 - box.Height
	return diagram.Annotation{
		ID:          annotationID(diagram.AnnotationSafety, n.Tag, "safety"),
		Type:        diagram.AnnotationSafety,
		Box:         box,
		Text:        text,
		Priority:    PrioritySafety,
		Associated:  n.Tag,
		SafetyLevel: level,
	}, true
}

// =============================================================================
// Panels
// =============================================================================

// DesignBasis is the fixed drawing-information panel in the top-left corner.
func DesignBasis(m diagram.Metadata) diagram.Annotation {
	items := []string{"DESIGN BASIS"}
	if m.DrawingNumber != "" {
		items = append(items, "Drawing: "+m.DrawingNumber)
	}
	if m.Title != "" {
		items = append(items, "Title: "+m.Title)
	}
	box := panelBox(items)
	box.X, box.Y = PanelInset, PanelInset
	return panel(diagram.AnnotationDesignBasis, box, items)
}

// RevisionBlock is the fixed revision panel in the bottom-right corner.
func RevisionBlock(m diagram.Metadata, c diagram.Canvas) diagram.Annotation {
	rev := m.Revision
	if rev == "" {
		rev = "0"
	}
	items := []string{"REV " + rev}
	if m.DrawingNumber != "" {
		items = append(items, m.DrawingNumber)
	}
	box := panelBox(items)
	box.X = c.Width - PanelInset - box.Width
	box.Y = c.Height - PanelInset - box.Height
	return panel(diagram.AnnotationRevision, box, items)
}

// Legend is the fixed line-style key in the bottom-left corner. It grows by
// one line per item up to MaxPanelHeight.
func Legend(items []string, c diagram.Canvas) diagram.Annotation {
	items = append([]string{"LEGEND"}, items...)
	box := panelBox(items)
	box.X = PanelInset
	box.Y = c.Height - PanelInset - box.Height
	return panel(diagram.AnnotationLegend, box, items)
}

// NotesBlock is the fixed general-notes panel in the top-right corner.
func NotesBlock(notes []string, c diagram.Canvas) diagram.Annotation {
	items := []string{"NOTES"}
	for i, n := range notes {
		items = append(items, fmt.Sprintf("%d. %s", i+1, n))
	}
	box := panelBox(items)
	box.X = c.Width - PanelInset - box.Width
	box.Y = PanelInset
	return panel(diagram.AnnotationNote, box, items)
}

func panel(t diagram.AnnotationType, box diagram.Rect, items []string) diagram.Annotation {
	return diagram.Annotation{
		ID:    annotationID(t, items[0], "panel"),
		Type:  t,
		Box:   box,
		Text:  strings.Join(items, "\n"),
		Fixed: true,
		Items: items,
	}
}

// legendItems lists each line style in use once, in order of first use.
func legendItems(groups ...[]diagram.Route) []string {
	seen := make(map[string]bool)
	var items []string
	for _, routes := range groups {
		for _, r := range routes {
			item := fmt.Sprintf("%s: %s", r.LineStyle, r.Category)
			if !seen[item] {
				seen[item] = true
				items = append(items, item)
			}
		}
	}
	return items
}

// =============================================================================
// Geometry helpers
// =============================================================================

// textBox sizes a single-line label anchored at its top-left corner.
func textBox(at diagram.Point, text string) diagram.Rect {
	return diagram.Rect{X: at.X, Y: at.Y, Width: float64(utf8.RuneCountInString(text))*CharWidth + 10, Height: LineHeight}
}

// panelBox sizes a multi-line panel: 30 units of padding plus one line per
// item, capped at MaxPanelHeight.
func panelBox(items []string) diagram.Rect {
	longest := 0
	for _, it := range items {
		longest = max(longest, utf8.RuneCountInString(it))
	}
	return diagram.Rect{
		Width:  float64(longest)*CharWidth + 20,
		Height: min(30+LineHeight*float64(len(items)), MaxPanelHeight),
	}
}

func annotationID(t diagram.AnnotationType, subject, part string) string {
	return uuid.NewSHA1(annotationNamespace, []byte(string(t)+"|"+subject+"|"+part)).String()
}
