package annotation

import (
	"slices"
	"testing"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

var testCanvas = diagram.Canvas{Width: 1000, Height: 600, Margin: 100}

func vessel(attrs map[string]any) diagram.EquipmentNode {
	return diagram.EquipmentNode{
		Tag:        "V-101",
		Category:   diagram.CategoryVessel,
		Position:   diagram.Point{X: 500, Y: 300},
		Size:       diagram.Size{Width: 80, Height: 120},
		Attributes: attrs,
	}
}

func TestGenerateCriticalPressure(t *testing.T) {
	out := Generate(Input{Equipment: []diagram.EquipmentNode{vessel(map[string]any{"design_pressure": 45})}},
		Options{Canvas: testCanvas, Safety: true})
	if len(out) != 1 {
		t.Fatalf("got %d annotations, want 1", len(out))
	}
	a := out[0]
	if a.Type != diagram.AnnotationSafety || a.SafetyLevel != diagram.SafetyCritical {
		t.Errorf("annotation = %+v", a)
	}
	if a.Associated != "V-101" {
		t.Errorf("Associated = %q", a.Associated)
	}
	if a.Box.Bottom() > 240 {
		t.Errorf("safety box %+v not above the vessel", a.Box)
	}
}

func TestSafetyLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]any
		want  diagram.SafetyLevel
	}{
		{"low pressure", map[string]any{"design_pressure": 5}, ""},
		{"boundary", map[string]any{"design_pressure": 10}, ""},
		{"high pressure", map[string]any{"design_pressure": 15.5}, diagram.SafetyHigh},
		{"critical", map[string]any{"design_pressure": 41}, diagram.SafetyCritical},
		{"pressure string", map[string]any{"design_pressure": "12 barg"}, diagram.SafetyHigh},
		{"flammable", map[string]any{"fluid": "Propane"}, diagram.SafetyHigh},
		{"water", map[string]any{"fluid": "cooling water"}, ""},
		{"both", map[string]any{"design_pressure": 45, "fluid": "hydrogen"}, diagram.SafetyCritical},
		{"nothing", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := SafetyLevelFor(vessel(tt.attrs)); got != tt.want {
				t.Errorf("SafetyLevelFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafetyLevelForCategory(t *testing.T) {
	tests := []struct {
		cat   diagram.Category
		attrs map[string]any
		want  diagram.SafetyLevel
	}{
		{diagram.CategoryVessel, map[string]any{"design_pressure": 45}, diagram.SafetyCritical},
		{diagram.CategoryColumn, map[string]any{"design_pressure": 45}, diagram.SafetyCritical},
		{diagram.CategorySeparator, map[string]any{"design_pressure": 12}, diagram.SafetyHigh},
		{diagram.CategoryReactor, map[string]any{"design_pressure": 12}, diagram.SafetyHigh},
		{diagram.CategoryPump, map[string]any{"design_pressure": 45}, ""},
		{diagram.CategoryCompressor, map[string]any{"design_pressure": 45}, ""},
		{diagram.CategoryPump, map[string]any{"design_pressure": 45, "fluid": "naphtha"}, diagram.SafetyHigh},
	}
	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			n := vessel(tt.attrs)
			n.Category = tt.cat
			if got, _ := SafetyLevelFor(n); got != tt.want {
				t.Errorf("SafetyLevelFor(%s) = %q, want %q", tt.cat, got, tt.want)
			}
		})
	}
}

func TestTextBoxCountsRunes(t *testing.T) {
	ascii := textBox(diagram.Point{}, "T: 120 C")
	degree := textBox(diagram.Point{}, "T: 120°C")
	if ascii.Width != degree.Width {
		t.Errorf("width %v for %q, want %v like its ASCII twin", degree.Width, "T: 120°C", ascii.Width)
	}
	if want := 8*CharWidth + 10; degree.Width != want {
		t.Errorf("width = %v, want %v", degree.Width, want)
	}

	panel := panelBox([]string{"Δp < 0.5 bar", "short"})
	if want := 12*CharWidth + 20; panel.Width != want {
		t.Errorf("panel width = %v, want %v", panel.Width, want)
	}
}

func TestProcessData(t *testing.T) {
	r := diagram.Route{
		ID:         "r1",
		From:       "P-101",
		Waypoints:  []diagram.Point{{X: 100, Y: 300}, {X: 300, Y: 300}, {X: 300, Y: 200}, {X: 500, Y: 200}},
		Attributes: map[string]any{"flow": "120 m3/h", "pressure": "6 bar"},
	}
	src := diagram.EquipmentNode{Tag: "P-101", Attributes: map[string]any{"temperature": "80 C", "pressure": "ignored"}}

	out := ProcessData(r, src)
	if len(out) != 3 {
		t.Fatalf("got %d annotations, want 3", len(out))
	}
	wantText := []string{"F: 120 m3/h", "T: 80 C", "P: 6 bar"}
	for k, a := range out {
		if a.Text != wantText[k] {
			t.Errorf("line %d = %q, want %q", k, a.Text, wantText[k])
		}
		want := diagram.Point{X: 310, Y: 140 + float64(k)*20}
		if a.Box.X != want.X || a.Box.Y != want.Y {
			t.Errorf("line %d at (%v, %v), want %+v", k, a.Box.X, a.Box.Y, want)
		}
	}

	if got := ProcessData(diagram.Route{ID: "r2", Waypoints: r.Waypoints}, diagram.EquipmentNode{}); len(got) != 0 {
		t.Errorf("route without data produced %d annotations", len(got))
	}
}

func TestGeneratePanels(t *testing.T) {
	in := Input{
		Metadata: diagram.Metadata{DrawingNumber: "PID-001", Title: "Feed section", Revision: "B", Notes: []string{"All dimensions in mm"}},
		Routes: []diagram.Route{
			{LineStyle: diagram.LineSolid, Category: diagram.PipeProcess},
			{LineStyle: diagram.LineSolid, Category: diagram.PipeProcess},
			{LineStyle: diagram.LineDashed, Category: diagram.PipeUtilitySteam},
		},
	}
	out := Generate(in, AllCategories(testCanvas))
	byType := map[diagram.AnnotationType][]diagram.Annotation{}
	for _, a := range out {
		byType[a.Type] = append(byType[a.Type], a)
	}

	basis := byType[diagram.AnnotationDesignBasis]
	if len(basis) != 1 || basis[0].Box.X != PanelInset || basis[0].Box.Y != PanelInset || !basis[0].Fixed {
		t.Errorf("design basis = %+v", basis)
	}
	rev := byType[diagram.AnnotationRevision]
	if len(rev) != 1 || rev[0].Box.Right() != testCanvas.Width-PanelInset || rev[0].Box.Bottom() != testCanvas.Height-PanelInset {
		t.Errorf("revision block = %+v", rev)
	}
	if rev[0].Items[0] != "REV B" {
		t.Errorf("revision items = %v", rev[0].Items)
	}
	legend := byType[diagram.AnnotationLegend]
	if len(legend) != 1 || len(legend[0].Items) != 3 {
		t.Errorf("legend = %+v", legend)
	}
	if notes := byType[diagram.AnnotationNote]; len(notes) != 1 || notes[0].Items[1] != "1. All dimensions in mm" {
		t.Errorf("notes = %+v", notes)
	}
}

func TestLegendHeightCapped(t *testing.T) {
	small := Legend([]string{"a", "b"}, testCanvas)
	if small.Box.Height != 30+3*LineHeight {
		t.Errorf("small legend height = %v", small.Box.Height)
	}
	items := make([]string, 40)
	for i := range items {
		items[i] = "item"
	}
	if h := Legend(items, testCanvas).Box.Height; h != MaxPanelHeight {
		t.Errorf("large legend height = %v, want %v", h, MaxPanelHeight)
	}
}

func TestPlaceSmallSetDoesNotOverlap(t *testing.T) {
	var in []diagram.Annotation
	for i := 0; i < 5; i++ {
		in = append(in, diagram.Annotation{
			ID:   string(rune('a' + i)),
			Type: diagram.AnnotationNote,
			Box:  diagram.Rect{X: 500, Y: 300, Width: 40, Height: 18},
		})
	}
	placed, diags := Place(in)
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v", diags)
	}
	if n := Overlaps(placed); n != 0 {
		t.Errorf("%d overlapping pairs", n)
	}
	if placed[1].Box.X != 550 || placed[2].Box.X != 450 {
		t.Errorf("candidate order not respected: %+v %+v", placed[1].Box, placed[2].Box)
	}
	if in[1].Box.X != 500 {
		t.Error("Place modified its input")
	}
}

func TestPlacePriorityAndFixed(t *testing.T) {
	box := diagram.Rect{X: 100, Y: 100, Width: 40, Height: 18}
	in := []diagram.Annotation{
		{ID: "data", Box: box, Priority: PriorityProcessData},
		{ID: "panel", Box: box, Fixed: true, Priority: PriorityProcessData},
		{ID: "safety", Box: box, Priority: PrioritySafety},
		{ID: "note", Box: box, Priority: PriorityEquipment},
	}
	placed, _ := Place(in)
	var ids []string
	for _, a := range placed {
		ids = append(ids, a.ID)
	}
	if want := []string{"safety", "note", "data", "panel"}; !slices.Equal(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
	if placed[0].Box != box {
		t.Errorf("first annotation moved to %+v", placed[0].Box)
	}
	if placed[3].Box != box {
		t.Errorf("fixed annotation moved to %+v", placed[3].Box)
	}
}

func TestPlaceResidualOverlap(t *testing.T) {
	var in []diagram.Annotation
	for i := 0; i < 11; i++ {
		in = append(in, diagram.Annotation{ID: string(rune('a' + i)), Box: diagram.Rect{X: 500, Y: 300, Width: 200, Height: 100}})
	}
	placed, diags := Place(in)
	if len(placed) != len(in) {
		t.Fatalf("placed %d of %d", len(placed), len(in))
	}
	if diagram.CountKind(diags, diagram.KindResidualOverlap) == 0 {
		t.Fatal("expected residual-overlap diagnostics")
	}
	last := placed[len(placed)-1]
	if last.Box.X != 500+ResidualShift || last.Box.Y != 300 {
		t.Errorf("fallback box = %+v", last.Box)
	}
}

func TestCalloutLeaderFollowsBox(t *testing.T) {
	target := diagram.Point{X: 400, Y: 110}
	blocker := diagram.Annotation{ID: "x", Box: diagram.Rect{X: 100, Y: 100, Width: 60, Height: 18}}
	c := Callout("c", "check", diagram.Point{X: 100, Y: 100}, target)
	if c.Path[0].X != c.Box.Right() {
		t.Errorf("leader starts at %+v, box %+v", c.Path[0], c.Box)
	}

	placed, _ := Place([]diagram.Annotation{blocker, c})
	got := placed[1]
	if got.Path[1] != target {
		t.Errorf("leader target moved to %+v", got.Path[1])
	}
	if got.Path[0].X != got.Box.Right() {
		t.Errorf("leader start %+v detached from box %+v", got.Path[0], got.Box)
	}
}

func TestDimension(t *testing.T) {
	d := Dimension("d", diagram.Point{X: 100, Y: 500}, diagram.Point{X: 600, Y: 500}, 20)
	if d.Text != "500" {
		t.Errorf("Text = %q", d.Text)
	}
	if d.Path[1].Y != 480 || d.Path[2].Y != 480 {
		t.Errorf("dimension line = %v", d.Path)
	}
	if !d.Fixed {
		t.Error("dimension should be fixed")
	}
}

func TestRevisionCloudReproducible(t *testing.T) {
	center := diagram.Point{X: 300, Y: 300}
	a := RevisionCloud("c", "B", center, 60, NewRand(42))
	b := RevisionCloud("c", "B", center, 60, NewRand(42))
	c := RevisionCloud("c", "B", center, 60, NewRand(7))

	if !slices.Equal(a.Path, b.Path) {
		t.Error("same seed produced different clouds")
	}
	if slices.Equal(a.Path, c.Path) {
		t.Error("different seeds produced identical clouds")
	}
	if a.Path[0] != a.Path[len(a.Path)-1] {
		t.Error("cloud outline is not closed")
	}
	if len(a.Path) < 9 {
		t.Errorf("cloud has %d points", len(a.Path))
	}
	for _, p := range a.Path {
		if d := p.Distance(center); d < 56 || d > 64 {
			t.Errorf("vertex %+v at distance %v", p, d)
		}
	}
}

func TestRevisionClouds(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		{Tag: "P-101", Position: diagram.Point{X: 100, Y: 100}, Size: diagram.Size{Width: 60, Height: 60}},
		{Tag: "V-101", Position: diagram.Point{X: 400, Y: 100}, Size: diagram.Size{Width: 80, Height: 120},
			Attributes: map[string]any{"revised": true}},
		{Tag: "E-101", Position: diagram.Point{X: 700, Y: 100}, Size: diagram.Size{Width: 100, Height: 50},
			Attributes: map[string]any{"revised": "true"}},
	}
	clouds := RevisionClouds(nodes, "C", NewRand(1))
	if len(clouds) != 2 {
		t.Fatalf("got %d clouds, want 2", len(clouds))
	}
	for _, c := range clouds {
		if c.Type != diagram.AnnotationRevision || c.Text != "C" || !c.Fixed {
			t.Errorf("cloud %+v", c)
		}
	}
	if !clouds[0].Box.Contains(nodes[1].Position) {
		t.Error("cloud does not enclose V-101")
	}
}

func TestResolveMarkups(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		{Tag: "P-101", Position: diagram.Point{X: 100, Y: 300}, Size: diagram.Size{Width: 60, Height: 60}},
		{Tag: "V-101", Position: diagram.Point{X: 500, Y: 300}, Size: diagram.Size{Width: 80, Height: 120}},
	}
	markups := []diagram.Markup{
		{Type: diagram.AnnotationCallout, Text: "check seal", Target: "P-101"},
		{Type: diagram.AnnotationDimension, From: "P-101", To: "V-101"},
		{Type: diagram.AnnotationNote, Text: "tie-in", Target: "V-101"},
		{Type: diagram.AnnotationCallout, Text: "ghost", Target: "X-999"},
		{Type: diagram.AnnotationDimension, From: "P-101", To: "E-404"},
	}

	got, diags := Resolve(markups, nodes)
	if len(got) != 3 {
		t.Fatalf("resolved %d markups, want 3", len(got))
	}
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(diags))
	}
	for _, d := range diags {
		if d.Kind != diagram.KindMissingReference {
			t.Errorf("diagnostic kind = %s", d.Kind)
		}
	}
	if diags[0].Subject != "X-999" || diags[1].Subject != "E-404" {
		t.Errorf("subjects = %q, %q", diags[0].Subject, diags[1].Subject)
	}

	callout := got[0]
	if callout.Type != diagram.AnnotationCallout || callout.Path[1] != nodes[0].Position {
		t.Errorf("callout = %+v", callout)
	}
	dim := got[1]
	if dim.Text != "400" || !dim.Fixed {
		t.Errorf("dimension = %+v", dim)
	}
	if got[2].Associated != "V-101" {
		t.Errorf("note associated = %q", got[2].Associated)
	}
}
