package instrument

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

var testCanvas = diagram.Canvas{Width: 1000, Height: 600, Margin: 100}

func testNodes() []diagram.EquipmentNode {
	return []diagram.EquipmentNode{
		{Tag: "P-101", Category: diagram.CategoryPump, Position: diagram.Point{X: 200, Y: 300}},
		{Tag: "V-101", Category: diagram.CategoryVessel, Position: diagram.Point{X: 500, Y: 300}},
		{Tag: "E-101", Category: diagram.CategoryHeatExchanger, Position: diagram.Point{X: 800, Y: 300}},
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag      string
		variable string
		funcs    []string
		loop     string
		suffix   string
		valid    bool
	}{
		{"FT-101", "F", []string{"T"}, "101", "", true},
		{"FIC-101A", "F", []string{"I", "C"}, "101", "A", true},
		{"lt 205", "L", []string{"T"}, "205", "", true},
		{"PI102", "P", []string{"I"}, "102", "", true},
		{"F-7", "F", []string{}, "7", "", true},
		{"not a tag", "X", []string{"I"}, "000", "", false},
		{"", "X", []string{"I"}, "000", "", false},
		{"FT-10-1", "X", []string{"I"}, "000", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := ParseTag(tt.tag)
			if got.MeasuredVariable != tt.variable || got.LoopNumber != tt.loop ||
				got.Suffix != tt.suffix || got.Valid != tt.valid || !slices.Equal(got.Functions, tt.funcs) {
				t.Errorf("ParseTag(%q) = %+v", tt.tag, got)
			}
		})
	}
}

func TestMounting(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		funcs    []string
		local    bool
		want     diagram.MountingLocation
	}{
		{"transmitter", "", []string{"T"}, false, diagram.MountField},
		{"element", "", []string{"E"}, false, diagram.MountField},
		{"controller", "", []string{"I", "C"}, false, diagram.MountDCS},
		{"recorder", "", []string{"R"}, false, diagram.MountDCS},
		{"remote indicator", "", []string{"I"}, false, diagram.MountPanel},
		{"local indicator", "", []string{"I"}, true, diagram.MountField},
		{"valve", "", []string{"V"}, false, diagram.MountField},
		{"declared wins", "Shared", []string{"T"}, false, diagram.MountShared},
		{"bogus declaration", "roof", []string{"C"}, false, diagram.MountDCS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mounting(tt.declared, tt.funcs, tt.local); got != tt.want {
				t.Errorf("Mounting = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignal(t *testing.T) {
	tests := map[string]diagram.SignalType{
		"":                    diagram.SignalElectric,
		"4-20mA":              diagram.SignalElectric,
		"HART":                diagram.SignalElectric,
		"Foundation Fieldbus": diagram.SignalElectric,
		"pneumatic 3-15 psi":  diagram.SignalPneumatic,
		"WirelessHART":        diagram.SignalWireless,
		"hydraulic":           diagram.SignalHydraulic,
		"capillary tube":      diagram.SignalCapillary,
	}
	for declared, want := range tests {
		if got := Signal(declared); got != want {
			t.Errorf("Signal(%q) = %q, want %q", declared, got, want)
		}
	}
}

func TestInfer(t *testing.T) {
	nodes := testNodes()
	hint := diagram.Point{X: 790, Y: 310}
	tests := []struct {
		name string
		inst diagram.Instrument
		want string
		rule Inference
	}{
		{"reference", diagram.Instrument{Tag: "PT-1", Equipment: "E-101"}, "E-101", ByReference},
		{"missing reference", diagram.Instrument{Tag: "PT-1", Equipment: "X-9"}, "", Unconnected},
		{"tag in description", diagram.Instrument{Tag: "TT-1", Description: "outlet of v-101"}, "V-101", ByDescription},
		{"keyword", diagram.Instrument{Tag: "TT-1", Description: "feed pump casing"}, "P-101", ByKeyword},
		{"variable", diagram.Instrument{Tag: "LT-1"}, "V-101", ByVariable},
		{"hint", diagram.Instrument{Tag: "AT-1", Hint: &hint}, "E-101", ByDistance},
		{"centroid", diagram.Instrument{Tag: "AT-1"}, "V-101", ByDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, rule := Infer(tt.inst, ParseTag(tt.inst.Tag).MeasuredVariable, nodes)
			if tag != tt.want || rule != tt.rule {
				t.Errorf("Infer = (%q, %q), want (%q, %q)", tag, rule, tt.want, tt.rule)
			}
		})
	}

	if tag, rule := Infer(diagram.Instrument{Tag: "FT-1"}, "F", nil); tag != "" || rule != Unconnected {
		t.Errorf("Infer with no equipment = (%q, %q)", tag, rule)
	}
}

func TestInferDescriptionTagBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		desc  string
		want  string
		rule  Inference
	}{
		{"longer tag listed second", []string{"P-1", "P-101"}, "suction pressure at P-101", "P-101", ByDescription},
		{"longer tag listed first", []string{"P-101", "P-1"}, "suction pressure at P-101", "P-101", ByDescription},
		{"short tag alone", []string{"P-101", "P-1"}, "discharge of p-1, upstream", "P-1", ByDescription},
		{"suffix letter", []string{"P-1", "P-101"}, "spare P-101A", "", ByDistance},
		{"start of text", []string{"P-1", "V-2"}, "v-2 level", "V-2", ByDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nodes []diagram.EquipmentNode
			for i, tag := range tt.nodes {
				nodes = append(nodes, diagram.EquipmentNode{
					Tag:      tag,
					Category: diagram.CategoryPump,
					Position: diagram.Point{X: float64(100 + 200*i), Y: 300},
				})
			}
			tag, rule := Infer(diagram.Instrument{Tag: "PT-1", Description: tt.desc}, "P", nodes)
			if rule != tt.rule {
				t.Fatalf("Infer rule = %q, want %q", rule, tt.rule)
			}
			if tt.want != "" && tag != tt.want {
				t.Errorf("Infer = %q, want %q", tag, tt.want)
			}
		})
	}
}

func TestProcessFlowTransmitter(t *testing.T) {
	res, err := Process(testNodes(), []diagram.Instrument{{Tag: "FT-101"}}, Options{Canvas: testCanvas})
	if err != nil {
		t.Fatal(err)
	}
	inst := res.Instruments[0]
	if inst.MeasuredVariable != "F" || !slices.Equal(inst.Functions, []string{"T"}) || inst.LoopNumber != "101" {
		t.Errorf("parsed = %s %v %s", inst.MeasuredVariable, inst.Functions, inst.LoopNumber)
	}
	if inst.Mounting != diagram.MountField {
		t.Errorf("Mounting = %q, want field", inst.Mounting)
	}
	if inst.Signal != diagram.SignalElectric {
		t.Errorf("Signal = %q, want electric", inst.Signal)
	}
	if inst.ConnectionPoint != "P-101" {
		t.Errorf("ConnectionPoint = %q, want P-101", inst.ConnectionPoint)
	}

	// First field instrument sits at 22.5 degrees, radius 80.
	rad := 22.5 * math.Pi / 180
	want := diagram.Point{X: 200 + 80*math.Cos(rad), Y: 300 + 80*math.Sin(rad)}
	if math.Abs(inst.Position.X-want.X) > 1e-9 || math.Abs(inst.Position.Y-want.Y) > 1e-9 {
		t.Errorf("Position = %+v, want %+v", inst.Position, want)
	}
	if len(res.SignalRoutes) != 1 || res.SignalRoutes[0].LineStyle != diagram.LineDashed {
		t.Errorf("signal routes = %+v", res.SignalRoutes)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v", res.Diagnostics)
	}
}

func TestProcessDiagnostics(t *testing.T) {
	res, err := Process(testNodes(), []diagram.Instrument{
		{Tag: "??"},
		{Tag: "PT-201", Equipment: "C-999"},
	}, Options{Canvas: testCanvas})
	if err != nil {
		t.Fatal(err)
	}
	if got := diagram.CountKind(res.Diagnostics, diagram.KindMalformedTag); got != 1 {
		t.Errorf("malformed-tag diagnostics = %d", got)
	}
	if got := diagram.CountKind(res.Diagnostics, diagram.KindMissingReference); got != 1 {
		t.Errorf("missing-reference diagnostics = %d", got)
	}
	bad := res.Instruments[0]
	if bad.Valid || bad.MeasuredVariable != "X" || bad.LoopNumber != "000" {
		t.Errorf("malformed instrument = %+v", bad)
	}
	if res.Instruments[1].ConnectionPoint != "" {
		t.Errorf("instrument with missing reference connected to %q", res.Instruments[1].ConnectionPoint)
	}
	if len(res.SignalRoutes) != 1 {
		t.Errorf("got %d signal routes, want 1", len(res.SignalRoutes))
	}
	if len(res.Loops) != 1 || res.Loops[0].Number != "201" {
		t.Errorf("loops = %+v", res.Loops)
	}
}

func TestProcessInvalidStrategy(t *testing.T) {
	_, err := Process(nil, nil, Options{Canvas: testCanvas, Strategy: "by-colour"})
	if !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("error = %v", err)
	}
}

func TestAutoRows(t *testing.T) {
	res, err := Process(nil, []diagram.Instrument{
		{Tag: "PI-1"},
		{Tag: "FIC-2"},
		{Tag: "PI-3"},
		{Tag: "TT-4"},
		{Tag: "TT-5"},
	}, Options{Canvas: testCanvas})
	if err != nil {
		t.Fatal(err)
	}
	want := []diagram.Point{
		{X: 100, Y: 550}, // panel row
		{X: 100, Y: 50},  // dcs row
		{X: 160, Y: 550}, // panel row
		{X: 100, Y: 500}, // unconnected field grid
		{X: 160, Y: 500},
	}
	for i, w := range want {
		if got := res.Instruments[i].Position; got != w {
			t.Errorf("%s at %+v, want %+v", res.Instruments[i].Tag, got, w)
		}
	}
	if len(res.SignalRoutes) != 0 {
		t.Errorf("unconnected instruments produced %d signal routes", len(res.SignalRoutes))
	}
}

func TestGroupedLayouts(t *testing.T) {
	insts := []diagram.Instrument{
		{Tag: "FT-101", Equipment: "P-101"},
		{Tag: "LT-102", Equipment: "V-101"},
		{Tag: "FIC-101", Equipment: "P-101"},
		{Tag: "LIC-102", Equipment: "V-101"},
	}
	tests := []struct {
		strategy string
		want     []diagram.Point
	}{
		{"by-equipment", []diagram.Point{{X: 100, Y: 100}, {X: 250, Y: 100}, {X: 100, Y: 160}, {X: 250, Y: 160}}},
		{"by-loop", []diagram.Point{{X: 100, Y: 100}, {X: 250, Y: 100}, {X: 100, Y: 160}, {X: 250, Y: 160}}},
		{"by-function", []diagram.Point{{X: 100, Y: 100}, {X: 100, Y: 160}, {X: 250, Y: 100}, {X: 250, Y: 160}}},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			res, err := Process(testNodes(), insts, Options{Canvas: testCanvas, Strategy: tt.strategy})
			if err != nil {
				t.Fatal(err)
			}
			for i, w := range tt.want {
				if got := res.Instruments[i].Position; got != w {
					t.Errorf("%s at %+v, want %+v", insts[i].Tag, got, w)
				}
			}
		})
	}
}

func TestGroupOverflowWraps(t *testing.T) {
	var insts []diagram.Instrument
	for i := 0; i < 9; i++ {
		insts = append(insts, diagram.Instrument{Tag: "TT-100", Equipment: "E-101"})
	}
	res, err := Process(testNodes(), insts, Options{Canvas: testCanvas, Strategy: "by-loop"})
	if err != nil {
		t.Fatal(err)
	}
	// 400 units of drawable height fit 7 rows.
	if got := res.Instruments[7].Position; got != (diagram.Point{X: 250, Y: 100}) {
		t.Errorf("eighth instrument at %+v", got)
	}
}

func TestGroupLoops(t *testing.T) {
	insts := []diagram.Instrument{
		{Tag: "FT-101", Valid: true, LoopNumber: "101", Functions: []string{"T"}},
		{Tag: "LT-102", Valid: true, LoopNumber: "102", Functions: []string{"T"}},
		{Tag: "FIC-101", Valid: true, LoopNumber: "101", Functions: []string{"I", "C"}},
		{Tag: "FV-101", Valid: true, LoopNumber: "101", Functions: []string{"V"}},
		{Tag: "junk", LoopNumber: "000", Functions: []string{"I"}},
	}
	loops := GroupLoops(insts)
	if len(loops) != 2 {
		t.Fatalf("got %d loops", len(loops))
	}
	l := loops[0]
	if l.Number != "101" || !slices.Equal(l.Instruments, []string{"FT-101", "FIC-101", "FV-101"}) {
		t.Errorf("loop 101 = %+v", l)
	}
	if !l.HasController || !l.HasTransmitter || !l.HasValve || !l.HasIndicator {
		t.Errorf("loop 101 flags = %+v", l)
	}
	if loops[1].HasController || loops[1].HasValve {
		t.Errorf("loop 102 flags = %+v", loops[1])
	}
}

func TestSignalRoutes(t *testing.T) {
	nodes := map[string]diagram.EquipmentNode{"V-1": {Tag: "V-1", Position: diagram.Point{X: 100, Y: 100}}}
	insts := []diagram.Instrument{
		{Tag: "LT-1", ConnectionPoint: "V-1", Position: diagram.Point{X: 150, Y: 300}, Signal: diagram.SignalElectric},
		{Tag: "LV-1", ConnectionPoint: "V-1", Position: diagram.Point{X: 300, Y: 300}, Signal: diagram.SignalPneumatic},
		{Tag: "LI-1", Position: diagram.Point{X: 300, Y: 300}},
	}
	routes := SignalRoutes(insts, nodes)
	if len(routes) != 2 {
		t.Fatalf("got %d routes", len(routes))
	}
	if n := len(routes[0].Waypoints); n != 2 {
		t.Errorf("short run has %d waypoints", n)
	}
	wp := routes[1].Waypoints
	if len(wp) != 3 || wp[1] != (diagram.Point{X: 100, Y: 300}) {
		t.Errorf("L-shaped run = %v", wp)
	}
	if routes[1].LineStyle != diagram.LinePneumatic {
		t.Errorf("LineStyle = %q", routes[1].LineStyle)
	}
}

func TestGenerate(t *testing.T) {
	nodes := append(testNodes(), diagram.EquipmentNode{Tag: "X-1", Category: diagram.CategoryOther})
	insts := Generate(nodes)
	if len(insts) != 9 {
		t.Fatalf("got %d instruments, want 9", len(insts))
	}
	if insts[0].Tag != "FT-101" || insts[3].Tag != "LT-102" || insts[6].Tag != "TT-103" {
		t.Errorf("tags = %s %s %s", insts[0].Tag, insts[3].Tag, insts[6].Tag)
	}

	res, err := Process(nodes, nil, Options{Canvas: testCanvas, AutoGenerate: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Loops) != 3 {
		t.Errorf("got %d loops, want 3", len(res.Loops))
	}
	for _, inst := range res.Instruments {
		if !inst.Valid {
			t.Errorf("generated tag %s is invalid", inst.Tag)
		}
	}
}
