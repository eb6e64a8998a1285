package placement

import (
	"testing"

	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

var testCanvas = diagram.Canvas{Width: 1000, Height: 600, Margin: 100}

func node(tag string, cat diagram.Category) diagram.EquipmentNode {
	return diagram.EquipmentNode{Tag: tag, Category: cat}
}

func TestPlaceProcessSequence(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		node("P-101", diagram.CategoryPump),
		node("V-101", diagram.CategoryVessel),
	}
	res, err := Place(nodes, Options{
		Canvas:        testCanvas,
		Strategy:      "process-sequence",
		FlowDirection: "left-to-right",
		AutoOptimize:  true,
	})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	want := map[string]diagram.Point{
		"P-101": {X: 100, Y: 300},
		"V-101": {X: 900, Y: 300},
	}
	for _, n := range res.Nodes {
		if n.Position != want[n.Tag] {
			t.Errorf("%s at %+v, want %+v", n.Tag, n.Position, want[n.Tag])
		}
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if nodes[0].Position != (diagram.Point{}) {
		t.Error("Place modified its input")
	}
}

func TestPlaceSingleNodeCentred(t *testing.T) {
	res, err := Place([]diagram.EquipmentNode{node("V-1", diagram.CategoryVessel)}, Options{
		Canvas:        testCanvas,
		FlowDirection: "left-to-right",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Nodes[0].Position; got != (diagram.Point{X: 500, Y: 300}) {
		t.Errorf("single node at %+v, want canvas centre", got)
	}
}

func TestPlaceEmpty(t *testing.T) {
	res, err := Place(nil, Options{Canvas: testCanvas, AutoOptimize: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Nodes) != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestPlaceStrategies(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		node("P-101", diagram.CategoryPump),
		node("E-101", diagram.CategoryHeatExchanger),
		node("C-101", diagram.CategoryColumn),
		node("P-102", diagram.CategoryPump),
		node("V-101", diagram.CategoryVessel),
	}
	for _, name := range Strategies() {
		t.Run(name, func(t *testing.T) {
			res, err := Place(nodes, Options{
				Canvas:        testCanvas,
				Strategy:      name,
				FlowDirection: "left-to-right",
				AutoOptimize:  true,
			})
			if err != nil {
				t.Fatalf("Place: %v", err)
			}
			if res.Strategy != name {
				t.Errorf("Strategy = %q", res.Strategy)
			}
			if len(res.Nodes) != len(nodes) {
				t.Fatalf("got %d nodes", len(res.Nodes))
			}
			for _, n := range res.Nodes {
				if snapped := n.Position.Snap(DefaultGridSize); snapped != n.Position {
					t.Errorf("%s not on grid: %+v", n.Tag, n.Position)
				}
				if n.Size.IsZero() {
					t.Errorf("%s has no size", n.Tag)
				}
			}
			c := res.Report.Collisions
			for i := 1; i < len(c); i++ {
				if c[i] > c[i-1] {
					t.Errorf("collisions increased: %v", c)
				}
			}
		})
	}
}

func TestEquipmentTypeBands(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		node("P-101", diagram.CategoryPump),
		node("V-101", diagram.CategoryVessel),
		node("P-102", diagram.CategoryPump),
	}
	res, err := Place(nodes, Options{Canvas: testCanvas, Strategy: "equipment-type", FlowDirection: "left-to-right"})
	if err != nil {
		t.Fatal(err)
	}
	// Two bands of 400 over x in [100, 900]; pumps share the first.
	if res.Nodes[0].Position.X != 300 || res.Nodes[2].Position.X != 300 {
		t.Errorf("pumps at x=%v,%v, want 300", res.Nodes[0].Position.X, res.Nodes[2].Position.X)
	}
	if res.Nodes[1].Position.X != 700 {
		t.Errorf("vessel at x=%v, want 700", res.Nodes[1].Position.X)
	}
	if res.Nodes[0].Position.Y == res.Nodes[2].Position.Y {
		t.Error("band members share a position")
	}
}

func TestElevationStrategy(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		{Tag: "V-1", Category: diagram.CategoryVessel, Elevation: diagram.ElevationOverhead},
		{Tag: "P-1", Category: diagram.CategoryPump, Elevation: diagram.ElevationGround},
	}
	res, err := Place(nodes, Options{Canvas: testCanvas, Strategy: "elevation"})
	if err != nil {
		t.Fatal(err)
	}
	if y := res.Nodes[0].Position.Y; y != 120 {
		t.Errorf("overhead y = %v, want 120", y)
	}
	if y := res.Nodes[1].Position.Y; y != 520 {
		t.Errorf("ground y = %v, want 520", y)
	}
}

func TestElevationStrategyRespectElevation(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		{Tag: "V-1", Category: diagram.CategoryVessel, Elevation: diagram.ElevationHigh},
		{Tag: "P-1", Category: diagram.CategoryPump, Elevation: diagram.ElevationLow},
		{Tag: "C-1", Category: diagram.CategoryColumn, Elevation: diagram.ElevationOverhead},
		{Tag: "P-2", Category: diagram.CategoryPump, Elevation: diagram.ElevationGround},
	}
	tests := []struct {
		name    string
		respect bool
		want    []float64
	}{
		{"bands only", false, []float64{220, 400, 120, 520}},
		// Overhead and ground offsets push past the canvas and are clamped.
		{"bands plus offsets", true, []float64{140, 460, 0, 600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Place(nodes, Options{
				Canvas:           testCanvas,
				Strategy:         "elevation",
				FlowDirection:    "left-to-right",
				RespectElevation: tt.respect,
			})
			if err != nil {
				t.Fatal(err)
			}
			for i, want := range tt.want {
				if y := res.Nodes[i].Position.Y; y != want {
					t.Errorf("%s y = %v, want %v", res.Nodes[i].Tag, y, want)
				}
			}
		})
	}
}

func TestRespectElevationOffsets(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		{Tag: "V-1", Category: diagram.CategoryVessel, Elevation: diagram.ElevationHigh},
		{Tag: "P-1", Category: diagram.CategoryPump, Elevation: diagram.ElevationLow},
	}
	res, err := Place(nodes, Options{
		Canvas:           testCanvas,
		FlowDirection:    "left-to-right",
		RespectElevation: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if y := res.Nodes[0].Position.Y; y != 220 {
		t.Errorf("high y = %v, want 220", y)
	}
	if y := res.Nodes[1].Position.Y; y != 380 {
		t.Errorf("low y = %v, want 380", y)
	}
}

func TestResolveDirection(t *testing.T) {
	tests := []struct {
		name  string
		cats  []diagram.Category
		given Direction
		want  Direction
	}{
		{"explicit wins", []diagram.Category{diagram.CategoryPump}, LeftToRight, LeftToRight},
		{"many columns", []diagram.Category{diagram.CategoryColumn, diagram.CategoryColumn, diagram.CategoryReactor}, Auto, LeftToRight},
		{"rotating heavy", []diagram.Category{diagram.CategoryPump, diagram.CategoryCompressor, diagram.CategoryColumn}, Auto, TopToBottom},
		{"balanced", []diagram.Category{diagram.CategoryPump, diagram.CategoryColumn}, Auto, LeftToRight},
		{"empty", nil, Auto, LeftToRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nodes []diagram.EquipmentNode
			for _, c := range tt.cats {
				nodes = append(nodes, node("X", c))
			}
			if got := ResolveDirection(nodes, tt.given); got != tt.want {
				t.Errorf("ResolveDirection = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaceInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown strategy", Options{Canvas: testCanvas, Strategy: "spiral"}, errors.ErrCodeInvalidStrategy},
		{"unknown direction", Options{Canvas: testCanvas, FlowDirection: "diagonal"}, errors.ErrCodeInvalidStrategy},
		{"margin eats canvas", Options{Canvas: diagram.Canvas{Width: 100, Height: 100, Margin: 60}}, errors.ErrCodeInvalidConfig},
		{"negative grid", Options{Canvas: testCanvas, GridSize: -1}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Place([]diagram.EquipmentNode{node("P-1", diagram.CategoryPump)}, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Place error = %v, want code %s", err, tt.code)
			}
			if err := Validate(tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("Validate error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSnapIdempotent(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		{Tag: "A", Position: diagram.Point{X: 133.3, Y: 49.9}},
		{Tag: "B", Position: diagram.Point{X: -11, Y: 10}},
	}
	Snap(nodes, 20)
	first := diagram.CloneNodes(nodes)
	Snap(nodes, 20)
	for i := range nodes {
		if nodes[i].Position != first[i].Position {
			t.Errorf("%s moved on second snap: %+v -> %+v", nodes[i].Tag, first[i].Position, nodes[i].Position)
		}
	}
	if first[0].Position != (diagram.Point{X: 140, Y: 40}) {
		t.Errorf("A snapped to %+v", first[0].Position)
	}
}

func TestOptimizeNonIncreasing(t *testing.T) {
	var nodes []diagram.EquipmentNode
	for i := 0; i < 8; i++ {
		n := node(string(rune('A'+i)), diagram.CategoryVessel).Normalized()
		n.Position = diagram.Point{X: 500 + float64(i%3)*5, Y: 300 + float64(i%2)*5}
		nodes = append(nodes, n)
	}
	report := Optimize(nodes, DefaultMinSpacing, MaxOptimizeRounds, nil)
	if report.Rounds > MaxOptimizeRounds {
		t.Errorf("ran %d rounds", report.Rounds)
	}
	for i := 1; i < len(report.Collisions); i++ {
		if report.Collisions[i] > report.Collisions[i-1] {
			t.Fatalf("collision count increased: %v", report.Collisions)
		}
	}
	if got := CountCollisions(nodes, DefaultMinSpacing); got != report.Residual {
		t.Errorf("Residual = %d, recount = %d", report.Residual, got)
	}
	if report.Residual >= report.Collisions[0] {
		t.Errorf("no progress: %v", report.Collisions)
	}
}

func TestOptimizeCoincidentCentres(t *testing.T) {
	a := node("A", diagram.CategoryPump).Normalized()
	b := node("B", diagram.CategoryPump).Normalized()
	a.Position = diagram.Point{X: 400, Y: 300}
	b.Position = a.Position
	nodes := []diagram.EquipmentNode{a, b}

	report := Optimize(nodes, DefaultMinSpacing, 0, nil)
	if report.Residual != 0 {
		t.Fatalf("residual collisions: %+v", report)
	}
	if nodes[0].Position.Y != 300 || nodes[1].Position.Y != 300 {
		t.Errorf("coincident nodes should separate along x: %+v %+v", nodes[0].Position, nodes[1].Position)
	}
	if nodes[0].Position.X >= nodes[1].Position.X {
		t.Errorf("expected A left of B: %+v %+v", nodes[0].Position, nodes[1].Position)
	}
}

func TestRearrange(t *testing.T) {
	nodes := []diagram.EquipmentNode{
		{Tag: "P-101", Category: diagram.CategoryPump, Size: diagram.Size{Width: 60, Height: 60}, Position: diagram.Point{X: 100, Y: 300}},
		{Tag: "V-101", Category: diagram.CategoryVessel, Size: diagram.Size{Width: 80, Height: 120}, Position: diagram.Point{X: 500, Y: 300}},
	}

	t.Run("dragged node stays", func(t *testing.T) {
		res, err := Rearrange(nodes, "V-101", diagram.Point{X: 120, Y: 300}, Options{Canvas: testCanvas})
		if err != nil {
			t.Fatal(err)
		}
		if got := res.Nodes[1].Position; got != (diagram.Point{X: 120, Y: 300}) {
			t.Errorf("V-101 at %+v, want (120,300)", got)
		}
		if res.Nodes[0].Position == nodes[0].Position {
			t.Error("P-101 was not pushed away")
		}
		if res.Report.Residual != 0 {
			t.Errorf("residual collisions: %d", res.Report.Residual)
		}
		if nodes[1].Position.X != 500 {
			t.Error("Rearrange modified its input")
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		res, err := Rearrange(nodes, "X-999", diagram.Point{X: 0, Y: 0}, Options{Canvas: testCanvas})
		if err != nil {
			t.Fatal(err)
		}
		if diagram.CountKind(res.Diagnostics, diagram.KindMissingReference) != 1 {
			t.Errorf("diagnostics = %v", res.Diagnostics)
		}
		for i := range nodes {
			if res.Nodes[i].Position != nodes[i].Position {
				t.Errorf("%s moved", nodes[i].Tag)
			}
		}
	})
}
