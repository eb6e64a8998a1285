package diagram

import (
	"math"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"touching edge", Rect{X: 10, Y: 0, Width: 5, Height: 5}, true},
		{"right of", Rect{X: 11, Y: 0, Width: 5, Height: 5}, false},
		{"below", Rect{X: 0, Y: 10.5, Width: 5, Height: 5}, false},
		{"contained", Rect{X: 2, Y: 2, Width: 2, Height: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Intersects(base); got != tt.want {
				t.Errorf("Intersects is not symmetric for %+v", tt.other)
			}
		})
	}
}

func TestSnapIdempotent(t *testing.T) {
	for _, v := range []float64{0, 7, 9.99, 10, 15, -23, 123.456} {
		once := SnapValue(v, 20)
		twice := SnapValue(once, 20)
		if once != twice {
			t.Errorf("SnapValue(%v) not idempotent: %v then %v", v, once, twice)
		}
		if math.Mod(once, 20) != 0 {
			t.Errorf("SnapValue(%v) = %v, not a multiple of 20", v, once)
		}
	}
	if got := SnapValue(13, 0); got != 13 {
		t.Errorf("SnapValue with zero grid = %v, want 13", got)
	}
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"pump":           CategoryPump,
		"Pump":           CategoryPump,
		"tank":           CategoryVessel,
		"Tower":          CategoryColumn,
		"heat-exchanger": CategoryHeatExchanger,
		"heat exchanger": CategoryHeatExchanger,
		"cooler":         CategoryHeatExchanger,
		"furnace":        CategoryOther,
		"":               CategoryOther,
	}
	for in, want := range tests {
		if got := ParseCategory(in); got != want {
			t.Errorf("ParseCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEquipmentNormalized(t *testing.T) {
	n := EquipmentNode{Tag: "T-201", Category: "tower"}.Normalized()
	if n.Category != CategoryColumn {
		t.Errorf("category = %q, want column", n.Category)
	}
	if n.Size != CategoryColumn.DefaultSize() {
		t.Errorf("size = %+v, want default column size", n.Size)
	}
	if n.Elevation != ElevationMedium {
		t.Errorf("elevation = %q, want medium", n.Elevation)
	}
}

func TestEquipmentNumber(t *testing.T) {
	tests := map[string]string{
		"P-101":  "101",
		"P-101A": "101",
		"E12":    "12",
		"TANK":   "",
	}
	for tag, want := range tests {
		if got := (EquipmentNode{Tag: tag}).Number(); got != want {
			t.Errorf("Number(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestAttributeFloat(t *testing.T) {
	attrs := map[string]any{
		"int":    45,
		"float":  12.5,
		"string": "45 bar",
		"bad":    "n/a",
	}
	tests := []struct {
		key    string
		want   float64
		wantOK bool
	}{
		{"int", 45, true},
		{"float", 12.5, true},
		{"string", 45, true},
		{"bad", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := AttributeFloat(attrs, tt.key)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("AttributeFloat(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRouteIsOrthogonal(t *testing.T) {
	r := Route{Waypoints: []Point{{0, 0}, {10, 0}, {10, 10}}}
	if !r.IsOrthogonal() {
		t.Error("L-shaped route should be orthogonal")
	}
	r.Waypoints = append(r.Waypoints, Point{20, 20})
	if r.IsOrthogonal() {
		t.Error("diagonal segment should not be orthogonal")
	}
	if got := (Route{Waypoints: []Point{{0, 0}, {3, 0}, {3, 4}}}).Length(); got != 7 {
		t.Errorf("Length = %v, want 7", got)
	}
}

func TestCanvasClamp(t *testing.T) {
	c := Canvas{Width: 100, Height: 50}
	got := c.Clamp(Point{X: -5, Y: 70})
	if got != (Point{X: 0, Y: 50}) {
		t.Errorf("Clamp = %+v", got)
	}
}
