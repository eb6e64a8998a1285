package diagram

// PipeCategory is the derived service class of a connection.
type PipeCategory string

// Pipe categories.
const (
	PipeProcess         PipeCategory = "process"
	PipeUtilitySteam    PipeCategory = "utility-steam"
	PipeUtilityCooling  PipeCategory = "utility-cooling"
	PipeUtilityAir      PipeCategory = "utility-air"
	PipeUtilityNitrogen PipeCategory = "utility-nitrogen"
	PipeInstrument      PipeCategory = "instrument"
	PipeSignal          PipeCategory = "signal"
)

// LineStyle tells the renderer how to stroke a route.
type LineStyle string

// Line styles. The signal styles follow ISA-5.1 line symbols.
const (
	LineSolid     LineStyle = "solid"
	LineDashed    LineStyle = "dashed"
	LineDotted    LineStyle = "dotted"
	LinePneumatic LineStyle = "pneumatic"
	LineHydraulic LineStyle = "hydraulic"
	LineCapillary LineStyle = "capillary"
	LineWireless  LineStyle = "wireless"
)

// Connection is a requested pipe between two equipment nodes.
type Connection struct {
	From        string         `json:"from" yaml:"from" msgpack:"from"`
	To          string         `json:"to" yaml:"to" msgpack:"to"`
	LineNumber  string         `json:"line_number,omitempty" yaml:"line_number,omitempty" msgpack:"line_number,omitempty"`
	Fluid       string         `json:"fluid,omitempty" yaml:"fluid,omitempty" msgpack:"fluid,omitempty"`
	NominalSize string         `json:"size,omitempty" yaml:"size,omitempty" msgpack:"size,omitempty"`
	Category    PipeCategory   `json:"category,omitempty" yaml:"category,omitempty" msgpack:"category,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// Arrow marks flow direction on a route segment. Angle is in degrees,
// measured clockwise from the positive x axis (canvas y points down).
type Arrow struct {
	Position Point   `json:"position" msgpack:"position"`
	Angle    float64 `json:"angle" msgpack:"angle"`
}

// Route is the routed polyline of a connection or signal line.
type Route struct {
	ID         string         `json:"id" msgpack:"id"`
	From       string         `json:"from" msgpack:"from"`
	To         string         `json:"to" msgpack:"to"`
	LineNumber string         `json:"line_number,omitempty" msgpack:"line_number,omitempty"`
	Category   PipeCategory   `json:"category" msgpack:"category"`
	Waypoints  []Point        `json:"waypoints" msgpack:"waypoints"`
	LineStyle  LineStyle      `json:"line_style" msgpack:"line_style"`
	LineWidth  float64        `json:"line_width" msgpack:"line_width"`
	FlowArrows []Arrow        `json:"flow_arrows,omitempty" msgpack:"flow_arrows,omitempty"`
	Strategy   string         `json:"strategy,omitempty" msgpack:"strategy,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// Midpoint returns the middle waypoint, used to anchor route annotations.
func (r Route) Midpoint() Point {
	if len(r.Waypoints) == 0 {
		return Point{}
	}
	return r.Waypoints[len(r.Waypoints)/2]
}

// Length returns the total polyline length.
func (r Route) Length() float64 {
	var total float64
	for i := 1; i < len(r.Waypoints); i++ {
		total += r.Waypoints[i-1].Distance(r.Waypoints[i])
	}
	return total
}

// IsOrthogonal reports whether consecutive waypoints never differ in both axes.
func (r Route) IsOrthogonal() bool {
	for i := 1; i < len(r.Waypoints); i++ {
		a, b := r.Waypoints[i-1], r.Waypoints[i]
		if a.X != b.X && a.Y != b.Y {
			return false
		}
	}
	return true
}
