// Package routing computes pipe routes between placed equipment.
//
// # Overview
//
// [Route] turns a list of [diagram.Connection] values into positioned
// [diagram.Route] polylines. Each connection is routed independently, in
// input order, between two connection points on the facing sides of its
// endpoint nodes (see [ConnectionPoints]). Connections are never rerouted
// once committed, so results depend on connection order.
//
// # Strategies
//
//   - direct: a straight segment between the two connection points
//   - manhattan: four points through the mid-line of the dominant axis
//   - orthogonal: manhattan, or a six point detour around blocking equipment
//   - smart: A* over a grid anchored at the start point
//
// The smart strategy gives up after [DefaultMaxExpansions] expansions and
// falls back to the manhattan route, recording a search-exhaustion
// diagnostic.
//
// # Occupied Space
//
// Equipment footprints, grown by [EquipmentClearance], seed the occupied
// space. With AvoidCrossings set, every committed route adds a corridor
// around each of its segments. Obstacles owned by a connection's own
// endpoints never block that connection.
//
// # Styling
//
// [Categorize] derives a [diagram.PipeCategory] from the fluid and line
// number. Category decides the line style, and the nominal size decides the
// stroke width (see [LineWidth]). Flow arrows mark the midpoint of every
// non-degenerate segment.
package routing
