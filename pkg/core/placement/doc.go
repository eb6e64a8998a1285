// Package placement assigns canvas positions to equipment nodes.
//
// # Overview
//
// Placement is the first stage of the diagram pipeline. It takes the raw
// equipment list and produces nodes with a Position (the node centre) that
// downstream stages treat as final. The work happens in four steps:
//
//  1. Resolve the flow direction ([ResolveDirection]) when "auto" is requested.
//  2. Run the chosen [Strategy] to compute initial positions.
//  3. Optionally nudge nodes by elevation band ([AdjustElevation]).
//  4. Optionally relax collisions ([Optimize]) and snap to the grid ([Snap]).
//
// # Strategies
//
//   - process-sequence: nodes spread along the flow axis in list order
//   - equipment-type: one band per equipment category
//   - elevation: vertical position from the node's elevation band
//   - grid: ceil(sqrt(n)) columns of equal cells
//
// Strategies are looked up with [StrategyFor] and implement [Strategy], so a
// new layout only needs a new type, not another branch in a switch.
//
// # Collision Resolution
//
// [Optimize] is a best-effort relaxation, not a collision-free solver. It runs
// at most [MaxOptimizeRounds] rounds and never accepts a round that increases
// the number of colliding pairs, so the collision count reported per round is
// non-increasing. Collisions left over are reported as a placement-exhaustion
// diagnostic rather than an error.
//
// # Dragging
//
// [Rearrange] moves one node to new coordinates and re-runs collision
// resolution over the full set. It never re-runs the initial strategy, so
// the rest of the layout stays where the user left it.
package placement
