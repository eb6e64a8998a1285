package routing

import (
	"fmt"
	"maps"
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// routeNamespace scopes deterministic route IDs.
var routeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/pidlayout/route"))

// Result is the output of [Route].
type Result struct {
	Routes      []diagram.Route
	Diagnostics []diagram.Diagnostic
}

// Route routes every connection between the placed nodes, in order.
//
// Connections naming an unknown endpoint are skipped with a
// missing-reference diagnostic. Smart routes that exhaust their search fall
// back to manhattan and report search-exhaustion. An error is returned only
// for invalid options.
func Route(nodes []diagram.EquipmentNode, connections []diagram.Connection, opts Options) (Result, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return Result{}, err
	}
	strategy, err := StrategyFor(opts.Strategy)
	if err != nil {
		return Result{}, err
	}

	grid := 0.0
	if opts.SnapToGrid {
		grid = opts.GridSize
	}
	index := diagram.IndexByTag(nodes)
	space := NewSpace(nodes, EquipmentClearance)

	var res Result
	for i, c := range connections {
		fi, okFrom := index[c.From]
		ti, okTo := index[c.To]
		if !okFrom || !okTo {
			missing := c.From
			if okFrom {
				missing = c.To
			}
			res.Diagnostics = append(res.Diagnostics, diagram.NewDiagnostic(
				diagram.StageRouting, diagram.KindMissingReference, missing,
				"connection %s -> %s skipped: unknown equipment %q", c.From, c.To, missing))
			continue
		}

		from, to := ConnectionPoints(nodes[fi], nodes[ti], opts.Canvas, grid)
		req := Request{
			From:      from,
			To:        to,
			Index:     i,
			Obstacles: space.Foreign(c.From, c.To),
			Options:   opts,
		}
		used := strategy
		path := strategy.Route(req)
		if path == nil {
			used = Manhattan{}
			path = used.Route(req)
			res.Diagnostics = append(res.Diagnostics, diagram.NewDiagnostic(
				diagram.StageRouting, diagram.KindSearchExhaustion, lineLabel(c),
				"%s search gave up after %d expansions, using %s route", strategy.Name(), opts.MaxExpansions, used.Name()))
		}
		if grid > 0 {
			for k := range path {
				path[k] = path[k].Snap(grid)
			}
		}

		category := Categorize(c)
		res.Routes = append(res.Routes, diagram.Route{
			ID:         RouteID(c, i),
			From:       c.From,
			To:         c.To,
			LineNumber: c.LineNumber,
			Category:   category,
			Waypoints:  path,
			LineStyle:  LineStyleFor(category),
			LineWidth:  LineWidth(c.NominalSize),
			FlowArrows: FlowArrows(path),
			Strategy:   used.Name(),
			Attributes: routeAttributes(c),
		})
		if opts.AvoidCrossings {
			space.AddCorridor(path, opts.PipeSpacing/2, c.From, c.To)
		}
	}
	return res, nil
}

// ConnectionPoints returns where a pipe leaves from and enters to. Each point
// sits ConnectionOffset from its node centre on the side facing the other
// node: left or right when the nodes are further apart in x than in y, top
// or bottom otherwise. Points are clamped to the canvas and snapped to grid
// when grid is positive.
func ConnectionPoints(from, to diagram.EquipmentNode, canvas diagram.Canvas, grid float64) (diagram.Point, diagram.Point) {
	dx := to.Position.X - from.Position.X
	dy := to.Position.Y - from.Position.Y

	var a, b diagram.Point
	if math.Abs(dx) > math.Abs(dy) {
		s := sign(dx)
		a = from.Position.Add(s*ConnectionOffset, 0)
		b = to.Position.Add(-s*ConnectionOffset, 0)
	} else {
		s := sign(dy)
		a = from.Position.Add(0, s*ConnectionOffset)
		b = to.Position.Add(0, -s*ConnectionOffset)
	}
	a, b = canvas.Clamp(a), canvas.Clamp(b)
	return a.Snap(grid), b.Snap(grid)
}

// RouteID derives a stable ID from the connection and its list position.
func RouteID(c diagram.Connection, index int) string {
	name := fmt.Sprintf("%d|%s|%s|%s", index, c.LineNumber, c.From, c.To)
	return uuid.NewSHA1(routeNamespace, []byte(name)).String()
}

// SynthesizeConnections links consecutive nodes with process lines. It is
// used when the input carries no connection list.
func SynthesizeConnections(nodes []diagram.EquipmentNode) []diagram.Connection {
	if len(nodes) < 2 {
		return nil
	}
	conns := make([]diagram.Connection, 0, len(nodes)-1)
	for i := 1; i < len(nodes); i++ {
		conns = append(conns, diagram.Connection{
			From:       nodes[i-1].Tag,
			To:         nodes[i].Tag,
			LineNumber: fmt.Sprintf("L-%03d", i),
			Fluid:      "process",
		})
	}
	return conns
}

// routeAttributes copies the connection attributes and adds its fluid and
// size so annotations can read them off the route.
func routeAttributes(c diagram.Connection) map[string]any {
	attrs := maps.Clone(c.Attributes)
	if c.Fluid == "" && c.NominalSize == "" {
		return attrs
	}
	if attrs == nil {
		attrs = make(map[string]any, 2)
	}
	if _, ok := attrs["fluid"]; !ok && c.Fluid != "" {
		attrs["fluid"] = c.Fluid
	}
	if _, ok := attrs["size"]; !ok && c.NominalSize != "" {
		attrs["size"] = c.NominalSize
	}
	return attrs
}

func lineLabel(c diagram.Connection) string {
	if c.LineNumber != "" {
		return c.LineNumber
	}
	return c.From + "->" + c.To
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
