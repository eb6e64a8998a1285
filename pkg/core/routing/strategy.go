package routing

import (
	"math"
	"strings"

	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

// Request is one connection handed to a [Strategy].
type Request struct {
	From, To diagram.Point

	// Index is the connection's position in the input list. It staggers
	// parallel runs so neighbouring pipes do not share a mid-line.
	Index int

	// Obstacles are the regions this connection must avoid.
	Obstacles []diagram.Rect

	Options Options
}

// horizontal reports whether the request runs mainly along x.
func (r Request) horizontal() bool {
	return math.Abs(r.To.X-r.From.X) > math.Abs(r.To.Y-r.From.Y)
}

// Strategy computes the waypoints of one route. The first waypoint must be
// req.From and the last req.To. A nil result means no route was found.
type Strategy interface {
	Name() string
	Route(req Request) []diagram.Point
}

var strategies = []Strategy{
	Manhattan{},
	Direct{},
	Orthogonal{},
	Smart{},
}

// Strategies returns the names of all registered strategies.
func Strategies() []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	return names
}

// StrategyFor looks up a strategy by name.
func StrategyFor(name string) (Strategy, error) {
	for _, s := range strategies {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidStrategy,
		"invalid routing strategy: %q (must be one of: %s)", name, strings.Join(Strategies(), ", "))
}

// =============================================================================
// direct
// =============================================================================

// Direct joins the connection points with a single straight segment.
type Direct struct{}

func (Direct) Name() string { return "direct" }

func (Direct) Route(req Request) []diagram.Point {
	return []diagram.Point{req.From, req.To}
}

// =============================================================================
// manhattan
// =============================================================================

// Manhattan routes through the mid-line of the dominant axis, shifted by
// (index mod 3) pipe spacings. The result always has four points, even
// when the endpoints are aligned and the bend collapses.
type Manhattan struct{}

func (Manhattan) Name() string { return "manhattan" }

func (Manhattan) Route(req Request) []diagram.Point {
	from, to := req.From, req.To
	shift := float64(req.Index%3) * req.Options.PipeSpacing
	if req.horizontal() {
		mid := (from.X+to.X)/2 + shift
		return []diagram.Point{from, {X: mid, Y: from.Y}, {X: mid, Y: to.Y}, to}
	}
	mid := (from.Y+to.Y)/2 + shift
	return []diagram.Point{from, {X: from.X, Y: mid}, {X: to.X, Y: mid}, to}
}

// =============================================================================
// orthogonal
// =============================================================================

// Orthogonal behaves like [Manhattan] while the box spanned by the endpoints
// is clear. Otherwise it leaves along the dominant axis, turns at the first
// quarter, crosses on a lane just past the blocking obstacles and rejoins at
// the third quarter. Lanes are staggered by (index mod 5) half spacings.
type Orthogonal struct{}

func (Orthogonal) Name() string { return "orthogonal" }

func (Orthogonal) Route(req Request) []diagram.Point {
	span := diagram.RectSpanning(req.From, req.To)
	var blockers []diagram.Rect
	for _, o := range req.Obstacles {
		if o.Intersects(span) {
			blockers = append(blockers, o)
		}
	}
	if len(blockers) == 0 {
		return Manhattan{}.Route(req)
	}

	bounds := blockers[0]
	for _, b := range blockers[1:] {
		bounds = bounds.Union(b)
	}
	opts := req.Options
	gap := opts.PipeSpacing + float64(req.Index%5)*opts.PipeSpacing/2
	from, to := req.From, req.To

	if req.horizontal() {
		lane := nearerLane(from.Y, bounds.Y-gap, bounds.Bottom()+gap, 0, opts.Canvas.Height)
		q1 := from.X + (to.X-from.X)/4
		q3 := from.X + 3*(to.X-from.X)/4
		return []diagram.Point{
			from, {X: q1, Y: from.Y}, {X: q1, Y: lane},
			{X: q3, Y: lane}, {X: q3, Y: to.Y}, to,
		}
	}
	lane := nearerLane(from.X, bounds.X-gap, bounds.Right()+gap, 0, opts.Canvas.Width)
	q1 := from.Y + (to.Y-from.Y)/4
	q3 := from.Y + 3*(to.Y-from.Y)/4
	return []diagram.Point{
		from, {X: from.X, Y: q1}, {X: lane, Y: q1},
		{X: lane, Y: q3}, {X: to.X, Y: q3}, to,
	}
}

// nearerLane picks whichever of before and after is closer to v, preferring
// lanes that stay on the canvas.
func nearerLane(v, before, after, lo, hi float64) float64 {
	beforeOK := before >= lo
	afterOK := after <= hi
	switch {
	case beforeOK && !afterOK:
		return before
	case afterOK && !beforeOK:
		return after
	case !beforeOK && !afterOK:
		return math.Max(lo, math.Min(hi, before))
	}
	if math.Abs(v-before) <= math.Abs(after-v) {
		return before
	}
	return after
}

// =============================================================================
// smart
// =============================================================================

// Smart searches a grid for an obstacle-free orthogonal path with A*.
type Smart struct{}

func (Smart) Name() string { return "smart" }

func (Smart) Route(req Request) []diagram.Point {
	opts := req.Options
	blocked := make([]diagram.Rect, len(req.Obstacles))
	for i, o := range req.Obstacles {
		blocked[i] = o.Inflate(opts.MinPipeSpacing)
	}
	path := FindPath(req.From, req.To, SearchOptions{
		Step:          opts.GridSize,
		Bounds:        opts.Canvas.Bounds(),
		Blocked:       blocked,
		MaxExpansions: opts.MaxExpansions,
	})
	if len(path) == 0 {
		return nil
	}

	last := path[len(path)-1]
	if last != req.To {
		if last.X != req.To.X && last.Y != req.To.Y {
			path = append(path, diagram.Point{X: req.To.X, Y: last.Y})
		}
		path = append(path, req.To)
	}
	path = Simplify(path)
	if len(path) == 1 {
		path = append(path, req.To)
	}
	return path
}

// Simplify drops repeated points and the middle point of every collinear
// run, keeping both ends.
func Simplify(path []diagram.Point) []diagram.Point {
	if len(path) < 3 {
		return path
	}
	out := []diagram.Point{path[0]}
	for i := 1; i < len(path); i++ {
		p := path[i]
		if p == out[len(out)-1] {
			continue
		}
		if len(out) >= 2 && collinear(out[len(out)-2], out[len(out)-1], p) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func collinear(a, b, c diagram.Point) bool {
	return (a.X == b.X && b.X == c.X) || (a.Y == b.Y && b.Y == c.Y)
}
