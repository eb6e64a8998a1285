package routing

import (
	"container/heap"
	"slices"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// SearchOptions configures [FindPath].
type SearchOptions struct {
	// Step is the grid cell size. The grid is anchored at the start point.
	Step float64

	// Bounds limits the search area.
	Bounds diagram.Rect

	// Blocked cells are those whose point falls inside any of these.
	Blocked []diagram.Rect

	// MaxExpansions caps the number of nodes taken off the open set.
	MaxExpansions int
}

type cell struct{ i, j int }

type searchNode struct {
	cell   cell
	g, h   float64
	seq    int
	parent *searchNode
	index  int
}

func (n *searchNode) f() float64 { return n.g + n.h }

// openSet is a min-heap on f, then h, then insertion order.
type openSet []*searchNode

func (q openSet) Len() int { return len(q) }

func (q openSet) Less(i, j int) bool {
	if q[i].f() != q[j].f() {
		return q[i].f() < q[j].f()
	}
	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}
	return q[i].seq < q[j].seq
}

func (q openSet) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openSet) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *openSet) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*q = old[:len(old)-1]
	return n
}

var neighbours = [4]cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// FindPath runs a 4-neighbour A* search from start towards goal with a
// Manhattan heuristic. The search succeeds on reaching any cell within one
// step (Manhattan distance) of goal and returns the cell centres visited,
// starting with start. The goal itself is not appended. It returns nil when
// the open set empties or the expansion budget runs out.
func FindPath(start, goal diagram.Point, opts SearchOptions) []diagram.Point {
	step := opts.Step
	if step <= 0 || opts.MaxExpansions <= 0 {
		return nil
	}
	at := func(c cell) diagram.Point {
		return diagram.Point{X: start.X + float64(c.i)*step, Y: start.Y + float64(c.j)*step}
	}
	free := func(p diagram.Point) bool {
		if !opts.Bounds.Contains(p) {
			return false
		}
		for _, b := range opts.Blocked {
			if b.Contains(p) {
				return false
			}
		}
		return true
	}

	seq := 0
	root := &searchNode{h: start.ManhattanDistance(goal)}
	open := &openSet{root}
	best := map[cell]float64{{}: 0}
	closed := make(map[cell]bool)

	for expansions := 0; open.Len() > 0; expansions++ {
		if expansions >= opts.MaxExpansions {
			return nil
		}
		cur := heap.Pop(open).(*searchNode)
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true

		p := at(cur.cell)
		if p.ManhattanDistance(goal) <= step {
			return trace(cur, at)
		}

		for _, d := range neighbours {
			next := cell{cur.cell.i + d.i, cur.cell.j + d.j}
			if closed[next] {
				continue
			}
			np := at(next)
			if !free(np) {
				continue
			}
			g := cur.g + step
			if old, ok := best[next]; ok && g >= old {
				continue
			}
			best[next] = g
			seq++
			heap.Push(open, &searchNode{
				cell:   next,
				g:      g,
				h:      np.ManhattanDistance(goal),
				seq:    seq,
				parent: cur,
			})
		}
	}
	return nil
}

func trace(n *searchNode, at func(cell) diagram.Point) []diagram.Point {
	var path []diagram.Point
	for ; n != nil; n = n.parent {
		path = append(path, at(n.cell))
	}
	slices.Reverse(path)
	return path
}
