package placement

import (
	"math"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// OptimizeReport describes one run of [Optimize].
type OptimizeReport struct {
	// Rounds is the number of relaxation rounds attempted.
	Rounds int `json:"rounds"`

	// Collisions holds the colliding-pair count before the first round and
	// after every accepted round. It is non-increasing.
	Collisions []int `json:"collisions"`

	// Residual is the number of colliding pairs left at the end.
	Residual int `json:"residual"`

	// Stalled is set when a round was discarded because it made things worse.
	Stalled bool `json:"stalled,omitempty"`
}

// Optimize pushes overlapping nodes apart in place.
//
// Two nodes collide when their footprints, each grown by minSpacing/4 on every
// side, overlap on both axes. Each colliding pair is separated along the line
// joining their centres by the distance needed to clear the smaller overlap;
// both nodes move half of it, unless one is pinned, in which case the other
// moves the whole distance. Up to maxRounds rounds run, stopping early once a
// round leaves no collisions. A round that increases the collision count is
// discarded and ends the run.
//
// Optimize is best-effort: dense inputs can keep collisions, which the
// report's Residual exposes.
func Optimize(nodes []diagram.EquipmentNode, minSpacing float64, maxRounds int, pinned map[string]bool) OptimizeReport {
	if maxRounds <= 0 {
		maxRounds = MaxOptimizeRounds
	}
	pad := minSpacing / 4
	prev := CountCollisions(nodes, minSpacing)
	report := OptimizeReport{Collisions: []int{prev}}

	work := make([]diagram.EquipmentNode, len(nodes))
	for round := 0; round < maxRounds && prev > 0; round++ {
		copy(work, nodes)
		relax(work, pad, pinned)
		report.Rounds++

		next := CountCollisions(work, minSpacing)
		if next > prev {
			report.Stalled = true
			break
		}
		copy(nodes, work)
		prev = next
		report.Collisions = append(report.Collisions, next)
	}
	report.Residual = prev
	return report
}

// CountCollisions returns the number of colliding node pairs.
func CountCollisions(nodes []diagram.EquipmentNode, minSpacing float64) int {
	pad := minSpacing / 4
	count := 0
	for i := range nodes {
		a := nodes[i].Bounds().Inflate(pad)
		for j := i + 1; j < len(nodes); j++ {
			ox, oy := overlap(a, nodes[j].Bounds().Inflate(pad))
			if ox > 0 && oy > 0 {
				count++
			}
		}
	}
	return count
}

// relax runs a single pass over all pairs, updating positions as it goes.
func relax(nodes []diagram.EquipmentNode, pad float64, pinned map[string]bool) {
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := &nodes[i], &nodes[j]
			pinA, pinB := pinned[a.Tag], pinned[b.Tag]
			if pinA && pinB {
				continue
			}
			ox, oy := overlap(a.Bounds().Inflate(pad), b.Bounds().Inflate(pad))
			if ox <= 0 || oy <= 0 {
				continue
			}

			dx, dy := b.Position.X-a.Position.X, b.Position.Y-a.Position.Y
			dist := math.Hypot(dx, dy)
			if dist < 1e-9 {
				dx, dy, dist = 1, 0, 1
			}
			ux, uy := dx/dist, dy/dist

			// Distance along (ux, uy) that clears the overlap on one axis.
			push := math.Inf(1)
			if math.Abs(ux) > 1e-9 {
				push = ox / math.Abs(ux)
			}
			if math.Abs(uy) > 1e-9 {
				push = math.Min(push, oy/math.Abs(uy))
			}
			push += 1

			switch {
			case pinA:
				b.Position = b.Position.Add(ux*push, uy*push)
			case pinB:
				a.Position = a.Position.Add(-ux*push, -uy*push)
			default:
				half := push / 2
				a.Position = a.Position.Add(-ux*half, -uy*half)
				b.Position = b.Position.Add(ux*half, uy*half)
			}
		}
	}
}

// overlap returns the overlap extents of a and b on each axis. Non-positive
// values mean the rectangles are apart on that axis.
func overlap(a, b diagram.Rect) (float64, float64) {
	ox := math.Min(a.Right(), b.Right()) - math.Max(a.X, b.X)
	oy := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Y, b.Y)
	return ox, oy
}
