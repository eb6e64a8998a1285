package routing

import (
	"slices"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// Obstacle is a blocked region of the canvas. Owners are the equipment tags
// allowed to route through it.
type Obstacle struct {
	Box    diagram.Rect
	Owners []string
}

// Space accumulates obstacles while connections are routed. It lives for a
// single [Route] call.
type Space struct {
	obstacles []Obstacle
}

// NewSpace seeds a Space with every node's footprint grown by clearance.
func NewSpace(nodes []diagram.EquipmentNode, clearance float64) *Space {
	s := &Space{obstacles: make([]Obstacle, 0, len(nodes))}
	for _, n := range nodes {
		s.Add(n.Bounds().Inflate(clearance), n.Tag)
	}
	return s
}

// Add records an obstacle.
func (s *Space) Add(box diagram.Rect, owners ...string) {
	s.obstacles = append(s.obstacles, Obstacle{Box: box, Owners: owners})
}

// AddCorridor blocks a band of half-width pad around each segment of path.
func (s *Space) AddCorridor(path []diagram.Point, pad float64, owners ...string) {
	for i := 1; i < len(path); i++ {
		s.Add(diagram.RectSpanning(path[i-1], path[i]).Inflate(pad), owners...)
	}
}

// Foreign returns the obstacles owned by neither from nor to.
func (s *Space) Foreign(from, to string) []diagram.Rect {
	var out []diagram.Rect
	for _, o := range s.obstacles {
		if slices.Contains(o.Owners, from) || slices.Contains(o.Owners, to) {
			continue
		}
		out = append(out, o.Box)
	}
	return out
}
