package instrument

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// LBendThreshold is the axis delta both sides must exceed before a signal
// line gets an elbow.
const LBendThreshold = 100.0

var signalNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/pidlayout/signal"))

// SignalRoutes draws one signal line per connected instrument, from its
// equipment to the instrument. Lines are straight unless both axis deltas
// exceed LBendThreshold, in which case they bend once below or above the
// equipment.
func SignalRoutes(insts []diagram.Instrument, nodes map[string]diagram.EquipmentNode) []diagram.Route {
	var routes []diagram.Route
	for _, inst := range insts {
		eq, ok := nodes[inst.ConnectionPoint]
		if !ok {
			continue
		}
		from, to := eq.Position, inst.Position
		path := []diagram.Point{from, to}
		if math.Abs(to.X-from.X) > LBendThreshold && math.Abs(to.Y-from.Y) > LBendThreshold {
			path = []diagram.Point{from, {X: from.X, Y: to.Y}, to}
		}
		routes = append(routes, diagram.Route{
			ID:        uuid.NewSHA1(signalNamespace, []byte(eq.Tag+"|"+inst.Tag)).String(),
			From:      eq.Tag,
			To:        inst.Tag,
			Category:  diagram.PipeSignal,
			Waypoints: path,
			LineStyle: LineStyle(inst.Signal),
			LineWidth: 1,
		})
	}
	return routes
}
