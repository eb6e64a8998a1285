package instrument

import "github.com/matzehuels/pidlayout/pkg/diagram"

// GroupLoops groups valid instruments by loop number, in order of first
// appearance. Unclassified instruments belong to no loop.
func GroupLoops(instruments []diagram.Instrument) []diagram.ControlLoop {
	var loops []diagram.ControlLoop
	index := make(map[string]int)
	for _, inst := range instruments {
		if !inst.Valid {
			continue
		}
		i, ok := index[inst.LoopNumber]
		if !ok {
			i = len(loops)
			index[inst.LoopNumber] = i
			loops = append(loops, diagram.ControlLoop{Number: inst.LoopNumber})
		}
		l := &loops[i]
		l.Instruments = append(l.Instruments, inst.Tag)
		l.HasController = l.HasController || inst.HasFunction("C")
		l.HasTransmitter = l.HasTransmitter || inst.HasFunction("T")
		l.HasValve = l.HasValve || inst.HasFunction("V")
		l.HasIndicator = l.HasIndicator || inst.HasFunction("I")
	}
	return loops
}
