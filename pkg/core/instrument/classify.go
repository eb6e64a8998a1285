package instrument

import (
	"slices"
	"strings"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// Mounting resolves where an instrument is installed. A declared mounting
// location wins. Otherwise transmitters and primary elements (T, E) are
// field mounted, controllers and recorders (C, R) live in the DCS, and pure
// indicators (I) are field mounted when local and panel mounted otherwise.
func Mounting(declared string, functions []string, local bool) diagram.MountingLocation {
	switch m := diagram.MountingLocation(strings.ToLower(strings.TrimSpace(declared))); m {
	case diagram.MountField, diagram.MountPanel, diagram.MountDCS, diagram.MountShared:
		return m
	}
	has := func(letters ...string) bool {
		for _, l := range letters {
			if slices.Contains(functions, l) {
				return true
			}
		}
		return false
	}
	switch {
	case has("T", "E"):
		return diagram.MountField
	case has("C", "R"):
		return diagram.MountDCS
	case len(functions) > 0 && !slices.ContainsFunc(functions, func(f string) bool { return f != "I" }):
		if local {
			return diagram.MountField
		}
		return diagram.MountPanel
	}
	return diagram.MountField
}

var signalKeywords = []struct {
	keyword string
	signal  diagram.SignalType
}{
	{"pneumatic", diagram.SignalPneumatic},
	{"wireless", diagram.SignalWireless},
	{"hydraulic", diagram.SignalHydraulic},
	{"capillary", diagram.SignalCapillary},
	{"hart", diagram.SignalElectric},
	{"fieldbus", diagram.SignalElectric},
}

// Signal resolves the signal type from a declared value by substring match.
// HART and fieldbus are digital signals on electric wiring. Anything else is
// electric.
func Signal(declared string) diagram.SignalType {
	d := strings.ToLower(declared)
	for _, k := range signalKeywords {
		if strings.Contains(d, k.keyword) {
			return k.signal
		}
	}
	return diagram.SignalElectric
}

// LineStyle maps a signal type to its ISA-5.1 line symbol.
func LineStyle(s diagram.SignalType) diagram.LineStyle {
	switch s {
	case diagram.SignalPneumatic:
		return diagram.LinePneumatic
	case diagram.SignalWireless:
		return diagram.LineWireless
	case diagram.SignalHydraulic:
		return diagram.LineHydraulic
	case diagram.SignalCapillary:
		return diagram.LineCapillary
	}
	return diagram.LineDashed
}
