package diagram

// MountingLocation is where an instrument is installed.
type MountingLocation string

// Mounting locations.
const (
	MountField  MountingLocation = "field"
	MountPanel  MountingLocation = "panel"
	MountDCS    MountingLocation = "dcs"
	MountShared MountingLocation = "shared"
)

// SignalType is the transmission medium of an instrument signal.
type SignalType string

// Signal types.
const (
	SignalElectric  SignalType = "electric"
	SignalPneumatic SignalType = "pneumatic"
	SignalWireless  SignalType = "wireless"
	SignalHydraulic SignalType = "hydraulic"
	SignalCapillary SignalType = "capillary"
)

// Instrument is an ISA-tagged instrument. The first block of fields is
// supplied by the caller; the second is derived by the instrumentation engine.
type Instrument struct {
	Tag              string `json:"tag" yaml:"tag" msgpack:"tag"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty" msgpack:"description,omitempty"`
	Equipment        string `json:"equipment,omitempty" yaml:"equipment,omitempty" msgpack:"equipment,omitempty"`
	Local            bool   `json:"local,omitempty" yaml:"local,omitempty" msgpack:"local,omitempty"`
	DeclaredSignal   string `json:"signal,omitempty" yaml:"signal,omitempty" msgpack:"signal,omitempty"`
	DeclaredMounting string `json:"mounting,omitempty" yaml:"mounting,omitempty" msgpack:"mounting,omitempty"`
	Hint             *Point `json:"hint,omitempty" yaml:"hint,omitempty" msgpack:"hint,omitempty"`

	MeasuredVariable string           `json:"measured_variable,omitempty" yaml:"-" msgpack:"measured_variable,omitempty"`
	Functions        []string         `json:"functions,omitempty" yaml:"-" msgpack:"functions,omitempty"`
	LoopNumber       string           `json:"loop_number,omitempty" yaml:"-" msgpack:"loop_number,omitempty"`
	Suffix           string           `json:"suffix,omitempty" yaml:"-" msgpack:"suffix,omitempty"`
	Valid            bool             `json:"valid" yaml:"-" msgpack:"valid"`
	Mounting         MountingLocation `json:"mounting_location,omitempty" yaml:"-" msgpack:"mounting_location,omitempty"`
	Signal           SignalType       `json:"signal_type,omitempty" yaml:"-" msgpack:"signal_type,omitempty"`
	ConnectionPoint  string           `json:"connection_point,omitempty" yaml:"-" msgpack:"connection_point,omitempty"`
	Position         Point            `json:"position" yaml:"-" msgpack:"position"`
}

// HasFunction reports whether letter is one of the instrument's function codes.
func (i Instrument) HasFunction(letter string) bool {
	for _, f := range i.Functions {
		if f == letter {
			return true
		}
	}
	return false
}

// ControlLoop groups the instruments sharing a loop number.
type ControlLoop struct {
	Number         string   `json:"number" msgpack:"number"`
	Instruments    []string `json:"instruments" msgpack:"instruments"`
	HasController  bool     `json:"has_controller" msgpack:"has_controller"`
	HasTransmitter bool     `json:"has_transmitter" msgpack:"has_transmitter"`
	HasValve       bool     `json:"has_valve" msgpack:"has_valve"`
	HasIndicator   bool     `json:"has_indicator" msgpack:"has_indicator"`
}
