package diagram

// Input is the content of a drawing before layout.
type Input struct {
	Metadata    Metadata        `json:"metadata" yaml:"metadata" msgpack:"metadata"`
	Equipment   []EquipmentNode `json:"equipment" yaml:"equipment" msgpack:"equipment"`
	Connections []Connection    `json:"connections,omitempty" yaml:"connections,omitempty" msgpack:"connections,omitempty"`
	Instruments []Instrument    `json:"instruments,omitempty" yaml:"instruments,omitempty" msgpack:"instruments,omitempty"`
	Markups     []Markup        `json:"markups,omitempty" yaml:"markups,omitempty" msgpack:"markups,omitempty"`
}

// Markup is a user-authored annotation anchored to equipment. It is resolved
// into an [Annotation] once the equipment is placed.
//
// Notes and callouts point at Target. Dimensions measure From to To, drawn
// Offset away from the centre line.
type Markup struct {
	Type   AnnotationType `json:"type" yaml:"type" msgpack:"type"`
	Text   string         `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Target string         `json:"target,omitempty" yaml:"target,omitempty" msgpack:"target,omitempty"`
	From   string         `json:"from,omitempty" yaml:"from,omitempty" msgpack:"from,omitempty"`
	To     string         `json:"to,omitempty" yaml:"to,omitempty" msgpack:"to,omitempty"`
	At     *Point         `json:"at,omitempty" yaml:"at,omitempty" msgpack:"at,omitempty"`
	Offset float64        `json:"offset,omitempty" yaml:"offset,omitempty" msgpack:"offset,omitempty"`
}
