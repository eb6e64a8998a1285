package diagram

import "fmt"

// =============================================================================
// Diagnostics
// =============================================================================

// Stage names the engine that produced a diagnostic.
type Stage string

// Pipeline stages.
const (
	StagePlacement       Stage = "placement"
	StageRouting         Stage = "routing"
	StageInstrumentation Stage = "instrumentation"
	StageAnnotation      Stage = "annotation"
)

// DiagnosticKind classifies a degraded outcome.
type DiagnosticKind string

// Diagnostic kinds.
const (
	// KindMissingReference: an item referenced an unknown equipment tag and was skipped.
	KindMissingReference DiagnosticKind = "missing-reference"
	// KindSearchExhaustion: A* hit its expansion budget; the route fell back to manhattan.
	KindSearchExhaustion DiagnosticKind = "search-exhaustion"
	// KindPlacementExhaustion: collision resolution stopped with collisions left.
	KindPlacementExhaustion DiagnosticKind = "placement-exhaustion"
	// KindMalformedTag: an instrument tag failed the grammar and was defaulted.
	KindMalformedTag DiagnosticKind = "malformed-tag"
	// KindResidualOverlap: an annotation could not be placed without overlap.
	KindResidualOverlap DiagnosticKind = "residual-overlap"
)

// Diagnostic reports a non-fatal problem observed while computing a diagram.
type Diagnostic struct {
	Stage   Stage          `json:"stage" msgpack:"stage"`
	Kind    DiagnosticKind `json:"kind" msgpack:"kind"`
	Subject string         `json:"subject,omitempty" msgpack:"subject,omitempty"`
	Message string         `json:"message" msgpack:"message"`
}

// NewDiagnostic builds a Diagnostic with a formatted message.
func NewDiagnostic(stage Stage, kind DiagnosticKind, subject, format string, args ...any) Diagnostic {
	return Diagnostic{Stage: stage, Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	if d.Subject == "" {
		return fmt.Sprintf("%s/%s: %s", d.Stage, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s/%s [%s]: %s", d.Stage, d.Kind, d.Subject, d.Message)
}

// CountKind returns how many diagnostics have the given kind.
func CountKind(diags []Diagnostic, kind DiagnosticKind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// =============================================================================
// Diagram
// =============================================================================

// Metadata identifies the drawing.
type Metadata struct {
	DrawingNumber string   `json:"drawing_number,omitempty" yaml:"drawing_number,omitempty" msgpack:"drawing_number,omitempty"`
	Title         string   `json:"title,omitempty" yaml:"title,omitempty" msgpack:"title,omitempty"`
	Revision      string   `json:"revision,omitempty" yaml:"revision,omitempty" msgpack:"revision,omitempty"`
	Notes         []string `json:"notes,omitempty" yaml:"notes,omitempty" msgpack:"notes,omitempty"`
}

// Diagram is the fully positioned output of the pipeline.
type Diagram struct {
	Metadata     Metadata        `json:"metadata" msgpack:"metadata"`
	Canvas       Canvas          `json:"canvas" msgpack:"canvas"`
	Equipment    []EquipmentNode `json:"equipment" msgpack:"equipment"`
	Connections  []Connection    `json:"connections,omitempty" msgpack:"connections,omitempty"`
	Routes       []Route         `json:"routes,omitempty" msgpack:"routes,omitempty"`
	Instruments  []Instrument    `json:"instruments,omitempty" msgpack:"instruments,omitempty"`
	Loops        []ControlLoop   `json:"loops,omitempty" msgpack:"loops,omitempty"`
	SignalRoutes []Route         `json:"signal_routes,omitempty" msgpack:"signal_routes,omitempty"`
	Annotations  []Annotation    `json:"annotations,omitempty" msgpack:"annotations,omitempty"`
	Markups      []Markup        `json:"markups,omitempty" msgpack:"markups,omitempty"`
	Diagnostics  []Diagnostic    `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
}

// Node returns the equipment node with the given tag.
func (d *Diagram) Node(tag string) (EquipmentNode, bool) {
	for _, n := range d.Equipment {
		if n.Tag == tag {
			return n, true
		}
	}
	return EquipmentNode{}, false
}
