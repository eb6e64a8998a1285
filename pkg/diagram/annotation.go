package diagram

// AnnotationType classifies an annotation.
type AnnotationType string

// Annotation types.
const (
	AnnotationNote         AnnotationType = "note"
	AnnotationProcessData  AnnotationType = "process_data"
	AnnotationEquipmentTag AnnotationType = "equipment_tag"
	AnnotationSafety       AnnotationType = "safety"
	AnnotationDesignBasis  AnnotationType = "design_basis"
	AnnotationRevision     AnnotationType = "revision"
	AnnotationCallout      AnnotationType = "callout"
	AnnotationDimension    AnnotationType = "dimension"
	AnnotationLegend       AnnotationType = "legend"
)

// SafetyLevel grades safety annotations.
type SafetyLevel string

// Safety levels.
const (
	SafetyHigh     SafetyLevel = "HIGH"
	SafetyCritical SafetyLevel = "CRITICAL"
)

// Annotation is a text or graphic callout with a bounding box.
//
// Lower Priority values are placed first. Fixed annotations keep their box
// and skip overlap resolution. Path carries extra geometry: the outline of a
// revision cloud, the leader of a callout, or a dimension line.
type Annotation struct {
	ID          string         `json:"id" yaml:"id" msgpack:"id"`
	Type        AnnotationType `json:"type" yaml:"type" msgpack:"type"`
	Box         Rect           `json:"box" yaml:"box" msgpack:"box"`
	Text        string         `json:"text" yaml:"text" msgpack:"text"`
	Priority    int            `json:"priority" yaml:"priority" msgpack:"priority"`
	Fixed       bool           `json:"fixed,omitempty" yaml:"fixed,omitempty" msgpack:"fixed,omitempty"`
	Associated  string         `json:"associated,omitempty" yaml:"associated,omitempty" msgpack:"associated,omitempty"`
	SafetyLevel SafetyLevel    `json:"safety_level,omitempty" yaml:"safety_level,omitempty" msgpack:"safety_level,omitempty"`
	Path        []Point        `json:"path,omitempty" yaml:"path,omitempty" msgpack:"path,omitempty"`
	Items       []string       `json:"items,omitempty" yaml:"items,omitempty" msgpack:"items,omitempty"`
}
