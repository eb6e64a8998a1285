package diagram

import "strings"

// =============================================================================
// Category
// =============================================================================

// Category classifies an equipment node.
type Category string

// Equipment categories.
const (
	CategoryPump          Category = "pump"
	CategoryVessel        Category = "vessel"
	CategoryColumn        Category = "column"
	CategoryHeatExchanger Category = "heat_exchanger"
	CategoryCompressor    Category = "compressor"
	CategorySeparator     Category = "separator"
	CategoryReactor       Category = "reactor"
	CategoryOther         Category = "other"
)

// categoryAliases maps free-form equipment type names onto categories.
var categoryAliases = map[string]Category{
	"pump":           CategoryPump,
	"vessel":         CategoryVessel,
	"tank":           CategoryVessel,
	"drum":           CategoryVessel,
	"column":         CategoryColumn,
	"tower":          CategoryColumn,
	"heat_exchanger": CategoryHeatExchanger,
	"heat exchanger": CategoryHeatExchanger,
	"heatexchanger":  CategoryHeatExchanger,
	"exchanger":      CategoryHeatExchanger,
	"cooler":         CategoryHeatExchanger,
	"heater":         CategoryHeatExchanger,
	"condenser":      CategoryHeatExchanger,
	"reboiler":       CategoryHeatExchanger,
	"compressor":     CategoryCompressor,
	"blower":         CategoryCompressor,
	"separator":      CategorySeparator,
	"reactor":        CategoryReactor,
}

// ParseCategory normalizes an equipment type name. Unknown names map to
// CategoryOther.
func ParseCategory(s string) Category {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return CategoryOther
}

// IsMajor reports whether the category counts as major equipment for the
// flow-direction heuristic.
func (c Category) IsMajor() bool {
	return c == CategoryColumn || c == CategoryReactor
}

// IsRotating reports whether the category is rotating equipment.
func (c Category) IsRotating() bool {
	return c == CategoryPump || c == CategoryCompressor
}

// defaultSizes are footprints used when a node arrives without a size.
var defaultSizes = map[Category]Size{
	CategoryPump:          {Width: 60, Height: 60},
	CategoryVessel:        {Width: 80, Height: 120},
	CategoryColumn:        {Width: 60, Height: 200},
	CategoryHeatExchanger: {Width: 100, Height: 50},
	CategoryCompressor:    {Width: 80, Height: 80},
	CategorySeparator:     {Width: 100, Height: 60},
	CategoryReactor:       {Width: 80, Height: 140},
	CategoryOther:         {Width: 60, Height: 60},
}

// DefaultSize returns the default footprint of a category.
func (c Category) DefaultSize() Size {
	if s, ok := defaultSizes[c]; ok {
		return s
	}
	return defaultSizes[CategoryOther]
}

// =============================================================================
// Elevation
// =============================================================================

// ElevationBand is a coarse vertical placement category.
type ElevationBand string

// Elevation bands, top to bottom.
const (
	ElevationOverhead ElevationBand = "overhead"
	ElevationHigh     ElevationBand = "high"
	ElevationMedium   ElevationBand = "medium"
	ElevationLow      ElevationBand = "low"
	ElevationGround   ElevationBand = "ground"
)

// ParseElevation normalizes an elevation name, defaulting to medium.
func ParseElevation(s string) ElevationBand {
	switch b := ElevationBand(strings.ToLower(strings.TrimSpace(s))); b {
	case ElevationOverhead, ElevationHigh, ElevationMedium, ElevationLow, ElevationGround:
		return b
	}
	return ElevationMedium
}

// =============================================================================
// EquipmentNode
// =============================================================================

// EquipmentNode is a process unit on the diagram.
type EquipmentNode struct {
	Tag         string         `json:"tag" yaml:"tag" msgpack:"tag"`
	Category    Category       `json:"category" yaml:"category" msgpack:"category"`
	Position    Point          `json:"position" yaml:"position" msgpack:"position"`
	Size        Size           `json:"size" yaml:"size" msgpack:"size"`
	Elevation   ElevationBand  `json:"elevation" yaml:"elevation" msgpack:"elevation"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" msgpack:"description,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// Bounds returns the node footprint.
func (n EquipmentNode) Bounds() Rect {
	return RectAround(n.Position, n.Size)
}

// Normalized returns a copy with category, size and elevation defaulted.
func (n EquipmentNode) Normalized() EquipmentNode {
	if n.Category == "" {
		n.Category = CategoryOther
	} else {
		n.Category = ParseCategory(string(n.Category))
	}
	if n.Size.IsZero() {
		n.Size = n.Category.DefaultSize()
	}
	n.Elevation = ParseElevation(string(n.Elevation))
	return n
}

// Number returns the first digit run in the tag ("P-101A" → "101"), or "".
func (n EquipmentNode) Number() string {
	start := -1
	for i, r := range n.Tag {
		isDigit := r >= '0' && r <= '9'
		if isDigit && start < 0 {
			start = i
		}
		if !isDigit && start >= 0 {
			return n.Tag[start:i]
		}
	}
	if start >= 0 {
		return n.Tag[start:]
	}
	return ""
}

// AttrFloat reads a numeric attribute. Strings holding numbers are accepted.
func (n EquipmentNode) AttrFloat(key string) (float64, bool) {
	return AttributeFloat(n.Attributes, key)
}

// AttrString reads a string attribute.
func (n EquipmentNode) AttrString(key string) string {
	return AttributeString(n.Attributes, key)
}

// CloneNodes returns a deep-enough copy of nodes for engines that reposition
// them. Attribute maps are shared; engines never write to them.
func CloneNodes(nodes []EquipmentNode) []EquipmentNode {
	out := make([]EquipmentNode, len(nodes))
	copy(out, nodes)
	return out
}

// IndexByTag maps each tag to its index in nodes. Later duplicates are ignored.
func IndexByTag(nodes []EquipmentNode) map[string]int {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, ok := idx[n.Tag]; !ok {
			idx[n.Tag] = i
		}
	}
	return idx
}
