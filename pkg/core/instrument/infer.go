package instrument

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// Inference names the rule that connected an instrument.
type Inference string

// Inference rules, in the order they are tried.
const (
	ByReference   Inference = "reference"
	ByDescription Inference = "description-tag"
	ByKeyword     Inference = "description-keyword"
	ByVariable    Inference = "measured-variable"
	ByDistance    Inference = "nearest"
	Unconnected   Inference = ""
)

// descriptionKeywords map free-text words to equipment categories. Order
// matters: the first keyword found decides.
var descriptionKeywords = []struct {
	keyword  string
	category diagram.Category
}{
	{"pump", diagram.CategoryPump},
	{"compressor", diagram.CategoryCompressor},
	{"blower", diagram.CategoryCompressor},
	{"column", diagram.CategoryColumn},
	{"tower", diagram.CategoryColumn},
	{"reactor", diagram.CategoryReactor},
	{"separator", diagram.CategorySeparator},
	{"exchanger", diagram.CategoryHeatExchanger},
	{"cooler", diagram.CategoryHeatExchanger},
	{"heater", diagram.CategoryHeatExchanger},
	{"condenser", diagram.CategoryHeatExchanger},
	{"reboiler", diagram.CategoryHeatExchanger},
	{"vessel", diagram.CategoryVessel},
	{"tank", diagram.CategoryVessel},
	{"drum", diagram.CategoryVessel},
}

// variableCategories are the equipment categories each measured variable
// usually sits on.
var variableCategories = map[string][]diagram.Category{
	"F": {diagram.CategoryPump},
	"L": {diagram.CategoryVessel, diagram.CategorySeparator},
	"P": {diagram.CategoryVessel, diagram.CategoryColumn, diagram.CategoryReactor},
	"T": {diagram.CategoryHeatExchanger, diagram.CategoryReactor},
}

// Infer picks the equipment an instrument connects to and reports which
// rule decided. The rules, in order:
//
//  1. the explicit equipment reference, which must exist
//  2. an equipment tag mentioned in the description
//  3. an equipment-type keyword in the description
//  4. the measured variable (F on pumps, L on vessels, ...)
//  5. the nearest node to the hint, or to the equipment centroid
//
// An explicit reference to an unknown tag returns Unconnected; the caller
// reports it. With no nodes the result is always Unconnected.
func Infer(inst diagram.Instrument, measured string, nodes []diagram.EquipmentNode) (string, Inference) {
	if inst.Equipment != "" {
		if slices.ContainsFunc(nodes, func(n diagram.EquipmentNode) bool { return n.Tag == inst.Equipment }) {
			return inst.Equipment, ByReference
		}
		return "", Unconnected
	}
	if len(nodes) == 0 {
		return "", Unconnected
	}

	desc := strings.ToLower(inst.Description)
	if desc != "" {
		if tag := mentionedTag(desc, nodes); tag != "" {
			return tag, ByDescription
		}
		for _, k := range descriptionKeywords {
			if !strings.Contains(desc, k.keyword) {
				continue
			}
			if tag := firstOf(nodes, k.category); tag != "" {
				return tag, ByKeyword
			}
		}
	}

	if cats, ok := variableCategories[measured]; ok {
		if tag := firstOf(nodes, cats...); tag != "" {
			return tag, ByVariable
		}
	}

	ref := centroid(nodes)
	if inst.Hint != nil {
		ref = *inst.Hint
	}
	return nearest(nodes, ref), ByDistance
}

// mentionedTag returns the longest equipment tag that desc (lower case)
// names as a whole word, so "p-101" is not read as "p-1". Ties go to the
// earlier node.
func mentionedTag(desc string, nodes []diagram.EquipmentNode) string {
	best := ""
	for _, n := range nodes {
		if len(n.Tag) > len(best) && containsWord(desc, strings.ToLower(n.Tag)) {
			best = n.Tag
		}
	}
	return best
}

// containsWord reports whether word occurs in s with no letter or digit
// directly before or after it.
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		from = start + 1
	}
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func firstOf(nodes []diagram.EquipmentNode, cats ...diagram.Category) string {
	for _, n := range nodes {
		if slices.Contains(cats, n.Category) {
			return n.Tag
		}
	}
	return ""
}

func centroid(nodes []diagram.EquipmentNode) diagram.Point {
	var c diagram.Point
	for _, n := range nodes {
		c.X += n.Position.X
		c.Y += n.Position.Y
	}
	k := float64(len(nodes))
	return diagram.Point{X: c.X / k, Y: c.Y / k}
}

// nearest returns the tag closest to p. Ties go to the earlier node.
func nearest(nodes []diagram.EquipmentNode, p diagram.Point) string {
	best, bestDist := "", math.Inf(1)
	for _, n := range nodes {
		if d := n.Position.Distance(p); d < bestDist {
			best, bestDist = n.Tag, d
		}
	}
	return best
}
