package instrument

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`^([A-Z]+)[-\s]?(\d+)([A-Z]?)$`)

// Tag is a parsed instrument tag.
type Tag struct {
	MeasuredVariable string
	Functions        []string
	LoopNumber       string
	Suffix           string
	Valid            bool
}

// Unclassified is the parse result for tags that do not match the grammar.
func Unclassified() Tag {
	return Tag{MeasuredVariable: "X", Functions: []string{"I"}, LoopNumber: "000"}
}

// ParseTag splits an ISA tag into its parts. Matching is case-insensitive
// and ignores surrounding space. Tags that do not match yield
// [Unclassified] with Valid false.
func ParseTag(s string) Tag {
	m := tagPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return Unclassified()
	}
	letters := m[1]
	t := Tag{
		MeasuredVariable: letters[:1],
		Functions:        make([]string, 0, len(letters)-1),
		LoopNumber:       m[2],
		Suffix:           m[3],
		Valid:            true,
	}
	for _, r := range letters[1:] {
		t.Functions = append(t.Functions, string(r))
	}
	return t
}
