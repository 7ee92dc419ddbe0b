package talent

import (
	"strings"

	"github.com/fiktools/calctree/pkg/textfmt"
)

// List is the "|"-delimited talent string stored on a character, such as
// "|dodge!|weapon focus!longsword|". The zero value is an empty list.
type List struct {
	s string
}

// ParseList wraps a stored talent string.
func ParseList(s string) *List {
	return &List{s: s}
}

func (l *List) String() string {
	if l.s == "" {
		return "|"
	}
	return l.s
}

func (l *List) contains(code string) bool {
	return strings.Contains(l.String(), "|"+code+"|")
}

// Has reports whether the list holds talent with addendum, ignoring case.
func (l *List) Has(talent, addendum string) bool {
	return l.contains(strings.ToLower(talent) + Separator + strings.ToLower(addendum))
}

// Add appends talent with addendum, converted to codes, unless present.
// It reports whether the list changed.
func (l *List) Add(talent, addendum string) bool {
	code := textfmt.NameToCode(talent) + Separator + textfmt.NameToCode(addendum)
	if l.contains(code) {
		return false
	}
	l.s = l.String() + code + "|"
	return true
}

// Addendum returns the addendum of the first entry for talent.
func (l *List) Addendum(talent string) (string, bool) {
	for entry := range strings.SplitSeq(l.s, "|") {
		if strings.HasPrefix(entry, talent+Separator) {
			_, addendum := Components(entry)
			return addendum, true
		}
	}
	return "", false
}

// Codes returns the entries in stored order.
func (l *List) Codes() []string {
	var out []string
	for entry := range strings.SplitSeq(l.s, "|") {
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
