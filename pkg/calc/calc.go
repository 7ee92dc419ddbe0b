// Package calc records how a sheet value was computed, so the sheet can show
// "12 (base) + 2 (dex) - 1 (armour) = 13" next to the final number.
package calc

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultSection is the section used by callers that only track one value.
const DefaultSection = "default"

// Detail accumulates one value together with its breakdown.
type Detail struct {
	value int
	parts strings.Builder
}

// Set resets the value and starts a new breakdown.
func (d *Detail) Set(value int, why string) {
	d.value = value
	d.parts.Reset()
	fmt.Fprintf(&d.parts, "%d (%s)", value, why)
}

// Add adjusts the value and appends a signed term to the breakdown.
func (d *Detail) Add(value int, why string) {
	d.value += value
	sign, abs := "+", value
	if value < 0 {
		sign, abs = "-", -value
	}
	fmt.Fprintf(&d.parts, " %s %d (%s)", sign, abs, why)
}

// Value returns the running total.
func (d *Detail) Value() int { return d.value }

// Result returns the total and the breakdown ending in "= total".
func (d *Detail) Result() (int, string) {
	return d.value, fmt.Sprintf("%s = %d", d.parts.String(), d.value)
}

// Sheet holds one Detail per named section.
type Sheet struct {
	sections map[string]*Detail
}

// NewSheet returns a sheet with an empty default section.
func NewSheet() *Sheet {
	return &Sheet{sections: map[string]*Detail{DefaultSection: {}}}
}

// Section returns the named section, creating it on first use.
func (s *Sheet) Section(name string) *Detail {
	d, ok := s.sections[name]
	if !ok {
		d = &Detail{}
		s.sections[name] = d
	}
	return d
}

// Sections returns the section names in sorted order.
func (s *Sheet) Sections() []string {
	return slices.Sorted(maps.Keys(s.sections))
}
