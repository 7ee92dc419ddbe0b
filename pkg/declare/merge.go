package declare

import (
	"maps"
	"slices"
)

// Set is the merged view of one or more parsed files.
type Set struct {
	// Raw maps each output key to the keys it reads.
	Raw map[string][]string
	// Origins records where each output was last declared.
	Origins  map[string]Location
	Files    []string
	Warnings []Warning
}

// Merge combines files in the order given. When an output is declared more
// than once, the last declaration wins and a warning names the one it
// replaced.
func Merge(files ...*File) *Set {
	s := &Set{
		Raw:     make(map[string][]string),
		Origins: make(map[string]Location),
	}
	for _, f := range files {
		if f == nil {
			continue
		}
		s.Files = append(s.Files, f.Path)
		s.Warnings = append(s.Warnings, f.Warnings...)

		for _, b := range f.Blocks {
			for i, out := range b.Outputs {
				loc := Location{File: f.Path, Line: b.Lines[i]}
				if prev, ok := s.Origins[out]; ok && prev.File != f.Path {
					s.Warnings = append(s.Warnings, Warning{
						Location: loc,
						Reason:   "output " + out + " redeclared, replacing " + prev.String(),
					})
				}
				s.Raw[out] = slices.Clone(b.Inputs)
				if s.Raw[out] == nil {
					s.Raw[out] = []string{}
				}
				s.Origins[out] = loc
			}
		}
	}
	return s
}

// Outputs returns the declared output keys in sorted order.
func (s *Set) Outputs() []string {
	return slices.Sorted(maps.Keys(s.Raw))
}

// Len returns the number of declared outputs.
func (s *Set) Len() int { return len(s.Raw) }
