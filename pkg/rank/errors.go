package rank

import (
	"slices"
	"strings"

	"github.com/fiktools/calctree/pkg/errors"
)

// CyclicDependencyError reports a dependency cycle found while ranking.
// Cycle lists the keys in propagation order and repeats the first key at
// the end, e.g. [a b a].
type CyclicDependencyError struct {
	Cycle []string
}

func newCycleError(path []string, repeated string) *CyclicDependencyError {
	start := slices.Index(path, repeated)
	cycle := append(slices.Clone(path[start:]), repeated)
	return &CyclicDependencyError{Cycle: cycle}
}

// Error implements the error interface.
func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Cycle, " -> ")
}

// ErrorCode lets [errors.Is] match the error against
// [errors.ErrCodeCyclicDependency].
func (e *CyclicDependencyError) ErrorCode() errors.Code {
	return errors.ErrCodeCyclicDependency
}
