// Package rank assigns calculation stages to character-sheet data items.
//
// # Overview
//
// A character sheet is computed in stages. Each calculation declares which
// item keys it reads (inputs) and which it writes (outputs). This package
// turns those declarations into a rank per key so that a downstream evaluator
// can compute every key after everything it depends on:
//
//	raw := map[string][]string{
//	    "out:total": {"in:a", "in:b"},
//	    "in:a":      {"in:c"},
//	}
//	ranks, err := rank.Rank(raw)
//	// ranks == {"out:total": 1, "in:a": 0, "in:b": 0, "in:c": -1}
//
// Lower ranks are computed earlier. A dependency always ranks strictly below
// every key that depends on it, directly or transitively.
//
// # Keys
//
// Item keys have the form "section:code". A declaration may use the wildcard
// "*" (normalised to ".+") to refer to a whole class of items, for example
// "skills:.+". Such keys are a [Pattern]; everything else is a [Literal].
//
// When propagation reaches a literal key with no rank entry of its own, every
// pattern entry that matches it is tightened instead, and propagation goes on
// from the lowest of those ranks. This lets "skills:.+" pick up an earlier
// rank as soon as some calculation needs "skills:athletics" early.
//
// # Ranks only move earlier
//
// Once a key has a rank, later propagation can only lower it. Reaching a key
// through a longer dependency chain pushes it earlier; a shorter chain never
// pushes it later.
//
// # Cycles
//
// Cyclic declarations make ranks meaningless. [Rank] tracks the keys on the
// active propagation path and fails with a [*CyclicDependencyError] naming
// the cycle instead of recursing forever.
//
// # Grouping
//
// [Group] buckets keys by rank with each bucket sorted alphabetically, the
// shape persisted by the io package as the "dependency tree" artifact.
package rank
