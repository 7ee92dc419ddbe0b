package rank

import (
	"maps"
	"slices"
)

// Tree groups keys by rank. Every bucket is sorted alphabetically.
type Tree map[int][]string

// Group buckets ranks by value.
func Group(ranks Ranks) Tree {
	t := make(Tree)
	for k, v := range ranks {
		t[v] = append(t[v], k)
	}
	for v := range t {
		slices.Sort(t[v])
	}
	return t
}

// Levels returns the ranks present in t in ascending order.
func (t Tree) Levels() []int {
	return slices.Sorted(maps.Keys(t))
}

// Len returns the number of keys across all buckets.
func (t Tree) Len() int {
	n := 0
	for _, keys := range t {
		n += len(keys)
	}
	return n
}

// Ranks flattens t back into a rank map.
func (t Tree) Ranks() Ranks {
	r := make(Ranks, t.Len())
	for v, keys := range t {
		for _, k := range keys {
			r[k] = v
		}
	}
	return r
}

// Leaves returns the ranked keys that raw never declares as outputs: raw
// inputs with no further upstream dependency. Leaves are expected and are
// not an error, but listing them helps spot misspelt keys.
func Leaves(raw map[string][]string, ranks Ranks) []string {
	var leaves []string
	for _, k := range ranks.Keys() {
		if _, ok := raw[k]; !ok {
			leaves = append(leaves, k)
		}
	}
	return leaves
}
