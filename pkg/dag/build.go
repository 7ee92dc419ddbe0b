package dag

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fiktools/calctree/pkg/rank"
)

// FromRanks builds the ranked graph for a declaration map. Every ranked key
// becomes a node. An input resolves to its own node when it has one, and to
// every matching pattern node otherwise, mirroring how the ranker resolved
// it.
func FromRanks(raw map[string][]string, ranks rank.Ranks) (*DAG, error) {
	g := New(nil)
	var patterns []rank.Key
	for _, id := range ranks.Keys() {
		k := rank.ParseKey(id)
		if k.IsPattern() {
			patterns = append(patterns, k)
		}
		if err := g.AddNode(newNode(id, ranks[id], k, raw)); err != nil {
			return nil, err
		}
	}

	exact := func(s string) bool {
		_, ok := ranks[s]
		return ok
	}
	for _, out := range slices.Sorted(maps.Keys(raw)) {
		if !exact(out) {
			return nil, fmt.Errorf("output %s has no rank", out)
		}
		for _, in := range raw[out] {
			for _, to := range resolveTargets(in, exact, patterns) {
				if err := g.AddEdge(Edge{From: out, To: to}); err != nil {
					return nil, fmt.Errorf("edge %s -> %s: %w", out, to, err)
				}
			}
		}
	}
	return g, nil
}

// FromRaw builds an unranked graph straight from a declaration map. Inputs
// that are not outputs resolve against every pattern key in raw, declared or
// read, the same way the ranker resolves them. All nodes get rank 0, which
// makes the graph suitable for cycle search and layering but not for
// Validate.
func FromRaw(raw map[string][]string) *DAG {
	g := New(nil)
	outputs := slices.Sorted(maps.Keys(raw))

	var patterns []rank.Key
	seen := make(map[string]bool)
	addPattern := func(id string) {
		k := rank.ParseKey(id)
		if !k.IsPattern() || seen[id] {
			return
		}
		seen[id] = true
		patterns = append(patterns, k)
		_ = g.AddNode(newNode(id, 0, k, raw))
	}
	for _, out := range outputs {
		_ = g.AddNode(newNode(out, 0, rank.ParseKey(out), raw))
		addPattern(out)
	}
	for _, out := range outputs {
		for _, in := range raw[out] {
			addPattern(in)
		}
	}
	slices.SortFunc(patterns, func(a, b rank.Key) int { return strings.Compare(a.String(), b.String()) })

	exact := func(s string) bool {
		_, ok := raw[s]
		return ok || rank.ParseKey(s).IsPattern()
	}
	for _, out := range outputs {
		for _, in := range raw[out] {
			targets := resolveTargets(in, exact, patterns)
			if len(targets) == 0 {
				_ = g.AddNode(newNode(in, 0, rank.ParseKey(in), raw))
				targets = []string{in}
			}
			for _, to := range targets {
				_ = g.AddEdge(Edge{From: out, To: to})
			}
		}
	}
	return g
}

func newNode(id string, r int, k rank.Key, raw map[string][]string) Node {
	meta := Metadata{}
	if k.IsPattern() {
		meta[MetaPattern] = true
	}
	if _, ok := raw[id]; ok {
		meta[MetaOutput] = true
	}
	return Node{ID: id, Rank: r, Meta: meta}
}

// resolveTargets returns the node IDs an input resolves to. Patterns never
// match other patterns. An unresolvable input yields nil.
func resolveTargets(in string, exact func(string) bool, patterns []rank.Key) []string {
	if exact(in) {
		return []string{in}
	}
	if rank.ParseKey(in).IsPattern() {
		return nil
	}
	var out []string
	for _, p := range patterns {
		if p.Matches(in) {
			out = append(out, p.String())
		}
	}
	return out
}
