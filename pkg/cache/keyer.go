package cache

import (
	"maps"
	"slices"
)

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey identifies ranks computed for a declaration map.
	TreeKey(rawHash string, opts TreeKeyOpts) string
	// ArtifactKey identifies a rendered output of a ranked tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// TreeKeyOpts holds the options that change ranking results.
type TreeKeyOpts struct {
	Seed int `json:"seed"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer builds keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) TreeKey(rawHash string, opts TreeKeyOpts) string {
	return hashKey("tree", rawHash, opts)
}

func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}

// HashRaw hashes a declaration map independently of map iteration order.
// Inputs keep their declared order, and a nil input list hashes the same as
// an empty one.
func HashRaw(raw map[string][]string) string {
	type entry struct {
		Output string   `json:"o"`
		Inputs []string `json:"i"`
	}
	entries := make([]entry, 0, len(raw))
	for _, out := range slices.Sorted(maps.Keys(raw)) {
		in := raw[out]
		if in == nil {
			in = []string{}
		}
		entries = append(entries, entry{Output: out, Inputs: in})
	}
	return hashKey("raw", entries)
}
