package rank

import (
	"maps"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SeedRank is the rank every declared output starts from.
const SeedRank = 1

// defaultKeyCacheSize bounds the compiled key cache shared across runs.
const defaultKeyCacheSize = 4096

// Ranks maps item keys (literal or pattern) to their calculation stage.
type Ranks map[string]int

// Keys returns all ranked keys in sorted order.
func (r Ranks) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Levels returns the distinct rank values in ascending order.
func (r Ranks) Levels() []int {
	seen := make(map[int]struct{}, len(r))
	for _, v := range r {
		seen[v] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Lookup resolves key the same way propagation does: an exact entry first,
// then the matching pattern entries. It returns the entry that holds the
// lowest rank, or false when nothing covers key.
func (r Ranks) Lookup(key string) (entry string, rank int, ok bool) {
	if v, found := r[key]; found {
		return key, v, true
	}
	if ParseKey(key).IsPattern() {
		return "", 0, false
	}
	for _, k := range r.Keys() {
		pk := ParseKey(k)
		if !pk.IsPattern() || !pk.Matches(key) {
			continue
		}
		if v := r[k]; !ok || v < rank {
			entry, rank, ok = k, v, true
		}
	}
	return entry, rank, ok
}

// Ranker computes ranks for raw dependency maps.
//
// A Ranker holds no per-run state, so one Ranker may serve concurrent calls
// to [Ranker.Rank]. The zero value is not usable; use [New].
type Ranker struct {
	seed int
	keys *lru.Cache[string, Key]
}

// New creates a Ranker that seeds outputs at [SeedRank].
func New() *Ranker {
	keys, _ := lru.New[string, Key](defaultKeyCacheSize)
	return &Ranker{seed: SeedRank, keys: keys}
}

// WithSeed returns a copy of r that seeds outputs at seed. The compiled key
// cache is shared with r.
func (r *Ranker) WithSeed(seed int) *Ranker {
	return &Ranker{seed: seed, keys: r.keys}
}

// Seed returns the rank outputs are seeded at.
func (r *Ranker) Seed() int { return r.seed }

var defaultRanker = New()

// Rank ranks raw using a shared default [Ranker].
func Rank(raw map[string][]string) (Ranks, error) {
	return defaultRanker.Rank(raw)
}

// Rank assigns a rank to every key in raw, outputs and inputs alike.
//
// raw maps each output key to the input keys it is computed from. Every
// output, and every pattern key whether declared or read, is registered at
// the seed rank before propagation starts. Outputs always keep an entry of
// their own, and a literal input resolves against the same set of patterns
// no matter where in the walk it is reached. Outputs are then propagated in
// sorted order so that repeated runs produce identical maps. A cyclic raw map
// yields a [*CyclicDependencyError]; nil or empty input yields an empty map.
func (r *Ranker) Rank(raw map[string][]string) (Ranks, error) {
	st := &state{
		ranker:   r,
		raw:      raw,
		ranks:    make(Ranks, len(raw)),
		onPath:   make(map[string]bool),
		expanded: make(map[string]int),
	}
	outputs := slices.Sorted(maps.Keys(raw))
	for _, out := range outputs {
		st.ranks[out] = r.seed
		st.register(out)
	}
	for _, out := range outputs {
		for _, in := range raw[out] {
			st.register(in)
		}
	}
	for _, out := range outputs {
		if err := st.propagate(out, r.seed); err != nil {
			return nil, err
		}
	}
	return st.ranks, nil
}

func (r *Ranker) parse(s string) Key {
	if k, ok := r.keys.Get(s); ok {
		return k
	}
	k := ParseKey(s)
	r.keys.Add(s, k)
	return k
}

// target is a rank entry whose declared inputs must be walked.
type target struct {
	key  string
	rank int
}

// state is the accumulator for a single ranking run.
type state struct {
	ranker   *Ranker
	raw      map[string][]string
	ranks    Ranks
	patterns []Key // pattern entries in ranks, sorted by string
	onPath   map[string]bool
	path     []string
	expanded map[string]int // rank each key's inputs were last walked from
}

func (s *state) propagate(value string, rank int) error {
	for _, t := range s.resolve(value, rank) {
		if err := s.expand(t.key, t.rank); err != nil {
			return err
		}
	}
	return nil
}

// expand walks the declared inputs of key one rank below it.
func (s *state) expand(key string, rank int) error {
	if s.onPath[key] {
		return newCycleError(s.path, key)
	}
	inputs := s.raw[key]
	if len(inputs) == 0 {
		return nil
	}

	// The pattern set is fixed for the run, so re-walking from the same or a
	// later rank cannot change any entry.
	if prev, done := s.expanded[key]; done && prev <= rank {
		return nil
	}
	s.expanded[key] = rank

	s.onPath[key] = true
	s.path = append(s.path, key)
	defer func() {
		s.path = s.path[:len(s.path)-1]
		delete(s.onPath, key)
	}()

	for _, in := range inputs {
		if err := s.propagate(in, rank-1); err != nil {
			return err
		}
	}
	return nil
}

// resolve applies rank to the entry or entries covering value. The first
// target is always value itself at the rank propagation continues from; any
// pattern entries it resolved through follow, since tightening a pattern
// must also push that pattern's own inputs earlier.
func (s *state) resolve(value string, rank int) []target {
	if existing, ok := s.ranks[value]; ok {
		if existing > rank {
			s.ranks[value] = rank
		}
		return []target{{value, s.ranks[value]}}
	}

	key := s.ranker.parse(value)
	if !key.IsPattern() {
		var matched []target
		best := 0
		for _, p := range s.patterns {
			if !p.Matches(value) {
				continue
			}
			name := p.String()
			if s.ranks[name] > rank {
				s.ranks[name] = rank
			}
			if len(matched) == 0 || s.ranks[name] < best {
				best = s.ranks[name]
			}
			matched = append(matched, target{name, s.ranks[name]})
		}
		if len(matched) > 0 {
			return append([]target{{value, best}}, matched...)
		}
	}

	s.ranks[value] = rank
	if key.IsPattern() {
		s.addPattern(key)
	}
	return []target{{value, rank}}
}

// register seeds a pattern key at the seed rank. Literal keys are left for
// propagation to place.
func (s *state) register(key string) {
	k := s.ranker.parse(key)
	if !k.IsPattern() {
		return
	}
	if _, ok := s.ranks[key]; !ok {
		s.ranks[key] = s.ranker.seed
	}
	s.addPattern(k)
}

func (s *state) addPattern(k Key) {
	i, found := slices.BinarySearchFunc(s.patterns, k.String(), func(p Key, v string) int {
		return strings.Compare(p.String(), v)
	})
	if !found {
		s.patterns = slices.Insert(s.patterns, i, k)
	}
}
