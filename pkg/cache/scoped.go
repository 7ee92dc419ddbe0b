package cache

// ScopedKeyer prefixes every key of an inner keyer, so several projects can
// share one Redis server without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "calctree:pathfinder:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses the
// default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

func (k *ScopedKeyer) TreeKey(rawHash string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(rawHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(treeHash, opts)
}
