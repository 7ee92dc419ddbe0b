package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fiktools/calctree/pkg/cache"
	"github.com/fiktools/calctree/pkg/dag"
	"github.com/fiktools/calctree/pkg/declare"
	pkgio "github.com/fiktools/calctree/pkg/io"
	"github.com/fiktools/calctree/pkg/observability"
	"github.com/fiktools/calctree/pkg/rank"
)

// Runner executes pipeline stages with caching.
//
// A Runner keeps no results between calls, so one Runner can serve several
// goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Ranker *rank.Ranker
	// TreeTTL is how long ranks stay cached. Zero uses [cache.TTLTree].
	TreeTTL time.Duration
}

// NewRunner creates a runner. A nil keyer uses [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger uses the default charm logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Ranker: rank.New(),
	}
}

// Execute runs scan, rank and render, then writes the rendered formats
// unless opts.DryRun is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string]string)}

	// Stage 1: Scan
	scanStart := time.Now()
	set, err := r.Scan(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	result.Set = set
	result.Stats.ScanTime = time.Since(scanStart)
	result.Stats.Files = len(set.Files)
	result.Stats.Outputs = set.Len()

	r.Logger.Info("scanned declarations",
		"files", len(set.Files),
		"outputs", set.Len(),
		"warnings", len(set.Warnings),
		"duration", result.Stats.ScanTime)

	// Stage 2: Rank
	rankStart := time.Now()
	ranks, hit, err := r.RankWithCacheInfo(ctx, set.Raw, opts)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	result.Ranks = ranks
	result.Tree = rank.Group(ranks)
	result.Leaves = rank.Leaves(set.Raw, ranks)
	result.Stats.RankTime = time.Since(rankStart)
	result.Stats.Keys = len(ranks)
	result.Stats.Levels = len(result.Tree)
	result.CacheInfo.RankHit = hit

	g, err := dag.FromRanks(set.Raw, ranks)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validate graph: %w", err)
	}
	result.Graph = g
	result.Stats.Edges = g.EdgeCount()

	r.Logger.Info("ranked items",
		"keys", len(ranks),
		"levels", len(result.Tree),
		"leaves", len(result.Leaves),
		"cached", hit,
		"duration", result.Stats.RankTime)

	// Stage 3: Render
	renderStart := time.Now()
	outputs, hit, err := r.RenderWithCacheInfo(ctx, ranks, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Outputs = outputs
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	if !opts.DryRun {
		for _, format := range opts.Formats {
			path := opts.OutputPath(format)
			if err := writeOutput(path, outputs[format]); err != nil {
				return nil, fmt.Errorf("write %s: %w", format, err)
			}
			result.Artifacts[format] = path
		}
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"dir", opts.OutputDir,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Scan parses the declarations of every matching script.
func (r *Runner) Scan(ctx context.Context, opts Options) (*declare.Set, error) {
	opts.SetScanDefaults()
	hooks := observability.Pipeline()
	hooks.OnScanStart(ctx, opts.Dir)

	start := time.Now()
	set, err := opts.Scanner().Scan(ctx)
	if err != nil {
		hooks.OnScanComplete(ctx, opts.Dir, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnScanComplete(ctx, opts.Dir, len(set.Files), set.Len(), time.Since(start), nil)

	for _, w := range set.Warnings {
		opts.Logger.Debug("declaration warning", "at", w.Location, "reason", w.Reason)
	}
	return set, nil
}

// RankWithCacheInfo ranks raw and reports whether the ranks came from the
// cache. The cache key is derived from the content of raw, so editing any
// declaration misses the cache.
func (r *Runner) RankWithCacheInfo(ctx context.Context, raw map[string][]string, opts Options) (rank.Ranks, bool, error) {
	opts.SetRankDefaults()
	r.applyLogger(&opts)
	chooks := observability.Cache()

	cacheKey := r.Keyer.TreeKey(cache.HashRaw(raw), opts.TreeKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached rank.Ranks
			if err := json.Unmarshal(data, &cached); err == nil {
				chooks.OnCacheHit(ctx, "tree")
				return cached, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		} else if err != nil {
			opts.Logger.Debug("cache read failed", "key", cacheKey, "err", err)
		}
		chooks.OnCacheMiss(ctx, "tree")
	}

	hooks := observability.Pipeline()
	hooks.OnRankStart(ctx, len(raw))
	start := time.Now()
	ranks, err := r.ranker(opts).Rank(raw)
	if err != nil {
		hooks.OnRankComplete(ctx, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnRankComplete(ctx, len(ranks), len(ranks.Levels()), time.Since(start), nil)

	if data, err := json.Marshal(ranks); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.treeTTL()); err != nil {
			opts.Logger.Debug("cache write failed", "key", cacheKey, "err", err)
		} else {
			chooks.OnCacheSet(ctx, "tree", len(data))
		}
	}
	return ranks, false, nil
}

// Rank is RankWithCacheInfo without the cache hit flag.
func (r *Runner) Rank(ctx context.Context, raw map[string][]string, opts Options) (rank.Ranks, error) {
	ranks, _, err := r.RankWithCacheInfo(ctx, raw, opts)
	return ranks, err
}

// RenderWithCacheInfo renders every requested format and reports whether all
// of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ranks rank.Ranks, g *dag.DAG, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	chooks := observability.Cache()

	var buf bytes.Buffer
	if err := pkgio.WriteGraph(&buf, g); err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(buf.Bytes())

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	outputs := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			chooks.OnCacheHit(ctx, "artifact")
			outputs[format] = data
			continue
		}
		chooks.OnCacheMiss(ctx, "artifact")
		allCached = false

		data, err := renderFormat(ctx, format, ranks, g, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		outputs[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			chooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)

	return outputs, allCached, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, ranks rank.Ranks, g *dag.DAG, opts Options) (map[string][]byte, error) {
	outputs, _, err := r.RenderWithCacheInfo(ctx, ranks, g, opts)
	return outputs, err
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ranker(opts Options) *rank.Ranker {
	base := r.Ranker
	if base == nil {
		base = rank.New()
	}
	if base.Seed() == opts.Seed {
		return base
	}
	return base.WithSeed(opts.Seed)
}

func (r *Runner) treeTTL() time.Duration {
	if r.TreeTTL > 0 {
		return r.TreeTTL
	}
	return cache.TTLTree
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
