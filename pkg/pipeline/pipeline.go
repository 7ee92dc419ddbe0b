// Package pipeline runs the scan → rank → render stages behind calctree.
//
// The CLI and tests share this package so every entry point scans, ranks and
// writes artifacts the same way.
//
//  1. Scan: parse the "# token input/output" declarations of every script
//  2. Rank: compute the calculation stage of every item key (cached)
//  3. Render: produce the dependency tree artifact and any diagrams
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Dir:       "scripts",
//	    OutputDir: "reference",
//	    Formats:   []string{"json", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Artifacts["json"])
//
// Stages can also run on their own:
//
//	set, err := runner.Scan(ctx, opts)
//	ranks, err := runner.Rank(ctx, set.Raw, opts)
//	outputs, err := runner.Render(ctx, ranks, g, opts)
package pipeline

import (
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fiktools/calctree/pkg/cache"
	"github.com/fiktools/calctree/pkg/dag"
	"github.com/fiktools/calctree/pkg/declare"
	"github.com/fiktools/calctree/pkg/errors"
	pkgio "github.com/fiktools/calctree/pkg/io"
	"github.com/fiktools/calctree/pkg/rank"
)

// Defaults shared by the CLI and the config layer.
const (
	DefaultDir         = "."
	DefaultFilePattern = `.*\.py`
	DefaultOutputDir   = "."
)

// Output formats.
const (
	FormatJSON  = "json"  // dependency tree artifact
	FormatGraph = "graph" // ranked graph as JSON
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatGraph: true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatPNG:   true,
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be one of: %s)",
			format, strings.Join(Formats(), ", "))
	}
	return nil
}

// Formats returns the supported formats in sorted order.
func Formats() []string {
	return slices.Sorted(maps.Keys(ValidFormats))
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures one pipeline run.
type Options struct {
	// Scan options
	Dir         string
	FilePattern string
	Recursive   bool

	// Rank options
	Seed    int
	Refresh bool // ignore cached ranks and recompute

	// Render options
	OutputDir string
	Artifact  string // file name of the dependency tree artifact
	Formats   []string
	Detailed  bool
	// DryRun renders without writing files.
	DryRun bool

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults applies defaults and checks the options. Calling it
// more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetScanDefaults()
	o.SetRankDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if err := errors.ValidateFilename(o.Artifact); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetScanDefaults fills in the scan options.
func (o *Options) SetScanDefaults() {
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.FilePattern == "" {
		o.FilePattern = DefaultFilePattern
	}
	o.setLogger()
}

// SetRankDefaults fills in the rank options.
func (o *Options) SetRankDefaults() {
	if o.Seed == 0 {
		o.Seed = rank.SeedRank
	}
	o.setLogger()
}

// ValidateForRender fills in the render options and checks the formats.
func (o *Options) ValidateForRender() error {
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Artifact == "" {
		o.Artifact = pkgio.DefaultArtifactName
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Scanner returns the declaration scanner for these options.
func (o *Options) Scanner() *declare.Scanner {
	return &declare.Scanner{Dir: o.Dir, Pattern: o.FilePattern, Recursive: o.Recursive}
}

// TreeKeyOpts returns cache key options for ranking.
func (o *Options) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{Seed: o.Seed}
}

// ArtifactKeyOpts returns cache key options for a rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed && format != FormatJSON}
}

// OutputPath returns where format is written. The tree artifact keeps its
// configured name; other formats share its base name.
func (o *Options) OutputPath(format string) string {
	base := strings.TrimSuffix(o.Artifact, filepath.Ext(o.Artifact))
	var name string
	switch format {
	case FormatJSON:
		name = o.Artifact
	case FormatGraph:
		name = base + ".graph.json"
	default:
		name = base + "." + format
	}
	return filepath.Join(o.OutputDir, name)
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// Set is the merged declaration set, including scan warnings.
	Set *declare.Set
	// Ranks maps every item key to its calculation stage.
	Ranks rank.Ranks
	// Tree groups Ranks by stage.
	Tree rank.Tree
	// Graph is the ranked dependency graph.
	Graph *dag.DAG
	// Leaves are ranked keys no script declares as an output.
	Leaves []string
	// Outputs holds the rendered bytes keyed by format.
	Outputs map[string][]byte
	// Artifacts maps each format to the file it was written to.
	Artifacts map[string]string

	Stats     Stats
	CacheInfo CacheInfo
}

// Warnings returns the scan warnings as text.
func (r *Result) Warnings() []string {
	if r.Set == nil {
		return nil
	}
	out := make([]string, len(r.Set.Warnings))
	for i, w := range r.Set.Warnings {
		out[i] = w.String()
	}
	return out
}

// Stats holds sizes and timings of a run.
type Stats struct {
	Files      int
	Outputs    int
	Keys       int
	Levels     int
	Edges      int
	ScanTime   time.Duration
	RankTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	RankHit   bool
	RenderHit bool // every requested format came from the cache
}
