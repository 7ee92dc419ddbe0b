package cli

import (
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fiktools/calctree/pkg/config"
	"github.com/fiktools/calctree/pkg/pipeline"
	"github.com/fiktools/calctree/pkg/report"
)

// Warning sections written by calctree.
const (
	sectionDeclarations = "calculation declarations"
	sectionLeaves       = "calculation leaves"
)

// scanFlags are the flags shared by every command that reads scripts.
type scanFlags struct {
	dir       string
	pattern   string
	recursive bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "d", "", "calculation scripts directory")
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "regexp selecting script file names")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "also scan subdirectories")
}

// apply overlays the flags that were set on the configured values.
func (f *scanFlags) apply(cmd *cobra.Command, cfg config.Config, opts *pipeline.Options) {
	opts.Dir = cfg.ScriptsDir
	opts.FilePattern = cfg.ScriptsFiles
	opts.Recursive = cfg.Recursive
	if cmd.Flags().Changed("dir") {
		opts.Dir = f.dir
	}
	if cmd.Flags().Changed("pattern") {
		opts.FilePattern = f.pattern
	}
	if cmd.Flags().Changed("recursive") {
		opts.Recursive = f.recursive
	}
}

type rankOptions struct {
	scan        scanFlags
	output      string
	artifact    string
	formats     string
	warningsDir string
	seed        int
	detailed    bool
	refresh     bool
	noCache     bool
	dryRun      bool
}

func (c *CLI) rankCommand() *cobra.Command {
	var o rankOptions

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank calculation items and write the dependency tree",
		Long: `Rank scans the calculation scripts for "# token input/output" declarations,
assigns every item key a calculation stage and writes the dependency tree
artifact to the reference directory.

Each stage lists the items that can be computed once every lower stage is
done. Extra formats (graph, dot, svg, png) are written next to the artifact.`,
		Example: `  calctree rank
  calctree rank -d scripts -o reference --format json,svg
  calctree rank --dry-run -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runRank(cmd, o)
		},
	}

	o.scan.register(cmd)
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "reference directory for the artifact")
	cmd.Flags().StringVar(&o.artifact, "artifact", "", "artifact file name")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output formats: "+joinFormats())
	cmd.Flags().StringVar(&o.warningsDir, "warnings-dir", "", "directory for warnings.csv (default: none)")
	cmd.Flags().IntVar(&o.seed, "seed", 0, "rank given to declared outputs")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "show ranks and metadata in diagrams")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached ranks")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "rank without writing any files")

	return cmd
}

func (c *CLI) runRank(cmd *cobra.Command, o rankOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := c.Config

	opts := pipeline.Options{
		OutputDir: cfg.ReferenceDir,
		Artifact:  cfg.ArtifactName,
		Formats:   parseFormats(o.formats, cfg.Render.Formats),
		Detailed:  cfg.Render.Detailed || o.detailed,
		Seed:      cfg.Seed,
		Refresh:   o.refresh,
		DryRun:    o.dryRun,
		Logger:    logger,
	}
	o.scan.apply(cmd, cfg, &opts)
	if o.output != "" {
		opts.OutputDir = o.output
	}
	if o.artifact != "" {
		opts.Artifact = o.artifact
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = o.seed
	}
	warningsDir := cfg.WarningsDir
	if o.warningsDir != "" {
		warningsDir = o.warningsDir
	}

	runner, err := c.newRunner(cmd, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var spin *spinner
	if !c.verbose && usesGraphviz(opts.Formats) {
		spin = newSpinner(ctx, os.Stderr, "Ranking and rendering...")
		spin.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("Ranked calculation items")

	p := printer{w: c.out}
	p.success("Ranked %s items from %s scripts",
		StyleNumber.Render(strconv.Itoa(result.Stats.Keys)), StyleNumber.Render(strconv.Itoa(result.Stats.Files)))
	p.stats(result.Stats.Keys, result.Stats.Levels, result.Stats.Edges, result.CacheInfo.RankHit)
	for _, format := range opts.Formats {
		if path, ok := result.Artifacts[format]; ok {
			p.file(path)
		}
	}
	for _, w := range result.Warnings() {
		p.warning("%s", w)
	}

	if warningsDir != "" && !opts.DryRun {
		path, err := saveWarnings(warningsDir, result)
		if err != nil {
			return err
		}
		p.detail("Warnings: %s", path)
	}
	return nil
}

func usesGraphviz(formats []string) bool {
	return slices.Contains(formats, pipeline.FormatSVG) || slices.Contains(formats, pipeline.FormatPNG)
}

// saveWarnings replaces calctree's sections of warnings.csv in dir.
func saveWarnings(dir string, result *pipeline.Result) (string, error) {
	w := report.NewWarnings()
	w.Reset(sectionDeclarations)
	w.Reset(sectionLeaves)
	for _, msg := range result.Warnings() {
		w.Add(sectionDeclarations, msg)
	}
	for _, leaf := range result.Leaves {
		w.Addf(sectionLeaves, "%s is read but never calculated", leaf)
	}
	return w.Save(dir)
}
