package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fiktools/calctree/pkg/dag"
	"github.com/fiktools/calctree/pkg/dag/transform"
	"github.com/fiktools/calctree/pkg/errors"
	pkgio "github.com/fiktools/calctree/pkg/io"
	"github.com/fiktools/calctree/pkg/pipeline"
	"github.com/fiktools/calctree/pkg/rank"
)

type checkOptions struct {
	scan       scanFlags
	showLeaves bool
	strict     bool
}

func (c *CLI) checkCommand() *cobra.Command {
	var o checkOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate calculation declarations",
		Long: `Check scans the calculation scripts without writing anything and reports:

  - dependency cycles, which make ranking impossible
  - malformed "# token" lines and redeclared outputs
  - leaves: keys that are read but that no script calculates
  - items whose stage differs from the longest-path layering
  - whether the artifact in the reference directory is up to date`,
		Example: `  calctree check
  calctree check --leaves --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runCheck(cmd, o)
		},
	}

	o.scan.register(cmd)
	cmd.Flags().BoolVar(&o.showLeaves, "leaves", false, "list every leaf key")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "fail on warnings and stale artifacts")
	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, o checkOptions) error {
	ctx := cmd.Context()
	p := printer{w: c.out}

	opts := pipeline.Options{Logger: loggerFromContext(ctx)}
	o.scan.apply(cmd, c.Config, &opts)

	runner := pipeline.NewRunner(nil, nil, opts.Logger)
	set, err := runner.Scan(ctx, opts)
	if err != nil {
		return err
	}
	p.info("Scanned %d scripts, %d outputs", len(set.Files), set.Len())

	if cycle := transform.FindCycle(dag.FromRaw(set.Raw)); cycle != nil {
		p.failure("Dependency cycle: %s", strings.Join(cycle, " → "))
		for _, key := range cycle[:len(cycle)-1] {
			if loc, ok := set.Origins[key]; ok {
				p.detail("%s declared at %s", key, loc)
			}
		}
		return errors.New(errors.ErrCodeCyclicDependency, "declarations contain a cycle")
	}
	p.success("No dependency cycles")

	problems := 0
	for _, w := range set.Warnings {
		p.warning("%s", w)
		problems++
	}

	ranks, err := rank.New().WithSeed(c.Config.Seed).Rank(set.Raw)
	if err != nil {
		return err
	}
	g, err := dag.FromRanks(set.Raw, ranks)
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	p.success("Ranked %d items in %d stages", len(ranks), len(ranks.Levels()))

	leaves := rank.Leaves(set.Raw, ranks)
	p.info("%d leaves", len(leaves))
	if o.showLeaves {
		for _, leaf := range leaves {
			p.detail("%s", leaf)
		}
	}

	expected := transform.RanksFromLayers(transform.AssignLayers(g), c.Config.Seed)
	if mismatches := transform.CompareRanks(g, expected); len(mismatches) > 0 {
		p.info("%d items differ from longest-path layering", len(mismatches))
		for _, m := range mismatches {
			p.detail("%s: stage %d, layering gives %d", m.ID, m.Rank, m.Expected)
		}
	}

	stale, err := staleArtifact(c.Config.ArtifactPath(), rank.Group(ranks))
	if err != nil {
		return err
	}
	if stale {
		p.warning("%s is out of date; run calctree rank", c.Config.ArtifactPath())
		problems++
	}

	if o.strict && problems > 0 {
		return errors.New(errors.ErrCodeInvalidDeclaration, "%d problems found", problems)
	}
	return nil
}

// staleArtifact reports whether the artifact at path differs from tree. A
// missing artifact is not stale.
func staleArtifact(path string, tree rank.Tree) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	current, err := pkgio.ImportTree(path)
	if err != nil {
		return false, err
	}
	if len(current) != len(tree) {
		return true, nil
	}
	for lvl, keys := range tree {
		if !slices.Equal(current[lvl], keys) {
			return true, nil
		}
	}
	return false, nil
}
