package cli

import (
	"github.com/spf13/cobra"

	"github.com/fiktools/calctree/pkg/errors"
	pkgio "github.com/fiktools/calctree/pkg/io"
	"github.com/fiktools/calctree/pkg/rank"
)

func (c *CLI) treeCommand() *cobra.Command {
	var stages []int

	cmd := &cobra.Command{
		Use:   "tree [artifact]",
		Short: "Print the stages of a dependency tree artifact",
		Long: `Tree reads a dependency tree artifact and prints one table row per
calculation stage. Without an argument it reads the configured artifact in
the reference directory.`,
		Example: `  calctree tree
  calctree tree "reference/calculated character elements.json" --stage 0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.Config.ArtifactPath()
			if len(args) == 1 {
				path = args[0]
			}
			tree, err := pkgio.ImportTree(path)
			if err != nil {
				return err
			}
			if len(stages) > 0 {
				if tree, err = selectStages(tree, stages); err != nil {
					return err
				}
			}

			p := printer{w: c.out}
			p.line(StyleTitle.Render(path))
			p.line(treeTable(tree))
			p.detail("%d items in %d stages", tree.Len(), len(tree))
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&stages, "stage", nil, "only show these stages")
	return cmd
}

func selectStages(tree rank.Tree, stages []int) (rank.Tree, error) {
	out := make(rank.Tree, len(stages))
	for _, s := range stages {
		keys, ok := tree[s]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "no stage %d in artifact (stages: %v)", s, tree.Levels())
		}
		out[s] = keys
	}
	return out, nil
}
