package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fiktools/calctree/pkg/dag"
	"github.com/fiktools/calctree/pkg/errors"
	pkgio "github.com/fiktools/calctree/pkg/io"
	"github.com/fiktools/calctree/pkg/pipeline"
	"github.com/fiktools/calctree/pkg/render/nodelink"
)

// graphSuffix marks ranked graph files written by "rank --format graph".
const graphSuffix = ".graph.json"

type renderOptions struct {
	scan     scanFlags
	formats  string
	output   string
	title    string
	detailed bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var o renderOptions

	cmd := &cobra.Command{
		Use:   "render [artifact]",
		Short: "Draw a dependency tree as a node-link diagram",
		Long: `Render draws the ranked dependency graph with one row per calculation stage.

The input is either a dependency tree artifact, whose edges are recovered by
scanning the calculation scripts again, or a ranked graph written with
"calctree rank --format graph", which is drawn as is.`,
		Example: `  calctree render
  calctree render reference/deps.graph.json -f svg,png
  calctree render --format dot -o - | dot -Tpdf > deps.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := c.Config.ArtifactPath()
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd, input, o)
		},
	}

	o.scan.register(cmd)
	cmd.Flags().StringVarP(&o.formats, "format", "f", "svg", "output formats: dot, svg, png")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output base path, or - for stdout (dot only)")
	cmd.Flags().StringVar(&o.title, "title", "", "diagram title")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "show ranks and metadata in labels")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, o renderOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	formats := parseFormats(o.formats, []string{pipeline.FormatSVG})
	for _, f := range formats {
		if f != pipeline.FormatDOT && f != pipeline.FormatSVG && f != pipeline.FormatPNG {
			return errors.New(errors.ErrCodeInvalidInput, "render supports dot, svg and png, not %q", f)
		}
	}
	toStdout := o.output == "-"
	if toStdout && (len(formats) != 1 || formats[0] != pipeline.FormatDOT) {
		return errors.New(errors.ErrCodeInvalidInput, "only a single dot output can go to stdout")
	}

	g, err := c.loadGraph(cmd, input, o.scan)
	if err != nil {
		return err
	}
	logger.Debug("loaded graph", "input", input, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: o.detailed || c.Config.Render.Detailed, Title: o.title})
	if toStdout {
		_, err := fmt.Fprint(c.out, dot)
		return err
	}

	base := o.output
	if base == "" {
		base = strings.TrimSuffix(strings.TrimSuffix(input, graphSuffix), filepath.Ext(input))
	}

	p := printer{w: c.out}
	prog := newProgress(logger)
	for _, format := range formats {
		var data []byte
		switch format {
		case pipeline.FormatDOT:
			data = []byte(dot)
		case pipeline.FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case pipeline.FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		p.file(path)
	}
	prog.done("Rendered diagrams")
	return nil
}

// loadGraph reads a ranked graph file directly, or rebuilds the graph from a
// tree artifact and the calculation scripts.
func (c *CLI) loadGraph(cmd *cobra.Command, input string, scan scanFlags) (*dag.DAG, error) {
	if strings.HasSuffix(input, graphSuffix) {
		return pkgio.ImportGraph(input)
	}

	tree, err := pkgio.ImportTree(input)
	if err != nil {
		return nil, err
	}
	opts := pipeline.Options{Logger: loggerFromContext(cmd.Context())}
	scan.apply(cmd, c.Config, &opts)
	set, err := pipeline.NewRunner(nil, nil, opts.Logger).Scan(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	g, err := dag.FromRanks(set.Raw, tree.Ranks())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s does not match the scripts; run calctree rank", input)
	}
	return g, nil
}
