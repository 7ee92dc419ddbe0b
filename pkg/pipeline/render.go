package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fiktools/calctree/pkg/dag"
	pkgio "github.com/fiktools/calctree/pkg/io"
	"github.com/fiktools/calctree/pkg/rank"
	"github.com/fiktools/calctree/pkg/render/nodelink"
)

// renderFormat produces one output format.
func renderFormat(ctx context.Context, format string, ranks rank.Ranks, g *dag.DAG, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := pkgio.WriteTree(&buf, rank.Group(ranks)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatGraph:
		if err := pkgio.WriteGraph(&buf, g); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(dotSource(g, opts)), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dotSource(g, opts))
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dotSource(g, opts))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func dotSource(g *dag.DAG, opts Options) string {
	return nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
}
