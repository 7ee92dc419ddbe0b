// Package nodelink draws the ranked dependency graph as a node-link diagram.
//
// [ToDOT] produces Graphviz DOT source with one rank=same group per
// calculation rank, so items that are computed together sit on the same row
// and every arrow points from a dependent down to what it needs. Wildcard
// entries are drawn dashed.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz, so
// no external tools are needed for SVG or PNG output.
package nodelink
