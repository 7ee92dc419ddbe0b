package nodelink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fiktools/calctree/pkg/dag"
	"github.com/fiktools/calctree/pkg/rank"
)

func rankedGraph(t *testing.T) *dag.DAG {
	t.Helper()
	raw := map[string][]string{
		"combat:melee attack": {"combat:bab", "abilities:strength"},
		"combat:bab":          {"base:level"},
		"inventory:weight":    {"items:sword"},
		"items:.+":            {},
	}
	ranks, err := rank.Rank(raw)
	if err != nil {
		t.Fatal(err)
	}
	g, err := dag.FromRanks(raw, ranks)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(rankedGraph(t), Options{})

	for _, want := range []string{
		"digraph G {",
		"rank=same;",
		`"combat:melee attack" -> "combat:bab";`,
		`"combat:melee attack" -> "abilities:strength";`,
		`"inventory:weight" -> "items:.+";`,
		`"items:.+" [label="items:.+", style="rounded,filled,dashed", fillcolor=lightgrey];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "rank: ") {
		t.Error("plain labels should not include the rank")
	}

	// Rank 1 group comes before rank 0, which comes before rank -1.
	i1 := strings.Index(dot, `subgraph "rank_1"`)
	i0 := strings.Index(dot, `subgraph "rank_0"`)
	im := strings.Index(dot, `subgraph "rank_-1"`)
	if i1 < 0 || i0 < i1 || im < i0 {
		t.Errorf("rank groups out of order: %d %d %d", i1, i0, im)
	}
}

func TestToDOT_Stable(t *testing.T) {
	a := ToDOT(rankedGraph(t), Options{Detailed: true})
	b := ToDOT(rankedGraph(t), Options{Detailed: true})
	if a != b {
		t.Error("ToDOT output differs between runs")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(rankedGraph(t), Options{Detailed: true, Title: "sheet"})
	if !strings.Contains(dot, `label="sheet";`) {
		t.Error("missing title")
	}
	if !strings.Contains(dot, `label="combat:bab\nrank: 0\noutput: true"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(t.Context(), ToDOT(rankedGraph(t), Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("combat:bab")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestRenderSVG_BadDOT(t *testing.T) {
	if _, err := RenderSVG(t.Context(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %q, want %q", out, want)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("no viewBox: got %q", got)
	}
}
