package io

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/fiktools/calctree/pkg/dag"
	"github.com/fiktools/calctree/pkg/errors"
	"github.com/fiktools/calctree/pkg/rank"
)

func TestGraphRoundTrip(t *testing.T) {
	raw := map[string][]string{
		"inventory:weight": {"items:sword"},
		"items:.+":         {"base:strength"},
	}
	ranks, err := rank.Rank(raw)
	if err != nil {
		t.Fatal(err)
	}
	g, err := dag.FromRanks(raw, ranks)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportGraph(path, g); err != nil {
		t.Fatal(err)
	}
	back, err := ImportGraph(path)
	if err != nil {
		t.Fatal(err)
	}

	if back.NodeCount() != g.NodeCount() || back.EdgeCount() != g.EdgeCount() {
		t.Fatalf("round trip changed size: %d/%d nodes, %d/%d edges",
			back.NodeCount(), g.NodeCount(), back.EdgeCount(), g.EdgeCount())
	}
	p, ok := back.Node("items:.+")
	if !ok || !p.IsPattern() || !p.IsOutput() || p.Rank != ranks["items:.+"] {
		t.Errorf("pattern node = %+v", p)
	}
	if err := back.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestWriteGraph_Format(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "combat:bab", Rank: 0, Meta: dag.Metadata{dag.MetaOutput: true}})
	_ = g.AddNode(dag.Node{ID: "base:level", Rank: -1})
	_ = g.AddEdge(dag.Edge{From: "combat:bab", To: "base:level"})

	var buf bytes.Buffer
	if err := WriteGraph(&buf, g); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"id": "base:level"`, `"rank": -1`, `"output": true`, `"from": "combat:bab"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"pattern"`) {
		t.Errorf("false flags should be omitted:\n%s", out)
	}
}

func TestReadGraph_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", "nodes"},
		{"duplicate node", `{"nodes":[{"id":"a:a"},{"id":"a:a"}],"edges":[]}`},
		{"empty id", `{"nodes":[{"id":""}],"edges":[]}`},
		{"unknown edge", `{"nodes":[{"id":"a:a"}],"edges":[{"from":"a:a","to":"b:b"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadGraph() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadGraph_Children(t *testing.T) {
	in := `{"nodes":[{"id":"a:a","rank":1},{"id":"b:b","rank":0}],"edges":[{"from":"a:a","to":"b:b"}]}`
	g, err := ReadGraph(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Children("a:a"); !slices.Equal(got, []string{"b:b"}) {
		t.Errorf("Children() = %v", got)
	}
}
