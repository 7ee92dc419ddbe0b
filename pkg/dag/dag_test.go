package dag

import (
	"errors"
	"slices"
	"testing"

	"github.com/fiktools/calctree/pkg/rank"
)

func TestAddNode(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a:a"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(Node{ID: "a:a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want ErrDuplicateNodeID", err)
	}
	n, ok := g.Node("a:a")
	if !ok || n.Meta == nil {
		t.Errorf("Node() = %+v, %v", n, ok)
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a:a", Rank: 1})
	_ = g.AddNode(Node{ID: "b:b"})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"ok", Edge{From: "a:a", To: "b:b"}, nil},
		{"duplicate is ignored", Edge{From: "a:a", To: "b:b"}, nil},
		{"unknown source", Edge{From: "x:x", To: "b:b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a:a", To: "x:x"}, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge() = %v, want %v", err, tt.want)
			}
		})
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if g.InDegree("b:b") != 1 || g.OutDegree("a:a") != 1 {
		t.Error("degrees not updated")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
		want  error
	}{
		{
			name:  "valid",
			nodes: []Node{{ID: "a:a", Rank: 1}, {ID: "b:b", Rank: 0}, {ID: "c:c", Rank: -3}},
			edges: []Edge{{From: "a:a", To: "b:b"}, {From: "b:b", To: "c:c"}, {From: "a:a", To: "c:c"}},
		},
		{
			name:  "same rank",
			nodes: []Node{{ID: "a:a", Rank: 0}, {ID: "b:b", Rank: 0}},
			edges: []Edge{{From: "a:a", To: "b:b"}},
			want:  ErrRankOrder,
		},
		{
			name:  "upward edge",
			nodes: []Node{{ID: "a:a", Rank: 0}, {ID: "b:b", Rank: 1}},
			edges: []Edge{{From: "a:a", To: "b:b"}},
			want:  ErrRankOrder,
		},
		{
			name:  "cycle",
			nodes: []Node{{ID: "a:a", Rank: 1}, {ID: "b:b", Rank: 0}},
			edges: []Edge{{From: "a:a", To: "b:b"}, {From: "b:b", To: "a:a"}},
			want:  ErrGraphHasCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			for _, n := range tt.nodes {
				_ = g.AddNode(n)
			}
			for _, e := range tt.edges {
				_ = g.AddEdge(e)
			}
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetRanks(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a:a"})
	_ = g.AddNode(Node{ID: "b:b"})
	g.SetRanks(map[string]int{"b:b": -2})

	if got := g.Ranks(); !slices.Equal(got, []int{-2, 0}) {
		t.Errorf("Ranks() = %v", got)
	}
	if got := NodeIDs(g.NodesInRank(-2)); !slices.Equal(got, []string{"b:b"}) {
		t.Errorf("NodesInRank(-2) = %v", got)
	}
}

func TestSourcesSinks(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"sheet:total", "combat:ac", "abilities:dexterity"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "sheet:total", To: "combat:ac"})
	_ = g.AddEdge(Edge{From: "combat:ac", To: "abilities:dexterity"})

	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"sheet:total"}) {
		t.Errorf("Sources() = %v", got)
	}
	if got := NodeIDs(g.Sinks()); !slices.Equal(got, []string{"abilities:dexterity"}) {
		t.Errorf("Sinks() = %v", got)
	}
}

func TestFromRanks_Patterns(t *testing.T) {
	raw := map[string][]string{
		"inventory:weight": {"items:sword", "items:shield"},
		"items:.+":         {"base:strength"},
	}
	ranks, err := rank.Rank(raw)
	if err != nil {
		t.Fatal(err)
	}
	g, err := FromRanks(raw, ranks)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	p, ok := g.Node("items:.+")
	if !ok || !p.IsPattern() || !p.IsOutput() {
		t.Fatalf("pattern node = %+v, %v", p, ok)
	}
	if _, ok := g.Node("items:sword"); ok {
		t.Error("items:sword should resolve through the pattern")
	}
	if got := g.Children("inventory:weight"); !slices.Equal(got, []string{"items:.+"}) {
		t.Errorf("Children(inventory:weight) = %v", got)
	}
	if n, _ := g.Node("base:strength"); n.IsOutput() || n.IsPattern() {
		t.Errorf("base:strength meta = %v", n.Meta)
	}
}

func TestFromRanks_MissingOutput(t *testing.T) {
	raw := map[string][]string{"a:a": nil}
	if _, err := FromRanks(raw, rank.Ranks{}); err == nil {
		t.Error("FromRanks() should fail for an unranked output")
	}
}

func TestFromRaw(t *testing.T) {
	raw := map[string][]string{
		"a:a":      {"b:b", "items:x"},
		"b:b":      {"a:a"},
		"items:.+": nil,
	}
	g := FromRaw(raw)
	if got := g.Children("a:a"); !slices.Equal(got, []string{"b:b", "items:.+"}) {
		t.Errorf("Children(a:a) = %v", got)
	}
	if got := g.Children("b:b"); !slices.Equal(got, []string{"a:a"}) {
		t.Errorf("Children(b:b) = %v", got)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
}

func TestFromRaw_InputPatterns(t *testing.T) {
	raw := map[string][]string{
		"a:o": {"s:x"},
		"z:o": {"s:.+"},
	}
	g := FromRaw(raw)
	if got := g.Children("a:o"); !slices.Equal(got, []string{"s:.+"}) {
		t.Errorf("Children(a:o) = %v, want the read pattern", got)
	}
	if _, ok := g.Node("s:x"); ok {
		t.Error("s:x should resolve through s:.+")
	}
}
