package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fiktools/calctree/pkg/dag"
	"github.com/fiktools/calctree/pkg/errors"
)

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID      string `json:"id"`
	Rank    int    `json:"rank"`
	Pattern bool   `json:"pattern,omitempty"`
	Output  bool   `json:"output,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteGraph encodes g as JSON. Nodes are sorted by ID and edges keep their
// insertion order.
func WriteGraph(w io.Writer, g *dag.DAG) error {
	nodes := g.Nodes()
	edges := g.Edges()
	out := graph{
		Nodes: make([]node, len(nodes)),
		Edges: make([]edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = node{ID: n.ID, Rank: n.Rank, Pattern: n.IsPattern(), Output: n.IsOutput()}
	}
	for i, e := range edges {
		out.Edges[i] = edge{From: e.From, To: e.To}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportGraph writes g to a JSON file at path.
func ExportGraph(path string, g *dag.DAG) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteGraph(f, g); err != nil {
		return err
	}
	return f.Close()
}

// ReadGraph decodes a graph written by WriteGraph. It does not validate rank
// order; call Validate on the result for that.
func ReadGraph(r io.Reader) (*dag.DAG, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := dag.New(nil)
	for _, n := range data.Nodes {
		meta := dag.Metadata{}
		if n.Pattern {
			meta[dag.MetaPattern] = true
		}
		if n.Output {
			meta[dag.MetaOutput] = true
		}
		if err := g.AddNode(dag.Node{ID: n.ID, Rank: n.Rank, Meta: meta}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %q", n.ID)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %s -> %s", e.From, e.To)
		}
	}
	return g, nil
}

// ImportGraph reads a graph JSON file.
func ImportGraph(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGraph(f)
}
