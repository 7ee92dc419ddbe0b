// Package dag provides the ranked dependency graph of character-sheet items.
//
// # Overview
//
// Each node is an item key ("section:code") and carries the rank computed by
// the rank package. Edges run from a dependent item to the item it reads, so
// a valid graph always points from a higher rank to a strictly lower one.
// Pattern keys such as "items:.+" are regular nodes marked with the
// "pattern" metadata flag.
//
// # Basic Usage
//
// Build a graph directly from a declaration map and its ranks with
// [FromRanks], or assemble one by hand:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "combat:ac", Rank: 1})
//	g.AddNode(dag.Node{ID: "abilities:dexterity", Rank: 0})
//	g.AddEdge(dag.Edge{From: "combat:ac", To: "abilities:dexterity"})
//
// [DAG.Validate] checks that every edge respects the rank order and that the
// graph is acyclic. Query helpers such as [DAG.Children], [DAG.Parents] and
// [DAG.NodesInRank] serve the renderers and the check command.
//
// # Related Packages
//
// The [transform] subpackage finds cycles as explicit paths and computes
// longest-path layers, which the check command compares with the ranks.
//
// [transform]: github.com/fiktools/calctree/pkg/dag/transform
package dag
