package transform

import "github.com/fiktools/calctree/pkg/dag"

// AssignLayers computes the longest-path layer of every node.
//
// Nodes without dependents are at layer 0. Each dependency is placed one
// layer below the deepest of its dependents, so an item always sits below
// everything that reads it. Nodes on a cycle never reach in-degree zero and
// are left out of the result.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) map[string]int {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	layers := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
			layers[n.ID] = 0
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if layer := layers[curr] + 1; layer > layers[child] {
				layers[child] = layer
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for id, d := range inDegree {
		if d > 0 {
			delete(layers, id)
		}
	}
	return layers
}

// RanksFromLayers converts layers into ranks counted down from seed.
func RanksFromLayers(layers map[string]int, seed int) map[string]int {
	ranks := make(map[string]int, len(layers))
	for id, layer := range layers {
		ranks[id] = seed - layer
	}
	return ranks
}

// Mismatch is a node whose rank differs from the rank its layer predicts.
type Mismatch struct {
	ID       string
	Rank     int
	Expected int
}

// CompareRanks lists the nodes of g whose Rank differs from expected, in
// node order. Nodes missing from expected are skipped.
func CompareRanks(g *dag.DAG, expected map[string]int) []Mismatch {
	var out []Mismatch
	for _, n := range g.Nodes() {
		want, ok := expected[n.ID]
		if ok && want != n.Rank {
			out = append(out, Mismatch{ID: n.ID, Rank: n.Rank, Expected: want})
		}
	}
	return out
}
