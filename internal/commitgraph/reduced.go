package commitgraph

import (
	"sort"

	"github.com/aolsson/ccm2git/internal/graph"
)

// reducedGraph builds the file-level graph used to pick a witness cycle
// when the commits graph contains one: one node per file object owned by
// any task in the commits-graph cycle, file-history edges between them,
// plus a clique of edges between every pair of files in the same task
// (the "atomicity" that forces the cycle to exist at the task level).
func reducedGraph(files *graph.Digraph, tasks *graph.Hypergraph, cycle []string) *graph.Digraph {
	reduced := graph.NewDigraph()

	for _, node := range cycle {
		if !tasks.HasEdge(node) {
			continue // a release endpoint, not a task: not cut-able
		}
		for _, obj := range tasks.NodesOfEdge(node) {
			reduced.AddNode(obj)
		}
	}

	for _, obj := range reduced.Nodes() {
		for _, pred := range files.Incidents(obj) {
			if reduced.HasNode(pred) && !reduced.HasEdge(pred, obj) {
				reduced.AddEdge(pred, obj)
			}
		}
	}

	for _, node := range cycle {
		if !tasks.HasEdge(node) {
			continue
		}
		members := tasks.NodesOfEdge(node)
		for _, a := range members {
			for _, b := range members {
				if a != b && !reduced.HasEdge(a, b) {
					reduced.AddEdge(a, b)
				}
			}
		}
	}

	return reduced
}

// enumerateCuts returns, for the witness cycle's nodes taken in sorted
// (and therefore deterministic) order with wraparound, every cut of the
// owning task's file set that separates two cycle-adjacent nodes — i.e.
// exactly one of the pair lies inside the cut. This resolves the
// original source's ambiguous "node2 in cut and node2 not in cut"
// condition to the symmetric XOR semantics the spec calls for.
func enumerateCuts(tasks *graph.Hypergraph, witness []string) [][]string {
	var cuts [][]string
	n := len(witness)
	for i := 0; i < n; i++ {
		node1 := witness[i]
		node2 := witness[(i+1)%n]

		links1, links2 := tasks.Links(node1), tasks.Links(node2)
		if len(links1) != 1 || len(links2) != 1 || links1[0] != links2[0] {
			continue
		}
		taskFiles := tasks.NodesOfEdge(links1[0])
		for _, cut := range findCuts(taskFiles) {
			if separates(cut, node1, node2) {
				cuts = append(cuts, cut)
			}
		}
	}
	return cuts
}

func separates(cut []string, node1, node2 string) bool {
	in1, in2 := contains(cut, node1), contains(cut, node2)
	return in1 != in2
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// findCuts enumerates every non-empty, proper subset of s (sorted first
// for determinism) in increasing bitmask order, skipping a subset whose
// complement has already been emitted so complementary pairs appear once.
func findCuts(s []string) [][]string {
	sorted := append([]string(nil), s...)
	sort.Strings(sorted)
	n := len(sorted)
	if n < 2 {
		return nil
	}

	accepted := map[string]bool{}
	var cuts [][]string
	total := 1 << uint(n)
	for mask := 1; mask < total-1; mask++ {
		subset := make([]string, 0, n)
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				subset = append(subset, sorted[i])
			}
		}
		complement := complementOf(sorted, subset)
		if accepted[setKey(complement)] {
			continue
		}
		accepted[setKey(subset)] = true
		cuts = append(cuts, subset)
	}
	return cuts
}

func complementOf(universe, subset []string) []string {
	in := map[string]bool{}
	for _, x := range subset {
		in[x] = true
	}
	var out []string
	for _, x := range universe {
		if !in[x] {
			out = append(out, x)
		}
	}
	return out
}

func setKey(xs []string) string {
	key := ""
	for _, x := range xs {
		key += "\x00" + x
	}
	return key
}
