// Package sanitize implements the task sanitizer: it guarantees that no
// file object ends up linked to more than one task by extracting every
// pairwise overlap into a synthetic "common" task.
package sanitize

import (
	"fmt"

	"github.com/aolsson/ccm2git/internal/graph"
)

// Sanitize returns a task hypergraph in which every file object is linked
// to exactly one task. For every pair of original tasks whose file sets
// intersected, the shared files are moved to a new "common-<t1>-<t2>"
// task. tasks is not mutated; a new hypergraph is built and returned.
func Sanitize(tasks *graph.Hypergraph) *graph.Hypergraph {
	out := graph.NewHypergraph()
	for _, n := range tasks.Nodes() {
		out.AddNode(n)
	}
	owner := make(map[string]string, len(tasks.Nodes()))
	for _, n := range tasks.Nodes() {
		links := tasks.Links(n)
		if len(links) > 0 {
			owner[n] = links[0]
		}
	}

	taskEdges := tasks.Edges()
	for i := 0; i < len(taskEdges); i++ {
		for j := i + 1; j < len(taskEdges); j++ {
			t1, t2 := taskEdges[i], taskEdges[j]
			common := intersect(tasks.NodesOfEdge(t1), tasks.NodesOfEdge(t2))
			if len(common) == 0 {
				continue
			}
			commonTask := fmt.Sprintf("common-%s-%s", t1, t2)
			for _, obj := range common {
				owner[obj] = commonTask
			}
		}
	}

	for _, obj := range tasks.Nodes() {
		if t, ok := owner[obj]; ok {
			out.Link(obj, t)
		}
	}
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, x := range a {
		set[x] = struct{}{}
	}
	var out []string
	for _, x := range b {
		if _, ok := set[x]; ok {
			out = append(out, x)
		}
	}
	return out
}
