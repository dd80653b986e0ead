// Package commitgraph builds the commits graph from a release's file
// history, sanitized tasks and release boundaries (§4.C), and resolves
// any cycles it contains by splitting tasks until none remain (§4.D).
package commitgraph

import "github.com/aolsson/ccm2git/internal/graph"

// Build assembles the commits graph from a release's file-history DAG,
// (sanitized) task hypergraph and release hypergraph. It does not mutate
// any of its inputs.
//
// Nodes are exactly the task and release identities, never bare file
// objects: a file object only becomes a tasks-hypergraph node if it is
// linked to a task during loading, and objects that belong to the
// previous release's boundary (reachable only as file-history
// predecessors, never linked into this release's tasks) are skipped
// wherever they would otherwise source an edge, same as the grounded
// builder's "obj1 is the node belonging to the previous release" guard.
func Build(files *graph.Digraph, tasks *graph.Hypergraph, releases *graph.Hypergraph) *graph.Digraph {
	commits := graph.NewDigraph()

	for _, t := range tasks.Edges() {
		commits.AddNode(t)
	}
	for _, r := range releases.Edges() {
		commits.AddNode(r)
	}

	// Task -> release closing edge: the task contributes a file present
	// at the release boundary.
	for _, r := range releases.Edges() {
		relObjs := toSet(releases.NodesOfEdge(r))
		for _, t := range tasks.Edges() {
			if setsIntersect(relObjs, toSet(tasks.NodesOfEdge(t))) {
				commits.AddEdge(t, r)
			}
		}
	}

	// Release -> task opening edge: some boundary object has a
	// file-history successor among the task's files.
	for _, r := range releases.Edges() {
		for _, t := range tasks.Edges() {
			if commits.HasEdge(r, t) {
				continue
			}
			taskFiles := toSet(tasks.NodesOfEdge(t))
			for _, o := range releases.NodesOfEdge(r) {
				if setsIntersect(toSet(files.Neighbors(o)), taskFiles) {
					commits.AddEdge(r, t)
					break
				}
			}
		}
	}

	// Task -> task edges derived from file-history edges whose endpoints
	// belong to different tasks.
	for _, o1 := range files.Nodes() {
		if !tasks.HasNode(o1) {
			continue
		}
		t1 := tasks.Links(o1)[0]
		for _, o2 := range files.Neighbors(o1) {
			if !tasks.HasNode(o2) {
				continue
			}
			t2 := tasks.Links(o2)[0]
			if t1 != t2 && !commits.HasEdge(t1, t2) {
				commits.AddEdge(t1, t2)
			}
		}
	}

	return commits
}

func toSet(xs []string) map[string]bool {
	s := make(map[string]bool, len(xs))
	for _, x := range xs {
		s[x] = true
	}
	return s
}

func setsIntersect(a map[string]bool, b map[string]bool) bool {
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for k := range small {
		if big[k] {
			return true
		}
	}
	return false
}
