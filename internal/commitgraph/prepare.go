package commitgraph

import (
	"github.com/sirupsen/logrus"

	"github.com/aolsson/ccm2git/internal/graph"
	"github.com/aolsson/ccm2git/internal/model"
	"github.com/aolsson/ccm2git/internal/sanitize"
)

// PrepareRelease runs the full per-window pipeline that turns a raw
// release into its resolved commits graph: sanitize the task hypergraph,
// reduce the file-history DAG, merge the boundary-object incidence of
// the previous and current release, and resolve the resulting commits
// graph's cycles. It touches only rel's own graphs and prev's release
// hypergraph, so two releases in the same chain can run this
// concurrently without sharing mutable state (§5 NEW).
func PrepareRelease(prev, rel *model.Release, log *logrus.Logger) (tasks *graph.Hypergraph, commits *graph.Digraph, err error) {
	tasks = sanitize.Sanitize(rel.TaskHG)
	PrepareFileHistory(rel.Files, rel.Objects)

	releases := CombinedReleaseHG(prev, rel)
	commits, err = Resolve(rel.Files, tasks, releases, log)
	return tasks, commits, err
}

// CombinedReleaseHG merges the boundary-object incidence of the previous
// and current release into one hypergraph, the shape Build expects: one
// edge per release endpoint of the window.
func CombinedReleaseHG(prev, curr *model.Release) *graph.Hypergraph {
	merged := graph.NewHypergraph()
	mergeReleaseHG(merged, prev.ReleaseHG)
	mergeReleaseHG(merged, curr.ReleaseHG)
	return merged
}

func mergeReleaseHG(dst, src *graph.Hypergraph) {
	for _, e := range src.Edges() {
		dst.AddEdge(e)
		for _, n := range src.NodesOfEdge(e) {
			dst.Link(n, e)
		}
	}
}
