package commitgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aolsson/ccm2git/internal/graph"
	"github.com/aolsson/ccm2git/internal/model"
)

func release(name string, created time.Time) *model.Release {
	return &model.Release{
		Name:      name,
		Created:   created,
		Objects:   map[string]*model.FileObject{},
		Tasks:     map[string]*model.Task{},
		Files:     graph.NewDigraph(),
		TaskHG:    graph.NewHypergraph(),
		ReleaseHG: graph.NewHypergraph(),
	}
}

// TestPrepareRelease exercises the combined sanitize+prepare+build+resolve
// pipeline used by internal/convert's per-release fan-out, reproducing
// scenario S1's linear two-file, one-task window.
func TestPrepareRelease(t *testing.T) {
	t0 := time.Date(2013, 5, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)

	prev := release("R1", t0)
	prev.ReleaseHG.AddEdge("R1")
	prev.ReleaseHG.Link("F1-1", "R1")
	prev.ReleaseHG.Link("F2-1", "R1")

	rel := release("R2", t1)
	rel.Objects["F1-2"] = obj("F1-2", t1, "2")
	rel.Objects["F2-2"] = obj("F2-2", t1, "2")
	rel.Files.AddEdge("F1-1", "F1-2")
	rel.Files.AddEdge("F2-1", "F2-2")
	rel.TaskHG.Link("F1-2", "T1")
	rel.TaskHG.Link("F2-2", "T1")
	rel.ReleaseHG.AddEdge("R2")
	rel.ReleaseHG.Link("F1-2", "R2")
	rel.ReleaseHG.Link("F2-2", "R2")

	tasks, commits, err := PrepareRelease(prev, rel, nil)
	require.NoError(t, err)

	assert.True(t, tasks.HasEdge("T1"))
	assert.True(t, commits.HasEdge("R1", "T1"))
	assert.True(t, commits.HasEdge("T1", "R2"))
	assert.Nil(t, graph.FindCycle(commits))
}
