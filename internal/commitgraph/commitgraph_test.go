package commitgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aolsson/ccm2git/internal/graph"
	"github.com/aolsson/ccm2git/internal/model"
)

func obj(name string, t time.Time, version string) *model.FileObject {
	return &model.FileObject{ObjectName: name, IntegrateTime: t, Version: version}
}

// TestBuildLinearHistory reproduces scenario S1.
func TestBuildLinearHistory(t *testing.T) {
	files := graph.NewDigraph()
	files.AddEdge("F1-1", "F1-2")
	files.AddEdge("F2-1", "F2-2")

	tasks := graph.NewHypergraph()
	tasks.Link("F1-2", "T1")
	tasks.Link("F2-2", "T1")

	releases := graph.NewHypergraph()
	releases.AddEdge("R1")
	releases.Link("F1-1", "R1")
	releases.Link("F2-1", "R1")
	releases.AddEdge("R2")
	releases.Link("F1-2", "R2")
	releases.Link("F2-2", "R2")

	commits := Build(files, tasks, releases)
	assert.True(t, commits.HasEdge("R1", "T1"))
	assert.True(t, commits.HasEdge("T1", "R2"))
	assert.Nil(t, graph.FindCycle(commits))
}

// TestResolveInducedCycle reproduces scenario S3: T1={F1-2,F2-2},
// T2={F1-3,F2-1} produce T1<->T2, and the resolver must split one task.
func TestResolveInducedCycle(t *testing.T) {
	files := graph.NewDigraph()
	files.AddEdge("F1-1", "F1-2")
	files.AddEdge("F1-2", "F1-3")
	files.AddEdge("F2-1", "F2-2")
	files.AddEdge("F2-2", "F2-3")

	tasks := graph.NewHypergraph()
	tasks.Link("F1-2", "T1")
	tasks.Link("F2-2", "T1")
	tasks.Link("F1-3", "T2")
	tasks.Link("F2-1", "T2")

	releases := graph.NewHypergraph()
	releases.AddEdge("R1")
	releases.Link("F1-1", "R1")
	releases.Link("F2-1", "R1")
	releases.AddEdge("R2")
	releases.Link("F1-3", "R2")
	releases.Link("F2-3", "R2")

	pre := Build(files, tasks, releases)
	require.NotNil(t, graph.FindCycle(pre), "fixture should start with an induced cycle")

	commits, err := Resolve(files, tasks, releases, nil)
	require.NoError(t, err)
	assert.Nil(t, graph.FindCycle(commits))
}

// TestPrepareFileHistoryBreaksCycle reproduces scenario S4.
func TestPrepareFileHistoryBreaksCycle(t *testing.T) {
	files := graph.NewDigraph()
	files.AddEdge("F1-1", "F1-2")
	files.AddEdge("F1-2", "F1-1")

	older := time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	objects := map[string]*model.FileObject{
		"F1-1": obj("F1-1", older, "1"),
		"F1-2": obj("F1-2", newer, "2"),
	}

	PrepareFileHistory(files, objects)

	assert.Nil(t, graph.FindCycle(files))
	assert.False(t, files.HasEdge("F1-2", "F1-1"))
	assert.True(t, files.HasEdge("F1-1", "F1-2"))
}
