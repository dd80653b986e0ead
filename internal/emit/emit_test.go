package emit

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aolsson/ccm2git/internal/commitgraph"
	"github.com/aolsson/ccm2git/internal/fastimport"
	"github.com/aolsson/ccm2git/internal/graph"
	"github.com/aolsson/ccm2git/internal/model"
)

func newRelease(name, previous, next string, created time.Time) *model.Release {
	return &model.Release{
		Name:      name,
		Previous:  previous,
		Next:      next,
		Created:   created,
		Author:    "alice",
		Objects:   map[string]*model.FileObject{},
		Tasks:     map[string]*model.Task{},
		Files:     graph.NewDigraph(),
		TaskHG:    graph.NewHypergraph(),
		ReleaseHG: graph.NewHypergraph(),
	}
}

// TestRunLinearHistory reproduces scenario S1.
func TestRunLinearHistory(t *testing.T) {
	t0 := time.Date(2013, 5, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)

	r1 := newRelease("R1", "", "R2", t0)
	r1.Objects["F1-1"] = &model.FileObject{ObjectName: "F1-1", Name: "f1", Type: model.TypeFile, Instance: "1", Path: "f1.txt", Author: "alice", IntegrateTime: t0}
	r1.Objects["F2-1"] = &model.FileObject{ObjectName: "F2-1", Name: "f2", Type: model.TypeFile, Instance: "1", Path: "f2.txt", Author: "alice", IntegrateTime: t0}
	r1.Files.AddNode("F1-1")
	r1.Files.AddNode("F2-1")
	r1.ReleaseHG.AddEdge("R1")
	r1.ReleaseHG.Link("F1-1", "R1")
	r1.ReleaseHG.Link("F2-1", "R1")

	r2 := newRelease("R2", "R1", "", t1)
	r2.Objects["F1-2"] = &model.FileObject{ObjectName: "F1-2", Name: "f1", Type: model.TypeFile, Instance: "1", Path: "f1.txt", Author: "bob", IntegrateTime: t1}
	r2.Objects["F2-2"] = &model.FileObject{ObjectName: "F2-2", Name: "f2", Type: model.TypeFile, Instance: "1", Path: "f2.txt", Author: "bob", IntegrateTime: t1}
	r2.Files.AddEdge("F1-1", "F1-2")
	r2.Files.AddEdge("F2-1", "F2-2")
	r2.TaskHG.Link("F1-2", "T1")
	r2.TaskHG.Link("F2-2", "T1")
	r2.Tasks["T1"] = &model.Task{
		ObjectName:   "T1",
		Author:       "bob",
		CompleteTime: t1,
		Objects:      []string{"F1-2", "F2-2"},
		Attributes: map[string]model.AttrValue{
			"task_synopsis":    {Scalar: "Update both files"},
			"task_description": {Scalar: "details"},
		},
	}
	r2.ReleaseHG.AddEdge("R2")
	r2.ReleaseHG.Link("F1-2", "R2")
	r2.ReleaseHG.Link("F2-2", "R2")

	chain := &model.Chain{
		Releases: map[string]*model.Release{"R1": r1, "R2": r2},
		Order:    []string{"R1", "R2"},
	}

	tasks, commits, err := commitgraph.PrepareRelease(r1, r2, nil)
	require.NoError(t, err)
	resolved := map[string]*Resolved{"R2": {Tasks: tasks, Commits: commits}}

	var buf bytes.Buffer
	err = Run(chain, resolved, &buf, fastimport.NopBlobSource{}, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "reset refs/tags/R1")
	assert.Contains(t, out, "Initial commit")
	assert.Contains(t, out, "Update both files")
	assert.Contains(t, out, "Release R2")
	assert.Contains(t, out, "reset refs/heads/master")

	marks := extractMarks(out)
	for i := 1; i < len(marks); i++ {
		assert.Greater(t, marks[i], marks[i-1], "marks must be strictly increasing")
	}
}

func extractMarks(stream string) []int {
	var marks []int
	for _, line := range strings.Split(stream, "\n") {
		if strings.HasPrefix(line, "mark :") {
			var m int
			if _, err := fmt.Sscanf(line, "mark :%d", &m); err == nil {
				marks = append(marks, m)
			}
		}
	}
	return marks
}
