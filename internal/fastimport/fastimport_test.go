package fastimport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aolsson/ccm2git/internal/model"
)

func TestCommitMessageTrailersAndInspection(t *testing.T) {
	task := &model.Task{
		Attributes: map[string]model.AttrValue{
			"task_synopsis":    {Scalar: "Fix the thing"},
			"task_description": {Scalar: "Longer explanation"},
			"status_log":       {Scalar: "noise"},
			"release":          {Scalar: "R2  \n"},
			"inspection_task": {Nested: map[string]string{
				"task_insp_result": "pass\nsecond line",
				"status_log":       "skip me",
				"insp_empty":       "   ",
			}},
		},
	}

	msg := CommitMessage(task)
	assert.Contains(t, msg, "Fix the thing\n\nLonger explanation\n")
	assert.Contains(t, msg, "Synergy-release: R2")
	assert.NotContains(t, msg, "status_log")
	assert.Contains(t, msg, "Synergy-insp-result: pass")
	assert.Contains(t, msg, "Synergy-insp-result: second line")
	assert.NotContains(t, msg, "insp-empty")
}

func TestReduceObjectsForCommitKeepsLatest(t *testing.T) {
	older := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	objects := []*model.FileObject{
		{ObjectName: "F-1", Name: "f", Type: model.TypeFile, Instance: "1", Version: "1", IntegrateTime: older},
		{ObjectName: "F-2", Name: "f", Type: model.TypeFile, Instance: "1", Version: "2", IntegrateTime: newer},
		{ObjectName: "G-1", Name: "g", Type: model.TypeFile, Instance: "1", Version: "1", IntegrateTime: older},
	}

	reduced := ReduceObjectsForCommit(objects)
	assert.Len(t, reduced, 2)
	names := map[string]bool{}
	for _, o := range reduced {
		names[o.ObjectName] = true
	}
	assert.True(t, names["F-2"])
	assert.True(t, names["G-1"])
	assert.False(t, names["F-1"])
}

func TestFileListFormatsFilesAndDeletions(t *testing.T) {
	lookup := map[string]int{"F-1": 3}
	objects := []*model.FileObject{
		{ObjectName: "F-1", Type: model.TypeFile, Path: "src/a.txt"},
		{ObjectName: "D-1", Type: model.TypeDir, Path: "src", DirChanges: &model.DirChanges{Deleted: []string{"old.txt"}}},
	}

	list := FileList(objects, lookup)
	assert.Contains(t, list, "M 100644 :3 src/a.txt")
	assert.Contains(t, list, "D src/old.txt")
}
