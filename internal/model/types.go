// Package model holds the data types the extractor hands to the converter
// (FileObject, Task, Release) and the loader that turns a JSON snapshot of
// them into the live graphs the rest of the pipeline operates on.
package model

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// ObjectType distinguishes a plain file from a directory entry.
type ObjectType string

const (
	// TypeFile is a regular versioned file.
	TypeFile ObjectType = "file"
	// TypeDir is a directory entry, which carries only deletions.
	TypeDir ObjectType = "dir"
)

// DirChanges records the children deleted between two directory versions.
type DirChanges struct {
	Deleted []string `json:"deleted"`
}

// FileObject is a single immutable versioned artifact from the source
// configuration-management system.
type FileObject struct {
	ObjectName    string      `json:"object_name"`
	Name          string      `json:"name"`
	Type          ObjectType  `json:"type"`
	Instance      string      `json:"instance"`
	Version       string      `json:"version"`
	Path          string      `json:"path"`
	Author        string      `json:"author"`
	IntegrateTime time.Time   `json:"integrate_time"`
	DirChanges    *DirChanges `json:"dir_changes,omitempty"`
}

// LogicalKey identifies the versions of the same logical file: same name,
// type and instance but a different version/integrate time.
func (o *FileObject) LogicalKey() string {
	return o.Name + ":" + string(o.Type) + ":" + o.Instance
}

// AttrValue is either a plain string or a nested string-to-string map, as
// used by a task's "inspection_task" attribute.
type AttrValue struct {
	Scalar string
	Nested map[string]string
}

// IsNested reports whether this value is a nested attribute bag.
func (v AttrValue) IsNested() bool { return v.Nested != nil }

// UnmarshalJSON accepts either a JSON string or a JSON object of strings.
func (v *AttrValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Scalar = s
		v.Nested = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.Wrap(err, "attribute value is neither a string nor a string map")
	}
	v.Nested = m
	return nil
}

// Task is a set of file-object versions completed together.
type Task struct {
	ObjectName   string               `json:"object_name"`
	Author       string               `json:"author"`
	CompleteTime time.Time            `json:"complete_time"`
	Objects      []string             `json:"objects"`
	Attributes   map[string]AttrValue `json:"attributes"`
}

// Synopsis returns the task_synopsis attribute, or "" if absent.
func (t *Task) Synopsis() string {
	return t.Attributes["task_synopsis"].Scalar
}

// Description returns the task_description attribute, or "" if absent.
func (t *Task) Description() string {
	return t.Attributes["task_description"].Scalar
}
