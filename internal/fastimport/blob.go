// Package fastimport renders blob, commit and reset records in the git
// fast-import textual stream format, and reduces a task's file objects
// to the set that should appear as tree entries in its commit.
package fastimport

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/aolsson/ccm2git/internal/model"
)

// ErrMissingContent is returned when a BlobSource fails to open content
// for an object it was asked to fetch.
var ErrMissingContent = errors.New("missing content")

// ErrFormatterViolation is returned when a commit would reference a
// parent mark that was never recorded, i.e. the caller violated the
// emission order the formatter depends on.
var ErrFormatterViolation = errors.New("formatter violation")

// BlobSource is the content-fetching capability the formatter is given.
// Content emission is otherwise elided: a nil BlobSource (or NopBlobSource)
// produces bare "blob"/"mark" records with no "data" line, same as the
// commented-out content fetch in the tool this format is modeled on.
type BlobSource interface {
	// Open returns the content and its length for a file object. A
	// length of -1 with a nil reader means "no content available";
	// the caller emits the blob record without a data line.
	Open(objectName string) (io.ReadCloser, int64, error)
}

// NopBlobSource never provides content.
type NopBlobSource struct{}

// Open always reports no content available.
func (NopBlobSource) Open(string) (io.ReadCloser, int64, error) {
	return nil, -1, nil
}

// WriteBlob emits one blob record for a file object at the given mark.
func WriteBlob(w *bufio.Writer, mark int, src BlobSource, objectName string) error {
	fmt.Fprintf(w, "blob\nmark :%d\n", mark)
	if src == nil {
		src = NopBlobSource{}
	}
	rc, length, err := src.Open(objectName)
	if err != nil {
		return errors.Wrapf(ErrMissingContent, "%s: %v", objectName, err)
	}
	if rc != nil {
		defer rc.Close()
		fmt.Fprintf(w, "data %d\n", length)
		if _, err := io.Copy(w, rc); err != nil {
			return errors.Wrapf(ErrMissingContent, "copying %s: %v", objectName, err)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	return nil
}

// ReduceObjectsForCommit keeps, for every (name, type, instance) logical
// file, only its latest version ordered by (integrate time, version)
// ascending — a task that checkpoints the same file multiple times
// should collapse to one tree entry. Order of the returned slice is the
// sorted logical-key order, for deterministic output.
func ReduceObjectsForCommit(objects []*model.FileObject) []*model.FileObject {
	byKey := map[string][]*model.FileObject{}
	for _, o := range objects {
		byKey[o.LogicalKey()] = append(byKey[o.LogicalKey()], o)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]*model.FileObject, 0, len(keys))
	for _, k := range keys {
		versions := byKey[k]
		sort.Slice(versions, func(i, j int) bool {
			if !versions[i].IntegrateTime.Equal(versions[j].IntegrateTime) {
				return versions[i].IntegrateTime.Before(versions[j].IntegrateTime)
			}
			return versions[i].Version < versions[j].Version
		})
		result = append(result, versions[len(versions)-1])
	}
	return result
}
