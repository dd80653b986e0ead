// Package blobstore implements fastimport.BlobSource against a plain
// directory of extracted file content, keyed by object name the way the
// extractor's snapshot names file objects.
package blobstore

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore looks up blob content for an object name as Root/<object
// name>. It is the concrete BlobSource a real extraction run supplies;
// NopBlobSource remains the default for snapshots with no content.
type FileStore struct {
	Root string
}

// Open returns the file at Root/objectName. A missing file is reported
// through the returned error, not swallowed into "no content" the way
// NopBlobSource behaves, since a FileStore caller always expects content
// to exist for every object it is asked to fetch.
func (f FileStore) Open(objectName string) (io.ReadCloser, int64, error) {
	path := filepath.Join(f.Root, objectName)
	file, err := os.Open(path)
	if err != nil {
		return nil, -1, errors.Wrapf(err, "opening blob content for %s", objectName)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, -1, errors.Wrapf(err, "stat blob content for %s", objectName)
	}
	return file, info.Size(), nil
}
