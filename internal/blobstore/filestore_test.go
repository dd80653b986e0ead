package blobstore

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreOpensContentByObjectName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "F1-1"), []byte("hello"), 0o644))

	store := FileStore{Root: dir}
	rc, size, err := store.Open("F1-1")
	require.NoError(t, err)
	defer rc.Close()

	assert.EqualValues(t, 5, size)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFileStoreMissingObjectErrors(t *testing.T) {
	store := FileStore{Root: t.TempDir()}
	_, _, err := store.Open("missing")
	assert.Error(t, err)
}
