package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHypergraphLinkUnlink(t *testing.T) {
	h := NewHypergraph()
	h.Link("F1-2", "T1")
	h.Link("F2-2", "T1")

	assert.Equal(t, []string{"T1"}, h.Links("F1-2"))
	assert.Equal(t, []string{"F1-2", "F2-2"}, h.Links("T1"))

	h.Unlink("F1-2", "T1")
	assert.Empty(t, h.Links("F1-2"))
	assert.Equal(t, []string{"F2-2"}, h.Links("T1"))
}

func TestHypergraphDelEdge(t *testing.T) {
	h := NewHypergraph()
	h.Link("F1-2", "T1")
	h.Link("F2-2", "T1")

	h.DelEdge("T1")
	assert.False(t, h.HasEdge("T1"))
	assert.Empty(t, h.Links("F1-2"))
	assert.Empty(t, h.Links("F2-2"))
}
