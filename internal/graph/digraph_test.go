package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigraphBasics(t *testing.T) {
	g := NewDigraph()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")

	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())
	assert.Equal(t, []string{"b", "c"}, g.Neighbors("a"))
	assert.Equal(t, []string{"a", "b"}, g.Incidents("c"))
	assert.True(t, g.HasEdge("a", "b"))
	assert.Equal(t, 2, g.NodeOrder("c"))

	g.DelEdge("a", "b")
	assert.False(t, g.HasEdge("a", "b"))
	assert.Equal(t, []string{"c"}, g.Neighbors("a"))
}

func TestFindCycleAcyclic(t *testing.T) {
	g := NewDigraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	assert.Nil(t, FindCycle(g))
}

func TestFindCycleDetectsCycle(t *testing.T) {
	g := NewDigraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	cycle := FindCycle(g)
	require.NotNil(t, cycle)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycle)
}

func TestTransitiveEdges(t *testing.T) {
	g := NewDigraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("a", "c") // implied by a->b->c

	redundant := TransitiveEdges(g)
	assert.Equal(t, [][2]string{{"a", "c"}}, redundant)
}

func TestMutualAccessibility(t *testing.T) {
	g := NewDigraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("c", "d")

	comps := SCCComponents(g)
	require.Len(t, comps, 1)
	assert.Equal(t, []string{"a", "b", "c"}, comps[0])
}
