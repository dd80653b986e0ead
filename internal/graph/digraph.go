// Package graph provides the directed-graph and hypergraph primitives the
// rest of the pipeline is built on: node/edge bookkeeping, cycle search,
// transitive reduction and strongly-connected-component grouping.
package graph

import "sort"

// Digraph is a directed graph over string-identified nodes. Edges are kept
// in both directions so Neighbors and Incidents are both O(1) lookups; no
// node ever holds an owning pointer to another, only its identifier.
type Digraph struct {
	nodes map[string]struct{}
	out   map[string]map[string]struct{}
	in    map[string]map[string]struct{}
}

// NewDigraph returns an empty directed graph.
func NewDigraph() *Digraph {
	return &Digraph{
		nodes: map[string]struct{}{},
		out:   map[string]map[string]struct{}{},
		in:    map[string]map[string]struct{}{},
	}
}

// AddNode registers a node. Re-adding an existing node is a no-op.
func (g *Digraph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = struct{}{}
	g.out[id] = map[string]struct{}{}
	g.in[id] = map[string]struct{}{}
}

// HasNode reports whether id was registered with AddNode.
func (g *Digraph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge adds the edge from->to, registering both endpoints first.
func (g *Digraph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.out[from][to] = struct{}{}
	g.in[to][from] = struct{}{}
}

// HasEdge reports whether the edge from->to exists.
func (g *Digraph) HasEdge(from, to string) bool {
	succ, ok := g.out[from]
	if !ok {
		return false
	}
	_, ok = succ[to]
	return ok
}

// DelEdge removes the edge from->to, if present. Nodes are left in place.
func (g *Digraph) DelEdge(from, to string) {
	if succ, ok := g.out[from]; ok {
		delete(succ, to)
	}
	if pred, ok := g.in[to]; ok {
		delete(pred, from)
	}
}

// Neighbors returns the sorted out-successors of a node.
func (g *Digraph) Neighbors(id string) []string {
	return sortedKeys(g.out[id])
}

// Incidents returns the sorted in-predecessors of a node.
func (g *Digraph) Incidents(id string) []string {
	return sortedKeys(g.in[id])
}

// NodeOrder returns the in-degree of a node.
func (g *Digraph) NodeOrder(id string) int {
	return len(g.in[id])
}

// Nodes returns every node, sorted for deterministic iteration.
func (g *Digraph) Nodes() []string {
	return sortedKeys(g.nodes)
}

// Edges returns every edge as a (from, to) pair, sorted for determinism.
func (g *Digraph) Edges() [][2]string {
	var edges [][2]string
	for _, from := range g.Nodes() {
		for _, to := range g.Neighbors(from) {
			edges = append(edges, [2]string{from, to})
		}
	}
	return edges
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
