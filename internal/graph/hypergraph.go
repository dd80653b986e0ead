package graph

// Hypergraph is a bipartite incidence between "nodes" (file objects) and
// "hyperedges" (tasks or releases). Node identifiers and hyperedge
// identifiers live in disjoint namespaces by convention of the caller.
//
// Unlink removes both directions of a link in one call. The original
// Synergy-to-git converter this is grounded on worked around a bug where
// its hypergraph's unlink() left a stale internal edge by deleting it a
// second time by hand; this implementation's Unlink has no such leftover,
// so no such workaround is needed or provided.
type Hypergraph struct {
	nodes       map[string]struct{}
	edges       map[string]struct{}
	nodeToEdges map[string]map[string]struct{}
	edgeToNodes map[string]map[string]struct{}
}

// NewHypergraph returns an empty hypergraph.
func NewHypergraph() *Hypergraph {
	return &Hypergraph{
		nodes:       map[string]struct{}{},
		edges:       map[string]struct{}{},
		nodeToEdges: map[string]map[string]struct{}{},
		edgeToNodes: map[string]map[string]struct{}{},
	}
}

// AddNode registers a node.
func (h *Hypergraph) AddNode(id string) {
	if _, ok := h.nodes[id]; ok {
		return
	}
	h.nodes[id] = struct{}{}
	h.nodeToEdges[id] = map[string]struct{}{}
}

// AddEdge registers a hyperedge (a task or a release identifier).
func (h *Hypergraph) AddEdge(id string) {
	if _, ok := h.edges[id]; ok {
		return
	}
	h.edges[id] = struct{}{}
	h.edgeToNodes[id] = map[string]struct{}{}
}

// HasNode reports whether id was registered as a node.
func (h *Hypergraph) HasNode(id string) bool {
	_, ok := h.nodes[id]
	return ok
}

// HasEdge reports whether id was registered as a hyperedge.
func (h *Hypergraph) HasEdge(id string) bool {
	_, ok := h.edges[id]
	return ok
}

// Link connects a node to a hyperedge, registering both if necessary.
func (h *Hypergraph) Link(node, edge string) {
	h.AddNode(node)
	h.AddEdge(edge)
	h.nodeToEdges[node][edge] = struct{}{}
	h.edgeToNodes[edge][node] = struct{}{}
}

// Unlink disconnects a node from a hyperedge in both directions.
func (h *Hypergraph) Unlink(node, edge string) {
	if m, ok := h.nodeToEdges[node]; ok {
		delete(m, edge)
	}
	if m, ok := h.edgeToNodes[edge]; ok {
		delete(m, node)
	}
}

// DelEdge removes a hyperedge entirely, unlinking it from every node.
func (h *Hypergraph) DelEdge(edge string) {
	for node := range h.edgeToNodes[edge] {
		delete(h.nodeToEdges[node], edge)
	}
	delete(h.edgeToNodes, edge)
	delete(h.edges, edge)
}

// NodesOfEdge returns the sorted nodes linked to a hyperedge.
func (h *Hypergraph) NodesOfEdge(edge string) []string {
	return sortedKeys(h.edgeToNodes[edge])
}

// EdgesOfNode returns the sorted hyperedges a node is linked to.
func (h *Hypergraph) EdgesOfNode(node string) []string {
	return sortedKeys(h.nodeToEdges[node])
}

// Links mirrors the dual-purpose lookup of the original pygraph
// hypergraph: called with a node id it returns the hyperedges the node
// belongs to, called with a hyperedge id it returns the nodes it
// contains. Node and hyperedge ids must not collide.
func (h *Hypergraph) Links(id string) []string {
	if h.HasNode(id) {
		return h.EdgesOfNode(id)
	}
	if h.HasEdge(id) {
		return h.NodesOfEdge(id)
	}
	return nil
}

// Edges returns every registered hyperedge, sorted.
func (h *Hypergraph) Edges() []string {
	return sortedKeys(h.edges)
}

// Nodes returns every registered node, sorted.
func (h *Hypergraph) Nodes() []string {
	return sortedKeys(h.nodes)
}
