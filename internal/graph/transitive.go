package graph

// TransitiveEdges enumerates the edges of g that are implied by some other
// path of length two or more, i.e. the edges a transitive reduction would
// remove. g must be acyclic; callers resolve cycles before calling this.
func TransitiveEdges(g *Digraph) [][2]string {
	reach := map[string]map[string]struct{}{}
	var reachableFrom func(node string) map[string]struct{}
	reachableFrom = func(node string) map[string]struct{} {
		if r, ok := reach[node]; ok {
			return r
		}
		result := map[string]struct{}{}
		reach[node] = result // guards against accidental recursion on bad input
		for _, succ := range g.Neighbors(node) {
			result[succ] = struct{}{}
			for r := range reachableFrom(succ) {
				result[r] = struct{}{}
			}
		}
		return result
	}

	var redundant [][2]string
	for _, u := range g.Nodes() {
		for _, v := range g.Neighbors(u) {
			implied := false
			for _, w := range g.Neighbors(u) {
				if w == v {
					continue
				}
				if _, ok := reachableFrom(w)[v]; ok {
					implied = true
					break
				}
			}
			if implied {
				redundant = append(redundant, [2]string{u, v})
			}
		}
	}
	return redundant
}
