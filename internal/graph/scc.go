package graph

import "sort"

// MutualAccessibility returns, for every node, the sorted list of nodes
// that are mutually reachable with it (its strongly-connected component,
// including itself). This is Tarjan's algorithm; node order is fixed by
// sorted iteration so results are reproducible.
func MutualAccessibility(g *Digraph) map[string][]string {
	index := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	counter := 0
	var components [][]string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Neighbors(v) {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var comp []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sort.Strings(comp)
			components = append(components, comp)
		}
	}

	for _, v := range g.Nodes() {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}

	result := make(map[string][]string, len(g.nodes))
	for _, comp := range components {
		for _, v := range comp {
			result[v] = comp
		}
	}
	return result
}

// SCCComponents returns the distinct strongly-connected components of g
// with two or more members (the ones that actually form a cycle), sorted
// by (size descending, then lexicographically) for deterministic
// "longest component" selection.
func SCCComponents(g *Digraph) [][]string {
	seen := map[string]bool{}
	var components [][]string
	for _, nodes := range MutualAccessibility(g) {
		if len(nodes) < 2 {
			continue
		}
		key := nodes[0]
		if seen[key] {
			continue
		}
		seen[key] = true
		components = append(components, nodes)
	}
	sort.Slice(components, func(i, j int) bool {
		if len(components[i]) != len(components[j]) {
			return len(components[i]) > len(components[j])
		}
		return lessStringSlice(components[i], components[j])
	})
	return components
}

func lessStringSlice(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
