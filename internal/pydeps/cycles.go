package pydeps

import "sort"

// Graph is a directed dependency graph over module names, with forward and
// reverse edges maintained together.
type Graph struct {
	forward map[string]map[string]bool
	reverse map[string]map[string]bool
}

// NewGraph creates an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{
		forward: make(map[string]map[string]bool),
		reverse: make(map[string]map[string]bool),
	}
}

// FromResult builds a graph from a dependency-mapping result.
func FromResult(result *Result) *Graph {
	g := NewGraph()
	for module, deps := range result.Dependencies {
		for _, dep := range deps {
			g.AddDependency(module, dep)
		}
	}
	return g
}

// AddDependency records that from depends on to.
func (g *Graph) AddDependency(from, to string) {
	if g.forward[from] == nil {
		g.forward[from] = make(map[string]bool)
	}
	g.forward[from][to] = true

	if g.reverse[to] == nil {
		g.reverse[to] = make(map[string]bool)
	}
	g.reverse[to][from] = true
}

// Dependencies returns what the given module depends on, sorted.
func (g *Graph) Dependencies(module string) []string {
	return sortedKeys(g.forward[module])
}

// Dependents returns the modules that depend on the given one, sorted.
func (g *Graph) Dependents(module string) []string {
	return sortedKeys(g.reverse[module])
}

// FindCircularDependencies returns every cycle found during a depth-first
// sweep of the graph. Each cycle is reported as the path from the first
// repeated module back to itself, with that module repeated at both ends.
// The same loop reached from different entry points can be reported more
// than once; callers that need distinct cycles must deduplicate.
func (g *Graph) FindCircularDependencies() [][]string {
	visited := make(map[string]bool)
	var cycles [][]string

	var visit func(node string, path []string)
	visit = func(node string, path []string) {
		visited[node] = true
		path = append(path, node)

		for _, neighbor := range sortedKeys(g.forward[node]) {
			if !visited[neighbor] {
				visit(neighbor, append([]string(nil), path...))
				continue
			}

			// A visited neighbor closes a cycle only when it sits on
			// the current path; otherwise it was finished on an
			// earlier branch.
			for i, onPath := range path {
				if onPath == neighbor {
					cycle := append(append([]string(nil), path[i:]...), neighbor)
					cycles = append(cycles, cycle)
					break
				}
			}
		}
	}

	var nodes []string
	for node := range g.forward {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		if !visited[node] {
			visit(node, nil)
		}
	}
	return cycles
}
