package generator

import "sort"

// Edge is a dependency from one fixture class to another.
type Edge struct {
	From string
	To   string
}

type DependencyGraph struct {
	deps map[string][]string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		deps: make(map[string][]string),
	}
}

func (g *DependencyGraph) Add(class string, deps []string) {
	g.deps[class] = deps
}

// LoadOrder returns the classes with every dependency ahead of its
// dependents. Edges that would close a cycle, self references included,
// are returned separately and otherwise ignored.
func (g *DependencyGraph) LoadOrder() ([]string, []Edge) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	reported := make(map[Edge]bool)
	var order []string
	var cycles []Edge

	var visit func(string)
	visit = func(class string) {
		if visited[class] {
			return
		}

		temp[class] = true
		for _, dep := range g.deps[class] {
			if _, known := g.deps[dep]; !known {
				continue
			}
			if dep == class || temp[dep] {
				edge := Edge{From: class, To: dep}
				if !reported[edge] {
					reported[edge] = true
					cycles = append(cycles, edge)
				}
				continue
			}
			visit(dep)
		}

		temp[class] = false
		visited[class] = true
		order = append(order, class)
	}

	classes := make([]string, 0, len(g.deps))
	for class := range g.deps {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	for _, class := range classes {
		visit(class)
	}
	return order, cycles
}
