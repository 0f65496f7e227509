package graph

import "slices"

type Node struct {
	ID           string
	Dependencies []string
}

// Graph is the declared dependency graph of a built container. It is
// populated once and only read afterwards.
type Graph struct {
	nodes map[string]*Node
	order []string
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode records id with its dependencies, replacing any previous node with
// the same id.
func (g *Graph) AddNode(id string, dependencies []string) {
	if _, exists := g.nodes[id]; !exists {
		g.order = append(g.order, id)
	}
	g.nodes[id] = &Node{
		ID:           id,
		Dependencies: slices.Clone(dependencies),
	}
}

func (g *Graph) HasNode(id string) bool {
	_, exists := g.nodes[id]
	return exists
}

func (g *Graph) GetDependencies(id string) []string {
	node, exists := g.nodes[id]
	if !exists {
		return nil
	}
	return slices.Clone(node.Dependencies)
}

func (g *Graph) GetDependents(id string) []string {
	var dependents []string
	for _, nodeID := range g.order {
		if slices.Contains(g.nodes[nodeID].Dependencies, id) {
			dependents = append(dependents, nodeID)
		}
	}
	return dependents
}

// Missing is a declared dependency that has no node.
type Missing struct {
	Node       string
	Dependency string
}

// Validate lists every declared dependency that is neither a node nor one
// of the implicit ids.
func (g *Graph) Validate(implicit ...string) []Missing {
	var missing []Missing

	for _, id := range g.order {
		for _, dep := range g.nodes[id].Dependencies {
			if g.HasNode(dep) || slices.Contains(implicit, dep) {
				continue
			}
			missing = append(missing, Missing{Node: id, Dependency: dep})
		}
	}

	return missing
}
