package graph

import "slices"

// Graph is the immutable node and edge set of one workflow document.
type Graph struct {
	start    string
	nodes    map[string]*Node
	order    []string
	out      map[string][]Edge
	in       map[string][]Edge
	edges    []Edge
	dangling []string
	skipped  []string
}

func newGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		out:   make(map[string][]Edge),
		in:    make(map[string][]Edge),
	}
}

// Start returns the id of the entry node.
func (g *Graph) Start() string { return g.start }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return copyNode(n), true
}

// Has reports whether a node with the given id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, copyNode(g.nodes[id]))
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// OutEdges returns the edges leaving id, in insertion order.
func (g *Graph) OutEdges(id string) []Edge {
	return slices.Clone(g.out[id])
}

// InEdges returns the edges entering id, in insertion order.
func (g *Graph) InEdges(id string) []Edge {
	return slices.Clone(g.in[id])
}

// HasEdge reports whether an edge from -> to with exactly the given label exists.
func (g *Graph) HasEdge(from, label, to string) bool {
	for _, e := range g.out[from] {
		if e.To == to && e.Label == label {
			return true
		}
	}
	return false
}

// DanglingTargets returns edge destinations that never became nodes, in the
// order they were first referenced. These come from jumps to locations that
// are not defined in the document.
func (g *Graph) DanglingTargets() []string {
	return slices.Clone(g.dangling)
}

// SkippedElements returns the paths of elements left out of the graph because
// they lack an id (or, for jumps, a location), in traversal order.
func (g *Graph) SkippedElements() []string {
	return slices.Clone(g.skipped)
}

// Reachable returns the set of ids reachable from id by following edges,
// including id itself.
func (g *Graph) Reachable(id string) map[string]bool {
	seen := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.out[cur] {
			if !seen[e.To] {
				seen[e.To] = true
				stack = append(stack, e.To)
			}
		}
	}
	return seen
}

// Reaching returns the set of ids from which id can be reached, including id.
func (g *Graph) Reaching(id string) map[string]bool {
	seen := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.in[cur] {
			if !seen[e.From] {
				seen[e.From] = true
				stack = append(stack, e.From)
			}
		}
	}
	return seen
}

func copyNode(n *Node) Node {
	c := *n
	if n.Exception != nil {
		exc := *n.Exception
		c.Exception = &exc
	}
	return c
}
