// Package pathfind reconstructs how a workflow reaches a given step.
//
// Resolve walks the graph depth-first from the start node, trying outgoing
// edges in insertion order and backtracking out of dead ends, and returns the
// first complete path it finds. The result is not necessarily the shortest
// path, but it is the same path every time for the same graph.
//
// Nodes are unmarked when the search backtracks out of them, so a node can be
// explored once per distinct route reaching it. Pruning nodes that cannot
// reach the target keeps ordinary workflows linear, but the worst case is
// exponential: a chain of k fork diamonds whose exits all jump back above the
// chain, with the target reachable only from the top, is walked about 2^k
// times before the search gives up on that branch.
package pathfind

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/wfdtrace/internal/graph"
)

// Step is one traversed edge of a path.
type Step struct {
	From  string `json:"from" yaml:"from"`
	Label string `json:"label" yaml:"label"`
	To    string `json:"to" yaml:"to"`
}

func (s Step) String() string {
	return fmt.Sprintf("%s --[%s]--> %s", s.From, s.Label, s.To)
}

// Path is an ordered trace from the start node to a target node.
type Path []Step

// String renders the path as arrow-joined steps, for example
// "S0 --[]--> F1 -> F1 --[Success]--> C2".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, " -> ")
}

// Resolve returns a path from start to target, or nil when target cannot be
// reached. Ids that are not nodes of g, such as jump locations that are never
// defined, are unreachable. When start equals target the path is empty but
// not nil.
func Resolve(g *graph.Graph, start, target string) Path {
	if !g.Has(start) || !g.Has(target) {
		return nil
	}

	// Nodes that cannot reach the target are never part of a path, so they
	// are skipped without changing which path is found first.
	canReach := g.Reaching(target)
	if !canReach[start] {
		return nil
	}
	if start == target {
		return Path{}
	}

	type frame struct {
		id    string
		edges []graph.Edge
		next  int
	}

	onPath := map[string]bool{start: true}
	stack := []frame{{id: start, edges: g.OutEdges(start)}}
	var path Path

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.edges) {
			delete(onPath, top.id)
			stack = stack[:len(stack)-1]
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
			continue
		}

		e := top.edges[top.next]
		top.next++
		if onPath[e.To] || !canReach[e.To] {
			continue
		}

		path = append(path, Step{From: e.From, Label: e.Label, To: e.To})
		if e.To == target {
			return path
		}
		onPath[e.To] = true
		stack = append(stack, frame{id: e.To, edges: g.OutEdges(e.To)})
	}

	return nil
}

// Validate checks that p is a walk of g from start to target in which every
// step is an edge of g with the recorded label.
func Validate(g *graph.Graph, start, target string, p Path) error {
	if p == nil {
		return fmt.Errorf("path is nil")
	}
	if len(p) == 0 {
		if start != target {
			return fmt.Errorf("empty path from %q to %q", start, target)
		}
		return nil
	}
	if p[0].From != start {
		return fmt.Errorf("path starts at %q, expected %q", p[0].From, start)
	}
	if last := p[len(p)-1].To; last != target {
		return fmt.Errorf("path ends at %q, expected %q", last, target)
	}
	for i, s := range p {
		if i > 0 && p[i-1].To != s.From {
			return fmt.Errorf("step %d starts at %q but previous step ended at %q", i, s.From, p[i-1].To)
		}
		if !g.HasEdge(s.From, s.Label, s.To) {
			return fmt.Errorf("step %d (%s) is not an edge of the graph", i, s)
		}
	}
	return nil
}
