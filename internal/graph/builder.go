package graph

import (
	"context"
	"fmt"

	"github.com/beevik/etree"
	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
	"github.com/specialistvlad/wfdtrace/internal/document"
)

// DuplicatePolicy decides what happens when an id is assigned twice.
type DuplicatePolicy string

const (
	// DuplicateReject fails the build with a DuplicateNodeIDError.
	DuplicateReject DuplicatePolicy = "reject"
	// DuplicateOverwrite lets the later element replace the node record.
	// Edges created for the earlier element are kept.
	DuplicateOverwrite DuplicatePolicy = "overwrite"
)

// ParseDuplicatePolicy validates a policy name. The empty string selects
// DuplicateReject.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", DuplicateReject:
		return DuplicateReject, nil
	case DuplicateOverwrite:
		return DuplicateOverwrite, nil
	default:
		return "", fmt.Errorf("invalid duplicate id policy %q: must be %q or %q", s, DuplicateReject, DuplicateOverwrite)
	}
}

// Options configures Build.
type Options struct {
	Duplicates DuplicatePolicy
}

// visit is one pending unit of traversal: an element to attach to source,
// reached through a branch with the given label.
type visit struct {
	el     *etree.Element
	source string
	label  string
}

// builder accumulates nodes and edges for a single Build call.
type builder struct {
	ctx    context.Context
	g      *Graph
	policy DuplicatePolicy
}

// Build constructs the graph reachable from the entry element of doc.
func Build(ctx context.Context, doc *document.Document, opts Options) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "document", doc.Path())

	b := &builder{ctx: ctx, g: newGraph(), policy: opts.Duplicates}
	if b.policy == "" {
		b.policy = DuplicateReject
	}

	entry := doc.Entry()
	startID := document.ID(entry)
	if startID == "" {
		return nil, &MissingIDError{Tag: entry.Tag, Path: entry.GetPath()}
	}
	if err := b.addNode(&Node{ID: startID, Kind: KindStart}); err != nil {
		return nil, err
	}
	b.g.start = startID

	// A stack processed LIFO, with children pushed in reverse, yields the same
	// pre-order as a recursive descent.
	stack := pushReversed(nil, childVisits(entry, startID, LabelNone))
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		next, err := b.step(v)
		if err != nil {
			return nil, err
		}
		stack = pushReversed(stack, next)
	}

	b.collectDangling()
	for _, id := range b.g.dangling {
		logger.Warn("Jump target is never defined, paths through it cannot be resolved.", "target", id)
	}

	logger.Debug("Build: Graph construction successful.", "node_count", b.g.Len(), "edge_count", len(b.g.edges))
	return b.g, nil
}

// step attaches one element to the graph and returns the visits it spawns.
func (b *builder) step(v visit) ([]visit, error) {
	el := v.el
	switch el.Tag {
	case document.TagFork:
		id, err := b.link(el, KindFork, v)
		if err != nil || id == "" {
			return nil, err
		}
		var next []visit
		if branch := document.FirstChild(el, document.TagSuccess); branch != nil {
			next = append(next, childVisits(branch, id, LabelSuccess)...)
		}
		if branch := document.FirstChild(el, document.TagFailure); branch != nil {
			next = append(next, childVisits(branch, id, LabelFailure)...)
		}
		return next, nil

	case document.TagCondition:
		id, err := b.link(el, KindCondition, v)
		if err != nil || id == "" {
			return nil, err
		}
		if branch := document.FirstChild(el, document.TagSuccess); branch != nil {
			return childVisits(branch, id, LabelSuccess), nil
		}
		return nil, nil

	case document.TagConditionGroup:
		id, err := b.link(el, KindConditionGroup, v)
		if err != nil || id == "" {
			return nil, err
		}
		for _, child := range el.ChildElements() {
			if child.Tag != document.TagCondition {
				continue
			}
			if _, err := b.link(child, KindCondition, visit{source: id, label: LabelNone}); err != nil {
				return nil, err
			}
		}
		return nil, nil

	case document.TagOperation:
		id, err := b.link(el, KindOperation, v)
		if err != nil || id == "" {
			return nil, err
		}
		return childVisits(el, id, LabelNone), nil

	case document.TagLabel:
		id, err := b.link(el, KindLabel, v)
		if err != nil || id == "" {
			return nil, err
		}
		return childVisits(el, id, LabelNone), nil

	case document.TagEnd:
		_, err := b.link(el, KindEnd, v)
		return nil, err

	case document.TagJump:
		target := document.Attr(el, document.AttrLocation, "")
		if target == "" {
			b.skip(el, "jump has no location")
			return nil, nil
		}
		b.addEdge(v.source, target, v.label)
		return nil, nil

	default:
		ctxlog.FromContext(b.ctx).Debug("Skipping unrecognized element.", "tag", el.Tag)
		return nil, nil
	}
}

// link creates the node for el and the edge reaching it, returning the node
// id. An element without an id is skipped with its subtree and yields "".
func (b *builder) link(el *etree.Element, kind Kind, v visit) (string, error) {
	id := document.ID(el)
	if id == "" {
		b.skip(el, "element has no id")
		return "", nil
	}

	n := &Node{ID: id, Kind: kind}
	if kind == KindCondition {
		n.Exception = exceptionOf(el)
	}
	if err := b.addNode(n); err != nil {
		return "", err
	}
	b.addEdge(v.source, id, v.label)
	return id, nil
}

// skip records an element that could not be attached to the graph. Its
// subtree is not traversed, so conditions below it resolve to no path.
func (b *builder) skip(el *etree.Element, reason string) {
	path := el.GetPath()
	ctxlog.FromContext(b.ctx).Warn("Skipping workflow element.", "tag", el.Tag, "path", path, "reason", reason)
	b.g.skipped = append(b.g.skipped, path)
}

func (b *builder) addNode(n *Node) error {
	if existing, ok := b.g.nodes[n.ID]; ok {
		if b.policy == DuplicateReject {
			return &DuplicateNodeIDError{ID: n.ID, Existing: existing.Kind, Incoming: n.Kind}
		}
		ctxlog.FromContext(b.ctx).Warn("Duplicate node definition found, it will be overwritten.", "id", n.ID, "kind", n.Kind)
		b.g.nodes[n.ID] = n
		return nil
	}
	b.g.nodes[n.ID] = n
	b.g.order = append(b.g.order, n.ID)
	return nil
}

func (b *builder) addEdge(from, to, label string) {
	e := Edge{From: from, To: to, Label: label}
	b.g.edges = append(b.g.edges, e)
	b.g.out[from] = append(b.g.out[from], e)
	b.g.in[to] = append(b.g.in[to], e)
}

func (b *builder) collectDangling() {
	seen := make(map[string]bool)
	for _, e := range b.g.edges {
		if b.g.Has(e.To) || seen[e.To] {
			continue
		}
		seen[e.To] = true
		b.g.dangling = append(b.g.dangling, e.To)
	}
}

// exceptionOf reads the nested exception definition of a condition element.
func exceptionOf(el *etree.Element) *Exception {
	exc := document.FirstChild(el, document.TagException)
	if exc == nil {
		return nil
	}
	return &Exception{
		Type:   document.Attr(exc, document.AttrType, ""),
		Format: document.Attr(exc, document.AttrFormat, ""),
		Text:   document.Attr(exc, document.AttrText, "None"),
	}
}

func childVisits(parent *etree.Element, source, label string) []visit {
	children := parent.ChildElements()
	visits := make([]visit, 0, len(children))
	for _, child := range children {
		visits = append(visits, visit{el: child, source: source, label: label})
	}
	return visits
}

func pushReversed(stack, visits []visit) []visit {
	for i := len(visits) - 1; i >= 0; i-- {
		stack = append(stack, visits[i])
	}
	return stack
}
