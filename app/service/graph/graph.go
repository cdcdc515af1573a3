package graph

import (
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/oops"
)

type Option func(*Graph)

// WithStrictEdges rejects self-loops and parallel edges. By default both are
// accepted and the edge set behaves as an ordered multiset.
func WithStrictEdges() Option {
	return func(g *Graph) {
		g.strict = true
	}
}

// Graph is a directed concept graph with a learned flag per node. Nodes are
// append-only.
type Graph struct {
	nodes map[int]*Node
	order []int
	edges []Edge
	tags  map[int]bool

	strict bool
}

func New(opts ...Option) *Graph {
	g := &Graph{
		nodes: make(map[int]*Node),
		tags:  make(map[int]bool),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Graph) AddNode(id int, text string, forward, backward []int) error {
	errb := oops.In("graph").With("id", id)

	if id < 0 {
		return errb.Code("invalid_id").Wrap(ErrInvalidID)
	}
	if _, ok := g.nodes[id]; ok {
		return errb.Code("duplicate_id").Wrap(ErrDuplicateID)
	}

	for _, nbr := range append(append([]int(nil), forward...), backward...) {
		if nbr != id && !g.Has(nbr) {
			return errb.Code("unknown_node").With("neighbor", nbr).Wrap(ErrUnknownNode)
		}
	}

	if g.strict {
		if err := g.checkNewEdges(id, forward, backward); err != nil {
			return err
		}
	}

	g.nodes[id] = &Node{ID: id, Text: text}
	g.order = append(g.order, id)
	g.tags[id] = false

	for _, nbr := range forward {
		g.appendEdge(id, nbr)
	}
	for _, nbr := range backward {
		g.appendEdge(nbr, id)
	}

	return nil
}

func (g *Graph) AddEdge(from, to int) error {
	errb := oops.In("graph").With("from", from, "to", to)

	if !g.Has(from) || !g.Has(to) {
		return errb.Code("unknown_node").Wrap(ErrUnknownNode)
	}

	if g.strict {
		if from == to {
			return errb.Code("self_loop").Wrap(ErrInvalidEdge)
		}
		if g.hasEdge(from, to) {
			return errb.Code("duplicate_edge").Wrap(ErrInvalidEdge)
		}
	}

	g.appendEdge(from, to)

	return nil
}

func (g *Graph) checkNewEdges(id int, forward, backward []int) error {
	seen := make(map[Edge]bool)
	candidates := make([]Edge, 0, len(forward)+len(backward))
	for _, nbr := range forward {
		candidates = append(candidates, Edge{From: id, To: nbr})
	}
	for _, nbr := range backward {
		candidates = append(candidates, Edge{From: nbr, To: id})
	}

	for _, e := range candidates {
		if e.From == e.To || seen[e] {
			return oops.In("graph").Code("invalid_edge").With("from", e.From, "to", e.To).Wrap(ErrInvalidEdge)
		}
		seen[e] = true
	}

	return nil
}

func (g *Graph) appendEdge(from, to int) {
	g.edges = append(g.edges, Edge{From: from, To: to})
	g.nodes[from].Forward = append(g.nodes[from].Forward, to)
	g.nodes[to].Backward = append(g.nodes[to].Backward, from)
}

func (g *Graph) hasEdge(from, to int) bool {
	return pie.Contains(g.edges, Edge{From: from, To: to})
}

// NextID returns 0 for an empty graph, otherwise one more than the largest id.
func (g *Graph) NextID() int {
	if len(g.order) == 0 {
		return 0
	}

	return pie.Max(g.order) + 1
}

func (g *Graph) Has(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id int) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}

	return *n.clone(), true
}

// Nodes returns copies of all nodes in creation order.
func (g *Graph) Nodes() []Node {
	return pie.Map(g.order, func(id int) Node {
		return *g.nodes[id].clone()
	})
}

func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

func (g *Graph) FindByText(text string) (int, bool) {
	idx := pie.FindFirstUsing(g.order, func(id int) bool {
		return g.nodes[id].Text == text
	})
	if idx < 0 {
		return 0, false
	}

	return g.order[idx], true
}

func (g *Graph) ToggleTag(id int) error {
	if !g.Has(id) {
		return oops.In("graph").Code("unknown_node").With("id", id).Wrap(ErrUnknownNode)
	}

	g.tags[id] = !g.tags[id]

	return nil
}

func (g *Graph) Tagged(id int) bool {
	return g.tags[id]
}

// TaggedNames joins the labels of every learned node with ", " in creation
// order.
func (g *Graph) TaggedNames() string {
	tagged := pie.Filter(g.order, func(id int) bool {
		return g.tags[id]
	})

	return strings.Join(pie.Map(tagged, func(id int) string {
		return g.nodes[id].Text
	}), ", ")
}

// String renders every node with its outgoing neighbours, one per line.
func (g *Graph) String() string {
	var builder strings.Builder

	for _, id := range g.order {
		n := g.nodes[id]
		builder.WriteString(fmt.Sprintf("%s (%d) is connected to: ", n.Text, n.ID))

		nbrs := pie.Map(n.Forward, func(nbr int) string {
			return fmt.Sprintf("%s (%d)", g.nodes[nbr].Text, nbr)
		})
		builder.WriteString(strings.Join(nbrs, ", "))
		builder.WriteString("\n")
	}

	return builder.String()
}

func (g *Graph) Snapshot() Snapshot {
	return Snapshot{
		Nodes: pie.Map(g.order, func(id int) SnapshotNode {
			return SnapshotNode{ID: id, Text: g.nodes[id].Text, Learned: g.tags[id]}
		}),
		Edges: g.Edges(),
	}
}

// Restore replaces the whole graph with the snapshot content. The graph is
// left untouched when the snapshot is inconsistent.
func (g *Graph) Restore(snap Snapshot) error {
	fresh := New()

	for _, n := range snap.Nodes {
		if err := fresh.AddNode(n.ID, n.Text, nil, nil); err != nil {
			return fmt.Errorf("restore node: %w", err)
		}
		fresh.tags[n.ID] = n.Learned
	}

	for _, e := range snap.Edges {
		if !fresh.Has(e.From) || !fresh.Has(e.To) {
			return oops.In("graph").Code("unknown_node").With("from", e.From, "to", e.To).
				Wrapf(ErrUnknownNode, "restore edge")
		}
		fresh.appendEdge(e.From, e.To)
	}

	g.replace(fresh)

	return nil
}

func (g *Graph) clone() *Graph {
	c := New()
	c.strict = g.strict
	c.order = append([]int(nil), g.order...)
	c.edges = append([]Edge(nil), g.edges...)

	for id, n := range g.nodes {
		c.nodes[id] = n.clone()
	}
	for id, tagged := range g.tags {
		c.tags[id] = tagged
	}

	return c
}

func (g *Graph) replace(o *Graph) {
	g.nodes = o.nodes
	g.order = o.order
	g.edges = o.edges
	g.tags = o.tags
}
