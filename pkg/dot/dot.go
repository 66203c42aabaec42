// Package dot builds Graphviz DOT documents with nested clusters and writes
// them deterministically: identical construction order produces identical
// bytes, so re-running a transform on the same input reproduces the same
// document.
package dot

import (
	"fmt"
	"strings"
)

// attrs is an attribute list preserving insertion order.
type attrs struct {
	keys   []string
	values map[string]string
}

func (a *attrs) set(key, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

func (a *attrs) empty() bool {
	return len(a.keys) == 0
}

func (a *attrs) inline() string {
	parts := make([]string, len(a.keys))
	for i, key := range a.keys {
		parts[i] = fmt.Sprintf("%s=%s", key, quote(a.values[key]))
	}
	return strings.Join(parts, ", ")
}

// Node is one node statement.
type Node struct {
	ID    string
	attrs attrs
}

// Set adds or replaces a node attribute.
func (n *Node) Set(key, value string) *Node {
	n.attrs.set(key, value)
	return n
}

// Edge is one directed edge statement.
type Edge struct {
	From, To string
	attrs    attrs
}

// Set adds or replaces an edge attribute.
func (e *Edge) Set(key, value string) *Edge {
	e.attrs.set(key, value)
	return e
}

// Subgraph is a graph scope: the root digraph or a nested (cluster)
// subgraph. Statements are written in insertion order, subgraphs before
// nodes' trailing edges.
type Subgraph struct {
	id        string
	cluster   bool
	attrs     attrs
	nodes     []*Node
	subgraphs []*Subgraph
	edges     []*Edge
}

// Name returns the subgraph identifier as referenced by lhead/ltail.
func (s *Subgraph) Name() string {
	return s.id
}

// Set adds or replaces a graph attribute.
func (s *Subgraph) Set(key, value string) *Subgraph {
	s.attrs.set(key, value)
	return s
}

// AddNode appends a node statement and returns it for attribute chaining.
func (s *Subgraph) AddNode(id string) *Node {
	node := &Node{ID: id}
	s.nodes = append(s.nodes, node)
	return node
}

// AddEdge appends an edge statement and returns it for attribute chaining.
// The endpoints may live in any scope; Graphviz requires this scope to be an
// ancestor of both.
func (s *Subgraph) AddEdge(from, to string) *Edge {
	edge := &Edge{From: from, To: to}
	s.edges = append(s.edges, edge)
	return edge
}

// Cluster appends a nested cluster subgraph. The id is prefixed with
// "cluster" so layout engines treat it as a drawn region.
func (s *Subgraph) Cluster(id string) *Subgraph {
	sub := &Subgraph{id: "cluster_" + id, cluster: true}
	s.subgraphs = append(s.subgraphs, sub)
	return sub
}

// Graph is a directed root graph.
type Graph struct {
	Subgraph
}

// NewGraph returns an empty digraph.
func NewGraph(name string) *Graph {
	return &Graph{Subgraph: Subgraph{id: name}}
}

// String serializes the whole document.
func (g *Graph) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", quote(g.id))
	g.writeBody(&b, 1)
	b.WriteString("}\n")
	return b.String()
}

func (s *Subgraph) writeBody(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, key := range s.attrs.keys {
		fmt.Fprintf(b, "%s%s=%s;\n", indent, key, quote(s.attrs.values[key]))
	}
	for _, node := range s.nodes {
		if node.attrs.empty() {
			fmt.Fprintf(b, "%s%s;\n", indent, quote(node.ID))
		} else {
			fmt.Fprintf(b, "%s%s [%s];\n", indent, quote(node.ID), node.attrs.inline())
		}
	}
	for _, sub := range s.subgraphs {
		fmt.Fprintf(b, "%ssubgraph %s {\n", indent, quote(sub.id))
		sub.writeBody(b, depth+1)
		fmt.Fprintf(b, "%s}\n", indent)
	}
	for _, edge := range s.edges {
		if edge.attrs.empty() {
			fmt.Fprintf(b, "%s%s -> %s;\n", indent, quote(edge.From), quote(edge.To))
		} else {
			fmt.Fprintf(b, "%s%s -> %s [%s];\n", indent, quote(edge.From), quote(edge.To), edge.attrs.inline())
		}
	}
}

// quote renders a DOT quoted string. Newlines become the \n escape so
// multi-line labels and tooltips survive serialization.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
