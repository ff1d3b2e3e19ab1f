package staticize

import (
	"fmt"
	"io"

	"github.com/refit-dev/refit/pkg/java"
)

// NodeID is the value identity of one class member in the usage graph.
// Methods are identified by name plus parameter-type signature so overloads
// get distinct nodes; fields by name plus declared type.
type NodeID string

// SentinelID denotes any member that resolves outside the analyzed class to
// a non-static ancestor member. Its node carries no payload and is always
// treated as instance-data accessing.
const SentinelID NodeID = "M_anyBaseClassMember"

// MethodID builds the graph identity for a method declaration.
func MethodID(m *java.Method) NodeID {
	return NodeID("M_" + m.Name + m.Signature())
}

// FieldID builds the graph identity for a field declaration.
func FieldID(f *java.Field) NodeID {
	return NodeID("V_" + f.Name + "_" + f.Type)
}

// Node is one entry in the graph arena. Exactly one of Method/Field is
// non-nil, except for the sentinel node which has no payload. Out holds
// arena indices of outgoing neighbors.
type Node struct {
	ID       NodeID
	Method   *java.Method
	Field    *java.Field
	Out      []uint32
	InDegree int
}

// Graph is the instance-data usage graph for one class. Nodes live in an
// arena addressed by dense uint32 indices; identity lookup goes through the
// index map. An edge from -> to means "to consumes/calls from", so accessed
// status flows from the accessed entity to the accessing method.
//
// The graph is write-once, read-once: fully built by the graph builder,
// then consumed by propagation. There is no removal operation.
type Graph struct {
	nodes []Node
	index map[NodeID]uint32
}

// NewGraph creates an empty usage graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[NodeID]uint32)}
}

// AddMethodNode registers a node for a method declaration. Idempotent.
func (g *Graph) AddMethodNode(m *java.Method) uint32 {
	return g.add(MethodID(m), m, nil)
}

// AddFieldNode registers a node for a field declaration. Idempotent.
func (g *Graph) AddFieldNode(f *java.Field) uint32 {
	return g.add(FieldID(f), nil, f)
}

func (g *Graph) add(id NodeID, m *java.Method, f *java.Field) uint32 {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := uint32(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Method: m, Field: f})
	g.index[id] = idx
	return idx
}

// AddEdge appends a directed edge, auto-creating missing endpoints with no
// payload (only the sentinel identity is expected to arrive unregistered).
func (g *Graph) AddEdge(from, to NodeID) {
	fromIdx := g.ensure(from)
	toIdx := g.ensure(to)
	g.nodes[fromIdx].Out = append(g.nodes[fromIdx].Out, toIdx)
	g.nodes[toIdx].InDegree++
}

func (g *Graph) ensure(id NodeID) uint32 {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	return g.add(id, nil, nil)
}

// Lookup returns the arena index for an identity.
func (g *Graph) Lookup(id NodeID) (uint32, bool) {
	idx, ok := g.index[id]
	return idx, ok
}

// Nodes returns the arena for enumeration. Callers must not mutate it.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for i := range g.nodes {
		n += len(g.nodes[i].Out)
	}
	return n
}

// Dump writes a human-readable listing of nodes and edges.
func (g *Graph) Dump(w io.Writer) {
	fmt.Fprintln(w, "---Graph---")
	for i := range g.nodes {
		node := &g.nodes[i]
		fmt.Fprintf(w, "  Node: %s (inDegree=%d)\n", node.ID, node.InDegree)
		for _, to := range node.Out {
			fmt.Fprintf(w, "    \\-> to Node: %s\n", g.nodes[to].ID)
		}
	}
	fmt.Fprintln(w, "-----------")
}
