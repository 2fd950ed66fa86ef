package gravl

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/gravldb/gravl-go/internal/proto"
)

// Node is a graph node with zero or more labels and a property map.
//
// A node built client-side (via NewNode) has no id until it is committed;
// a node decoded from a result set always carries the server-assigned id
// and an empty alias. The alias is only a local handle for literal-syntax
// emission and never participates in equality.
type Node struct {
	id    int64
	hasID bool

	// Alias is the local handle used when the node is emitted as a
	// query literal, e.g. "(a:Person)".
	Alias string

	// Labels are the node's labels, in insertion order.
	Labels []string

	// Properties are the node's key-value properties.
	Properties map[string]interface{}
}

// NewNode creates a client-side node literal. An empty alias is replaced
// with a generated one so the node can be referenced inside a CREATE
// pattern. Empty label strings are dropped.
func NewNode(alias string, labels []string, properties map[string]interface{}) *Node {
	if alias == "" {
		alias = randomAlias()
	}

	kept := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			kept = append(kept, l)
		}
	}

	if properties == nil {
		properties = map[string]interface{}{}
	}

	return &Node{
		Alias:      alias,
		Labels:     kept,
		Properties: properties,
	}
}

// decodedNode builds a node from the wire; server nodes have no alias.
func decodedNode(id int64, labels []string, properties map[string]interface{}) *Node {
	return &Node{
		id:         id,
		hasID:      true,
		Labels:     labels,
		Properties: properties,
	}
}

// randomAlias generates a unique local alias for an anonymous node.
func randomAlias() string {
	return "n_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// ID returns the server-assigned node id and whether one is set.
func (n *Node) ID() (int64, bool) {
	return n.id, n.hasID
}

// SetID assigns the server id, typically after a commit.
func (n *Node) SetID(id int64) {
	n.id = id
	n.hasID = true
}

// Equal reports whether two nodes are equal.
//
// When both nodes carry a server id, the ids alone are decisive: equal
// ids mean equal nodes even if labels or properties differ. This mirrors
// the wire protocol's notion of identity. Otherwise labels and
// properties are compared structurally; the alias never matters.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	if n.hasID && other.hasID {
		return n.id == other.id
	}

	if !slices.Equal(n.Labels, other.Labels) {
		return false
	}

	return propertiesEqual(n.Properties, other.Properties)
}

// PropsString renders just the property map in literal syntax,
// e.g. `{age:33,name:"Roi"}`. Keys are sorted for determinism.
func (n *Node) PropsString() string {
	return propsLiteral(n.Properties)
}

// String renders the node in literal syntax: (alias:Label{props}).
func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(n.Alias)
	if len(n.Labels) > 0 {
		sb.WriteString(":" + strings.Join(n.Labels, ":"))
	}
	sb.WriteString(propsLiteral(n.Properties))
	sb.WriteString(")")
	return sb.String()
}

// EndpointRef is a reference to one end of an edge. A client-built edge
// holds resolved *Node endpoints; an edge decoded from a result set holds
// only the raw node ids. The two forms are deliberate and callers must
// handle both, so the duality is made explicit here instead of hiding it
// behind an interface{}.
type EndpointRef struct {
	node     *Node
	id       int64
	resolved bool
}

// ResolvedEndpoint references a concrete node.
func ResolvedEndpoint(n *Node) EndpointRef {
	return EndpointRef{node: n, resolved: true}
}

// EndpointID references a node known only by its server id.
func EndpointID(id int64) EndpointRef {
	return EndpointRef{id: id}
}

// Node returns the resolved node, if this reference holds one.
func (r EndpointRef) Node() (*Node, bool) {
	return r.node, r.resolved
}

// ID returns the referenced node id and whether one is known. A resolved
// endpoint reports its node's id, which may itself be unset pre-commit.
func (r EndpointRef) ID() (int64, bool) {
	if r.resolved {
		if r.node == nil {
			return 0, false
		}
		return r.node.ID()
	}
	return r.id, true
}

// Equal reports whether two endpoint references point at the same node.
func (r EndpointRef) Equal(other EndpointRef) bool {
	if r.resolved && other.resolved {
		return r.node.Equal(other.node)
	}

	id1, ok1 := r.ID()
	id2, ok2 := other.ID()
	return ok1 && ok2 && id1 == id2
}

// alias returns the endpoint's alias for literal emission, or "" when the
// endpoint is unresolved.
func (r EndpointRef) alias() string {
	if r.resolved && r.node != nil {
		return r.node.Alias
	}
	return ""
}

// Edge is a directed relationship between two nodes. Unlike a node's
// multiple labels, an edge has exactly one relationship type.
type Edge struct {
	id    int64
	hasID bool

	// Alias is the local handle used in literal emission; usually empty.
	Alias string

	// Relation is the relationship type.
	Relation string

	// Source and Destination reference the edge's endpoints.
	Source      EndpointRef
	Destination EndpointRef

	// Properties are the edge's key-value properties.
	Properties map[string]interface{}
}

// NewEdge creates a client-side edge literal between two nodes.
// Both endpoints must be provided.
func NewEdge(src *Node, relation string, dest *Node, properties map[string]interface{}) (*Edge, error) {
	if src == nil || dest == nil {
		return nil, errors.New("both src and dest nodes must be provided")
	}

	if properties == nil {
		properties = map[string]interface{}{}
	}

	return &Edge{
		Relation:    relation,
		Source:      ResolvedEndpoint(src),
		Destination: ResolvedEndpoint(dest),
		Properties:  properties,
	}, nil
}

// decodedEdge builds an edge from the wire; endpoints stay raw ids.
func decodedEdge(id int64, relation string, srcID, destID int64, properties map[string]interface{}) *Edge {
	return &Edge{
		id:          id,
		hasID:       true,
		Relation:    relation,
		Source:      EndpointID(srcID),
		Destination: EndpointID(destID),
		Properties:  properties,
	}
}

// ID returns the server-assigned edge id and whether one is set.
func (e *Edge) ID() (int64, bool) {
	return e.id, e.hasID
}

// SetID assigns the server id.
func (e *Edge) SetID(id int64) {
	e.id = id
	e.hasID = true
}

// Equal reports whether two edges are equal. As with nodes, two edges
// that both carry a server id compare by id alone; otherwise the
// endpoints, relation and properties are compared structurally.
func (e *Edge) Equal(other *Edge) bool {
	if e == nil || other == nil {
		return e == other
	}

	if e.hasID && other.hasID {
		return e.id == other.id
	}

	if !e.Source.Equal(other.Source) || !e.Destination.Equal(other.Destination) {
		return false
	}

	if e.Relation != other.Relation {
		return false
	}

	return propertiesEqual(e.Properties, other.Properties)
}

// PropsString renders just the property map in literal syntax.
func (e *Edge) PropsString() string {
	return propsLiteral(e.Properties)
}

// String renders the edge in literal syntax: (src)-[alias:REL{props}]->(dest).
func (e *Edge) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "(%s)", e.Source.alias())
	fmt.Fprintf(&sb, "-[%s", e.Alias)
	if e.Relation != "" {
		sb.WriteString(":" + e.Relation)
	}
	sb.WriteString(propsLiteral(e.Properties))
	sb.WriteString("]->")
	fmt.Fprintf(&sb, "(%s)", e.Destination.alias())
	return sb.String()
}

// Path is an alternating sequence of nodes and edges, stored as two
// parallel slices. A valid non-empty path holds exactly one more node
// than edges.
type Path struct {
	nodes []*Node
	edges []*Edge

	// expectEdge tracks the builder alternation state.
	expectEdge bool
}

// NewPath creates a path from pre-built node and edge sequences.
func NewPath(nodes []*Node, edges []*Edge) *Path {
	return &Path{nodes: nodes, edges: edges, expectEdge: len(nodes) > len(edges)}
}

// NewEmptyPath creates a path to be filled via AddNode/AddEdge.
func NewEmptyPath() *Path {
	return &Path{}
}

// AddNode appends a node. Nodes and edges must strictly alternate,
// starting with a node.
func (p *Path) AddNode(n *Node) error {
	if p.expectEdge {
		return errors.New("add edge before adding node")
	}
	p.nodes = append(p.nodes, n)
	p.expectEdge = true
	return nil
}

// AddEdge appends an edge. Nodes and edges must strictly alternate.
func (p *Path) AddEdge(e *Edge) error {
	if !p.expectEdge {
		return errors.New("add node before adding edge")
	}
	p.edges = append(p.edges, e)
	p.expectEdge = false
	return nil
}

// Nodes returns the path's nodes in order.
func (p *Path) Nodes() []*Node {
	return p.nodes
}

// Edges returns the path's edges in order.
func (p *Path) Edges() []*Edge {
	return p.edges
}

// GetNode returns the node at index, or nil if out of range.
func (p *Path) GetNode(index int) *Node {
	if index < 0 || index >= len(p.nodes) {
		return nil
	}
	return p.nodes[index]
}

// GetEdge returns the edge at index, or nil if out of range.
func (p *Path) GetEdge(index int) *Edge {
	if index < 0 || index >= len(p.edges) {
		return nil
	}
	return p.edges[index]
}

// FirstNode returns the first node in the path, or nil if empty.
func (p *Path) FirstNode() *Node {
	if len(p.nodes) == 0 {
		return nil
	}
	return p.nodes[0]
}

// LastNode returns the last node in the path, or nil if empty.
func (p *Path) LastNode() *Node {
	if len(p.nodes) == 0 {
		return nil
	}
	return p.nodes[len(p.nodes)-1]
}

// NodeCount returns the number of nodes in the path.
func (p *Path) NodeCount() int {
	return len(p.nodes)
}

// EdgeCount returns the number of edges in the path.
func (p *Path) EdgeCount() int {
	return len(p.edges)
}

// Equal reports element-wise equality of both sequences.
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}

	if len(p.nodes) != len(other.nodes) || len(p.edges) != len(other.edges) {
		return false
	}

	for i := range p.nodes {
		if !p.nodes[i].Equal(other.nodes[i]) {
			return false
		}
	}
	for i := range p.edges {
		if !p.edges[i].Equal(other.edges[i]) {
			return false
		}
	}
	return true
}

// String renders the path as ids with direction arrows,
// e.g. <(0)-[0]->(1)<-[1]-(2)>.
func (p *Path) String() string {
	var sb strings.Builder
	sb.WriteString("<")
	for i, edge := range p.edges {
		nodeID, _ := p.nodes[i].ID()
		fmt.Fprintf(&sb, "(%d)", nodeID)

		edgeID, _ := edge.ID()
		if srcID, ok := edge.Source.ID(); ok && srcID == nodeID {
			fmt.Fprintf(&sb, "-[%d]->", edgeID)
		} else {
			fmt.Fprintf(&sb, "<-[%d]-", edgeID)
		}
	}
	if len(p.nodes) > 0 {
		lastID, _ := p.nodes[len(p.nodes)-1].ID()
		fmt.Fprintf(&sb, "(%d)", lastID)
	}
	sb.WriteString(">")
	return sb.String()
}

// propsLiteral renders a property map in literal syntax with sorted keys.
func propsLiteral(properties map[string]interface{}) string {
	if len(properties) == 0 {
		return ""
	}

	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + proto.QuoteString(properties[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func propertiesEqual(a, b map[string]interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
