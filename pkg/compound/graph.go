package compound

import (
	"errors"

	"github.com/tidwall/btree"
)

var (
	// ErrInvalidID is returned by [Graph.AddNode] and [Graph.AddEdge] when the
	// element ID is empty.
	ErrInvalidID = errors.New("element ID must not be empty")

	// ErrDuplicateID is returned when a node or edge with the same ID already
	// exists. Nodes and edges share one ID namespace.
	ErrDuplicateID = errors.New("duplicate element ID")

	// ErrUnknownParent is returned by [Graph.AddNode] when the parent node
	// does not exist. Parents must be added before their children.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrUnknownSource is returned by [Graph.AddEdge] when the source node
	// does not exist.
	ErrUnknownSource = errors.New("unknown source node")

	// ErrUnknownTarget is returned by [Graph.AddEdge] when the target node
	// does not exist.
	ErrUnknownTarget = errors.New("unknown target node")

	// ErrHasChildren is returned by [Graph.RemoveNode] for compound nodes.
	// Children must be removed first.
	ErrHasChildren = errors.New("node has children")

	// ErrUnknownNode is returned by [Graph.RemoveNode] when the node does not exist.
	ErrUnknownNode = errors.New("unknown node")
)

// Default node extent used when a node is added without a size.
const (
	DefaultWidth  = 30.0
	DefaultHeight = 30.0
)

// Metadata stores arbitrary key-value pairs attached to nodes or edges.
// Metadata maps are never nil after the element is added to a graph.
type Metadata map[string]any

// Point is a position in graph coordinates.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p with both coordinates multiplied by k.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Node is a vertex of the compound graph. Its position is the center of its
// bounding box.
type Node struct {
	ID     string   // Unique identifier
	Parent string   // Parent node ID, empty for roots
	Label  string   // Display label (defaults to ID)
	X, Y   float64  // Center position
	Width  float64  // Bounding box width (DefaultWidth when zero)
	Height float64  // Bounding box height (DefaultHeight when zero)
	Meta   Metadata // Arbitrary key-value metadata
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Position returns the node center.
func (n *Node) Position() Point { return Point{X: n.X, Y: n.Y} }

// Edge is a directed connection between two nodes.
type Edge struct {
	ID     string
	Source string
	Target string

	// Projection marks synthetic edges created by the collapse engine to
	// stand in for edges crossing a collapsed subtree boundary.
	Projection bool

	Meta Metadata
}

// Other returns the endpoint opposite to id. It returns "" when id is not
// an endpoint of e.
func (e *Edge) Other(id string) string {
	switch id {
	case e.Source:
		return e.Target
	case e.Target:
		return e.Source
	default:
		return ""
	}
}

// Graph is an in-memory compound graph.
//
// The zero value is not usable - use New to create a valid Graph.
type Graph struct {
	nodes    btree.Map[string, *Node]
	edges    btree.Map[string, *Edge]
	children map[string]*btree.Set[string] // parent ID -> child IDs
	incident map[string]*btree.Set[string] // node ID -> connected edge IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		children: make(map[string]*btree.Set[string]),
		incident: make(map[string]*btree.Set[string]),
	}
}

// AddNode adds a node to the graph. The node's parent, if any, must already
// exist. Zero sizes are replaced with DefaultWidth and DefaultHeight and a
// nil Meta with an empty map.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidID
	}
	if g.hasID(n.ID) {
		return ErrDuplicateID
	}
	if n.Parent != "" {
		if _, ok := g.nodes.Get(n.Parent); !ok {
			return ErrUnknownParent
		}
	}
	if n.Width <= 0 {
		n.Width = DefaultWidth
	}
	if n.Height <= 0 {
		n.Height = DefaultHeight
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes.Set(node.ID, node)
	if node.Parent != "" {
		set, ok := g.children[node.Parent]
		if !ok {
			set = new(btree.Set[string])
			g.children[node.Parent] = set
		}
		set.Insert(node.ID)
	}
	return nil
}

// RemoveNode removes a leaf node and every edge connected to it.
// Returns ErrHasChildren for compound nodes and ErrUnknownNode when the
// node does not exist.
func (g *Graph) RemoveNode(id string) error {
	n, ok := g.nodes.Get(id)
	if !ok {
		return ErrUnknownNode
	}
	if g.IsCompound(id) {
		return ErrHasChildren
	}
	for _, eid := range g.ConnectedEdges(id) {
		g.RemoveEdge(eid)
	}
	if n.Parent != "" {
		if set, ok := g.children[n.Parent]; ok {
			set.Delete(id)
			if set.Len() == 0 {
				delete(g.children, n.Parent)
			}
		}
	}
	delete(g.incident, id)
	g.nodes.Delete(id)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Self loops and
// parallel edges are allowed; IDs must be unique.
func (g *Graph) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidID
	}
	if g.hasID(e.ID) {
		return ErrDuplicateID
	}
	if _, ok := g.nodes.Get(e.Source); !ok {
		return ErrUnknownSource
	}
	if _, ok := g.nodes.Get(e.Target); !ok {
		return ErrUnknownTarget
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	edge := &e
	g.edges.Set(edge.ID, edge)
	g.link(edge.Source, edge.ID)
	g.link(edge.Target, edge.ID)
	return nil
}

// RemoveEdge removes the edge with the given ID and reports whether it existed.
func (g *Graph) RemoveEdge(id string) bool {
	e, ok := g.edges.Delete(id)
	if !ok {
		return false
	}
	g.unlink(e.Source, id)
	g.unlink(e.Target, id)
	return true
}

func (g *Graph) link(nodeID, edgeID string) {
	set, ok := g.incident[nodeID]
	if !ok {
		set = new(btree.Set[string])
		g.incident[nodeID] = set
	}
	set.Insert(edgeID)
}

func (g *Graph) unlink(nodeID, edgeID string) {
	if set, ok := g.incident[nodeID]; ok {
		set.Delete(edgeID)
		if set.Len() == 0 {
			delete(g.incident, nodeID)
		}
	}
}

func (g *Graph) hasID(id string) bool {
	if _, ok := g.nodes.Get(id); ok {
		return true
	}
	_, ok := g.edges.Get(id)
	return ok
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the stored node.
func (g *Graph) Node(id string) (*Node, bool) { return g.nodes.Get(id) }

// Edge returns the edge with the given ID and true, or nil and false if not found.
func (g *Graph) Edge(id string) (*Edge, bool) { return g.edges.Get(id) }

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes.Get(id)
	return ok
}

// HasEdge reports whether an edge with the given ID exists.
func (g *Graph) HasEdge(id string) bool {
	_, ok := g.edges.Get(id)
	return ok
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []*Node { return g.nodes.Values() }

// Edges returns all edges sorted by ID.
func (g *Graph) Edges() []*Edge { return g.edges.Values() }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return g.nodes.Len() }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return g.edges.Len() }
