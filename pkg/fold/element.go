package fold

import "github.com/matzehuels/stackfold/pkg/compound"

// Kind distinguishes node handles from edge handles.
type Kind int

const (
	// KindNode identifies a node handle.
	KindNode Kind = iota
	// KindEdge identifies an edge handle.
	KindEdge
)

func (k Kind) String() string {
	if k == KindEdge {
		return "edge"
	}
	return "node"
}

// Element is a handle to a node or an edge. Nodes and edges share one ID
// namespace, so the ID alone identifies the element; Kind lets entry points
// skip handles they do not apply to.
type Element struct {
	Kind Kind
	ID   string
}

// Node returns a node handle.
func Node(id string) Element { return Element{Kind: KindNode, ID: id} }

// Edge returns an edge handle.
func Edge(id string) Element { return Element{Kind: KindEdge, ID: id} }

// Nodes returns node handles for ids, preserving order.
func Nodes(ids ...string) []Element {
	out := make([]Element, len(ids))
	for i, id := range ids {
		out[i] = Node(id)
	}
	return out
}

// Model is the graph store the engine operates on. [*compound.Graph]
// satisfies it.
type Model interface {
	HasNode(id string) bool
	Node(id string) (*compound.Node, bool)
	Nodes() []*compound.Node
	Edge(id string) (*compound.Edge, bool)
	AddEdge(e compound.Edge) error
	RemoveEdge(id string) bool

	Parent(id string) (string, bool)
	Children(id string) []string
	IsCompound(id string) bool
	Descendants(id string) []string
	Ancestors(id string) []string
	ConnectedEdges(id string) []string

	Position(id string) (compound.Point, bool)
	SetPosition(id string, p compound.Point) bool
}
