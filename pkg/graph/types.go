package graph

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/stackfold/pkg/compound"
	"github.com/matzehuels/stackfold/pkg/errors"
)

// =============================================================================
// Graph - Compound Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for compound graphs.
//
// The format is human-readable and designed for round-trip fidelity:
// read → collapse/expand → write → re-read reproduces the same structure
// and the same collapsed set.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// =============================================================================
// Node - Compound Node
// =============================================================================

// Node is a serialized node. Parent links it into the containment
// hierarchy; X and Y are the node center.
type Node struct {
	ID        string         `json:"id"`
	Label     string         `json:"label,omitempty"`  // Display label (defaults to ID)
	Parent    string         `json:"parent,omitempty"` // Containing node
	X         float64        `json:"x,omitempty"`
	Y         float64        `json:"y,omitempty"`
	Width     float64        `json:"width,omitempty"`
	Height    float64        `json:"height,omitempty"`
	Hidden    bool           `json:"hidden,omitempty"`    // Written only; derived from engine state
	Collapsed bool           `json:"collapsed,omitempty"` // Re-applied by callers after reading
	Meta      map[string]any `json:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge - Directed Relationship
// =============================================================================

// Edge is a serialized directed edge. ID may be omitted on input.
type Edge struct {
	ID         string         `json:"id,omitempty"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Projection bool           `json:"projection,omitempty"` // Synthetic; skipped on input
	Hidden     bool           `json:"hidden,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// =============================================================================
// Engine State
// =============================================================================

// State reports per-element visibility and collapse state.
// [*fold.Engine] and [*session.Session] satisfy it.
type State interface {
	IsHidden(id string) bool
	IsCollapsed(id string) bool
}

type noState struct{}

func (noState) IsHidden(string) bool    { return false }
func (noState) IsCollapsed(string) bool { return false }

// =============================================================================
// compound.Graph ↔ Graph Conversion
// =============================================================================

// FromCompound converts g to its serialization format, annotating hidden
// and collapsed flags from st. A nil st marks nothing. Nodes are ordered
// parents first, then by ID; edges by ID.
func FromCompound(g *compound.Graph, st State) Graph {
	if st == nil {
		st = noState{}
	}
	nodes := g.Nodes()
	slices.SortStableFunc(nodes, func(a, b *compound.Node) int {
		return cmp.Compare(g.Depth(a.ID), g.Depth(b.ID))
	})

	out := Graph{
		Nodes: make([]Node, 0, len(nodes)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, Node{
			ID:        n.ID,
			Label:     n.Label,
			Parent:    n.Parent,
			X:         n.X,
			Y:         n.Y,
			Width:     n.Width,
			Height:    n.Height,
			Hidden:    st.IsHidden(n.ID),
			Collapsed: st.IsCollapsed(n.ID),
			Meta:      copyMeta(n.Meta),
		})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{
			ID:         e.ID,
			From:       e.Source,
			To:         e.Target,
			Projection: e.Projection,
			Hidden:     st.IsHidden(e.ID),
			Meta:       copyMeta(e.Meta),
		})
	}
	return out
}

// ToCompound builds a compound graph from gj. Nodes may appear in any
// order; parents are inserted before their children. Edges without an ID
// get "from->to", suffixed with "#2", "#3", ... for parallel edges.
// Projection edges are derived data and are skipped.
//
// Errors carry [errors.ErrCodeInvalidGraph] (or [errors.ErrCodeInvalidID])
// for duplicate IDs, unknown parents or endpoints, and containment cycles.
func ToCompound(gj Graph) (*compound.Graph, error) {
	byID := make(map[string]Node, len(gj.Nodes))
	for _, n := range gj.Nodes {
		if err := errors.ValidateID(n.ID); err != nil {
			return nil, err
		}
		if _, dup := byID[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "duplicate node %q", n.ID)
		}
		byID[n.ID] = n
	}

	order, err := parentsFirst(gj.Nodes, byID)
	if err != nil {
		return nil, err
	}

	g := compound.New()
	for _, n := range order {
		node := compound.Node{
			ID:     n.ID,
			Parent: n.Parent,
			Label:  n.Label,
			X:      n.X,
			Y:      n.Y,
			Width:  n.Width,
			Height: n.Height,
			Meta:   copyMeta(n.Meta),
		}
		if err := g.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "add node %s", n.ID)
		}
	}

	seen := make(map[string]int)
	for _, ej := range gj.Edges {
		if ej.Projection {
			continue
		}
		id := ej.ID
		if id == "" {
			base := ej.From + "->" + ej.To
			seen[base]++
			id = base
			if seen[base] > 1 {
				id = fmt.Sprintf("%s#%d", base, seen[base])
			}
		}
		if err := errors.ValidateID(id); err != nil {
			return nil, err
		}
		e := compound.Edge{ID: id, Source: ej.From, Target: ej.To, Meta: copyMeta(ej.Meta)}
		if err := g.AddEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "add edge %s→%s", ej.From, ej.To)
		}
	}
	return g, nil
}

// Collapsed returns the IDs of nodes flagged collapsed in gj, deepest
// first, which is the order they must be collapsed in.
func Collapsed(gj Graph) []string {
	depth := make(map[string]int)
	parent := make(map[string]string, len(gj.Nodes))
	for _, n := range gj.Nodes {
		parent[n.ID] = n.Parent
	}
	var ids []string
	for _, n := range gj.Nodes {
		if !n.Collapsed {
			continue
		}
		d := 0
		for p, steps := n.Parent, 0; p != "" && steps < len(gj.Nodes); p, steps = parent[p], steps+1 {
			d++
		}
		depth[n.ID] = d
		ids = append(ids, n.ID)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if r := cmp.Compare(depth[b], depth[a]); r != 0 {
			return r
		}
		return cmp.Compare(a, b)
	})
	return ids
}

// parentsFirst orders nodes so every parent precedes its children,
// keeping input order otherwise.
func parentsFirst(nodes []Node, byID map[string]Node) ([]Node, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(nodes))
	out := make([]Node, 0, len(nodes))

	var visit func(n Node) error
	visit = func(n Node) error {
		switch state[n.ID] {
		case done:
			return nil
		case visiting:
			return errors.New(errors.ErrCodeInvalidGraph, "containment cycle through %q", n.ID)
		}
		state[n.ID] = visiting
		if n.Parent != "" {
			p, ok := byID[n.Parent]
			if !ok {
				return errors.New(errors.ErrCodeInvalidGraph, "node %q: unknown parent %q", n.ID, n.Parent)
			}
			if err := visit(p); err != nil {
				return err
			}
		}
		state[n.ID] = done
		out = append(out, n)
		return nil
	}

	for _, n := range nodes {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}
