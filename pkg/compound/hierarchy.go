package compound

import "slices"

// Parent returns the parent ID of the node. The boolean is false for root
// nodes and unknown IDs.
func (g *Graph) Parent(id string) (string, bool) {
	n, ok := g.nodes.Get(id)
	if !ok || n.Parent == "" {
		return "", false
	}
	return n.Parent, true
}

// Children returns the IDs of the direct children of the node, sorted.
// Returns nil for leaves and unknown IDs.
func (g *Graph) Children(id string) []string {
	set, ok := g.children[id]
	if !ok {
		return nil
	}
	return set.Keys()
}

// IsCompound reports whether the node has at least one child.
func (g *Graph) IsCompound(id string) bool {
	set, ok := g.children[id]
	return ok && set.Len() > 0
}

// Descendants returns every node below id in the containment hierarchy, in
// depth-first pre-order with siblings sorted by ID. The node itself is not
// included.
func (g *Graph) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(parent string) {
		for _, c := range g.Children(parent) {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// Ancestors returns the parent chain of the node, nearest first.
func (g *Graph) Ancestors(id string) []string {
	var out []string
	for {
		p, ok := g.Parent(id)
		if !ok {
			return out
		}
		out = append(out, p)
		id = p
	}
}

// Depth returns the length of the node's ancestor chain (0 for roots).
func (g *Graph) Depth(id string) int { return len(g.Ancestors(id)) }

// Contains reports whether ancestor is a strict ancestor of id.
func (g *Graph) Contains(ancestor, id string) bool {
	return slices.Contains(g.Ancestors(id), ancestor)
}

// ConnectedEdges returns the IDs of every edge with the node as source or
// target, sorted.
func (g *Graph) ConnectedEdges(id string) []string {
	set, ok := g.incident[id]
	if !ok {
		return nil
	}
	return set.Keys()
}

// Neighbors returns the IDs of nodes sharing an edge with the node, sorted
// and without duplicates. Self loops do not make a node its own neighbor.
func (g *Graph) Neighbors(id string) []string {
	var out []string
	for _, eid := range g.ConnectedEdges(id) {
		e, ok := g.edges.Get(eid)
		if !ok {
			continue
		}
		if other := e.Other(id); other != "" && other != id {
			out = append(out, other)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Position returns the center of the node.
func (g *Graph) Position(id string) (Point, bool) {
	n, ok := g.nodes.Get(id)
	if !ok {
		return Point{}, false
	}
	return n.Position(), true
}

// SetPosition moves the node center to p and reports whether the node exists.
func (g *Graph) SetPosition(id string, p Point) bool {
	n, ok := g.nodes.Get(id)
	if !ok {
		return false
	}
	n.X, n.Y = p.X, p.Y
	return true
}

// Size returns the bounding box extent of the node.
func (g *Graph) Size(id string) (width, height float64, ok bool) {
	n, ok := g.nodes.Get(id)
	if !ok {
		return 0, 0, false
	}
	return n.Width, n.Height, true
}
