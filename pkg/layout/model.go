package layout

import "github.com/matzehuels/stackfold/pkg/compound"

// Model is the part of the graph store layout needs. [*compound.Graph]
// satisfies it.
type Model interface {
	Nodes() []*compound.Node
	Edges() []*compound.Edge
	HasNode(id string) bool
	Parent(id string) (string, bool)
	Children(id string) []string
	IsCompound(id string) bool
	Contains(ancestor, id string) bool
	Neighbors(id string) []string
	Position(id string) (compound.Point, bool)
	SetPosition(id string, p compound.Point) bool
	Size(id string) (width, height float64, ok bool)
}

// Visibility reports whether a node or edge is hidden. [*fold.Engine]
// satisfies it.
type Visibility interface {
	IsHidden(id string) bool
}

// AllVisible is a Visibility under which nothing is hidden.
type AllVisible struct{}

// IsHidden always returns false.
func (AllVisible) IsHidden(string) bool { return false }

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoxOf returns the box of a node centered at c.
func BoxOf(c compound.Point, width, height float64) Box {
	return Box{
		MinX: c.X - width/2,
		MinY: c.Y - height/2,
		MaxX: c.X + width/2,
		MaxY: c.Y + height/2,
	}
}

// Center returns the box center.
func (b Box) Center() compound.Point {
	return compound.Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Width returns the horizontal extent.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Intersect returns the intersection extent of two boxes. ok is false when
// they only touch or are disjoint.
func (b Box) Intersect(o Box) (w, h float64, ok bool) {
	w = min(b.MaxX, o.MaxX) - max(b.MinX, o.MinX)
	h = min(b.MaxY, o.MaxY) - max(b.MinY, o.MinY)
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// Union returns the smallest box containing both.
func (b Box) Union(o Box) Box {
	return Box{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

func nodeBox(m Model, id string) (Box, bool) {
	c, ok := m.Position(id)
	if !ok {
		return Box{}, false
	}
	w, h, _ := m.Size(id)
	return BoxOf(c, w, h), true
}
