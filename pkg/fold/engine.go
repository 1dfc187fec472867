package fold

import (
	"cmp"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tidwall/btree"

	"github.com/matzehuels/stackfold/pkg/compound"
)

// Options configures an Engine.
type Options struct {
	// Sink receives collapse and expand notifications. Nil discards them.
	Sink Sink

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger

	// NewID generates projection edge IDs. Nil uses "proj-" plus a random UUID.
	NewID func() string
}

// record is the bookkeeping for one collapsed node: the hidden nodes it owns.
type record struct {
	hidden btree.Set[string]
}

// RecordInfo is a read-only view of the state kept for one collapsed node.
type RecordInfo struct {
	Node        string
	Hidden      []string // nodes hidden by this collapse
	Projections []string // projection edges created for it
	Replaced    []string // original boundary edges the projections stand in for
}

// Engine is the collapse/expand controller for one graph. It owns the
// collapsed set, one record per collapsed node, the visibility store and the
// position memory.
//
// The zero value is not usable - use New.
type Engine struct {
	model     Model
	vis       Visibility
	pos       Positions
	proj      *projector
	collapsed btree.Set[string]
	userEdges btree.Set[string] // hidden by their own handle
	records   map[string]*record
	sink      Sink
	logger    *log.Logger
}

// New creates an engine bound to m. Every node starts expanded and visible.
func New(m Model, opts Options) *Engine {
	e := &Engine{
		model:   m,
		records: make(map[string]*record),
		sink:    opts.Sink,
		logger:  opts.Logger,
	}
	if e.sink == nil {
		e.sink = nopSink{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.proj = newProjector(m, &e.vis, opts.NewID)
	return e
}

// Collapse collapses every node handle in els and reports whether at least
// one node changed state. Edge handles, leaves, unknown IDs and nodes that
// are already collapsed are ignored.
func (e *Engine) Collapse(els ...Element) bool {
	changed := false
	for _, el := range els {
		if el.Kind == KindNode && e.CollapseNode(el.ID) {
			changed = true
		}
	}
	return changed
}

// CollapseNode collapses one compound node. It snapshots descendant
// positions, hides the subtree and every edge touching it, and replaces
// boundary edges with projections. Returns false without side effects when
// the node is unknown, is a leaf, or is already collapsed.
func (e *Engine) CollapseNode(id string) bool {
	if !e.model.HasNode(id) || !e.model.IsCompound(id) || e.collapsed.Contains(id) {
		return false
	}

	desc := e.model.Descendants(id)
	e.pos.SaveLocal(e.model, id, desc)

	rec := &record{}
	for _, d := range desc {
		// Already owned by a nested collapse (or by an outer one).
		if e.vis.Has(d, ReasonCollapse) {
			continue
		}
		e.vis.Hide(d, ReasonCollapse)
		rec.hidden.Insert(d)
	}
	for _, d := range desc {
		for _, eid := range e.model.ConnectedEdges(d) {
			e.vis.Hide(eid, ReasonCollapse)
		}
	}

	proj, err := e.proj.build(id, desc)
	if err != nil {
		e.logger.Warn("projection incomplete", "node", id, "err", err)
	}

	e.collapsed.Insert(id)
	e.records[id] = rec
	e.logger.Debug("collapse", "node", id, "descendants", len(desc), "projections", len(proj.Edges))
	e.sink.Emit(Event{Type: EventCollapse, Node: id, Count: rec.hidden.Len(), Projections: len(proj.Edges)})
	return true
}

// Expand expands every node handle in els and reports whether at least one
// node changed state.
func (e *Engine) Expand(els ...Element) bool {
	changed := false
	for _, el := range els {
		if el.Kind == KindNode && e.ExpandNode(el.ID) {
			changed = true
		}
	}
	return changed
}

// ExpandNode reverses CollapseNode. Hidden descendants reappear unless a
// still-collapsed node lies between them and id, in which case that node's
// record takes them over. Edges touching reappearing nodes are shown once
// both endpoints are visible. Returns false when id is not collapsed.
func (e *Engine) ExpandNode(id string) bool {
	if !e.collapsed.Contains(id) {
		return false
	}
	rec := e.records[id]
	delete(e.records, id)
	e.collapsed.Delete(id)

	// A node expanded while itself inside a collapsed subtree hands its
	// descendants to the nearest collapsed ancestor.
	heir := ""
	if e.vis.IsHidden(id) {
		heir = e.nearestCollapsed(e.model.Ancestors(id), "")
	}

	var shown, restore []string
	if rec != nil {
		for _, d := range rec.hidden.Keys() {
			if inner := e.nearestCollapsed(e.model.Ancestors(d), id); inner != "" {
				e.records[inner].hidden.Insert(d)
				continue
			}
			restore = append(restore, d)
			if heir != "" {
				e.records[heir].hidden.Insert(d)
				continue
			}
			if e.vis.Show(d, ReasonCollapse) {
				shown = append(shown, d)
			}
		}
	}

	e.proj.remove(id)
	e.restoreEdges(append(shown, id))
	if len(restore) > 0 {
		e.pos.RestoreLocal(e.model, id, restore...)
	} else {
		e.pos.Discard(id)
	}

	e.logger.Debug("expand", "node", id, "shown", len(shown), "heir", heir)
	e.sink.Emit(Event{Type: EventExpand, Node: id, Count: len(shown)})
	return true
}

// nearestCollapsed walks ancestors (nearest first) and returns the first
// collapsed one, stopping before stop.
func (e *Engine) nearestCollapsed(ancestors []string, stop string) string {
	for _, a := range ancestors {
		if a == stop {
			return ""
		}
		if e.collapsed.Contains(a) {
			return a
		}
	}
	return ""
}

// insideCollapsed reports whether a and b both lie in the closed subtree of
// one collapsed node, which makes an edge between them internal to it. A
// self-loop on a collapsed node is the case where both are visible.
func (e *Engine) insideCollapsed(a, b string) bool {
	for _, c := range append([]string{a}, e.model.Ancestors(a)...) {
		if !e.collapsed.Contains(c) {
			continue
		}
		if b == c || slices.Contains(e.model.Ancestors(b), c) {
			return true
		}
	}
	return false
}

// restoreEdges shows collapse-hidden edges touching nodes once both
// endpoints are visible. Original edges still superseded by a collapsed
// node's projection or internal to a collapsed subtree stay hidden, and
// projections are shown only while their owner remains collapsed.
func (e *Engine) restoreEdges(nodes []string) {
	seen := make(map[string]bool)
	for _, n := range nodes {
		for _, eid := range e.model.ConnectedEdges(n) {
			if seen[eid] {
				continue
			}
			seen[eid] = true
			if !e.vis.Has(eid, ReasonCollapse) {
				continue
			}
			edge, ok := e.model.Edge(eid)
			if !ok || e.vis.IsHidden(edge.Source) || e.vis.IsHidden(edge.Target) {
				continue
			}
			if edge.Projection {
				owner, ok := e.proj.ownerOf(eid)
				if !ok || !e.collapsed.Contains(owner) {
					continue
				}
			}
			if slices.ContainsFunc(e.proj.replacers(eid), e.collapsed.Contains) {
				continue
			}
			if !edge.Projection && e.insideCollapsed(edge.Source, edge.Target) {
				continue
			}
			e.vis.Show(eid, ReasonCollapse)
		}
	}
}

// CollapseAll collapses every compound node, deepest first, so that inner
// subtrees finish their own bookkeeping before an ancestor hides them.
func (e *Engine) CollapseAll() bool {
	type candidate struct {
		id    string
		depth int
	}
	var compounds []candidate
	for _, n := range e.model.Nodes() {
		if e.model.IsCompound(n.ID) {
			compounds = append(compounds, candidate{id: n.ID, depth: len(e.model.Ancestors(n.ID))})
		}
	}
	slices.SortFunc(compounds, func(a, b candidate) int {
		if r := cmp.Compare(b.depth, a.depth); r != 0 {
			return r
		}
		return cmp.Compare(a.id, b.id)
	})

	changed := false
	for _, c := range compounds {
		if e.CollapseNode(c.id) {
			changed = true
		}
	}
	return changed
}

// ExpandAll expands every collapsed node.
func (e *Engine) ExpandAll() bool {
	changed := false
	for _, id := range e.collapsed.Keys() {
		if e.ExpandNode(id) {
			changed = true
		}
	}
	return changed
}

// HideUser hides elements on behalf of the host. Hiding a node also hides
// its edges. These elements stay hidden through any collapse/expand cycle
// until ShowUser.
func (e *Engine) HideUser(els ...Element) bool {
	changed := false
	for _, el := range els {
		if !e.exists(el) {
			continue
		}
		if e.vis.Hide(el.ID, ReasonUser) {
			changed = true
		}
		if el.Kind == KindEdge {
			e.userEdges.Insert(el.ID)
		}
		if el.Kind == KindNode {
			for _, eid := range e.model.ConnectedEdges(el.ID) {
				e.vis.Hide(eid, ReasonUser)
			}
		}
	}
	return changed
}

// ShowUser clears host-requested hiding. Showing a node releases its edges
// unless the other endpoint is still hidden by the host or the edge was
// hidden by its own handle; such edges need an explicit ShowUser.
func (e *Engine) ShowUser(els ...Element) bool {
	changed := false
	for _, el := range els {
		if !e.exists(el) {
			continue
		}
		if e.vis.Show(el.ID, ReasonUser) {
			changed = true
		}
		if el.Kind != KindNode {
			e.userEdges.Delete(el.ID)
			continue
		}
		for _, eid := range e.model.ConnectedEdges(el.ID) {
			edge, ok := e.model.Edge(eid)
			if !ok || e.userEdges.Contains(eid) {
				continue
			}
			if other := edge.Other(el.ID); other != el.ID && e.vis.Has(other, ReasonUser) {
				continue
			}
			e.vis.Show(eid, ReasonUser)
		}
		// Edges left collapse-hidden while this endpoint was hidden.
		e.restoreEdges([]string{el.ID})
	}
	return changed
}

func (e *Engine) exists(el Element) bool {
	if el.Kind == KindEdge {
		_, ok := e.model.Edge(el.ID)
		return ok
	}
	return e.model.HasNode(el.ID)
}

// IsCollapsed reports whether the node is currently collapsed.
func (e *Engine) IsCollapsed(id string) bool { return e.collapsed.Contains(id) }

// IsHidden reports whether the node or edge is currently hidden.
func (e *Engine) IsHidden(id string) bool { return e.vis.IsHidden(id) }

// CollapsedNodes returns the IDs of all collapsed nodes, sorted.
func (e *Engine) CollapsedNodes() []string { return e.collapsed.Keys() }

// HiddenElements returns the IDs of all hidden nodes and edges, sorted.
func (e *Engine) HiddenElements() []string { return e.vis.Hidden() }

// ProjectedEdges resolves the projection edges recorded for a collapsed
// node. IDs that no longer resolve to an edge are dropped.
func (e *Engine) ProjectedEdges(id string) []*compound.Edge {
	var out []*compound.Edge
	for _, eid := range e.proj.edges(id) {
		if edge, ok := e.model.Edge(eid); ok {
			out = append(out, edge)
		}
	}
	return out
}

// Record returns a snapshot of the bookkeeping kept for a collapsed node.
func (e *Engine) Record(id string) (RecordInfo, bool) {
	rec, ok := e.records[id]
	if !ok {
		return RecordInfo{}, false
	}
	return RecordInfo{
		Node:        id,
		Hidden:      rec.hidden.Keys(),
		Projections: slices.Clone(e.proj.edges(id)),
		Replaced:    slices.Clone(e.proj.originals(id)),
	}, true
}
