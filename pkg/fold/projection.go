package fold

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/stackfold/pkg/compound"
)

// Direction is the orientation of a boundary edge relative to the
// collapsing subtree.
type Direction int

const (
	// Outgoing edges run from inside the subtree to an external node.
	Outgoing Direction = iota
	// Incoming edges run from an external node into the subtree.
	Incoming
)

func (d Direction) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}

// Projection edge metadata keys.
const (
	MetaDirection = "direction" // "outgoing" or "incoming"
	MetaCount     = "count"     // number of original edges represented
)

// Projection lists the synthetic edges created for one collapsed node and
// the original boundary edges they stand in for.
type Projection struct {
	Edges     []string
	Originals []string
}

type groupKey struct {
	dir      Direction
	external string
}

// classification is the result of sorting the edges around a collapsing
// subtree by endpoint membership.
type classification struct {
	internal   []string
	suppressed []string // boundary edges hidden by the user; hidden, never projected
	nested     []string // projections of collapsed nodes inside the subtree
	groups     map[groupKey][]string
	order      []groupKey
}

// classify inspects every edge touching parent or one of its descendants,
// deduplicated by edge ID. Internal edges have both endpoints inside the
// subtree, boundary edges exactly one.
//
// A projection edge owned by a node inside the subtree duplicates original
// edges that are grouped directly, so it is hidden and never re-projected.
func classify(m Model, vis *Visibility, owner map[string]string, parent string, descendants []string) classification {
	inside := make(map[string]bool, len(descendants)+1)
	inside[parent] = true
	for _, d := range descendants {
		inside[d] = true
	}

	c := classification{groups: make(map[groupKey][]string)}
	seen := make(map[string]bool)
	for _, n := range append([]string{parent}, descendants...) {
		for _, eid := range m.ConnectedEdges(n) {
			if seen[eid] {
				continue
			}
			seen[eid] = true
			e, ok := m.Edge(eid)
			if !ok {
				continue
			}

			src, tgt := inside[e.Source], inside[e.Target]
			if e.Projection && inside[owner[eid]] && !(src && tgt) {
				c.nested = append(c.nested, eid)
				continue
			}
			var key groupKey
			switch {
			case src && tgt:
				c.internal = append(c.internal, eid)
				continue
			case src:
				key = groupKey{dir: Outgoing, external: e.Target}
			case tgt:
				key = groupKey{dir: Incoming, external: e.Source}
			default:
				continue
			}

			if vis.Has(eid, ReasonUser) {
				c.suppressed = append(c.suppressed, eid)
				continue
			}
			if _, ok := c.groups[key]; !ok {
				c.order = append(c.order, key)
			}
			c.groups[key] = append(c.groups[key], eid)
		}
	}

	slices.SortFunc(c.order, func(a, b groupKey) int {
		if r := cmp.Compare(a.external, b.external); r != 0 {
			return r
		}
		return cmp.Compare(a.dir, b.dir)
	})
	return c
}

// projector creates and removes projection edges and remembers which
// collapsed node owns each of them.
type projector struct {
	model Model
	vis   *Visibility
	newID func() string

	byParent map[string]*Projection
	owner    map[string]string   // projection edge -> collapsed node
	sources  map[string][]string // projection edge -> originals it stands in for
	replaced map[string][]string // original edge -> collapsed nodes projecting it
}

func newProjector(m Model, vis *Visibility, newID func() string) *projector {
	if newID == nil {
		newID = func() string { return "proj-" + uuid.NewString() }
	}
	return &projector{
		model:    m,
		vis:      vis,
		newID:    newID,
		byParent: make(map[string]*Projection),
		owner:    make(map[string]string),
		sources:  make(map[string][]string),
		replaced: make(map[string][]string),
	}
}

// build hides internal edges, creates one projection edge per boundary
// group and hides the boundary edges it supersedes. A projection with a
// hidden endpoint starts out hidden.
func (p *projector) build(parent string, descendants []string) (*Projection, error) {
	c := classify(p.model, p.vis, p.owner, parent, descendants)

	for _, eid := range c.internal {
		p.vis.Hide(eid, ReasonCollapse)
	}
	for _, eid := range c.suppressed {
		p.vis.Hide(eid, ReasonCollapse)
	}
	for _, eid := range c.nested {
		p.vis.Hide(eid, ReasonCollapse)
	}

	proj := &Projection{}
	var firstErr error
	for _, key := range c.order {
		originals := c.groups[key]
		for _, eid := range originals {
			p.vis.Hide(eid, ReasonCollapse)
		}

		src, tgt := parent, key.external
		if key.dir == Incoming {
			src, tgt = key.external, parent
		}
		edge := compound.Edge{
			ID:         p.newID(),
			Source:     src,
			Target:     tgt,
			Projection: true,
			Meta: compound.Metadata{
				MetaDirection: key.dir.String(),
				MetaCount:     len(originals),
			},
		}
		if err := p.model.AddEdge(edge); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("add projection %s -> %s: %w", src, tgt, err)
			}
			continue
		}
		if p.vis.IsHidden(key.external) || p.vis.IsHidden(parent) {
			p.vis.Hide(edge.ID, ReasonCollapse)
		}

		p.owner[edge.ID] = parent
		p.sources[edge.ID] = originals
		for _, eid := range originals {
			p.replaced[eid] = append(p.replaced[eid], parent)
		}
		proj.Edges = append(proj.Edges, edge.ID)
		proj.Originals = append(proj.Originals, originals...)
	}
	slices.Sort(proj.Originals)

	p.byParent[parent] = proj
	return proj, firstErr
}

// remove deletes every projection edge created for parent and clears the
// mapping. Original boundary edges are left hidden; the caller decides when
// both of their endpoints are visible again.
//
// An outer collapsed node may have grouped one of these projections into its
// own; that projection loses the source and is deleted once it has none left.
func (p *projector) remove(parent string) []string {
	proj, ok := p.byParent[parent]
	if !ok {
		return nil
	}
	delete(p.byParent, parent)

	for _, eid := range proj.Edges {
		p.drop(eid)
		for _, dep := range p.replaced[eid] {
			p.detach(dep, eid)
		}
		delete(p.replaced, eid)
	}
	for _, eid := range proj.Originals {
		p.unreplace(eid, parent)
	}
	return proj.Edges
}

// detach removes source edge src from the projections of owner.
func (p *projector) detach(owner, src string) {
	proj, ok := p.byParent[owner]
	if !ok {
		return
	}
	proj.Originals = slices.DeleteFunc(proj.Originals, func(id string) bool { return id == src })

	for _, pe := range proj.Edges {
		srcs := p.sources[pe]
		if !slices.Contains(srcs, src) {
			continue
		}
		srcs = slices.DeleteFunc(srcs, func(id string) bool { return id == src })
		if len(srcs) > 0 {
			p.sources[pe] = srcs
			if e, ok := p.model.Edge(pe); ok {
				e.Meta[MetaCount] = len(srcs)
			}
			return
		}

		proj.Edges = slices.DeleteFunc(proj.Edges, func(id string) bool { return id == pe })
		p.drop(pe)
		for _, dep := range p.replaced[pe] {
			p.detach(dep, pe)
		}
		delete(p.replaced, pe)
		return
	}
}

// drop deletes one projection edge from the graph and the bookkeeping.
func (p *projector) drop(eid string) {
	p.model.RemoveEdge(eid)
	p.vis.Forget(eid)
	delete(p.owner, eid)
	delete(p.sources, eid)
}

func (p *projector) unreplace(eid, parent string) {
	owners := slices.DeleteFunc(p.replaced[eid], func(o string) bool { return o == parent })
	if len(owners) == 0 {
		delete(p.replaced, eid)
	} else {
		p.replaced[eid] = owners
	}
}

// ownerOf returns the collapsed node that created projection edge eid.
func (p *projector) ownerOf(eid string) (string, bool) {
	o, ok := p.owner[eid]
	return o, ok
}

// replacers returns the collapsed nodes whose projections stand in for eid.
func (p *projector) replacers(eid string) []string { return p.replaced[eid] }

// edges returns the projection IDs recorded for parent.
func (p *projector) edges(parent string) []string {
	if proj, ok := p.byParent[parent]; ok {
		return proj.Edges
	}
	return nil
}

// originals returns the boundary edge IDs recorded for parent.
func (p *projector) originals(parent string) []string {
	if proj, ok := p.byParent[parent]; ok {
		return proj.Originals
	}
	return nil
}
