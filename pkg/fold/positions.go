package fold

import "github.com/matzehuels/stackfold/pkg/compound"

// Positions remembers descendant positions relative to their collapsing
// parent. Offsets are parent-relative so that a subtree reappears in the same
// shape around the parent's position at expand time, even if a layout moved
// the parent while it was collapsed.
//
// The zero value is ready to use.
type Positions struct {
	saved map[string]map[string]compound.Point // parent -> descendant -> offset
}

// SaveLocal records, for every descendant, its offset from parent at call
// time. Any previous snapshot for parent is replaced.
func (p *Positions) SaveLocal(m Model, parent string, descendants []string) {
	origin, ok := m.Position(parent)
	if !ok {
		return
	}
	local := make(map[string]compound.Point, len(descendants))
	for _, d := range descendants {
		if pos, ok := m.Position(d); ok {
			local[d] = pos.Sub(origin)
		}
	}
	if p.saved == nil {
		p.saved = make(map[string]map[string]compound.Point)
	}
	p.saved[parent] = local
}

// RestoreLocal moves nodes back to the parent's current position plus their
// saved offset and then discards the snapshot for parent. With no ids it
// restores the direct children of parent; otherwise exactly the given ids
// that have a saved offset. It returns the number of nodes moved.
func (p *Positions) RestoreLocal(m Model, parent string, ids ...string) int {
	local, ok := p.saved[parent]
	if !ok {
		return 0
	}
	delete(p.saved, parent)

	origin, ok := m.Position(parent)
	if !ok {
		return 0
	}
	if len(ids) == 0 {
		ids = m.Children(parent)
	}
	moved := 0
	for _, id := range ids {
		off, ok := local[id]
		if !ok {
			continue
		}
		if m.SetPosition(id, origin.Add(off)) {
			moved++
		}
	}
	return moved
}

// Local returns the saved offset of id relative to parent.
func (p *Positions) Local(parent, id string) (compound.Point, bool) {
	off, ok := p.saved[parent][id]
	return off, ok
}

// Has reports whether a snapshot exists for parent.
func (p *Positions) Has(parent string) bool {
	_, ok := p.saved[parent]
	return ok
}

// Discard drops the snapshot for parent without moving anything.
func (p *Positions) Discard(parent string) { delete(p.saved, parent) }
