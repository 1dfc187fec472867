package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackfold/pkg/compound"
	"github.com/matzehuels/stackfold/pkg/fold"
	"github.com/matzehuels/stackfold/pkg/observability"
)

// DefaultMaxPasses bounds overlap resolution when ResolverOptions.MaxPasses
// is zero.
const DefaultMaxPasses = 10

// Overlap describes one intersecting pair. X and Y are the intersection
// extents; DirX and DirY are the signs (+1 or -1) of the vector from A's
// center to B's center. A zero delta counts as positive.
type Overlap struct {
	A, B       string
	X, Y       float64
	DirX, DirY float64
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	MaxPasses int     // pass limit, DefaultMaxPasses when zero
	Padding   float64 // extra distance added on each side when separating
	Sink      fold.Sink
	Logger    *log.Logger
}

// Resolver separates overlapping visible leaf nodes.
type Resolver struct {
	model  Model
	vis    Visibility
	opts   ResolverOptions
	logger *log.Logger
}

// NewResolver creates a resolver over the visible part of m.
func NewResolver(m Model, vis Visibility, opts ResolverOptions) *Resolver {
	if vis == nil {
		vis = AllVisible{}
	}
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{model: m, vis: vis, opts: opts, logger: logger}
}

// MaxPasses returns the effective pass limit.
func (r *Resolver) MaxPasses() int { return r.opts.MaxPasses }

func (r *Resolver) candidates() []string {
	var ids []string
	for _, n := range r.model.Nodes() {
		if r.model.IsCompound(n.ID) || r.vis.IsHidden(n.ID) {
			continue
		}
		ids = append(ids, n.ID)
	}
	return ids
}

func (r *Resolver) related(a, b string) bool {
	return r.model.Contains(a, b) || r.model.Contains(b, a)
}

// overlap computes the current overlap of a and b.
func (r *Resolver) overlap(a, b string) (Overlap, bool) {
	ba, ok := nodeBox(r.model, a)
	if !ok {
		return Overlap{}, false
	}
	bb, ok := nodeBox(r.model, b)
	if !ok {
		return Overlap{}, false
	}
	w, h, ok := ba.Intersect(bb)
	if !ok {
		return Overlap{}, false
	}
	ca, cb := ba.Center(), bb.Center()
	return Overlap{A: a, B: b, X: w, Y: h, DirX: sign(cb.X - ca.X), DirY: sign(cb.Y - ca.Y)}, true
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Overlaps lists every overlapping pair of visible leaf nodes, ordered by
// node ID.
func (r *Resolver) Overlaps() []Overlap {
	ids := r.candidates()
	var out []Overlap
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if r.related(a, b) {
				continue
			}
			if o, ok := r.overlap(a, b); ok {
				out = append(out, o)
			}
		}
	}
	return out
}

// HasOverlaps reports whether any pair overlaps. It does not move nodes.
func (r *Resolver) HasOverlaps() bool {
	ids := r.candidates()
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if r.related(a, b) {
				continue
			}
			if _, ok := r.overlap(a, b); ok {
				return true
			}
		}
	}
	return false
}

// Separate pushes the pair apart along the axis with the smaller overlap.
// A moves against the direction vector and B along it, each by half the
// overlap plus padding. The other axis is untouched.
func (r *Resolver) Separate(o Overlap) { r.separate(o, nil) }

// separate is Separate with pinned nodes held in place: when one side is
// pinned the other moves the full overlap plus twice the padding, and a
// fully pinned pair is left alone.
func (r *Resolver) separate(o Overlap, pinned func(string) bool) {
	moveA, moveB := true, true
	if pinned != nil {
		moveA, moveB = !pinned(o.A), !pinned(o.B)
	}
	if !moveA && !moveB {
		return
	}

	var axis compound.Point
	amount := o.X
	if o.X <= o.Y {
		axis = compound.Point{X: o.DirX}
	} else {
		axis = compound.Point{Y: o.DirY}
		amount = o.Y
	}
	da, db := amount/2+r.opts.Padding, amount/2+r.opts.Padding
	switch {
	case !moveA:
		da, db = 0, amount+2*r.opts.Padding
	case !moveB:
		da, db = amount+2*r.opts.Padding, 0
	}
	if pa, ok := r.model.Position(o.A); ok && da != 0 {
		r.model.SetPosition(o.A, pa.Add(axis.Scale(-da)))
	}
	if pb, ok := r.model.Position(o.B); ok && db != 0 {
		r.model.SetPosition(o.B, pb.Add(axis.Scale(db)))
	}
}

// Resolve runs separation passes until a pass finds no overlap or the pass
// limit is reached. Each pass re-scans all pairs and separates every pair
// that still overlaps at the time it is visited. It returns whether the
// graph is overlap-free and the number of separation passes run. On
// failure a layoutResetRequired event is emitted.
func (r *Resolver) Resolve() (resolved bool, passes int) {
	return r.resolve(nil)
}

// ResolveAmong is Resolve restricted to the given nodes: only they move,
// and only pairs with at least one of them are considered. Every other
// node keeps its position, overlaps among them included.
func (r *Resolver) ResolveAmong(ids []string) (resolved bool, passes int) {
	movable := make(map[string]bool, len(ids))
	for _, id := range ids {
		movable[id] = true
	}
	return r.resolve(func(id string) bool { return !movable[id] })
}

// pairs visits every unrelated candidate pair with at least one unpinned
// node until visit returns false.
func (r *Resolver) pairs(ids []string, pinned func(string) bool, visit func(a, b string) bool) {
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if pinned != nil && pinned(a) && pinned(b) {
				continue
			}
			if r.related(a, b) {
				continue
			}
			if !visit(a, b) {
				return
			}
		}
	}
}

func (r *Resolver) resolve(pinned func(string) bool) (resolved bool, passes int) {
	ids := r.candidates()
	for passes < r.opts.MaxPasses {
		found := false
		r.pairs(ids, pinned, func(a, b string) bool {
			if o, ok := r.overlap(a, b); ok {
				r.separate(o, pinned)
				found = true
			}
			return true
		})
		if !found {
			break
		}
		passes++
	}

	remaining := 0
	r.pairs(ids, pinned, func(a, b string) bool {
		if _, ok := r.overlap(a, b); ok {
			remaining++
		}
		return true
	})
	resolved = remaining == 0
	observability.Layout().OnOverlapResolve(passes, resolved)
	if !resolved {
		r.logger.Warn("overlap resolution exhausted", "passes", passes, "remaining", remaining)
		if r.opts.Sink != nil {
			r.opts.Sink.Emit(fold.Event{Type: fold.EventLayoutResetRequired, Count: remaining})
		}
	} else if passes > 0 {
		r.logger.Debug("overlaps resolved", "passes", passes)
	}
	return resolved, passes
}
