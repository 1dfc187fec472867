package session

import (
	"context"

	"github.com/matzehuels/stackfold/pkg/layout"
)

// RunLayout lays out every visible node and resolves overlaps. The channel
// receives one value when the layout is applied.
func (s *Session) RunLayout(ctx context.Context) <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.RunLayout(ctx)
}

// RunLocalLayout lays out id and its visible neighborhood, leaving every
// other node in place, and resolves overlaps.
func (s *Session) RunLocalLayout(ctx context.Context, id string) <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.RunLocalLayout(ctx, id)
}

// ResolveOverlaps separates overlapping visible nodes. It returns false
// when overlaps remain after the pass limit.
func (s *Session) ResolveOverlaps() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, _ := s.resolver.Resolve()
	return ok
}

// HasOverlaps reports whether any visible nodes overlap.
func (s *Session) HasOverlaps() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.HasOverlaps()
}

// Overlaps lists the overlapping pairs of visible nodes.
func (s *Session) Overlaps() []layout.Overlap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Overlaps()
}

// SetAutoLayout turns scheduling of layouts after collapse and expand on
// or off. Turning it off does not cancel layouts already scheduled.
func (s *Session) SetAutoLayout(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auto = on
}

// IsAutoLayoutEnabled reports whether auto layout is on.
func (s *Session) IsAutoLayoutEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auto
}

// ScheduleLayout requests a debounced layout. An empty id (GlobalKey)
// schedules a global layout, any other id a local layout around that node.
func (s *Session) ScheduleLayout(id string) {
	s.debounce.Trigger(id, func(done func()) {
		var ch <-chan error
		if id == GlobalKey {
			ch = s.RunLayout(s.ctx)
		} else {
			ch = s.RunLocalLayout(s.ctx, id)
		}
		go func() {
			defer done()
			if err := <-ch; err != nil {
				s.logger.Warn("scheduled layout failed", "node", id, "err", err)
			}
		}()
	})
}

// Pending reports whether a debounced layout is scheduled or running for
// id.
func (s *Session) Pending(id string) bool { return s.debounce.Pending(id) }

// Wait blocks until every scheduled layout that has started is applied.
// Layouts still waiting for their debounce interval are not waited for.
func (s *Session) Wait() { s.debounce.Wait() }

// autoLayout schedules a layout when auto layout is on. s.mu must be held.
func (s *Session) autoLayout(id string) {
	if s.auto {
		s.ScheduleLayout(id)
	}
}
