// Package session ties one compound graph to its collapse engine, overlap
// resolver and layout coordinator.
//
// A [Session] is the outward API of stackfold. Every method takes the
// session lock for its whole duration, so structural operations are atomic
// with respect to each other. Layout runs are the only asynchronous part:
// the request is built under the lock, the capability runs without it, and
// the result is applied after re-acquiring it.
//
// # Usage
//
//	s, err := session.Open("graph.json", session.Options{
//	    Config:     config.Default(),
//	    Capability: layout.Graphviz{},
//	})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	s.Collapse(fold.Node("svc"))
//	if err := <-s.RunLayout(ctx); err != nil {
//	    return err
//	}
//	return s.WriteFile("out.json")
//
// # Auto layout
//
// With auto layout enabled, every collapse or expand schedules a debounced
// local layout keyed by the node, and CollapseAll/ExpandAll schedule a
// debounced global layout. Bursts on the same key collapse into one run.
package session

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackfold/pkg/compound"
	"github.com/matzehuels/stackfold/pkg/config"
	"github.com/matzehuels/stackfold/pkg/fold"
	"github.com/matzehuels/stackfold/pkg/graph"
	"github.com/matzehuels/stackfold/pkg/layout"
)

// GlobalKey is the debounce key used for global layouts.
const GlobalKey = ""

// Options configures a Session.
type Options struct {
	// Config supplies layout, overlap and debounce settings. The zero value
	// is replaced with config.Default().
	Config config.Config

	// Capability runs layouts. Nil makes layout requests fail with
	// layout.ErrNoCapability; overlap resolution still works.
	Capability layout.Capability

	// Sink receives collapse, expand and layoutResetRequired events.
	Sink fold.Sink

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger

	// Clock drives debounce timers. Nil uses layout.RealClock.
	Clock layout.Clock

	// NewID generates projection edge IDs. Nil uses random UUIDs.
	NewID func() string
}

// Session owns the state of one graph instance.
type Session struct {
	mu       sync.Mutex
	graph    *compound.Graph
	engine   *fold.Engine
	resolver *layout.Resolver
	coord    *layout.Coordinator
	debounce *layout.Debouncer
	auto     bool
	logger   *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a session over g. The session takes ownership of g: callers
// must not mutate it afterwards except through the session.
func New(g *compound.Graph, opts Options) *Session {
	cfg := opts.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		graph:  g,
		auto:   cfg.AutoLayout,
		logger: logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.engine = fold.New(g, fold.Options{
		Sink:   opts.Sink,
		Logger: logger.WithPrefix("fold"),
		NewID:  opts.NewID,
	})
	s.resolver = layout.NewResolver(g, s.engine, layout.ResolverOptions{
		MaxPasses: cfg.Layout.MaxPasses,
		Padding:   cfg.Layout.OverlapPadding,
		Sink:      opts.Sink,
		Logger:    logger.WithPrefix("overlap"),
	})
	s.coord = layout.NewCoordinator(g, s.engine, opts.Capability, s.resolver, layout.CoordinatorOptions{
		Layout: cfg.Layout.LayoutOptions(),
		Locker: &s.mu,
		Logger: logger.WithPrefix("layout"),
	})
	s.debounce = layout.NewDebouncer(opts.Clock, cfg.Layout.Debounce.Std())
	return s
}

// Open loads a graph file and re-applies the collapsed and user-hidden
// state recorded in it.
func Open(path string, opts Options) (*Session, error) {
	g, gj, err := graph.Load(path)
	if err != nil {
		return nil, err
	}
	s := New(g, opts)
	s.restore(gj)
	return s, nil
}

// restore collapses the nodes flagged in gj, deepest first, then hides
// whatever gj marks hidden that collapsing did not hide.
func (s *Session) restore(gj graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Collapse(fold.Nodes(graph.Collapsed(gj)...)...)

	var user []fold.Element
	for _, n := range gj.Nodes {
		if n.Hidden && !s.engine.IsHidden(n.ID) {
			user = append(user, fold.Node(n.ID))
		}
	}
	for _, e := range gj.Edges {
		if e.Hidden && !e.Projection && e.ID != "" && !s.engine.IsHidden(e.ID) {
			user = append(user, fold.Edge(e.ID))
		}
	}
	s.engine.HideUser(user...)
}

// Close cancels pending debounced layouts and waits for scheduled layouts
// already running.
func (s *Session) Close() {
	s.debounce.Close()
	s.cancel()
	s.debounce.Wait()
}

// =============================================================================
// Collapse / Expand
// =============================================================================

// Collapse collapses every compound node in els and reports whether any
// changed state.
func (s *Session) Collapse(els ...fold.Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, el := range els {
		if s.engine.Collapse(el) {
			changed = true
			s.autoLayout(el.ID)
		}
	}
	return changed
}

// Expand expands every collapsed node in els and reports whether any
// changed state.
func (s *Session) Expand(els ...fold.Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, el := range els {
		if s.engine.Expand(el) {
			changed = true
			s.autoLayout(el.ID)
		}
	}
	return changed
}

// Toggle expands id if it is collapsed and collapses it otherwise.
func (s *Session) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed bool
	if s.engine.IsCollapsed(id) {
		changed = s.engine.Expand(fold.Node(id))
	} else {
		changed = s.engine.Collapse(fold.Node(id))
	}
	if changed {
		s.autoLayout(id)
	}
	return changed
}

// CollapseAll collapses every compound node, deepest first.
func (s *Session) CollapseAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.engine.CollapseAll()
	if changed {
		s.autoLayout(GlobalKey)
	}
	return changed
}

// ExpandAll expands every collapsed node.
func (s *Session) ExpandAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.engine.ExpandAll()
	if changed {
		s.autoLayout(GlobalKey)
	}
	return changed
}

// Hide hides elements on behalf of the user. They stay hidden across
// collapse and expand until Show is called.
func (s *Session) Hide(els ...fold.Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.HideUser(els...)
}

// Show reverts Hide. Elements that are also inside a collapsed subtree
// stay hidden.
func (s *Session) Show(els ...fold.Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ShowUser(els...)
}

// =============================================================================
// Queries
// =============================================================================

// IsCollapsed reports whether id is collapsed.
func (s *Session) IsCollapsed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.IsCollapsed(id)
}

// IsHidden reports whether the node or edge id is hidden.
func (s *Session) IsHidden(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.IsHidden(id)
}

// CollapsedNodes returns the collapsed node IDs, sorted.
func (s *Session) CollapsedNodes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.CollapsedNodes()
}

// ProjectedEdges returns copies of the live projection edges of id.
func (s *Session) ProjectedEdges(id string) []compound.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []compound.Edge
	for _, e := range s.engine.ProjectedEdges(id) {
		cp := *e
		cp.Meta = clone(e.Meta)
		out = append(out, cp)
	}
	return out
}

// Record returns the collapse record of id.
func (s *Session) Record(id string) (fold.RecordInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Record(id)
}

// Compounds returns the IDs of all compound nodes in hierarchy order,
// parents before their children.
func (s *Session) Compounds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, n := range graph.FromCompound(s.graph, nil).Nodes {
		if s.graph.IsCompound(n.ID) {
			out = append(out, n.ID)
		}
	}
	return out
}

// Snapshot returns the whole graph in serialization form, annotated with
// hidden and collapsed flags.
func (s *Session) Snapshot() graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.FromCompound(s.graph, s.engine)
}

// VisibleGraph returns the visible part of the graph for rendering.
func (s *Session) VisibleGraph() graph.Graph {
	return graph.Visible(s.Snapshot())
}

// Write encodes the snapshot as JSON.
func (s *Session) Write(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.Write(s.graph, s.engine, w)
}

// WriteFile writes the snapshot to path.
func (s *Session) WriteFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.WriteFile(s.graph, s.engine, path)
}

func clone(m compound.Metadata) compound.Metadata {
	out := make(compound.Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
