package layout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackfold/pkg/compound"
	"github.com/matzehuels/stackfold/pkg/observability"
)

// DefaultAlgorithm is the layout used when Options.Algorithm is empty.
const DefaultAlgorithm = "dot"

// ErrNoCapability is returned when a layout is requested from a coordinator
// without a capability.
var ErrNoCapability = errors.New("layout: no capability configured")

// Options are the numeric knobs passed through to a capability.
type Options struct {
	Algorithm string
	Spacing   float64       // minimum distance between nodes
	Padding   float64       // margin around the laid-out subset when Fit is set
	Fit       bool          // translate results so the subset's top-left sits at Padding
	Animate   time.Duration // hint for interactive hosts; Graphviz ignores it
}

// NodeSpec is a node handed to a capability. Parent is set only when the
// parent is part of the same request.
type NodeSpec struct {
	ID       string
	Parent   string
	X, Y     float64
	Width    float64
	Height   float64
	Compound bool
}

// EdgeSpec is an edge handed to a capability.
type EdgeSpec struct {
	ID     string
	Source string
	Target string
}

// Request is the subset of the graph a capability lays out.
type Request struct {
	Algorithm string
	Nodes     []NodeSpec
	Edges     []EdgeSpec
	Options   Options
}

// Result carries new node centers keyed by node ID. Nodes missing from
// Positions keep their position.
type Result struct {
	Positions map[string]compound.Point
}

// Capability runs a layout algorithm. Run must call done exactly once,
// from any goroutine.
type Capability interface {
	Run(ctx context.Context, req Request, done func(Result, error))
}

// Func adapts a synchronous function to the Capability interface.
type Func func(ctx context.Context, req Request) (Result, error)

// Run calls f and reports its result to done.
func (f Func) Run(ctx context.Context, req Request, done func(Result, error)) {
	done(f(ctx, req))
}

// CoordinatorOptions configures a Coordinator.
type CoordinatorOptions struct {
	Layout Options

	// Locker guards the model while results are applied. Callers that
	// mutate the model under their own lock pass it here. Nil uses a
	// private mutex.
	Locker sync.Locker

	Logger *log.Logger
}

// Coordinator runs global and local layouts over the visible part of a
// model and reconciles overlaps afterwards.
type Coordinator struct {
	model    Model
	vis      Visibility
	cap      Capability
	resolver *Resolver
	opts     Options
	mu       sync.Locker
	logger   *log.Logger
}

// NewCoordinator creates a coordinator. The resolver runs after every
// layout and should be built over the same model and visibility.
func NewCoordinator(m Model, vis Visibility, c Capability, r *Resolver, opts CoordinatorOptions) *Coordinator {
	if vis == nil {
		vis = AllVisible{}
	}
	if r == nil {
		r = NewResolver(m, vis, ResolverOptions{Logger: opts.Logger})
	}
	if opts.Layout.Algorithm == "" {
		opts.Layout.Algorithm = DefaultAlgorithm
	}
	mu := opts.Locker
	if mu == nil {
		mu = &sync.Mutex{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{
		model:    m,
		vis:      vis,
		cap:      c,
		resolver: r,
		opts:     opts.Layout,
		mu:       mu,
		logger:   logger,
	}
}

// Resolver returns the overlap resolver used after each layout.
func (c *Coordinator) Resolver() *Resolver { return c.resolver }

// RunLayout lays out every visible node and every edge whose endpoints are
// both visible, then resolves overlaps. The returned channel receives
// exactly one value once both steps finished and is then closed.
//
// The request is built synchronously, so callers holding the coordinator's
// locker must release it for the layout to complete.
func (c *Coordinator) RunLayout(ctx context.Context) <-chan error {
	var ids []string
	for _, n := range c.model.Nodes() {
		if !c.vis.IsHidden(n.ID) {
			ids = append(ids, n.ID)
		}
	}
	req := c.request(ids)
	return c.run(ctx, req, nil)
}

// RunLocalLayout lays out id, its visible neighbors and, for compound
// nodes, its visible children. Every other visible node keeps its position.
// With fewer than two affected nodes the capability is skipped and only
// overlaps are resolved.
func (c *Coordinator) RunLocalLayout(ctx context.Context, id string) <-chan error {
	affected := c.Affected(id)
	if len(affected) < 2 {
		c.resolver.Resolve()
		return finished(nil)
	}

	in := make(map[string]bool, len(affected))
	for _, a := range affected {
		in[a] = true
	}
	snapshot := make(map[string]compound.Point)
	for _, n := range c.model.Nodes() {
		if in[n.ID] || c.vis.IsHidden(n.ID) {
			continue
		}
		snapshot[n.ID] = n.Position()
	}
	return c.run(ctx, c.request(affected), snapshot)
}

// Affected returns the node set a local layout of id would touch, sorted.
// It is empty when id is unknown or hidden.
func (c *Coordinator) Affected(id string) []string {
	if !c.model.HasNode(id) || c.vis.IsHidden(id) {
		return nil
	}
	set := []string{id}
	for _, n := range c.model.Neighbors(id) {
		if !c.vis.IsHidden(n) {
			set = append(set, n)
		}
	}
	if c.model.IsCompound(id) {
		for _, ch := range c.model.Children(id) {
			if !c.vis.IsHidden(ch) {
				set = append(set, ch)
			}
		}
	}
	slices.Sort(set)
	return slices.Compact(set)
}

func (c *Coordinator) request(ids []string) Request {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	req := Request{Algorithm: c.opts.Algorithm, Options: c.opts}
	for _, id := range ids {
		pos, _ := c.model.Position(id)
		w, h, _ := c.model.Size(id)
		spec := NodeSpec{ID: id, X: pos.X, Y: pos.Y, Width: w, Height: h, Compound: c.model.IsCompound(id)}
		if p, ok := c.model.Parent(id); ok && in[p] {
			spec.Parent = p
		}
		req.Nodes = append(req.Nodes, spec)
	}
	for _, e := range c.model.Edges() {
		if c.vis.IsHidden(e.ID) || !in[e.Source] || !in[e.Target] {
			continue
		}
		req.Edges = append(req.Edges, EdgeSpec{ID: e.ID, Source: e.Source, Target: e.Target})
	}
	return req
}

// run delegates req and applies the result under the locker. A non-nil
// snapshot is written back after the result, and overlap resolution then
// moves only the requested nodes, so nothing outside them moves.
func (c *Coordinator) run(ctx context.Context, req Request, snapshot map[string]compound.Point) <-chan error {
	ch := make(chan error, 1)
	if c.cap == nil {
		ch <- ErrNoCapability
		close(ch)
		return ch
	}

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, req.Algorithm, len(req.Nodes))
	c.logger.Debug("layout start", "algorithm", req.Algorithm, "nodes", len(req.Nodes), "edges", len(req.Edges), "local", snapshot != nil)

	var once sync.Once
	done := func(res Result, err error) {
		once.Do(func() {
			defer close(ch)
			if err != nil {
				err = fmt.Errorf("layout %s: %w", req.Algorithm, err)
			} else {
				c.mu.Lock()
				c.apply(req, res, snapshot)
				if snapshot != nil {
					c.resolver.ResolveAmong(nodeIDs(req))
				} else {
					c.resolver.Resolve()
				}
				c.mu.Unlock()
			}
			d := time.Since(start)
			observability.Layout().OnLayoutComplete(ctx, req.Algorithm, d, err)
			c.logger.Debug("layout done", "algorithm", req.Algorithm, "duration", d, "err", err)
			ch <- err
		})
	}
	go c.cap.Run(ctx, req, done)
	return ch
}

func (c *Coordinator) apply(req Request, res Result, snapshot map[string]compound.Point) {
	for _, n := range req.Nodes {
		if p, ok := res.Positions[n.ID]; ok {
			c.model.SetPosition(n.ID, p)
		}
	}
	for id, p := range snapshot {
		c.model.SetPosition(id, p)
	}
}

func nodeIDs(req Request) []string {
	ids := make([]string, len(req.Nodes))
	for i, n := range req.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func finished(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}
