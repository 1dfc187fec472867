package fold

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackfold/pkg/observability"
)

// EventType names a notification emitted by the engine or the layout
// coordinator.
type EventType string

// Event types.
const (
	EventCollapse            EventType = "collapse"
	EventExpand              EventType = "expand"
	EventLayoutResetRequired EventType = "layoutResetRequired"
)

// Event is a fire-and-forget notification. Node is set for collapse and
// expand events; Count carries the number of hidden (collapse), shown
// (expand) or still-overlapping pairs (layoutResetRequired).
type Event struct {
	Type        EventType
	Node        string
	Count       int
	Projections int
}

// Sink receives engine notifications. Implementations must not call back
// into the engine.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

type nopSink struct{}

func (nopSink) Emit(Event) {}

// Tee returns a Sink that forwards every event to each non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []Sink

func (m multiSink) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Recorder is a Sink that keeps every event in memory. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends e.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of type t were recorded.
func (r *Recorder) Count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// LogSink writes events to a logger: collapse and expand at debug level,
// layout resets as warnings.
type LogSink struct {
	Logger *log.Logger
}

// Emit logs e.
func (s LogSink) Emit(e Event) {
	if s.Logger == nil {
		return
	}
	switch e.Type {
	case EventLayoutResetRequired:
		s.Logger.Warn("overlaps remain, full layout required", "pairs", e.Count)
	case EventCollapse:
		s.Logger.Debug("collapsed", "node", e.Node, "hidden", e.Count, "projections", e.Projections)
	default:
		s.Logger.Debug(string(e.Type), "node", e.Node, "count", e.Count)
	}
}

// HooksSink forwards collapse and expand events to the registered
// observability engine hooks.
type HooksSink struct{}

// Emit forwards e.
func (HooksSink) Emit(e Event) {
	switch e.Type {
	case EventCollapse:
		observability.Engine().OnCollapse(e.Node, e.Count, e.Projections)
	case EventExpand:
		observability.Engine().OnExpand(e.Node, e.Count)
	}
}
