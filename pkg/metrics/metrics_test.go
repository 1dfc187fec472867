package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/stackfold/pkg/compound"
	"github.com/matzehuels/stackfold/pkg/fold"
	"github.com/matzehuels/stackfold/pkg/observability"
)

func TestEngineHooks(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OnCollapse("p", 3, 2)
	m.OnCollapse("q", 1, 0)
	m.OnExpand("p", 3)

	if got := testutil.ToFloat64(m.Collapses); got != 2 {
		t.Errorf("collapses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Expands); got != 1 {
		t.Errorf("expands = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.HiddenNodes); got != 1 {
		t.Errorf("hidden nodes series = %d, want 1", got)
	}
}

func TestLayoutHooks(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnLayoutStart(ctx, "dot", 10)
	if got := testutil.ToFloat64(m.LayoutsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	m.OnLayoutComplete(ctx, "dot", 20*time.Millisecond, nil)
	m.OnLayoutStart(ctx, "dot", 4)
	m.OnLayoutComplete(ctx, "dot", time.Millisecond, errors.New("boom"))

	tests := []struct {
		status string
		want   float64
	}{
		{"ok", 1},
		{"error", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.LayoutRuns.WithLabelValues("dot", tt.status)); got != tt.want {
			t.Errorf("layout runs{status=%s} = %v, want %v", tt.status, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(m.LayoutsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}

	m.OnOverlapResolve(3, true)
	m.OnOverlapResolve(10, false)
	if got := testutil.ToFloat64(m.OverlapRuns.WithLabelValues("false")); got != 1 {
		t.Errorf("unresolved runs = %v, want 1", got)
	}
}

func TestRegisteredHooksSeeEngineEvents(t *testing.T) {
	t.Cleanup(observability.Reset)
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Register()

	g := compound.New()
	for _, n := range []compound.Node{{ID: "p"}, {ID: "c", Parent: "p"}, {ID: "x"}} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(compound.Edge{ID: "cx", Source: "c", Target: "x"}); err != nil {
		t.Fatal(err)
	}

	e := fold.New(g, fold.Options{Sink: fold.HooksSink{}})
	e.CollapseNode("p")
	e.ExpandNode("p")

	if got := testutil.ToFloat64(m.Collapses); got != 1 {
		t.Errorf("collapses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Expands); got != 1 {
		t.Errorf("expands = %v, want 1", got)
	}

	path := filepath.Join(t.TempDir(), "stackfold.prom")
	if err := WriteFile(path, reg); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "stackfold_collapses_total 1") {
		t.Errorf("textfile missing collapse counter:\n%s", data)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("second New on the same registry did not panic")
		}
	}()
	New(reg)
}
