package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/stackfold/pkg/config"
	"github.com/matzehuels/stackfold/pkg/errors"
	"github.com/matzehuels/stackfold/pkg/graph"
)

func TestApplyFold(t *testing.T) {
	tests := []struct {
		name        string
		opts        foldOpts
		wantChanged []string
		wantHidden  []string
	}{
		{
			name:        "collapse",
			opts:        foldOpts{collapse: []string{"svc"}},
			wantChanged: []string{"svc"},
			wantHidden:  []string{"api", "auth"},
		},
		{
			name:        "collapse then expand",
			opts:        foldOpts{collapse: []string{"svc"}, expand: []string{"svc"}},
			wantChanged: nil,
		},
		{
			name:        "collapse all",
			opts:        foldOpts{collapseAll: true},
			wantChanged: []string{"svc"},
			wantHidden:  []string{"api", "auth"},
		},
		{
			name:       "hide node",
			opts:       foldOpts{hide: []string{"db"}},
			wantHidden: []string{"db"},
		},
		{
			name:       "hide then show",
			opts:       foldOpts{hide: []string{"db"}, show: []string{"db"}},
			wantHidden: nil,
		},
		{
			name: "invalid requests",
			opts: foldOpts{collapse: []string{"db", "missing"}, expand: []string{"svc"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := openSample(t)
			got := applyFold(s, tt.opts)
			if !slices.Equal(got, tt.wantChanged) {
				t.Errorf("changed = %v, want %v", got, tt.wantChanged)
			}
			var hidden []string
			for _, n := range s.Snapshot().Nodes {
				if n.Hidden {
					hidden = append(hidden, n.ID)
				}
			}
			slices.Sort(hidden)
			if !slices.Equal(hidden, tt.wantHidden) {
				t.Errorf("hidden nodes = %v, want %v", hidden, tt.wantHidden)
			}
		})
	}
}

func TestReason(t *testing.T) {
	s, _ := openSample(t)
	tests := []struct {
		id       string
		collapse bool
		want     string
	}{
		{"db", true, "not a compound node"},
		{"missing", true, "no such node"},
		{"svc", false, "not collapsed"},
	}
	for _, tt := range tests {
		if got := reason(s, tt.id, tt.collapse); got != tt.want {
			t.Errorf("reason(%s, %v) = %q, want %q", tt.id, tt.collapse, got, tt.want)
		}
	}
	applyFold(s, foldOpts{collapse: []string{"svc"}})
	if got := reason(s, "svc", true); got != "already collapsed" {
		t.Errorf("reason(svc, true) = %q, want already collapsed", got)
	}
}

func TestLayoutMode(t *testing.T) {
	auto := config.Default()
	auto.AutoLayout = true

	tests := []struct {
		name    string
		flag    string
		cfg     config.Config
		want    string
		wantErr bool
	}{
		{"default", "", config.Default(), layoutNone, false},
		{"auto layout", "", auto, layoutLocal, false},
		{"explicit", "global", auto, layoutGlobal, false},
		{"unknown", "spring", config.Default(), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := layoutMode(tt.flag, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("layoutMode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
			if got != tt.want {
				t.Errorf("layoutMode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunFold(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeSample(t, dir)
	out := filepath.Join(dir, "out.json")

	c := New(&strings.Builder{}, LogInfo)
	opts := foldOpts{collapse: []string{"svc"}, layout: layoutOverlap, outputOpts: outputOpts{output: out}}
	if err := c.runFold(context.Background(), input, opts); err != nil {
		t.Fatalf("runFold() error: %v", err)
	}

	gj, err := graph.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got := graph.Collapsed(gj); !slices.Equal(got, []string{"svc"}) {
		t.Errorf("Collapsed() = %v, want [svc]", got)
	}
	st := graph.Summarize(gj)
	if st.HiddenNodes != 2 || st.VisibleProjections != 1 {
		t.Errorf("stats = %+v, want 2 hidden nodes and 1 visible projection", st)
	}

	// Folding the output again keeps svc collapsed and expands it.
	again := filepath.Join(dir, "again.json")
	opts = foldOpts{expand: []string{"svc"}, outputOpts: outputOpts{output: again}}
	if err := c.runFold(context.Background(), out, opts); err != nil {
		t.Fatalf("runFold() second pass error: %v", err)
	}
	data, err := os.ReadFile(again)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"collapsed": true`) || strings.Contains(string(data), `"projection": true`) {
		t.Errorf("expanded output still folded:\n%s", data)
	}
}

func TestRunFoldInvalidAlgorithm(t *testing.T) {
	isolate(t)
	input := writeSample(t, t.TempDir())

	c := New(&strings.Builder{}, LogInfo)
	err := c.runFold(context.Background(), input, foldOpts{algorithm: "spring"})
	if !errors.Is(err, errors.ErrCodeInvalidAlgorithm) {
		t.Errorf("runFold() error = %v, want %v", err, errors.ErrCodeInvalidAlgorithm)
	}
}
