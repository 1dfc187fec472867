package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/stackfold/pkg/errors"
	"github.com/matzehuels/stackfold/pkg/fold"
	"github.com/matzehuels/stackfold/pkg/session"
)

const sampleJSON = `{
  "nodes": [
    {"id": "svc", "x": 50, "y": 50, "width": 120, "height": 60},
    {"id": "api", "parent": "svc", "x": 20, "y": 50},
    {"id": "auth", "parent": "svc", "x": 80, "y": 50},
    {"id": "db", "x": 300, "y": 50}
  ],
  "edges": [
    {"id": "e1", "from": "api", "to": "db"},
    {"id": "e2", "from": "auth", "to": "db"}
  ]
}`

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func openSample(t *testing.T) (*session.Session, string) {
	t.Helper()
	dir := t.TempDir()
	path := writeSample(t, dir)
	s, err := session.Open(path, session.Options{})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(s.Close)
	return s, dir
}

func TestResolveFormats(t *testing.T) {
	tests := []struct {
		name    string
		opts    outputOpts
		want    []string
		wantErr bool
	}{
		{"default", outputOpts{}, []string{"json"}, false},
		{"from extension", outputOpts{output: "out.DOT"}, []string{"dot"}, false},
		{"explicit", outputOpts{output: "out", formats: []string{"svg", "png"}}, []string{"svg", "png"}, false},
		{"unknown extension", outputOpts{output: "out.gif"}, nil, true},
		{"unknown format", outputOpts{formats: []string{"txt"}}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.resolveFormats()
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveFormats() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("resolveFormats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		format string
		n      int
		want   string
	}{
		{"single explicit", "out/result.json", "json", 1, "out/result.json"},
		{"derived", "", "svg", 1, "in/graph.folded.svg"},
		{"multiple share base", "out/result.json", "dot", 2, "out/result.dot"},
		{"multiple no ext", "out/result", "png", 3, "out/result.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := outputOpts{output: tt.output}
			if got := o.outputPath("in/graph.json", tt.format, tt.n); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteOutputs(t *testing.T) {
	s, dir := openSample(t)
	s.Collapse(fold.Node("svc"))

	base := filepath.Join(dir, "result")
	paths, err := writeOutputs(context.Background(), s, "graph.json", outputOpts{output: base, formats: []string{"json", "dot"}})
	if err != nil {
		t.Fatalf("writeOutputs() error: %v", err)
	}
	if want := []string{base + ".json", base + ".dot"}; !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"collapsed": true`) {
		t.Errorf("json output missing collapsed flag:\n%s", data)
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), "style=dashed") {
		t.Errorf("dot output missing projection edge:\n%s", dot)
	}
}

func TestWriteOutputsInvalidPath(t *testing.T) {
	s, dir := openSample(t)
	_, err := writeOutputs(context.Background(), s, "graph.json", outputOpts{output: dir + "/", formats: []string{"json"}})
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("writeOutputs() error = %v, want %v", err, errors.ErrCodeInvalidPath)
	}
}

// isolate points the config and cache directories at temporary ones.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}
