package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stackfold/pkg/errors"
	"github.com/matzehuels/stackfold/pkg/observability"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"fold", "check", "inspect", "explore", "config", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestExecuteVersion(t *testing.T) {
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Errorf("Execute(--version) error: %v", err)
	}
}

func TestExecuteMissingGraph(t *testing.T) {
	isolate(t)
	err := Execute(context.Background(), []string{"inspect", filepath.Join(t.TempDir(), "missing.json")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Execute(inspect missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestExecuteWritesMetrics(t *testing.T) {
	isolate(t)
	t.Cleanup(observability.Reset)
	dir := t.TempDir()
	input := writeSample(t, dir)
	metricsPath := filepath.Join(dir, "stackfold.prom")

	err := Execute(context.Background(), []string{"--metrics", metricsPath, "fold", input, "--collapse", "svc", "-o", filepath.Join(dir, "out.json")})
	if err != nil {
		t.Fatalf("Execute(fold) error: %v", err)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), "stackfold_collapses_total 1") {
		t.Errorf("metrics missing collapse count:\n%s", data)
	}
}
