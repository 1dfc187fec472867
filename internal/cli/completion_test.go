package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteNodes(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir)
	folded := filepath.Join(dir, "folded.json")
	if err := os.WriteFile(folded, []byte(strings.Replace(sampleJSON, `"id": "svc",`, `"id": "svc", "collapsed": true,`, 1)), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		which      int
		args       []string
		toComplete string
		want       []string
	}{
		{"compounds", completeCompound, []string{path}, "", []string{"svc"}},
		{"all by prefix", completeAll, []string{path}, "a", []string{"api", "auth"}},
		{"comma list", completeAll, []string{path}, "api,", []string{"api,auth", "api,db", "api,svc"}},
		{"collapsed", completeCollapsed, []string{folded}, "", []string{"svc"}},
		{"nothing collapsed", completeCollapsed, []string{path}, "", nil},
		{"unreadable graph", completeAll, []string{filepath.Join(dir, "missing.json")}, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dir := completeNodes(tt.which)(&cobra.Command{}, tt.args, tt.toComplete)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
			if dir&cobra.ShellCompDirectiveNoFileComp == 0 {
				t.Errorf("directive = %v, want NoFileComp", dir)
			}
		})
	}

	if _, dir := completeNodes(completeAll)(&cobra.Command{}, nil, ""); dir != cobra.ShellCompDirectiveDefault {
		t.Errorf("directive without graph = %v, want file completion", dir)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(out.String(), "stackfold") {
				t.Errorf("completion %s output does not mention stackfold", shell)
			}
		})
	}
}
