package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/stackfold/pkg/errors"
	"github.com/matzehuels/stackfold/pkg/graph"
	"github.com/matzehuels/stackfold/pkg/pipeline"
	"github.com/matzehuels/stackfold/pkg/session"
)

// outputOpts describes where a session's result goes.
type outputOpts struct {
	output   string   // base path or file path; derived from input if empty
	formats  []string // defaults to the extension of output, or json
	detailed bool     // include node metadata in rendered labels
}

// resolveFormats returns the formats to write, defaulting to the output
// file's extension and then to JSON.
func (o outputOpts) resolveFormats() ([]string, error) {
	fs := o.formats
	if len(fs) == 0 {
		if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(o.output)), "."); ext != "" {
			fs = []string{ext}
		} else {
			fs = []string{pipeline.FormatJSON}
		}
	}
	if err := pipeline.ValidateFormats(fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// outputPath returns the file for format f. A single format writes to the
// given output verbatim; several formats share output's base name.
func (o outputOpts) outputPath(input, f string, n int) string {
	if n == 1 && o.output != "" {
		return o.output
	}
	base := o.output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input)) + ".folded"
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + "." + f
}

// writeOutputs renders the session in every requested format, writes the
// files and prints their paths.
func writeOutputs(ctx context.Context, s *session.Session, input string, opts outputOpts) ([]string, error) {
	fs, err := opts.resolveFormats()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(fs))
	for i, f := range fs {
		paths[i] = opts.outputPath(input, f, len(fs))
		if err := errors.ValidatePath(paths[i]); err != nil {
			return nil, err
		}
	}

	artifacts, err := pipeline.Render(ctx, s.Snapshot(), pipeline.Options{
		Formats:  fs,
		Detailed: opts.detailed,
		Logger:   loggerFromContext(ctx),
	})
	if err != nil {
		return nil, err
	}
	for i, f := range fs {
		if err := os.WriteFile(paths[i], artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", paths[i], err)
		}
		printFile(paths[i])
	}
	return paths, nil
}

// summarize prints the stats of the session's current state.
func summarize(s *session.Session) graph.Stats {
	st := graph.Summarize(s.Snapshot())
	printStats(st)
	return st
}
