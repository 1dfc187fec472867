// Package pipeline turns a folded graph into output artifacts.
//
// A folded graph is rendered in one or more formats at once: the JSON
// node-link form (with hidden, collapsed and projection flags), a DOT
// description, or images laid out by Graphviz. The CLI uses it for fold
// output; library callers can use it to render a [session.Session]
// snapshot without touching files.
//
// # Usage
//
//	artifacts, err := pipeline.Render(ctx, s.Snapshot(), pipeline.Options{
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := artifacts[pipeline.FormatSVG]
package pipeline

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackfold/pkg/errors"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every output format in the order artifacts are produced.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// ValidFormats contains all valid output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// Options configures rendering.
type Options struct {
	Formats  []string // Output formats; defaults to JSON
	Detailed bool     // Include node metadata in DOT and image labels

	Logger *log.Logger // Optional; nil discards
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills in the JSON format when none is requested.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
}

// NeedsDOT reports whether any requested format is derived from DOT.
func (o *Options) NeedsDOT() bool {
	for _, f := range o.Formats {
		if f != FormatJSON {
			return true
		}
	}
	return false
}
