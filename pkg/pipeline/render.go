package pipeline

import (
	"bytes"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackfold/pkg/errors"
	"github.com/matzehuels/stackfold/pkg/graph"
	"github.com/matzehuels/stackfold/pkg/render"
	"github.com/matzehuels/stackfold/pkg/render/nodelink"
)

// Render generates artifacts for gj in every requested format, keyed by
// format name.
func Render(ctx context.Context, gj graph.Graph, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var dot string
	if opts.NeedsDOT() {
		dot = nodelink.ToDOT(gj, nodelink.Options{Detailed: opts.Detailed})
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = graph.Encode(&buf, gj)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			svg, err = renderSVG(svg, dot)
			data = svg
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot)
		case FormatPDF:
			if svg, err = renderSVG(svg, dot); err == nil {
				data, err = render.ToPDF(ctx, svg)
			}
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		logger.Debug("rendered", "format", format, "bytes", len(data))
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderSVG renders dot once; PDF output reuses the SVG.
func renderSVG(cached []byte, dot string) ([]byte, error) {
	if cached != nil {
		return cached, nil
	}
	return nodelink.RenderSVG(dot)
}
