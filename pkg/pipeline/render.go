package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/errors"
	"github.com/matzehuels/depsort/pkg/observability"
	"github.com/matzehuels/depsort/pkg/render"
)

// Diagram output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// DiagramFormats lists the formats accepted by Render.
var DiagramFormats = []string{FormatDOT, FormatSVG, FormatPNG}

// ValidateDiagramFormat checks that a diagram format is valid.
func ValidateDiagramFormat(format string) error {
	return errors.ValidateChoice(errors.ErrCodeInvalidFormat, "diagram format", format, DiagramFormats)
}

// RenderOptions configures a diagram.
type RenderOptions struct {
	Format      string // dot, svg or png; defaults to svg
	Detailed    bool
	LeftToRight bool
}

// Render draws the document's graph with every cycle highlighted. Cyclic
// documents render normally; the diagram is the tool for inspecting them.
func (r *Runner) Render(ctx context.Context, opts Options, ropts RenderOptions) ([]byte, error) {
	if ropts.Format == "" {
		ropts.Format = FormatSVG
	}
	if err := ValidateDiagramFormat(ropts.Format); err != nil {
		return nil, err
	}

	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	dot := render.ToDOT(g, render.Options{
		Cycles:      dsort.Cycles(g),
		Detailed:    ropts.Detailed,
		LeftToRight: ropts.LeftToRight,
	})
	if ropts.Format == FormatDOT {
		return []byte(dot), nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, ropts.Format)
	start := time.Now()

	var out []byte
	switch ropts.Format {
	case FormatSVG:
		out, err = render.RenderSVG(ctx, dot)
	case FormatPNG:
		out, err = render.RenderPNG(ctx, dot)
	}
	hooks.OnRenderComplete(ctx, ropts.Format, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", ropts.Format)
	}

	r.logger(opts).Info("rendered graph", "format", ropts.Format, "nodes", g.Len(), "duration", time.Since(start))
	return out, nil
}
