package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/chartsmith/pkg/render/sink"
	"github.com/matzehuels/chartsmith/pkg/scene"
)

// Render serializes a scene in every requested format.
func Render(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	var svgOpts []sink.SVGOption
	if opts.FontFamily != "" {
		svgOpts = append(svgOpts, sink.WithFontFamily(opts.FontFamily))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(sc, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(sc)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, sc, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, sc, sink.WithPDFSVGOptions(svgOpts...))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// HostDocument builds the HTML page mounting every chart of outcomes.
// Charts that failed, or that lack an SVG artifact, show their error instead.
func HostDocument(title string, outcomes []Outcome) ([]byte, error) {
	mounts := make([]sink.Mount, 0, len(outcomes))
	for _, o := range outcomes {
		spec := o.Chart.WithDefaults()
		m := sink.Mount{ID: spec.Name, Title: spec.Title}
		if m.Title == "" {
			m.Title = spec.Name
		}
		switch {
		case o.Err != nil:
			m.Err = o.Err.Error()
		case o.Result == nil || o.Result.Artifacts[FormatSVG] == nil:
			m.Err = "no SVG rendered"
		default:
			m.SVG = o.Result.Artifacts[FormatSVG]
		}
		mounts = append(mounts, m)
	}
	return sink.RenderHTML(title, mounts)
}
