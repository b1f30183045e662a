// Package render provides format conversion for rendered charts.
//
// # Overview
//
// Charts are drawn as scenes by the chart package and serialized by the
// [sink] subpackage. This package holds the pieces shared by every sink:
//
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(sc)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// Use [ConverterAvailable] to check for the tool before offering raster
// formats. A missing tool yields an UNSUPPORTED error.
package render
