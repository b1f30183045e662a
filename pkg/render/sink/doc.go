// Package sink serializes chart scenes into output formats.
//
// # Formats
//
//   - [RenderSVG]: standalone SVG document, one element per scene node
//   - [RenderJSON]: the scene graph with kind-tagged nodes
//   - [RenderPNG], [RenderPDF]: SVG converted by rsvg-convert
//   - [RenderHTML]: a host page embedding several charts by mount id
//
// Sinks never fail on NaN geometry. SVG writes the literal NaN, which
// browsers ignore; JSON writes null.
package sink
