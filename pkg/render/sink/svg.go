package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/chartsmith/pkg/scene"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontFamily string
	fragment   bool
}

// WithFontFamily sets the root font family (default sans-serif).
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }

// WithFragment omits the XML declaration so the SVG can be inlined in HTML.
func WithFragment() SVGOption { return func(r *svgRenderer) { r.fragment = true } }

// RenderSVG serializes a scene as a standalone SVG document.
func RenderSVG(sc *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{fontFamily: "sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	if !r.fragment {
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	}
	w, h := scene.Num(sc.Width), scene.Num(sc.Height)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s"`, w, h, w, h)
	writeAttr(&buf, "data-chart", sc.ID)
	writeAttr(&buf, "font-family", r.fontFamily)
	if sc.Background != "" {
		writeAttr(&buf, "style", "background: "+sc.Background)
	}
	buf.WriteString(">\n")

	if sc.Background != "" {
		fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", escape(sc.Background))
	}
	for _, n := range sc.Nodes {
		writeNode(&buf, n, 1)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n scene.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)

	switch v := n.(type) {
	case scene.Group:
		buf.WriteString("<g")
		writeAttr(buf, "class", v.Class)
		writeAttr(buf, "transform", v.Transform)
		if len(v.Children) == 0 {
			buf.WriteString("/>\n")
			return
		}
		buf.WriteString(">\n")
		for _, c := range v.Children {
			writeNode(buf, c, depth+1)
		}
		buf.WriteString(indent + "</g>\n")

	case scene.Line:
		buf.WriteString("<line")
		writeNum(buf, "x1", v.X1)
		writeNum(buf, "y1", v.Y1)
		writeNum(buf, "x2", v.X2)
		writeNum(buf, "y2", v.Y2)
		writePaint(buf, "", v.Stroke, v.StrokeWidth)
		writeAttr(buf, "class", v.Class)
		buf.WriteString("/>\n")

	case scene.Rect:
		buf.WriteString("<rect")
		writeNum(buf, "x", v.X)
		writeNum(buf, "y", v.Y)
		writeNum(buf, "width", v.Width)
		writeNum(buf, "height", v.Height)
		writePaint(buf, v.Fill, v.Stroke, v.StrokeWidth)
		writeAttr(buf, "class", v.Class)
		buf.WriteString("/>\n")

	case scene.Path:
		buf.WriteString("<path")
		writeAttr(buf, "d", v.D)
		writePaint(buf, v.Fill, v.Stroke, v.StrokeWidth)
		writeAttr(buf, "class", v.Class)
		buf.WriteString("/>\n")

	case scene.Text:
		buf.WriteString("<text")
		writeNum(buf, "x", v.X)
		writeNum(buf, "y", v.Y)
		writeAttr(buf, "dy", v.DY)
		writeAttr(buf, "text-anchor", v.Anchor)
		writeAttr(buf, "alignment-baseline", v.Baseline)
		writeAttr(buf, "transform", v.Transform)
		writePaint(buf, v.Fill, v.Stroke, 0)
		if v.FontSize > 0 {
			writeNum(buf, "font-size", v.FontSize)
		}
		writeAttr(buf, "class", v.Class)
		buf.WriteString(">")
		buf.WriteString(escape(v.Content))
		buf.WriteString("</text>\n")
	}
}

func writePaint(buf *bytes.Buffer, fill, stroke string, width float64) {
	writeAttr(buf, "fill", fill)
	writeAttr(buf, "stroke", stroke)
	if width > 0 {
		writeNum(buf, "stroke-width", width)
	}
}

func writeNum(buf *bytes.Buffer, name string, v float64) {
	fmt.Fprintf(buf, ` %s="%s"`, name, scene.Num(v))
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, ` %s="%s"`, name, escape(value))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
