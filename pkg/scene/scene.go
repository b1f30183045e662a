// Package scene defines the drawable output of a chart as plain values.
//
// A [Scene] is a tree of [Node]s in SVG coordinate space (origin top-left, y
// growing downward). Chart builders produce scenes; sinks in render/sink turn
// them into SVG, JSON or raster formats. Nothing in a scene refers back to the
// dataset it was built from.
package scene

import (
	"math"
	"strconv"
)

// Node is one drawable element. The set of node kinds is closed.
type Node interface {
	Kind() string
}

// Scene is a complete chart ready for output.
type Scene struct {
	// ID is the mount point identifier, e.g. "boxplot".
	ID         string
	Width      float64
	Height     float64
	Background string
	Nodes      []Node
}

// Group nests nodes under a shared transform and class.
type Group struct {
	Class     string
	Transform string
	Children  []Node
}

// Line is a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	StrokeWidth    float64
	Class          string
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y          float64
	Width, Height float64
	Fill          string
	Stroke        string
	StrokeWidth   float64
	Class         string
}

// Path is an SVG path with raw path data.
type Path struct {
	D           string
	Fill        string
	Stroke      string
	StrokeWidth float64
	Class       string
}

// Text is a text label. Anchor is one of "start", "middle", "end".
type Text struct {
	X, Y      float64
	DY        string
	Anchor    string
	Baseline  string
	Transform string
	Fill      string
	Stroke    string
	FontSize  float64
	Content   string
	Class     string
}

func (Group) Kind() string { return "group" }
func (Line) Kind() string  { return "line" }
func (Rect) Kind() string  { return "rect" }
func (Path) Kind() string  { return "path" }
func (Text) Kind() string  { return "text" }

// Add appends nodes to the scene root.
func (s *Scene) Add(nodes ...Node) {
	s.Nodes = append(s.Nodes, nodes...)
}

// Walk calls fn for every node in depth-first order, groups before their
// children. Returning false from fn skips a group's children.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		descend := fn(n)
		if g, ok := n.(Group); ok && descend {
			Walk(g.Children, fn)
		}
	}
}

// Collect returns every node of type T in the tree, in drawing order.
func Collect[T Node](nodes []Node) []T {
	var out []T
	Walk(nodes, func(n Node) bool {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}

// CollectClass returns every node of type T whose class is class.
func CollectClass[T Node](nodes []Node, class string) []T {
	var out []T
	for _, n := range Collect[T](nodes) {
		if classOf(n) == class {
			out = append(out, n)
		}
	}
	return out
}

func classOf(n Node) string {
	switch v := n.(type) {
	case Group:
		return v.Class
	case Line:
		return v.Class
	case Rect:
		return v.Class
	case Path:
		return v.Class
	case Text:
		return v.Class
	}
	return ""
}

// Num formats a coordinate for output, rounded to three decimals.
// NaN and infinities are written as-is.
func Num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
