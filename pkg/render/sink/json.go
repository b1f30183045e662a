package sink

import (
	"encoding/json"
	"math"

	"github.com/matzehuels/chartsmith/pkg/scene"
)

type jsonScene struct {
	ID         string     `json:"id"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Background string     `json:"background,omitempty"`
	Nodes      []jsonNode `json:"nodes"`
}

// coord is a scene coordinate. NaN and infinities are written as null.
type coord float64

func (c coord) MarshalJSON() ([]byte, error) {
	v := float64(c)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// jsonNode is the tagged form of a scene node. Coordinates a node kind does
// not have are omitted; coordinates it has but could not compute are null.
type jsonNode struct {
	Kind        string     `json:"kind"`
	Class       string     `json:"class,omitempty"`
	Transform   string     `json:"transform,omitempty"`
	X           *coord     `json:"x,omitempty"`
	Y           *coord     `json:"y,omitempty"`
	X1          *coord     `json:"x1,omitempty"`
	Y1          *coord     `json:"y1,omitempty"`
	X2          *coord     `json:"x2,omitempty"`
	Y2          *coord     `json:"y2,omitempty"`
	Width       *coord     `json:"width,omitempty"`
	Height      *coord     `json:"height,omitempty"`
	D           string     `json:"d,omitempty"`
	DY          string     `json:"dy,omitempty"`
	Anchor      string     `json:"anchor,omitempty"`
	Baseline    string     `json:"baseline,omitempty"`
	Fill        string     `json:"fill,omitempty"`
	Stroke      string     `json:"stroke,omitempty"`
	StrokeWidth float64    `json:"stroke_width,omitempty"`
	FontSize    float64    `json:"font_size,omitempty"`
	Text        string     `json:"text,omitempty"`
	Children    []jsonNode `json:"children,omitempty"`
}

// RenderJSON exports the scene graph as a pretty-printed JSON document. Every
// node carries a "kind" tag (group, line, rect, path, text); NaN coordinates
// are encoded as null.
func RenderJSON(sc *scene.Scene) ([]byte, error) {
	out := jsonScene{
		ID:         sc.ID,
		Width:      sc.Width,
		Height:     sc.Height,
		Background: sc.Background,
		Nodes:      toJSONNodes(sc.Nodes),
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSONNodes(nodes []scene.Node) []jsonNode {
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		jn := jsonNode{Kind: n.Kind()}
		switch v := n.(type) {
		case scene.Group:
			jn.Class, jn.Transform = v.Class, v.Transform
			jn.Children = toJSONNodes(v.Children)
		case scene.Line:
			jn.Class = v.Class
			jn.X1, jn.Y1, jn.X2, jn.Y2 = num(v.X1), num(v.Y1), num(v.X2), num(v.Y2)
			jn.Stroke, jn.StrokeWidth = v.Stroke, v.StrokeWidth
		case scene.Rect:
			jn.Class = v.Class
			jn.X, jn.Y, jn.Width, jn.Height = num(v.X), num(v.Y), num(v.Width), num(v.Height)
			jn.Fill, jn.Stroke, jn.StrokeWidth = v.Fill, v.Stroke, v.StrokeWidth
		case scene.Path:
			jn.Class, jn.D = v.Class, v.D
			jn.Fill, jn.Stroke, jn.StrokeWidth = v.Fill, v.Stroke, v.StrokeWidth
		case scene.Text:
			jn.Class, jn.Transform = v.Class, v.Transform
			jn.X, jn.Y = num(v.X), num(v.Y)
			jn.DY, jn.Anchor, jn.Baseline = v.DY, v.Anchor, v.Baseline
			jn.Fill, jn.Stroke, jn.FontSize = v.Fill, v.Stroke, v.FontSize
			jn.Text = v.Content
		}
		out = append(out, jn)
	}
	return out
}

func num(v float64) *coord {
	c := coord(v)
	return &c
}
