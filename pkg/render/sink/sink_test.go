package sink

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/chartsmith/pkg/scene"
)

func testScene() *scene.Scene {
	sc := &scene.Scene{ID: "barplot", Width: 400, Height: 300, Background: "white"}
	sc.Add(
		scene.Group{Class: "axis x-axis", Transform: "translate(0,270)", Children: []scene.Node{
			scene.Path{D: "M30,6V0H390V6", Fill: "none", Stroke: "currentColor", Class: "domain"},
			scene.Text{Y: 9, DY: "0.71em", Anchor: "middle", Baseline: "middle", Content: "R&D <beta>"},
		}},
		scene.Rect{X: 40, Y: 30, Width: 20, Height: 240, Fill: "#1f77b4", Class: "bar"},
		scene.Rect{X: 70, Y: math.NaN(), Width: 20, Height: math.NaN(), Fill: "#ff7f0e", Class: "bar"},
		scene.Line{X1: 1, Y1: 2, X2: 3, Y2: 4, Stroke: "black", StrokeWidth: 2},
	)
	return sc
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testScene()))

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 300" width="400" height="300" data-chart="barplot"`,
		`style="background: white"`,
		`<rect class="background" width="100%" height="100%" fill="white"/>`,
		`<g class="axis x-axis" transform="translate(0,270)">`,
		`<path d="M30,6V0H390V6" fill="none" stroke="currentColor" class="domain"/>`,
		`R&amp;D &lt;beta&gt;</text>`,
		`<rect x="40" y="30" width="20" height="240" fill="#1f77b4" class="bar"/>`,
		`y="NaN"`,
		`<line x1="1" y1="2" x2="3" y2="4" stroke="black" stroke-width="2"/>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q\n%s", want, svg)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testScene(), WithFragment(), WithFontFamily("Inter")))
	if strings.HasPrefix(svg, "<?xml") {
		t.Error("fragment should omit the XML declaration")
	}
	if !strings.Contains(svg, `font-family="Inter"`) {
		t.Error("font family not applied")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testScene())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonScene
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.ID != "barplot" || out.Width != 400 || out.Height != 300 {
		t.Errorf("frame = %s %vx%v", out.ID, out.Width, out.Height)
	}
	if len(out.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(out.Nodes))
	}

	kinds := []string{"group", "rect", "rect", "line"}
	for i, n := range out.Nodes {
		if n.Kind != kinds[i] {
			t.Errorf("node %d kind = %s, want %s", i, n.Kind, kinds[i])
		}
	}
	if len(out.Nodes[0].Children) != 2 || out.Nodes[0].Children[1].Text != "R&D <beta>" {
		t.Errorf("group children = %+v", out.Nodes[0].Children)
	}
	if out.Nodes[1].Y == nil || *out.Nodes[1].Y != 30 {
		t.Errorf("bar y = %v, want 30", out.Nodes[1].Y)
	}
	if out.Nodes[2].Y != nil || out.Nodes[2].Height != nil {
		t.Error("NaN geometry should decode as nil")
	}
	if out.Nodes[0].Children[1].Baseline != "middle" {
		t.Errorf("text baseline = %q, want middle", out.Nodes[0].Children[1].Baseline)
	}

	var raw struct {
		Nodes []map[string]any `json:"nodes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	nanBar := raw.Nodes[2]
	for _, key := range []string{"y", "height"} {
		v, ok := nanBar[key]
		if !ok || v != nil {
			t.Errorf("NaN %s = %v (present %v), want explicit null", key, v, ok)
		}
	}
	if _, ok := raw.Nodes[3]["x"]; ok {
		t.Error("a line has no x coordinate and should omit it")
	}
}

func TestRenderHTML(t *testing.T) {
	svg := RenderSVG(testScene())
	page, err := RenderHTML("Social <media>", []Mount{
		{ID: "boxplot", Title: "Likes", Err: "SOURCE_NOT_FOUND: socialMedia.csv"},
		{ID: "barplot", Title: "Average likes", SVG: svg},
	})
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	html := string(page)

	for _, want := range []string{
		`<title>Social &lt;media&gt;</title>`,
		`<div id="boxplot"><p class="chart-error">SOURCE_NOT_FOUND: socialMedia.csv</p></div>`,
		`<div id="barplot"><svg xmlns=`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(html, "<?xml") {
		t.Error("inlined SVG should not carry an XML declaration")
	}
}
