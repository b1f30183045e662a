package chart

import (
	"fmt"

	"github.com/matzehuels/chartsmith/pkg/scale"
	"github.com/matzehuels/chartsmith/pkg/scene"
)

const (
	tickSize     = 6
	tickPadding  = 3
	axisFontSize = 10
	axisColor    = "currentColor"
)

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", scene.Num(x), scene.Num(y))
}

// bottomAxis draws a categorical axis below the plot area, one tick per band
// at the band center.
func bottomAxis(x *scale.Band, y0 float64, a Axis) scene.Group {
	r0, r1 := x.Range()
	g := scene.Group{Class: "axis x-axis", Transform: translate(0, y0)}
	g.Children = append(g.Children, scene.Path{
		D:      fmt.Sprintf("M%s,%dV0H%sV%d", scene.Num(r0), tickSize, scene.Num(r1), tickSize),
		Fill:   "none",
		Stroke: axisColor,
		Class:  "domain",
	})

	for _, v := range x.Domain() {
		label := scene.Text{
			Y:        tickSize + tickPadding,
			DY:       "0.71em",
			Anchor:   "middle",
			Fill:     axisColor,
			FontSize: axisFontSize,
			Content:  v,
		}
		if a.TickRotate != 0 {
			label.Anchor = "end"
			label.Transform = fmt.Sprintf("rotate(%s)", scene.Num(a.TickRotate))
		}
		g.Children = append(g.Children, scene.Group{
			Class:     "tick",
			Transform: translate(x.Center(v), 0),
			Children: []scene.Node{
				scene.Line{Y2: tickSize, Stroke: axisColor},
				label,
			},
		})
	}

	if t, ok := axisTitle(a.Label, "middle"); ok {
		g.Children = append(g.Children, t)
	}
	return g
}

// leftAxis draws a linear axis left of the plot area with round tick values.
func leftAxis(y scale.Linear, x0 float64, a Axis) scene.Group {
	r0, r1 := y.Range()
	g := scene.Group{Class: "axis y-axis", Transform: translate(x0, 0)}
	g.Children = append(g.Children, scene.Path{
		D:      fmt.Sprintf("M-%d,%sH0V%sH-%d", tickSize, scene.Num(r0), scene.Num(r1), tickSize),
		Fill:   "none",
		Stroke: axisColor,
		Class:  "domain",
	})

	for _, v := range y.Ticks(a.Ticks) {
		g.Children = append(g.Children, scene.Group{
			Class:     "tick",
			Transform: translate(0, y.Map(v)),
			Children: []scene.Node{
				scene.Line{X2: -tickSize, Stroke: axisColor},
				scene.Text{
					X:        -(tickSize + tickPadding),
					DY:       "0.32em",
					Anchor:   "end",
					Fill:     axisColor,
					FontSize: axisFontSize,
					Content:  scale.TickFormat(v),
				},
			},
		})
	}

	if t, ok := axisTitle(a.Label, "end"); ok {
		g.Children = append(g.Children, t)
	}
	return g
}

func axisTitle(l Label, anchor string) (scene.Text, bool) {
	if l.Text == "" {
		return scene.Text{}, false
	}
	if l.Anchor != "" {
		anchor = l.Anchor
	}
	return scene.Text{
		X:        l.X,
		Y:        l.Y,
		Anchor:   anchor,
		Fill:     l.Color,
		Stroke:   l.Color,
		FontSize: axisFontSize,
		Content:  l.Text,
		Class:    "axis-label",
	}, true
}
