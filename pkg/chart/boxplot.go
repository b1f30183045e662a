package chart

import (
	"math"

	"github.com/matzehuels/chartsmith/pkg/dataset"
	"github.com/matzehuels/chartsmith/pkg/scale"
	"github.com/matzehuels/chartsmith/pkg/scene"
	"github.com/matzehuels/chartsmith/pkg/stats"
)

// boxplot draws one box per category: a whisker from min to max at the band
// center, a box from q1 to q3 spanning the band and a median line.
func boxplot(s Spec, t *dataset.Table) (*scene.Scene, error) {
	groups, err := stats.Rollup(t, s.Category, s.Value)
	if err != nil {
		return nil, err
	}

	x, y := plotScales(s, t)
	fill := scale.NewOrdinal(x.Domain(), s.Palette)

	sc := newScene(s)
	sc.Add(
		bottomAxis(x, s.Height-s.Margin.Bottom+s.XAxis.Offset, s.XAxis),
		leftAxis(y, s.Margin.Left+s.YAxis.Offset, s.YAxis),
	)

	for _, g := range groups {
		x0 := x.Map(g.Key)
		bw := x.Bandwidth()
		cx := x0 + bw/2
		q := g.Summary

		sc.Add(scene.Group{
			Class: "box-group",
			Children: []scene.Node{
				scene.Line{
					X1: cx, Y1: y.Map(q.Min),
					X2: cx, Y2: y.Map(q.Max),
					Stroke:      s.Stroke,
					StrokeWidth: s.StrokeWidth,
					Class:       "whisker",
				},
				scene.Rect{
					X:           x0,
					Y:           y.Map(q.Q3),
					Width:       bw,
					Height:      y.Map(q.Q1) - y.Map(q.Q3),
					Fill:        fill.Color(g.Key),
					Stroke:      s.Stroke,
					StrokeWidth: 1,
					Class:       "box",
				},
				scene.Line{
					X1: x0, Y1: y.Map(q.Median),
					X2: x0 + bw, Y2: y.Map(q.Median),
					Stroke:      s.Stroke,
					StrokeWidth: s.StrokeWidth,
					Class:       "median",
				},
			},
		})
	}
	return sc, nil
}

// plotScales builds the categorical x scale over the plot width and the
// linear y scale from zero to the largest value.
func plotScales(s Spec, t *dataset.Table) (*scale.Band, scale.Linear) {
	x := scale.NewBand(t.Distinct(s.Category), s.Margin.Left, s.Width-s.Margin.Right,
		scale.WithPadding(s.Padding))
	y := valueScale(s, t)
	return x, y
}

// valueScale maps [0, max] onto the plot height. Without any numeric value
// the domain is undefined and every position comes out NaN.
func valueScale(s Spec, t *dataset.Table) scale.Linear {
	hi, ok := t.Max(s.Value)
	if !ok {
		hi = math.NaN()
	}
	return scale.NewLinear(0, hi, s.Height-s.Margin.Bottom, s.Margin.Top)
}

func newScene(s Spec) *scene.Scene {
	return &scene.Scene{
		ID:         s.Name,
		Width:      s.Width,
		Height:     s.Height,
		Background: s.Background,
	}
}
