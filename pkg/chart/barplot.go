package chart

import (
	"github.com/matzehuels/chartsmith/pkg/dataset"
	"github.com/matzehuels/chartsmith/pkg/scale"
	"github.com/matzehuels/chartsmith/pkg/scene"
)

const (
	legendRow    = 20
	legendSwatch = 20
	legendInset  = 70
)

// barplot draws grouped bars: an outer band per category, split by an inner
// band per series, one bar per record colored by series.
func barplot(s Spec, t *dataset.Table) (*scene.Scene, error) {
	x0, y := plotScales(s, t)
	series := t.Distinct(s.Series)
	x1 := scale.NewBand(series, 0, x0.Bandwidth(), scale.WithPadding(s.InnerPadding))
	color := scale.NewOrdinal(series, s.Palette)

	sc := newScene(s)
	sc.Add(
		bottomAxis(x0, s.Height-s.Margin.Bottom+s.XAxis.Offset, s.XAxis),
		leftAxis(y, s.Margin.Left+s.YAxis.Offset, s.YAxis),
	)

	base := y.Map(0)
	for _, g := range t.GroupBy(s.Category) {
		bars := scene.Group{Class: "bar-group", Transform: translate(x0.Map(g.Key), 0)}
		for _, i := range g.Indices {
			ser := t.Text(i, s.Series)
			v := t.Number(i, s.Value)
			bars.Children = append(bars.Children, scene.Rect{
				X:      x1.Map(ser),
				Y:      y.Map(v),
				Width:  x1.Bandwidth(),
				Height: base - y.Map(v),
				Fill:   color.Color(ser),
				Class:  "bar",
			})
		}
		sc.Add(bars)
	}

	sc.Add(legend(color, s.Width-legendInset, s.Margin.Top-20))
	return sc, nil
}

// legend lists one swatch and label per series, top to bottom.
func legend(color *scale.Ordinal, x, y float64) scene.Group {
	g := scene.Group{Class: "legend", Transform: translate(x, y)}
	for i, ser := range color.Domain() {
		row := float64(i * legendRow)
		g.Children = append(g.Children,
			scene.Rect{
				Y:      row + 5,
				Width:  legendSwatch,
				Height: legendSwatch,
				Fill:   color.Color(ser),
				Class:  "legend-swatch",
			},
			scene.Text{
				X:        legendSwatch + 5,
				Y:        row + 12,
				Baseline: "middle",
				FontSize: axisFontSize,
				Content:  ser,
				Class:    "legend-label",
			},
		)
	}
	return g
}
