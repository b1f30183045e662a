package chart

import (
	"github.com/matzehuels/chartsmith/pkg/dataset"
	"github.com/matzehuels/chartsmith/pkg/scene"
)

// lineplot draws one natural spline through every record in dataset order,
// each point at the center of its category band.
func lineplot(s Spec, t *dataset.Table) (*scene.Scene, error) {
	x, y := plotScales(s, t)

	sc := newScene(s)
	sc.Add(
		bottomAxis(x, s.Height-s.Margin.Bottom+s.XAxis.Offset, s.XAxis),
		leftAxis(y, s.Margin.Left+s.YAxis.Offset, s.YAxis),
	)

	pts := make([]Point, 0, t.Len())
	for i := range t.Records {
		pts = append(pts, Point{
			X: x.Center(t.Text(i, s.Category)),
			Y: y.Map(t.Number(i, s.Value)),
		})
	}
	sc.Add(scene.Path{
		D:           NaturalCurve(pts),
		Fill:        "none",
		Stroke:      s.Stroke,
		StrokeWidth: s.StrokeWidth,
		Class:       "line",
	})
	return sc, nil
}
