package chart

import (
	"strings"

	"github.com/matzehuels/chartsmith/pkg/scene"
)

// Point is a position in scene coordinates.
type Point struct{ X, Y float64 }

// NaturalCurve returns SVG path data for a natural cubic spline through pts:
// second derivative zero at both ends, C2 continuous in between. A single
// point yields a bare move, two points a straight segment.
func NaturalCurve(pts []Point) string {
	var b strings.Builder
	switch n := len(pts); {
	case n == 0:
		return ""
	case n == 1:
		moveTo(&b, pts[0])
		return b.String()
	case n == 2:
		moveTo(&b, pts[0])
		b.WriteString("L")
		writePoint(&b, pts[1])
		return b.String()
	}

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	ax, bx := controlPoints(xs)
	ay, by := controlPoints(ys)

	moveTo(&b, pts[0])
	for i := 1; i < len(pts); i++ {
		b.WriteString("C")
		writePoint(&b, Point{ax[i-1], ay[i-1]})
		b.WriteString(",")
		writePoint(&b, Point{bx[i-1], by[i-1]})
		b.WriteString(",")
		writePoint(&b, pts[i])
	}
	return b.String()
}

// controlPoints solves the tridiagonal system for the two Bézier control
// points of each of the len(x)-1 segments along one coordinate.
func controlPoints(x []float64) (a, b []float64) {
	n := len(x) - 1
	a = make([]float64, n)
	b = make([]float64, n)
	r := make([]float64, n)

	a[0], b[0], r[0] = 0, 2, x[0]+2*x[1]
	for i := 1; i < n-1; i++ {
		a[i], b[i], r[i] = 1, 4, 4*x[i]+2*x[i+1]
	}
	a[n-1], b[n-1], r[n-1] = 2, 7, 8*x[n-1]+x[n]

	for i := 1; i < n; i++ {
		m := a[i] / b[i-1]
		b[i] -= m
		r[i] -= m * r[i-1]
	}
	a[n-1] = r[n-1] / b[n-1]
	for i := n - 2; i >= 0; i-- {
		a[i] = (r[i] - a[i+1]) / b[i]
	}
	b[n-1] = (x[n] + a[n-1]) / 2
	for i := 0; i < n-1; i++ {
		b[i] = 2*x[i+1] - a[i+1]
	}
	return a, b
}

func moveTo(b *strings.Builder, p Point) {
	b.WriteString("M")
	writePoint(b, p)
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(scene.Num(p.X))
	b.WriteString(",")
	b.WriteString(scene.Num(p.Y))
}
