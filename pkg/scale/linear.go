package scale

import (
	"math"
	"strconv"

	"github.com/aclements/go-moremath/scale"
	"github.com/dustin/go-humanize"
)

// DefaultTicks is the target number of axis ticks.
const DefaultTicks = 10

// Linear maps a continuous domain [d0, d1] onto a continuous range [r0, r1].
type Linear struct {
	d0, d1 float64
	r0, r1 float64
	unit   scale.Linear
}

// NewLinear builds a linear scale. The range may be inverted (r0 > r1).
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{
		d0:   d0,
		d1:   d1,
		r0:   r0,
		r1:   r1,
		unit: scale.Linear{Min: d0, Max: d1},
	}
}

// Map returns the range position of x. A degenerate domain maps every value
// to the middle of the range; NaN maps to NaN.
func (l Linear) Map(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if l.d0 == l.d1 {
		return (l.r0 + l.r1) / 2
	}
	return l.r0 + (l.r1-l.r0)*l.unit.Map(x)
}

// Domain returns the configured domain.
func (l Linear) Domain() (d0, d1 float64) { return l.d0, l.d1 }

// Range returns the configured range.
func (l Linear) Range() (r0, r1 float64) { return l.r0, l.r1 }

// Ticks returns at most n round tick values inside the domain, ascending.
func (l Linear) Ticks(n int) []float64 {
	if n <= 0 {
		n = DefaultTicks
	}
	lo, hi := math.Min(l.d0, l.d1), math.Max(l.d0, l.d1)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if lo == hi {
		return []float64{lo}
	}

	major, _ := scale.Linear{Min: lo, Max: hi}.Ticks(scale.TickOptions{Max: n})
	out := make([]float64, 0, len(major))
	tol := (hi - lo) * 1e-9
	for _, t := range major {
		t = cleanFloat(t)
		if t < lo-tol || t > hi+tol {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TickFormat renders a tick value with thousands separators, e.g. "1,500".
func TickFormat(v float64) string {
	return humanize.Commaf(cleanFloat(v))
}

// cleanFloat drops accumulated binary noise such as 0.30000000000000004.
func cleanFloat(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		return v
	}
	return r
}
