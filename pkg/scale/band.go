package scale

import "math"

// BandOption configures a [Band] at construction time.
type BandOption func(*Band)

// WithPadding sets inner and outer padding to p.
func WithPadding(p float64) BandOption {
	return func(b *Band) {
		b.paddingInner = math.Min(1, p)
		b.paddingOuter = p
	}
}

// WithPaddingInner sets the fraction of a step left empty between bands.
func WithPaddingInner(p float64) BandOption {
	return func(b *Band) { b.paddingInner = math.Min(1, p) }
}

// WithPaddingOuter sets the fraction of a step left empty before the first
// and after the last band.
func WithPaddingOuter(p float64) BandOption {
	return func(b *Band) { b.paddingOuter = p }
}

// WithAlign sets how outer space is distributed: 0 flushes bands to the
// range start, 1 to the range end. Default 0.5.
func WithAlign(a float64) BandOption {
	return func(b *Band) { b.align = math.Max(0, math.Min(1, a)) }
}

// Band maps categories to contiguous, equally sized intervals of a range.
type Band struct {
	domain []string
	index  map[string]int
	r0, r1 float64

	paddingInner, paddingOuter, align float64

	step, bandwidth float64
	starts          []float64
}

// NewBand builds a band scale over domain spanning [r0, r1].
// Duplicate domain values are dropped, keeping first occurrences.
func NewBand(domain []string, r0, r1 float64, opts ...BandOption) *Band {
	b := &Band{
		index: make(map[string]int, len(domain)),
		r0:    r0,
		r1:    r1,
		align: 0.5,
	}
	for _, v := range domain {
		if _, ok := b.index[v]; ok {
			continue
		}
		b.index[v] = len(b.domain)
		b.domain = append(b.domain, v)
	}
	for _, opt := range opts {
		opt(b)
	}
	b.rescale()
	return b
}

func (b *Band) rescale() {
	n := float64(len(b.domain))
	reverse := b.r1 < b.r0
	start, stop := b.r0, b.r1
	if reverse {
		start, stop = b.r1, b.r0
	}

	b.step = (stop - start) / math.Max(1, n-b.paddingInner+b.paddingOuter*2)
	start += (stop - start - b.step*(n-b.paddingInner)) * b.align
	b.bandwidth = b.step * (1 - b.paddingInner)

	b.starts = make([]float64, len(b.domain))
	for i := range b.starts {
		b.starts[i] = start + b.step*float64(i)
	}
	if reverse {
		for i, j := 0, len(b.starts)-1; i < j; i, j = i+1, j-1 {
			b.starts[i], b.starts[j] = b.starts[j], b.starts[i]
		}
	}
}

// Map returns the start of the band for v, or NaN if v is not in the domain.
func (b *Band) Map(v string) float64 {
	i, ok := b.index[v]
	if !ok {
		return math.NaN()
	}
	return b.starts[i]
}

// Center returns the midpoint of the band for v, or NaN if v is unknown.
func (b *Band) Center(v string) float64 {
	return b.Map(v) + b.bandwidth/2
}

// Has reports whether v is part of the domain.
func (b *Band) Has(v string) bool {
	_, ok := b.index[v]
	return ok
}

// Bandwidth returns the width of a single band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 { return b.step }

// Domain returns the categories in band order.
func (b *Band) Domain() []string {
	out := make([]string, len(b.domain))
	copy(out, b.domain)
	return out
}

// Range returns the configured output range.
func (b *Band) Range() (r0, r1 float64) { return b.r0, b.r1 }
