// Package stats computes the summary statistics drawn by box plots.
//
// Quartiles use linear interpolation between closest ranks (method 7 in
// Hyndman and Fan): for p in (0, 1) and n sorted samples the rank is
// p*(n-1), and the result interpolates between the two neighbouring
// samples. This matches the quantile definition used by most plotting
// libraries, so summaries line up with reference output to the last digit.
package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/matzehuels/chartsmith/pkg/dataset"
)

// ErrNoValues is returned when a summary is requested over no finite values.
var ErrNoValues = errors.New("stats: no numeric values")

// FiveNumberSummary describes the spread of one group of values.
type FiveNumberSummary struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	IQR    float64 `json:"iqr"`
	N      int     `json:"n"`
}

// Group pairs a category with the summary of its values.
type Group struct {
	Key     string            `json:"key"`
	Summary FiveNumberSummary `json:"summary"`
}

// Quantile returns the p-quantile of sorted by linear interpolation.
// sorted must be ascending and free of NaN. p <= 0 or a single sample yields
// the minimum, p >= 1 yields the maximum. An empty slice or NaN p yields NaN.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	if p <= 0 || n < 2 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	i0 := int(math.Floor(rank))
	v0, v1 := sorted[i0], sorted[i0+1]
	return v0 + (v1-v0)*(rank-float64(i0))
}

// Summarize computes the five-number summary of values.
// NaN entries are skipped; the input slice is not modified.
func Summarize(values []float64) (FiveNumberSummary, error) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return FiveNumberSummary{}, ErrNoValues
	}

	s := stats.Sample{Xs: finite}
	s.Sort()
	lo, hi := s.Bounds()

	q1 := Quantile(s.Xs, 0.25)
	q3 := Quantile(s.Xs, 0.75)
	return FiveNumberSummary{
		Min:    lo,
		Q1:     q1,
		Median: Quantile(s.Xs, 0.5),
		Q3:     q3,
		Max:    hi,
		IQR:    q3 - q1,
		N:      len(s.Xs),
	}, nil
}

// Rollup groups t by key and summarizes the value column of each group.
// Groups keep first-seen order. A group whose values are all NaN fails the
// whole rollup since it cannot be drawn.
func Rollup(t *dataset.Table, key, value string) ([]Group, error) {
	if err := t.RequireColumns(key, value); err != nil {
		return nil, err
	}
	parts := t.GroupBy(key)
	out := make([]Group, 0, len(parts))
	for _, p := range parts {
		vals := make([]float64, len(p.Indices))
		for i, idx := range p.Indices {
			vals[i] = t.Number(idx, value)
		}
		sum, err := Summarize(vals)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", p.Key, err)
		}
		out = append(out, Group{Key: p.Key, Summary: sum})
	}
	return out, nil
}
