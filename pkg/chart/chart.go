// Package chart turns a dataset and a [Spec] into a scene.
//
// # Charts
//
// Three chart kinds are supported:
//
//   - [KindBoxplot]: five-number summary per category
//   - [KindBarplot]: grouped bars, one group per category, one bar per series
//   - [KindLineplot]: natural cubic spline across categories in row order
//
// All charts share the same frame: a categorical band axis along the bottom
// and a linear value axis from zero to the data maximum along the left.
//
// # Building
//
//	spec, _ := chart.DefaultFor(chart.KindBoxplot)
//	sc, err := chart.Build(spec, table)
//
// Build is pure: the same spec and table always yield the same scene. Malformed
// numbers in the table do not fail a build; they produce NaN coordinates in the
// affected primitives.
package chart

import (
	"errors"

	"github.com/matzehuels/chartsmith/pkg/dataset"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
	"github.com/matzehuels/chartsmith/pkg/scene"
	"github.com/matzehuels/chartsmith/pkg/stats"
)

// Build validates s and draws it from t.
func Build(s Spec, t *dataset.Table) (*scene.Scene, error) {
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := checkTable(s, t); err != nil {
		return nil, err
	}

	var (
		sc  *scene.Scene
		err error
	)
	switch s.Kind {
	case KindBoxplot:
		sc, err = boxplot(s, t)
	case KindBarplot:
		sc, err = barplot(s, t)
	case KindLineplot:
		sc, err = lineplot(s, t)
	}
	if err != nil {
		return nil, dataError(s, err)
	}
	return sc, nil
}

// Summaries computes the five-number summary of the value column per
// category, in first-seen category order.
func Summaries(s Spec, t *dataset.Table) ([]stats.Group, error) {
	s = s.WithDefaults()
	if err := checkTable(s, t); err != nil {
		return nil, err
	}
	groups, err := stats.Rollup(t, s.Category, s.Value)
	if err != nil {
		return nil, dataError(s, err)
	}
	return groups, nil
}

func checkTable(s Spec, t *dataset.Table) error {
	if t.Len() == 0 {
		return apperr.New(apperr.ErrCodeEmptyDataset, "chart %q: dataset has no rows", s.Name)
	}
	if err := t.RequireColumns(s.Columns()...); err != nil {
		return apperr.Wrap(apperr.ErrCodeMissingColumn, err, "chart %q", s.Name)
	}
	return nil
}

func dataError(s Spec, err error) error {
	if errors.Is(err, stats.ErrNoValues) {
		return apperr.Wrap(apperr.ErrCodeEmptyDataset, err, "chart %q", s.Name)
	}
	return apperr.Wrap(apperr.ErrCodeInternal, err, "chart %q", s.Name)
}
