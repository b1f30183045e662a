// Package scale maps data values to pixel positions and colors.
//
// # Overview
//
// Three scale kinds cover every chart:
//
//   - [Band]: categorical values to evenly spaced, padded intervals
//   - [Linear]: continuous values to a continuous pixel range
//   - [Ordinal]: categorical values to colors from a fixed palette
//
// Scales are built once from a full dataset and never change afterwards, so a
// value always maps to the same position or color within one render.
//
// # Band geometry
//
// A band scale over n categories splits the range into n bands of equal
// [Band.Bandwidth]. Inner padding is a fraction of the step placed between
// neighbouring bands; outer padding is a fraction of the step placed before
// the first and after the last band. Align distributes the leftover outer
// space, 0.5 centering the bands. With both paddings set to p:
//
//	step      = (hi - lo) / (n - p + 2p)
//	bandwidth = step * (1 - p)
//
// # Linear ranges
//
// SVG y grows downward, so a y scale is built with its range inverted:
//
//	y := scale.NewLinear(0, max, height-margin.Bottom, margin.Top)
//
// Values outside the domain extrapolate; they are not clamped.
package scale
