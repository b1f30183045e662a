// Package dataset holds the tabular records that feed every chart.
//
// # Overview
//
// A [Table] is a header row plus a list of [Record] values. Fields are kept as
// the raw text they arrived with; numeric interpretation happens at the point
// of use through [Table.Number], which mirrors loose numeric coercion:
//
//   - surrounding whitespace is ignored
//   - empty text is 0
//   - anything unparsable, or a missing column, is NaN
//
// NaN values are not reported as errors. They flow into scales and geometry,
// and aggregations such as [Table.Max] skip them.
//
// # Ordering
//
// [Table.Distinct] and [Table.GroupBy] return categories in first-seen order.
// Chart axes, legends and color assignments all rely on this order, so it is
// part of the package contract rather than an artifact of map iteration.
//
// # Usage
//
//	t, err := dataset.ReadCSV(f)
//	if err != nil {
//	    return err
//	}
//	platforms := t.Distinct("Platform")
//	top, ok := t.Max("Likes")
package dataset
