package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Record is a single row keyed by column name.
type Record map[string]string

// Table is an ordered collection of records sharing one header.
type Table struct {
	Columns []string
	Records []Record
}

// Group is the set of record indices that share one categorical value.
type Group struct {
	Key     string
	Indices []int
}

// New creates a table with the given header and no rows.
func New(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Append adds a row. Values are matched to columns by position; missing
// trailing values are stored as empty text and extra values are dropped.
func (t *Table) Append(values ...string) {
	rec := make(Record, len(t.Columns))
	for i, col := range t.Columns {
		rec[col] = ""
		if i < len(values) {
			rec[col] = values[i]
		}
	}
	t.Records = append(t.Records, rec)
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasColumn reports whether name is part of the header.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// RequireColumns returns an error naming the first column missing from the header.
func (t *Table) RequireColumns(names ...string) error {
	for _, n := range names {
		if n == "" {
			continue
		}
		if !t.HasColumn(n) {
			return fmt.Errorf("%w: %q (have %s)", ErrMissingColumn, n, strings.Join(t.Columns, ", "))
		}
	}
	return nil
}

// Text returns the raw text of field in record i.
func (t *Table) Text(i int, field string) string {
	return t.Records[i][field]
}

// Number returns field of record i coerced to a float64.
// Empty text (including a short row's absent field) is 0; unparsable text
// and columns missing from the header are NaN.
func (t *Table) Number(i int, field string) float64 {
	raw, ok := t.Records[i][field]
	if !ok {
		return math.NaN()
	}
	return ParseNumber(raw)
}

// ParseNumber coerces text to a number the way the chart inputs expect.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Strings returns field for every record, in record order.
func (t *Table) Strings(field string) []string {
	out := make([]string, len(t.Records))
	for i := range t.Records {
		out[i] = t.Text(i, field)
	}
	return out
}

// Numbers returns field coerced to float64 for every record, in record order.
func (t *Table) Numbers(field string) []float64 {
	out := make([]float64, len(t.Records))
	for i := range t.Records {
		out[i] = t.Number(i, field)
	}
	return out
}

// Distinct returns the unique values of field in first-seen order.
func (t *Table) Distinct(field string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range t.Records {
		v := rec[field]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// GroupBy partitions record indices by the value of field.
// Groups appear in first-seen order; indices within a group keep record order.
func (t *Table) GroupBy(field string) []Group {
	pos := make(map[string]int)
	var groups []Group
	for i, rec := range t.Records {
		k := rec[field]
		g, ok := pos[k]
		if !ok {
			g = len(groups)
			pos[k] = g
			groups = append(groups, Group{Key: k})
		}
		groups[g].Indices = append(groups[g].Indices, i)
	}
	return groups
}

// Max returns the largest numeric value of field, ignoring NaN.
// ok is false when no record holds a number.
func (t *Table) Max(field string) (max float64, ok bool) {
	for i := range t.Records {
		v := t.Number(i, field)
		if math.IsNaN(v) {
			continue
		}
		if !ok || v > max {
			max, ok = v, true
		}
	}
	return max, ok
}

// Min returns the smallest numeric value of field, ignoring NaN.
func (t *Table) Min(field string) (min float64, ok bool) {
	for i := range t.Records {
		v := t.Number(i, field)
		if math.IsNaN(v) {
			continue
		}
		if !ok || v < min {
			min, ok = v, true
		}
	}
	return min, ok
}

// Fingerprint returns a SHA-256 over the canonical CSV form of the table.
// Two tables with the same header and rows share a fingerprint regardless of
// where they were loaded from.
func (t *Table) Fingerprint() string {
	var b strings.Builder
	_ = WriteCSV(&b, t)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
