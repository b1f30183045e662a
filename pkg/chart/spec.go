package chart

import (
	"fmt"
	"strings"

	apperr "github.com/matzehuels/chartsmith/pkg/errors"
)

// Kind selects which chart a [Spec] describes.
type Kind string

const (
	KindBoxplot  Kind = "boxplot"
	KindBarplot  Kind = "barplot"
	KindLineplot Kind = "lineplot"
)

// Kinds lists every supported chart kind.
var Kinds = []Kind{KindBoxplot, KindBarplot, KindLineplot}

// ParseKind parses a chart kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", apperr.New(apperr.ErrCodeInvalidChart, "unknown chart kind %q (want boxplot, barplot or lineplot)", s)
}

// Margin is the space between the SVG edge and the plot area.
type Margin struct {
	Top    float64 `toml:"top" json:"top"`
	Right  float64 `toml:"right" json:"right"`
	Bottom float64 `toml:"bottom" json:"bottom"`
	Left   float64 `toml:"left" json:"left"`
}

// Label is an axis title. X and Y are relative to the axis group.
type Label struct {
	Text   string  `toml:"text" json:"text"`
	X      float64 `toml:"x,omitempty" json:"x,omitempty"`
	Y      float64 `toml:"y,omitempty" json:"y,omitempty"`
	Color  string  `toml:"color,omitempty" json:"color,omitempty"`
	Anchor string  `toml:"anchor,omitempty" json:"anchor,omitempty"`
}

// Axis configures one chart axis.
type Axis struct {
	Label Label `toml:"label" json:"label"`
	// Offset shifts the axis away from the plot area edge, in pixels.
	Offset     float64 `toml:"offset,omitempty" json:"offset,omitempty"`
	TickRotate float64 `toml:"tick_rotate,omitempty" json:"tick_rotate,omitempty"`
	Ticks      int     `toml:"ticks,omitempty" json:"ticks,omitempty"`
}

// Spec fully describes one chart: where its data comes from, which columns
// it reads and how it is drawn. Zero-valued fields take the defaults of the
// chart's kind, see [Spec.WithDefaults].
type Spec struct {
	Name   string `toml:"name" json:"name"`
	Kind   Kind   `toml:"kind" json:"kind"`
	Title  string `toml:"title,omitempty" json:"title,omitempty"`
	Source string `toml:"source" json:"source"`

	Category string `toml:"category,omitempty" json:"category,omitempty"`
	Series   string `toml:"series,omitempty" json:"series,omitempty"`
	Value    string `toml:"value,omitempty" json:"value,omitempty"`

	Width        float64  `toml:"width,omitempty" json:"width,omitempty"`
	Height       float64  `toml:"height,omitempty" json:"height,omitempty"`
	Margin       Margin   `toml:"margin" json:"margin"`
	Padding      float64  `toml:"padding,omitempty" json:"padding,omitempty"`
	InnerPadding float64  `toml:"inner_padding,omitempty" json:"inner_padding,omitempty"`
	Palette      []string `toml:"palette,omitempty" json:"palette,omitempty"`
	Stroke       string   `toml:"stroke,omitempty" json:"stroke,omitempty"`
	StrokeWidth  float64  `toml:"stroke_width,omitempty" json:"stroke_width,omitempty"`
	Background   string   `toml:"background,omitempty" json:"background,omitempty"`

	XAxis Axis `toml:"x_axis" json:"x_axis"`
	YAxis Axis `toml:"y_axis" json:"y_axis"`
}

// Columns returns the dataset columns the chart reads.
func (s Spec) Columns() []string {
	cols := []string{s.Category}
	if s.Kind == KindBarplot {
		cols = append(cols, s.Series)
	}
	return append(cols, s.Value)
}

// Validate checks that s is drawable. It expects defaults to be applied.
func (s Spec) Validate() error {
	if err := apperr.ValidateChartName(s.Name); err != nil {
		return err
	}
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	if strings.TrimSpace(s.Source) == "" {
		return invalid(s, "source is required")
	}
	if s.Category == "" || s.Value == "" {
		return invalid(s, "category and value columns are required")
	}
	if s.Kind == KindBarplot && s.Series == "" {
		return invalid(s, "barplot requires a series column")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return invalid(s, "size must be positive, got %gx%g", s.Width, s.Height)
	}
	m := s.Margin
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return invalid(s, "margins cannot be negative")
	}
	if s.Width-m.Left-m.Right <= 0 || s.Height-m.Top-m.Bottom <= 0 {
		return invalid(s, "margins leave no room for the plot area")
	}
	if s.Padding < 0 || s.Padding > 1 || s.InnerPadding < 0 || s.InnerPadding > 1 {
		return invalid(s, "padding must be within [0, 1]")
	}
	if s.StrokeWidth < 0 {
		return invalid(s, "stroke width cannot be negative")
	}
	return nil
}

func invalid(s Spec, format string, args ...any) error {
	return apperr.New(apperr.ErrCodeInvalidChart, "chart %q: %s", s.Name, fmt.Sprintf(format, args...))
}
