package chart

// Defaults returns the three stock charts over the social media datasets.
func Defaults() []Spec {
	out := make([]Spec, 0, len(Kinds))
	for _, k := range Kinds {
		s, _ := DefaultFor(k)
		out = append(out, s)
	}
	return out
}

// DefaultFor returns the stock spec for a chart kind.
func DefaultFor(k Kind) (Spec, bool) {
	var s Spec
	switch k {
	case KindBoxplot:
		s = Spec{
			Name:        "boxplot",
			Kind:        KindBoxplot,
			Title:       "Likes by platform",
			Source:      "socialMedia.csv",
			Category:    "Platform",
			Value:       "Likes",
			Width:       400,
			Height:      400,
			Margin:      Margin{Top: 20, Right: 20, Bottom: 20, Left: 20},
			Padding:     0.5,
			Palette:     []string{"lightblue"},
			Stroke:      "black",
			StrokeWidth: 2,
		}
	case KindBarplot:
		s = Spec{
			Name:         "barplot",
			Kind:         KindBarplot,
			Title:        "Average likes by platform and post type",
			Source:       "socialMediaAvg.csv",
			Category:     "Platform",
			Series:       "PostType",
			Value:        "AvgLikes",
			Width:        400,
			Height:       400,
			Margin:       Margin{Top: 30, Right: 10, Bottom: 30, Left: 30},
			Padding:      0.1,
			InnerPadding: 0.2,
			Palette:      []string{"#1f77b4", "#ff7f0e", "#2ca02c"},
			XAxis:        Axis{Offset: 10},
			YAxis:        Axis{Offset: -20},
		}
	case KindLineplot:
		s = Spec{
			Name:        "lineplot",
			Kind:        KindLineplot,
			Title:       "Average likes per day",
			Source:      "socialMediaTime.csv",
			Category:    "Date",
			Value:       "AvgLikes",
			Width:       500,
			Height:      300,
			Margin:      Margin{Top: 20, Right: 10, Bottom: 90, Left: 30},
			Padding:     0.1,
			Stroke:      "blue",
			StrokeWidth: 3,
			XAxis:       Axis{TickRotate: -25},
		}
	default:
		return Spec{}, false
	}
	s.Background = "white"
	s.XAxis.Label, s.YAxis.Label = defaultLabels(s)
	return s, true
}

// defaultLabels positions the axis titles for the size and margins of s.
func defaultLabels(s Spec) (x, y Label) {
	switch s.Kind {
	case KindBoxplot:
		x = Label{Text: "Platform", X: s.Width - s.Margin.Left, Y: -20, Color: "blue"}
		y = Label{Text: "Likes", X: 20, Y: 30, Color: "green"}
	case KindBarplot:
		x = Label{Text: "Platform", X: s.Width / 2, Y: 35, Color: "black"}
		y = Label{Text: "Average Like", X: 40, Y: 20, Color: "black"}
	case KindLineplot:
		x = Label{Text: "Dates", X: s.Width / 2, Y: s.Margin.Bottom - 15, Color: "black", Anchor: "start"}
		y = Label{Text: "Average Likes", X: 0, Y: 10, Color: "black"}
	}
	return x, y
}

// WithDefaults returns a copy of s with zero-valued fields filled from the
// stock spec of its kind. Specs of unknown kind are returned unchanged.
func (s Spec) WithDefaults() Spec {
	d, ok := DefaultFor(s.Kind)
	if !ok {
		return s
	}
	if s.Name == "" {
		s.Name = d.Name
	}
	if s.Title == "" {
		s.Title = d.Title
	}
	if s.Source == "" {
		s.Source = d.Source
	}
	if s.Category == "" {
		s.Category = d.Category
	}
	if s.Series == "" {
		s.Series = d.Series
	}
	if s.Value == "" {
		s.Value = d.Value
	}
	if s.Width == 0 {
		s.Width = d.Width
	}
	if s.Height == 0 {
		s.Height = d.Height
	}
	if s.Margin == (Margin{}) {
		s.Margin = d.Margin
	}
	if s.Padding == 0 {
		s.Padding = d.Padding
	}
	if s.InnerPadding == 0 {
		s.InnerPadding = d.InnerPadding
	}
	if len(s.Palette) == 0 {
		s.Palette = d.Palette
	}
	if s.Stroke == "" {
		s.Stroke = d.Stroke
	}
	if s.StrokeWidth == 0 {
		s.StrokeWidth = d.StrokeWidth
	}
	if s.Background == "" {
		s.Background = d.Background
	}

	dx, dy := defaultLabels(s)
	s.XAxis = axisDefaults(s.XAxis, d.XAxis, dx)
	s.YAxis = axisDefaults(s.YAxis, d.YAxis, dy)
	return s
}

func axisDefaults(a, d Axis, label Label) Axis {
	if a.Offset == 0 {
		a.Offset = d.Offset
	}
	if a.TickRotate == 0 {
		a.TickRotate = d.TickRotate
	}
	if a.Ticks == 0 {
		a.Ticks = d.Ticks
	}
	switch {
	case a.Label == (Label{}):
		a.Label = label
	case a.Label.X == 0 && a.Label.Y == 0:
		a.Label.X, a.Label.Y = label.X, label.Y
		if a.Label.Anchor == "" {
			a.Label.Anchor = label.Anchor
		}
	}
	if a.Label.Color == "" {
		a.Label.Color = label.Color
	}
	return a
}
