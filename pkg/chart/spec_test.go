package chart

import (
	"testing"

	apperr "github.com/matzehuels/chartsmith/pkg/errors"
)

func TestDefaultsValidate(t *testing.T) {
	specs := Defaults()
	if len(specs) != 3 {
		t.Fatalf("Defaults() = %d specs, want 3", len(specs))
	}
	wantSize := map[Kind][2]float64{
		KindBoxplot:  {400, 400},
		KindBarplot:  {400, 400},
		KindLineplot: {500, 300},
	}
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			t.Errorf("%s: Validate() error: %v", s.Name, err)
		}
		if string(s.Kind) != s.Name {
			t.Errorf("default name %q does not match kind %q", s.Name, s.Kind)
		}
		if size := wantSize[s.Kind]; s.Width != size[0] || s.Height != size[1] {
			t.Errorf("%s size = %vx%v, want %vx%v", s.Name, s.Width, s.Height, size[0], size[1])
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"boxplot", KindBoxplot, false},
		{"BarPlot", KindBarplot, false},
		{" lineplot ", KindLineplot, false},
		{"pie", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	s := Spec{Name: "wide", Kind: KindBarplot, Width: 800, Source: "avg.csv"}.WithDefaults()

	if s.Height != 400 || s.Margin.Left != 30 || s.InnerPadding != 0.2 {
		t.Errorf("defaults not applied: %+v", s)
	}
	if s.Source != "avg.csv" || s.Name != "wide" {
		t.Errorf("explicit fields overwritten: %s %s", s.Name, s.Source)
	}
	if s.XAxis.Label.Text != "Platform" || s.XAxis.Label.X != 400 {
		t.Errorf("x label = %+v, want Platform centered at 400", s.XAxis.Label)
	}
	if s.XAxis.Offset != 10 || s.YAxis.Offset != -20 {
		t.Errorf("axis offsets = %v, %v; want 10, -20", s.XAxis.Offset, s.YAxis.Offset)
	}
	if len(s.Palette) != 3 {
		t.Errorf("palette = %v", s.Palette)
	}
}

func TestWithDefaultsKeepsLabelText(t *testing.T) {
	s := Spec{Kind: KindBoxplot, YAxis: Axis{Label: Label{Text: "Reactions"}}}.WithDefaults()
	l := s.YAxis.Label
	if l.Text != "Reactions" || l.X != 20 || l.Y != 30 || l.Color != "green" {
		t.Errorf("y label = %+v, want custom text at default position", l)
	}
}

func TestValidate(t *testing.T) {
	base, _ := DefaultFor(KindLineplot)

	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"no source", func(s *Spec) { s.Source = " " }},
		{"no value column", func(s *Spec) { s.Value = "" }},
		{"negative width", func(s *Spec) { s.Width = -1 }},
		{"margins wider than chart", func(s *Spec) { s.Margin.Left = 495 }},
		{"zero plot width", func(s *Spec) { s.Margin.Left = 490 }},
		{"zero plot height", func(s *Spec) { s.Margin.Bottom = 280 }},
		{"padding above one", func(s *Spec) { s.Padding = 1.5 }},
		{"negative stroke", func(s *Spec) { s.StrokeWidth = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			err := s.Validate()
			if !apperr.Is(err, apperr.ErrCodeInvalidChart) {
				t.Errorf("Validate() = %v, want INVALID_CHART", err)
			}
		})
	}

	narrow := base
	narrow.Margin.Left = 489
	if err := narrow.Validate(); err != nil {
		t.Errorf("one pixel of plot width should validate, got %v", err)
	}

	bar, _ := DefaultFor(KindBarplot)
	bar.Series = ""
	if err := bar.Validate(); err == nil {
		t.Error("barplot without series should fail validation")
	}
}
