package errors

import (
	"strings"
	"testing"
)

func TestValidateChartName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "boxplot", false},
		{"valid with dash", "likes-by-day", false},
		{"valid with underscore", "likes_by_day", false},
		{"valid mixed case", "barPlot2", false},

		{"empty", "", true},
		{"too long", "a" + strings.Repeat("b", 64), true},
		{"starts with digit", "1chart", true},
		{"spaces", "my chart", true},
		{"slash", "charts/boxplot", true},
		{"dot", "box.plot", true},
		{"quote", `box"plot`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChartName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChartName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidChart) {
				t.Errorf("ValidateChartName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidChart)
			}
		})
	}
}

func TestValidateSourcePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid file", "socialMedia.csv", false},
		{"valid nested", "data/socialMedia.csv", false},
		{"dots in name", "social..media.csv", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret.csv", true},
		{"nested traversal", "data/../../secret.csv", true},
		{"backslash", "data\\file.csv", true},
		{"null byte", "file\x00.csv", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourcePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourcePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"table", "social_media", false},
		{"schema qualified", "public.social_media", false},

		{"empty", "", true},
		{"injection", "t; DROP TABLE x", true},
		{"quoted", `"t"`, true},
		{"three parts", "a.b.c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
