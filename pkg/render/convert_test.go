package render

import (
	"context"
	"testing"

	apperr "github.com/matzehuels/chartsmith/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestMissingConverter(t *testing.T) {
	old := Converter
	Converter = "chartsmith-no-such-converter"
	defer func() { Converter = old }()

	if ConverterAvailable() {
		t.Fatal("ConverterAvailable() = true for a missing binary")
	}
	if _, err := ToPDF(context.Background(), []byte(tinySVG)); !apperr.Is(err, apperr.ErrCodeUnsupported) {
		t.Errorf("ToPDF() = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPNG(context.Background(), []byte(tinySVG), 2); !apperr.Is(err, apperr.ErrCodeUnsupported) {
		t.Errorf("ToPNG() = %v, want UNSUPPORTED", err)
	}
}

func TestToPNGRejectsBadScale(t *testing.T) {
	if _, err := ToPNG(context.Background(), []byte(tinySVG), 0); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("ToPNG(scale 0) = %v, want INVALID_INPUT", err)
	}
}

func TestConvert(t *testing.T) {
	if !ConverterAvailable() {
		t.Skip(Converter + " not installed")
	}
	png, err := ToPNG(context.Background(), []byte(tinySVG), 1)
	if err != nil {
		t.Fatalf("ToPNG() error: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("ToPNG() did not return a PNG")
	}
	pdf, err := ToPDF(context.Background(), []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Errorf("ToPDF() did not return a PDF")
	}
}
