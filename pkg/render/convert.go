package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	apperr "github.com/matzehuels/chartsmith/pkg/errors"
)

// Converter is the external binary used for raster and PDF output.
var Converter = "rsvg-convert"

// ToPDF converts SVG bytes to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG. A scale of 2.0 doubles the pixel size.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "png scale must be positive, got %g", scale)
	}
	return convert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// ConverterAvailable reports whether PNG and PDF output can be produced.
func ConverterAvailable() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !ConverterAvailable() {
		return nil, apperr.New(apperr.ErrCodeUnsupported,
			"%s output requires %s (brew install librsvg, apt install librsvg2-bin)", format, Converter)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, Converter, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, apperr.Wrap(apperr.ErrCodeTimeout, ctx.Err(), "%s conversion", format)
		}
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "%s: %s", Converter, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
