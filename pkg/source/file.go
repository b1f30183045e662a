package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/chartsmith/pkg/dataset"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
)

// File loads CSV files from the local filesystem.
type File struct {
	// BaseDir anchors relative paths. Relative paths may not escape it.
	BaseDir string
}

// NewFile returns a file loader rooted at baseDir.
func NewFile(baseDir string) *File {
	return &File{BaseDir: baseDir}
}

// Cacheable is false: re-reading a local file is cheaper than a cache lookup
// and always current.
func (f *File) Cacheable() bool { return false }

// Load reads and parses the CSV file at uri.
func (f *File) Load(ctx context.Context, uri string) (*dataset.Table, error) {
	path, err := f.Path(uri)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrap(apperr.ErrCodeSourceNotFound, err, "data file %s", uri)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeSourceNotFound, err, "open %s", uri)
	}
	defer file.Close()

	t, err := dataset.ReadCSV(file)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidSource, err, "parse %s", uri)
	}
	return t, nil
}

// Path returns the filesystem path uri refers to.
func (f *File) Path(uri string) (string, error) {
	path := strings.TrimPrefix(uri, "file://")
	if filepath.IsAbs(path) {
		return path, nil
	}
	if err := apperr.ValidateSourcePath(filepath.ToSlash(path)); err != nil {
		return "", err
	}
	return filepath.Join(f.BaseDir, path), nil
}
