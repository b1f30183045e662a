package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel errors for table decoding and lookups.
var (
	// ErrNoHeader is returned when the input has no header row.
	ErrNoHeader = errors.New("csv: missing header row")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")
)

// ReadCSV decodes a header row followed by data rows.
// Rows may be shorter than the header; absent trailing fields read as empty
// text, which coerces to 0. A leading UTF-8 byte order mark is dropped.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := New(header...)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(row) == 1 && row[0] == "" {
			continue
		}
		t.Append(row...)
	}
	return t, nil
}

// WriteCSV encodes t as a header row followed by one row per record.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	row := make([]string, len(t.Columns))
	for _, rec := range t.Records {
		for i, col := range t.Columns {
			row[i] = rec[col]
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
