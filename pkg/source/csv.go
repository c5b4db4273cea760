// Package source reads delimited observation rows for loading into a heap file.
package source

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/heapdb/pkg/codec"
)

// CSVSource yields the data rows of a CSV stream one at a time. The first
// line is treated as a header and skipped.
//
// Quotes are read leniently: a bare quote inside an unquoted field, as in
// Bourke St "Mall", is kept as part of the field text. Rows the CSV reader
// still rejects are reported as *codec.FormatError so the caller can skip
// them; other read errors are returned wrapped.
type CSVSource struct {
	reader *csv.Reader
	header []string
	line   int
}

// NewCSVSource reads the header from r and returns a source positioned on
// the first data row. An empty stream yields a source with no rows.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	s := &CSVSource{reader: reader}

	header, err := reader.Read()
	switch {
	case err == io.EOF:
		return s, nil
	case err != nil:
		var perr *csv.ParseError
		if !errors.As(err, &perr) {
			return nil, errors.Wrap(err, "read header")
		}
		// A garbled header is still a header.
		s.line = perr.StartLine
		return s, nil
	}

	s.header = header
	s.line, _ = reader.FieldPos(0)
	return s, nil
}

// Header returns the skipped header row, or nil if the stream was empty
func (s *CSVSource) Header() []string {
	return s.header
}

// Next returns the next data row. It returns io.EOF when the stream is
// exhausted.
func (s *CSVSource) Next() ([]string, error) {
	fields, err := s.reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, s.rowError(err)
	}

	s.line, _ = s.reader.FieldPos(0)
	return fields, nil
}

// rowError classifies a read failure: CSV syntax errors become row-level
// format errors at the offending line
func (s *CSVSource) rowError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		s.line = perr.StartLine
		return &codec.FormatError{Field: "row", Offset: -1, Err: perr.Err}
	}
	return errors.Wrap(err, "read row")
}

// Line returns the 1-based line number of the row last returned by Next
func (s *CSVSource) Line() int {
	return s.line
}

// CSVFile is a CSVSource that owns its underlying file
type CSVFile struct {
	*CSVSource
	file *os.File
}

// OpenCSV opens path and reads its header
func OpenCSV(path string) (*CSVFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open source %s", path)
	}

	src, err := NewCSVSource(file)
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "open source %s", path)
	}

	return &CSVFile{CSVSource: src, file: file}, nil
}

// Close closes the underlying file
func (f *CSVFile) Close() error {
	return f.file.Close()
}
