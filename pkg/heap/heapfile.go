package heap

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/heapdb/pkg/codec"
	"github.com/ssargent/heapdb/pkg/source"
)

// FileName returns the conventional heap file name for a page size
func FileName(pageSize int) string {
	return fmt.Sprintf("heap.%d", pageSize)
}

// LoadFile loads the CSV file at sourcePath into a new heap file at heapPath.
// Both files are closed on every return path; a close failure is reported
// only when the load itself succeeded.
func (l *Loader) LoadFile(sourcePath, heapPath string, bufferSize int) (result *LoadResult, err error) {
	src, err := source.OpenCSV(sourcePath)
	if err != nil {
		return &LoadResult{}, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "close source %s", sourcePath)
		}
	}()

	writer, err := NewPageWriter(PageWriterConfig{
		FilePath:   heapPath,
		PageSize:   l.config.PageSize,
		BufferSize: bufferSize,
	})
	if err != nil {
		return &LoadResult{}, err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return l.Load(src, writer)
}

// ScanFile scans the heap file at path for records whose composite key
// equals query
func (s *Scanner) ScanFile(path, query string, emit func(*codec.Record) error) (result *ScanResult, err error) {
	reader, err := NewPageReader(PageReaderConfig{FilePath: path, PageSize: s.config.PageSize})
	if err != nil {
		return &ScanResult{}, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "close heap file %s", path)
		}
	}()

	return s.Scan(reader.Iterator(), KeyEquals(query), emit)
}

// InspectFile verifies every page of the heap file at path and returns their
// statistics
func InspectFile(path string, pageSize int) (stats []PageStats, err error) {
	reader, err := NewPageReader(PageReaderConfig{FilePath: path, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "close heap file %s", path)
		}
	}()

	c := codec.NewRecordCodec()
	it := reader.Iterator()
	for it.Next() {
		ps, err := it.Page().Verify(c)
		if err != nil {
			return stats, errors.Wrapf(err, "page %d", len(stats))
		}
		ps.Index = len(stats)
		stats = append(stats, ps)
	}
	return stats, it.Err()
}
