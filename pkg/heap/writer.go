package heap

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// PageWriter appends fixed-size pages to a heap file. It is not safe for
// concurrent use and assumes it is the only writer of the file.
type PageWriter struct {
	file   *os.File
	writer *bufio.Writer
	config PageWriterConfig
	offset int64 // Current write offset
	pages  int
}

// NewPageWriter creates (or truncates) the heap file named in config
func NewPageWriter(config PageWriterConfig) (*PageWriter, error) {
	if err := checkPageSize(config.PageSize); err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, errors.Wrapf(err, "create directory for %s", config.FilePath)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "open heap file %s", config.FilePath)
	}

	bufSize := config.BufferSize
	if bufSize < config.PageSize {
		bufSize = config.PageSize
	}

	return &PageWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, bufSize),
		config: config,
	}, nil
}

// WritePage appends a page and returns the offset it was written at
func (w *PageWriter) WritePage(p *Page) (int64, error) {
	if p.Size() != w.config.PageSize {
		return 0, errors.Wrapf(ErrInvalidPageSize, "page of %d bytes written to file with page size %d",
			p.Size(), w.config.PageSize)
	}

	n, err := w.writer.Write(p.Bytes())
	if err != nil {
		return 0, errors.Wrapf(err, "write page %d to %s", w.pages, w.config.FilePath)
	}

	pageOffset := w.offset
	w.offset += int64(n)
	w.pages++

	return pageOffset, nil
}

// Sync flushes buffered pages and fsyncs the file
func (w *PageWriter) Sync() error {
	if err := w.writer.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", w.config.FilePath)
	}
	return errors.Wrapf(w.file.Sync(), "sync %s", w.config.FilePath)
}

// Close syncs and closes the file. The file is closed even if the sync fails.
func (w *PageWriter) Close() error {
	if err := w.Sync(); err != nil {
		_ = w.file.Close()
		return err
	}
	return errors.Wrapf(w.file.Close(), "close %s", w.config.FilePath)
}

// Size returns the bytes written so far
func (w *PageWriter) Size() int64 {
	return w.offset
}

// Pages returns the number of pages written so far
func (w *PageWriter) Pages() int {
	return w.pages
}

// Path returns the file path
func (w *PageWriter) Path() string {
	return w.config.FilePath
}
