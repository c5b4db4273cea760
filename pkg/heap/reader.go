package heap

import (
	"bufio"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// PageReader provides sequential access to the pages of a heap file. It is
// not safe for concurrent use, and the file must not be written while it is
// being read.
type PageReader struct {
	file   *os.File
	reader *bufio.Reader
	config PageReaderConfig
	offset int64
	size   int64
}

// NewPageReader opens the heap file named in config. A file whose length is
// not a multiple of the page size is rejected with ErrPartialPage.
func NewPageReader(config PageReaderConfig) (*PageReader, error) {
	if err := checkPageSize(config.PageSize); err != nil {
		return nil, err
	}

	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open heap file %s", config.FilePath)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "stat heap file %s", config.FilePath)
	}

	if rem := stat.Size() % int64(config.PageSize); rem != 0 {
		file.Close()
		return nil, errors.Wrapf(ErrPartialPage, "%s is %d bytes, %d bytes past the last full page of %d",
			config.FilePath, stat.Size(), rem, config.PageSize)
	}

	return &PageReader{
		file:   file,
		reader: bufio.NewReaderSize(file, config.PageSize),
		config: config,
		size:   stat.Size(),
	}, nil
}

// ReadNext reads the next page. It returns io.EOF after the last page.
func (r *PageReader) ReadNext() (*Page, error) {
	buf := make([]byte, r.config.PageSize)
	n, err := io.ReadFull(r.reader, buf)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrPartialPage, "%d trailing bytes at offset %d", n, r.offset)
		}
		return nil, errors.Wrapf(err, "read page at offset %d", r.offset)
	}
	r.offset += int64(n)

	return NewPage(buf)
}

// Offset returns the current read offset
func (r *PageReader) Offset() int64 {
	return r.offset
}

// PageCount returns the number of pages in the file when it was opened
func (r *PageReader) PageCount() int {
	return int(r.size / int64(r.config.PageSize))
}

// Iterator returns a streaming iterator for pages
func (r *PageReader) Iterator() PageIterator {
	return &pageIterator{reader: r}
}

// Close closes the page reader
func (r *PageReader) Close() error {
	return r.file.Close()
}

// pageIterator implements PageIterator for streaming access
type pageIterator struct {
	reader *PageReader
	page   *Page
	err    error
}

func (it *pageIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.page, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *pageIterator) Page() *Page {
	return it.page
}

// Err returns the error that stopped iteration, or nil at a clean end of file
func (it *pageIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *pageIterator) Close() error {
	// Don't close the underlying reader as it's owned by the caller
	return nil
}
