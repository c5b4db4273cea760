package heap

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrPartialPage     = errors.New("heap file length is not a multiple of the page size")
	ErrCorruptPage     = errors.New("page corruption detected")
	ErrPageFull        = errors.New("record does not fit in the current page")
)

// RecordTooLargeError reports a record that cannot fit in an empty page
type RecordTooLargeError struct {
	Size     int // Encoded record size
	Capacity int // Bytes available for records in one page
}

func (e *RecordTooLargeError) Error() string {
	return fmt.Sprintf("record of %d bytes exceeds page capacity of %d bytes", e.Size, e.Capacity)
}

// RowError ties a row-level failure to its source line
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func checkPageSize(size int) error {
	if size <= PageHeaderSize {
		return errors.Wrapf(ErrInvalidPageSize, "page size %d must exceed the %d byte header", size, PageHeaderSize)
	}
	if int64(size) > int64(^uint32(0)) {
		return errors.Wrapf(ErrInvalidPageSize, "page size %d exceeds 4GiB", size)
	}
	return nil
}
