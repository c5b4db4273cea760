package heap

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/heapdb/pkg/codec"
)

// Page is one fixed-size block of a heap file:
//
//	[RecordCount(4)][Record]...[Record][zero padding]
//
// A Page is immutable once built or read.
type Page struct {
	data []byte
}

// NewPage wraps raw page bytes. data must hold at least the page header.
func NewPage(data []byte) (*Page, error) {
	if len(data) < PageHeaderSize {
		return nil, errors.Wrapf(ErrCorruptPage, "page of %d bytes has no header", len(data))
	}
	return &Page{data: data}, nil
}

// Bytes returns the raw page bytes
func (p *Page) Bytes() []byte {
	return p.data
}

// Size returns the page size in bytes
func (p *Page) Size() int {
	return len(p.data)
}

// Count returns the record count stored in the page header
func (p *Page) Count() int {
	return int(binary.BigEndian.Uint32(p.data[0:PageHeaderSize]))
}

// Records decodes exactly Count records. The tail after them is not read.
func (p *Page) Records(c *codec.RecordCodec) ([]*codec.Record, error) {
	records := make([]*codec.Record, 0, p.Count())
	err := p.each(c, func(r *codec.Record, _ int) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Verify decodes the page and checks that every byte after the last record
// is zero
func (p *Page) Verify(c *codec.RecordCodec) (PageStats, error) {
	end := PageHeaderSize
	err := p.each(c, func(_ *codec.Record, next int) error {
		end = next
		return nil
	})
	if err != nil {
		return PageStats{}, err
	}

	stats := PageStats{
		Records:      p.Count(),
		UsedBytes:    end,
		FreeBytes:    len(p.data) - end,
		CleanPadding: true,
	}
	for _, b := range p.data[end:] {
		if b != 0 {
			stats.CleanPadding = false
			break
		}
	}
	return stats, nil
}

// each decodes the page's records in order. fn receives each record and the
// offset just past it.
func (p *Page) each(c *codec.RecordCodec, fn func(r *codec.Record, next int) error) error {
	count := p.Count()
	maxRecords := (len(p.data) - PageHeaderSize) / codec.HeaderSize
	if count > maxRecords {
		return errors.Wrapf(ErrCorruptPage, "header claims %d records, page of %d bytes holds at most %d",
			count, len(p.data), maxRecords)
	}

	offset := PageHeaderSize
	for i := 0; i < count; i++ {
		r, n, err := c.Decode(p.data, offset)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "record %d of %d", i+1, count), ErrCorruptPage)
		}
		offset += n
		if err := fn(r, offset); err != nil {
			return err
		}
	}
	return nil
}

// PageBuilder packs encoded records into a page. Every built page gets its
// own freshly allocated buffer.
type PageBuilder struct {
	size   int
	buf    []byte
	cursor int
	count  uint32
}

// NewPageBuilder creates a builder for pages of size bytes
func NewPageBuilder(size int) (*PageBuilder, error) {
	if err := checkPageSize(size); err != nil {
		return nil, err
	}
	b := &PageBuilder{size: size}
	b.reset()
	return b, nil
}

func (b *PageBuilder) reset() {
	b.buf = make([]byte, b.size)
	b.cursor = PageHeaderSize
	b.count = 0
}

// Capacity returns the bytes available for records in an empty page
func (b *PageBuilder) Capacity() int {
	return b.size - PageHeaderSize
}

// Fits reports whether a record of n bytes fits after the current records
func (b *PageBuilder) Fits(n int) bool {
	return b.cursor+n <= b.size
}

// Append copies an encoded record into the page
func (b *PageBuilder) Append(record []byte) error {
	if !b.Fits(len(record)) {
		return errors.Wrapf(ErrPageFull, "%d bytes at offset %d of %d", len(record), b.cursor, b.size)
	}
	b.cursor += copy(b.buf[b.cursor:], record)
	b.count++
	return nil
}

// Len returns the number of records appended since the last Build
func (b *PageBuilder) Len() int {
	return int(b.count)
}

// Used returns the bytes in use, header included
func (b *PageBuilder) Used() int {
	return b.cursor
}

// Build writes the record count into the header and returns the finished
// page. The builder starts over on a new buffer.
func (b *PageBuilder) Build() *Page {
	binary.BigEndian.PutUint32(b.buf[0:PageHeaderSize], b.count)
	p := &Page{data: b.buf}
	b.reset()
	return p
}
