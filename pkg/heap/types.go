package heap

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/heapdb/pkg/codec"
)

// PageHeaderSize is the size of the big-endian record count at the start of
// every page
const PageHeaderSize = 4

// PageWriterConfig holds configuration for the page writer
type PageWriterConfig struct {
	FilePath   string // Path to the heap file, truncated on open
	PageSize   int    // Size of every page in bytes
	BufferSize int    // Write buffer size (0 = one page)
}

// PageReaderConfig holds configuration for the page reader
type PageReaderConfig struct {
	FilePath string // Path to the heap file
	PageSize int    // Page size the file was written with
}

// LoaderConfig holds configuration for the page loader
type LoaderConfig struct {
	PageSize  int
	RowPolicy RowPolicy
	Logger    *slog.Logger // nil discards log output
	Metrics   *Metrics     // nil disables metrics
}

// ScannerConfig holds configuration for the page scanner
type ScannerConfig struct {
	PageSize int
	Logger   *slog.Logger
	Metrics  *Metrics
}

// RowPolicy decides what the loader does with a row it cannot store
type RowPolicy int

const (
	// RowPolicyAbort stops the load at the first bad row
	RowPolicyAbort RowPolicy = iota
	// RowPolicySkip logs the bad row, records it in LoadResult.Skipped and continues
	RowPolicySkip
)

func (p RowPolicy) String() string {
	switch p {
	case RowPolicyAbort:
		return "abort"
	case RowPolicySkip:
		return "skip"
	default:
		return fmt.Sprintf("RowPolicy(%d)", int(p))
	}
}

// ParseRowPolicy converts "abort" or "skip" into a RowPolicy
func ParseRowPolicy(s string) (RowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return RowPolicyAbort, nil
	case "skip":
		return RowPolicySkip, nil
	default:
		return RowPolicyAbort, errors.Newf("unknown row policy %q (want abort or skip)", s)
	}
}

// RowSource provides the data rows of a load, header already skipped
type RowSource interface {
	// Next returns the next row or io.EOF. A *codec.FormatError marks a
	// row-level problem; any other error aborts the load.
	Next() ([]string, error)
	// Line returns the source line of the row last returned by Next
	Line() int
}

// PageSink receives finished pages in order
type PageSink interface {
	WritePage(p *Page) (int64, error)
}

// PageIterator provides streaming access to pages
type PageIterator interface {
	Next() bool
	Page() *Page
	Err() error
	Close() error
}

// Predicate selects records during a scan
type Predicate func(r *codec.Record) bool

// KeyEquals matches records whose composite key equals query exactly
func KeyEquals(query string) Predicate {
	return func(r *codec.Record) bool {
		return r.Key == query
	}
}

// LoadResult summarizes a finished or aborted load
type LoadResult struct {
	RunID   ksuid.KSUID
	Rows    int           // Records written
	Pages   int           // Pages written
	Bytes   int64         // Bytes written
	Skipped []*RowError   // Rows dropped under RowPolicySkip
	Elapsed time.Duration // Wall time of the load
}

// ScanResult summarizes a scan
type ScanResult struct {
	RunID   ksuid.KSUID
	Count   int              // Matching records
	Matches []*codec.Record  // Matches in file order, only when no emit callback was given
	Pages   int              // Pages read
	Records int              // Records decoded
	Elapsed time.Duration
}

// PageStats describes one page of a heap file
type PageStats struct {
	Index        int  // 0-based page number
	Records      int  // Record count from the page header
	UsedBytes    int  // Header plus packed records
	FreeBytes    int  // Zero padding after the last record
	CleanPadding bool // Every padding byte is zero
}
