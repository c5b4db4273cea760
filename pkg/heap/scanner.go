package heap

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/heapdb/pkg/codec"
)

// Scanner reads pages and filters their records with a predicate
type Scanner struct {
	config  ScannerConfig
	codec   *codec.RecordCodec
	logger  *slog.Logger
	metrics *Metrics
}

// NewScanner creates a scanner with the given configuration
func NewScanner(config ScannerConfig) (*Scanner, error) {
	if err := checkPageSize(config.PageSize); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Scanner{
		config:  config,
		codec:   codec.NewRecordCodec(),
		logger:  logger,
		metrics: config.Metrics,
	}, nil
}

// Scan decodes every page from pages and passes each record accepted by
// pred to emit, in file order. With a nil emit the matches are collected in
// ScanResult.Matches instead. An error from emit stops the scan.
//
// Each page is decoded using the record count in its header.
func (s *Scanner) Scan(pages PageIterator, pred Predicate, emit func(*codec.Record) error) (*ScanResult, error) {
	start := time.Now()
	result := &ScanResult{RunID: ksuid.New()}
	logger := s.logger.With("run_id", result.RunID.String(), "page_size", s.config.PageSize)

	err := s.scan(pages, pred, emit, result)

	result.Elapsed = time.Since(start)
	s.metrics.recordOperation("scan", err, result.Elapsed)

	if err != nil {
		logger.Error("scan aborted", "pages", result.Pages, "matches", result.Count, "error", err)
		return result, err
	}

	logger.Info("scan complete",
		"pages", result.Pages,
		"records", result.Records,
		"matches", result.Count,
		"elapsed", result.Elapsed)
	return result, nil
}

func (s *Scanner) scan(pages PageIterator, pred Predicate, emit func(*codec.Record) error, result *ScanResult) error {
	for pages.Next() {
		page := pages.Page()
		if page.Size() != s.config.PageSize {
			return errors.Wrapf(ErrInvalidPageSize, "page %d is %d bytes, scanner expects %d",
				result.Pages, page.Size(), s.config.PageSize)
		}

		records, err := page.Records(s.codec)
		if err != nil {
			return errors.Wrapf(err, "page %d", result.Pages)
		}
		result.Pages++
		result.Records += len(records)
		s.metrics.recordPageScanned(len(records))

		for _, r := range records {
			if !pred(r) {
				continue
			}
			result.Count++
			s.metrics.recordMatch()
			if emit == nil {
				result.Matches = append(result.Matches, r)
				continue
			}
			if err := emit(r); err != nil {
				return err
			}
		}
	}

	return pages.Err()
}
