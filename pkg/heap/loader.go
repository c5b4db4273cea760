package heap

import (
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/heapdb/pkg/codec"
)

// Loader packs source rows into fixed-size pages
type Loader struct {
	config  LoaderConfig
	codec   *codec.RecordCodec
	logger  *slog.Logger
	metrics *Metrics
}

// NewLoader creates a loader with the given configuration
func NewLoader(config LoaderConfig) (*Loader, error) {
	if err := checkPageSize(config.PageSize); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Loader{
		config:  config,
		codec:   codec.NewRecordCodec(),
		logger:  logger,
		metrics: config.Metrics,
	}, nil
}

// Load encodes every row of src and writes the packed pages to sink, in
// source order. A nil error means every row was either stored or skipped
// under RowPolicySkip. The returned result is never nil and describes the
// work done up to the point of failure.
func (l *Loader) Load(src RowSource, sink PageSink) (*LoadResult, error) {
	start := time.Now()
	result := &LoadResult{RunID: ksuid.New()}
	logger := l.logger.With("run_id", result.RunID.String(), "page_size", l.config.PageSize)

	err := l.load(src, sink, result, logger)

	result.Elapsed = time.Since(start)
	l.metrics.recordOperation("load", err, result.Elapsed)

	if err != nil {
		logger.Error("load aborted", "rows", result.Rows, "pages", result.Pages, "error", err)
		return result, err
	}

	logger.Info("load complete",
		"rows", result.Rows,
		"pages", result.Pages,
		"skipped", len(result.Skipped),
		"elapsed", result.Elapsed)
	return result, nil
}

func (l *Loader) load(src RowSource, sink PageSink, result *LoadResult, logger *slog.Logger) error {
	builder, err := NewPageBuilder(l.config.PageSize)
	if err != nil {
		return err
	}

	flush := func() error {
		records := builder.Len()
		page := builder.Build()
		if _, err := sink.WritePage(page); err != nil {
			return err
		}
		result.Pages++
		result.Bytes += int64(page.Size())
		l.metrics.recordPageWritten(page.Size())
		logger.Debug("page saved", "page", result.Pages-1, "records", records)
		return nil
	}

	for {
		fields, err := src.Next()
		if err == io.EOF {
			break
		}

		var encoded []byte
		if err == nil {
			encoded, err = l.codec.EncodeFields(fields)
		}
		if err == nil && len(encoded) > builder.Capacity() {
			err = &RecordTooLargeError{Size: len(encoded), Capacity: builder.Capacity()}
		}
		if err != nil {
			if !isRowError(err) {
				return err
			}
			rowErr := &RowError{Line: src.Line(), Err: err}
			if l.config.RowPolicy != RowPolicySkip {
				return rowErr
			}
			logger.Warn("skipping row", "line", rowErr.Line, "error", err)
			result.Skipped = append(result.Skipped, rowErr)
			l.metrics.recordSkip()
			continue
		}

		if !builder.Fits(len(encoded)) {
			if err := flush(); err != nil {
				return err
			}
		}
		if err := builder.Append(encoded); err != nil {
			return err
		}
		result.Rows++
		l.metrics.recordRow()
	}

	if builder.Len() > 0 {
		return flush()
	}
	return nil
}

// isRowError reports whether err concerns a single row rather than the load
func isRowError(err error) bool {
	var fe *codec.FormatError
	var tooLarge *RecordTooLargeError
	return errors.As(err, &fe) || errors.As(err, &tooLarge)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
