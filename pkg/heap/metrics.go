package heap

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for loads and scans. All methods are
// no-ops on a nil *Metrics.
type Metrics struct {
	rowsLoaded     prometheus.Counter
	rowsSkipped    prometheus.Counter
	pagesWritten   prometheus.Counter
	bytesWritten   prometheus.Counter
	pagesScanned   prometheus.Counter
	recordsScanned prometheus.Counter
	matches        prometheus.Counter

	operationDuration *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		rowsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "heapdb_rows_loaded_total",
			Help: "Total number of source rows stored as records",
		}),
		rowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "heapdb_rows_skipped_total",
			Help: "Total number of source rows dropped by the skip row policy",
		}),
		pagesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "heapdb_pages_written_total",
			Help: "Total number of heap pages written",
		}),
		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "heapdb_bytes_written_total",
			Help: "Total number of heap file bytes written",
		}),
		pagesScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "heapdb_pages_scanned_total",
			Help: "Total number of heap pages read by scans",
		}),
		recordsScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "heapdb_records_scanned_total",
			Help: "Total number of records decoded by scans",
		}),
		matches: factory.NewCounter(prometheus.CounterOpts{
			Name: "heapdb_scan_matches_total",
			Help: "Total number of records matching a scan predicate",
		}),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "heapdb_operation_duration_seconds",
				Help:    "Duration of load and scan operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
	}
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

func (m *Metrics) recordRow() {
	if m == nil {
		return
	}
	m.rowsLoaded.Inc()
}

func (m *Metrics) recordSkip() {
	if m == nil {
		return
	}
	m.rowsSkipped.Inc()
}

func (m *Metrics) recordPageWritten(size int) {
	if m == nil {
		return
	}
	m.pagesWritten.Inc()
	m.bytesWritten.Add(float64(size))
}

func (m *Metrics) recordPageScanned(records int) {
	if m == nil {
		return
	}
	m.pagesScanned.Inc()
	m.recordsScanned.Add(float64(records))
}

func (m *Metrics) recordMatch() {
	if m == nil {
		return
	}
	m.matches.Inc()
}

func (m *Metrics) recordOperation(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.operationDuration.WithLabelValues(operation, status).Observe(elapsed.Seconds())
}
