package heap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssargent/heapdb/pkg/codec"
)

const csvHeader = "ID,Date_Time,Year,Month,Mdate,Day,Time,Sensor_ID,Sensor_Name,Hourly_Counts"

// testRow builds a well-formed source row for 1 November 2019, 17:00
func testRow(id, sensorID int, name string) []string {
	return []string{
		strconv.Itoa(id),
		"11/01/2019 05:00:00 PM",
		"2019",
		"November",
		"1",
		"Friday",
		"17",
		strconv.Itoa(sensorID),
		name,
		strconv.Itoa(id * 10),
	}
}

func testKey(sensorID int) string {
	return fmt.Sprintf("11/01/2019 05:00:00 PM_%d", sensorID)
}

func encodedSize(t *testing.T, row []string) int {
	t.Helper()
	b, err := codec.NewRecordCodec().EncodeFields(row)
	require.NoError(t, err)
	return len(b)
}

// sliceSource is an in-memory RowSource; line numbers start at 2 as if a
// header occupied line 1
type sliceSource struct {
	rows [][]string
	errs map[int]error // row index -> error returned instead of the row
	pos  int
	line int
}

func newSliceSource(rows ...[]string) *sliceSource {
	return &sliceSource{rows: rows, errs: map[int]error{}, line: 1}
}

func (s *sliceSource) Next() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	i := s.pos
	s.pos++
	s.line++
	if err, ok := s.errs[i]; ok {
		return nil, err
	}
	return s.rows[i], nil
}

func (s *sliceSource) Line() int {
	return s.line
}

// memorySink collects pages in memory
type memorySink struct {
	pages []*Page
	err   error
}

func (m *memorySink) WritePage(p *Page) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var offset int64
	for _, existing := range m.pages {
		offset += int64(existing.Size())
	}
	m.pages = append(m.pages, p)
	return offset, nil
}

// writeCSV writes rows under the standard header into dir/source.csv
func writeCSV(t *testing.T, dir string, rows ...[]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(csvHeader + "\n")
	for _, r := range rows {
		b.WriteString(strings.Join(r, ",") + "\n")
	}
	path := filepath.Join(dir, "source.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0600))
	return path
}

func newTestLoader(t *testing.T, pageSize int, policy RowPolicy) *Loader {
	t.Helper()
	l, err := NewLoader(LoaderConfig{PageSize: pageSize, RowPolicy: policy})
	require.NoError(t, err)
	return l
}

func newTestScanner(t *testing.T, pageSize int) *Scanner {
	t.Helper()
	s, err := NewScanner(ScannerConfig{PageSize: pageSize})
	require.NoError(t, err)
	return s
}

// sliceIterator iterates over in-memory pages
type sliceIterator struct {
	pages []*Page
	pos   int
}

func (it *sliceIterator) Next() bool {
	if it.pos >= len(it.pages) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) Page() *Page  { return it.pages[it.pos-1] }
func (it *sliceIterator) Err() error   { return nil }
func (it *sliceIterator) Close() error { return nil }
