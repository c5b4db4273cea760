package heap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPage(t *testing.T, size int, rows ...[]string) *Page {
	t.Helper()
	b, err := NewPageBuilder(size)
	require.NoError(t, err)
	for _, r := range rows {
		enc := mustEncode(t, r)
		require.NoError(t, b.Append(enc))
	}
	return b.Build()
}

func TestNewPageWriter(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "heap.256")

	writer, err := NewPageWriter(PageWriterConfig{FilePath: filePath, PageSize: 256})
	require.NoError(t, err)
	assert.NotNil(t, writer)

	assert.FileExists(t, filePath)
	assert.Equal(t, int64(0), writer.Size())
	assert.Equal(t, filePath, writer.Path())

	assert.NoError(t, writer.Close())
}

func TestNewPageWriter_DirectoryCreation(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "nested", "deep", "path")

	writer, err := NewPageWriter(PageWriterConfig{FilePath: filepath.Join(nestedDir, "heap.256"), PageSize: 256})
	require.NoError(t, err)

	assert.DirExists(t, nestedDir)
	assert.NoError(t, writer.Close())
}

func TestNewPageWriter_InvalidPath(t *testing.T) {
	// A regular file where a parent directory should be fails for any user.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	writer, err := NewPageWriter(PageWriterConfig{
		FilePath: filepath.Join(blocker, "sub", "heap.256"),
		PageSize: 256,
	})
	assert.Error(t, err)
	assert.Nil(t, writer)
}

func TestNewPageWriter_InvalidPageSize(t *testing.T) {
	writer, err := NewPageWriter(PageWriterConfig{FilePath: filepath.Join(t.TempDir(), "heap.2"), PageSize: 2})
	assert.True(t, errors.Is(err, ErrInvalidPageSize))
	assert.Nil(t, writer)
}

func TestPageWriter_WritePages(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "heap.256")

	writer, err := NewPageWriter(PageWriterConfig{FilePath: filePath, PageSize: 256, BufferSize: 4096})
	require.NoError(t, err)

	var offsets []int64
	for i := 1; i <= 3; i++ {
		off, err := writer.WritePage(buildPage(t, 256, testRow(i, i, "Sensor")))
		require.NoError(t, err)
		offsets = append(offsets, off)
	}

	assert.Equal(t, []int64{0, 256, 512}, offsets)
	assert.Equal(t, int64(768), writer.Size())
	assert.Equal(t, 3, writer.Pages())
	require.NoError(t, writer.Close())

	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Equal(t, int64(768), info.Size())
}

func TestPageWriter_RejectsWrongPageSize(t *testing.T) {
	writer, err := NewPageWriter(PageWriterConfig{FilePath: filepath.Join(t.TempDir(), "heap.256"), PageSize: 256})
	require.NoError(t, err)
	defer writer.Close()

	_, err = writer.WritePage(buildPage(t, 512, testRow(1, 1, "Sensor")))
	assert.True(t, errors.Is(err, ErrInvalidPageSize))
	assert.Equal(t, 0, writer.Pages())
}

func TestPageWriter_TruncatesExistingFile(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "heap.256")
	require.NoError(t, os.WriteFile(filePath, make([]byte, 1000), 0600))

	writer, err := NewPageWriter(PageWriterConfig{FilePath: filePath, PageSize: 256})
	require.NoError(t, err)
	_, err = writer.WritePage(buildPage(t, 256, testRow(1, 1, "Sensor")))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Equal(t, int64(256), info.Size())
}
