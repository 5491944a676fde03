package window

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "testfile.bin")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestManager_OpenAndSize(t *testing.T) {
	path := writeTestFile(t, []byte("hello world"))
	m := New()
	require.NoError(t, m.Open(path))
	defer m.Close()

	assert.True(t, m.IsOpen())
	assert.EqualValues(t, 11, m.Size())
}

func TestManager_OpenMissingFile(t *testing.T) {
	m := New()
	err := m.Open(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, hasKind(err, KindNotFound))
}

func TestManager_ReadBytesNotOpen(t *testing.T) {
	m := New()
	_, err := m.ReadBytes(0, 1)
	require.Error(t, err)
	assert.True(t, NotOpen(err))
}

func TestManager_ReadBytesOutOfBounds(t *testing.T) {
	path := writeTestFile(t, []byte("short"))
	m := New()
	require.NoError(t, m.Open(path))
	defer m.Close()

	_, err := m.ReadBytes(0, 100)
	require.Error(t, err)
	assert.True(t, OutOfBounds(err))
}

func TestManager_ReadBytesAcrossWindows(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789"), 2000) // 20000 bytes
	path := writeTestFile(t, content)

	m := New(WithWindowLength(4096), WithCacheCapacity(2))
	require.NoError(t, m.Open(path))
	defer m.Close()

	got, err := m.ReadBytes(4000, 500)
	require.NoError(t, err)
	assert.Equal(t, content[4000:4500], got)
}

func TestManager_LRUEviction(t *testing.T) {
	content := bytes.Repeat([]byte{0xAA}, 3*PageSize*4)
	path := writeTestFile(t, content)

	m := New(WithWindowLength(PageSize), WithCacheCapacity(2))
	require.NoError(t, m.Open(path))
	defer m.Close()

	_, err := m.GetWindow(0, PageSize)
	require.NoError(t, err)
	_, err = m.GetWindow(PageSize, PageSize)
	require.NoError(t, err)
	_, err = m.GetWindow(2*PageSize, PageSize)
	require.NoError(t, err)

	// Capacity 2: offset 0 should have been evicted, and the cache
	// should contain {PageSize, 2*PageSize} with 2*PageSize as MRU.
	assert.Equal(t, 2, m.cache.Len())
	offsets := m.cache.Offsets()
	assert.Equal(t, []int64{2 * PageSize, PageSize}, offsets)
	_, hit := m.cache.Get(0)
	assert.False(t, hit)
}

func TestManager_CloseIsIdempotent(t *testing.T) {
	path := writeTestFile(t, []byte("x"))
	m := New()
	require.NoError(t, m.Open(path))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.False(t, m.IsOpen())
}
