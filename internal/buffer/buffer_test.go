package buffer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansteyn/aquaedit/internal/patch"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenReadLine(t *testing.T) {
	path := writeTempFile(t, "hello\nworld\n")
	b := New(WithWindowLength(4096), WithCacheCapacity(2))

	require.NoError(t, b.Open(context.Background(), path, nil))
	defer b.Close()

	assert.Equal(t, 3, b.LineCount()) // "hello", "world", "" (trailing)
	assert.Equal(t, "hello", b.ReadLine(0))
	assert.Equal(t, "world", b.ReadLine(1))
	assert.Equal(t, "", b.ReadLine(99)) // out of range yields empty, not an error
}

func TestOpenReplacesPreviousDocument(t *testing.T) {
	first := writeTempFile(t, "first\n")
	second := writeTempFile(t, "second document\n")

	b := New()
	require.NoError(t, b.Open(context.Background(), first, nil))
	require.NoError(t, b.ApplyEdit(patch.NewInsert(0, ">> ")))
	assert.Equal(t, ">> first", b.ReadLine(0))

	require.NoError(t, b.Open(context.Background(), second, nil))
	defer b.Close()

	// the overlay and history from the previous document must not leak.
	assert.Equal(t, "second document", b.ReadLine(0))
	assert.False(t, b.CanUndo())
}

func TestApplyEditIsVisibleAndUndoable(t *testing.T) {
	path := writeTempFile(t, "hello world\n")
	b := New()
	require.NoError(t, b.Open(context.Background(), path, nil))
	defer b.Close()

	require.NoError(t, b.ApplyEdit(patch.NewReplace(6, 5, "there")))
	assert.Equal(t, "hello there", b.ReadLine(0))
	assert.True(t, b.CanUndo())

	_, ok := b.Undo()
	require.True(t, ok)
	assert.Equal(t, "hello world", b.ReadLine(0))
	assert.True(t, b.CanRedo())

	_, ok = b.Redo()
	require.True(t, ok)
	assert.Equal(t, "hello there", b.ReadLine(0))
}

func TestVisibleLinesIterator(t *testing.T) {
	path := writeTempFile(t, "a\nb\nc\nd\n")
	b := New()
	require.NoError(t, b.Open(context.Background(), path, nil))
	defer b.Close()

	var got []string
	for _, text := range b.VisibleLines(1, 2) {
		got = append(got, text)
	}
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestVisibleLinesIteratorStopsEarly(t *testing.T) {
	path := writeTempFile(t, "a\nb\nc\nd\n")
	b := New()
	require.NoError(t, b.Open(context.Background(), path, nil))
	defer b.Close()

	var got []string
	for _, text := range b.VisibleLines(0, 10) {
		got = append(got, text)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestClearEdits(t *testing.T) {
	path := writeTempFile(t, "hello\n")
	b := New()
	require.NoError(t, b.Open(context.Background(), path, nil))
	defer b.Close()

	require.NoError(t, b.ApplyEdit(patch.NewInsert(5, "!")))
	assert.Equal(t, "hello!", b.ReadLine(0))

	b.ClearEdits()
	assert.Equal(t, "hello", b.ReadLine(0))
	assert.False(t, b.CanUndo())
}

func TestSaveWritesComposedText(t *testing.T) {
	path := writeTempFile(t, "hello world\n")
	b := New()
	require.NoError(t, b.Open(context.Background(), path, nil))
	defer b.Close()

	require.NoError(t, b.ApplyEdit(patch.NewDelete(5, 6)))

	outPath := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, b.Save(outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestStatReportsOpenDocument(t *testing.T) {
	path := writeTempFile(t, "one\ntwo\nthree\n")
	b := New()
	require.NoError(t, b.Open(context.Background(), path, nil))
	defer b.Close()

	st := b.Stat()
	assert.Equal(t, path, st.Path)
	assert.Equal(t, 4, st.LineCount)
	assert.True(t, st.IsIndexed)
	assert.Equal(t, int64(14), st.Size)
}

func TestNotificationsOnOpenAndClose(t *testing.T) {
	path := writeTempFile(t, "hi\n")
	b := New()

	require.NoError(t, b.Open(context.Background(), path, nil))
	evt := <-b.Notifications()
	assert.Equal(t, EventOpened, evt.Kind)
	assert.Equal(t, path, evt.Path)

	require.NoError(t, b.Close())
	evt = <-b.Notifications()
	assert.Equal(t, EventClosed, evt.Kind)
}

func TestOpenMissingFilePropagatesError(t *testing.T) {
	b := New()
	err := b.Open(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}

func TestOpenProgressReachesComplete(t *testing.T) {
	path := writeTempFile(t, "line\n")
	b := New()
	var last int
	require.NoError(t, b.Open(context.Background(), path, func(p int) { last = p }))
	defer b.Close()
	assert.Equal(t, 100, last)
}
