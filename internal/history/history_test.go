package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jansteyn/aquaedit/internal/overlay"
	"github.com/jansteyn/aquaedit/internal/patch"
)

// fakeBuffer is a minimal OriginalReader + render helper standing in
// for the text buffer in isolation tests.
type fakeBuffer struct {
	base string
	ov   *overlay.Overlay
}

func (f *fakeBuffer) ReadRange(offset, length int64) (string, error) {
	text := f.ov.Apply(f.base, 0)
	end := offset + length
	if end > int64(len(text)) {
		end = int64(len(text))
	}
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	return text[offset:end], nil
}

func (f *fakeBuffer) render() string {
	return f.ov.Apply(f.base, 0)
}

func newFixture(base string) (*fakeBuffer, *History) {
	ov := overlay.New(nil)
	fb := &fakeBuffer{base: base, ov: ov}
	h := New(ov, fb, nil)
	return fb, h
}

func TestInsertUndoRedo(t *testing.T) {
	fb, h := newFixture("hello")

	require.NoError(t, h.Record(patch.NewInsert(5, " world")))
	assert.Equal(t, "hello world", fb.render())
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "hello", fb.render())
	assert.False(t, h.CanUndo())
	assert.True(t, h.CanRedo())

	_, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "hello world", fb.render())
}

func TestDeleteUndoIsLossless(t *testing.T) {
	fb, h := newFixture("hello world")

	require.NoError(t, h.Record(patch.NewDelete(0, 6)))
	assert.Equal(t, "world", fb.render())

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "hello world", fb.render())
}

func TestReplaceUndoIsLossless(t *testing.T) {
	fb, h := newFixture("hello world")

	require.NoError(t, h.Record(patch.NewReplace(6, 5, "there")))
	assert.Equal(t, "hello there", fb.render())

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "hello world", fb.render())
}

func TestRecordClearsRedoStack(t *testing.T) {
	_, h := newFixture("hello")

	require.NoError(t, h.Record(patch.NewInsert(5, "!")))
	h.Undo()
	assert.True(t, h.CanRedo())

	require.NoError(t, h.Record(patch.NewInsert(5, "?")))
	assert.False(t, h.CanRedo())
	assert.True(t, h.CanUndo())
}

func TestUndoOnEmptyStack(t *testing.T) {
	_, h := newFixture("hello")
	_, ok := h.Undo()
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	_, h := newFixture("hello")
	require.NoError(t, h.Record(patch.NewInsert(5, "!")))
	h.Clear()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}
