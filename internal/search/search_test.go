package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a LineSource backed by an in-memory slice.
type fakeSource struct {
	lines []string
	failAt int // -1 disables
}

func (f *fakeSource) LineCount() int { return len(f.lines) }

func (f *fakeSource) ReadLineErr(i int) (string, error) {
	if f.failAt >= 0 && i == f.failAt {
		return "", errors.New("boom")
	}
	return f.lines[i], nil
}

func TestSearchLiteralCaseSensitive(t *testing.T) {
	src := &fakeSource{lines: []string{"foo bar", "bar foo", "foo"}, failAt: -1}

	ch := Search(context.Background(), src, Options{Term: "foo", CaseSensitive: true}, nil)
	hits, err := Collect(ch)
	require.NoError(t, err)

	require.Len(t, hits, 3)
	assert.Equal(t, Hit{LineIndex: 0, CharIndex: 0, Length: 3, LineText: "foo bar"}, hits[0])
	assert.Equal(t, Hit{LineIndex: 1, CharIndex: 4, Length: 3, LineText: "bar foo"}, hits[1])
	assert.Equal(t, Hit{LineIndex: 2, CharIndex: 0, Length: 3, LineText: "foo"}, hits[2])
}

func TestSearchRegex(t *testing.T) {
	src := &fakeSource{lines: []string{"foo bar", "bar foo", "foo"}, failAt: -1}

	ch := Search(context.Background(), src, Options{Term: "b.r", UseRegex: true}, nil)
	hits, err := Collect(ch)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, Hit{LineIndex: 0, CharIndex: 4, Length: 3, LineText: "foo bar"}, hits[0])
	assert.Equal(t, Hit{LineIndex: 1, CharIndex: 0, Length: 3, LineText: "bar foo"}, hits[1])
}

func TestSearchCaseInsensitive(t *testing.T) {
	src := &fakeSource{lines: []string{"Foo FOO foo"}, failAt: -1}

	ch := Search(context.Background(), src, Options{Term: "foo", CaseSensitive: false}, nil)
	hits, err := Collect(ch)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearchNonOverlappingAdvancement(t *testing.T) {
	src := &fakeSource{lines: []string{"aaaa"}, failAt: -1}

	ch := Search(context.Background(), src, Options{Term: "aa", CaseSensitive: true}, nil)
	hits, err := Collect(ch)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].CharIndex)
	assert.Equal(t, 2, hits[1].CharIndex)
}

func TestSearchBadPattern(t *testing.T) {
	src := &fakeSource{lines: []string{"x"}, failAt: -1}

	ch := Search(context.Background(), src, Options{Term: "(unclosed", UseRegex: true}, nil)
	_, err := Collect(ch)
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindBadPattern, serr.Kind)
}

func TestSearchIoError(t *testing.T) {
	src := &fakeSource{lines: []string{"a", "b", "c"}, failAt: 1}

	ch := Search(context.Background(), src, Options{Term: "a"}, nil)
	_, err := Collect(ch)
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindIoError, serr.Kind)
}

func TestSearchCancellation(t *testing.T) {
	src := &fakeSource{lines: []string{"foo", "foo", "foo"}, failAt: -1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := Search(ctx, src, Options{Term: "foo"}, nil)
	_, err := Collect(ch)
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindCancelled, serr.Kind)
}

func TestSearchEmptyTermYieldsNoHits(t *testing.T) {
	src := &fakeSource{lines: []string{"anything"}, failAt: -1}

	ch := Search(context.Background(), src, Options{Term: ""}, nil)
	hits, err := Collect(ch)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
