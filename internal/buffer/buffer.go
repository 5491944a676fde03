// Package buffer implements the text buffer: the line-addressed
// facade combining the file manager, the line index, the edit
// overlay, undo/redo history, and a configured encoding into one
// navigable, editable document view.
package buffer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/jansteyn/aquaedit/internal/history"
	"github.com/jansteyn/aquaedit/internal/index"
	"github.com/jansteyn/aquaedit/internal/overlay"
	"github.com/jansteyn/aquaedit/internal/patch"
	"github.com/jansteyn/aquaedit/internal/window"
)

// Kind classifies a text-buffer failure, covering what can originate
// above the window/index layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotOpen
	KindIoError
	KindOutOfBounds
	KindCancelled
)

// Error wraps a buffer failure with a Kind.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("buffer: %s", e.Op)
	}
	return fmt.Sprintf("buffer: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, kind Kind, err error) error { return &Error{Op: op, Kind: kind, Err: err} }

// EventKind distinguishes the lifecycle notifications a plugin host
// might subscribe to.
type EventKind int

const (
	EventOpened EventKind = iota
	EventClosed
)

// Event is delivered to Notifications() subscribers; it carries no
// reference into buffer internals, only the path and kind, so a
// subscriber can never observe overlay state through it.
type Event struct {
	Kind EventKind
	Path string
}

// ProgressFunc mirrors index.ProgressFunc at the buffer boundary.
type ProgressFunc func(percent int)

// Option configures a Buffer at construction time.
type Option func(*Buffer)

func WithCacheCapacity(n int) Option { return func(b *Buffer) { b.cacheCapacity = n } }
func WithWindowLength(n int64) Option {
	return func(b *Buffer) { b.windowLength = n }
}
func WithEncoding(e TextEncoding) Option { return func(b *Buffer) { b.encoding = e } }
func WithLogger(l *slog.Logger) Option {
	return func(b *Buffer) {
		if l != nil {
			b.logger = l
		}
	}
}

// Buffer is the composite text-buffer facade.
type Buffer struct {
	mu sync.RWMutex

	mgr  *window.Manager
	idx  *index.Index
	ov   *overlay.Overlay
	hist *history.History

	encoding      TextEncoding
	cacheCapacity int
	windowLength  int64
	path          string
	logger        *slog.Logger

	notifications chan Event
}

// New constructs an unopened Buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		encoding:      UTF8,
		cacheCapacity: window.DefaultCacheCapacity,
		windowLength:  window.DefaultWindowLength,
		logger:        slog.Default(),
		notifications: make(chan Event, 4),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.mgr = window.New(
		window.WithCacheCapacity(b.cacheCapacity),
		window.WithWindowLength(b.windowLength),
		window.WithLogger(b.logger),
	)
	b.idx = index.New(b.logger)
	b.ov = overlay.New(b.logger)
	b.hist = history.New(b.ov, b, b.logger)
	return b
}

// Notifications returns the channel "document opened"/"document
// closed" events are delivered on, for a plugin host to consume. The
// channel is buffered and never closed by Buffer.
func (b *Buffer) Notifications() <-chan Event { return b.notifications }

func (b *Buffer) notify(kind EventKind) {
	select {
	case b.notifications <- Event{Kind: kind, Path: b.path}:
	default:
		b.logger.Warn("notification dropped: subscriber not keeping up")
	}
}

// Open closes any previously open file, clears the overlay and
// history, opens path through the file manager, and builds the line
// index. Any failure after the file manager opens closes it again
// before returning.
func (b *Buffer) Open(ctx context.Context, path string, progress ProgressFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.mgr.IsOpen() {
		if err := b.closeLocked(); err != nil {
			return err
		}
	}
	b.ov.Clear()
	b.hist.Clear()

	if err := b.mgr.Open(path); err != nil {
		return err
	}

	idxProgress := index.ProgressFunc(nil)
	if progress != nil {
		idxProgress = func(p int) { progress(p) }
	}
	b.mgr.SetAccessPattern(window.AccessSequential)
	err := b.idx.Build(ctx, b.mgr, b.mgr.Size(), idxProgress)
	b.mgr.SetAccessPattern(window.AccessDefault)
	if err != nil {
		b.mgr.Close()
		if errors.Is(err, context.Canceled) || isCancelled(err) {
			return wrap("Open", KindCancelled, err)
		}
		return wrap("Open", KindIoError, err)
	}

	b.path = path
	b.logger.Info("document opened", "path", path, "lines", b.idx.LineCount())
	b.notify(EventOpened)
	return nil
}

func isCancelled(err error) bool {
	var ierr *index.Error
	return errors.As(err, &ierr) && ierr.Kind == index.KindCancelled
}

// Close closes the file manager (releasing every window) and clears
// overlay/history state. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *Buffer) closeLocked() error {
	if !b.mgr.IsOpen() {
		return nil
	}
	path := b.path
	err := b.mgr.Close()
	b.ov.Clear()
	b.hist.Clear()
	b.path = ""
	b.logger.Info("document closed", "path", path)
	b.notify(EventClosed)
	return err
}

// LineCount returns the indexer's line count.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.idx.LineCount()
}

// LineOffset exposes the indexer's base-file offset for line i, the
// core half of a front end's "go to line".
func (b *Buffer) LineOffset(i int) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.idx.LineOffset(i)
}

// ReadLine returns line i as decoded text with overlapping overlay
// edits applied. Out-of-range i and read failures both yield "" so a
// read error never fails the whole UI; use ReadLineErr to distinguish
// the two.
func (b *Buffer) ReadLine(i int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text, _ := b.readLineLocked(i)
	return text
}

// ReadLineErr is the error-surfacing twin of ReadLine, for callers
// (like search) that need to distinguish "empty line" from "I/O
// failure".
func (b *Buffer) ReadLineErr(i int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readLineLocked(i)
}

func (b *Buffer) readLineLocked(i int) (string, error) {
	if i < 0 || i >= b.idx.LineCount() {
		return "", nil
	}
	off := b.idx.LineOffset(i)
	length := b.idx.LineLength(i)

	raw, err := b.mgr.ReadBytes(off, length)
	if err != nil {
		b.logger.Warn("read_line failed", "line", i, "error", err)
		return "", err
	}
	text, err := b.encoding.decode(raw)
	if err != nil {
		b.logger.Warn("decode failed", "line", i, "error", err)
		return "", err
	}
	return b.ov.Apply(text, off), nil
}

// ReadRange implements history.OriginalReader: it reads the currently
// composed text for a base-coordinate byte range, used to capture the
// text a Delete/Replace patch is about to remove.
func (b *Buffer) ReadRange(offset, length int64) (string, error) {
	size := b.mgr.Size()
	if offset < 0 {
		offset = 0
	}
	if offset > size {
		offset = size
	}
	if offset+length > size {
		length = size - offset
	}
	if length <= 0 {
		return "", nil
	}
	raw, err := b.mgr.ReadBytes(offset, length)
	if err != nil {
		return "", err
	}
	text, err := b.encoding.decode(raw)
	if err != nil {
		return "", err
	}
	return b.ov.Apply(text, offset), nil
}

// VisibleLines yields ReadLine(start)..ReadLine(start+count) as a
// lazy, finite sequence, using the stdlib range-over-func iterator
// shape introduced in Go 1.23.
func (b *Buffer) VisibleLines(start, count int) func(yield func(int, string) bool) {
	return func(yield func(int, string) bool) {
		for i := start; i < start+count; i++ {
			if !yield(i, b.ReadLine(i)) {
				return
			}
		}
	}
}

// ApplyEdit is the single mutation entry point: it records patch p
// into the undo-tracked overlay.
func (b *Buffer) ApplyEdit(p patch.Patch) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hist.Record(p)
}

// ClearEdits discards every pending patch and the undo/redo history.
func (b *Buffer) ClearEdits() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ov.Clear()
	b.hist.Clear()
}

// Undo/Redo/CanUndo/CanRedo delegate to the history.

func (b *Buffer) Undo() (patch.Patch, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hist.Undo()
}

func (b *Buffer) Redo() (patch.Patch, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hist.Redo()
}

func (b *Buffer) CanUndo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.hist.CanUndo()
}

func (b *Buffer) CanRedo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.hist.CanRedo()
}

// BeginSequentialScan hints the file manager that an upcoming series of
// reads will walk the file front-to-back — used by the search engine,
// which like the line indexer visits every line in order — and returns
// a function that restores the default access pattern. Safe to call
// even when the buffer is closed.
func (b *Buffer) BeginSequentialScan() func() {
	b.mu.RLock()
	mgr := b.mgr
	b.mu.RUnlock()
	mgr.SetAccessPattern(window.AccessSequential)
	return func() { mgr.SetAccessPattern(window.AccessDefault) }
}

// Stat reports cheap status-bar facts about the open document.
type Stat struct {
	Path      string
	Size      int64
	LineCount int
	IsIndexed bool
}

func (b *Buffer) Stat() Stat {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stat{
		Path:      b.path,
		Size:      b.mgr.Size(),
		LineCount: b.idx.LineCount(),
		IsIndexed: b.idx.IsBuilt(),
	}
}

// Save produces the effective document by reading every line and
// writing them LF-separated, UTF-8 encoded, to path. It routes through
// a temporary file and an atomic rename (github.com/natefinch/atomic)
// so a save to the currently open path never truncates it mid-read.
func (b *Buffer) Save(path string) error {
	b.mu.RLock()
	lineCount := b.idx.LineCount()
	lines := make([]string, lineCount)
	for i := 0; i < lineCount; i++ {
		text, _ := b.readLineLocked(i)
		lines[i] = text
	}
	b.mu.RUnlock()

	content := strings.Join(lines, "\n")
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return wrap("Save", KindIoError, err)
	}
	b.logger.Info("document saved", "path", path, "lines", lineCount)
	return nil
}

var _ io.Closer = (*Buffer)(nil)
