package window

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
)

// Manager opens a single file read-only as a memory map and serves
// page-aligned windows over it through an LRU cache. Only one file may
// be open through a Manager at a time.
type Manager struct {
	mu sync.Mutex

	file   *os.File
	fd     uintptr
	size   int64
	isOpen bool

	cache        *Cache
	cacheSize    int
	windowLength int64
	access       AccessPattern

	logger *slog.Logger
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithCacheCapacity overrides DefaultCacheCapacity.
func WithCacheCapacity(n int) Option {
	return func(m *Manager) { m.cacheSize = n }
}

// WithWindowLength overrides DefaultWindowLength.
func WithWindowLength(n int64) Option {
	return func(m *Manager) {
		if n > 0 {
			m.windowLength = n
		}
	}
}

// WithLogger attaches a structured logger; nil falls back to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New constructs a Manager. Call Open before using it.
func New(opts ...Option) *Manager {
	m := &Manager{
		cacheSize:    DefaultCacheCapacity,
		windowLength: DefaultWindowLength,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open maps path read-only and records its size. Any previously open
// file must be closed by the caller first; Open does not close one for
// them.
func (m *Manager) Open(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return wrap("Open", KindNotFound, err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return wrap("Open", KindAccessDenied, err)
		}
		return wrap("Open", KindIoError, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return wrap("Open", KindIoError, err)
	}

	m.file = f
	m.fd = f.Fd()
	m.size = info.Size()
	m.cache = NewCache(m.cacheSize, m.logger)
	m.isOpen = true

	m.logger.Info("file opened", "path", path, "size", m.size)
	return nil
}

// Close releases every cached window before releasing the map and
// closing the underlying file. Idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

func (m *Manager) closeLocked() error {
	if !m.isOpen {
		return nil
	}
	var firstErr error
	if m.cache != nil {
		if err := m.cache.Clear(); err != nil {
			firstErr = err
		}
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.isOpen = false
	m.file = nil
	m.cache = nil
	m.size = 0
	if firstErr != nil {
		return wrap("Close", KindIoError, firstErr)
	}
	return nil
}

// SetAccessPattern hints how the caller is about to read the file; the
// hint is applied via madvise to every window mapped from this point
// on, until changed again. Windows already cached are not retroactively
// advised.
func (m *Manager) SetAccessPattern(p AccessPattern) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = p
}

// Size returns the base file's size in bytes.
func (m *Manager) Size() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// IsOpen reports whether a file is currently mapped.
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isOpen
}

// GetWindow aligns offset down to PageSize, clamps size to the
// remaining file length, and returns a cached or freshly mapped window
// covering that range.
func (m *Manager) GetWindow(offset int64, size int64) (*Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getWindowLocked(offset, size)
}

func (m *Manager) getWindowLocked(offset, size int64) (*Window, error) {
	if !m.isOpen {
		return nil, wrap("GetWindow", KindNotOpen, nil)
	}
	if offset < 0 || offset > m.size {
		return nil, wrap("GetWindow", KindOutOfBounds, fmt.Errorf("offset %d out of [0,%d]", offset, m.size))
	}

	aligned := alignDown(offset)
	if size <= 0 {
		size = m.windowLength
	}
	remaining := m.size - aligned
	if size > remaining {
		size = remaining
	}

	// A cached window shorter than the request is remapped; Put then
	// replaces and releases the old one.
	if w, ok := m.cache.Get(aligned); ok && w.length >= size {
		return w, nil
	}

	data, err := mmapWindow(m.fd, aligned, size)
	if err != nil {
		// A failed mapping closes the manager outright so no stale
		// cache entry can be queried afterward.
		m.closeLocked()
		return nil, wrap("GetWindow", KindIoError, err)
	}

	w := &Window{offset: aligned, length: size, data: data}
	switch m.access {
	case AccessSequential:
		w.AdviseSequential()
	case AccessRandom:
		w.AdviseRandom()
	}
	if err := m.cache.Put(w); err != nil {
		return nil, wrap("GetWindow", KindIoError, err)
	}
	return w, nil
}

// ReadBytes returns count bytes starting at offset, reassembling them
// byte-exactly even when the range straddles more than one window so
// that callers never have to decode across separate reads.
func (m *Manager) ReadBytes(offset, count int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isOpen {
		return nil, wrap("ReadBytes", KindNotOpen, nil)
	}
	if count < 0 || offset < 0 || offset+count > m.size {
		return nil, wrap("ReadBytes", KindOutOfBounds,
			fmt.Errorf("range [%d,%d) exceeds file size %d", offset, offset+count, m.size))
	}
	if count == 0 {
		return []byte{}, nil
	}

	out := make([]byte, 0, count)
	remaining := offset
	need := count
	for need > 0 {
		w, err := m.getWindowLocked(remaining, 0)
		if err != nil {
			return nil, err
		}
		windowPos := remaining - w.offset
		avail := w.length - windowPos
		take := need
		if take > avail {
			take = avail
		}
		out = append(out, w.data[windowPos:windowPos+take]...)
		remaining += take
		need -= take
	}
	return out, nil
}
