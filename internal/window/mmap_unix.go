//go:build unix || darwin || linux

package window

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mmapWindow maps length bytes of fd starting at the (already
// page-aligned) offset, read-only and shared.
func mmapWindow(fd uintptr, offset, length int64) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	data, err := unix.Mmap(int(fd), offset, int(length), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return data, nil
}

func (w *Window) munmap() error {
	if len(w.data) == 0 {
		return nil
	}
	if err := unix.Munmap(w.data); err != nil {
		return fmt.Errorf("munmap failed: %w", err)
	}
	return nil
}

func (w *Window) advise(advice int) error {
	if len(w.data) == 0 {
		return nil
	}
	if err := unix.Madvise(w.data, advice); err != nil {
		return fmt.Errorf("madvise failed: %w", err)
	}
	return nil
}

// AdviseSequential hints that the window will be read front-to-back,
// the way the line indexer and search engine walk the file.
func (w *Window) AdviseSequential() error { return w.advise(unix.MADV_SEQUENTIAL) }

// AdviseRandom hints the window will be accessed in no particular order.
func (w *Window) AdviseRandom() error { return w.advise(unix.MADV_RANDOM) }

// AdviseWillNeed hints the window's pages will be needed soon.
func (w *Window) AdviseWillNeed() error { return w.advise(unix.MADV_WILLNEED) }

// AdviseDontNeed hints the window's pages can be evicted from the page cache.
func (w *Window) AdviseDontNeed() error { return w.advise(unix.MADV_DONTNEED) }
