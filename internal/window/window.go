// Package window implements the windowed memory-mapped file reader and
// its LRU cache of mapped regions.
package window

// PageSize is the fixed alignment unit windows are mapped on.
const PageSize = 4096

// DefaultWindowLength is the default size of a freshly mapped window.
const DefaultWindowLength = 16 << 20 // 16 MiB

// DefaultCacheCapacity is the default number of windows the cache keeps
// resident before evicting the least-recently-used one.
const DefaultCacheCapacity = 10

// AccessPattern is a hint a caller can give the Manager about how it is
// about to read the file, forwarded to madvise on every window mapped
// while the hint is active. The line indexer and the search engine
// both set AccessSequential while they scan a file front-to-back.
type AccessPattern int

const (
	// AccessDefault applies no advice beyond the kernel's default.
	AccessDefault AccessPattern = iota
	AccessSequential
	AccessRandom
)

// Window is a contiguous, page-aligned, read-only view over the base
// file, identified by its aligned offset. It owns the OS mapping for
// the region and must be released exactly once.
type Window struct {
	offset   int64  // aligned offset into the base file
	length   int64  // length of the mapped region in bytes
	data     []byte // mapped bytes, len(data) == length
	released bool
}

// Offset returns the window's aligned base-file offset.
func (w *Window) Offset() int64 { return w.offset }

// Length returns the number of bytes the window covers.
func (w *Window) Length() int64 { return w.length }

// Bytes returns a view of the mapped bytes. Callers must not retain
// the slice past the window's release — Manager.ReadBytes copies out
// of it precisely so its own callers don't have to worry about this.
func (w *Window) Bytes() []byte { return w.data }

// contains reports whether the base-file offset o falls within this
// window's mapped range.
func (w *Window) contains(o int64) bool {
	return o >= w.offset && o < w.offset+w.length
}

// release unmaps the window's OS accessor. Safe to call more than
// once; only the first call does work.
func (w *Window) release() error {
	if w.released {
		return nil
	}
	w.released = true
	return w.munmap()
}

// alignDown rounds off down to the nearest multiple of PageSize.
func alignDown(off int64) int64 {
	return (off / PageSize) * PageSize
}
