// Package index builds and queries the line-offset table: the
// strictly increasing sequence of byte offsets where each line begins.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// chunkSize is the scan granularity Build reads and reports progress at.
const chunkSize = 1 << 20 // 1 MiB

// ticksEveryChunks caps progress reporting to roughly every 10 MiB.
const ticksEveryChunks = 10

// Kind classifies an indexing failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotOpen
	KindIoError
	KindCancelled
)

// Error wraps an indexing failure with a Kind, mirroring window.Error.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("index: %s", e.Op)
	}
	return fmt.Sprintf("index: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, kind Kind, err error) error { return &Error{Op: op, Kind: kind, Err: err} }

// Reader is the minimal slice of window.Manager the indexer needs. It
// is declared here, not imported from the window package, so index has
// no dependency on window's concrete types.
type Reader interface {
	ReadBytes(offset, count int64) ([]byte, error)
}

// ProgressFunc receives integer percentages in [0,100]. It is invoked
// only from within Build's goroutine, never concurrently.
type ProgressFunc func(percent int)

// Index holds the line-offset table for one open file.
type Index struct {
	mu       sync.RWMutex
	offsets  []int64
	crlf     []bool // crlf[i] true iff line i's terminator is "\r\n", len == len(offsets)-1
	fileSize int64
	built    bool
	logger   *slog.Logger
}

// New constructs an empty, unbuilt index.
func New(logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{offsets: []int64{0}, logger: logger}
}

// Build scans r in chunkSize chunks from 0 to fileSize, recording the
// byte offset following every '\n'. It reports progress at most every
// ticksEveryChunks chunks and once more at completion with 100.
//
// The scan runs on a worker goroutine coordinated through
// golang.org/x/sync/errgroup so ctx cancellation and I/O errors both
// converge on a single returned error, the way
// GoogleCloudPlatform-gcsfuse structures its own cancellable
// background work.
func (idx *Index) Build(ctx context.Context, r Reader, fileSize int64, progress ProgressFunc) error {
	idx.reset(fileSize)

	if fileSize == 0 {
		idx.finish(nil, nil)
		if progress != nil {
			progress(100)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	progressCh := make(chan int)
	var found []int64
	var crlf []bool

	g.Go(func() error {
		defer close(progressCh)
		var pos int64
		var prevByte byte
		chunksSinceTick := 0
		for pos < fileSize {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			n := int64(chunkSize)
			if pos+n > fileSize {
				n = fileSize - pos
			}
			data, err := r.ReadBytes(pos, n)
			if err != nil {
				return err
			}
			for i, b := range data {
				if b == '\n' {
					var prev byte
					if i > 0 {
						prev = data[i-1]
					} else {
						prev = prevByte
					}
					found = append(found, pos+int64(i)+1)
					crlf = append(crlf, prev == '\r')
				}
			}
			if len(data) > 0 {
				prevByte = data[len(data)-1]
			}
			pos += n

			chunksSinceTick++
			if chunksSinceTick >= ticksEveryChunks {
				chunksSinceTick = 0
				percent := int(pos * 100 / fileSize)
				select {
				case progressCh <- percent:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	for p := range progressCh {
		if progress != nil {
			progress(p)
		}
	}

	if err := g.Wait(); err != nil {
		idx.reset(0)
		if errors.Is(err, context.Canceled) {
			idx.logger.Warn("index build cancelled")
			return wrap("Build", KindCancelled, err)
		}
		idx.logger.Error("index build failed", "error", err)
		return wrap("Build", KindIoError, err)
	}

	idx.finish(found, crlf)
	if progress != nil {
		progress(100)
	}
	idx.logger.Info("index built", "lines", idx.LineCount())
	return nil
}

func (idx *Index) reset(fileSize int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.offsets = []int64{0}
	idx.crlf = nil
	idx.fileSize = fileSize
	idx.built = false
}

func (idx *Index) finish(found []int64, crlf []bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	offsets := make([]int64, 0, len(found)+1)
	offsets = append(offsets, 0)
	offsets = append(offsets, found...)
	idx.offsets = offsets
	idx.crlf = crlf
	idx.built = true
}

// LineCount returns the number of entries in the offset table.
func (idx *Index) LineCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.offsets)
}

// IsBuilt reports whether Build has completed successfully since the
// last reset.
func (idx *Index) IsBuilt() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.built
}

// LineOffset returns offsets[i], clamping out-of-range i to the start
// of the file. This keeps it a total function with no error path on
// the hot read-line route.
func (idx *Index) LineOffset(i int) int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if i < 0 || i >= len(idx.offsets) {
		return 0
	}
	return idx.offsets[i]
}

// LineOfOffset returns the largest i such that offsets[i] <= o.
func (idx *Index) LineOfOffset(o int64) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	// sort.Search finds the first index where offsets[i] > o; the line
	// we want is one before that.
	i := sort.Search(len(idx.offsets), func(i int) bool {
		return idx.offsets[i] > o
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// LineLength returns the number of base-file bytes in line i,
// excluding its terminator.
func (idx *Index) LineLength(i int) int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if i < 0 || i >= len(idx.offsets) {
		return 0
	}

	start := idx.offsets[i]
	var end int64
	if i+1 < len(idx.offsets) {
		end = idx.offsets[i+1] - 1 // exclude '\n'
		if i < len(idx.crlf) && idx.crlf[i] {
			end-- // exclude '\r' of a "\r\n" terminator
		}
	} else {
		end = idx.fileSize
	}

	length := end - start
	if length < 0 {
		length = 0
	}
	if start+length > idx.fileSize {
		length = idx.fileSize - start
		if length < 0 {
			length = 0
		}
	}
	return length
}
