// Package search implements the asynchronous line-streaming search
// engine: literal or regex matching over a text buffer's decoded lines,
// yielded as a cancellable stream of hits.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Kind classifies a search failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindBadPattern
	KindIoError
	KindCancelled
)

// Error wraps a search failure with a Kind.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("search: %s", e.Op)
	}
	return fmt.Sprintf("search: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, kind Kind, err error) error { return &Error{Op: op, Kind: kind, Err: err} }

// yieldEvery caps how often the scan takes an extra cancellation check
// beyond the one already done before every line.
const yieldEvery = 1000

// LineSource is the slice of the text buffer the search engine reads
// through. Declared locally so search stays a leaf package that only
// depends on buffer through this narrow interface, not the concrete type.
type LineSource interface {
	LineCount() int
	ReadLineErr(i int) (string, error)
}

// sequentialHinter is implemented by LineSource values that can pass an
// access-pattern hint down to the file manager (buffer.Buffer does).
// Detected via type assertion so LineSource itself stays minimal.
type sequentialHinter interface {
	BeginSequentialScan() func()
}

// Hit is one match, with enough captured state (line text and indices)
// that a consumer never needs a reference back into the buffer's
// overlay, which may already have moved on by the time the hit is read.
type Hit struct {
	LineIndex int
	CharIndex int
	Length    int
	LineText  string
}

// Options configures one search run.
type Options struct {
	Term          string
	CaseSensitive bool
	UseRegex      bool
}

// Result is delivered on the channel Search returns: exactly one of
// Hit or Err is meaningful per value. A non-nil Err is always the last
// value sent before the channel closes.
type Result struct {
	Hit Hit
	Err error
}

// Search starts a background scan of src's lines and returns a channel
// of results. The channel is closed after the scan completes, fails,
// or is cancelled via ctx. Invalid regex patterns are reported as the
// sole Result on the channel: the pattern is compiled eagerly, before
// the goroutine starts, but a consumer only observes the failure once
// it reads from the stream.
func Search(ctx context.Context, src LineSource, opts Options, logger *slog.Logger) <-chan Result {
	if logger == nil {
		logger = slog.Default()
	}
	sessionID := uuid.New()
	out := make(chan Result)

	matcher, err := newMatcher(opts)
	if err != nil {
		go func() {
			defer close(out)
			out <- Result{Err: wrap("Search", KindBadPattern, err)}
		}()
		return out
	}

	go func() {
		defer close(out)
		logger.Debug("search started", "session", sessionID, "term", opts.Term, "regex", opts.UseRegex)

		if hinter, ok := src.(sequentialHinter); ok {
			end := hinter.BeginSequentialScan()
			defer end()
		}

		lineCount := src.LineCount()
		for i := 0; i < lineCount; i++ {
			select {
			case <-ctx.Done():
				logger.Debug("search cancelled", "session", sessionID, "line", i)
				out <- Result{Err: wrap("Search", KindCancelled, ctx.Err())}
				return
			default:
			}

			text, err := src.ReadLineErr(i)
			if err != nil {
				out <- Result{Err: wrap("Search", KindIoError, err)}
				return
			}

			for _, m := range matcher.findAll(text) {
				hit := Result{Hit: Hit{LineIndex: i, CharIndex: m.start, Length: m.length, LineText: text}}
				select {
				case out <- hit:
				case <-ctx.Done():
					out <- Result{Err: wrap("Search", KindCancelled, ctx.Err())}
					return
				}
			}

			if (i+1)%yieldEvery == 0 {
				select {
				case <-ctx.Done():
					out <- Result{Err: wrap("Search", KindCancelled, ctx.Err())}
					return
				default:
				}
			}
		}
		logger.Debug("search finished", "session", sessionID)
	}()

	return out
}

// span is a zero-allocation match location within a line.
type span struct {
	start  int
	length int
}

// matcher abstracts literal vs. regex matching behind one findAll call.
type matcher interface {
	findAll(line string) []span
}

func newMatcher(opts Options) (matcher, error) {
	if opts.UseRegex {
		re, err := regexp.Compile(opts.Term)
		if err != nil {
			return nil, err
		}
		return &regexMatcher{re: re}, nil
	}
	return &literalMatcher{term: opts.Term, caseSensitive: opts.CaseSensitive}, nil
}

// literalMatcher scans non-overlapping occurrences of term, advancing
// by the match length after each one so two reported matches never
// overlap.
type literalMatcher struct {
	term          string
	caseSensitive bool
}

func (m *literalMatcher) findAll(line string) []span {
	if m.term == "" {
		return nil
	}
	haystack, needle := line, m.term
	if !m.caseSensitive {
		haystack = strings.ToLower(line)
		needle = strings.ToLower(m.term)
	}

	var spans []span
	pos := 0
	for pos <= len(haystack)-len(needle) {
		idx := strings.Index(haystack[pos:], needle)
		if idx < 0 {
			break
		}
		start := pos + idx
		spans = append(spans, span{start: start, length: len(needle)})
		pos = start + len(needle)
	}
	return spans
}

// regexMatcher wraps regexp.FindAllStringIndex, which already returns
// non-overlapping leftmost matches in order.
type regexMatcher struct {
	re *regexp.Regexp
}

func (m *regexMatcher) findAll(line string) []span {
	locs := m.re.FindAllStringIndex(line, -1)
	spans := make([]span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, span{start: loc[0], length: loc[1] - loc[0]})
	}
	return spans
}

// Collect drains ch into a slice, for callers (tests, small files) that
// prefer a synchronous result over streaming consumption.
func Collect(ch <-chan Result) ([]Hit, error) {
	var hits []Hit
	for r := range ch {
		if r.Err != nil {
			return hits, r.Err
		}
		hits = append(hits, r.Hit)
	}
	return hits, nil
}
