package window

import (
	"errors"
	"fmt"
)

// Kind classifies a window/file-manager failure the way the front end
// needs to react to it: surface verbatim, clamp and retry, or reset
// state and propagate.
type Kind int

const (
	// KindUnknown is never returned; it marks a zero-value Kind.
	KindUnknown Kind = iota
	KindNotFound
	KindAccessDenied
	KindIoError
	KindOutOfBounds
	KindNotOpen
	KindCancelled
	KindOutOfMemory
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindAccessDenied:
		return "AccessDenied"
	case KindIoError:
		return "IoError"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindNotOpen:
		return "NotOpen"
	case KindCancelled:
		return "Cancelled"
	case KindOutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a Kind so callers can branch on
// errors.As without string-matching messages.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, kind Kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// NotOpen reports whether err (or any error it wraps) is a KindNotOpen failure.
func NotOpen(err error) bool { return hasKind(err, KindNotOpen) }

// OutOfBounds reports whether err (or any error it wraps) is a KindOutOfBounds failure.
func OutOfBounds(err error) bool { return hasKind(err, KindOutOfBounds) }

// Cancelled reports whether err (or any error it wraps) is a KindCancelled failure.
func Cancelled(err error) bool { return hasKind(err, KindCancelled) }

func hasKind(err error, k Kind) bool {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind == k
	}
	return false
}

var (
	// ErrCancelled is a sentinel for cancellation. The engine's own
	// cancellable operations (index.Build, search.Search) do not return
	// it; they wrap context.Canceled in their package's Error instead.
	ErrCancelled = errors.New("operation cancelled")
)
