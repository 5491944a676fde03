// Package overlay implements the edit overlay: an unordered collection
// of patches that composes onto a base byte/text slice in ascending
// start-offset order.
package overlay

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/jansteyn/aquaedit/internal/patch"
)

// Overlay holds the patches pending against a base file. It does not
// merge overlapping patches; composing them is handled entirely by
// Apply, in ascending StartOffset order, per patch.
type Overlay struct {
	mu      sync.RWMutex
	patches []patch.Patch
	logger  *slog.Logger
}

// New constructs an empty overlay.
func New(logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Overlay{logger: logger}
}

// Add appends patch p without merging it against existing patches.
func (o *Overlay) Add(p patch.Patch) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.patches = append(o.patches, p)
}

// Clear discards every patch.
func (o *Overlay) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.patches = nil
}

// Remove drops the first patch with the given id, if present, without
// discarding the rest of the overlay. Undo/redo doesn't use it — the
// overlay stays append-only across undo/redo pairs — so today it's
// unused outside this package's own tests; a future caller that needs
// to retract a single edit (rather than clear everything) has it
// ready.
func (o *Overlay) Remove(id patch.Patch) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, p := range o.patches {
		if p.ID == id.ID {
			o.patches = append(o.patches[:i], o.patches[i+1:]...)
			return
		}
	}
}

// Patches returns a snapshot of the current patches, sorted by
// StartOffset. Callers must treat the result as read-only.
func (o *Overlay) Patches() []patch.Patch {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]patch.Patch, len(o.patches))
	copy(out, o.patches)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartOffset < out[j].StartOffset
	})
	return out
}

// Apply composes every patch whose StartOffset lies inside
// [baseOffset, baseOffset+len(baseText)] onto baseText, visited in
// ascending StartOffset order. The upper bound is inclusive so an
// Insert positioned exactly at the end of baseText — the ordinary
// "type at end of line" case — still applies instead of being
// silently dropped.
//
// baseText and the patches' NewText are both treated as raw bytes:
// OriginalLength and len(NewText) are base-file byte counts, and Go
// strings already index by byte, so no separate unit conversion is
// needed here.
func (o *Overlay) Apply(baseText string, baseOffset int64) string {
	relevant := o.relevantPatches(baseText, baseOffset)
	if len(relevant) == 0 {
		return baseText
	}

	current := baseText
	for _, p := range relevant {
		pos := clampPos(p.StartOffset-baseOffset, len(current))
		current = applyOne(current, pos, p)
	}
	return current
}

func (o *Overlay) relevantPatches(baseText string, baseOffset int64) []patch.Patch {
	lo := baseOffset
	hi := baseOffset + int64(len(baseText))

	all := o.Patches()
	relevant := make([]patch.Patch, 0, len(all))
	for _, p := range all {
		if p.StartOffset >= lo && p.StartOffset <= hi {
			relevant = append(relevant, p)
		}
	}
	return relevant
}

func applyOne(s string, pos int, p patch.Patch) string {
	switch p.Kind {
	case patch.Insert:
		return s[:pos] + p.NewText + s[pos:]
	case patch.Delete:
		remaining := int64(len(s) - pos)
		n := p.OriginalLength
		if n > remaining {
			n = remaining
		}
		return s[:pos] + s[pos+int(n):]
	case patch.Replace:
		remaining := int64(len(s) - pos)
		n := p.OriginalLength
		if n > remaining {
			n = remaining
		}
		return s[:pos] + p.NewText + s[pos+int(n):]
	default:
		return s
	}
}

func clampPos(pos int64, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > int64(length) {
		return length
	}
	return int(pos)
}
