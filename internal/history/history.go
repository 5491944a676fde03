// Package history implements the undo/redo stacks over the edit
// overlay.
package history

import (
	"log/slog"
	"sync"

	"github.com/jansteyn/aquaedit/internal/overlay"
	"github.com/jansteyn/aquaedit/internal/patch"
)

// OriginalReader reads the currently composed text (base bytes with
// whatever overlay patches are already active) for a base-coordinate
// byte range. History uses it to capture the text a Delete or Replace
// is about to remove at the moment it's recorded, since Patch itself
// does not retain it, and undo needs that text back to build a
// lossless inverse.
type OriginalReader interface {
	ReadRange(offset, length int64) (string, error)
}

// entry pairs a recorded patch with whatever original text had to be
// captured to make its inverse lossless.
type entry struct {
	p        patch.Patch
	captured string
}

// History owns the undo and redo stacks for one overlay.
type History struct {
	mu     sync.Mutex
	undo   []entry
	redo   []entry
	overlay *overlay.Overlay
	reader OriginalReader
	logger *slog.Logger
}

// New constructs a History bound to the given overlay and text source.
func New(ov *overlay.Overlay, reader OriginalReader, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{overlay: ov, reader: reader, logger: logger}
}

// Record applies p to the overlay and pushes it onto the undo stack,
// clearing the redo stack. For Delete and Replace patches it first
// captures the text they are about to remove so their inverse can be
// constructed later without data loss.
func (h *History) Record(p patch.Patch) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := entry{p: p}
	if p.Kind == patch.Delete || p.Kind == patch.Replace {
		captured, err := h.reader.ReadRange(p.StartOffset, p.OriginalLength)
		if err != nil {
			return err
		}
		e.captured = captured
	}

	h.overlay.Add(p)
	h.undo = append(h.undo, e)
	h.redo = nil

	h.logger.Debug("patch recorded", "kind", p.Kind, "offset", p.StartOffset)
	return nil
}

// Undo pops the top of the undo stack, computes its inverse, applies
// the inverse to the overlay, and pushes the original onto the redo
// stack. Returns the patch that was undone, or (Patch{}, false) if the
// undo stack was empty.
func (h *History) Undo() (patch.Patch, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		return patch.Patch{}, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	h.overlay.Add(inverse(top))
	h.redo = append(h.redo, top)

	h.logger.Debug("undo", "kind", top.p.Kind, "offset", top.p.StartOffset)
	return top.p, true
}

// Redo reverses the motion of the most recent Undo: it re-applies the
// originally recorded patch and moves it back onto the undo stack.
func (h *History) Redo() (patch.Patch, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return patch.Patch{}, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	h.overlay.Add(top.p)
	h.undo = append(h.undo, top)

	h.logger.Debug("redo", "kind", top.p.Kind, "offset", top.p.StartOffset)
	return top.p, true
}

// Clear empties both stacks without touching the overlay.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// inverse builds the compensating patch for an undo stack entry.
func inverse(e entry) patch.Patch {
	switch e.p.Kind {
	case patch.Insert:
		return patch.NewDelete(e.p.StartOffset, int64(len(e.p.NewText)))
	case patch.Delete:
		return patch.NewInsert(e.p.StartOffset, e.captured)
	case patch.Replace:
		return patch.NewReplace(e.p.StartOffset, int64(len(e.p.NewText)), e.captured)
	default:
		return e.p
	}
}
