// Package patch defines the value type the edit overlay, undo/redo
// history, and text buffer all speak: a single insert, delete, or
// replace addressed by a base-file byte offset.
package patch

import "github.com/google/uuid"

// Kind discriminates the three mutation shapes a Patch can describe.
type Kind int

const (
	Insert Kind = iota
	Delete
	Replace
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	case Replace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// Patch records one mutation in base-file byte coordinates.
//
// OriginalLength and the byte length of NewText are both measured in
// base-file bytes. That keeps the overlay and the line index agreeing
// on the same offsets, with no separate unit-conversion step between
// them.
type Patch struct {
	ID             uuid.UUID
	StartOffset    int64
	OriginalLength int64
	NewText        string
	Kind           Kind
}

// New builds a patch, stamping it with a fresh id.
func New(kind Kind, startOffset, originalLength int64, newText string) Patch {
	return Patch{
		ID:             uuid.New(),
		StartOffset:    startOffset,
		OriginalLength: originalLength,
		NewText:        newText,
		Kind:           kind,
	}
}

// NewInsert builds an Insert patch; OriginalLength is always 0.
func NewInsert(offset int64, text string) Patch {
	return New(Insert, offset, 0, text)
}

// NewDelete builds a Delete patch; NewText is always empty.
func NewDelete(offset, length int64) Patch {
	return New(Delete, offset, length, "")
}

// NewReplace builds a Replace patch.
func NewReplace(offset, length int64, text string) Patch {
	return New(Replace, offset, length, text)
}

// EndOffset returns the base-file offset immediately after the span
// this patch consumes from the original text.
func (p Patch) EndOffset() int64 {
	return p.StartOffset + p.OriginalLength
}
