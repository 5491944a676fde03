package buffer

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// TextEncoding names the byte-to-text decodings the buffer accepts for
// the base file. It defaults to UTF8.
type TextEncoding int

const (
	UTF8 TextEncoding = iota
	UTF16LE
	UTF16BE
)

func (e TextEncoding) String() string {
	switch e {
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	default:
		return "UTF-8"
	}
}

// decoder returns the golang.org/x/text/encoding.Encoding backing this
// TextEncoding. UTF-8 needs no transform since Go strings are already
// UTF-8 byte sequences; the others route through x/text/encoding/unicode
// the way a from-scratch editor supporting non-UTF-8 sources would.
func (e TextEncoding) decoder() encoding.Encoding {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return encoding.Nop
	}
}

// ParseEncoding maps a config string ("utf-8", "utf-16le", "utf-16be")
// to a TextEncoding, defaulting to UTF8 for an empty or unrecognised
// value rather than failing construction over a cosmetic setting.
func ParseEncoding(s string) TextEncoding {
	switch s {
	case "utf-16le", "UTF-16LE":
		return UTF16LE
	case "utf-16be", "UTF-16BE":
		return UTF16BE
	default:
		return UTF8
	}
}

// decode converts raw base-file bytes to text under this encoding.
func (e TextEncoding) decode(raw []byte) (string, error) {
	if e == UTF8 {
		return string(raw), nil
	}
	out, err := e.decoder().NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", e, err)
	}
	return string(out), nil
}
