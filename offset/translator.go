package offset

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/google/btree"
	"github.com/rivo/uniseg"
)

// Unit selects what counts as one character when translating byte offsets.
type Unit string

const (
	// CodePoint counts Unicode code points. This is the default.
	CodePoint Unit = "codepoint"

	// UTF16 counts UTF-16 code units, which is how JavaScript indexes strings.
	UTF16 Unit = "utf16"

	// Grapheme counts user-perceived characters (extended grapheme clusters).
	Grapheme Unit = "grapheme"
)

// ParseUnit converts a unit name into a Unit. The empty string means CodePoint.
func ParseUnit(s string) (u Unit, err error) {
	switch Unit(s) {
	case "", CodePoint:
		u = CodePoint
	case UTF16:
		u = UTF16
	case Grapheme:
		u = Grapheme
	default:
		err = fmt.Errorf("unknown character unit %q", s)
	}
	return
}

// Span is a character-granularity span within a subject text.
type Span struct {
	Offset int `json:"i"`
	Length int `json:"l"`
}

// Bytes between two checkpoints of the index.
const checkpointInterval = 512

type checkpoint struct {
	byteOffset int
	charOffset int
}

// Translator converts byte offsets within one text into character offsets.
// A Translator is created per subject text and is not safe for concurrent use.
type Translator struct {
	text  string
	unit  Unit
	index *btree.BTreeG[checkpoint]
}

// NewTranslator creates a Translator for the given text.
func NewTranslator(text string, unit Unit) *Translator {
	t := &Translator{text: text, unit: unit}

	// Grapheme clusters can straddle any checkpoint, so they are always counted from the start.
	if unit != Grapheme && len(text) > checkpointInterval {
		t.index = btree.NewG(16, func(a, b checkpoint) bool { return a.byteOffset < b.byteOffset })
		chars := 0
		next := checkpointInterval
		for i, r := range text {
			if i >= next {
				t.index.ReplaceOrInsert(checkpoint{byteOffset: i, charOffset: chars})
				next = i + checkpointInterval
			}
			chars += runeUnits(unit, r)
		}
	}

	return t
}

// ToCharSpan converts a byte offset and byte length into a character span.
func (t *Translator) ToCharSpan(byteOffset int, byteLength int) Span {
	start := t.boundary(byteOffset)
	end := t.boundary(byteOffset + byteLength)
	if end < start {
		end = start
	}

	return Span{
		Offset: t.charsBefore(start),
		Length: t.count(t.text[start:end]),
	}
}

// charsBefore counts the characters in text[:b].
func (t *Translator) charsBefore(b int) int {
	from := checkpoint{}
	if t.index != nil {
		t.index.DescendLessOrEqual(checkpoint{byteOffset: b}, func(c checkpoint) bool {
			from = c
			return false
		})
	}
	return from.charOffset + t.count(t.text[from.byteOffset:b])
}

func (t *Translator) count(s string) int {
	switch t.unit {
	case UTF16:
		n := 0
		for _, r := range s {
			n += runeUnits(UTF16, r)
		}
		return n
	case Grapheme:
		return uniseg.GraphemeClusterCount(s)
	default:
		return utf8.RuneCountInString(s)
	}
}

// boundary clamps b into the text and moves it back to the start of the
// multi-byte sequence it points into, if any.
func (t *Translator) boundary(b int) int {
	if b <= 0 {
		return 0
	}
	if b >= len(t.text) {
		return len(t.text)
	}

	for start := b - 1; start >= 0 && start > b-utf8.UTFMax; start-- {
		if !utf8.RuneStart(t.text[start]) {
			continue
		}
		_, size := utf8.DecodeRuneInString(t.text[start:])
		if size > 1 && start+size > b {
			return start
		}
		break
	}

	return b
}

func runeUnits(unit Unit, r rune) int {
	if unit == UTF16 {
		if n := utf16.RuneLen(r); n > 0 {
			return n
		}
	}
	return 1
}
