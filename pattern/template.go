package pattern

import (
	"strings"
)

// Template is a parsed replacement template in PCRE replacement syntax:
// $n, ${n} and \n insert capture group n (n has at most two digits), \\ inserts a backslash.
type Template struct {
	parts []templatePart
}

type templatePart struct {
	literal string
	group   int // -1 for literal parts
}

// ParseTemplate parses a replacement template. Parsing never fails; anything that is not
// a group reference is literal text.
func ParseTemplate(s string) Template {
	var t Template
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, templatePart{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		c := s[i]
		if (c != '$' && c != '\\') || i+1 >= len(s) {
			lit.WriteByte(c)
			i++
			continue
		}

		if c == '\\' && s[i+1] == '\\' {
			lit.WriteByte('\\')
			i += 2
			continue
		}

		braced := c == '$' && s[i+1] == '{'
		j := i + 1
		if braced {
			j++
		}

		n, digits := leadingNumber(s[j:], 2)
		if digits == 0 || (braced && (j+digits >= len(s) || s[j+digits] != '}')) {
			lit.WriteByte(c)
			i++
			continue
		}

		flush()
		t.parts = append(t.parts, templatePart{group: n})
		i = j + digits
		if braced {
			i++
		}
	}

	flush()
	return t
}

func leadingNumber(s string, limit int) (n int, digits int) {
	for digits < len(s) && digits < limit && '0' <= s[digits] && s[digits] <= '9' {
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	return
}

// Expand appends the template to dst, with group references taken from the match loc in text.
// loc holds byte offset pairs as returned by the engines; missing or non-participating groups expand to nothing.
func (t Template) Expand(dst *strings.Builder, text string, loc []int) {
	for _, p := range t.parts {
		if p.group < 0 {
			dst.WriteString(p.literal)
			continue
		}

		if 2*p.group+1 < len(loc) && loc[2*p.group] >= 0 {
			dst.WriteString(text[loc[2*p.group]:loc[2*p.group+1]])
		}
	}
}
