package pattern

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Modifier letters accepted by each dialect.
const (
	PCREModifiers = "imsxuUXADSJn"
	RE2Modifiers  = "imsuU"
)

// Modifiers is the decoded set of modifier letters following a delimited pattern.
type Modifiers struct {
	CaseInsensitive bool // i
	Multiline       bool // m
	DotAll          bool // s
	Extended        bool // x
	UTF             bool // u
	Ungreedy        bool // U
	Anchored        bool // A
	DollarEndOnly   bool // D
	NoAutoCapture   bool // n
}

// Delimited is a pattern body split out of a delimited expression such as "/a+b/i".
type Delimited struct {
	Body      string
	Modifiers Modifiers
}

var bracketDelimiters = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
	'<': '>',
}

// ParseDelimited splits a delimited expression into its body and modifiers.
// Only modifier letters contained in allowed are accepted.
func ParseDelimited(expr string, allowed string) (d Delimited, err error) {
	p := strings.TrimLeft(expr, " \t\n\r\v\f")
	if p == "" {
		err = fmt.Errorf("Empty regular expression")
		return
	}

	start, size := utf8.DecodeRuneInString(p)
	if start == 0 || start == '\\' || unicode.IsLetter(start) || unicode.IsDigit(start) {
		err = fmt.Errorf("Delimiter must not be alphanumeric, backslash, or NUL")
		return
	}
	p = p[size:]

	var end int
	if closing, ok := bracketDelimiters[start]; ok {
		end = findClosingBracket(p, start, closing)
		if end < 0 {
			err = fmt.Errorf("No ending matching delimiter '%c' found", closing)
			return
		}
		d.Body = p[:end]
		p = p[end+utf8.RuneLen(closing):]
	} else {
		end = findDelimiter(p, start)
		if end < 0 {
			err = fmt.Errorf("No ending delimiter '%c' found", start)
			return
		}
		d.Body = p[:end]
		p = p[end+size:]
	}

	d.Modifiers, err = parseModifiers(p, allowed)
	return
}

func findDelimiter(s string, delim rune) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\\' {
			i += size
			if i < len(s) {
				_, size = utf8.DecodeRuneInString(s[i:])
				i += size
			}
			continue
		}
		if r == delim {
			return i
		}
		i += size
	}
	return -1
}

func findClosingBracket(s string, opening rune, closing rune) int {
	depth := 1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '\\':
			i += size
			if i < len(s) {
				_, size = utf8.DecodeRuneInString(s[i:])
			} else {
				size = 0
			}
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		case opening:
			depth++
		}
		i += size
	}
	return -1
}

func parseModifiers(s string, allowed string) (m Modifiers, err error) {
	for _, c := range s {
		if c == ' ' || c == '\n' || c == '\r' {
			continue
		}

		if c == 0 {
			err = fmt.Errorf("NUL is not a valid modifier")
			return
		}

		if !strings.ContainsRune(allowed, c) {
			err = fmt.Errorf("Unknown modifier '%c'", c)
			return
		}

		switch c {
		case 'i':
			m.CaseInsensitive = true
		case 'm':
			m.Multiline = true
		case 's':
			m.DotAll = true
		case 'x':
			m.Extended = true
		case 'u':
			m.UTF = true
		case 'U':
			m.Ungreedy = true
		case 'A':
			m.Anchored = true
		case 'D':
			m.DollarEndOnly = true
		case 'n':
			m.NoAutoCapture = true
		}
	}

	return
}
