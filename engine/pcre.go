package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"regexsolver/pattern"

	"github.com/dlclark/regexp2"
	"github.com/dlclark/regexp2/syntax"
)

const badUTF8Message = "Malformed UTF-8 characters, possibly incorrectly encoded"

type pcreProgram struct {
	re  *regexp2.Regexp
	utf bool
}

func compilePCRE(expr string, matchTimeout time.Duration) (p Program, err error) {
	d, err := pattern.ParseDelimited(expr, pattern.PCREModifiers)
	if err != nil {
		err = &Error{Code: InternalError, Message: err.Error()}
		return
	}

	if d.Modifiers.UTF && !utf8.ValidString(d.Body) {
		err = &Error{Code: InternalError, Message: "Compilation failed: UTF-8 error: invalid UTF-8 string"}
		return
	}

	body, err := pattern.TranslatePCRE(d.Body, d.Modifiers)
	if err != nil {
		err = &Error{Code: InternalError, Message: err.Error()}
		return
	}

	opts := regexp2.None
	if d.Modifiers.CaseInsensitive {
		opts |= regexp2.IgnoreCase
	}
	if d.Modifiers.Multiline {
		opts |= regexp2.Multiline
	}
	if d.Modifiers.DotAll {
		opts |= regexp2.Singleline
	}
	if d.Modifiers.Extended {
		opts |= regexp2.IgnorePatternWhitespace
	}

	re, err := regexp2.Compile(body, opts)
	if err != nil {
		err = pcreCompileError(err)
		return
	}

	if matchTimeout > 0 {
		re.MatchTimeout = matchTimeout
	}

	p = &pcreProgram{re: re, utf: d.Modifiers.UTF}
	return
}

func pcreCompileError(err error) *Error {
	var se *syntax.Error
	if errors.As(err, &se) {
		msg := se.Code.String()
		if len(se.Args) > 0 {
			msg = fmt.Sprintf(msg, se.Args...)
		}
		return &Error{Code: InternalError, Message: "Compilation failed: " + msg}
	}
	return &Error{Code: InternalError, Message: "Compilation failed: " + err.Error()}
}

// pcreMatchError maps errors raised while matching. regexp2 has no error type for timeouts.
func pcreMatchError(err error) *Error {
	if strings.Contains(err.Error(), "match timeout") {
		return &Error{Code: BacktrackLimitError, Message: "Backtrack limit exhausted"}
	}
	return &Error{Code: InternalError, Message: err.Error()}
}

func (p *pcreProgram) FindFirst(text string) (loc []int, err error) {
	if p.utf && !utf8.ValidString(text) {
		err = &Error{Code: BadUTF8Error, Message: badUTF8Message}
		return
	}

	m, err := p.re.FindStringMatch(text)
	if err != nil {
		err = pcreMatchError(err)
		return
	}

	if m != nil {
		loc = byteLocation(m, runeOffsets(text))
	}
	return
}

func (p *pcreProgram) FindAll(text string) (locs [][]int, err error) {
	if p.utf && !utf8.ValidString(text) {
		err = &Error{Code: BadUTF8Error, Message: badUTF8Message}
		return
	}

	m, err := p.re.FindStringMatch(text)
	if m == nil || err != nil {
		if err != nil {
			err = pcreMatchError(err)
		}
		return
	}

	offsets := runeOffsets(text)
	for m != nil {
		locs = append(locs, byteLocation(m, offsets))
		if m, err = p.re.FindNextMatch(m); err != nil {
			locs = nil
			err = pcreMatchError(err)
			return
		}
	}
	return
}

// runeOffsets returns the byte offset of every rune in s, followed by len(s).
// regexp2 decodes invalid bytes one rune each, as range does.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

// byteLocation converts the rune indices of a match into byte offset pairs.
func byteLocation(m *regexp2.Match, offsets []int) []int {
	groups := m.Groups()
	loc := make([]int, 2*len(groups))
	for i, g := range groups {
		if len(g.Captures) == 0 {
			loc[2*i], loc[2*i+1] = -1, -1
			continue
		}
		loc[2*i] = offsets[g.Index]
		loc[2*i+1] = offsets[g.Index+g.Length]
	}
	return loc
}
