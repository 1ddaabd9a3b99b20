package engine

import (
	"errors"
	"regexp/syntax"
	"unicode/utf8"

	"regexsolver/pattern"

	"github.com/coregx/coregex"
)

type re2Program struct {
	re  *coregex.Regex
	utf bool
}

func compileRE2(expr string) (p Program, err error) {
	d, err := pattern.ParseDelimited(expr, pattern.RE2Modifiers)
	if err != nil {
		err = &Error{Code: InternalError, Message: err.Error()}
		return
	}

	// The engine only knows inline flags.
	flags := ""
	if d.Modifiers.CaseInsensitive {
		flags += "i"
	}
	if d.Modifiers.Multiline {
		flags += "m"
	}
	if d.Modifiers.DotAll {
		flags += "s"
	}
	if d.Modifiers.Ungreedy {
		flags += "U"
	}

	body := d.Body
	if flags != "" {
		body = "(?" + flags + ")" + body
	}

	re, err := coregex.Compile(body)
	if err != nil {
		err = re2CompileError(err)
		return
	}

	p = &re2Program{re: re, utf: d.Modifiers.UTF}
	return
}

func re2CompileError(err error) *Error {
	var se *syntax.Error
	if errors.As(err, &se) {
		return &Error{Code: InternalError, Message: "Compilation failed: " + string(se.Code)}
	}
	return &Error{Code: InternalError, Message: "Compilation failed: " + err.Error()}
}

func (p *re2Program) FindFirst(text string) (loc []int, err error) {
	if p.utf && !utf8.ValidString(text) {
		err = &Error{Code: BadUTF8Error, Message: badUTF8Message}
		return
	}

	loc = p.re.FindStringSubmatchIndex(text)
	return
}

func (p *re2Program) FindAll(text string) (locs [][]int, err error) {
	if p.utf && !utf8.ValidString(text) {
		err = &Error{Code: BadUTF8Error, Message: badUTF8Message}
		return
	}

	locs = p.re.FindAllStringSubmatchIndex(text, -1)
	return
}
