package engine

import (
	"fmt"

	"regexsolver/pattern"
)

// Flavor selects the regex engine a pattern is compiled with.
type Flavor string

// Supported flavors.
const (
	PCRE Flavor = "pcre"
	RE2  Flavor = "re2"
)

// ParseFlavor resolves a flavor name. The empty name selects PCRE.
func ParseFlavor(s string) (f Flavor, err error) {
	switch Flavor(s) {
	case "", PCRE:
		f = PCRE
	case RE2:
		f = RE2
	default:
		err = fmt.Errorf("unknown flavor %q", s)
	}
	return
}

// Program is a compiled pattern. Locations are byte offset pairs into the text, group 0 first,
// with -1 for groups that did not participate in the match.
type Program interface {
	// FindFirst returns the leftmost match, or nil if there is none.
	FindFirst(text string) ([]int, error)

	// FindAll returns all non-overlapping matches, left to right.
	FindAll(text string) ([][]int, error)
}

// Compiler compiles delimited expressions such as "/a+b/i" into Programs.
type Compiler interface {
	Compile(flavor Flavor, expr string) (Program, error)
}

// OutcomeKind tells the three possible results of an invocation apart.
type OutcomeKind int

// Outcome kinds.
const (
	NoMatch OutcomeKind = iota
	Matched
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Failed:
		return "failed"
	}
	return "nomatch"
}

// Outcome is the result of one invocation. Matches is set only for Matched, Err only for Failed.
type Outcome struct {
	Kind    OutcomeKind
	Matches [][]int
	Err     *Error
}

// Invoker runs one pattern against one text. Diagnostics raised by the engine during the call
// are returned in the Outcome and never carried over to another call.
type Invoker interface {
	Invoke(spec pattern.Spec, text string) Outcome
}

// InvokerFactory creates Invokers for a flavor.
type InvokerFactory interface {
	NewInvoker(flavor Flavor) Invoker
}

// Prefilter quickly rules out texts that cannot match a pattern.
type Prefilter interface {
	// MayMatch returns false only if the text certainly does not match.
	MayMatch(text string) bool
	Close()
}

// PrefilterFactory builds Prefilters. It returns an error for patterns it cannot handle.
type PrefilterFactory interface {
	NewPrefilter(spec pattern.Spec) (Prefilter, error)
}
