package hyperscan

import (
	"errors"

	"regexsolver/pattern"
)

var (
	// ErrUnsupported is returned for patterns whose modifiers the prefilter cannot honor.
	ErrUnsupported = errors.New("pattern modifiers not supported by the prefilter")

	// ErrUnavailable is returned when the binary was built without Hyperscan.
	ErrUnavailable = errors.New("hyperscan support not compiled in")
)

// prefilterExpr returns the pattern body to compile in prefilter mode, along with its modifiers.
// Possessive quantifiers are dropped, as Hyperscan has no atomic groups.
func prefilterExpr(spec pattern.Spec) (expr string, m pattern.Modifiers, err error) {
	d, err := pattern.ParseDelimited(spec.Expression(), pattern.PCREModifiers)
	if err != nil {
		return
	}

	m = d.Modifiers
	if m.Anchored || m.DollarEndOnly || m.Extended || m.Ungreedy {
		err = ErrUnsupported
		return
	}

	expr, err = pattern.ApproximatePCRE(d.Body, m)
	return
}
