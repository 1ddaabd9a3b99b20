package engine

import (
	"time"
)

type compilerImpl struct {
	matchTimeout time.Duration
}

// NewCompiler creates a Compiler for all flavors. A positive matchTimeout bounds the time a
// single pcre match may take; exceeding it is reported as a backtrack limit error.
func NewCompiler(matchTimeout time.Duration) Compiler {
	return &compilerImpl{matchTimeout: matchTimeout}
}

func (c *compilerImpl) Compile(flavor Flavor, expr string) (Program, error) {
	switch flavor {
	case RE2:
		return compileRE2(expr)
	default:
		return compilePCRE(expr, c.matchTimeout)
	}
}
