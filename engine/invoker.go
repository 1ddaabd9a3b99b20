package engine

import (
	"fmt"

	"regexsolver/pattern"

	"github.com/rs/zerolog"
)

type invokerFactoryImpl struct {
	logger   zerolog.Logger
	compiler Compiler
}

// NewInvokerFactory creates an InvokerFactory whose Invokers compile patterns with the given Compiler.
func NewInvokerFactory(logger zerolog.Logger, compiler Compiler) InvokerFactory {
	return &invokerFactoryImpl{
		logger:   logger,
		compiler: compiler,
	}
}

func (f *invokerFactoryImpl) NewInvoker(flavor Flavor) Invoker {
	return &invokerImpl{
		logger:   f.logger,
		compiler: f.compiler,
		flavor:   flavor,
	}
}

type invokerImpl struct {
	logger   zerolog.Logger
	compiler Compiler
	flavor   Flavor
}

// Invoke compiles the pattern and runs the find-all primitive if it is global, else find-first.
func (v *invokerImpl) Invoke(spec pattern.Spec, text string) (o Outcome) {
	// Each call owns its capture scope. A panic inside the engine closes it with an internal error.
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error().Str("flavor", string(v.flavor)).Str("expr", spec.Expression()).Interface("panic", r).Msg("Regex engine panicked")
			o = Outcome{Kind: Failed, Err: &Error{Code: InternalError, Message: fmt.Sprint(r)}}
		}
	}()

	p, err := v.compiler.Compile(v.flavor, spec.Expression())
	if err != nil {
		o = v.failed(spec, err)
		return
	}

	var matches [][]int
	if spec.Global {
		matches, err = p.FindAll(text)
	} else {
		var loc []int
		loc, err = p.FindFirst(text)
		if loc != nil {
			matches = [][]int{loc}
		}
	}

	if err != nil {
		o = v.failed(spec, err)
		return
	}

	if len(matches) == 0 {
		o = Outcome{Kind: NoMatch}
		return
	}

	o = Outcome{Kind: Matched, Matches: matches}
	return
}

func (v *invokerImpl) failed(spec pattern.Spec, err error) Outcome {
	e := toError(err)
	v.logger.Debug().Str("flavor", string(v.flavor)).Str("expr", spec.Expression()).Str("code", e.Code.Name()).Msg(e.Message)
	return Outcome{Kind: Failed, Err: e}
}
