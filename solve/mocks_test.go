package solve

import (
	"testing"
	"time"

	"regexsolver/engine"
	"regexsolver/pattern"
	"regexsolver/testutils"
)

func newTestSolver(t *testing.T) (s *solverImpl, rl *mockResultsLogger) {
	logger := testutils.NewTestLogger(t)
	rl = &mockResultsLogger{}
	invokers := engine.NewInvokerFactory(logger, engine.NewCompiler(time.Second))
	s = NewSolver(logger, invokers, nil, rl).(*solverImpl)
	return
}

type mockResultsLogger struct {
	requests  []Request
	responses []Response
}

func (l *mockResultsLogger) Solved(req Request, resp Response) {
	l.requests = append(l.requests, req)
	l.responses = append(l.responses, resp)
}

// mockInvoker returns the queued outcomes in order, then NoMatch.
type mockInvoker struct {
	outcomes []engine.Outcome
	specs    []pattern.Spec
	texts    []string
}

func (v *mockInvoker) Invoke(spec pattern.Spec, text string) engine.Outcome {
	v.specs = append(v.specs, spec)
	v.texts = append(v.texts, text)
	if len(v.outcomes) == 0 {
		return engine.Outcome{Kind: engine.NoMatch}
	}
	o := v.outcomes[0]
	v.outcomes = v.outcomes[1:]
	return o
}

type mockInvokerFactory struct {
	invoker *mockInvoker
	flavors []engine.Flavor
}

func (f *mockInvokerFactory) NewInvoker(flavor engine.Flavor) engine.Invoker {
	f.flavors = append(f.flavors, flavor)
	return f.invoker
}

type mockPrefilter struct {
	mayMatch map[string]bool
	closed   bool
	scanned  []string
}

func (p *mockPrefilter) MayMatch(text string) bool {
	p.scanned = append(p.scanned, text)
	return p.mayMatch[text]
}

func (p *mockPrefilter) Close() { p.closed = true }

type mockPrefilterFactory struct {
	prefilter *mockPrefilter
	err       error
}

func (f *mockPrefilterFactory) NewPrefilter(spec pattern.Spec) (engine.Prefilter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.prefilter, nil
}

// steppingClock returns times that advance by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}
