package solve

import (
	"time"

	"regexsolver/engine"

	"github.com/rs/zerolog"
)

// ResultsLogger is where the solver writes the outcome of every request.
type ResultsLogger interface {
	Solved(req Request, resp Response)
}

// Solver is the top level interface: it runs one decoded request and builds its response.
type Solver interface {
	Solve(req Request) Response
}

type solverImpl struct {
	logger        zerolog.Logger
	invokers      engine.InvokerFactory
	prefilters    engine.PrefilterFactory
	resultsLogger ResultsLogger
	now           func() time.Time
}

// NewSolver creates a Solver. prefilters may be nil, which disables the batch prefilter.
func NewSolver(logger zerolog.Logger, invokers engine.InvokerFactory, prefilters engine.PrefilterFactory, rl ResultsLogger) Solver {
	return &solverImpl{
		logger:        logger,
		invokers:      invokers,
		prefilters:    prefilters,
		resultsLogger: rl,
		now:           time.Now,
	}
}

func (s *solverImpl) Solve(req Request) (resp Response) {
	// Create a sub-logger with the request ID
	logger := s.logger.With().Str("requestID", string(req.ID)).Logger()

	if logger.Debug() != nil {
		logger.Debug().Str("expr", req.Pattern.Expression()).Bool("global", req.Pattern.Global).Str("flavor", string(req.Flavor)).Msg("Solving request")
		defer func() {
			evt := logger.Debug().Str("mode", resp.Mode).Float64("time", resp.Time)
			if resp.Error != nil {
				evt = evt.Str("error", resp.Error.Code.Category())
			}
			evt.Msg("Solved request")
		}()
	}

	inv := s.invokers.NewInvoker(req.Flavor)

	switch m := req.Mode.(type) {
	case BatchTests:
		resp = s.runBatch(logger, inv, req, m)
	case SingleText:
		resp = s.parseText(inv, req, m)
	default:
		resp = s.parseText(inv, req, SingleText{})
	}

	resp.ID = req.ID
	resp.Timestamp = s.now().Unix()

	if s.resultsLogger != nil {
		s.resultsLogger.Solved(req, resp)
	}

	return
}

func (s *solverImpl) parseText(inv engine.Invoker, req Request, m SingleText) (resp Response) {
	resp.Mode = ModeText

	var lastErr *engine.Error
	if m.Tool != nil {
		res, err := runTool(inv, req.Pattern, m.Text, m.Tool)
		resp.Tool = &res
		if err != nil {
			lastErr = err
		}
	}

	start := s.now()
	o := inv.Invoke(req.Pattern, m.Text)
	resp.Time = roundSeconds(s.now().Sub(start))

	switch o.Kind {
	case engine.Matched:
		resp.TextMatches = buildMatchEntries(m.Text, req.Unit, o.Matches)
	case engine.Failed:
		lastErr = o.Err
	}

	if resp.TextMatches == nil {
		resp.TextMatches = []MatchEntry{}
	}

	resp.Error = lastErr
	return
}

func (s *solverImpl) runBatch(logger zerolog.Logger, inv engine.Invoker, req Request, m BatchTests) (resp Response) {
	resp.Mode = ModeTests

	var pf engine.Prefilter
	if s.prefilters != nil && req.Flavor == engine.PCRE && len(m.Tests) > 0 {
		var err error
		pf, err = s.prefilters.NewPrefilter(req.Pattern)
		if err != nil {
			logger.Debug().Err(err).Msg("Batch prefilter disabled for this request")
			pf = nil
		} else {
			defer pf.Close()
		}
	}

	start := s.now()
	resp.TestMatches = runTests(inv, pf, req.Pattern, req.Unit, m.Tests)
	resp.Time = roundSeconds(s.now().Sub(start))

	return
}
