package logging

import (
	"encoding/json"

	"regexsolver/solve"

	"github.com/rs/zerolog"
)

// NewZerologResultsLogger creates a results logger that creates the same entries as the file results logger, but just outputs them to Zerolog.
func NewZerologResultsLogger(logger zerolog.Logger) solve.ResultsLogger {
	return &zerologResultsLogger{logger: logger}
}

type zerologResultsLogger struct {
	logger zerolog.Logger
}

func (l *zerologResultsLogger) Solved(req solve.Request, resp solve.Response) {
	if l.logger.Info() == nil {
		return
	}

	bb, err := json.MarshalIndent(newSolveLogEntry(req, resp), "", "  ")
	if err != nil {
		l.logger.Error().Err(err).Msg("Error while marshaling JSON results log")
		return
	}

	l.logger.Info().Msgf("Results log:\n%s\n", bb)
}
