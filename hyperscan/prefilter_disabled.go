//go:build !hyperscan

package hyperscan

import (
	"regexsolver/engine"
	"regexsolver/pattern"

	"github.com/rs/zerolog"
)

type disabledPrefilterFactory struct{}

// NewPrefilterFactory returns a factory that never builds a prefilter. Build with the
// "hyperscan" tag to enable Hyperscan.
func NewPrefilterFactory(logger zerolog.Logger, cacheDir string) engine.PrefilterFactory {
	logger.Info().Msg("Hyperscan support not compiled in, batch prefilter unavailable")
	return &disabledPrefilterFactory{}
}

func (f *disabledPrefilterFactory) NewPrefilter(spec pattern.Spec) (engine.Prefilter, error) {
	return nil, ErrUnavailable
}
