//go:build hyperscan

package hyperscan

import (
	"regexsolver/engine"
	"regexsolver/pattern"

	hs "github.com/flier/gohs/hyperscan"
	"github.com/rs/zerolog"
)

// PrefilterFactory implements the engine.PrefilterFactory interface.
type PrefilterFactory struct {
	logger zerolog.Logger

	// Optional on-disk cache of compiled databases
	cache DbCache
}

// Prefilter implements the engine.Prefilter interface.
type Prefilter struct {
	// Hyperscan's compiled database holding the single prefilter pattern
	db hs.BlockDatabase

	// Pre-allocated memory space that Hyperscan needs during evaluation
	scratch *hs.Scratch
}

// NewPrefilterFactory creates an engine.PrefilterFactory backed by Hyperscan. If cacheDir is
// not empty, compiled databases are kept there and reused across requests and restarts.
func NewPrefilterFactory(logger zerolog.Logger, cacheDir string) engine.PrefilterFactory {
	f := &PrefilterFactory{logger: logger}
	if cacheDir != "" {
		f.cache = NewDbCache(NewCacheFileSystem(cacheDir))
	}
	return f
}

// NewPrefilter compiles the pattern in prefilter mode.
func (f *PrefilterFactory) NewPrefilter(spec pattern.Spec) (pf engine.Prefilter, err error) {
	expr, m, err := prefilterExpr(spec)
	if err != nil {
		return
	}

	p := hs.NewPattern(expr, 0)

	// SingleMatch makes Hyperscan stop at the first match, which is all a prefilter needs.
	// PrefilterMode gives broader regex compatibility, at the cost of possible false positives. Potential matches therefore must be verified with the real engine.
	// Utf8Mode and UnicodeProperty follow the code point semantics of the pcre flavor. Only valid UTF-8 texts are ever scanned.
	p.Flags = hs.SingleMatch | hs.PrefilterMode | hs.AllowEmpty | hs.Utf8Mode | hs.UnicodeProperty
	if m.CaseInsensitive {
		p.Flags |= hs.Caseless
	}
	if m.Multiline {
		p.Flags |= hs.MultiLine
	}
	if m.DotAll {
		p.Flags |= hs.DotAll
	}

	h := &Prefilter{}
	h.db, err = f.loadOrCompile(p)
	if err != nil {
		f.logger.Debug().Err(err).Str("expr", expr).Msg("Hyperscan could not compile prefilter")
		return
	}

	h.scratch, err = hs.NewScratch(h.db)
	if err != nil {
		h.db.Close()
		return
	}

	pf = h
	return
}

func (f *PrefilterFactory) loadOrCompile(p *hs.Pattern) (db hs.BlockDatabase, err error) {
	var cacheID string
	if f.cache != nil {
		cacheID = f.cache.cacheID(p)
		if db = f.cache.loadFromCache(cacheID); db != nil {
			return
		}
	}

	db, err = hs.NewBlockDatabase(p)
	if err != nil {
		return
	}

	if f.cache != nil {
		f.cache.saveToCache(cacheID, db)
	}

	return
}

// MayMatch scans the text. Errors and empty texts are answered with true, so the real engine decides.
func (h *Prefilter) MayMatch(text string) bool {
	if text == "" {
		return true
	}

	matched := false
	handler := func(id uint, from, to uint64, flags uint, context interface{}) error {
		matched = true
		return nil
	}

	if err := h.db.Scan([]byte(text), h.scratch, handler, nil); err != nil {
		return true
	}

	return matched
}

// Close releases the database and the scratch space.
func (h *Prefilter) Close() {
	h.scratch.Free()
	h.db.Close()
}
