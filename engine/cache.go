package engine

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ProgramCache is a cache for compiled programs, shared by all requests.
type ProgramCache interface {
	Compiler
	Len() int
}

type programCacheImpl struct {
	logger   zerolog.Logger
	compiler Compiler
	size     int

	mu       sync.Mutex
	programs map[string]Program
	order    []string // cache ids, oldest first

	group singleflight.Group
}

// NewProgramCache creates a ProgramCache holding at most size programs compiled by the given Compiler.
// Compile failures are not cached.
func NewProgramCache(logger zerolog.Logger, compiler Compiler, size int) ProgramCache {
	return &programCacheImpl{
		logger:   logger,
		compiler: compiler,
		size:     size,
		programs: make(map[string]Program),
	}
}

func (c *programCacheImpl) cacheID(flavor Flavor, expr string) string {
	hash := sha1.New()
	io.WriteString(hash, string(flavor))
	io.WriteString(hash, "\x00")
	io.WriteString(hash, expr)
	return hex.EncodeToString(hash.Sum(nil))
}

func (c *programCacheImpl) Compile(flavor Flavor, expr string) (p Program, err error) {
	cacheID := c.cacheID(flavor, expr)
	if p = c.loadFromCache(cacheID); p != nil {
		return
	}

	// Concurrent requests for the same pattern share one compilation.
	v, err, _ := c.group.Do(cacheID, func() (interface{}, error) {
		if p := c.loadFromCache(cacheID); p != nil {
			return p, nil
		}

		p, err := c.compiler.Compile(flavor, expr)
		if err != nil {
			return nil, err
		}

		c.saveToCache(cacheID, p)
		return p, nil
	})
	if err != nil {
		return
	}

	p = v.(Program)
	return
}

func (c *programCacheImpl) loadFromCache(cacheID string) Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.programs[cacheID]
}

func (c *programCacheImpl) saveToCache(cacheID string, p Program) {
	if c.size <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.order) >= c.size {
		delete(c.programs, c.order[0])
		c.order = c.order[1:]
	}

	c.programs[cacheID] = p
	c.order = append(c.order, cacheID)
	c.logger.Debug().Str("cacheID", cacheID).Int("cached", len(c.order)).Msg("Cached compiled program")
}

// Len returns the number of cached programs.
func (c *programCacheImpl) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}
