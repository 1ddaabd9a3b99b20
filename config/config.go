package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"regexsolver/engine"
	"regexsolver/offset"

	"gopkg.in/yaml.v3"
)

// Main is the top level configuration.
type Main struct {
	LogLevel   string `yaml:"logLevel"`
	ResultsLog string `yaml:"resultsLog"`
	HTTP       HTTP   `yaml:"http"`
	GRPC       GRPC   `yaml:"grpc"`
	Engine     Engine `yaml:"engine"`
}

// HTTP configures the HTTP endpoint. An empty Address disables it.
type HTTP struct {
	Address        string `yaml:"address"`
	MaxBodyBytes   int64  `yaml:"maxBodyBytes"`
	MaxConnections int    `yaml:"maxConnections"`
}

// GRPC configures the gRPC endpoint. An empty Address disables it.
type GRPC struct {
	Address string `yaml:"address"`
}

// Engine configures pattern compilation and matching.
type Engine struct {
	MatchTimeout      time.Duration `yaml:"matchTimeout"`
	CacheSize         int           `yaml:"cacheSize"`
	Prefilter         bool          `yaml:"prefilter"`
	PrefilterCacheDir string        `yaml:"prefilterCacheDir"`
	Flavor            string        `yaml:"flavor"`
	Unit              string        `yaml:"unit"`
}

// Default returns the configuration used when no file is given.
func Default() Main {
	return Main{
		LogLevel: "info",
		HTTP: HTTP{
			Address:        ":8080",
			MaxBodyBytes:   1024 * 1024 * 4,
			MaxConnections: 256,
		},
		GRPC: GRPC{
			Address: ":37291",
		},
		Engine: Engine{
			MatchTimeout: 2 * time.Second,
			CacheSize:    512,
			Prefilter:    true,
			Flavor:       string(engine.PCRE),
			Unit:         string(offset.CodePoint),
		},
	}
}

// Load reads a YAML config file. Keys that are not set keep their defaults.
func Load(path string) (c Main, err error) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a YAML config from r on top of the defaults. Unknown keys are an error.
func Decode(r io.Reader) (c Main, err error) {
	c = Default()

	bb, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(bytes.TrimSpace(bb)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(bb))
		dec.KnownFields(true)
		if err = dec.Decode(&c); err != nil {
			err = fmt.Errorf("invalid config: %w", err)
			return
		}
	}

	err = c.Validate()
	return
}

// Validate checks values that cannot be expressed in the YAML types.
func (c Main) Validate() error {
	if _, err := engine.ParseFlavor(c.Engine.Flavor); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := offset.ParseUnit(c.Engine.Unit); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Engine.MatchTimeout < 0 {
		return fmt.Errorf("invalid config: matchTimeout must not be negative")
	}

	if c.HTTP.Address == "" && c.GRPC.Address == "" {
		return fmt.Errorf("invalid config: at least one of http.address and grpc.address must be set")
	}

	return nil
}
