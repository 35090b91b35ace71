// Package config loads the optional storagecore.yaml file that tunes the
// ambient defaults (buffer pool size, replacement policy, index order) the
// rest of the module otherwise hard-codes. pageSize is decoded into
// Config.PageSize but nothing applies it: diskmgr.PageSize is a fixed
// constant. It follows the same "decode a small YAML document with
// yaml.v3" idiom the teacher repo uses for its own test fixtures.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"storagecore/internal/buffer"
	"storagecore/internal/index"
	"storagecore/internal/record"
)

// Defaults mirror the values spec.md names directly: PageSize=4096,
// BufferPoolSize=100, ReplacementPolicy=LRU, IndexOrder=2.
const (
	DefaultPageSize          = 4096
	DefaultBufferPoolSize    = 100
	DefaultReplacementPolicy = "lru"
	DefaultIndexOrder        = 2
)

// Config holds the tunable knobs for a storagecore deployment.
type Config struct {
	PageSize          int    `yaml:"pageSize"`
	BufferPoolSize    int    `yaml:"bufferPoolSize"`
	ReplacementPolicy string `yaml:"replacementPolicy"`
	IndexOrder        int    `yaml:"indexOrder"`
}

// Default returns the hard-coded defaults spec.md assumes absent any
// configuration file.
func Default() Config {
	return Config{
		PageSize:          DefaultPageSize,
		BufferPoolSize:    DefaultBufferPoolSize,
		ReplacementPolicy: DefaultReplacementPolicy,
		IndexOrder:        DefaultIndexOrder,
	}
}

// Load reads and decodes a YAML config file at path, filling in any
// field the file omits with its default. A missing file is not an
// error: Load simply returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %q: %w", path, err)
	}

	var fromFile Config
	if err := yaml.Unmarshal(b, &fromFile); err != nil {
		return cfg, fmt.Errorf("load config %q: %w", path, err)
	}
	if fromFile.PageSize != 0 {
		cfg.PageSize = fromFile.PageSize
	}
	if fromFile.BufferPoolSize != 0 {
		cfg.BufferPoolSize = fromFile.BufferPoolSize
	}
	if fromFile.ReplacementPolicy != "" {
		cfg.ReplacementPolicy = fromFile.ReplacementPolicy
	}
	if fromFile.IndexOrder != 0 {
		cfg.IndexOrder = fromFile.IndexOrder
	}
	return cfg, nil
}

// Policy parses the configured replacement policy name into a
// buffer.Policy, defaulting to LRU for an unrecognized or empty value.
func (c Config) Policy() buffer.Policy {
	switch c.ReplacementPolicy {
	case "fifo":
		return buffer.FIFO
	case "clock":
		return buffer.CLOCK
	case "lfu":
		return buffer.LFU
	default:
		return buffer.LRU
	}
}

// ToTableOptions builds the record.Options openTable needs directly from
// a loaded Config, so callers never thread YAML through the record
// package's API.
func (c Config) ToTableOptions() record.Options {
	return record.Options{BufferPoolSize: c.BufferPoolSize, Policy: c.Policy()}
}

// ToIndexOptions builds the index.Options openIndex needs directly from a
// loaded Config. IndexOrder is not a buffer pool setting: it is the n that
// callers pass to CreateIndex, which records it in page 0. The tree holds
// at most two keys per node whatever n is.
func (c Config) ToIndexOptions() index.Options {
	return index.Options{BufferPoolSize: c.BufferPoolSize, Policy: c.Policy()}
}
