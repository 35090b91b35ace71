package config

import (
	"os"
	"path/filepath"
	"testing"

	"storagecore/internal/buffer"
)

func TestToTableOptionsMatchesConfig(t *testing.T) {
	cfg := Config{BufferPoolSize: 42, ReplacementPolicy: "fifo"}
	opts := cfg.ToTableOptions()
	if opts.BufferPoolSize != 42 {
		t.Fatalf("buffer pool size = %d, want 42", opts.BufferPoolSize)
	}
	if opts.Policy != buffer.FIFO {
		t.Fatalf("policy = %v, want FIFO", opts.Policy)
	}
}

func TestToIndexOptionsMatchesConfig(t *testing.T) {
	cfg := Config{BufferPoolSize: 7, ReplacementPolicy: "lfu"}
	opts := cfg.ToIndexOptions()
	if opts.BufferPoolSize != 7 {
		t.Fatalf("buffer pool size = %d, want 7", opts.BufferPoolSize)
	}
	if opts.Policy != buffer.LFU {
		t.Fatalf("policy = %v, want LFU", opts.Policy)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storagecore.yaml")
	body := "bufferPoolSize: 50\nreplacementPolicy: clock\nindexOrder: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PageSize != DefaultPageSize {
		t.Fatalf("page size = %d, want default %d", cfg.PageSize, DefaultPageSize)
	}
	if cfg.BufferPoolSize != 50 {
		t.Fatalf("buffer pool size = %d, want 50", cfg.BufferPoolSize)
	}
	if cfg.IndexOrder != 3 {
		t.Fatalf("index order = %d, want 3", cfg.IndexOrder)
	}
	if cfg.Policy() != buffer.CLOCK {
		t.Fatalf("policy = %v, want CLOCK", cfg.Policy())
	}
}

func TestPolicyDefaultsToLRU(t *testing.T) {
	cfg := Config{ReplacementPolicy: "bogus"}
	if cfg.Policy() != buffer.LRU {
		t.Fatalf("policy = %v, want LRU for unrecognized name", cfg.Policy())
	}
}
