package csmt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eth2030/csmt/field"
)

// HasherKind selects which Hasher implementation Config.NewHasher builds.
type HasherKind string

const (
	// HasherPoseidon is the module's default, width-3 Poseidon hasher.
	HasherPoseidon HasherKind = "poseidon"
)

// Config holds the settings needed to stand up a durable tree, validated the
// way the teacher's node.Config.Validate validates node startup config.
type Config struct {
	// Depth is the tree's fixed path bit-width, in (0, field.Bits]. Validate
	// (and so OpenTree) rejects zero; only NewHasher treats zero as
	// field.Bits.
	Depth int
	// DataDir is the root directory for the pebble-backed node/value
	// tables.
	DataDir string
	// Hasher selects the hash algorithm; empty selects HasherPoseidon.
	Hasher HasherKind
	// CacheBytes sizes the PebbleStore's fastcache read cache.
	CacheBytes int
}

// DefaultConfig returns a Config with sensible defaults, mirroring the
// teacher's node.DefaultConfig.
func DefaultConfig() Config {
	return Config{
		Depth:      field.Bits,
		DataDir:    defaultDataDir(),
		Hasher:     HasherPoseidon,
		CacheBytes: 32 << 20,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".csmt"
	}
	return filepath.Join(home, ".csmt")
}

// Validate reports whether c is well-formed, following the same
// fail-fast-before-doing-any-work convention as the teacher's node config.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("csmt: config: datadir must not be empty")
	}
	if c.Depth <= 0 || c.Depth > field.Bits {
		return fmt.Errorf("csmt: config: invalid depth %d (must be in (0, %d])", c.Depth, field.Bits)
	}
	if c.CacheBytes < 0 {
		return fmt.Errorf("csmt: config: invalid cache size %d", c.CacheBytes)
	}
	switch c.Hasher {
	case "", HasherPoseidon:
	default:
		return fmt.Errorf("csmt: config: unknown hasher %q", c.Hasher)
	}
	return nil
}

// InitDataDir creates c.DataDir if absent.
func (c *Config) InitDataDir() error {
	if c.DataDir == "" {
		return errors.New("csmt: config: datadir must not be empty")
	}
	if err := os.MkdirAll(c.DataDir, 0700); err != nil {
		return fmt.Errorf("csmt: config: create datadir: %w", err)
	}
	return nil
}

// NewHasher builds the Hasher c selects.
func (c *Config) NewHasher() Hasher {
	depth := c.Depth
	if depth == 0 {
		depth = field.Bits
	}
	return NewPoseidonHasher(depth)
}

// OpenTree validates c, ensures its data directory exists, opens a
// PebbleStore under it, and returns a Tree over that store.
func (c *Config) OpenTree() (*Tree, *PebbleStore, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	if err := c.InitDataDir(); err != nil {
		return nil, nil, err
	}
	store, err := OpenPebbleStore(c.DataDir, c.CacheBytes)
	if err != nil {
		return nil, nil, err
	}
	tree, err := New(store, c.NewHasher())
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return tree, store, nil
}
