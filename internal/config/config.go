// Package config loads copysnap's project configuration from a
// copysnap.hujson file, adapted from calvinalkan-agent-task's config.go:
// JSON-with-comments via github.com/tailscale/hujson so the file can carry
// inline documentation, standardized to plain JSON before unmarshaling.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// FileName is the default config file name looked for in a snapshot store's
// root directory.
const FileName = "copysnap.hujson"

// Config holds copysnap's project-level configuration. Zero values mean
// "use the default" everywhere, so a Config read from an empty object ("{}")
// is valid; a file with no content at all fails to parse.
type Config struct {
	// IgnorePatterns lists doublestar glob patterns (see internal/ignore)
	// for paths to exclude from every snapshot.
	IgnorePatterns []string `json:"ignore_patterns,omitempty"`
	// HashAlgorithm names the content-digest algorithm used to detect
	// changed files. Currently only "sha256" is supported; empty means the
	// default.
	HashAlgorithm string `json:"hash_algorithm,omitempty"`
	// StoreDir is read from the config file and merged over the default,
	// but no copysnap command consults it: snapshots are always created in
	// and listed from the directory given by the --store flag.
	StoreDir string `json:"store_dir,omitempty"`
}

// Default returns copysnap's built-in configuration, used when no
// copysnap.hujson file is present.
func Default() Config {
	return Config{
		HashAlgorithm: "sha256",
	}
}

// Load reads and parses the copysnap.hujson file in dir, if one exists,
// merging it over Default. A missing file is not an error: Load returns
// Default(), "", nil.
func Load(dir string) (Config, string, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), "", nil
		}
		return Config{}, "", fmt.Errorf("read %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("parse %q: %w", path, err)
	}

	merged := Default()
	merged.merge(cfg)

	if err := merged.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("%q: %w", path, err)
	}

	return merged, path, nil
}

// Parse standardizes JSONC input to JSON and unmarshals it into a Config.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

// merge overlays any non-zero field of overlay onto c.
func (c *Config) merge(overlay Config) {
	if len(overlay.IgnorePatterns) > 0 {
		c.IgnorePatterns = overlay.IgnorePatterns
	}
	if overlay.HashAlgorithm != "" {
		c.HashAlgorithm = overlay.HashAlgorithm
	}
	if overlay.StoreDir != "" {
		c.StoreDir = overlay.StoreDir
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	switch c.HashAlgorithm {
	case "", "sha256":
		return nil
	default:
		return fmt.Errorf("unsupported hash_algorithm %q", c.HashAlgorithm)
	}
}

// Format renders cfg as indented JSON, for diagnostic display.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}
	return string(data), nil
}
