// Package cliconfig loads the checker's optional, purely ambient CLI
// configuration file. The checker itself never reads this package; it only
// affects how the driver in cmd/cflat-check reports results.
package cliconfig

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file cmd/cflat-check looks for in the
// current working directory.
const DefaultFileName = ".cflat-check.yaml"

// Config is the optional CLI configuration. A missing file behaves exactly
// like an empty one: both yield defaults().
type Config struct {
	// OutputStream names the stream verdicts are written to: "stdout" (the
	// default) or "stderr". It does not change which stream structural
	// errors use; those always go to stderr.
	OutputStream string `yaml:"outputStream"`

	// EchoStructuralToStdout additionally prints structural errors to
	// stdout with a "structural: " prefix, for tooling that only greps one
	// stream. Structural errors are still also printed to stderr and the
	// process still exits non-zero.
	EchoStructuralToStdout bool `yaml:"echoStructuralToStdout"`
}

// defaults mirrors the zero Config but spells out the default stream name
// explicitly, since "" is not a valid stream name to hand to the driver.
func defaults() Config {
	return Config{OutputStream: "stdout"}
}

// Load reads path, tolerating a missing file (returns defaults, no error).
// A malformed or unreadable-for-any-other-reason file is a hard error:
// defensive about absence, not about corruption.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults(), nil
		}
		return Config{}, fmt.Errorf("cliconfig: open %s: %w", path, err)
	}
	defer file.Close()

	cfg := defaults()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return defaults(), nil
		}
		return Config{}, fmt.Errorf("cliconfig: parse %s: %w", path, err)
	}

	if cfg.OutputStream != "stdout" && cfg.OutputStream != "stderr" {
		return Config{}, fmt.Errorf("cliconfig: %s: outputStream must be \"stdout\" or \"stderr\", got %q", path, cfg.OutputStream)
	}
	return cfg, nil
}
