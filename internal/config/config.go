// Package config holds compiler-wide constants and the lyra.yaml project
// configuration.
//
// The configuration controls surface-level behavior of the checker:
//   - which recoverable warnings are emitted
//   - whether the trailing-function-literal recovery pass runs
//
// All fields default to the behavior the language specifies; lyra.yaml only
// needs to exist when a project wants to deviate.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Warnings toggles individual warning diagnostics.
type Warnings struct {
	// UnnecessarySafeCall reports `?.` on a receiver that is statically non-null.
	UnnecessarySafeCall *bool `yaml:"unnecessary_safe_call,omitempty"`

	// DanglingFunctionLiteral reports a trailing block that resolution only
	// succeeds without, i.e. a suspected misplaced function literal.
	DanglingFunctionLiteral *bool `yaml:"dangling_function_literal,omitempty"`
}

// Config represents the top-level lyra.yaml configuration.
type Config struct {
	Warnings Warnings `yaml:"warnings,omitempty"`

	// TrailingLiteralRecovery enables the retry pass that strips trailing
	// function literals from failing calls. Defaults to true.
	TrailingLiteralRecovery *bool `yaml:"trailing_literal_recovery,omitempty"`
}

// Default returns the configuration used when no lyra.yaml is present.
func Default() *Config {
	return &Config{}
}

// WarnUnnecessarySafeCall reports whether the redundant-safe-call warning is on.
func (c *Config) WarnUnnecessarySafeCall() bool {
	if c == nil || c.Warnings.UnnecessarySafeCall == nil {
		return true
	}
	return *c.Warnings.UnnecessarySafeCall
}

// WarnDanglingFunctionLiteral reports whether the dangling-literal warning is on.
func (c *Config) WarnDanglingFunctionLiteral() bool {
	if c == nil || c.Warnings.DanglingFunctionLiteral == nil {
		return true
	}
	return *c.Warnings.DanglingFunctionLiteral
}

// RecoverTrailingLiterals reports whether the stripped-literal retry pass runs.
func (c *Config) RecoverTrailingLiterals() bool {
	if c == nil || c.TrailingLiteralRecovery == nil {
		return true
	}
	return *c.TrailingLiteralRecovery
}

// Parse parses lyra.yaml content.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadForFile looks for lyra.yaml in the directory of the given source file
// and returns the default configuration if none exists.
func LoadForFile(sourcePath string) (*Config, error) {
	dir := filepath.Dir(sourcePath)
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return Parse(data, path)
}
