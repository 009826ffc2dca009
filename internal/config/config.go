// Package config provides unified configuration loading for worddiff.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PixelogicMedia/worddiff/internal/logging"
	"github.com/PixelogicMedia/worddiff/pkg/convert"
	"github.com/PixelogicMedia/worddiff/pkg/customword"
	"github.com/PixelogicMedia/worddiff/pkg/word"
)

// DirName is the per-user directory holding config.yaml and trace logs.
const DirName = ".worddiff"

// WorddiffConfig contains all worddiff configuration settings.
type WorddiffConfig struct {
	// Diff contains the defaults applied to every diff.
	Diff DiffConfig `json:"diff" yaml:"diff"`

	// Output controls how edit scripts are rendered.
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// DiffConfig configures tokenization and comparison.
type DiffConfig struct {
	// BoundaryPattern is installed as the custom token boundary pattern.
	// It is not validated here; a bad pattern fails the first diff.
	BoundaryPattern string `json:"boundary_pattern,omitempty" yaml:"boundary_pattern,omitempty"`

	// LiteralTokens, when BoundaryPattern is empty, are turned into a
	// pattern that keeps each token whole, e.g. ["(VO)", "(ON)", "(OFF)"].
	LiteralTokens []string `json:"literal_tokens,omitempty" yaml:"literal_tokens,omitempty"`

	// Mode is "words" (whitespace runs compare equal) or "words_with_space".
	Mode string `json:"mode" yaml:"mode"`

	// IgnoreCase compares tokens case-insensitively.
	IgnoreCase bool `json:"ignore_case" yaml:"ignore_case"`

	// IgnoreWhitespace overrides the mode's whitespace default when set.
	IgnoreWhitespace *bool `json:"ignore_whitespace,omitempty" yaml:"ignore_whitespace,omitempty"`

	// MaxEditLength caps the diff search. 0 means unlimited.
	MaxEditLength int `json:"max_edit_length,omitempty" yaml:"max_edit_length,omitempty"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	// Format is one of xml, json, dmp, plain, color.
	Format string `json:"format" yaml:"format"`
}

// LoggingConfig configures worddiff's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables the diff trace log in ~/.worddiff/diffs.jsonl.
	// "trace" additionally records the diffed texts.
	Level string `json:"level" yaml:"level"`
}

// Default returns a WorddiffConfig with sensible defaults.
func Default() *WorddiffConfig {
	return &WorddiffConfig{
		Diff: DiffConfig{
			Mode: customword.Words.String(),
		},
		Output: OutputConfig{
			Format: string(convert.FormatXML),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the per-user worddiff directory (~/.worddiff).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.worddiff/config.yaml -> environment variables
func Load() (*WorddiffConfig, error) {
	config := Default()

	dir, err := Dir()
	if err == nil {
		configPath := filepath.Join(dir, "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadPath loads path when it is non-empty and falls back to Load otherwise.
// Environment overrides apply in both cases.
func LoadPath(path string) (*WorddiffConfig, error) {
	if path == "" {
		return Load()
	}
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*WorddiffConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
// The boundary pattern is deliberately left unchecked.
func (c *WorddiffConfig) Validate() error {
	if _, err := customword.ParseMode(c.Diff.Mode); err != nil {
		return fmt.Errorf("diff.mode: %w", err)
	}
	if c.Diff.MaxEditLength < 0 {
		return fmt.Errorf("diff.max_edit_length must be >= 0, got %d", c.Diff.MaxEditLength)
	}
	if !convert.Format(c.Output.Format).Valid() {
		return fmt.Errorf("output.format must be one of %v, got %q", convert.Formats, c.Output.Format)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be info, debug or trace, got %q", c.Logging.Level)
	}
	return nil
}

// Pattern returns the boundary pattern to install, built from
// LiteralTokens when BoundaryPattern is empty. "" means none.
func (d DiffConfig) Pattern() string {
	if d.BoundaryPattern != "" {
		return d.BoundaryPattern
	}
	if len(d.LiteralTokens) > 0 {
		return customword.LiteralTokenPattern(d.LiteralTokens...)
	}
	return ""
}

// Options returns the per-call diff options described by the config.
// The boundary pattern is not included; it belongs in a Registry.
func (d DiffConfig) Options() *word.Options {
	opts := &word.Options{
		IgnoreCase:    d.IgnoreCase,
		MaxEditLength: d.MaxEditLength,
	}
	if d.IgnoreWhitespace != nil {
		opts.IgnoreWhitespace = word.Bool(*d.IgnoreWhitespace)
	}
	return opts
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *WorddiffConfig) {
	if v := os.Getenv("WORDDIFF_BOUNDARY_PATTERN"); v != "" {
		config.Diff.BoundaryPattern = v
	}

	if v := os.Getenv("WORDDIFF_LITERAL_TOKENS"); v != "" {
		config.Diff.LiteralTokens = splitList(v)
	}

	if v := os.Getenv("WORDDIFF_MODE"); v != "" {
		config.Diff.Mode = v
	}

	if v := os.Getenv("WORDDIFF_IGNORE_CASE"); v != "" {
		config.Diff.IgnoreCase = v == "true" || v == "1"
	}

	if v := os.Getenv("WORDDIFF_IGNORE_WHITESPACE"); v != "" {
		config.Diff.IgnoreWhitespace = word.Bool(v == "true" || v == "1")
	}

	if v := os.Getenv("WORDDIFF_MAX_EDIT_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Diff.MaxEditLength = n
		}
	}

	if v := os.Getenv("WORDDIFF_FORMAT"); v != "" {
		config.Output.Format = v
	}

	if v := os.Getenv("WORDDIFF_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
