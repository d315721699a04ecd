// Package config loads user settings from ~/.offcpu/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GlobalConfig holds settings from ~/.offcpu/config.yaml.
type GlobalConfig struct {
	Tracer   TracerConfig   `yaml:"tracer"`
	Sampling SamplingConfig `yaml:"sampling"`
	Debug    DebugConfig    `yaml:"debug"`
}

// TracerConfig locates the stap driver and its default arguments.
type TracerConfig struct {
	// Path is the stap binary, looked up on PATH if not absolute.
	Path string `yaml:"path"`
	// Args are extra stap arguments used when -a is not given.
	Args string `yaml:"args"`
}

// SamplingConfig holds defaults for the sampling flags.
type SamplingConfig struct {
	MinElapsedUS int `yaml:"min_elapsed_us"`
	Limit        int `yaml:"limit"`
}

// DebugConfig controls the on-disk debug log.
type DebugConfig struct {
	// RetentionDays is how many days of debug logs to keep (0 = keep all).
	RetentionDays int `yaml:"retention_days"`
}

// DefaultGlobalConfig returns the default global configuration.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Tracer: TracerConfig{
			Path: "stap",
		},
		Sampling: SamplingConfig{
			MinElapsedUS: 4,
			Limit:        1024,
		},
		Debug: DebugConfig{
			RetentionDays: 14,
		},
	}
}

// LoadGlobal reads ~/.offcpu/config.yaml and applies environment overrides.
// A missing file yields the defaults. A malformed file or a non-numeric
// override is skipped, and the returned error describes what was skipped.
func LoadGlobal() (*GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	var loadErr error
	path := GlobalConfigPath()
	if data, err := os.ReadFile(path); err == nil {
		parsed := DefaultGlobalConfig()
		if err := yaml.Unmarshal(data, parsed); err != nil {
			loadErr = fmt.Errorf("parsing %s: %w", path, err)
		} else {
			cfg = parsed
		}
	}

	if v := os.Getenv("OFFCPU_STAP"); v != "" {
		cfg.Tracer.Path = v
	}
	if v, ok := os.LookupEnv("OFFCPU_STAP_ARGS"); ok {
		cfg.Tracer.Args = v
	}
	if err := envInt("OFFCPU_MIN_ELAPSED", &cfg.Sampling.MinElapsedUS); err != nil {
		loadErr = errors.Join(loadErr, err)
	}
	if err := envInt("OFFCPU_LIMIT", &cfg.Sampling.Limit); err != nil {
		loadErr = errors.Join(loadErr, err)
	}

	return cfg, loadErr
}

// envInt sets *dst from the integer environment variable key. An unset or
// empty variable leaves *dst alone, as does one that is not a number.
func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("ignoring %s=%q: not an integer", key, v)
	}
	*dst = n
	return nil
}

// GlobalConfigDir returns the path to ~/.offcpu.
func GlobalConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".offcpu")
	}
	return filepath.Join(homeDir, ".offcpu")
}

// GlobalConfigPath returns the path to ~/.offcpu/config.yaml.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// DebugDir returns the directory holding debug logs.
func DebugDir() string {
	return filepath.Join(GlobalConfigDir(), "debug")
}
