package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level pgraph.yaml configuration.
type Config struct {
	// Stages toggles the optional pipeline stages.
	Stages Stages `yaml:"stages"`

	// MaxDepth bounds nested evaluation. Zero means DefaultMaxDepth.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// BaseDir resolves relative Import and file paths.
	// Relative BaseDir values are resolved against the config file's directory.
	BaseDir string `yaml:"base_dir,omitempty"`

	// Providers lists the native providers to enable, in dispatch order.
	// Defaults to all built-in providers.
	Providers []string `yaml:"providers,omitempty"`

	// HandleFunctions are native functions the type checker types as Handle.
	HandleFunctions []string `yaml:"handle_functions,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Stages configures which pipeline stages run before evaluation.
type Stages struct {
	Validate  bool `yaml:"validate"`
	TypeCheck bool `yaml:"typecheck"`
	Optimize  bool `yaml:"optimize"`

	// Strict refuses to evaluate a graph that produced diagnostics.
	Strict bool `yaml:"strict"`
}

var knownProviders = map[string]bool{
	IOModule:     true,
	MathModule:   true,
	BridgeModule: true,
}

var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Default returns the configuration used when no pgraph.yaml exists.
func Default() *Config {
	cfg := &Config{
		Stages: Stages{Validate: true, TypeCheck: true, Optimize: true},
	}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a pgraph.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.BaseDir) {
		cfg.BaseDir = filepath.Join(filepath.Dir(path), cfg.BaseDir)
	}
	return cfg, nil
}

// ParseConfig parses pgraph.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Config{
		Stages: Stages{Validate: true, TypeCheck: true, Optimize: true},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for pgraph.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%s: max_depth must not be negative, got %d", path, c.MaxDepth)
	}

	seen := make(map[string]bool)
	for i, p := range c.Providers {
		if !knownProviders[p] {
			return fmt.Errorf("%s: providers[%d]: unknown provider %q", path, i, p)
		}
		if seen[p] {
			return fmt.Errorf("%s: providers[%d]: provider %q listed twice", path, i, p)
		}
		seen[p] = true
	}

	for i, fn := range c.HandleFunctions {
		if strings.TrimSpace(fn) == "" {
			return fmt.Errorf("%s: handle_functions[%d]: name is required", path, i)
		}
	}

	if c.LogLevel != "" && !knownLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("%s: unknown log_level %q", path, c.LogLevel)
	}

	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.Providers == nil {
		c.Providers = []string{IOModule, MathModule, BridgeModule}
	}
	if c.HandleFunctions == nil {
		c.HandleFunctions = append([]string{}, DefaultHandleFunctions...)
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// IsHandleFunction reports whether name is configured as handle-producing.
func (c *Config) IsHandleFunction(name string) bool {
	for _, fn := range c.HandleFunctions {
		if fn == name {
			return true
		}
	}
	return false
}
