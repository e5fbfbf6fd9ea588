// Package config loads eqg configuration from .eqg/config.yaml, merging it
// with defaults and validating the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the eqg configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the eqg configuration directory
const ConfigDirName = ".eqg"

// Config holds all eqg configuration
type Config struct {
	Render RenderConfig `yaml:"render"`
	Output OutputConfig `yaml:"output"`
}

// RenderConfig holds configuration for graph compilation and layout
type RenderConfig struct {
	Direction       string  `yaml:"direction"`
	NodeSpacing     float64 `yaml:"node_spacing"`
	LevelIterations int     `yaml:"level_iterations"`
	EdgeLabelLimit  int     `yaml:"edge_label_limit"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `yaml:"format"`
	Pretty bool   `yaml:"pretty"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .eqg/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		// No config dir found, return defaults
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .eqg directory by walking up from startDir.
// Returns the path to the .eqg directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .eqg directory if it doesn't exist.
// Returns the path to the .eqg directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if cfg.Render.Direction != "TD" && cfg.Render.Direction != "LR" {
		return fmt.Errorf("%w: render direction must be TD or LR, got %q",
			ErrInvalidConfig, cfg.Render.Direction)
	}

	if cfg.Render.NodeSpacing <= 0 {
		return fmt.Errorf("%w: node_spacing must be positive, got %f",
			ErrInvalidConfig, cfg.Render.NodeSpacing)
	}

	if cfg.Render.LevelIterations <= 0 {
		return fmt.Errorf("%w: level_iterations must be positive, got %d",
			ErrInvalidConfig, cfg.Render.LevelIterations)
	}

	if cfg.Render.EdgeLabelLimit <= 0 {
		return fmt.Errorf("%w: edge_label_limit must be positive, got %d",
			ErrInvalidConfig, cfg.Render.EdgeLabelLimit)
	}

	if !IsValidFormat(cfg.Output.Format) {
		return fmt.Errorf("%w: output format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.Format)
	}

	return nil
}

// SaveDefault writes the default configuration to .eqg/config.yaml in workDir.
// Creates the .eqg directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# eqg configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
