// Package config loads the amanlog configuration: defaults, the user
// config file, an explicit --config file and AMANLOG_* environment
// overrides, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	logerrors "github.com/Aman-CERP/amanlog/internal/errors"
	"github.com/Aman-CERP/amanlog/internal/logging"
)

// CurrentVersion is the config schema version written by WriteYAML.
const CurrentVersion = 1

// Config represents the complete amanlog configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig configures the file and console sinks.
type LoggingConfig struct {
	// Verbose lowers the threshold from INFO to TRACE.
	Verbose bool `yaml:"verbose" json:"verbose"`
	// File is the active log file.
	File string `yaml:"file" json:"file"`
	// ArchivePattern names rotated files, e.g. archive/file.{}.log.
	ArchivePattern string `yaml:"archive_pattern" json:"archive_pattern"`
	// Gating is "console" (default) or "root".
	Gating string `yaml:"gating" json:"gating"`
	// ImmediateSync fsyncs the log file after every record.
	ImmediateSync bool `yaml:"immediate_sync" json:"immediate_sync"`
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Logging: LoggingConfig{
			File:           logging.DefaultLogPath,
			ArchivePattern: logging.DefaultArchivePattern,
			Gating:         logging.GateConsoleOnly.String(),
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/amanlog/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/amanlog/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "amanlog", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "amanlog", "config.yaml")
	}
	return filepath.Join(home, ".config", "amanlog", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds the effective configuration. explicitPath, when set, names a
// file that must exist; it overrides the user config.
func Load(explicitPath string) (*Config, error) {
	cfg := NewConfig()

	if UserConfigExists() {
		if err := cfg.loadYAML(GetUserConfigPath()); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if !fileExists(explicitPath) {
			return nil, logerrors.ConfigError(fmt.Sprintf("config file not found: %s", explicitPath), nil).
				WithDetail("path", explicitPath)
		}
		if err := cfg.loadYAML(explicitPath); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUserConfig loads the user configuration file over the defaults.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	if !UserConfigExists() {
		return nil, nil
	}
	cfg := NewConfig()
	if err := cfg.loadYAML(GetUserConfigPath()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML decodes path over c. Keys absent from the file keep their
// current values; unknown keys are rejected.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return logerrors.ConfigError("failed to read config file", err).WithDetail("path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return logerrors.ConfigError("failed to parse config file", err).WithDetail("path", path)
	}
	return nil
}

// applyEnvOverrides applies AMANLOG_* environment variable overrides.
// Unparseable booleans are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AMANLOG_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.Verbose = b
		}
	}
	if v := os.Getenv("AMANLOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("AMANLOG_ARCHIVE_PATTERN"); v != "" {
		c.Logging.ArchivePattern = v
	}
	if v := os.Getenv("AMANLOG_GATING"); v != "" {
		c.Logging.Gating = v
	}
	if v := os.Getenv("AMANLOG_IMMEDIATE_SYNC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.ImmediateSync = b
		}
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Logging.File) == "" {
		return logerrors.New(logerrors.ErrCodeInvalidLogPath, "logging.file must not be empty", nil)
	}
	if _, err := logging.ParseGatingMode(c.Logging.Gating); err != nil {
		return logerrors.ConfigError("invalid logging.gating", err)
	}
	return logging.DefaultRotationPolicy(c.Logging.ArchivePattern).Validate()
}

// ToLogging converts the configuration into logging.Config.
func (c *Config) ToLogging() (logging.Config, error) {
	gating, err := logging.ParseGatingMode(c.Logging.Gating)
	if err != nil {
		return logging.Config{}, logerrors.ConfigError("invalid logging.gating", err)
	}
	return logging.Config{
		Verbose:        c.Logging.Verbose,
		FilePath:       c.Logging.File,
		ArchivePattern: c.Logging.ArchivePattern,
		Gating:         gating,
		ImmediateSync:  c.Logging.ImmediateSync,
	}, nil
}

// WriteYAML writes the configuration to a YAML file, creating its directory.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return logerrors.InternalError("failed to marshal config", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return logerrors.IOError("failed to create config directory", err).WithDetail("path", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return logerrors.IOError("failed to write config file", err).WithDetail("path", path)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
