// Package config loads and validates the Warden configuration from YAML
// files and environment variables, and hands the resulting immutable policy
// values to the guards.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/warden/pkg/errors"
	"github.com/odvcencio/warden/pkg/policy"
)

// Config represents the complete Warden configuration
type Config struct {
	System SystemConfig `yaml:"system"`
	Tools  ToolsConfig  `yaml:"tools"`
}

// SystemConfig holds system-wide settings
type SystemConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
	LogDir   string `yaml:"log_dir"`
}

// ToolsConfig groups the per-toolkit permission settings
type ToolsConfig struct {
	Terminal TerminalConfig `yaml:"terminal"`
	Files    FilesConfig    `yaml:"files"`
}

// TerminalConfig restricts shell command execution
type TerminalConfig struct {
	AllowedCommands []string `yaml:"allowed_commands"`
	BlockedCommands []string `yaml:"blocked_commands"`
	TimeoutSeconds  int      `yaml:"timeout"`
	WorkingDir      string   `yaml:"working_dir"`
}

// FilesConfig restricts filesystem access
type FilesConfig struct {
	AllowedPaths []string `yaml:"allowed_paths"`
	BlockedPaths []string `yaml:"blocked_paths"`
	MaxFileSize  int64    `yaml:"max_file_size"`
}

// Default returns the stock configuration: a short read-only command allow
// list, destructive command patterns blocked, file access restricted to the
// user's home directory and /tmp.
func Default() *Config {
	home, _ := os.UserHomeDir()
	allowedPaths := []string{"/tmp"}
	if home != "" {
		allowedPaths = append([]string{home}, allowedPaths...)
	}

	return &Config{
		System: SystemConfig{
			Name:     "warden",
			LogLevel: "info",
			LogDir:   filepath.Join(home, ".warden", "logs"),
		},
		Tools: ToolsConfig{
			Terminal: TerminalConfig{
				AllowedCommands: []string{"ls", "cat", "grep", "find", "ps", "pwd", "echo", "date"},
				BlockedCommands: []string{"rm -rf", "dd", "mkfs", "fdisk"},
				TimeoutSeconds:  30,
			},
			Files: FilesConfig{
				AllowedPaths: allowedPaths,
				BlockedPaths: []string{"/etc", "/boot", "/root", "/sys", "/proc"},
				MaxFileSize:  10 * 1024 * 1024,
			},
		},
	}
}

// Load reads configuration from path, falling back to the default search
// locations when path is empty, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "failed to read config file").
				WithContext("path", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigParse, "failed to parse config file").
				WithContext("path", path)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	home, _ := os.UserHomeDir()
	candidates := []string{
		"warden.yaml",
		filepath.Join(home, ".config", "warden", "config.yaml"),
		"/etc/warden/config.yaml",
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Environment variables override file settings. List-valued variables are
// comma-separated.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WARDEN_LOG_LEVEL"); v != "" {
		c.System.LogLevel = v
	}
	if v := os.Getenv("WARDEN_LOG_DIR"); v != "" {
		c.System.LogDir = v
	}
	if v := os.Getenv("WARDEN_ALLOWED_COMMANDS"); v != "" {
		c.Tools.Terminal.AllowedCommands = splitList(v)
	}
	if v := os.Getenv("WARDEN_BLOCKED_COMMANDS"); v != "" {
		c.Tools.Terminal.BlockedCommands = splitList(v)
	}
	if v := os.Getenv("WARDEN_COMMAND_TIMEOUT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Tools.Terminal.TimeoutSeconds = parsed
		}
	}
	if v := os.Getenv("WARDEN_WORKING_DIR"); v != "" {
		c.Tools.Terminal.WorkingDir = v
	}
	if v := os.Getenv("WARDEN_ALLOWED_PATHS"); v != "" {
		c.Tools.Files.AllowedPaths = splitList(v)
	}
	if v := os.Getenv("WARDEN_BLOCKED_PATHS"); v != "" {
		c.Tools.Files.BlockedPaths = splitList(v)
	}
	if v := os.Getenv("WARDEN_MAX_FILE_SIZE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Tools.Files.MaxFileSize = parsed
		}
	}
}

// Validate checks the configuration for values the guards cannot work with.
func (c *Config) Validate() error {
	if c.Tools.Terminal.TimeoutSeconds <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "terminal timeout must be positive").
			WithContext("timeout", c.Tools.Terminal.TimeoutSeconds)
	}
	if c.Tools.Files.MaxFileSize <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "max file size must be positive").
			WithContext("max_file_size", c.Tools.Files.MaxFileSize)
	}
	if len(c.Tools.Files.AllowedPaths) == 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "at least one allowed path is required")
	}
	return nil
}

// AccessPolicy builds the immutable filesystem policy from the file settings.
func (c *Config) AccessPolicy() policy.AccessPolicy {
	return policy.NewAccessPolicy(
		c.Tools.Files.AllowedPaths,
		c.Tools.Files.BlockedPaths,
		c.Tools.Files.MaxFileSize,
	)
}

// CommandPolicy builds the immutable command policy from the terminal
// settings.
func (c *Config) CommandPolicy() policy.CommandPolicy {
	return policy.NewCommandPolicy(
		c.Tools.Terminal.AllowedCommands,
		c.Tools.Terminal.BlockedCommands,
		time.Duration(c.Tools.Terminal.TimeoutSeconds)*time.Second,
		c.Tools.Terminal.WorkingDir,
	)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
