// Package config handles the XDG configuration directory, the optional
// config.toml file and the task file location.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional TOML settings filename.
	ConfigFile = "config.toml"

	// BackendJSON stores the list as a JSON document.
	BackendJSON = "json"

	// BackendSQLite stores the list in a SQLite database file.
	BackendSQLite = "sqlite"

	// CorruptSuffix is appended to a task file that could not be loaded.
	CorruptSuffix = ".corrupt"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// DataFile is the task file. Relative paths resolve against Dir.
	DataFile string `toml:"data_file"`

	// Backend selects the storage format: "json" or "sqlite".
	Backend string `toml:"backend"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFormat is one of text, json, logfmt.
	LogFormat string `toml:"log_format"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`
}

// New creates a Config for the default or specified config directory and
// applies config.toml from that directory when present.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:       dir,
		Backend:   BackendJSON,
		LogLevel:  "info",
		LogFormat: "text",
	}

	path := cfg.FilePath()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Validate checks settings that cannot be corrected silently.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// DataPath returns the path to the task file.
func (c *Config) DataPath() string {
	name := c.DataFile
	if name == "" {
		name = "tasks.json"
		if c.Backend == BackendSQLite {
			name = "tasks.db"
		}
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// QuarantinePath returns where an unreadable task file is moved.
func (c *Config) QuarantinePath() string {
	return c.DataPath() + CorruptSuffix
}

// HasData checks if the task file exists.
func (c *Config) HasData() bool {
	_, err := os.Stat(c.DataPath())
	return err == nil
}
