package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "cadmcp"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
	// EnvFile is the optional dotenv file read from the working directory
	EnvFile = ".env"
)

// Environment variables that override file values.
const (
	EnvBackend         = "CAD_BACKEND"
	EnvType            = "CAD_TYPE"
	EnvBridgeURL       = "CAD_BRIDGE_URL"
	EnvCommandDelayMs  = "CAD_COMMAND_DELAY_MS"
	EnvOutputDir       = "CAD_OUTPUT_DIR"
	EnvDefaultFilename = "CAD_DEFAULT_FILENAME"
	EnvLogLevel        = "CAD_LOG_LEVEL"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
	Getenv(key string) string
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (ConfigFileReader) Getenv(key string) string {
	return os.Getenv(key)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs      FileSystem
	path    string
	envFile string
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}, envFile: EnvFile}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs, envFile: EnvFile}
}

// WithPath makes the loader read an explicit config file instead of the dotfile.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// Load reads configuration from ~/.config/cadmcp/config.json (or the explicit path)
// and merges it with defaults, then applies dotenv and environment overrides.
// Returns default config if the dotfile doesn't exist.
// Returns error only for parse errors, permission issues, or validation failures.
//
// NOTE: This implementation unmarshals JSON keys directly over the default configuration.
// This allows explicit zero values (e.g., 0, false, "") in the config file to override defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := l.configPath()
	if err == nil {
		data, err := l.fs.ReadFile(configPath)
		switch {
		case err == nil:
			// Present keys overwrite defaults (even if zero), missing keys leave them untouched.
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		case os.IsNotExist(err) && l.path == "":
			// No dotfile, use defaults
		default:
			return nil, err
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) configPath() (string, error) {
	if l.path != "" {
		return l.path, nil
	}
	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return "", err // Use defaults if can't get home dir
	}
	return filepath.Join(homeDir, ".config", ConfigDir, ConfigFile), nil
}

// applyEnv layers the dotenv file under the process environment: a variable set in the
// real environment wins over the same key in .env.
func (l *Loader) applyEnv(cfg *Config) error {
	dotenv := map[string]string{}
	if l.envFile != "" {
		data, err := l.fs.ReadFile(l.envFile)
		if err == nil {
			dotenv, err = godotenv.Unmarshal(string(data))
			if err != nil {
				return fmt.Errorf("parse %s: %w", l.envFile, err)
			}
		} else if !os.IsNotExist(err) {
			return err
		}
	}

	lookup := func(key string) string {
		if v := l.fs.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	if v := lookup(EnvBackend); v != "" {
		cfg.CAD.Backend = strings.ToLower(v)
	}
	if v := lookup(EnvType); v != "" {
		cfg.CAD.Type = v
	}
	if v := lookup(EnvBridgeURL); v != "" {
		cfg.CAD.BridgeURL = v
	}
	if v := lookup(EnvCommandDelayMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %q", EnvCommandDelayMs, v)
		}
		cfg.CAD.CommandDelayMs = ms
	}
	if v := lookup(EnvOutputDir); v != "" {
		cfg.Output.Directory = v
	}
	if v := lookup(EnvDefaultFilename); v != "" {
		cfg.Output.DefaultFilename = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	return nil
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
