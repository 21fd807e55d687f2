// Package config loads tasklist settings from defaults, ~/.tasklist/config.yaml,
// TASKLIST_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. TASKLIST_API_URL.
const EnvPrefix = "TASKLIST"

const (
	DefaultAPIURL   = "http://127.0.0.1:7467/tasks"
	DefaultListen   = "127.0.0.1:7467"
	DefaultBasePath = "/tasks"
	DefaultLogLevel = "info"
)

// Config holds every tasklist setting.
type Config struct {
	API    APIConfig    `mapstructure:"api" yaml:"api"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// APIConfig is the client side of the task API.
type APIConfig struct {
	// URL is the base endpoint; tasks live at URL and URL/{taskId}.
	URL string `mapstructure:"url" yaml:"url"`
}

// ServerConfig configures `tasklist serve`.
type ServerConfig struct {
	Listen   string `mapstructure:"listen" yaml:"listen"`
	DB       string `mapstructure:"db" yaml:"db"`
	BasePath string `mapstructure:"base_path" yaml:"base_path"`
}

// LogConfig configures logging. File is only used by the TUI, which cannot
// write to the terminal it draws on.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Dir returns ~/.tasklist, or .tasklist when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasklist"
	}
	return filepath.Join(home, ".tasklist")
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		API: APIConfig{URL: DefaultAPIURL},
		Server: ServerConfig{
			Listen:   DefaultListen,
			DB:       filepath.Join(Dir(), "tasks.db"),
			BasePath: DefaultBasePath,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
			File:  filepath.Join(Dir(), "tui.log"),
		},
	}
}

// Loader resolves a Config. Flags registered with BindFlag override the
// environment only when set on the command line.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader creates a loader reading path. An empty path means DefaultPath.
func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	def := Default()
	v.SetDefault("api.url", def.API.URL)
	v.SetDefault("server.listen", def.Server.Listen)
	v.SetDefault("server.db", def.Server.DB)
	v.SetDefault("server.base_path", def.Server.BasePath)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, path: path}
}

// Path returns the config file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// BindFlag ties a config key such as "api.url" to a command-line flag.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: flag not defined", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the config file, if present, and resolves every setting.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); err == nil {
		l.v.SetConfigFile(l.path)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config file: %w", err)
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail far from their source.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("api.url must be set")
	}
	if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		return fmt.Errorf("api.url %q must start with http:// or https://", c.API.URL)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q, must be: debug, info, warn, or error", c.Log.Level)
	}
	return nil
}

// ErrExists is returned by WriteDefault when the file is already there.
var ErrExists = errors.New("config file already exists")

// WriteDefault writes the built-in settings to path, creating parent
// directories. Existing files are left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
