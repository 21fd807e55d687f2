package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.URL != DefaultAPIURL {
		t.Errorf("api.url = %q, want %q", cfg.API.URL, DefaultAPIURL)
	}
	if cfg.Server.Listen != DefaultListen || cfg.Server.BasePath != DefaultBasePath {
		t.Errorf("Unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("api:\n  url: http://file.example/tasks\nserver:\n  listen: 0.0.0.0:9000\n  base_path: /todo\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv("TASKLIST_SERVER_LISTEN", "127.0.0.1:9100")
	t.Setenv("TASKLIST_API_URL", "http://env.example/tasks")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api", "", "")
	if err := flags.Parse([]string{"--api", "http://flag.example/tasks"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	l := NewLoader(path)
	if err := l.BindFlag("api.url", flags.Lookup("api")); err != nil {
		t.Fatalf("BindFlag failed: %v", err)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"flag beats env", cfg.API.URL, "http://flag.example/tasks"},
		{"env beats file", cfg.Server.Listen, "127.0.0.1:9100"},
		{"file beats default", cfg.Server.BasePath, "/todo"},
		{"default when unset", cfg.Log.Level, DefaultLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	t.Setenv("TASKLIST_API_URL", "http://env.example/tasks")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api", DefaultAPIURL, "")

	l := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	if err := l.BindFlag("api.url", flags.Lookup("api")); err != nil {
		t.Fatalf("BindFlag failed: %v", err)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.URL != "http://env.example/tasks" {
		t.Errorf("api.url = %q, want env value", cfg.API.URL)
	}
}

func TestBindFlag_Undefined(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	if err := l.BindFlag("api.url", nil); err == nil {
		t.Error("Expected error binding an undefined flag")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty url", func(c *Config) { c.API.URL = "" }, true},
		{"no scheme", func(c *Config) { c.API.URL = "localhost:7467/tasks" }, true},
		{"https", func(c *Config) { c.API.URL = "https://tasks.example.com/tasks" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"upper level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  url: ftp://nope\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for invalid api.url")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	cfg, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load of written default failed: %v", err)
	}
	if cfg.API.URL != DefaultAPIURL {
		t.Errorf("api.url = %q, want %q", cfg.API.URL, DefaultAPIURL)
	}

	if err := WriteDefault(path, false); !errors.Is(err, ErrExists) {
		t.Errorf("Expected ErrExists on second write, got %v", err)
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("Forced WriteDefault failed: %v", err)
	}
}
