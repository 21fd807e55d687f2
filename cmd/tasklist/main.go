package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fentz26/tasklist/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tasklist",
	Short: "tasklist - terminal task list manager",
	Long: `tasklist shows the tasks held by a REST task API and lets you create,
edit and delete them. Run "tasklist serve" for a local API.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	// Without a subcommand, open the TUI
	RunE: runTUI,
}

var (
	cfgFile string
	cfg     *config.Config
)

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"api":       "api.url",
	"listen":    "server.listen",
	"db":        "server.db",
	"base-path": "server.base_path",
	"log-level": "log.level",
	"log-file":  "log.file",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.tasklist/config.yaml)")
	rootCmd.PersistentFlags().String("api", config.DefaultAPIURL, "Task API base URL")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves settings for every command. Flags only win when set.
func loadConfig(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := loader.BindFlag(key, f); err != nil {
				return err
			}
		}
	}

	c, err := loader.Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// newLogger builds a slog logger writing JSON or text to w.
func newLogger(w io.Writer, level string, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
