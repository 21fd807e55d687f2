package main

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/fentz26/tasklist/internal/apiclient"
	"github.com/fentz26/tasklist/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	RunE:  runTUI,
}

func init() {
	// the root command runs the TUI too, so it takes the same flags
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().Bool("spawn", false, "Start a local server in the background if the API is not reachable")
		c.Flags().String("log-file", "", "Log file (default ~/.tasklist/tui.log)")
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	apiURL := cfg.API.URL

	spawn, _ := cmd.Flags().GetBool("spawn")
	if spawn && !isServerRunning(apiURL) {
		fmt.Println("⚡ Task API not running. Starting background server...")
		if err := startServer(apiURL); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	// The terminal belongs to the UI, so logs go to a file
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o700); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg.Log.Level, false)

	app := tui.New(apiclient.New(apiURL), apiURL, logger)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// healthURL returns the health endpoint on the same host as the task API.
func healthURL(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", err
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// isServerRunning reports whether anything answers at the API's host. Any
// HTTP response counts; only a failed connection means it is down.
func isServerRunning(apiURL string) bool {
	target, err := healthURL(apiURL)
	if err != nil {
		return false
	}
	client := http.Client{Timeout: 500 * time.Millisecond}
	resp, err := client.Get(target)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return true
}

// serveArgs builds the "serve" invocation that listens where apiURL points.
func serveArgs(apiURL string) ([]string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("can only start a local server for http:// URLs, got %q", apiURL)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		host, port = u.Host, "80"
	}
	if host != "127.0.0.1" && host != "localhost" && host != "::1" {
		return nil, fmt.Errorf("api host %q is not local", host)
	}

	args := []string{"serve", "--listen", net.JoinHostPort(host, port)}
	if u.Path != "" && u.Path != "/" {
		args = append(args, "--base-path", u.Path)
	}
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}
	return args, nil
}

func startServer(apiURL string) error {
	args, err := serveArgs(apiURL)
	if err != nil {
		return err
	}
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	cmd := exec.Command(exe, args...)
	// Detach process so it survives TUI exit
	configureServerProc(cmd)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return err
	}

	fmt.Print("   Waiting for server...")
	for i := 0; i < 20; i++ { // Wait up to 5 seconds
		if isServerRunning(apiURL) {
			fmt.Println(" Done.")
			return nil
		}
		time.Sleep(250 * time.Millisecond)
		fmt.Print(".")
	}
	fmt.Println(" Timeout!")
	return fmt.Errorf("server started but API not reachable at %s", apiURL)
}
