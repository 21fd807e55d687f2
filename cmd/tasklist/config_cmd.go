package main

import (
	"errors"
	"fmt"

	"github.com/fentz26/tasklist/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tasklist configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var forceInit bool

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	// init must work even when the existing file does not load
	configInitCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	if err := config.WriteDefault(path, forceInit); err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
