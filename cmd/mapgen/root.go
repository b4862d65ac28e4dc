package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/mapgen/internal/config"
	"github.com/chazu/mapgen/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "mapgen",
	Short: "mapgen builds procedural noise graphs from scripts",
	Long: `mapgen runs Lisp scripts that create and wire coherent-noise nodes,
then samples the chosen output node as a heightmap or meshes it to STL.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn, error")
}

// newApp loads the config named by the persistent flags and builds an App.
func newApp(cmd *cobra.Command) (*App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, logging.New(level)), nil
}
