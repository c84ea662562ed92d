package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/interpro2go/internal/cli"
	"github.com/aretw0/interpro2go/internal/config"
	"github.com/spf13/cobra"
)

// EnvToken holds the Workspace token for the run and mcp commands.
const EnvToken = "KB_AUTH_TOKEN"

var rootCmd = &cobra.Command{
	Use:   "interpro2go",
	Short: "Annotate KBase genomes with InterProScan",
	Long: `interpro2go projects the features of a KBase Genome into a protein FASTA file,
runs InterProScan on it and saves the genome back to the Workspace together with a
hidden report object.`,
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
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// loadConfig reads the configuration and builds the logger selected by the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load(path, func(c *config.Config) {
		if store, _ := cmd.Flags().GetString("store"); store != "" {
			c.Store = store
		}
	})
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := cli.NewLogger(cfg, level)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
