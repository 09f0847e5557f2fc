// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the marker-engine CLI.
// The engine itself is a pure transform; the CLI supplies the pieces the
// engine deliberately does not own: reading pages, loading the knowledge
// snapshot, writing catalogs, and ferrying resolver batches.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stavtech/marker-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built once in the root pre-run and shared by all subcommands.
var logger *zap.Logger

// rootCmd is the base command for the marker-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "marker-engine",
	Short: "Marker extraction engine for construction technical documents",
	Long: `marker-engine converts normalized text from construction technical
documents (drawings, specifications, annotation sheets, geotechnical
profiles) into a structured catalog of typed markers: concrete classes,
rebar specs, pipe runs, fittings, dimensions, slopes, layered materials,
protective treatments, annotations, and norm references.

Each stage is a subcommand: process runs the extraction pipeline over
pages, pending emits resolver batches for unknown norms, patch merges
resolver results back, and knowledge inspects the snapshot.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./marker-engine.yaml or ~/.config/marker-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("marker-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "marker-engine"))
		}
	}

	viper.SetEnvPrefix("MARKER_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadPipelineConfig unmarshals the viper state into the typed config.
func loadPipelineConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
