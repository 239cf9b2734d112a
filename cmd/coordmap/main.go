// Package main provides the coordmap command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var flagVerbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "coordmap",
	Short:         "Map transcript coordinates to genomic coordinates and back",
	Long:          "coordmap builds a bidirectional coordinate index from CIGAR-described transcript alignments and answers batched transcript-to-genome and genome-to-transcript queries.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable info-level logging")

	rootCmd.AddCommand(newMapCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// initConfig loads ~/.coordmap.yaml if present. A missing config file is not
// an error.
func initConfig() error {
	viper.SetDefault("map.workers", 0)
	viper.SetDefault("map.results_db", "")

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	viper.SetConfigFile(filepath.Join(home, ".coordmap.yaml"))
	if err := viper.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// newLogger builds the stderr console logger. Warnings always surface; info
// messages only with --verbose.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	if !flagVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}
