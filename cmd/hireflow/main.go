// Package main provides the entry point for the HireFlow API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/hireflow/internal/config"
	"github.com/jonathan/hireflow/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "hireflow",
	Short: "HireFlow job application assistant",
	Long: "HireFlow suggests companies to apply to with a hosted language model and sends " +
		"personalized application emails, with the resume attached, through the applicant's own SMTP account.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: hireflow.yaml in . or ./configs)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRuntime loads the configuration and builds the logger every command shares.
func loadRuntime() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
