package cmd

import (
	"fmt"
	"os"

	"github.com/agentic-research/gmextract/api"
	"github.com/agentic-research/gmextract/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath  string
	sourcePath  string
	scopePath   string
	reportDB    string
	symbolsPath string
	verbose     bool

	logger = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to HCL run configuration")
	rootCmd.PersistentFlags().StringVarP(&sourcePath, "source", "s", "", "Path to the game database JSON (overrides config)")
	rootCmd.PersistentFlags().StringVar(&scopePath, "scope", "", "JSONPath selector narrowing the traversal root")
	rootCmd.PersistentFlags().StringVar(&reportDB, "db", "", "Also export job results to this SQLite file")
	rootCmd.PersistentFlags().StringVar(&symbolsPath, "symbols", "", "Symbol list (<id>;<name>) naming bare sprite folders")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

var rootCmd = &cobra.Command{
	Use:          "gmextract",
	Short:        "Extract modifier reports and icons from a decompiled game database",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*api.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if sourcePath != "" {
		cfg.Source = sourcePath
	}
	if scopePath != "" {
		cfg.Scope = scopePath
	}
	if reportDB != "" {
		cfg.ReportDB = reportDB
	}
	if symbolsPath != "" {
		cfg.Symbols = symbolsPath
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
