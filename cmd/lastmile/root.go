package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lastmile-org/lastmile/analyzer"
	"github.com/lastmile-org/lastmile/dataset"
	"github.com/lastmile-org/lastmile/internal/config"
	"github.com/lastmile-org/lastmile/internal/logging"
	"github.com/lastmile-org/lastmile/internal/secrets"
	"github.com/lastmile-org/lastmile/translator"
)

const version = "0.3.0"

var (
	cfg          config.Config
	flagDataDir  string
	flagModel    string
	flagLogLevel string
	flagSources  []string
)

var rootCmd = &cobra.Command{
	Use:   "lastmile",
	Short: "Ask natural-language questions about delivery performance data",
	Long: `lastmile loads delivery CSV exports (orders, clients, warehouses, ...)
and answers free-text operational questions about them. Questions are
translated into structured queries by a language model (with a deterministic
fallback), executed locally, and summarized as short insights.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}
		if flagModel != "" {
			cfg.Model = flagModel
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		logging.Setup(cfg.LogLevel)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lastmile version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lastmile %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data", "", "directory with delivery CSV files")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model name override")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringSliceVar(&flagSources, "source", nil,
		"explicit CSV sources (local path, http(s):// or s3:// URL); overrides --data")

	rootCmd.AddCommand(askCmd, batchCmd, tablesCmd, authCmd, exportCmd, versionCmd)
}

// loadDataset reads the CSV sources into the shared read-only dataset.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	loader := dataset.NewLoader(dataset.S3Options{}, nil)
	if len(flagSources) > 0 {
		return loader.LoadSources(ctx, flagSources)
	}
	return loader.LoadDir(ctx, cfg.DataDir)
}

// buildAnalyzer wires the full pipeline over a loaded dataset.
func buildAnalyzer(ds *dataset.Dataset) (*analyzer.Analyzer, error) {
	apiKey, err := secrets.APIKey()
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		return nil, err
	}
	// Without a key the pipeline still works: classification defaults to
	// data queries and extraction degrades to the fallback cascade.

	client := translator.NewOpenAI(translator.Config{
		APIKey:   apiKey,
		Model:    cfg.Model,
		Endpoint: cfg.Endpoint,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
	})

	return analyzer.New(ds,
		translator.NewClassifier(client),
		translator.NewDegrading(translator.NewExtractor(client, ds)),
		translator.NewReasoner(client),
	), nil
}

// askOne answers one question under a caller-imposed deadline. A hybrid
// question makes up to three model calls, so the budget is three call
// timeouts.
func askOne(ctx context.Context, az *analyzer.Analyzer, question string) *analyzer.Response {
	timeout := 3 * time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return az.Ask(ctx, question)
}
