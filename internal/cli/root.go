package cli

import (
	"context"

	"prepscore/internal/common"
	"prepscore/internal/config"
	"prepscore/internal/errors"
	"prepscore/internal/scoring"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// lexiconOverride is the --lexicon persistent flag
var lexiconOverride string

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepscore",
		Short: "Score interview answers and resumes",
		Long: `Prepscore scores interview answers and resumes with deterministic,
explainable heuristics. It evaluates answers for completeness, relevance,
keyword coverage and structure, and checks resumes for ATS compatibility.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&lexiconOverride, "lexicon", "", "Lexicon YAML file (overrides scoring.lexiconFile)")

	cmd.AddCommand(evaluateCmd)
	cmd.AddCommand(sessionCmd)
	cmd.AddCommand(atsCmd)
	cmd.AddCommand(extractCmd)
	cmd.AddCommand(lexiconCmd)
	cmd.AddCommand(serveCmd)
	cmd.AddCommand(versionCmd)
	return cmd
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// scoringConfig returns the scoring section with the --lexicon override applied
func scoringConfig(cfg *config.Config) config.ScoringConfig {
	sc := cfg.Scoring
	if lexiconOverride != "" {
		sc.LexiconFile = lexiconOverride
	}
	return sc
}

// newScoringService builds a scoring service for one CLI invocation.
// workers > 0 overrides scoring.batchWorkers.
func newScoringService(cmd *cobra.Command, workers int) (*scoring.Service, error) {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	sc := scoringConfig(cfg)
	if workers > 0 {
		sc.BatchWorkers = workers
	}
	store, err := scoring.OpenLexicon(sc)
	if err != nil {
		return nil, err
	}
	return scoring.NewService(sc, store, nil, logger), nil
}

// addOutputFlags registers --output and --format on a file command
func addOutputFlags(cmd *cobra.Command, cc *common.CommandConfig) {
	cmd.Flags().StringVarP(&cc.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cc.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// prepareOutput fills format and size defaults from config and validates
// the requested format
func prepareOutput(cmd *cobra.Command, cc *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	if cc.OutputFormat == "" {
		cc.OutputFormat = cfg.App.DefaultFormat
	}
	cc.MaxFileSize = cfg.App.MaxFileSize
	return common.ValidateOutputFormat(cc.OutputFormat, cfg.App.SupportedFormats)
}
