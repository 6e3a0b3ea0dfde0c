package cli

import (
	"fmt"

	"prepscore/internal/common"
	"prepscore/internal/lexicon"

	"github.com/spf13/cobra"
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon [file]",
	Short: "Validate a lexicon and show its table sizes",
	Long: `Load and validate a lexicon file, then print its version and the size
of every vocabulary table. Without a file argument the active lexicon
(--lexicon, scoring.lexiconFile or the built-in default) is checked.

Use --dump to print the built-in lexicon as a starting point for a
custom file.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &lexiconConfig)
	},
	RunE: runLexicon,
}

var (
	lexiconConfig common.CommandConfig
	lexiconDump   bool
)

func init() {
	addOutputFlags(lexiconCmd, &lexiconConfig)
	lexiconCmd.Flags().BoolVar(&lexiconDump, "dump", false, "Print the built-in lexicon YAML")
}

func runLexicon(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if lexiconDump {
		if lexiconConfig.OutputFile != "" {
			return common.NewFileProcessor(logger, 0).WriteFile(lexiconConfig.OutputFile, string(lexicon.DefaultYAML()))
		}
		_, err := cmd.OutOrStdout().Write(lexicon.DefaultYAML())
		return err
	}

	path := scoringConfig(cfg).LexiconFile
	if len(args) == 1 {
		path = args[0]
	}

	lex, err := lexicon.Load(path)
	if err != nil {
		return fmt.Errorf("lexicon is invalid: %w", err)
	}
	logger.Info("Lexicon is valid", "file", path, "version", lex.Version)

	return common.NewOutputHandlerWithWriter(logger, cmd.OutOrStdout()).
		HandleOutput(lex.Summary(path), lexiconConfig)
}
