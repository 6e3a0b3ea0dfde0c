package cli

import (
	"fmt"

	"prepscore/internal/common"
	"prepscore/internal/types"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [resume-file]",
	Short: "Extract structured information from a resume",
	Long: `Pull skills, companies, job titles, projects, education and
quantified achievements out of a resume (plain text, markdown or PDF).`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &extractConfig)
	},
	RunE: runExtract,
}

var extractConfig common.CommandConfig

func init() {
	addOutputFlags(extractCmd, &extractConfig)
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	service, err := newScoringService(cmd, 0)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	err = common.RunScoreCommandTo[string, types.ResumeInfo](
		cmd.Context(),
		logger,
		extractConfig,
		args,
		createInput,
		service.ExtractResume,
		nil,
		cmd.OutOrStdout(),
	)
	if err != nil {
		return fmt.Errorf("failed to extract resume information: %w", err)
	}
	logger.Info("Resume extraction completed successfully")
	return nil
}
