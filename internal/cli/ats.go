package cli

import (
	"context"
	"fmt"
	"strings"

	"prepscore/internal/common"
	"prepscore/internal/types"

	"github.com/spf13/cobra"
)

var atsCmd = &cobra.Command{
	Use:   "ats [resume-file]",
	Short: "Check a resume for ATS compatibility",
	Long: `Analyze a resume (plain text, markdown or PDF) for applicant tracking
system compatibility: keyword coverage for a job type, action verbs,
quantified achievements and formatting issues.

Job types: general, software_engineer, data_scientist, product_manager,
designer, marketing.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &atsConfig)
	},
	RunE: runATS,
}

var (
	atsConfig  common.CommandConfig
	atsJobType string
)

func init() {
	addOutputFlags(atsCmd, &atsConfig)
	atsCmd.Flags().StringVarP(&atsJobType, "job-type", "j", "", "Job type for keyword matching (default from config)")

	_ = atsCmd.RegisterFlagCompletionFunc("job-type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		all := types.AllJobTypes()
		out := make([]string, len(all))
		for i, jt := range all {
			out[i] = string(jt)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

func runATS(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	service, err := newScoringService(cmd, 0)
	if err != nil {
		return err
	}

	var jobType types.JobType
	if atsJobType != "" {
		jobType = types.ParseJobType(atsJobType)
		if jobType == types.JobGeneral && !strings.EqualFold(strings.TrimSpace(atsJobType), string(types.JobGeneral)) {
			logger.Warn("Unknown job type, using general keywords", "job_type", atsJobType)
		}
	}

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(text string, cc common.CommandConfig) {
		logger.Info("Starting ATS analysis",
			"resume_chars", len(text),
			"job_type", jobType,
			"output_format", cc.OutputFormat)
	}

	err = common.RunScoreCommandTo(
		cmd.Context(),
		logger,
		atsConfig,
		args,
		createInput,
		func(ctx context.Context, text string) (types.ATSReport, error) {
			return service.AnalyzeATS(ctx, text, jobType)
		},
		logDetails,
		cmd.OutOrStdout(),
	)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("ATS analysis completed successfully")
	return nil
}
