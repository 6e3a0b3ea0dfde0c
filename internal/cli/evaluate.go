package cli

import (
	"context"
	"fmt"

	"prepscore/internal/common"
	"prepscore/internal/types"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [answer-file]",
	Short: "Score an interview answer",
	Long: `Score one interview answer for completeness, relevance, keyword
coverage and structure. The answer is read from the given file; the
question text and question type come from flags.

Question types: behavioral, technical, situational, software_engineering,
data_science, product_management, javascript, python, java, go.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := types.ParseQuestionType(evaluateQuestionType); err != nil {
			return err
		}
		return prepareOutput(cmd, &evaluateConfig)
	},
	RunE: runEvaluate,
}

var (
	evaluateConfig       common.CommandConfig
	evaluateQuestion     string
	evaluateQuestionType string
	evaluateQuestionID   string
)

func init() {
	addOutputFlags(evaluateCmd, &evaluateConfig)
	evaluateCmd.Flags().StringVarP(&evaluateQuestion, "question", "q", "", "Question text the answer responds to")
	evaluateCmd.Flags().StringVarP(&evaluateQuestionType, "type", "t", "", "Question type (required)")
	evaluateCmd.Flags().StringVar(&evaluateQuestionID, "id", "", "Optional question identifier")
	_ = evaluateCmd.MarkFlagRequired("type")

	_ = evaluateCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		all := types.AllQuestionTypes()
		out := make([]string, len(all))
		for i, qt := range all {
			out[i] = string(qt)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	service, err := newScoringService(cmd, 0)
	if err != nil {
		return err
	}

	// validated in PreRunE
	qt, _ := types.ParseQuestionType(evaluateQuestionType)

	createInput := func(contents []string) (types.AnswerInput, error) {
		if len(contents) != 1 {
			return types.AnswerInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.AnswerInput{
			QuestionID:   evaluateQuestionID,
			Question:     evaluateQuestion,
			QuestionType: qt,
			Answer:       contents[0],
		}, nil
	}

	logDetails := func(input types.AnswerInput, cfg common.CommandConfig) {
		logger.Info("Starting answer evaluation",
			"question_type", input.QuestionType,
			"answer_chars", len(input.Answer),
			"output_format", cfg.OutputFormat)
	}

	err = common.RunScoreCommandTo(
		cmd.Context(),
		logger,
		evaluateConfig,
		args,
		createInput,
		func(ctx context.Context, input types.AnswerInput) (types.EvaluationResult, error) {
			return service.EvaluateAnswer(ctx, input)
		},
		logDetails,
		cmd.OutOrStdout(),
	)
	if err != nil {
		return fmt.Errorf("failed to evaluate answer: %w", err)
	}
	logger.Info("Answer evaluation completed successfully")
	return nil
}
