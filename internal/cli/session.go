package cli

import (
	"encoding/json"
	"fmt"

	"prepscore/internal/common"
	"prepscore/internal/errors"
	"prepscore/internal/types"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session [answers.json]",
	Short: "Score a batch of interview answers",
	Long: `Score every answer of an interview session in parallel and print
per-answer results with an average score.

The input file holds a JSON array of answers:

  [{"questionId": "q1", "question": "...", "questionType": "behavioral", "answer": "..."}]

or an object with the same array under "answers".`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if sessionWorkers < 0 {
			return fmt.Errorf("--workers must not be negative")
		}
		return prepareOutput(cmd, &sessionConfig)
	},
	RunE: runSession,
}

var (
	sessionConfig  common.CommandConfig
	sessionWorkers int
)

func init() {
	addOutputFlags(sessionCmd, &sessionConfig)
	sessionCmd.Flags().IntVarP(&sessionWorkers, "workers", "w", 0, "Answers scored in parallel (default from config)")
}

// sessionAnswer is the on-disk answer shape. The question type is parsed
// leniently so "Software Engineering" and "golang" are accepted.
type sessionAnswer struct {
	QuestionID   string `json:"questionId"`
	Question     string `json:"question"`
	QuestionType string `json:"questionType"`
	Answer       string `json:"answer"`
}

// parseSessionFile decodes a session file into scoring inputs
func parseSessionFile(content string) ([]types.AnswerInput, error) {
	var answers []sessionAnswer
	if err := json.Unmarshal([]byte(content), &answers); err != nil {
		var wrapped struct {
			Answers []sessionAnswer `json:"answers"`
		}
		if err2 := json.Unmarshal([]byte(content), &wrapped); err2 != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "session file is not valid JSON", err)
		}
		answers = wrapped.Answers
	}

	if len(answers) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "session file contains no answers", nil)
	}

	inputs := make([]types.AnswerInput, len(answers))
	for i, a := range answers {
		qt, err := types.ParseQuestionType(a.QuestionType)
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeUnknownQuestionType,
				fmt.Sprintf("answer %d: %v", i+1, err), err)
		}
		inputs[i] = types.AnswerInput{
			QuestionID:   a.QuestionID,
			Question:     a.Question,
			QuestionType: qt,
			Answer:       a.Answer,
		}
	}
	return inputs, nil
}

func runSession(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	service, err := newScoringService(cmd, sessionWorkers)
	if err != nil {
		return err
	}

	createInput := func(contents []string) ([]types.AnswerInput, error) {
		if len(contents) != 1 {
			return nil, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return parseSessionFile(contents[0])
	}

	logDetails := func(inputs []types.AnswerInput, cc common.CommandConfig) {
		logger.Info("Starting session evaluation",
			"answers", len(inputs),
			"workers", service.Workers(),
			"output_format", cc.OutputFormat)
	}

	err = common.RunScoreCommandTo(
		cmd.Context(),
		logger,
		sessionConfig,
		args,
		createInput,
		service.EvaluateSession,
		logDetails,
		cmd.OutOrStdout(),
	)
	if err != nil {
		return fmt.Errorf("failed to evaluate session: %w", err)
	}
	logger.Info("Session evaluation completed successfully")
	return nil
}
