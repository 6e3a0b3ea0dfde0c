package scoring

import (
	"context"

	"prepscore/internal/lexicon"
	"prepscore/internal/types"
)

// Engine is the scoring surface used by the CLI and HTTP server
type Engine interface {
	EvaluateAnswer(ctx context.Context, input types.AnswerInput) (types.EvaluationResult, error)
	EvaluateSession(ctx context.Context, inputs []types.AnswerInput) (types.SessionReport, error)
	AnalyzeATS(ctx context.Context, text string, jobType types.JobType) (types.ATSReport, error)
	ATSFeedback(score int, analysis types.ATSAnalysis) types.ATSFeedback
	ExtractResume(ctx context.Context, text string) (types.ResumeInfo, error)
	Lexicon() *lexicon.Lexicon
}
