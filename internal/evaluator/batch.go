package evaluator

import (
	"context"
	"math"

	"prepscore/internal/feedback"
	"prepscore/internal/lexicon"
	"prepscore/internal/types"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchWorkers bounds concurrent scoring when the caller passes 0
const DefaultBatchWorkers = 4

// EvaluateBatch scores every input concurrently. Results are in input
// order. The only error is ctx cancellation.
func EvaluateBatch(ctx context.Context, lex *lexicon.Lexicon, inputs []types.AnswerInput, workers int) ([]types.EvaluationResult, error) {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}

	results := make([]types.EvaluationResult, len(inputs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = EvaluateAnswer(lex, in.Answer, in.Question, in.QuestionType)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summarize builds a session report from inputs and their results, which
// must be in the same order.
func Summarize(inputs []types.AnswerInput, results []types.EvaluationResult) types.SessionReport {
	report := types.SessionReport{
		Results: make([]types.SessionAnswerResult, 0, len(results)),
	}

	total := 0
	for i, r := range results {
		entry := types.SessionAnswerResult{
			Summary: feedback.AnswerSummary.Pick(r.Score),
			Result:  r,
		}
		if i < len(inputs) {
			entry.QuestionID = inputs[i].QuestionID
			entry.QuestionType = inputs[i].QuestionType
		}
		report.Results = append(report.Results, entry)
		total += r.Score
	}

	if len(results) > 0 {
		report.AverageScore = int(math.Round(float64(total) / float64(len(results))))
	}
	report.Summary = feedback.SessionSummary.Pick(report.AverageScore)
	return report
}
