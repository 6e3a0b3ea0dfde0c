// Package scoring wires the analyzers to a lexicon source, metrics and
// logging for the CLI and HTTP server.
package scoring

import (
	"context"
	"fmt"

	"prepscore/internal/ats"
	"prepscore/internal/config"
	"prepscore/internal/errors"
	"prepscore/internal/evaluator"
	"prepscore/internal/feedback"
	"prepscore/internal/lexicon"
	"prepscore/internal/observability"
	"prepscore/internal/resume"
	"prepscore/internal/types"
)

// Service handles scoring operations against the active lexicon
type Service struct {
	source         lexicon.Source
	metrics        *observability.Metrics
	logger         *errors.Logger
	workers        int
	defaultJobType types.JobType
}

var _ Engine = (*Service)(nil)

// NewService creates a scoring service. metrics may be nil.
func NewService(cfg config.ScoringConfig, source lexicon.Source, metrics *observability.Metrics, logger *errors.Logger) *Service {
	workers := cfg.BatchWorkers
	if workers <= 0 {
		workers = evaluator.DefaultBatchWorkers
	}

	jt := types.JobType(cfg.DefaultJobType)
	if !jt.Valid() {
		jt = types.JobGeneral
	}

	logger.Debug("Initializing scoring service",
		"lexicon_version", source.Current().Version,
		"batch_workers", workers,
		"default_job_type", jt)

	return &Service{
		source:         source,
		metrics:        metrics,
		logger:         logger,
		workers:        workers,
		defaultJobType: jt,
	}
}

// OpenLexicon loads the configured lexicon into a Store
func OpenLexicon(cfg config.ScoringConfig) (*lexicon.Store, error) {
	lex, err := lexicon.Load(cfg.LexiconFile)
	if err != nil {
		return nil, err
	}
	return lexicon.NewStore(lex), nil
}

// Workers reports how many answers a session scores in parallel
func (s *Service) Workers() int {
	return s.workers
}

// Lexicon returns the snapshot scoring currently uses
func (s *Service) Lexicon() *lexicon.Lexicon {
	return s.source.Current()
}

// EvaluateAnswer scores one interview answer
func (s *Service) EvaluateAnswer(ctx context.Context, input types.AnswerInput) (types.EvaluationResult, error) {
	var result types.EvaluationResult

	if !input.QuestionType.Valid() {
		return result, errors.NewValidationError(errors.ErrCodeUnknownQuestionType,
			fmt.Sprintf("unknown question type: %q", input.QuestionType), nil)
	}

	err := s.metrics.TrackScoringOperation(ctx, "evaluate_answer", func(ctx context.Context) error {
		if err := checkContext(ctx); err != nil {
			return err
		}
		result = evaluator.EvaluateAnswer(s.source.Current(), input.Answer, input.Question, input.QuestionType)
		return nil
	})
	if err != nil {
		return types.EvaluationResult{}, err
	}

	s.metrics.RecordAnswerEvaluated(ctx, string(input.QuestionType), result.Score)
	s.logger.Debug("Answer evaluated",
		"question_id", input.QuestionID,
		"question_type", input.QuestionType,
		"score", result.Score)
	return result, nil
}

// EvaluateSession scores a batch of answers concurrently and summarizes them
func (s *Service) EvaluateSession(ctx context.Context, inputs []types.AnswerInput) (types.SessionReport, error) {
	for i, in := range inputs {
		if !in.QuestionType.Valid() {
			return types.SessionReport{}, errors.NewValidationError(errors.ErrCodeUnknownQuestionType,
				fmt.Sprintf("answer %d has unknown question type: %q", i+1, in.QuestionType), nil).
				WithContext("question_id", in.QuestionID)
		}
	}

	var report types.SessionReport
	err := s.metrics.TrackScoringOperation(ctx, "evaluate_session", func(ctx context.Context) error {
		lex := s.source.Current()
		results, err := evaluator.EvaluateBatch(ctx, lex, inputs, s.workers)
		if err != nil {
			return errors.NewScoringError(errors.ErrCodeScoringCancelled, "session scoring was cancelled", err)
		}
		report = evaluator.Summarize(inputs, results)
		return nil
	})
	if err != nil {
		return types.SessionReport{}, err
	}

	for _, r := range report.Results {
		s.metrics.RecordAnswerEvaluated(ctx, string(r.QuestionType), r.Result.Score)
	}
	s.logger.Debug("Session evaluated",
		"answers", len(inputs),
		"average_score", report.AverageScore)
	return report, nil
}

// AnalyzeATS scores resume text for a job type. An empty job type selects
// the configured default.
func (s *Service) AnalyzeATS(ctx context.Context, text string, jobType types.JobType) (types.ATSReport, error) {
	if jobType == "" {
		jobType = s.defaultJobType
	}
	if !jobType.Valid() {
		s.logger.Warn("Unknown job type, using general keywords", "job_type", jobType)
		jobType = types.JobGeneral
	}

	report := types.ATSReport{JobType: jobType}
	err := s.metrics.TrackScoringOperation(ctx, "analyze_ats", func(ctx context.Context) error {
		if err := checkContext(ctx); err != nil {
			return err
		}
		report.Analysis = ats.AnalyzeATS(s.source.Current(), text, jobType)
		report.Feedback = feedback.GenerateATSFeedback(report.Analysis.Score, report.Analysis)
		return nil
	})
	if err != nil {
		return types.ATSReport{}, err
	}

	s.metrics.RecordResumeAnalyzed(ctx, string(jobType), report.Analysis.Score)
	s.logger.Debug("Resume analyzed",
		"job_type", jobType,
		"score", report.Analysis.Score,
		"formatting_issues", len(report.Analysis.FormattingIssues))
	return report, nil
}

// ATSFeedback turns an existing analysis into feedback
func (s *Service) ATSFeedback(score int, analysis types.ATSAnalysis) types.ATSFeedback {
	return feedback.GenerateATSFeedback(score, analysis)
}

// ExtractResume pulls structured information out of resume text
func (s *Service) ExtractResume(ctx context.Context, text string) (types.ResumeInfo, error) {
	var info types.ResumeInfo
	err := s.metrics.TrackScoringOperation(ctx, "extract_resume", func(ctx context.Context) error {
		if err := checkContext(ctx); err != nil {
			return err
		}
		info = resume.ExtractResumeInformation(s.source.Current(), text)
		return nil
	})
	if err != nil {
		return types.ResumeInfo{}, err
	}

	s.metrics.RecordResumeExtracted(ctx)
	s.logger.Debug("Resume information extracted",
		"skills", len(info.Skills),
		"projects", len(info.Projects))
	return info, nil
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.NewScoringError(errors.ErrCodeScoringCancelled, "scoring was cancelled", err)
	}
	return nil
}
