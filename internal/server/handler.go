package server

import (
	"context"
	"net/http"

	prepErrors "prepscore/internal/errors"
	"prepscore/internal/observability"
	"prepscore/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// scoringFunc runs one API operation over a parsed and validated request
type scoringFunc[Req any] func(ctx context.Context, req *Req) (any, []attribute.KeyValue, error)

// scoringHandler wraps an operation with request parsing, validation,
// tracing and error mapping
func scoringHandler[Req any](s *Server, om *observability.ObservabilityManager, operation string, run scoringFunc[Req]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("prepscore.api").Start(r.Context(), "api."+operation)
		defer span.End()
		s.counters.request(operation)

		var req Req
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			s.counters.failure(operation)
			writeErrorResponse(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validate.Struct(req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			s.counters.failure(operation)
			writeErrorResponse(w, r, "Invalid request", extractValidationErrors(err), http.StatusBadRequest)
			return
		}

		result, attrs, err := run(ctx, &req)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "scoring"))
			s.counters.failure(operation)
			s.Logger.LogError(err, "Scoring request failed",
				"operation", operation,
				"request_id", requestIDFrom(r.Context()))
			writeErrorResponse(w, r, "Scoring failed", err.Error(), statusForError(err))
			return
		}

		span.SetAttributes(append(attrs,
			attribute.Bool("success", true),
			attribute.String("operation", operation))...)
		writeJSON(w, http.StatusOK, result)
	}
}

// statusForError maps engine errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case prepErrors.IsType(err, prepErrors.ErrorTypeValidation):
		return http.StatusBadRequest
	case prepErrors.IsType(err, prepErrors.ErrorTypeScoring):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) createEvaluateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return scoringHandler(s, om, "evaluate", func(ctx context.Context, req *EvaluateRequest) (any, []attribute.KeyValue, error) {
		input := req.toAnswerInput()
		result, err := s.Engine.EvaluateAnswer(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return result, []attribute.KeyValue{
			attribute.String("question.type", string(input.QuestionType)),
			attribute.Int("request.answer_length", len(input.Answer)),
			attribute.Int("score", result.Score),
		}, nil
	})
}

func (s *Server) createSessionHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return scoringHandler(s, om, "session", func(ctx context.Context, req *SessionRequest) (any, []attribute.KeyValue, error) {
		inputs := make([]types.AnswerInput, len(req.Answers))
		for i, a := range req.Answers {
			inputs[i] = a.toAnswerInput()
		}
		report, err := s.Engine.EvaluateSession(ctx, inputs)
		if err != nil {
			return nil, nil, err
		}
		return report, []attribute.KeyValue{
			attribute.Int("session.answers", len(inputs)),
			attribute.Int("session.average_score", report.AverageScore),
		}, nil
	})
}

func (s *Server) createATSHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return scoringHandler(s, om, "ats", func(ctx context.Context, req *ATSRequest) (any, []attribute.KeyValue, error) {
		var jt types.JobType
		if req.JobType != "" {
			jt = types.ParseJobType(req.JobType)
		}
		report, err := s.Engine.AnalyzeATS(ctx, req.ResumeText, jt)
		if err != nil {
			return nil, nil, err
		}
		return report, []attribute.KeyValue{
			attribute.String("job.type", string(report.JobType)),
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("ats.score", report.Analysis.Score),
		}, nil
	})
}

func (s *Server) createATSFeedbackHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return scoringHandler(s, om, "ats_feedback", func(_ context.Context, req *ATSFeedbackRequest) (any, []attribute.KeyValue, error) {
		fb := s.Engine.ATSFeedback(*req.Score, req.Analysis)
		return fb, []attribute.KeyValue{attribute.String("ats.strength", fb.Strength)}, nil
	})
}

func (s *Server) createExtractHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return scoringHandler(s, om, "extract", func(ctx context.Context, req *ExtractRequest) (any, []attribute.KeyValue, error) {
		info, err := s.Engine.ExtractResume(ctx, req.ResumeText)
		if err != nil {
			return nil, nil, err
		}
		return info, []attribute.KeyValue{
			attribute.Int("resume.skills", len(info.Skills)),
			attribute.Int("resume.projects", len(info.Projects)),
		}, nil
	})
}
