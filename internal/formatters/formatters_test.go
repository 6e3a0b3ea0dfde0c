package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"prepscore/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvaluation() types.EvaluationResult {
	return types.EvaluationResult{
		Score:       72,
		Feedbacks:   []string{"Good detail"},
		Suggestions: []string{"Use the STAR method"},
		Details: types.EvaluationDetails{
			Completeness: types.AnalysisResult{Score: 80, Feedback: "Detailed answer"},
			Relevance:    types.AnalysisResult{Score: 70, Feedback: "Mostly on topic"},
			Keywords:     types.AnalysisResult{Score: 60, Feedback: "Some keywords"},
			Structure:    types.AnalysisResult{Score: 75, Feedback: "Clear structure"},
		},
	}
}

func sampleATSReport() types.ATSReport {
	return types.ATSReport{
		JobType: types.JobSoftwareEngineer,
		Analysis: types.ATSAnalysis{
			Score:            64,
			KeywordsFound:    []string{"python", "docker"},
			MissingKeywords:  []string{"kubernetes"},
			ActionVerbsFound: []string{"built"},
			FormattingIssues: []types.FormattingIssue{{Issue: "Missing email address", Severity: types.SeverityHigh}},
		},
		Feedback: types.ATSFeedback{
			Message:      "Your resume has moderate ATS compatibility.",
			Strength:     "moderate",
			Improvements: []string{"Add kubernetes"},
		},
	}
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewFormatterRegistry()

	assert.Equal(t, []string{"json", "markdown", "text"}, registry.GetSupportedFormats())

	out, err := registry.Format(sampleEvaluation(), "text")
	require.NoError(t, err)
	assert.Contains(t, out, "=== ANSWER EVALUATION ===")

	_, err = registry.Format(map[string]int{"a": 1}, "text")
	assert.ErrorContains(t, err, "no formatter found for format 'text' and type 'any'")

	_, err = registry.Format(sampleEvaluation(), "yaml")
	assert.Error(t, err)
}

func TestJSONFormatterFallsBackForAnyType(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleATSReport(), "json")
	require.NoError(t, err)

	var decoded types.ATSReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 64, decoded.Analysis.Score)
	assert.Equal(t, types.SeverityHigh, decoded.Analysis.FormattingIssues[0].Severity)
}

func TestEvaluationFormatters(t *testing.T) {
	text, err := GlobalRegistry.Format(sampleEvaluation(), "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Score: 72/100")
	assert.Contains(t, text, "Relevance:     70  Mostly on topic")
	assert.Contains(t, text, "- Use the STAR method")

	md, err := GlobalRegistry.Format(sampleEvaluation(), "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "# Answer Evaluation")
	assert.Contains(t, md, "| Keywords | 60 | Some keywords |")
	assert.Contains(t, md, "## Suggestions")
}

func TestATSFormatters(t *testing.T) {
	text, err := GlobalRegistry.Format(sampleATSReport(), "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Score: 64/100 (moderate)")
	assert.Contains(t, text, "Missing keywords: kubernetes")
	assert.Contains(t, text, "[HIGH] Missing email address")
	assert.Contains(t, text, "1. Add kubernetes")

	md, err := GlobalRegistry.Format(sampleATSReport(), "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "- **Found:** python, docker")
	assert.Contains(t, md, "- **high:** Missing email address")
}

func TestResumeInfoFormatters(t *testing.T) {
	info := types.ResumeInfo{
		Skills:       []string{"Go"},
		Projects:     []types.Project{{Name: "Scorer", Description: "Scoring service"}},
		Achievements: []string{"Reduced latency by 40%"},
	}

	text, err := GlobalRegistry.Format(info, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Skills: Go")
	assert.Contains(t, text, "Companies: none")
	assert.Contains(t, text, "  - Scorer: Scoring service")

	md, err := GlobalRegistry.Format(info, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "### Scorer")
	assert.Contains(t, md, "## Achievements")
	assert.NotContains(t, md, "## Education")
}

func TestSessionFormatters(t *testing.T) {
	report := types.SessionReport{
		AverageScore: 72,
		Summary:      "Solid session",
		Results: []types.SessionAnswerResult{
			{QuestionType: types.QuestionBehavioral, Summary: "Good", Result: sampleEvaluation()},
		},
	}

	text, err := GlobalRegistry.Format(report, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Average score: 72/100")
	assert.Contains(t, text, "--- #1 (")

	md, err := GlobalRegistry.Format(report, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "## Answer 1: ")
	assert.Contains(t, md, "### Suggestions")
}

func TestLexiconFormatterSortsTables(t *testing.T) {
	summary := types.LexiconSummary{
		Version: "1",
		Source:  "built-in",
		Tables:  map[string]int{"stopWords": 40, "actionVerbs": 30},
	}

	out, err := GlobalRegistry.Format(summary, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Lexicon 1 (built-in)")
	assert.Less(t, strings.Index(out, "actionVerbs"), strings.Index(out, "stopWords"))
}

func TestFormatterTypeMismatch(t *testing.T) {
	_, err := (&ATSTextFormatter{}).Format(sampleEvaluation())
	assert.ErrorContains(t, err, "expected ATSReport")
}
