package feedback

import (
	"testing"

	"prepscore/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestTiersPick(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, AnswerSummary.Messages[0]},
		{85, AnswerSummary.Messages[0]},
		{84, AnswerSummary.Messages[1]},
		{70, AnswerSummary.Messages[1]},
		{50, AnswerSummary.Messages[2]},
		{49, AnswerSummary.Messages[3]},
		{0, AnswerSummary.Messages[3]},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AnswerSummary.Pick(tt.score), "score %d", tt.score)
	}
}

func TestGenerateATSFeedback(t *testing.T) {
	analysis := types.ATSAnalysis{
		Recommendations: []string{
			"Fix the detected formatting issues to improve ATS readability.",
			"fix the detected formatting issues",
			"Consider adding these keywords: docker",
		},
	}

	strong := GenerateATSFeedback(90, analysis)
	assert.Equal(t, "strong", strong.Strength)
	assert.Equal(t, "Excellent! Your resume is highly optimized for ATS systems.", strong.Message)
	assert.Len(t, strong.Improvements, 2)

	assert.Equal(t, "moderate", GenerateATSFeedback(60, analysis).Strength)
	assert.Equal(t, "weak", GenerateATSFeedback(59, analysis).Strength)
}

func TestDedupeSuggestions(t *testing.T) {
	in := []string{
		"Use the STAR method to structure your answer.",
		"use the star method",
		"",
		"Provide a more comprehensive answer with specific details and examples.",
		"Provide a more comprehensive answer with specific details and examples.",
		"  ",
	}
	out := DedupeSuggestions(in)

	assert.Equal(t, []string{
		"Use the STAR method to structure your answer.",
		"Provide a more comprehensive answer with specific details and examples.",
	}, out)
	assert.NotNil(t, DedupeSuggestions(nil))
	assert.Empty(t, DedupeSuggestions(nil))
}
