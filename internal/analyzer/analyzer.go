// Package analyzer scores an interview answer along four independent
// dimensions. Every analyzer is a pure function of its inputs and the
// lexicon snapshot.
package analyzer

import (
	"math"

	"prepscore/internal/types"
)

// NoAnswerFeedback is returned by every analyzer for an effectively empty answer
const NoAnswerFeedback = "No answer was provided."

func noAnswer() types.AnalysisResult {
	return types.AnalysisResult{Score: 0, Feedback: NoAnswerFeedback}
}

// round rounds half away from zero and clamps to [0,100]
func round(v float64) int {
	return clamp(int(math.Round(v)))
}

func clamp(score int) int {
	return max(0, min(100, score))
}
