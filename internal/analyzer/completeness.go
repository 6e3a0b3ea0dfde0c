package analyzer

import (
	"strings"

	"prepscore/internal/lexicon"
	"prepscore/internal/textseg"
	"prepscore/internal/types"
)

// Length bands by word count
const (
	minimalWords = 15
	shortWords   = 50
	mediumWords  = 100
	maxFullScore = 95
)

var completenessFeedback = map[string]string{
	"minimal": "Your answer is very brief. Add more details and specific examples to fully address the question.",
	"short":   "Your answer could be more comprehensive. Consider expanding on key points with concrete examples.",
	"medium":  "Good length. Make sure you cover all aspects of the question.",
	"full":    "Your answer is detailed and comprehensive.",
}

// Completeness scores an answer by its length
func Completeness(lex *lexicon.Lexicon, answer string) types.AnalysisResult {
	if textseg.IsEffectivelyEmpty(answer) {
		return noAnswer()
	}

	wc := float64(textseg.WordCount(answer))
	var band string
	var score int

	switch {
	case wc < minimalWords:
		band = "minimal"
		score = round(20 + 20*wc/minimalWords)
	case wc < shortWords:
		band = "short"
		score = round(40 + 20*(wc-minimalWords)/(shortWords-minimalWords))
	case wc < mediumWords:
		band = "medium"
		score = round(60 + 20*(wc-shortWords)/(mediumWords-shortWords))
	default:
		band = "full"
		score = min(maxFullScore, round(80+min(15, wc/50)))
	}

	lower := strings.ToLower(answer)
	fillers := 0
	for _, f := range lex.FillerWords {
		fillers += textseg.CountTerm(lower, f)
	}

	return types.AnalysisResult{
		Score:    score,
		Feedback: completenessFeedback[band],
		Details: map[string]any{
			"wordCount":   int(wc),
			"band":        band,
			"fillerWords": fillers,
		},
	}
}
