package analyzer

import (
	"math"
	"strings"

	"prepscore/internal/feedback"
	"prepscore/internal/lexicon"
	"prepscore/internal/textseg"
	"prepscore/internal/types"
)

// Tier weights
const (
	primaryWeight   = 50
	secondaryWeight = 30
	bonusWeight     = 20
)

var keywordTiers = feedback.Tiers{
	Cutoffs: []int{80, 60, 40},
	Messages: []string{
		"Excellent use of relevant terminology and key concepts.",
		"Good use of relevant terms. Consider including a few more key concepts.",
		"Your answer could include more relevant terminology for this type of question.",
		"Your answer is missing important keywords and concepts expected for this question.",
	},
}

// Keywords scores the answer's coverage of the question type's vocabulary
func Keywords(lex *lexicon.Lexicon, answer string, qt types.QuestionType) types.AnalysisResult {
	if textseg.IsEffectivelyEmpty(answer) {
		return noAnswer()
	}

	lower := strings.ToLower(answer)
	tiers := lex.Keywords(qt)

	primary := textseg.MatchTerms(lower, tiers.Primary)
	secondary := textseg.MatchTerms(lower, tiers.Secondary)
	bonus := textseg.MatchTerms(lower, tiers.Bonus)

	raw := ratio(primary, tiers.Primary)*primaryWeight +
		ratio(secondary, tiers.Secondary)*secondaryWeight +
		ratio(bonus, tiers.Bonus)*bonusWeight
	score := min(100, int(math.Round(raw)))

	return types.AnalysisResult{
		Score:    score,
		Feedback: keywordTiers.Pick(score),
		Details: map[string]any{
			"primary":   primary,
			"secondary": secondary,
			"bonus":     bonus,
		},
	}
}

func ratio(matched, total []string) float64 {
	if len(total) == 0 {
		return 0
	}
	return float64(len(matched)) / float64(len(total))
}
