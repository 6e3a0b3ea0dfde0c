package analyzer

import (
	"strings"
	"unicode/utf8"

	"prepscore/internal/feedback"
	"prepscore/internal/lexicon"
	"prepscore/internal/textseg"
	"prepscore/internal/types"
)

const (
	overlapWeight       = 70
	starFullBonus       = 30
	starPartialBonus    = 15
	starPartialCap      = 80
	codeVocabularyBonus = 20
	// ratio used when the question has no content words
	neutralMatchRatio = 0.5
)

var relevanceTiers = feedback.Tiers{
	Cutoffs: []int{80, 60, 40},
	Messages: []string{
		"Your answer directly addresses the question.",
		"Your answer is mostly relevant, but could focus more closely on what was asked.",
		"Your answer is partially relevant. Make sure you address the main points of the question.",
		"Your answer appears to be off-topic. Focus on answering the specific question asked.",
	},
}

// Relevance scores how closely the answer tracks the question
func Relevance(lex *lexicon.Lexicon, answer, question string, qt types.QuestionType) types.AnalysisResult {
	if textseg.IsEffectivelyEmpty(answer) {
		return noAnswer()
	}

	lower := strings.ToLower(answer)
	terms := ContentWords(lex, question)
	matched := textseg.MatchTerms(lower, terms)

	ratio := neutralMatchRatio
	if len(terms) > 0 {
		ratio = float64(len(matched)) / float64(len(terms))
	}
	score := round(ratio * overlapWeight)

	details := map[string]any{
		"questionTerms": terms,
		"matchedTerms":  matched,
		"matchRatio":    ratio,
	}

	if qt == types.QuestionBehavioral {
		cues, complete := starCues(lex, lower)
		details["starCues"] = cues
		details["starComplete"] = complete
		if complete {
			score += starFullBonus
		} else {
			score = min(starPartialCap, score+starPartialBonus)
		}
	}

	if qt.IsProgrammingLanguage() {
		codeTerms := textseg.MatchTerms(lower, lex.CodeTerms)
		details["codeTerms"] = codeTerms
		if len(codeTerms) > 0 {
			score += codeVocabularyBonus
		}
	}

	score = clamp(score)
	return types.AnalysisResult{
		Score:    score,
		Feedback: relevanceTiers.Pick(score),
		Details:  details,
	}
}

// ContentWords extracts the distinct question words longer than three
// letters that are not stop words, in order of appearance.
func ContentWords(lex *lexicon.Lexicon, question string) []string {
	words := textseg.NormalizedWords(question)
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 || lex.IsStopWord(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// starCues reports which STAR components appear and whether all four do
func starCues(lex *lexicon.Lexicon, lowerAnswer string) (map[string]bool, bool) {
	present := make(map[string]bool, 4)
	complete := true
	for _, group := range lex.StarCues.Groups() {
		found := len(textseg.MatchTerms(lowerAnswer, group.Terms)) > 0
		present[group.Name] = found
		complete = complete && found
	}
	return present, complete
}
