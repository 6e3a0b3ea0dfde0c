package analyzer

import (
	"strings"
	"unicode/utf8"

	"prepscore/internal/feedback"
	"prepscore/internal/lexicon"
	"prepscore/internal/textseg"
	"prepscore/internal/types"
)

const openingLength = 20

var structureTiers = feedback.Tiers{
	Cutoffs: []int{80, 60, 40},
	Messages: []string{
		"Your answer is well-structured with clear organization and logical flow.",
		"Your answer has a reasonable structure. Using more transition words could improve the flow.",
		"Your answer could be better organized. Try breaking it into clear paragraphs with transitions between ideas.",
		"Your answer lacks clear structure. Organize your thoughts into a beginning, middle, and end.",
	},
}

// Structure scores sentence shape, paragraphing, transitions and repetition
func Structure(lex *lexicon.Lexicon, answer string) types.AnalysisResult {
	if textseg.IsEffectivelyEmpty(answer) {
		return noAnswer()
	}

	sentences := textseg.Sentences(answer)
	paragraphs := textseg.Paragraphs(answer)
	lower := strings.ToLower(answer)

	score := 0

	// Sentence shape, max 20
	avgLen := averageWords(sentences)
	if n := len(sentences); n >= 3 && n <= 15 {
		score += 10
		if avgLen >= 10 && avgLen <= 25 {
			score += 10
		} else {
			score += 5
		}
	}

	// Paragraph shape, max 40
	distinctOpenings := hasDistinctOpenings(paragraphs)
	switch n := len(paragraphs); {
	case n >= 2 && n <= 5:
		score += 25
		if distinctOpenings {
			score += 15
		} else {
			score += 5
		}
	case n == 1:
		score += 15
	}

	// Transitions, max 30
	transitions := 0
	for _, t := range lex.Transitions {
		transitions += textseg.CountTerm(lower, t)
	}
	switch {
	case transitions >= 3:
		score += 30
	case transitions >= 1:
		score += 15
	}

	// Coherence, max 10
	repeated := repeatedWords(answer)
	switch {
	case len(repeated) <= 2:
		score += 10
	case len(repeated) <= 5:
		score += 5
	}

	score = clamp(score)
	return types.AnalysisResult{
		Score:    score,
		Feedback: structureTiers.Pick(score),
		Details: map[string]any{
			"sentenceCount":     len(sentences),
			"avgSentenceLength": avgLen,
			"paragraphCount":    len(paragraphs),
			"distinctOpenings":  distinctOpenings,
			"transitionCount":   transitions,
			"repeatedWords":     repeated,
		},
	}
}

func averageWords(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}
	total := 0
	for _, s := range sentences {
		total += textseg.WordCount(s)
	}
	return float64(total) / float64(len(sentences))
}

func hasDistinctOpenings(paragraphs []string) bool {
	seen := make(map[string]struct{}, len(paragraphs))
	for _, p := range paragraphs {
		opening := strings.ToLower(p)
		if len(opening) > openingLength {
			opening = truncateRunes(opening, openingLength)
		}
		if _, dup := seen[opening]; dup {
			return false
		}
		seen[opening] = struct{}{}
	}
	return true
}

// repeatedWords returns the distinct words longer than three letters used
// more than three times, in order of first use.
func repeatedWords(answer string) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range textseg.NormalizedWords(answer) {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	repeated := make([]string, 0)
	for _, w := range order {
		if counts[w] > 3 {
			repeated = append(repeated, w)
		}
	}
	return repeated
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
