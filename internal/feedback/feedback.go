// Package feedback turns scores into fixed natural-language messages.
package feedback

import (
	"strings"

	"prepscore/internal/types"
)

// Tiers maps descending score cutoffs to messages. Messages has one more
// entry than Cutoffs; the last one applies below the lowest cutoff.
type Tiers struct {
	Cutoffs  []int
	Messages []string
}

// Pick returns the message for score
func (t Tiers) Pick(score int) string {
	for i, cutoff := range t.Cutoffs {
		if score >= cutoff {
			return t.Messages[i]
		}
	}
	return t.Messages[len(t.Messages)-1]
}

// AnswerSummary is the overall verdict for one evaluated answer
var AnswerSummary = Tiers{
	Cutoffs: []int{85, 70, 50},
	Messages: []string{
		"Excellent answer! You demonstrated strong understanding and communicated it clearly.",
		"Good answer. A few refinements would make it excellent.",
		"Fair answer. Work on the suggestions to strengthen it.",
		"This answer needs significant improvement. Review the suggestions and practice again.",
	},
}

// SessionSummary is the overall verdict for a batch of answers
var SessionSummary = Tiers{
	Cutoffs: []int{85, 70, 50},
	Messages: []string{
		"Outstanding session. Your answers were consistently strong.",
		"Solid session. Polish the weaker answers to stand out.",
		"Mixed session. Several answers need more detail and structure.",
		"This session needs more preparation. Practice the suggested improvements before your interview.",
	},
}

var resumeTiers = Tiers{
	Cutoffs: []int{85, 60},
	Messages: []string{
		"Excellent! Your resume is highly optimized for ATS systems.",
		"Good job! Your resume is reasonably ATS-friendly, but there is room for improvement.",
		"Your resume needs significant improvements to pass ATS screening.",
	},
}

var resumeStrength = Tiers{
	Cutoffs:  []int{85, 60},
	Messages: []string{"strong", "moderate", "weak"},
}

// GenerateATSFeedback builds the verdict for an ATS score
func GenerateATSFeedback(score int, analysis types.ATSAnalysis) types.ATSFeedback {
	return types.ATSFeedback{
		Message:      resumeTiers.Pick(score),
		Strength:     resumeStrength.Pick(score),
		Improvements: DedupeSuggestions(analysis.Recommendations),
	}
}

// DedupeSuggestions drops blank entries and any entry that contains, or is
// contained in, an earlier one, ignoring case. The result is never nil.
func DedupeSuggestions(items []string) []string {
	out := make([]string, 0, len(items))
	kept := make([]string, 0, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		lower := strings.ToLower(item)
		duplicate := false
		for _, k := range kept {
			if strings.Contains(k, lower) || strings.Contains(lower, k) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		kept = append(kept, lower)
		out = append(out, item)
	}
	return out
}
