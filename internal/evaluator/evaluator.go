// Package evaluator combines the four answer analyzers into one weighted
// score with ranked improvement suggestions.
package evaluator

import (
	"fmt"
	"math"
	"sort"

	"prepscore/internal/analyzer"
	"prepscore/internal/feedback"
	"prepscore/internal/lexicon"
	"prepscore/internal/textseg"
	"prepscore/internal/types"
)

// Dimension weights, summing to 1
const (
	RelevanceWeight    = 0.4
	KeywordsWeight     = 0.3
	StructureWeight    = 0.2
	CompletenessWeight = 0.1
)

const (
	// weakScore marks a dimension as needing a suggestion
	weakScore = 60
	// methodScore gates the STAR and code suggestions
	methodScore = 80
	// polishedScore is the score from which no suggestion is required
	polishedScore = 95
	// weakestDimensions is how many low dimensions get a suggestion
	weakestDimensions = 2
)

// Canned responses for an effectively empty answer
const (
	EmptyAnswerFeedback   = "No answer was provided for this question."
	EmptyAnswerSuggestion = "Prepare an answer for this type of question before your interview."
)

const (
	suggestRelevance    = "Focus on directly answering the question that was asked and address its key points explicitly."
	suggestKeywords     = "Include more %s-specific terminology and concepts in your answer."
	suggestStructure    = "Improve the structure of your answer with clear paragraphs and transition words such as 'first', 'however', and 'as a result'."
	suggestCompleteness = "Provide a more comprehensive answer with specific details and examples."
	suggestSTAR         = "Use the STAR method (Situation, Task, Action, Result) to structure your answer."
	suggestCode         = "Show your %s knowledge by referencing specific code constructs, syntax, or standard library functions."
	suggestQuantify     = "Quantify your achievements with specific numbers or metrics to make your answer more impactful."
)

type dimension struct {
	name  string
	score int
}

// EvaluateAnswer scores answer against question. It is total: any string,
// including the empty one, yields a result.
func EvaluateAnswer(lex *lexicon.Lexicon, answer, question string, qt types.QuestionType) types.EvaluationResult {
	if textseg.IsEffectivelyEmpty(answer) {
		return emptyResult()
	}

	details := types.EvaluationDetails{
		Completeness: analyzer.Completeness(lex, answer),
		Relevance:    analyzer.Relevance(lex, answer, question, qt),
		Keywords:     analyzer.Keywords(lex, answer, qt),
		Structure:    analyzer.Structure(lex, answer),
	}

	score := WeightedScore(details)

	feedbacks := make([]string, 0, 4)
	for _, r := range []types.AnalysisResult{details.Completeness, details.Relevance, details.Keywords, details.Structure} {
		if r.Feedback != "" {
			feedbacks = append(feedbacks, r.Feedback)
		}
	}

	return types.EvaluationResult{
		Score:       score,
		Feedbacks:   feedbacks,
		Suggestions: suggestions(details, score, qt),
		Details:     details,
	}
}

// WeightedScore combines the dimension scores into the overall score
func WeightedScore(d types.EvaluationDetails) int {
	raw := float64(d.Relevance.Score)*RelevanceWeight +
		float64(d.Keywords.Score)*KeywordsWeight +
		float64(d.Structure.Score)*StructureWeight +
		float64(d.Completeness.Score)*CompletenessWeight
	return max(0, min(100, int(math.Round(raw))))
}

func suggestions(d types.EvaluationDetails, score int, qt types.QuestionType) []string {
	// Ties keep this order
	dims := []dimension{
		{"relevance", d.Relevance.Score},
		{"keywords", d.Keywords.Score},
		{"structure", d.Structure.Score},
		{"completeness", d.Completeness.Score},
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].score < dims[j].score })

	var out []string
	for _, dim := range dims[:weakestDimensions] {
		if dim.score >= weakScore {
			continue
		}
		out = append(out, dimensionSuggestion(dim.name, qt))
	}

	if score < methodScore {
		if qt == types.QuestionBehavioral {
			out = append(out, suggestSTAR)
		}
		if qt.IsProgrammingLanguage() {
			out = append(out, fmt.Sprintf(suggestCode, qt.DisplayName()))
		}
	}

	if len(out) == 0 && score < polishedScore {
		out = append(out, suggestQuantify)
	}

	return feedback.DedupeSuggestions(out)
}

func dimensionSuggestion(name string, qt types.QuestionType) string {
	switch name {
	case "relevance":
		return suggestRelevance
	case "keywords":
		return fmt.Sprintf(suggestKeywords, qt.DisplayName())
	case "structure":
		return suggestStructure
	default:
		return suggestCompleteness
	}
}

func emptyResult() types.EvaluationResult {
	zero := types.AnalysisResult{Score: 0, Feedback: analyzer.NoAnswerFeedback}
	return types.EvaluationResult{
		Score:       0,
		Feedbacks:   []string{EmptyAnswerFeedback},
		Suggestions: []string{EmptyAnswerSuggestion},
		Details: types.EvaluationDetails{
			Completeness: zero,
			Relevance:    zero,
			Keywords:     zero,
			Structure:    zero,
		},
	}
}
