// Package ats scores how well a resume will survive Applicant Tracking
// System screening.
package ats

import (
	"math"
	"strings"

	"prepscore/internal/lexicon"
	"prepscore/internal/textseg"
	"prepscore/internal/types"
)

// Score components
const (
	baseScore          = 70.0
	keywordPoints      = 1.5
	maxKeywordBonus    = 15.0
	maxVerbBonus       = 10.0
	quantityPoints     = 2.0
	maxQuantityBonus   = 5.0
	noQuantityPenalty  = 5.0
	contactBonus       = 2.0
	contactPenalty     = 3.0
	importantKeywords  = 10
	maxMissingReported = 5
	minKeywords        = 8
	minActionVerbs     = 5
)

// Recommendation texts
const (
	RecommendNoContent   = "No content could be extracted from the resume. Make sure the file contains selectable text, not scanned images."
	RecommendKeywords    = "Add more industry-relevant keywords from the job description to your resume."
	RecommendVerbs       = "Use strong action verbs (e.g., 'developed', 'led', 'implemented') to describe your experience."
	RecommendMetrics     = "Add quantifiable achievements with specific metrics (e.g., 'Increased sales by 20%')."
	RecommendFormatting  = "Fix the detected formatting issues to improve ATS readability."
	RecommendMissingTerm = "Consider adding these keywords: "
)

// AnalyzeATS scores resume text for a job type. It never fails; empty
// text scores 0 with a single recommendation.
func AnalyzeATS(lex *lexicon.Lexicon, text string, jt types.JobType) types.ATSAnalysis {
	analysis := types.ATSAnalysis{
		KeywordsFound:    make([]string, 0),
		MissingKeywords:  make([]string, 0),
		ActionVerbsFound: make([]string, 0),
		FormattingIssues: make([]types.FormattingIssue, 0),
		Recommendations:  make([]string, 0),
	}

	if strings.TrimSpace(text) == "" {
		analysis.Recommendations = append(analysis.Recommendations, RecommendNoContent)
		return analysis
	}
	if !jt.Valid() {
		jt = types.JobGeneral
	}

	lower := strings.ToLower(text)
	score := baseScore

	universe := KeywordUniverse(lex, jt)
	analysis.KeywordsFound = textseg.MatchTerms(lower, universe)
	score += math.Min(maxKeywordBonus, float64(len(analysis.KeywordsFound))*keywordPoints)

	important := universe[:min(importantKeywords, len(universe))]
	for _, kw := range important {
		if len(analysis.MissingKeywords) == maxMissingReported {
			break
		}
		if !textseg.ContainsTerm(lower, kw) {
			analysis.MissingKeywords = append(analysis.MissingKeywords, kw)
		}
	}

	analysis.ActionVerbsFound = textseg.MatchTerms(lower, lex.ActionVerbs)
	score += math.Min(maxVerbBonus, float64(len(analysis.ActionVerbsFound)))

	quantities := CountQuantities(lex, text)
	if quantities > 0 {
		score += math.Min(maxQuantityBonus, float64(quantities)*quantityPoints)
	} else {
		score -= noQuantityPenalty
	}

	if HasEmail(text) && HasPhone(text) {
		score += contactBonus
	} else {
		score -= contactPenalty
	}

	analysis.FormattingIssues = DetectFormattingIssues(lex, text)
	for _, issue := range analysis.FormattingIssues {
		score -= issue.Severity.Penalty()
	}

	analysis.Score = max(0, min(100, int(math.Round(score))))
	analysis.Recommendations = recommendations(analysis, quantities)
	return analysis
}

// KeywordUniverse is the job type's keywords followed by the general ones
func KeywordUniverse(lex *lexicon.Lexicon, jt types.JobType) []string {
	seen := make(map[string]struct{})
	var out []string
	lists := [][]string{lex.JobKeywordList(jt), lex.JobKeywordList(types.JobGeneral)}
	for _, list := range lists {
		for _, kw := range list {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}

func recommendations(a types.ATSAnalysis, quantities int) []string {
	recs := make([]string, 0, 5)
	if len(a.KeywordsFound) < minKeywords {
		recs = append(recs, RecommendKeywords)
	}
	if len(a.ActionVerbsFound) < minActionVerbs {
		recs = append(recs, RecommendVerbs)
	}
	if quantities == 0 {
		recs = append(recs, RecommendMetrics)
	}
	if len(a.FormattingIssues) > 0 {
		recs = append(recs, RecommendFormatting)
	}
	if len(a.MissingKeywords) > 0 {
		recs = append(recs, RecommendMissingTerm+strings.Join(a.MissingKeywords, ", "))
	}
	return recs
}
