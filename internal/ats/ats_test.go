package ats

import (
	"strings"
	"testing"

	"prepscore/internal/lexicon"
	"prepscore/internal/resume"
	"prepscore/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesResume = `Jane Doe
jane@example.com
555-123-4567

Experience
Account Manager at Initech
Increased sales by 20%
Led a regional team and managed key accounts

Education
BA Economics

Skills
Communication, leadership, negotiation`

func TestAnalyzeATSEmpty(t *testing.T) {
	for _, text := range []string{"", "  \n\t "} {
		analysis := AnalyzeATS(lexicon.Default(), text, types.JobSoftwareEngineer)
		assert.Equal(t, 0, analysis.Score)
		assert.Equal(t, []string{RecommendNoContent}, analysis.Recommendations)
		assert.NotNil(t, analysis.KeywordsFound)
		assert.NotNil(t, analysis.FormattingIssues)
	}
}

func TestAnalyzeATSBareResume(t *testing.T) {
	text := "John Smith\nI like building things and working with people on interesting problems every day."
	analysis := AnalyzeATS(lexicon.Default(), text, types.JobGeneral)

	severe := 0
	for _, issue := range analysis.FormattingIssues {
		if issue.Severity == types.SeverityHigh || issue.Severity == types.SeverityMedium {
			severe++
		}
	}
	assert.GreaterOrEqual(t, severe, 3)
	assert.Equal(t, []types.FormattingIssue{
		{Issue: "Missing essential sections: experience, education, skills", Severity: types.SeverityHigh},
		{Issue: IssueNoContact, Severity: types.SeverityHigh},
		{Issue: IssueNoQuantities, Severity: types.SeverityMedium},
	}, analysis.FormattingIssues)

	// 70 - 5 (no metrics) - 3 (no contact) - 5 - 5 - 3
	assert.Equal(t, 49, analysis.Score)
	assert.LessOrEqual(t, analysis.Score, 70-(5+5+5))
	assert.Contains(t, analysis.Recommendations, RecommendMetrics)
	assert.Contains(t, analysis.Recommendations, RecommendFormatting)
}

func TestQuantifiedAchievementAddsPoints(t *testing.T) {
	lex := lexicon.Default()
	with := AnalyzeATS(lex, salesResume, types.JobGeneral)
	without := AnalyzeATS(lex, strings.Replace(salesResume, "Increased sales by 20%", "Increased sales significantly", 1), types.JobGeneral)

	assert.Equal(t, 80, with.Score)
	assert.Equal(t, 70, without.Score)
	assert.Empty(t, with.FormattingIssues)
	assert.NotContains(t, with.Recommendations, RecommendMetrics)
	assert.Contains(t, without.Recommendations, RecommendMetrics)

	info := resume.ExtractResumeInformation(lex, salesResume)
	assert.Contains(t, info.Achievements, "Increased sales by 20%")
	assert.Contains(t, with.ActionVerbsFound, "increased")
}

func TestMissingKeywords(t *testing.T) {
	analysis := AnalyzeATS(lexicon.Default(), salesResume, types.JobGeneral)

	assert.Equal(t, []string{"communication", "leadership"}, analysis.KeywordsFound)
	assert.Equal(t, []string{"teamwork", "problem solving", "project management", "collaboration", "analytical"}, analysis.MissingKeywords)
	assert.Equal(t, []string{
		RecommendKeywords,
		RecommendVerbs,
		"Consider adding these keywords: teamwork, problem solving, project management, collaboration, analytical",
	}, analysis.Recommendations)
}

func TestKeywordUniverse(t *testing.T) {
	lex := lexicon.Default()
	universe := KeywordUniverse(lex, types.JobProductManager)
	general := lex.JobKeywordList(types.JobGeneral)

	require.Greater(t, len(universe), len(general))
	assert.Equal(t, lex.JobKeywordList(types.JobProductManager)[0], universe[0])
	assert.Subset(t, universe, general)
	assert.Len(t, KeywordUniverse(lex, types.JobGeneral), len(general))
}

func TestInvalidJobTypeFallsBackToGeneral(t *testing.T) {
	lex := lexicon.Default()
	assert.Equal(t,
		AnalyzeATS(lex, salesResume, types.JobGeneral),
		AnalyzeATS(lex, salesResume, types.JobType("astronaut")))
}

func TestDetectFormattingIssues(t *testing.T) {
	lex := lexicon.Default()
	base := "Experience\nEducation\nSkills\njane@example.com 555-123-4567\nGrew revenue 20%\n"

	tests := []struct {
		name string
		text string
		want *types.FormattingIssue
	}{
		{"clean", base, nil},
		{"double space", base + "Go  and Rust", &types.FormattingIssue{Issue: IssueWhitespace, Severity: types.SeverityMedium}},
		{"triple newline", base + "\n\n\nEnd", &types.FormattingIssue{Issue: IssueWhitespace, Severity: types.SeverityMedium}},
		{"table", base + "a | b | c | d | e", &types.FormattingIssue{Issue: IssueTable, Severity: types.SeverityHigh}},
		{"three pipes are fine", base + "a | b | c | d", nil},
		{"mixed bullets", base + "• one\n- two", &types.FormattingIssue{Issue: IssueBullets, Severity: types.SeverityLow}},
		{"no email", strings.Replace(base, "jane@example.com ", "", 1), &types.FormattingIssue{Issue: IssueNoEmail, Severity: types.SeverityHigh}},
		{"no phone", strings.Replace(base, " 555-123-4567", "", 1), &types.FormattingIssue{Issue: IssueNoPhone, Severity: types.SeverityHigh}},
		{"no metrics", strings.Replace(base, "20%", "a lot", 1), &types.FormattingIssue{Issue: IssueNoQuantities, Severity: types.SeverityMedium}},
		{"missing skills", strings.Replace(base, "Skills\n", "", 1), &types.FormattingIssue{Issue: "Missing essential sections: skills", Severity: types.SeverityHigh}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := DetectFormattingIssues(lex, tt.text)
			if tt.want == nil {
				assert.Empty(t, issues)
				return
			}
			assert.Equal(t, []types.FormattingIssue{*tt.want}, issues)
		})
	}
}

func TestScoreBounds(t *testing.T) {
	lex := lexicon.Default()
	rich := strings.Repeat(salesResume+"\nDeveloped, designed, launched, optimized, automated, scaled, built python docker kubernetes aws api sql git react agile testing linux $2M 50% 10 million users\n", 3)
	texts := []string{"x", salesResume, rich, "| | | | |\t\t  \n\n\n• a\n* b\n- c\n> d"}

	for _, jt := range types.AllJobTypes() {
		for _, text := range texts {
			score := AnalyzeATS(lex, text, jt).Score
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}
