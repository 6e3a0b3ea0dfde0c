package ats

import (
	"fmt"
	"regexp"
	"strings"

	"prepscore/internal/lexicon"
	"prepscore/internal/textseg"
	"prepscore/internal/types"
)

// Formatting issue messages
const (
	IssueMissingSections = "Missing essential sections: %s"
	IssueWhitespace      = "Excessive whitespace detected, which can confuse ATS parsers"
	IssueTable           = "Possible table structure detected; ATS systems often cannot parse tables"
	IssueBullets         = "Inconsistent bullet point styles"
	IssueNoContact       = "Missing contact information: email and phone number"
	IssueNoEmail         = "Missing email address"
	IssueNoPhone         = "Missing phone number"
	IssueNoQuantities    = "No quantifiable achievements found"
)

const maxPipes = 3

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+?\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
)

var bulletStyles = []string{"•", "*", "-", ">"}

// DetectFormattingIssues runs every layout check against text
func DetectFormattingIssues(lex *lexicon.Lexicon, text string) []types.FormattingIssue {
	issues := make([]types.FormattingIssue, 0)
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lower := strings.ToLower(normalized)

	if missing := missingSections(lex, lower); len(missing) > 0 {
		issues = append(issues, types.FormattingIssue{
			Issue:    fmt.Sprintf(IssueMissingSections, strings.Join(missing, ", ")),
			Severity: types.SeverityHigh,
		})
	}

	if strings.Contains(normalized, "\t\t") || strings.Contains(normalized, "  ") || strings.Contains(normalized, "\n\n\n") {
		issues = append(issues, types.FormattingIssue{Issue: IssueWhitespace, Severity: types.SeverityMedium})
	}

	if strings.Count(normalized, "|") > maxPipes {
		issues = append(issues, types.FormattingIssue{Issue: IssueTable, Severity: types.SeverityHigh})
	}

	if countBulletStyles(normalized) > 1 {
		issues = append(issues, types.FormattingIssue{Issue: IssueBullets, Severity: types.SeverityLow})
	}

	hasEmail, hasPhone := HasEmail(normalized), HasPhone(normalized)
	switch {
	case !hasEmail && !hasPhone:
		issues = append(issues, types.FormattingIssue{Issue: IssueNoContact, Severity: types.SeverityHigh})
	case !hasEmail:
		issues = append(issues, types.FormattingIssue{Issue: IssueNoEmail, Severity: types.SeverityHigh})
	case !hasPhone:
		issues = append(issues, types.FormattingIssue{Issue: IssueNoPhone, Severity: types.SeverityHigh})
	}

	if CountQuantities(lex, normalized) == 0 {
		issues = append(issues, types.FormattingIssue{Issue: IssueNoQuantities, Severity: types.SeverityMedium})
	}

	return issues
}

// HasEmail reports whether text contains an email address
func HasEmail(text string) bool {
	return emailPattern.MatchString(text)
}

// HasPhone reports whether text contains a phone number
func HasPhone(text string) bool {
	return phonePattern.MatchString(text)
}

// CountQuantities counts quantifiable tokens such as percentages and amounts
func CountQuantities(lex *lexicon.Lexicon, text string) int {
	return len(lex.QuantityPattern().FindAllStringIndex(text, -1))
}

func missingSections(lex *lexicon.Lexicon, lower string) []string {
	var missing []string
	for _, name := range lexicon.EssentialSections {
		terms := append([]string{name}, lex.SectionHeaders(name)...)
		if len(textseg.MatchTerms(lower, terms)) == 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// countBulletStyles counts distinct bullet markers used at line starts
func countBulletStyles(text string) int {
	used := make(map[string]struct{})
	for _, line := range textseg.Lines(text) {
		for _, style := range bulletStyles {
			if strings.HasPrefix(line, style) {
				used[style] = struct{}{}
				break
			}
		}
	}
	return len(used)
}
