package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"prepscore/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "EvaluationResult", &EvaluationTextFormatter{})
	registry.RegisterFormatter("markdown", "EvaluationResult", &EvaluationMarkdownFormatter{})
	registry.RegisterFormatter("text", "ATSReport", &ATSTextFormatter{})
	registry.RegisterFormatter("markdown", "ATSReport", &ATSMarkdownFormatter{})
	registry.RegisterFormatter("text", "ResumeInfo", &ResumeInfoTextFormatter{})
	registry.RegisterFormatter("markdown", "ResumeInfo", &ResumeInfoMarkdownFormatter{})
	registry.RegisterFormatter("text", "SessionReport", &SessionTextFormatter{})
	registry.RegisterFormatter("markdown", "SessionReport", &SessionMarkdownFormatter{})
	registry.RegisterFormatter("text", "LexiconSummary", &LexiconTextFormatter{})
	registry.RegisterFormatter("markdown", "LexiconSummary", &LexiconTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.EvaluationResult:
		return "EvaluationResult"
	case types.ATSReport:
		return "ATSReport"
	case types.ResumeInfo:
		return "ResumeInfo"
	case types.SessionReport:
		return "SessionReport"
	case types.LexiconSummary:
		return "LexiconSummary"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// EvaluationTextFormatter handles text formatting for answer evaluations
type EvaluationTextFormatter struct{}

func (etf *EvaluationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EvaluationResult)
	if !ok {
		return "", fmt.Errorf("expected EvaluationResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== ANSWER EVALUATION ===\n")
	fmt.Fprintf(&output, "Score: %d/100\n\n", result.Score)
	writeEvaluationText(&output, result, "")
	return output.String(), nil
}

func (etf *EvaluationTextFormatter) SupportedType() string {
	return "EvaluationResult"
}

func writeEvaluationText(output *strings.Builder, result types.EvaluationResult, indent string) {
	d := result.Details
	fmt.Fprintf(output, "%sCompleteness: %3d  %s\n", indent, d.Completeness.Score, d.Completeness.Feedback)
	fmt.Fprintf(output, "%sRelevance:    %3d  %s\n", indent, d.Relevance.Score, d.Relevance.Feedback)
	fmt.Fprintf(output, "%sKeywords:     %3d  %s\n", indent, d.Keywords.Score, d.Keywords.Feedback)
	fmt.Fprintf(output, "%sStructure:    %3d  %s\n", indent, d.Structure.Score, d.Structure.Feedback)

	if len(result.Suggestions) > 0 {
		fmt.Fprintf(output, "\n%sSuggestions:\n", indent)
		for _, s := range result.Suggestions {
			fmt.Fprintf(output, "%s- %s\n", indent, s)
		}
	}
}

// EvaluationMarkdownFormatter handles markdown formatting for answer evaluations
type EvaluationMarkdownFormatter struct{}

func (emf *EvaluationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EvaluationResult)
	if !ok {
		return "", fmt.Errorf("expected EvaluationResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Answer Evaluation\n\n")
	fmt.Fprintf(&output, "**Score:** %d/100\n\n", result.Score)
	writeEvaluationMarkdown(&output, result, "##")
	return output.String(), nil
}

func (emf *EvaluationMarkdownFormatter) SupportedType() string {
	return "EvaluationResult"
}

func writeEvaluationMarkdown(output *strings.Builder, result types.EvaluationResult, heading string) {
	d := result.Details
	output.WriteString("| Dimension | Score | Feedback |\n")
	output.WriteString("|---|---|---|\n")
	fmt.Fprintf(output, "| Completeness | %d | %s |\n", d.Completeness.Score, d.Completeness.Feedback)
	fmt.Fprintf(output, "| Relevance | %d | %s |\n", d.Relevance.Score, d.Relevance.Feedback)
	fmt.Fprintf(output, "| Keywords | %d | %s |\n", d.Keywords.Score, d.Keywords.Feedback)
	fmt.Fprintf(output, "| Structure | %d | %s |\n\n", d.Structure.Score, d.Structure.Feedback)

	if len(result.Suggestions) > 0 {
		fmt.Fprintf(output, "%s Suggestions\n\n", heading)
		for _, s := range result.Suggestions {
			fmt.Fprintf(output, "- %s\n", s)
		}
		output.WriteString("\n")
	}
}

// ATSTextFormatter handles text formatting for ATS reports
type ATSTextFormatter struct{}

func (atf *ATSTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}
	a := report.Analysis

	var output strings.Builder
	output.WriteString("=== ATS ANALYSIS ===\n")
	fmt.Fprintf(&output, "Job type: %s\n", report.JobType)
	fmt.Fprintf(&output, "Score: %d/100 (%s)\n", a.Score, report.Feedback.Strength)
	output.WriteString(report.Feedback.Message)
	output.WriteString("\n\n")

	writeList(&output, "Keywords found", a.KeywordsFound)
	writeList(&output, "Missing keywords", a.MissingKeywords)
	writeList(&output, "Action verbs", a.ActionVerbsFound)

	if len(a.FormattingIssues) > 0 {
		output.WriteString("=== FORMATTING ISSUES ===\n")
		for _, issue := range a.FormattingIssues {
			fmt.Fprintf(&output, "[%s] %s\n", strings.ToUpper(string(issue.Severity)), issue.Issue)
		}
		output.WriteString("\n")
	}

	if len(report.Feedback.Improvements) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for i, rec := range report.Feedback.Improvements {
			fmt.Fprintf(&output, "%d. %s\n", i+1, rec)
		}
	}

	return output.String(), nil
}

func (atf *ATSTextFormatter) SupportedType() string {
	return "ATSReport"
}

func writeList(output *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(output, "%s: none\n", label)
		return
	}
	fmt.Fprintf(output, "%s: %s\n", label, strings.Join(items, ", "))
}

// ATSMarkdownFormatter handles markdown formatting for ATS reports
type ATSMarkdownFormatter struct{}

func (amf *ATSMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}
	a := report.Analysis

	var output strings.Builder
	output.WriteString("# ATS Analysis\n\n")
	fmt.Fprintf(&output, "**Job type:** %s  \n", report.JobType)
	fmt.Fprintf(&output, "**Score:** %d/100 (%s)\n\n", a.Score, report.Feedback.Strength)
	fmt.Fprintf(&output, "> %s\n\n", report.Feedback.Message)

	output.WriteString("## Keywords\n\n")
	fmt.Fprintf(&output, "- **Found:** %s\n", joinOrNone(a.KeywordsFound))
	fmt.Fprintf(&output, "- **Missing:** %s\n", joinOrNone(a.MissingKeywords))
	fmt.Fprintf(&output, "- **Action verbs:** %s\n\n", joinOrNone(a.ActionVerbsFound))

	if len(a.FormattingIssues) > 0 {
		output.WriteString("## Formatting Issues\n\n")
		for _, issue := range a.FormattingIssues {
			fmt.Fprintf(&output, "- **%s:** %s\n", issue.Severity, issue.Issue)
		}
		output.WriteString("\n")
	}

	if len(report.Feedback.Improvements) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, rec := range report.Feedback.Improvements {
			fmt.Fprintf(&output, "%d. %s\n", i+1, rec)
		}
	}

	return output.String(), nil
}

func (amf *ATSMarkdownFormatter) SupportedType() string {
	return "ATSReport"
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// ResumeInfoTextFormatter handles text formatting for extracted resume information
type ResumeInfoTextFormatter struct{}

func (rtf *ResumeInfoTextFormatter) Format(data any) (string, error) {
	info, ok := data.(types.ResumeInfo)
	if !ok {
		return "", fmt.Errorf("expected ResumeInfo, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== RESUME INFORMATION ===\n")
	writeList(&output, "Skills", info.Skills)
	writeList(&output, "Companies", info.Companies)
	writeList(&output, "Job titles", info.JobTitles)
	writeList(&output, "Education", info.Education)

	output.WriteString("Projects:")
	if len(info.Projects) == 0 {
		output.WriteString(" none\n")
	} else {
		output.WriteString("\n")
		for _, p := range info.Projects {
			fmt.Fprintf(&output, "  - %s", p.Name)
			if p.Description != "" {
				fmt.Fprintf(&output, ": %s", p.Description)
			}
			output.WriteString("\n")
		}
	}

	output.WriteString("Achievements:")
	if len(info.Achievements) == 0 {
		output.WriteString(" none\n")
	} else {
		output.WriteString("\n")
		for _, a := range info.Achievements {
			fmt.Fprintf(&output, "  - %s\n", a)
		}
	}

	return output.String(), nil
}

func (rtf *ResumeInfoTextFormatter) SupportedType() string {
	return "ResumeInfo"
}

// ResumeInfoMarkdownFormatter handles markdown formatting for extracted resume information
type ResumeInfoMarkdownFormatter struct{}

func (rmf *ResumeInfoMarkdownFormatter) Format(data any) (string, error) {
	info, ok := data.(types.ResumeInfo)
	if !ok {
		return "", fmt.Errorf("expected ResumeInfo, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Information\n\n")
	fmt.Fprintf(&output, "**Skills:** %s\n\n", joinOrNone(info.Skills))
	fmt.Fprintf(&output, "**Companies:** %s\n\n", joinOrNone(info.Companies))
	fmt.Fprintf(&output, "**Job titles:** %s\n\n", joinOrNone(info.JobTitles))

	if len(info.Projects) > 0 {
		output.WriteString("## Projects\n\n")
		for _, p := range info.Projects {
			fmt.Fprintf(&output, "### %s\n\n%s\n\n", p.Name, p.Description)
		}
	}

	if len(info.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, e := range info.Education {
			fmt.Fprintf(&output, "- %s\n", e)
		}
		output.WriteString("\n")
	}

	if len(info.Achievements) > 0 {
		output.WriteString("## Achievements\n\n")
		for _, a := range info.Achievements {
			fmt.Fprintf(&output, "- %s\n", a)
		}
	}

	return output.String(), nil
}

func (rmf *ResumeInfoMarkdownFormatter) SupportedType() string {
	return "ResumeInfo"
}

// SessionTextFormatter handles text formatting for session reports
type SessionTextFormatter struct{}

func (stf *SessionTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.SessionReport)
	if !ok {
		return "", fmt.Errorf("expected SessionReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== INTERVIEW SESSION ===\n")
	fmt.Fprintf(&output, "Average score: %d/100\n", report.AverageScore)
	output.WriteString(report.Summary)
	output.WriteString("\n")

	for i, r := range report.Results {
		label := r.QuestionID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		fmt.Fprintf(&output, "\n--- %s (%s) %d/100 ---\n", label, r.QuestionType.DisplayName(), r.Result.Score)
		output.WriteString(r.Summary)
		output.WriteString("\n")
		writeEvaluationText(&output, r.Result, "  ")
	}

	return output.String(), nil
}

func (stf *SessionTextFormatter) SupportedType() string {
	return "SessionReport"
}

// SessionMarkdownFormatter handles markdown formatting for session reports
type SessionMarkdownFormatter struct{}

func (smf *SessionMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.SessionReport)
	if !ok {
		return "", fmt.Errorf("expected SessionReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Interview Session\n\n")
	fmt.Fprintf(&output, "**Average score:** %d/100\n\n%s\n\n", report.AverageScore, report.Summary)

	for i, r := range report.Results {
		label := r.QuestionID
		if label == "" {
			label = fmt.Sprintf("Answer %d", i+1)
		}
		fmt.Fprintf(&output, "## %s: %s (%d/100)\n\n", label, r.QuestionType.DisplayName(), r.Result.Score)
		fmt.Fprintf(&output, "%s\n\n", r.Summary)
		writeEvaluationMarkdown(&output, r.Result, "###")
	}

	return output.String(), nil
}

func (smf *SessionMarkdownFormatter) SupportedType() string {
	return "SessionReport"
}

// LexiconTextFormatter prints a lexicon summary as aligned text
type LexiconTextFormatter struct{}

func (ltf *LexiconTextFormatter) Format(data any) (string, error) {
	summary, ok := data.(types.LexiconSummary)
	if !ok {
		return "", fmt.Errorf("expected LexiconSummary, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "Lexicon %s (%s)\n", summary.Version, summary.Source)

	names := make([]string, 0, len(summary.Tables))
	for name := range summary.Tables {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&output, "  %-16s %d\n", name, summary.Tables[name])
	}

	return output.String(), nil
}

func (ltf *LexiconTextFormatter) SupportedType() string {
	return "LexiconSummary"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
