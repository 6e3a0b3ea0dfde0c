package types

// AnswerInput represents a single interview answer to be scored
type AnswerInput struct {
	QuestionID   string       `json:"questionId"`
	Question     string       `json:"question"`
	QuestionType QuestionType `json:"questionType"`
	Answer       string       `json:"answer"`
}

// AnalysisResult represents the outcome of one scoring dimension
type AnalysisResult struct {
	Score    int            `json:"score"` // 0-100
	Feedback string         `json:"feedback"`
	Details  map[string]any `json:"details,omitempty"`
}

// EvaluationDetails holds the four dimension results behind an evaluation
type EvaluationDetails struct {
	Completeness AnalysisResult `json:"completeness"`
	Relevance    AnalysisResult `json:"relevance"`
	Keywords     AnalysisResult `json:"keywords"`
	Structure    AnalysisResult `json:"structure"`
}

// EvaluationResult represents the composite score for an answer
type EvaluationResult struct {
	Score       int               `json:"score"` // weighted 0-100
	Feedbacks   []string          `json:"feedbacks"`
	Suggestions []string          `json:"suggestions"`
	Details     EvaluationDetails `json:"details"`
}

// Project represents a project entry pulled from a resume
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResumeInfo represents structured facts extracted from resume text
type ResumeInfo struct {
	Skills       []string  `json:"skills"`
	Companies    []string  `json:"companies"`
	JobTitles    []string  `json:"jobTitles"`
	Projects     []Project `json:"projects"`
	Education    []string  `json:"education"`
	Achievements []string  `json:"achievements"`
}

// Severity classifies how much a formatting issue costs
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Penalty returns the ATS score deduction for the severity
func (s Severity) Penalty() float64 {
	switch s {
	case SeverityHigh:
		return 5
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 1
	}
	return 0
}

// FormattingIssue represents a detected resume layout problem
type FormattingIssue struct {
	Issue    string   `json:"issue"`
	Severity Severity `json:"severity"`
}

// ATSAnalysis represents the ATS compatibility analysis of a resume
type ATSAnalysis struct {
	Score            int               `json:"score"` // 0-100
	KeywordsFound    []string          `json:"keywordsFound"`
	MissingKeywords  []string          `json:"missingKeywords"`
	ActionVerbsFound []string          `json:"actionVerbsFound"`
	FormattingIssues []FormattingIssue `json:"formattingIssues"`
	Recommendations  []string          `json:"recommendations"`
}

// ATSFeedback represents the human readable verdict for an ATS score
type ATSFeedback struct {
	Message      string   `json:"message"`
	Strength     string   `json:"strength"` // "strong", "moderate" or "weak"
	Improvements []string `json:"improvements"`
}

// ATSReport bundles an analysis with its feedback
type ATSReport struct {
	JobType  JobType     `json:"jobType"`
	Analysis ATSAnalysis `json:"analysis"`
	Feedback ATSFeedback `json:"feedback"`
}

// SessionAnswerResult ties one evaluation back to its question
type SessionAnswerResult struct {
	QuestionID   string           `json:"questionId"`
	QuestionType QuestionType     `json:"questionType"`
	Summary      string           `json:"summary"`
	Result       EvaluationResult `json:"result"`
}

// SessionReport represents the scored outcome of a batch of answers
type SessionReport struct {
	Results      []SessionAnswerResult `json:"results"`
	AverageScore int                   `json:"averageScore"`
	Summary      string                `json:"summary"`
}

// LexiconSummary describes a loaded lexicon
type LexiconSummary struct {
	Version string         `json:"version"`
	Source  string         `json:"source"` // file path or "built-in"
	Tables  map[string]int `json:"tables"`
}
