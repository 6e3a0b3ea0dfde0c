package types

import (
	"fmt"
	"strings"
)

// QuestionType is the closed set of interview question categories
type QuestionType string

const (
	QuestionBehavioral          QuestionType = "behavioral"
	QuestionTechnical           QuestionType = "technical"
	QuestionSituational         QuestionType = "situational"
	QuestionSoftwareEngineering QuestionType = "software_engineering"
	QuestionDataScience         QuestionType = "data_science"
	QuestionProductManagement   QuestionType = "product_management"
	QuestionJavaScript          QuestionType = "javascript"
	QuestionPython              QuestionType = "python"
	QuestionJava                QuestionType = "java"
	QuestionGo                  QuestionType = "go"
)

var questionTypes = []QuestionType{
	QuestionBehavioral,
	QuestionTechnical,
	QuestionSituational,
	QuestionSoftwareEngineering,
	QuestionDataScience,
	QuestionProductManagement,
	QuestionJavaScript,
	QuestionPython,
	QuestionJava,
	QuestionGo,
}

var questionAliases = map[string]QuestionType{
	"golang": QuestionGo,
	"js":     QuestionJavaScript,
	"swe":    QuestionSoftwareEngineering,
}

// AllQuestionTypes returns every question type in declaration order
func AllQuestionTypes() []QuestionType {
	out := make([]QuestionType, len(questionTypes))
	copy(out, questionTypes)
	return out
}

// ParseQuestionType accepts display names ("Software Engineering"), snake
// case and a few aliases. Unknown values are an error.
func ParseQuestionType(s string) (QuestionType, error) {
	key := normalizeEnumKey(s)
	for _, qt := range questionTypes {
		if string(qt) == key {
			return qt, nil
		}
	}
	if qt, ok := questionAliases[key]; ok {
		return qt, nil
	}
	return "", fmt.Errorf("unknown question type %q", s)
}

// Valid reports whether the value is a member of the enum
func (q QuestionType) Valid() bool {
	for _, qt := range questionTypes {
		if qt == q {
			return true
		}
	}
	return false
}

// IsProgrammingLanguage reports whether the question targets a language
func (q QuestionType) IsProgrammingLanguage() bool {
	switch q {
	case QuestionJavaScript, QuestionPython, QuestionJava, QuestionGo:
		return true
	case QuestionBehavioral, QuestionTechnical, QuestionSituational,
		QuestionSoftwareEngineering, QuestionDataScience, QuestionProductManagement:
		return false
	}
	return false
}

// DisplayName returns the human readable name used in suggestions
func (q QuestionType) DisplayName() string {
	switch q {
	case QuestionBehavioral:
		return "Behavioral"
	case QuestionTechnical:
		return "Technical"
	case QuestionSituational:
		return "Situational"
	case QuestionSoftwareEngineering:
		return "Software Engineering"
	case QuestionDataScience:
		return "Data Science"
	case QuestionProductManagement:
		return "Product Management"
	case QuestionJavaScript:
		return "JavaScript"
	case QuestionPython:
		return "Python"
	case QuestionJava:
		return "Java"
	case QuestionGo:
		return "Go"
	}
	return string(q)
}

// JobType is the closed set of job families used for ATS keyword matching
type JobType string

const (
	JobGeneral          JobType = "general"
	JobSoftwareEngineer JobType = "software_engineer"
	JobDataScientist    JobType = "data_scientist"
	JobProductManager   JobType = "product_manager"
	JobDesigner         JobType = "designer"
	JobMarketing        JobType = "marketing"
)

var jobTypes = []JobType{
	JobGeneral,
	JobSoftwareEngineer,
	JobDataScientist,
	JobProductManager,
	JobDesigner,
	JobMarketing,
}

// AllJobTypes returns every job type in declaration order
func AllJobTypes() []JobType {
	out := make([]JobType, len(jobTypes))
	copy(out, jobTypes)
	return out
}

// ParseJobType resolves a job type, falling back to JobGeneral
func ParseJobType(s string) JobType {
	key := normalizeEnumKey(s)
	for _, jt := range jobTypes {
		if string(jt) == key {
			return jt
		}
	}
	return JobGeneral
}

// Valid reports whether the value is a member of the enum
func (j JobType) Valid() bool {
	for _, jt := range jobTypes {
		if jt == j {
			return true
		}
	}
	return false
}

func normalizeEnumKey(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	return key
}
