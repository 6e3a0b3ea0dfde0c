// Package lexicon holds the versioned vocabulary tables the scoring engine
// matches against.
package lexicon

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	"prepscore/internal/errors"
	"prepscore/internal/types"

	"github.com/spf13/viper"
)

//go:embed default.yaml
var defaultData []byte

// Section names used as keys of the sections table
const (
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionSummary        = "summary"
	SectionCertifications = "certifications"
)

// EssentialSections must be present for a resume to be ATS friendly
var EssentialSections = []string{SectionExperience, SectionEducation, SectionSkills}

// KeywordTiers is the primary/secondary/bonus vocabulary for a question type
type KeywordTiers struct {
	Primary   []string `mapstructure:"primary"`
	Secondary []string `mapstructure:"secondary"`
	Bonus     []string `mapstructure:"bonus"`
}

// StarCues lists the cue phrases of each STAR component
type StarCues struct {
	Situation []string `mapstructure:"situation"`
	Task      []string `mapstructure:"task"`
	Action    []string `mapstructure:"action"`
	Result    []string `mapstructure:"result"`
}

// Groups returns the cue lists keyed by component name, in STAR order
func (s StarCues) Groups() []CueGroup {
	return []CueGroup{
		{Name: "situation", Terms: s.Situation},
		{Name: "task", Terms: s.Task},
		{Name: "action", Terms: s.Action},
		{Name: "result", Terms: s.Result},
	}
}

// CueGroup is one named STAR component
type CueGroup struct {
	Name  string
	Terms []string
}

// SkillFamilies groups technology names found in resumes
type SkillFamilies struct {
	Languages   []string `mapstructure:"languages"`
	Frameworks  []string `mapstructure:"frameworks"`
	Databases   []string `mapstructure:"databases"`
	CloudDevOps []string `mapstructure:"cloud_devops"`
}

// All returns every family in a fixed order
func (f SkillFamilies) All() [][]string {
	return [][]string{f.Languages, f.Frameworks, f.Databases, f.CloudDevOps}
}

// Lexicon is an immutable snapshot of the scoring vocabulary. All terms
// are lowercase.
type Lexicon struct {
	Version          string                  `mapstructure:"version"`
	QuestionKeywords map[string]KeywordTiers `mapstructure:"question_keywords"`
	StopWords        []string                `mapstructure:"stop_words"`
	StarCues         StarCues                `mapstructure:"star_cues"`
	CodeTerms        []string                `mapstructure:"code_terms"`
	Transitions      []string                `mapstructure:"transitions"`
	FillerWords      []string                `mapstructure:"filler_words"`
	ActionVerbs      []string                `mapstructure:"action_verbs"`
	QuantityWords    []string                `mapstructure:"quantity_words"`
	TitleKeywords    []string                `mapstructure:"title_keywords"`
	JobKeywords      map[string][]string     `mapstructure:"job_keywords"`
	SkillFamilies    SkillFamilies           `mapstructure:"skill_families"`
	DegreeTerms      []string                `mapstructure:"degree_terms"`
	FieldTerms       []string                `mapstructure:"field_terms"`
	Sections         map[string][]string     `mapstructure:"sections"`

	stopSet  map[string]struct{}
	quantity *regexp.Regexp
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the embedded lexicon. It panics if the embedded data is
// invalid, which the package tests guard against.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Parse(defaultData)
		if err != nil {
			panic(fmt.Sprintf("embedded lexicon is invalid: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// DefaultYAML returns a copy of the embedded lexicon source, a starting
// point for custom lexicon files
func DefaultYAML() []byte {
	return bytes.Clone(defaultData)
}

// Load returns the lexicon at path, or the embedded default when path is empty
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates a lexicon YAML file
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read lexicon file: %s", path), err)
	}
	lex, err := Parse(data)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr.WithContext("lexicon_file", path)
		}
		return nil, err
	}
	return lex, nil
}

// Parse decodes and validates lexicon YAML
func Parse(data []byte) (*Lexicon, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidLexicon, "failed to parse lexicon", err)
	}

	var lex Lexicon
	if err := v.Unmarshal(&lex); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidLexicon, "failed to decode lexicon", err)
	}

	lex.normalize()
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	lex.compile()
	return &lex, nil
}

// Validate checks that every enum member has the tables it needs
func (l *Lexicon) Validate() error {
	var problems []string

	if strings.TrimSpace(l.Version) == "" {
		problems = append(problems, "version is required")
	}
	for _, qt := range types.AllQuestionTypes() {
		tiers, ok := l.QuestionKeywords[string(qt)]
		if !ok {
			problems = append(problems, fmt.Sprintf("question_keywords.%s is missing", qt))
			continue
		}
		if len(tiers.Primary) == 0 {
			problems = append(problems, fmt.Sprintf("question_keywords.%s.primary is empty", qt))
		}
	}
	for key := range l.QuestionKeywords {
		if !types.QuestionType(key).Valid() {
			problems = append(problems, fmt.Sprintf("question_keywords.%s is not a known question type", key))
		}
	}
	for _, jt := range types.AllJobTypes() {
		if len(l.JobKeywords[string(jt)]) == 0 {
			problems = append(problems, fmt.Sprintf("job_keywords.%s is missing", jt))
		}
	}
	for key := range l.JobKeywords {
		if !types.JobType(key).Valid() {
			problems = append(problems, fmt.Sprintf("job_keywords.%s is not a known job type", key))
		}
	}
	for _, group := range l.StarCues.Groups() {
		if len(group.Terms) == 0 {
			problems = append(problems, fmt.Sprintf("star_cues.%s is empty", group.Name))
		}
	}
	for _, name := range EssentialSections {
		if len(l.Sections[name]) == 0 {
			problems = append(problems, fmt.Sprintf("sections.%s is empty", name))
		}
	}

	required := map[string][]string{
		"stop_words":     l.StopWords,
		"code_terms":     l.CodeTerms,
		"transitions":    l.Transitions,
		"action_verbs":   l.ActionVerbs,
		"quantity_words": l.QuantityWords,
		"title_keywords": l.TitleKeywords,
	}
	for name, list := range required {
		if len(list) == 0 {
			problems = append(problems, name+" is empty")
		}
	}

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	return errors.NewConfigError(errors.ErrCodeInvalidLexicon,
		"lexicon validation failed: "+strings.Join(problems, "; "), nil)
}

// Keywords returns the keyword tiers for a question type
func (l *Lexicon) Keywords(qt types.QuestionType) KeywordTiers {
	return l.QuestionKeywords[string(qt)]
}

// JobKeywordList returns the ATS keywords of a job type
func (l *Lexicon) JobKeywordList(jt types.JobType) []string {
	return l.JobKeywords[string(jt)]
}

// IsStopWord reports whether word is excluded from question content words
func (l *Lexicon) IsStopWord(word string) bool {
	_, ok := l.stopSet[word]
	return ok
}

// SectionHeaders returns the heading synonyms of a section
func (l *Lexicon) SectionHeaders(name string) []string {
	return l.Sections[name]
}

// AllSectionHeaders returns every heading synonym of every section
func (l *Lexicon) AllSectionHeaders() []string {
	names := make([]string, 0, len(l.Sections))
	for name := range l.Sections {
		names = append(names, name)
	}
	slices.Sort(names)

	var all []string
	for _, name := range names {
		all = append(all, l.Sections[name]...)
	}
	return all
}

// QuantityPattern matches quantifiable tokens such as "20%", "$1.2M" or
// "5 million"
func (l *Lexicon) QuantityPattern() *regexp.Regexp {
	return l.quantity
}

// Stats summarizes table sizes for display
func (l *Lexicon) Stats() map[string]int {
	return map[string]int{
		"question_types": len(l.QuestionKeywords),
		"job_types":      len(l.JobKeywords),
		"stop_words":     len(l.StopWords),
		"code_terms":     len(l.CodeTerms),
		"transitions":    len(l.Transitions),
		"action_verbs":   len(l.ActionVerbs),
		"title_keywords": len(l.TitleKeywords),
		"sections":       len(l.Sections),
	}
}

// Summary describes the lexicon for display. source names where it came
// from; empty means the embedded default.
func (l *Lexicon) Summary(source string) types.LexiconSummary {
	if source == "" {
		source = "built-in"
	}
	return types.LexiconSummary{Version: l.Version, Source: source, Tables: l.Stats()}
}

func (l *Lexicon) normalize() {
	for key, tiers := range l.QuestionKeywords {
		l.QuestionKeywords[key] = KeywordTiers{
			Primary:   normalizeTerms(tiers.Primary),
			Secondary: normalizeTerms(tiers.Secondary),
			Bonus:     normalizeTerms(tiers.Bonus),
		}
	}
	for key, list := range l.JobKeywords {
		l.JobKeywords[key] = normalizeTerms(list)
	}
	for key, list := range l.Sections {
		l.Sections[key] = normalizeTerms(list)
	}

	l.StopWords = normalizeTerms(l.StopWords)
	l.StarCues = StarCues{
		Situation: normalizeTerms(l.StarCues.Situation),
		Task:      normalizeTerms(l.StarCues.Task),
		Action:    normalizeTerms(l.StarCues.Action),
		Result:    normalizeTerms(l.StarCues.Result),
	}
	l.CodeTerms = normalizeTerms(l.CodeTerms)
	l.Transitions = normalizeTerms(l.Transitions)
	l.FillerWords = normalizeTerms(l.FillerWords)
	l.ActionVerbs = normalizeTerms(l.ActionVerbs)
	l.QuantityWords = normalizeTerms(l.QuantityWords)
	l.TitleKeywords = normalizeTerms(l.TitleKeywords)
	l.SkillFamilies = SkillFamilies{
		Languages:   normalizeTerms(l.SkillFamilies.Languages),
		Frameworks:  normalizeTerms(l.SkillFamilies.Frameworks),
		Databases:   normalizeTerms(l.SkillFamilies.Databases),
		CloudDevOps: normalizeTerms(l.SkillFamilies.CloudDevOps),
	}
	l.DegreeTerms = normalizeTerms(l.DegreeTerms)
	l.FieldTerms = normalizeTerms(l.FieldTerms)
}

func (l *Lexicon) compile() {
	l.stopSet = make(map[string]struct{}, len(l.StopWords))
	for _, w := range l.StopWords {
		l.stopSet[w] = struct{}{}
	}

	words := make([]string, len(l.QuantityWords))
	for i, w := range l.QuantityWords {
		words[i] = regexp.QuoteMeta(w)
	}
	l.quantity = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s?%|\$\s?\d[\d,]*(?:\.\d+)?\s?[kmb]?\b|\b\d[\d,]*(?:\.\d+)?\+?\s?(?:` +
		strings.Join(words, "|") + `)\b`)
}

// normalizeTerms lowercases, trims and dedupes while keeping order
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
