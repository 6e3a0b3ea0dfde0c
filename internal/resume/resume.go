// Package resume pulls sections and structured facts out of plain resume
// text.
package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"prepscore/internal/lexicon"
	"prepscore/internal/textseg"
	"prepscore/internal/types"
)

// Extraction caps
const (
	maxCompanies     = 3
	maxJobTitles     = 3
	maxProjects      = 3
	maxEducation     = 2
	maxAchievements  = 5
	maxCompanyLength = 50
	maxTitleLength   = 50
	maxProjectName   = 60
)

const bulletMarkers = "•*->·▪◦–"

var legalSuffix = regexp.MustCompile(`(?i)[,\s]+(inc|llc|ltd|corp|corporation|co)\.?$`)

// Extractor finds sections and facts using a lexicon and a Segmenter
type Extractor struct {
	lex *lexicon.Lexicon
	seg textseg.Segmenter
}

// NewExtractor creates an extractor. A nil segmenter selects a
// HeadingSegmenter over the lexicon's section headings.
func NewExtractor(lex *lexicon.Lexicon, seg textseg.Segmenter) *Extractor {
	if seg == nil {
		seg = textseg.NewHeadingSegmenter(lex.AllSectionHeaders())
	}
	return &Extractor{lex: lex, seg: seg}
}

// ExtractResumeInformation extracts ResumeInfo with the default segmenter
func ExtractResumeInformation(lex *lexicon.Lexicon, text string) types.ResumeInfo {
	return NewExtractor(lex, nil).Extract(text)
}

// Section returns the body of the named lexicon section
func (e *Extractor) Section(text, name string) string {
	return e.seg.FindSection(text, e.lex.SectionHeaders(name))
}

// Extract pulls every ResumeInfo field out of text
func (e *Extractor) Extract(text string) types.ResumeInfo {
	experience := e.Section(text, lexicon.SectionExperience)
	education := e.Section(text, lexicon.SectionEducation)
	projects := e.Section(text, lexicon.SectionProjects)

	// Titles need a lexicon keyword, so scanning the whole document is safe
	// when there is no experience heading. Company separators are not.
	experienceOrAll := experience
	if experienceOrAll == "" {
		experienceOrAll = text
	}
	educationOrAll := education
	if educationOrAll == "" {
		educationOrAll = text
	}

	return types.ResumeInfo{
		Skills:       e.skills(text),
		Companies:    companies(experience),
		JobTitles:    e.jobTitles(experienceOrAll),
		Projects:     parseProjects(projects),
		Education:    e.education(educationOrAll),
		Achievements: e.achievements(text),
	}
}

func (e *Extractor) skills(text string) []string {
	lower := strings.ToLower(text)
	set := newOrderedSet(0)
	for _, jt := range types.AllJobTypes() {
		set.addAll(textseg.MatchTerms(lower, e.lex.JobKeywordList(jt)))
	}
	for _, family := range e.lex.SkillFamilies.All() {
		set.addAll(textseg.MatchTerms(lower, family))
	}
	return set.items
}

func companies(section string) []string {
	set := newOrderedSet(maxCompanies)
	for _, line := range textseg.Lines(section) {
		line = StripBullet(line)
		rhs, ok := companySide(line)
		if !ok {
			continue
		}
		name := cutAtAny(rhs, ",", "|", " - ", "(")
		name = strings.TrimSpace(legalSuffix.ReplaceAllString(strings.TrimSpace(name), ""))
		name = strings.TrimRight(name, ".,; ")
		if name == "" || utf8.RuneCountInString(name) > maxCompanyLength {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(r) {
			continue
		}
		if isDateWord(name) {
			continue
		}
		set.add(name)
	}
	return set.items
}

var dateWords = map[string]bool{
	"present": true, "current": true, "now": true, "today": true, "ongoing": true,
	"jan": true, "january": true, "feb": true, "february": true, "mar": true, "march": true,
	"apr": true, "april": true, "may": true, "jun": true, "june": true, "jul": true, "july": true,
	"aug": true, "august": true, "sep": true, "sept": true, "september": true,
	"oct": true, "october": true, "nov": true, "november": true, "dec": true, "december": true,
	"spring": true, "summer": true, "fall": true, "autumn": true, "winter": true,
}

// isDateWord reports whether a company candidate starts with a date term,
// as in the right-hand side of "Jan 2019 - Present"
func isDateWord(name string) bool {
	first, _, _ := strings.Cut(name, " ")
	first = strings.ToLower(strings.TrimRight(first, ".,"))
	return dateWords[first]
}

// companySide returns the text right of the strongest separator
func companySide(line string) (string, bool) {
	if idx := indexFold(line, " at "); idx >= 0 {
		return line[idx+len(" at "):], true
	}
	if idx := strings.Index(line, "|"); idx >= 0 {
		return line[idx+1:], true
	}
	if idx := strings.Index(line, " - "); idx >= 0 {
		return line[idx+len(" - "):], true
	}
	return "", false
}

func (e *Extractor) jobTitles(section string) []string {
	set := newOrderedSet(maxJobTitles)
	for _, line := range textseg.Lines(section) {
		line = StripBullet(line)
		if line == "" || utf8.RuneCountInString(line) > maxTitleLength {
			continue
		}
		if len(textseg.MatchTerms(strings.ToLower(line), e.lex.TitleKeywords)) == 0 {
			continue
		}
		title := line
		if idx := indexFold(title, " at "); idx >= 0 {
			title = title[:idx]
		}
		title = strings.TrimSpace(cutAtAny(title, "|", " - "))
		if title != "" {
			set.add(title)
		}
	}
	return set.items
}

// parseProjects treats a short line that does not end a sentence and
// follows a blank or sentence-ending line as a project name. Other lines
// extend the current project's description.
func parseProjects(section string) []types.Project {
	projects := make([]types.Project, 0, maxProjects)
	if section == "" {
		return projects
	}

	afterBreak := true
	for _, raw := range textseg.Lines(section) {
		if raw == "" {
			afterBreak = true
			continue
		}
		line := StripBullet(raw)
		startsProject := afterBreak &&
			utf8.RuneCountInString(line) <= maxProjectName &&
			!strings.HasSuffix(line, ".")

		switch {
		case startsProject:
			if len(projects) == maxProjects {
				return projects
			}
			projects = append(projects, types.Project{Name: line})
		case len(projects) > 0:
			p := &projects[len(projects)-1]
			if p.Description == "" {
				p.Description = line
			} else {
				p.Description += " " + line
			}
		}
		afterBreak = strings.HasSuffix(line, ".")
	}
	return projects
}

func (e *Extractor) education(section string) []string {
	set := newOrderedSet(maxEducation)
	terms := append(append([]string{}, e.lex.DegreeTerms...), e.lex.FieldTerms...)
	for _, line := range textseg.Lines(section) {
		line = StripBullet(line)
		if line == "" {
			continue
		}
		if len(textseg.MatchTerms(strings.ToLower(line), terms)) > 0 {
			set.add(line)
		}
	}
	return set.items
}

func (e *Extractor) achievements(text string) []string {
	set := newOrderedSet(maxAchievements)
	quantity := e.lex.QuantityPattern()
	for _, line := range textseg.Lines(text) {
		line = StripBullet(line)
		if line == "" || !quantity.MatchString(line) {
			continue
		}
		if len(textseg.MatchTerms(strings.ToLower(line), e.lex.ActionVerbs)) > 0 {
			set.add(line)
		}
	}
	return set.items
}

// StripBullet removes leading bullet markers and whitespace
func StripBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), bulletMarkers+" \t"))
}

func cutAtAny(s string, seps ...string) string {
	cut := len(s)
	for _, sep := range seps {
		if idx := strings.Index(s, sep); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return s[:cut]
}

// indexFold is strings.Index ignoring ASCII case of an ASCII needle
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// orderedSet keeps first-seen order, dedupes case-insensitively and
// optionally stops growing at limit.
type orderedSet struct {
	limit int
	seen  map[string]struct{}
	items []string
}

func newOrderedSet(limit int) *orderedSet {
	return &orderedSet{limit: limit, seen: make(map[string]struct{}), items: make([]string, 0)}
}

func (s *orderedSet) add(item string) {
	if s.limit > 0 && len(s.items) >= s.limit {
		return
	}
	key := strings.ToLower(item)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, item)
}

func (s *orderedSet) addAll(items []string) {
	for _, item := range items {
		s.add(item)
	}
}
