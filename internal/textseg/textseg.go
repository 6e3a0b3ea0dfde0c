// Package textseg splits free text into words, sentences, paragraphs and
// named resume sections.
package textseg

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EmptyWordThreshold is the largest word count treated as no answer
const EmptyWordThreshold = 3

var (
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)
	paragraphSplit = regexp.MustCompile(`\n[ \t\r]*\n`)
)

// Words returns the whitespace separated tokens of text
func Words(text string) []string {
	return strings.Fields(text)
}

// WordCount returns the number of whitespace separated tokens
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// IsEffectivelyEmpty reports whether text carries three words or fewer
func IsEffectivelyEmpty(text string) bool {
	return WordCount(strings.TrimSpace(text)) <= EmptyWordThreshold
}

// Sentences splits on runs of '.', '!' and '?' and drops blank pieces
func Sentences(text string) []string {
	return nonBlank(sentenceSplit.Split(text, -1))
}

// Paragraphs splits on blank lines and drops blank pieces
func Paragraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	return nonBlank(paragraphSplit.Split(normalized, -1))
}

// Lines returns every line of text trimmed of surrounding whitespace.
// Blank lines are kept so callers can see paragraph breaks.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range raw {
		raw[i] = strings.TrimSpace(line)
	}
	return raw
}

// NormalizedWords lowercases text and strips punctuation other than '+'
// and '#', returning the remaining tokens.
func NormalizedWords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Fields(cleaned)
}

// ContainsTerm reports whether term occurs in text on word boundaries.
// Both arguments are expected to be lowercase.
func ContainsTerm(text, term string) bool {
	_, ok := nextTerm(text, term, 0)
	return ok
}

// CountTerm counts non-overlapping boundary matches of term in text
func CountTerm(text, term string) int {
	count := 0
	from := 0
	for {
		end, ok := nextTerm(text, term, from)
		if !ok {
			return count
		}
		count++
		from = end
	}
}

// MatchTerms returns the terms from the list found in text, in list order
func MatchTerms(text string, terms []string) []string {
	found := make([]string, 0, len(terms))
	for _, term := range terms {
		if ContainsTerm(text, term) {
			found = append(found, term)
		}
	}
	return found
}

func nextTerm(text, term string, from int) (int, bool) {
	if term == "" {
		return 0, false
	}
	for from <= len(text)-len(term) {
		idx := strings.Index(text[from:], term)
		if idx < 0 {
			return 0, false
		}
		start := from + idx
		end := start + len(term)
		if isBoundaryBefore(text, start) && isBoundaryAfter(text, end) {
			return end, true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return 0, false
}

func isBoundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func isBoundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func nonBlank(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
