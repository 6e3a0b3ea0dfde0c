package textseg

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultMaxHeadingLength is the longest line still treated as a heading
const DefaultMaxHeadingLength = 40

// Segmenter locates the body of a named section inside a document
type Segmenter interface {
	// FindSection returns the text between a heading matching one of
	// headers and the next recognized heading. Empty if absent.
	FindSection(text string, headers []string) string
}

// HeadingSegmenter finds sections by short heading lines
type HeadingSegmenter struct {
	// KnownHeaders lists every heading synonym of every section. Capture
	// stops at any of them that is not part of the requested list.
	KnownHeaders     []string
	MaxHeadingLength int
}

// NewHeadingSegmenter creates a segmenter over the given heading synonyms
func NewHeadingSegmenter(knownHeaders []string) *HeadingSegmenter {
	return &HeadingSegmenter{
		KnownHeaders:     knownHeaders,
		MaxHeadingLength: DefaultMaxHeadingLength,
	}
}

// FindSection implements Segmenter
func (s *HeadingSegmenter) FindSection(text string, headers []string) string {
	var body []string
	capturing := false

	for _, line := range Lines(text) {
		if !capturing {
			if s.isHeading(line, headers) {
				capturing = true
			}
			continue
		}
		if s.isHeading(line, s.otherHeaders(headers)) {
			break
		}
		body = append(body, line)
	}

	return strings.TrimSpace(strings.Join(body, "\n"))
}

func (s *HeadingSegmenter) otherHeaders(headers []string) []string {
	others := make([]string, 0, len(s.KnownHeaders))
	for _, h := range s.KnownHeaders {
		if !slices.Contains(headers, h) {
			others = append(others, h)
		}
	}
	return others
}

func (s *HeadingSegmenter) isHeading(line string, headers []string) bool {
	if line == "" || len(headers) == 0 {
		return false
	}
	limit := s.MaxHeadingLength
	if limit <= 0 {
		limit = DefaultMaxHeadingLength
	}
	if utf8.RuneCountInString(line) > limit {
		return false
	}

	norm := normalizeHeading(line)
	for _, h := range headers {
		if norm == h || strings.HasPrefix(norm, h+" ") || strings.HasPrefix(norm, h+"&") {
			return true
		}
	}
	return false
}

func normalizeHeading(line string) string {
	norm := strings.TrimLeft(line, "#*•-=> \t")
	norm = strings.TrimRight(norm, ": \t")
	return strings.ToLower(norm)
}
