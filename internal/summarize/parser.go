package summarize

import (
	"errors"
	"strings"
)

// CategoryMarker separates the summary from the inline category
const CategoryMarker = "Category:"

// ErrMarkerMissing means the response did not contain the expected marker
var ErrMarkerMissing = errors.New("category marker missing")

// ErrEmptySummary means the summary part of the response was blank
var ErrEmptySummary = errors.New("summary part empty")

// Parser extracts summary and category text from a raw response
type Parser interface {
	Parse(response string) (summary string, category string, err error)
}

// MarkerParser splits on the first "Category:" marker
type MarkerParser struct{}

// Parse implements Parser
func (MarkerParser) Parse(response string) (string, string, error) {
	before, after, found := strings.Cut(response, CategoryMarker)
	if !found {
		return "", "", ErrMarkerMissing
	}
	summary := strings.TrimSpace(before)
	if summary == "" {
		return "", "", ErrEmptySummary
	}
	return summary, strings.TrimSpace(after), nil
}

// PlainParser takes the whole response as the summary
type PlainParser struct{}

// Parse implements Parser
func (PlainParser) Parse(response string) (string, string, error) {
	summary := strings.TrimSpace(response)
	if summary == "" {
		return "", "", ErrEmptySummary
	}
	return summary, "", nil
}
