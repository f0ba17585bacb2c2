package categorize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/taxonomy"
)

// Response markers of the strict strategy
const (
	CategoryMarker    = "Category:"
	ExplanationMarker = "Explanation:"
)

var (
	// ErrMarkerMissing means a required marker was absent
	ErrMarkerMissing = errors.New("category marker missing")

	// ErrMarkerRepeated means the explanation marker occurred more than once
	ErrMarkerRepeated = errors.New("explanation marker repeated")

	// ErrUnknownLabel means the response named a label outside the taxonomy
	ErrUnknownLabel = errors.New("label not in taxonomy")

	// ErrNotJSON means no JSON object could be decoded from the response
	ErrNotJSON = errors.New("response is not a JSON object")
)

// Parser turns a raw categorization response into a taxonomy label and explanation
type Parser interface {
	Parse(response string) (model.Label, string, error)
}

// MarkerParser expects "Category: X Explanation: Y" and accepts X only on an
// exact match after trimming. The response must hold exactly one explanation
// marker; every category marker is stripped from the text before it, so any
// preamble stays part of X.
type MarkerParser struct {
	tax *taxonomy.Taxonomy
}

// NewMarkerParser creates a strict-marker parser over tax
func NewMarkerParser(tax *taxonomy.Taxonomy) *MarkerParser {
	return &MarkerParser{tax: tax}
}

// Parse implements Parser
func (p *MarkerParser) Parse(response string) (model.Label, string, error) {
	switch strings.Count(response, ExplanationMarker) {
	case 0:
		return model.Uncategorized, "", fmt.Errorf("%w: %q", ErrMarkerMissing, ExplanationMarker)
	case 1:
	default:
		return model.Uncategorized, "", fmt.Errorf("%w: %q", ErrMarkerRepeated, ExplanationMarker)
	}

	head, explanation, _ := strings.Cut(response, ExplanationMarker)
	category := strings.TrimSpace(strings.ReplaceAll(head, CategoryMarker, ""))

	label, ok := lookup(p.tax, category)
	if !ok {
		return model.Uncategorized, "", fmt.Errorf("%w: %q", ErrUnknownLabel, category)
	}
	return label, strings.TrimSpace(explanation), nil
}

// SubstringParser accepts the first taxonomy label, in declared order, whose
// lower-cased text occurs in the lower-cased response
type SubstringParser struct {
	tax *taxonomy.Taxonomy
}

// NewSubstringParser creates a first-match substring parser over tax
func NewSubstringParser(tax *taxonomy.Taxonomy) *SubstringParser {
	return &SubstringParser{tax: tax}
}

// Parse implements Parser. The whole response doubles as the explanation.
func (p *SubstringParser) Parse(response string) (model.Label, string, error) {
	label, ok := p.tax.FirstContained(response)
	if !ok {
		return model.Uncategorized, "", ErrUnknownLabel
	}
	return label, strings.TrimSpace(response), nil
}

// lookup matches exactly, also accepting an explicit "Uncategorized" answer
func lookup(tax *taxonomy.Taxonomy, category string) (model.Label, bool) {
	if label, ok := tax.Lookup(category); ok {
		return label, true
	}
	if model.Label(strings.TrimSpace(category)) == model.Uncategorized {
		return model.Uncategorized, true
	}
	return model.Uncategorized, false
}

type jsonAnswer struct {
	Category    string `json:"category"`
	Explanation string `json:"explanation"`
}

// JSONParser decodes {"category": ..., "explanation": ...} and validates the
// label exactly. Responses that do not decode are handed to the marker parser.
type JSONParser struct {
	tax      *taxonomy.Taxonomy
	fallback Parser
}

// NewJSONParser creates a structured parser over tax
func NewJSONParser(tax *taxonomy.Taxonomy) *JSONParser {
	return &JSONParser{tax: tax, fallback: NewMarkerParser(tax)}
}

// Parse implements Parser
func (p *JSONParser) Parse(response string) (model.Label, string, error) {
	answer, err := decodeAnswer(response)
	if err != nil {
		return p.fallback.Parse(response)
	}

	label, ok := lookup(p.tax, answer.Category)
	if !ok {
		return model.Uncategorized, "", fmt.Errorf("%w: %q", ErrUnknownLabel, strings.TrimSpace(answer.Category))
	}
	return label, strings.TrimSpace(answer.Explanation), nil
}

// decodeAnswer decodes the outermost {...} span, which tolerates code fences
// and chatter around the object
func decodeAnswer(response string) (*jsonAnswer, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end < start {
		return nil, ErrNotJSON
	}

	var answer jsonAnswer
	if err := json.Unmarshal([]byte(response[start:end+1]), &answer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	if answer.Category == "" {
		return nil, fmt.Errorf("%w: missing category", ErrNotJSON)
	}
	return &answer, nil
}
