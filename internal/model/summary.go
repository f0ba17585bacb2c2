package model

// PromptVariant is an instruction template that elicits one style of summary
type PromptVariant struct {
	ID          string `json:"id"`          // Short identifier (e.g. "novelty")
	Instruction string `json:"instruction"` // Instruction text placed at the top of the prompt
}

// CandidateSummary is one generated summary for a paper.
// Never mutated after creation.
type CandidateSummary struct {
	Text     string        `json:"text"`
	Variant  PromptVariant `json:"variant"`
	Critique string        `json:"critique,omitempty"` // Chain-of-thought critique, ensemble mode only
}

// SelectedSummary is the candidate chosen to represent a paper,
// plus the raw selection rationale returned by the generation service.
type SelectedSummary struct {
	Candidate CandidateSummary `json:"candidate"`
	Rationale string           `json:"rationale,omitempty"`
}

// Text returns the chosen summary text
func (s SelectedSummary) Text() string {
	return s.Candidate.Text
}

// Measure is a precision/recall/F-measure triple in [0,1]
type Measure struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F         float64 `json:"f"`
}

// ScoredSummary holds lexical overlap diagnostics between an abstract and a summary.
// Diagnostic only: never consumed by selection or categorization.
type ScoredSummary struct {
	Unigram Measure `json:"rouge1"`
	LCS     Measure `json:"rougeL"`
}
