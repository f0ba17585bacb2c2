package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/paperdigest/internal/aggregate"
	"github.com/ppiankov/paperdigest/internal/cache"
	"github.com/ppiankov/paperdigest/internal/digest"
	"github.com/ppiankov/paperdigest/internal/llm"
	"github.com/ppiankov/paperdigest/internal/model"
)

// Report is everything one run produced
type Report struct {
	RunID       string                       `json:"run_id"`
	StartedAt   time.Time                    `json:"started_at"`
	FinishedAt  time.Time                    `json:"finished_at"`
	Mode        string                       `json:"mode"`
	Strategy    string                       `json:"strategy"`
	Taxonomy    string                       `json:"taxonomy"`
	Papers      []PaperResult                `json:"papers"`
	Collection  *model.CategorizedCollection `json:"collection"`
	Aggregation aggregate.Stats              `json:"aggregation"`
	Cache       cache.Stats                  `json:"cache"`
	Usage       llm.Usage                    `json:"usage"`
	Digest      *digest.Digest               `json:"digest,omitempty"`
	Delivery    DeliveryResult               `json:"delivery"`

	// SourceDuplicates counts nil or repeated-ID papers dropped before processing
	SourceDuplicates int `json:"source_duplicates"`
}

// PaperResult is the per-paper trace of a run
type PaperResult struct {
	PaperID     string                   `json:"paper_id"`
	Title       string                   `json:"title"`
	Candidates  []model.CandidateSummary `json:"candidates"`
	Selected    model.SelectedSummary    `json:"selected"`
	Label       model.Label              `json:"label"`
	Explanation string                   `json:"explanation"`
	Failure     llm.Failure              `json:"categorization_failure"`
	Scores      []model.ScoredSummary    `json:"scores,omitempty"` // Diagnostic only
}

// DeliveryResult records the single delivery attempt
type DeliveryResult struct {
	Sent       bool     `json:"sent"`
	Skipped    bool     `json:"skipped,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// WriteJSON writes the report to path, creating parent directories
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// WriteHTML writes the composed digest to path
func (r *Report) WriteHTML(path string) error {
	if r.Digest == nil {
		return fmt.Errorf("report has no digest")
	}
	return writeFile(path, []byte(r.Digest.HTML))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
