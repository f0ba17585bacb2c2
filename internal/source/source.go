// Package source retrieves papers to digest.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppiankov/paperdigest/internal/model"
)

// Sort orders accepted by Query
const (
	SortSubmittedDate   = "submittedDate"
	SortLastUpdatedDate = "lastUpdatedDate"
	SortRelevance       = "relevance"

	OrderDescending = "descending"
	OrderAscending  = "ascending"
)

// Query describes one paper search
type Query struct {
	Expression string // e.g. "cat:stat.*"
	MaxResults int
	SortBy     string
	SortOrder  string
}

// PaperSource returns papers in the order the service ranks them
type PaperSource interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]*model.Paper, error)
}

// QueryFromConfig builds a Query from the source section of the config
func QueryFromConfig(cfg model.SourceConfig) Query {
	return Query{
		Expression: cfg.Query,
		MaxResults: cfg.MaxResults,
		SortBy:     cfg.SortBy,
		SortOrder:  cfg.SortOrder,
	}
}

// Dedup drops nil papers and repeated IDs, keeping first occurrence order
func Dedup(papers []*model.Paper) []*model.Paper {
	seen := make(map[string]bool, len(papers))
	out := make([]*model.Paper, 0, len(papers))
	for _, p := range papers {
		if p == nil || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// Static serves a fixed paper list. Used for offline runs and tests.
type Static struct {
	Papers []*model.Paper
}

// Name returns the source identifier
func (s *Static) Name() string { return "static" }

// Fetch returns up to q.MaxResults papers
func (s *Static) Fetch(ctx context.Context, q Query) ([]*model.Paper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	papers := Dedup(s.Papers)
	if q.MaxResults > 0 && len(papers) > q.MaxResults {
		papers = papers[:q.MaxResults]
	}
	return papers, nil
}

// ReadPapers decodes a JSON array of papers, e.g. a saved report's inputs.
// Papers without an ID are rejected since aggregation dedups on it.
func ReadPapers(r io.Reader) ([]*model.Paper, error) {
	var papers []*model.Paper
	if err := json.NewDecoder(r).Decode(&papers); err != nil {
		return nil, fmt.Errorf("decode papers: %w", err)
	}
	for i, p := range papers {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("paper %d has no id", i)
		}
	}
	return papers, nil
}
