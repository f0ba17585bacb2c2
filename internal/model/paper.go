package model

import (
	"strings"
	"time"
)

// Paper is a research paper as returned by the paper source.
// Papers are immutable once fetched and are passed by pointer through the pipeline.
type Paper struct {
	ID        string    `json:"id"`                  // Stable entry URI (e.g. "http://arxiv.org/abs/2401.01234v1")
	Title     string    `json:"title"`               // Paper title
	Authors   []string  `json:"authors"`             // Author names in source order
	Abstract  string    `json:"abstract"`            // Abstract text
	Link      string    `json:"link"`                // Canonical link for readers
	Published time.Time `json:"published,omitempty"` // Submission date
}

// AuthorList joins author names the way the digest prints them
func (p *Paper) AuthorList() string {
	return strings.Join(p.Authors, ", ")
}
