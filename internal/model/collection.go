package model

// Label is a category from the canonical taxonomy, or Uncategorized
type Label string

// Uncategorized is the reserved fallback label
const Uncategorized Label = "Uncategorized"

// ResolvedItem is one paper after summarization and categorization
type ResolvedItem struct {
	Summary SelectedSummary `json:"summary"`
	Label   Label           `json:"label"`
	Paper   *Paper          `json:"paper"`
}

// Entry is one placed item inside a bucket
type Entry struct {
	Summary SelectedSummary `json:"summary"`
	Paper   *Paper          `json:"paper"`
}

// Bucket groups entries for one label, in first-seen order
type Bucket struct {
	Label Label   `json:"label"`
	Items []Entry `json:"items"`
}

// CategorizedCollection maps labels to buckets.
// Each paper identity appears in at most one bucket.
type CategorizedCollection struct {
	Buckets []*Bucket `json:"buckets"` // Taxonomy order, Uncategorized last
	index   map[Label]*Bucket
}

// NewCategorizedCollection creates one empty bucket per label, in the given order
func NewCategorizedCollection(labels []Label) *CategorizedCollection {
	c := &CategorizedCollection{
		Buckets: make([]*Bucket, 0, len(labels)),
		index:   make(map[Label]*Bucket, len(labels)),
	}
	for _, l := range labels {
		if _, exists := c.index[l]; exists {
			continue
		}
		b := &Bucket{Label: l, Items: []Entry{}}
		c.Buckets = append(c.Buckets, b)
		c.index[l] = b
	}
	return c
}

// Bucket returns the bucket for a label, or nil if the label has no bucket
func (c *CategorizedCollection) Bucket(l Label) *Bucket {
	if c.index == nil {
		// Decoded collections carry buckets but no index
		c.index = make(map[Label]*Bucket, len(c.Buckets))
		for _, b := range c.Buckets {
			c.index[b.Label] = b
		}
	}
	return c.index[l]
}

// NonEmpty returns buckets with at least one entry, preserving order
func (c *CategorizedCollection) NonEmpty() []*Bucket {
	var out []*Bucket
	for _, b := range c.Buckets {
		if len(b.Items) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Total returns the number of placed entries across all buckets
func (c *CategorizedCollection) Total() int {
	n := 0
	for _, b := range c.Buckets {
		n += len(b.Items)
	}
	return n
}
