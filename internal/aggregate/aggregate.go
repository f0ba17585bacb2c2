// Package aggregate groups resolved papers into taxonomy buckets.
package aggregate

import (
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/taxonomy"
)

// Stats describes one aggregation pass.
// Placed + Duplicates + Skipped == Offered.
type Stats struct {
	Offered    int `json:"offered"`
	Placed     int `json:"placed"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"` // Items without a paper
}

// Aggregate places items into one bucket per taxonomy label plus Uncategorized.
// The first item seen for a paper ID wins; later ones are dropped, not merged.
// Labels without a bucket land in Uncategorized.
func Aggregate(tax *taxonomy.Taxonomy, items []model.ResolvedItem) (*model.CategorizedCollection, Stats) {
	coll := model.NewCategorizedCollection(tax.BucketLabels())
	stats := Stats{Offered: len(items)}
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		if item.Paper == nil {
			stats.Skipped++
			continue
		}
		if seen[item.Paper.ID] {
			stats.Duplicates++
			continue
		}
		seen[item.Paper.ID] = true

		b := coll.Bucket(item.Label)
		if b == nil {
			b = coll.Bucket(model.Uncategorized)
		}
		b.Items = append(b.Items, model.Entry{Summary: item.Summary, Paper: item.Paper})
		stats.Placed++
	}

	return coll, stats
}
