package aggregate

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, label, text string) model.ResolvedItem {
	return model.ResolvedItem{
		Summary: model.SelectedSummary{Candidate: model.CandidateSummary{Text: text}},
		Label:   model.Label(label),
		Paper:   &model.Paper{ID: id, Title: "Paper " + id},
	}
}

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New("test", []string{"Econometrics", "Biostatistics", "Bayesian Statistics"})
	require.NoError(t, err)
	return tax
}

func TestAggregate_BucketLayout(t *testing.T) {
	coll, stats := Aggregate(testTaxonomy(t), nil)

	labels := make([]model.Label, 0, len(coll.Buckets))
	for _, b := range coll.Buckets {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []model.Label{"Econometrics", "Biostatistics", "Bayesian Statistics", model.Uncategorized}, labels)
	assert.Empty(t, coll.NonEmpty())
	assert.Equal(t, Stats{}, stats)
}

func TestAggregate_FirstSeenWins(t *testing.T) {
	items := []model.ResolvedItem{
		item("p1", "Econometrics", "first"),
		item("p2", "Biostatistics", "b"),
		item("p1", "Biostatistics", "second"),
		item("p3", "Econometrics", "c"),
	}

	coll, stats := Aggregate(testTaxonomy(t), items)

	econ := coll.Bucket("Econometrics")
	require.Len(t, econ.Items, 2)
	assert.Equal(t, "first", econ.Items[0].Summary.Text())
	assert.Equal(t, "p3", econ.Items[1].Paper.ID)

	bio := coll.Bucket("Biostatistics")
	require.Len(t, bio.Items, 1)
	assert.Equal(t, "p2", bio.Items[0].Paper.ID)

	assert.Equal(t, Stats{Offered: 4, Placed: 3, Duplicates: 1}, stats)
}

func TestAggregate_UnknownLabelGoesToUncategorized(t *testing.T) {
	coll, _ := Aggregate(testTaxonomy(t), []model.ResolvedItem{
		item("p1", "Quantum Gravity", "x"),
		item("p2", "", "y"),
		item("p3", string(model.Uncategorized), "z"),
	})

	assert.Len(t, coll.Bucket(model.Uncategorized).Items, 3)
	assert.Nil(t, coll.Bucket("Quantum Gravity"))
}

func TestAggregate_NilPaperSkipped(t *testing.T) {
	_, stats := Aggregate(testTaxonomy(t), []model.ResolvedItem{{Label: "Econometrics"}, item("p1", "Econometrics", "x")})
	assert.Equal(t, Stats{Offered: 2, Placed: 1, Skipped: 1}, stats)
}

// Total placed equals the number of distinct paper IDs, across many input shapes.
func TestAggregate_DedupCount(t *testing.T) {
	tax := testTaxonomy(t)
	labels := []string{"Econometrics", "Biostatistics", "Bayesian Statistics", "Unknown"}

	for n := 1; n <= 30; n++ {
		var items []model.ResolvedItem
		distinct := map[string]bool{}
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("p%d", (i*7)%(n/2+1))
			distinct[id] = true
			items = append(items, item(id, labels[i%len(labels)], id))
		}

		coll, stats := Aggregate(tax, items)

		assert.Equal(t, len(distinct), coll.Total(), "n=%d", n)
		assert.Equal(t, stats.Offered, stats.Placed+stats.Duplicates+stats.Skipped)
		assert.Equal(t, n-len(distinct), stats.Duplicates)

		ids := map[string]int{}
		for _, b := range coll.Buckets {
			for _, e := range b.Items {
				ids[e.Paper.ID]++
			}
		}
		for id, count := range ids {
			assert.Equal(t, 1, count, "paper %s placed %d times", id, count)
		}
	}
}

// Bucket order follows first-seen input order, and placed entries keep the
// exact summary and paper they were offered with
func TestAggregate_PreservesInputOrder(t *testing.T) {
	items := []model.ResolvedItem{
		item("p3", "Biostatistics", "three"),
		item("p1", "Biostatistics", "one"),
		item("p2", "Biostatistics", "two"),
		item("p1", "Econometrics", "one again"),
	}

	coll, _ := Aggregate(testTaxonomy(t), items)

	want := []model.Entry{
		{Summary: items[0].Summary, Paper: items[0].Paper},
		{Summary: items[1].Summary, Paper: items[1].Paper},
		{Summary: items[2].Summary, Paper: items[2].Paper},
	}
	if diff := cmp.Diff(want, coll.Bucket("Biostatistics").Items); diff != "" {
		t.Errorf("Biostatistics bucket mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, coll.Bucket("Econometrics").Items)
}
