// Package taxonomy holds the canonical, ordered label registry shared by
// categorization, aggregation, and digest composition.
//
// Label order is load-bearing: the substring strategy accepts the first
// label (in declared order) contained in a response, and buckets are laid
// out in the same order.
package taxonomy

import (
	"fmt"
	"strings"

	"github.com/ppiankov/paperdigest/internal/model"
)

// Preset names
const (
	PresetEnsembleV1 = "stat-ensemble-v1"
	PresetSimpleV1   = "stat-simple-v1"
	PresetCustom     = "custom"
)

// Taxonomy is an ordered, closed set of labels plus the Uncategorized fallback
type Taxonomy struct {
	name       string
	labels     []model.Label
	members    map[model.Label]bool
	duplicates []string
}

// New builds a taxonomy from an ordered label list.
// Duplicates keep their first position and are recorded; "Uncategorized"
// and blank entries are dropped since the fallback is always implied.
func New(name string, labels []string) (*Taxonomy, error) {
	t := &Taxonomy{
		name:    name,
		members: make(map[model.Label]bool, len(labels)),
	}

	for _, raw := range labels {
		l := model.Label(strings.TrimSpace(raw))
		if l == "" || l == model.Uncategorized {
			continue
		}
		if t.members[l] {
			t.duplicates = append(t.duplicates, string(l))
			continue
		}
		t.members[l] = true
		t.labels = append(t.labels, l)
	}

	if len(t.labels) == 0 {
		return nil, fmt.Errorf("taxonomy %q has no labels", name)
	}

	return t, nil
}

// FromConfig resolves the configured preset, or builds a custom taxonomy
func FromConfig(cfg model.TaxonomyConfig) (*Taxonomy, error) {
	preset := cfg.Preset
	if preset == "" {
		preset = PresetEnsembleV1
	}

	if preset == PresetCustom {
		return New(PresetCustom, cfg.Labels)
	}

	labels, ok := presets[preset]
	if !ok {
		return nil, fmt.Errorf("unknown taxonomy preset: %q (supported: %s)", preset, strings.Join(PresetNames(), ", "))
	}

	return New(preset, labels)
}

// Name returns the preset or custom name
func (t *Taxonomy) Name() string {
	return t.name
}

// Labels returns the canonical labels in declared order, without Uncategorized
func (t *Taxonomy) Labels() []model.Label {
	out := make([]model.Label, len(t.labels))
	copy(out, t.labels)
	return out
}

// BucketLabels returns the canonical labels followed by Uncategorized
func (t *Taxonomy) BucketLabels() []model.Label {
	return append(t.Labels(), model.Uncategorized)
}

// Contains reports whether l is a canonical label (Uncategorized excluded)
func (t *Taxonomy) Contains(l model.Label) bool {
	return t.members[l]
}

// Resolve maps anything outside the closed set to Uncategorized
func (t *Taxonomy) Resolve(l model.Label) model.Label {
	if t.members[l] {
		return l
	}
	return model.Uncategorized
}

// Lookup matches a trimmed candidate string exactly against the taxonomy
func (t *Taxonomy) Lookup(s string) (model.Label, bool) {
	l := model.Label(strings.TrimSpace(s))
	return l, t.members[l]
}

// FirstContained returns the first label, in declared order, whose lower-cased
// text appears inside the lower-cased response
func (t *Taxonomy) FirstContained(response string) (model.Label, bool) {
	lower := strings.ToLower(response)
	for _, l := range t.labels {
		if strings.Contains(lower, strings.ToLower(string(l))) {
			return l, true
		}
	}
	return model.Uncategorized, false
}

// PromptList renders the labels for inclusion in a prompt
func (t *Taxonomy) PromptList() string {
	names := make([]string, 0, len(t.labels)+1)
	for _, l := range t.labels {
		names = append(names, string(l))
	}
	names = append(names, string(model.Uncategorized))
	return strings.Join(names, ", ")
}

// Duplicates returns labels that appeared more than once in the source list
func (t *Taxonomy) Duplicates() []string {
	return t.duplicates
}
