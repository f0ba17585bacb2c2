package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ModeEnsemble, cfg.Pipeline.Mode)
	assert.Equal(t, StrategyMarker, cfg.Categorize.Strategy)
	assert.Equal(t, "cat:stat.*", cfg.Source.Query)
	assert.Equal(t, 10, cfg.Source.MaxResults)
	assert.Equal(t, "submittedDate", cfg.Source.SortBy)
	assert.Equal(t, "descending", cfg.Source.SortOrder)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, DigestTemplate, cfg.Digest.Style)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown mode", func(c *Config) { c.Pipeline.Mode = "parallel" }, "unknown pipeline mode"},
		{"unknown strategy", func(c *Config) { c.Categorize.Strategy = "fuzzy" }, "unknown categorization strategy"},
		{"zero results", func(c *Config) { c.Source.MaxResults = 0 }, "max_results"},
		{"custom without labels", func(c *Config) { c.Taxonomy.Preset = "custom" }, "requires taxonomy.labels"},
		{"unknown digest style", func(c *Config) { c.Digest.Style = "markdown" }, "unknown digest style"},
		{"generated digest ok", func(c *Config) { c.Digest.Style = DigestGenerated }, ""},
		{"simple mode ok", func(c *Config) { c.Pipeline.Mode = ModeSimple }, ""},
		{"json strategy ok", func(c *Config) { c.Categorize.Strategy = StrategyJSON }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
