package model

import (
	"fmt"
	"time"
)

// Pipeline modes
const (
	ModeEnsemble = "ensemble" // Four prompt variants, critique, selection
	ModeSimple   = "simple"   // One cached summary per abstract
)

// Categorization strategies
const (
	StrategyMarker    = "marker"    // Strict "Category:"/"Explanation:" markers, exact match
	StrategySubstring = "substring" // First taxonomy label contained in the response
	StrategyJSON      = "json"      // Structured {"category","explanation"} response
)

// Digest styles
const (
	DigestTemplate  = "template"  // Sectioned HTML with per-category narrative
	DigestGenerated = "generated" // Whole newsletter written by the generation service
)

// Config is the complete paperdigest configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Source       SourceConfig       `yaml:"source" mapstructure:"source"`
	Pipeline     PipelineConfig     `yaml:"pipeline" mapstructure:"pipeline"`
	Categorize   CategorizeConfig   `yaml:"categorize" mapstructure:"categorize"`
	Taxonomy     TaxonomyConfig     `yaml:"taxonomy" mapstructure:"taxonomy"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Digest       DigestConfig       `yaml:"digest" mapstructure:"digest"`
	Delivery     DeliveryConfig     `yaml:"delivery" mapstructure:"delivery"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the text-generation service
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SourceConfig configures the paper source
type SourceConfig struct {
	Query       string        `yaml:"query" mapstructure:"query"`
	MaxResults  int           `yaml:"max_results" mapstructure:"max_results"`
	SortBy      string        `yaml:"sort_by" mapstructure:"sort_by"`
	SortOrder   string        `yaml:"sort_order" mapstructure:"sort_order"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CheckRobots bool          `yaml:"check_robots" mapstructure:"check_robots"`
}

// PipelineConfig selects the pipeline variant
type PipelineConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// CategorizeConfig selects the label resolution strategy
type CategorizeConfig struct {
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
}

// TaxonomyConfig selects the canonical taxonomy.
// Labels is only used when Preset is "custom"; its order is load-bearing.
type TaxonomyConfig struct {
	Preset string   `yaml:"preset" mapstructure:"preset"`
	Labels []string `yaml:"labels,omitempty" mapstructure:"labels"`
}

// CacheConfig configures the run-scoped summary cache
type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// RateLimitingConfig throttles calls to the generation service.
// RequestsPerSecond <= 0 disables throttling.
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// DigestConfig configures the digest composer
type DigestConfig struct {
	Style     string `yaml:"style" mapstructure:"style"`
	Title     string `yaml:"title" mapstructure:"title"`
	Greeting  string `yaml:"greeting" mapstructure:"greeting"`
	Narrative bool   `yaml:"narrative" mapstructure:"narrative"` // Issue discussion/explanation/spotlight/joke calls
}

// DeliveryConfig configures email delivery. An empty SMTP host disables delivery.
type DeliveryConfig struct {
	Subject string     `yaml:"subject" mapstructure:"subject"`
	To      string     `yaml:"to" mapstructure:"to"`
	From    string     `yaml:"from" mapstructure:"from"`
	SMTP    SMTPConfig `yaml:"smtp" mapstructure:"smtp"`
}

// SMTPConfig holds transport credentials
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
}

// OutputConfig configures console and file output
type OutputConfig struct {
	Verbose     bool   `yaml:"verbose" mapstructure:"verbose"`
	Diagnostics bool   `yaml:"diagnostics" mapstructure:"diagnostics"` // Print ROUGE scores per candidate
	ReportPath  string `yaml:"report_path,omitempty" mapstructure:"report_path"`
	HTMLPath    string `yaml:"html_path,omitempty" mapstructure:"html_path"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "llama3",
			Timeout:     120,
			MaxTokens:   1000,
			Temperature: 0.3,
		},
		Source: SourceConfig{
			Query:       "cat:stat.*",
			MaxResults:  10,
			SortBy:      "submittedDate",
			SortOrder:   "descending",
			BaseURL:     "https://export.arxiv.org/api/query",
			UserAgent:   "paperdigest/0.1 (+https://github.com/ppiankov/paperdigest)",
			Timeout:     30 * time.Second,
			CheckRobots: true,
		},
		Pipeline: PipelineConfig{
			Mode: ModeEnsemble,
		},
		Categorize: CategorizeConfig{
			Strategy: StrategyMarker,
		},
		Taxonomy: TaxonomyConfig{
			Preset: "stat-ensemble-v1",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 0,
			BurstSize:         1,
		},
		Digest: DigestConfig{
			Style:     DigestTemplate,
			Title:     "The Probability Post",
			Greeting:  "Hi Stat Fam,",
			Narrative: true,
		},
		Delivery: DeliveryConfig{
			Subject: "The Probability Post",
			SMTP: SMTPConfig{
				Port: 587,
			},
		},
		Output: OutputConfig{
			Diagnostics: true,
		},
	}
}

// Validate checks the configuration for unknown modes and out-of-range values
func (c *Config) Validate() error {
	switch c.Pipeline.Mode {
	case ModeEnsemble, ModeSimple:
	default:
		return fmt.Errorf("unknown pipeline mode: %q (supported: ensemble, simple)", c.Pipeline.Mode)
	}

	switch c.Categorize.Strategy {
	case StrategyMarker, StrategySubstring, StrategyJSON:
	default:
		return fmt.Errorf("unknown categorization strategy: %q (supported: marker, substring, json)", c.Categorize.Strategy)
	}

	switch c.Digest.Style {
	case DigestTemplate, DigestGenerated:
	default:
		return fmt.Errorf("unknown digest style: %q (supported: template, generated)", c.Digest.Style)
	}

	if c.Source.MaxResults <= 0 {
		return fmt.Errorf("source.max_results must be positive, got %d", c.Source.MaxResults)
	}

	if c.Taxonomy.Preset == "custom" && len(c.Taxonomy.Labels) == 0 {
		return fmt.Errorf("taxonomy preset \"custom\" requires taxonomy.labels")
	}

	return nil
}
