package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/paperdigest/internal/cache"
	"github.com/ppiankov/paperdigest/internal/logging"
	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	runTimeout time.Duration
	noSend     bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch recent arXiv papers and build one newsletter issue",
	Long: `Run builds one issue of the newsletter:
- Fetch the most recent papers matching the query from arXiv
- Summarize each abstract (four prompt variants in ensemble mode)
- Critique the candidates and pick the best one (ensemble mode)
- File each paper under one label of the taxonomy
- Group papers by label and compose the HTML digest
- Email the digest when SMTP is configured

Example:
  paperdigest run
  paperdigest run --mode simple --strategy substring
  paperdigest run --query "cat:stat.ML" --max-results 25 --html issue.html
  paperdigest run --llm-provider openai --llm-model gpt-4o-mini --no-send`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd)
	},
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Pipeline flags
	runCmd.Flags().String("mode", "", "pipeline mode (ensemble, simple)")
	runCmd.Flags().String("strategy", "", "categorization strategy (marker, substring, json)")
	runCmd.Flags().String("taxonomy", "", "taxonomy preset (stat-ensemble-v1, stat-simple-v1, custom)")

	// Source flags
	runCmd.Flags().String("query", "", "arXiv search query (default: cat:stat.*)")
	runCmd.Flags().Int("max-results", 0, "maximum papers to fetch (default: 10)")

	// LLM flags
	runCmd.Flags().String("llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	runCmd.Flags().String("llm-model", "", "LLM model name")

	// Output flags
	runCmd.Flags().String("out", "", "write the JSON run report to this path")
	runCmd.Flags().String("html", "", "write the digest HTML to this path")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "overall run timeout")
	runCmd.Flags().BoolVar(&noSend, "no-send", false, "compose the digest but do not email it")
}

// flagKeys maps command flags onto config keys
var flagKeys = map[string]string{
	"mode":         "pipeline.mode",
	"strategy":     "categorize.strategy",
	"taxonomy":     "taxonomy.preset",
	"query":        "source.query",
	"max-results":  "source.max_results",
	"llm-provider": "llm.provider",
	"llm-model":    "llm.model",
	"out":          "output.report_path",
	"html":         "output.html_path",
}

// bindFlags binds the flags cmd defines, so a set flag outranks env vars and
// the config file. Binding happens when the command runs because several
// commands share the same keys.
func bindFlags(cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, err := prepare()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	deps, err := pipeline.BuildDeps(cfg, pipeline.BuildOptions{
		NoSend:   noSend,
		Logger:   logger,
		Progress: os.Stderr,
	})
	if err != nil {
		return err
	}

	return execute(cmd, cfg, deps, runTimeout)
}

// prepare loads and validates the configuration and builds the logger
func prepare() (*model.Config, *zap.Logger, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Output.Verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

// execute runs one issue with a fresh summary cache and writes its outputs.
// Without --html the plain-text digest goes to stdout.
func execute(cmd *cobra.Command, cfg *model.Config, deps pipeline.Deps, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Mode:       %s\n", cfg.Pipeline.Mode)
		fmt.Fprintf(os.Stderr, "Strategy:   %s\n", cfg.Categorize.Strategy)
		fmt.Fprintf(os.Stderr, "Taxonomy:   %s\n", cfg.Taxonomy.Preset)
		fmt.Fprintf(os.Stderr, "LLM:        %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Timeout:    %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	deps.Cache = cache.NewSummaryCache(nil)

	report, err := pipeline.Run(ctx, cfg, deps)
	if err != nil {
		return fmt.Errorf("an error occurred: %w", err)
	}

	if cfg.Output.ReportPath != "" {
		if err := report.WriteJSON(cfg.Output.ReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Report written to %s\n", cfg.Output.ReportPath)
	}

	if cfg.Output.HTMLPath != "" {
		if err := report.WriteHTML(cfg.Output.HTMLPath); err != nil {
			return fmt.Errorf("write digest: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Digest written to %s\n", cfg.Output.HTMLPath)
	} else if report.Digest != nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), report.Digest.Text)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Issue Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Papers:       %d offered, %d placed\n", report.Aggregation.Offered, report.Aggregation.Placed)
	fmt.Fprintf(os.Stderr, "  Categories:   %d\n", len(report.Collection.NonEmpty()))
	fmt.Fprintf(os.Stderr, "  Cache:        %d hits, %d misses\n", report.Cache.Hits, report.Cache.Misses)
	fmt.Fprintf(os.Stderr, "  Tokens:       %d over %d calls\n", report.Usage.Tokens, report.Usage.Calls)
	fmt.Fprintf(os.Stderr, "  Delivery:     %s\n", deliveryStatus(report.Delivery))
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

func deliveryStatus(d pipeline.DeliveryResult) string {
	switch {
	case d.Sent:
		return "sent"
	case d.Skipped:
		return "skipped"
	case d.Error != "":
		return "failed (" + d.Error + ")"
	default:
		return "not attempted"
	}
}
