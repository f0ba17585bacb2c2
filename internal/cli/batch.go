package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/ppiankov/paperdigest/internal/pipeline"
	"github.com/ppiankov/paperdigest/internal/source"
	"github.com/spf13/cobra"
)

var (
	batchTimeout time.Duration
	batchNoSend  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <papers.json>...",
	Short: "Build an issue from saved paper files instead of arXiv",
	Long: `Batch runs the same pipeline as "run" over papers read from JSON files:
- Each file holds an array of papers (id, title, authors, abstract, link)
- Files are read in order and concatenated
- Papers repeating an earlier id are dropped, first occurrence wins
- The query and max-results settings are ignored, every paper is processed

Example:
  paperdigest batch papers.json
  paperdigest batch week1.json week2.json --mode simple --html issue.html
  paperdigest batch papers.json --out report.json --no-send`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd)
	},
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("mode", "", "pipeline mode (ensemble, simple)")
	batchCmd.Flags().String("strategy", "", "categorization strategy (marker, substring, json)")
	batchCmd.Flags().String("taxonomy", "", "taxonomy preset (stat-ensemble-v1, stat-simple-v1, custom)")
	batchCmd.Flags().String("llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().String("llm-model", "", "LLM model name")
	batchCmd.Flags().String("out", "", "write the JSON run report to this path")
	batchCmd.Flags().String("html", "", "write the digest HTML to this path")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall run timeout")
	batchCmd.Flags().BoolVar(&batchNoSend, "no-send", false, "compose the digest but do not email it")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := prepare()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  paperdigest Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")

	papers, err := readPaperFiles(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d papers from %d file(s)\n\n", len(papers), len(args))

	deps, err := pipeline.BuildDeps(cfg, pipeline.BuildOptions{
		NoSend:   batchNoSend,
		Logger:   logger,
		Progress: os.Stderr,
	})
	if err != nil {
		return err
	}
	deps.Source = &source.Static{Papers: papers}

	// Every loaded paper is processed
	cfg.Source.MaxResults = max(len(papers), 1)

	return execute(cmd, cfg, deps, batchTimeout)
}

// readPaperFiles concatenates the paper arrays of files, in argument order
func readPaperFiles(files []string) ([]*model.Paper, error) {
	var all []*model.Paper
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open paper file: %w", err)
		}
		papers, err := source.ReadPapers(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		all = append(all, papers...)
	}
	return all, nil
}
