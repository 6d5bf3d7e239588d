package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/pipeline"
)

// ErrChangesFound is returned when --fail-on matches a reported change
var ErrChangesFound = errors.New("changes at or above the --fail-on impact found")

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	threshold   float64
	analyzer    string
	analyzerMdl string
	embedder    string
	embedderMdl string
	noFooter    bool
	noColor     bool
	failOn      string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <left> <right>",
	Short: "Compare two document versions and report legal changes",
	Long: `Compare extracts the legal clauses of two JSON or YAML documents, matches
them across versions and classifies every difference:
- Party, modality, action, object, timing, condition and exception changes
- Clauses that were added, removed or only moved
- Rewording and translation recognised as non-material

Either document may be a local path or an http(s) URL.

Example:
  lexdiff compare v1.json v2.json
  lexdiff compare v1.yaml v2.yaml --json report.json --md report.md
  lexdiff compare v1.json v2.json --embedder openai --analyzer anthropic
  lexdiff compare v1.json v2.json --fail-on high`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	// Output flags
	compareCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default from config: report.json)")
	compareCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	compareCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	compareCmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured terminal output")
	compareCmd.Flags().StringVar(&failOn, "fail-on", "", "exit non-zero when a change has at least this impact (low, medium, high, critical)")

	// Engine flags
	compareCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall comparison timeout")
	addEngineFlags(compareCmd)
}

// addEngineFlags registers the flags shared by commands that run the engine
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "cosine similarity threshold for matching reworded clauses (default: calibrated per embedder)")
	cmd.Flags().StringVar(&analyzer, "analyzer", "", "clause analyzer (lexical, openai, anthropic, ollama)")
	cmd.Flags().StringVar(&analyzerMdl, "analyzer-model", "", "model name for LLM analyzers")
	cmd.Flags().StringVar(&embedder, "embedder", "", "embedding provider (hashing, openai, ollama, voyage)")
	cmd.Flags().StringVar(&embedderMdl, "embedder-model", "", "embedding model name")
}

// engineConfig loads the configuration and applies engine flags the user set
func engineConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		if threshold <= 0 || threshold > 1 {
			return nil, fmt.Errorf("--threshold must be in (0, 1], got %v", threshold)
		}
		cfg.Compare.SimilarityThreshold = threshold
	}
	if flags.Changed("analyzer") {
		cfg.Analyzer.Provider = analyzer
	}
	if flags.Changed("analyzer-model") {
		cfg.Analyzer.Model = analyzerMdl
	}
	if flags.Changed("embedder") {
		cfg.Embedder.Provider = embedder
	}
	if flags.Changed("embedder-model") {
		cfg.Embedder.Model = embedderMdl
	}
	if flags.Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if flags.Changed("no-color") {
		cfg.Output.NoColor = noColor
	}
	if !isTerminal(os.Stdout) {
		cfg.Output.NoColor = true
	}
	return cfg, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	left, right := args[0], args[1]

	var failLevel model.ImpactLevel
	if failOn != "" {
		failLevel = model.ImpactLevel(strings.ToUpper(failOn))
		if failLevel.Rank() == 0 {
			return fmt.Errorf("--fail-on must be one of low, medium, high, critical, got %q", failOn)
		}
	}

	cfg, err := engineConfig(cmd)
	if err != nil {
		return err
	}
	if outJSON != "" {
		cfg.Output.JSONPath = outJSON
	}
	if outMD != "" {
		cfg.Output.MarkdownPath = outMD
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Comparing: %s → %s\n", left, right)
		fmt.Fprintf(os.Stderr, "Analyzer:  %s\n", cfg.Analyzer.Provider)
		fmt.Fprintf(os.Stderr, "Embedder:  %s\n", cfg.Embedder.Provider)
		if cfg.Compare.SimilarityThreshold > 0 {
			fmt.Fprintf(os.Stderr, "Threshold: %.2f\n", cfg.Compare.SimilarityThreshold)
		}
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, newLogger(cfg))
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	report, err := p.CompareFiles(ctx, left, right)
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if cfg.Output.Verbose {
		for i, name := range []string{left, right} {
			d := report.Meta.Documents[i]
			fmt.Fprintf(os.Stderr, "✓ %s: %d clause(s) from %d candidate(s)\n", name, d.Clauses, d.Candidates)
		}
		if report.Meta.Sectioned {
			fmt.Fprintf(os.Stderr, "✓ Compared section by section\n")
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, cfg.Output.JSONPath, cfg.Output.MarkdownPath, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if failLevel != "" && exceeds(report, failLevel) {
		return ErrChangesFound
	}
	return nil
}

// exceeds reports whether any change has at least the given impact
func exceeds(report *model.Report, level model.ImpactLevel) bool {
	for _, c := range report.Changes {
		if c.Impact.Rank() >= level.Rank() {
			return true
		}
	}
	return false
}
