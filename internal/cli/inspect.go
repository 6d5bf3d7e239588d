package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lexdiff/internal/pipeline"
)

var (
	inspectJSON    string
	inspectTimeout time.Duration
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <document>",
	Short: "List the legal clauses extracted from one document",
	Long: `Inspect runs clause extraction on a single JSON or YAML document and
prints every clause it found with its party, modality, action, object and
intent hash. Use it to check what compare will see.

Example:
  lexdiff inspect terms.json
  lexdiff inspect https://example.com/terms.yaml --json clauses.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectJSON, "json", "", "write the extracted clauses as JSON")
	inspectCmd.Flags().DurationVar(&inspectTimeout, "timeout", 2*time.Minute, "extraction timeout")
	inspectCmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured terminal output")
	addEngineFlags(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), inspectTimeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg, newLogger(cfg))
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	in, err := p.Inspect(ctx, args[0])
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	if inspectJSON != "" {
		if err := p.Renderer().RenderJSON(in, inspectJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", inspectJSON)
		}
	}

	p.Renderer().RenderInspection(cmd.OutOrStdout(), in)
	return nil
}
