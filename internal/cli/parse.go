package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/structmap/structmap/internal/parse"
)

var parseCompact bool

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parse source files and print their structural extraction as JSON",
	Long: `Parse one or more source files and print the extracted symbols and
imports as JSON, one document per file.

Example:
  structmap parse internal/server/server.go
  structmap parse src/billing.rb src/invoice.cs`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseCompact, "compact", false, "single-line JSON output")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	parser := parse.NewParser()

	enc := json.NewEncoder(os.Stdout)
	if !parseCompact {
		enc.SetIndent("", "  ")
	}

	exitErr := false
	for _, path := range args {
		result, err := parser.ParseFile(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if !result.Success {
			exitErr = true
		}
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}

	if exitErr {
		return fmt.Errorf("one or more files failed to parse")
	}
	return nil
}
