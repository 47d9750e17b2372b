package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/structmap/structmap/internal/config"
	"github.com/structmap/structmap/internal/model"
	"github.com/structmap/structmap/internal/storage"
)

var (
	findKind       string
	findVisibility string
	findLimit      int
)

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find <name-pattern>",
	Short: "Search indexed symbols by name",
	Long: `Search the index for symbols by name. Patterns use SQL LIKE syntax,
so % matches any run of characters and _ matches a single one.

Example:
  structmap find 'Parse%'
  structmap find '%Handler' --kind method --visibility public`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findKind, "kind", "", "filter by symbol kind (class, method, function, ...)")
	findCmd.Flags().StringVar(&findVisibility, "visibility", "", "filter by visibility (public, private, ...)")
	findCmd.Flags().IntVar(&findLimit, "limit", 50, "maximum number of results")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPath := cfg.DatabasePath(root)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no index at %s, run 'structmap scan' first", dbPath)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index database: %w", err)
	}
	defer db.Close()

	reader := storage.NewReader(db)
	hits, err := reader.FindSymbols(args[0], model.SymbolKind(findKind), model.Visibility(findVisibility), findLimit)
	if err != nil {
		return fmt.Errorf("symbol search failed: %w", err)
	}

	for _, hit := range hits {
		name := hit.Symbol.Name
		if hit.Symbol.ParentName != "" {
			name = hit.Symbol.ParentName + "." + name
		}
		fmt.Printf("%s:%d\t%s\t%s\t%s\n", hit.FilePath, hit.Symbol.LineStart, hit.Symbol.Kind, hit.Symbol.Visibility, name)
	}
	if len(hits) == 0 {
		fmt.Fprintln(os.Stderr, "no symbols matched")
	}
	return nil
}
