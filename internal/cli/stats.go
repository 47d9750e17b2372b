package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/structmap/structmap/internal/config"
	"github.com/structmap/structmap/internal/storage"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		stats, err := storage.NewReader(db).Stats()
		if err != nil {
			return err
		}
		fmt.Printf("Index:   %s\n", dbPath)
		fmt.Printf("Files:   %d\n", stats.Files)
		fmt.Printf("Symbols: %d\n", stats.Symbols)
		fmt.Printf("Imports: %d\n", stats.Imports)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
