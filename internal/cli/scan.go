package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/structmap/structmap/internal/config"
	"github.com/structmap/structmap/internal/model"
	"github.com/structmap/structmap/internal/scan"
	"github.com/structmap/structmap/internal/storage"
)

var (
	scanQuiet bool
	scanWatch bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the project tree and build the structural index",
	Long: `Walk the project tree, parse every supported source file and persist
the extracted symbols and imports to the index database at
.structmap/index.db (configurable via .structmap/config.yml).

With --watch the command keeps running after the initial scan and
re-indexes files as they change on disk.

Example:
  structmap scan
  structmap scan --watch`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress progress output")
	scanCmd.Flags().BoolVarP(&scanWatch, "watch", "w", false, "keep watching for file changes after the scan")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	discovery, err := scan.NewDiscovery(root, cfg.Paths.Include, cfg.Paths.Ignore, cfg.Paths.UseGitignore)
	if err != nil {
		return fmt.Errorf("failed to set up file discovery: %w", err)
	}
	files, err := discovery.DiscoverFiles()
	if err != nil {
		return fmt.Errorf("failed to discover files: %w", err)
	}
	if verbose {
		log.Printf("Project root: %s", root)
		log.Printf("Discovered %d files (%d workers, cache %d)", len(files), cfg.Scan.Workers, cfg.Scan.CacheSize)
	}

	scanner, err := scan.NewScanner(cfg.Scan.Workers, cfg.Scan.CacheSize)
	if err != nil {
		return err
	}

	dbPath := cfg.DatabasePath(root)
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index database: %w", err)
	}
	defer db.Close()
	writer := storage.NewWriter(db)

	if !scanQuiet {
		log.Printf("Indexing %d files into %s", len(files), dbPath)
	}

	summary, err := indexFiles(ctx, scanner, writer, root, files)
	if err != nil {
		return err
	}

	if !scanQuiet {
		fmt.Fprintf(os.Stderr, "Indexed %d files in %s (%d failed, %d with syntax errors, %d cached)\n",
			summary.Files, summary.Duration.Round(time.Millisecond),
			summary.Failed, summary.SyntaxErrors, summary.Cached)
	}

	if scanWatch {
		return watchLoop(ctx, scanner, writer, discovery, root, cfg.Scan.DebounceMs)
	}
	return nil
}

// indexFiles runs one scan pass and persists every result under a fresh
// scan run record.
func indexFiles(ctx context.Context, scanner *scan.Scanner, writer *storage.Writer, root string, files []string) (*scan.Summary, error) {
	runID, err := writer.BeginRun(root)
	if err != nil {
		return nil, err
	}

	bar := newScanBar(len(files))
	sink := func(hash string, result *model.ParseResult) error {
		// The scanner may serve this instance from its cache again, so the
		// root-relative path goes on a copy.
		stored := *result
		stored.FilePath = indexKey(root, stored.FilePath)
		if err := writer.WriteResult(runID, hash, &stored); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(1)
		}
		return nil
	}

	summary, err := scanner.ScanFiles(ctx, files, sink)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if err := writer.FinishRun(runID, summary.Files, summary.Failed); err != nil {
		return nil, err
	}
	return summary, nil
}

// watchLoop re-indexes changed files until interrupted.
func watchLoop(ctx context.Context, scanner *scan.Scanner, writer *storage.Writer, discovery *scan.Discovery, root string, debounceMs int) error {
	handler := func(changed, removed []string) {
		if len(changed) > 0 {
			summary, err := indexFiles(ctx, scanner, writer, root, changed)
			if err != nil {
				log.Printf("re-index failed: %v", err)
			} else if !scanQuiet {
				log.Printf("Re-indexed %d files (%d failed)", summary.Files, summary.Failed)
			}
		}
		for _, path := range removed {
			if err := writer.DeleteFile(indexKey(root, path)); err != nil {
				log.Printf("failed to drop %s from index: %v", path, err)
			}
		}
	}

	watcher, err := scan.NewWatcher(root, discovery, time.Duration(debounceMs)*time.Millisecond, handler)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	if !scanQuiet {
		log.Printf("Watching %s for changes (Ctrl-C to stop)", root)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	return nil
}

// indexKey converts an absolute path to the root-relative form stored in
// the index.
func indexKey(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func newScanBar(total int) *progressbar.ProgressBar {
	if scanQuiet || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Indexing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
