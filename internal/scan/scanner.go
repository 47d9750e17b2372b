package scan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"

	"github.com/structmap/structmap/internal/model"
	"github.com/structmap/structmap/internal/parse"
)

// Sink receives every parse result of a scan, serially. The content hash is
// the SHA-256 of the file bytes that produced the result.
type Sink func(contentHash string, result *model.ParseResult) error

// Summary aggregates the outcome of one scan.
type Summary struct {
	Files        int
	Failed       int
	SyntaxErrors int
	Cached       int
	Duration     time.Duration
}

// Scanner parses project trees concurrently, caching results by path and
// content hash so unchanged files cost one hash instead of one parse.
type Scanner struct {
	parser  *parse.Parser
	cache   *otter.Cache[string, *model.ParseResult]
	workers int
}

// NewScanner creates a scanner. workers <= 0 means one worker per CPU;
// cacheSize <= 0 disables the result cache.
func NewScanner(workers, cacheSize int) (*Scanner, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	s := &Scanner{
		parser:  parse.NewParser(),
		workers: workers,
	}
	if cacheSize > 0 {
		cache, err := otter.MustBuilder[string, *model.ParseResult](cacheSize).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build result cache: %w", err)
		}
		s.cache = &cache
	}
	return s, nil
}

// Parser exposes the underlying parser for single-file use.
func (s *Scanner) Parser() *parse.Parser { return s.parser }

// ScanRoot discovers and parses every matching file under rootDir, feeding
// each result to the sink. The sink is never called concurrently. A nil sink
// just counts.
func (s *Scanner) ScanRoot(ctx context.Context, rootDir string, discovery *Discovery, sink Sink) (*Summary, error) {
	files, err := discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files under %s: %w", rootDir, err)
	}
	return s.ScanFiles(ctx, files, sink)
}

// ScanFiles parses the given paths with the configured worker count.
func (s *Scanner) ScanFiles(ctx context.Context, files []string, sink Sink) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range files {
		g.Go(func() error {
			hash, result, cached, err := s.scanOne(ctx, path)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			summary.Files++
			if cached {
				summary.Cached++
			}
			if !result.Success {
				summary.Failed++
			}
			if result.HasSyntaxErrors {
				summary.SyntaxErrors++
			}
			if sink != nil {
				if err := sink(hash, result); err != nil {
					return fmt.Errorf("sink failed for %s: %w", path, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	summary.Duration = time.Since(start)
	return summary, nil
}

// ScanFile parses a single path through the cache.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*model.ParseResult, error) {
	_, result, _, err := s.scanOne(ctx, path)
	return result, err
}

func (s *Scanner) scanOne(ctx context.Context, path string) (hash string, result *model.ParseResult, cached bool, err error) {
	content, rerr := os.ReadFile(path)
	if rerr != nil {
		language := "unknown"
		if l, derr := parse.DetectLanguage(path); derr == nil {
			language = l
		}
		return "", model.Failure(language, path, fmt.Sprintf("io failure: %v", rerr)), false, nil
	}

	sum := sha256.Sum256(content)
	hash = hex.EncodeToString(sum[:])
	key := path + ":" + hash

	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			return hash, hit, true, nil
		}
	}

	result, err = s.parser.Parse(ctx, path, content)
	if err != nil {
		return "", nil, false, err
	}
	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return hash, result, false, nil
}
