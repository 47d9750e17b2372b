// Package scan walks a project tree, parses every source file whose path
// matches the configured patterns, and fans results out to a sink. Results
// are cached by content hash so unchanged files are not re-parsed, and a
// watch mode keeps the sink current as files change.
package scan

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery handles file discovery with glob patterns, ignore rules and
// optional .gitignore support.
type Discovery struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
	gitignore       *gitignore.GitIgnore
}

// NewDiscovery creates a new file discovery instance. When useGitignore is
// set and the root carries a .gitignore, its rules apply on top of the
// ignore patterns.
func NewDiscovery(rootDir string, includePatterns, ignorePatterns []string, useGitignore bool) (*Discovery, error) {
	d := &Discovery{
		rootDir: rootDir,
	}

	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.includePatterns = append(d.includePatterns, compiledPattern{pattern: pattern, glob: g})
	}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	if useGitignore {
		ignoreFile := filepath.Join(rootDir, ".gitignore")
		if _, err := os.Stat(ignoreFile); err == nil {
			gi, err := gitignore.CompileIgnoreFile(ignoreFile)
			if err != nil {
				return nil, err
			}
			d.gitignore = gi
		}
	}

	return d, nil
}

// DiscoverFiles walks the directory tree and returns every matching file,
// as absolute paths in walk order.
func (d *Discovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, rerr := filepath.Rel(d.rootDir, path)
		if rerr != nil {
			return rerr
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			// Never descend into the ignored trees at all.
			if relPath != "." && d.ignoredDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Matches(relPath) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Matches reports whether a root-relative path is an includable source file.
func (d *Discovery) Matches(relPath string) bool {
	if d.shouldIgnore(relPath) {
		return false
	}
	for _, p := range d.includePatterns {
		if p.glob.Match(relPath) {
			return true
		}
	}
	return false
}

func (d *Discovery) shouldIgnore(relPath string) bool {
	for _, p := range d.ignorePatterns {
		if p.glob.Match(relPath) {
			return true
		}
	}
	if d.gitignore != nil && d.gitignore.MatchesPath(relPath) {
		return true
	}
	return false
}

// ignoredDir reports whether a directory subtree can be pruned outright.
// A directory is pruned when an ignore pattern matches everything below it.
func (d *Discovery) ignoredDir(relPath string) bool {
	for _, p := range d.ignorePatterns {
		if p.glob.Match(relPath+"/x") && p.glob.Match(relPath+"/x/y") {
			return true
		}
	}
	if d.gitignore != nil && d.gitignore.MatchesPath(relPath+"/") {
		return true
	}
	return false
}
