package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// documentDiscovery finds match documents under a batch directory.
type documentDiscovery struct {
	rootDir        string
	includePattern []compiledPattern
	ignorePatterns []compiledPattern
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		out = append(out, compiledPattern{pattern: pattern, glob: g})
	}
	return out, nil
}

func newDocumentDiscovery(rootDir string, include, ignore []string) (*documentDiscovery, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, err
	}
	ign, err := compilePatterns(ignore)
	if err != nil {
		return nil, err
	}
	return &documentDiscovery{rootDir: rootDir, includePattern: inc, ignorePatterns: ign}, nil
}

// Discover walks the directory tree and returns matching documents in
// lexical order.
func (d *documentDiscovery) Discover() ([]string, error) {
	var docs []string
	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if relPath != "." && d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.shouldIgnore(relPath) {
			return nil
		}
		if matchesAnyPattern(relPath, d.includePattern) {
			docs = append(docs, path)
		}
		return nil
	})
	return docs, err
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *documentDiscovery) shouldIgnore(relPath string) bool {
	// Always ignore the tool's own directory
	if strings.HasPrefix(relPath, ".reextractor/") || relPath == ".reextractor" {
		return true
	}
	if matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}
	// "vendor" should match pattern "vendor/**"
	return matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
// Root-level files also match "**/"-prefixed patterns.
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}

	return false
}

// Accepts reports whether an absolute or root-relative path would be
// discovered.
func (d *documentDiscovery) Accepts(path string) bool {
	relPath := path
	if filepath.IsAbs(path) {
		root, err := filepath.Abs(d.rootDir)
		if err != nil {
			return false
		}
		if relPath, err = filepath.Rel(root, path); err != nil {
			return false
		}
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." || strings.HasPrefix(relPath, "../") {
		return false
	}
	if d.shouldIgnore(relPath) {
		return false
	}
	for dir := filepath.ToSlash(filepath.Dir(relPath)); dir != "."; dir = filepath.ToSlash(filepath.Dir(dir)) {
		if d.shouldIgnore(dir) {
			return false
		}
	}
	return matchesAnyPattern(relPath, d.includePattern)
}
