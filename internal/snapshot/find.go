package snapshot

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// FindStats tracks snapshot discovery
type FindStats struct {
	FilesDiscovered int // files matched by the patterns
	FilesSkipped    int // wrong extension or git-ignored
}

var (
	gitIgnoreCache *ignore.GitIgnore
	gitIgnoreOnce  sync.Once
)

// loadGitIgnore loads ./.gitignore once; a missing file disables filtering
func loadGitIgnore() *ignore.GitIgnore {
	gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			return
		}
		gitIgnoreCache = gi
	})
	return gitIgnoreCache
}

// shouldSkipFile reports whether a matched path is not a usable snapshot.
// Gitignore only applies to relative paths inside the project.
func shouldSkipFile(path string, gi *ignore.GitIgnore) bool {
	if _, err := FormatFor(path); err != nil {
		return true
	}
	if !filepath.IsAbs(path) && gi != nil && gi.MatchesPath(path) {
		return true
	}
	return false
}

// FindSnapshots expands doublestar patterns into snapshot files, in
// pattern order without duplicates
func FindSnapshots(patterns []string) ([]string, FindStats, error) {
	return findSnapshots(patterns, loadGitIgnore())
}

func findSnapshots(patterns []string, gi *ignore.GitIgnore) ([]string, FindStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := FindStats{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipFile(match, gi) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, match)
		}
	}

	return files, stats, nil
}
