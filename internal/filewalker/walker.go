package filewalker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// skipDirs contains directory names never worth descending into.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"__pycache__":  true,
	".tox":         true,
	".venv":        true,
	"venv":         true,
	"vendor":       true,
}

// Walker expands the paths given on the command line into the list of files
// to process. Which files actually have a parser is decided later, per
// file, by the coordinator.
type Walker struct{}

func New() *Walker { return &Walker{} }

// Expand resolves files and directories into a flat file list. Directories
// contribute their direct children, or the whole subtree when recursive is
// set. Missing paths are logged and skipped.
func (w *Walker) Expand(paths []string, recursive bool) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			log.Warn().Str("path", p).Msg("Path does not exist")
			continue
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		if recursive {
			expanded, err := w.walkTree(p)
			if err != nil {
				return nil, err
			}
			files = append(files, expanded...)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", p, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}

	return files, nil
}

func (w *Walker) walkTree(root string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}
