// Package scan discovers project files on disk.
package scan

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/models"
	"github.com/jakoblorz/slnchain/internal/projectfile"
	"github.com/jakoblorz/slnchain/internal/sln"
)

// skippedDirs are build output and tooling directories that never hold
// source projects.
var skippedDirs = map[string]bool{
	".git": true,
	".vs":  true,
	"bin":  true,
	"obj":  true,
}

// Found is a project file discovered by Projects.
type Found struct {
	Path string
	File *projectfile.File
	Err  error
}

// Projects walks root and returns every recognized project file, honouring
// the .gitignore at root if there is one. Files that fail to load are
// returned with Err set.
func Projects(fsys filesystem.FileSystem, root string) ([]Found, error) {
	ignore, err := loadGitIgnore(fsys, root)
	if err != nil {
		return nil, err
	}

	var found []Found
	err = fsys.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		if entry.IsDir() && skippedDirs[strings.ToLower(entry.Name())] {
			return filepath.SkipDir
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if ignore != nil {
			if match := ignore.Relative(rel, entry.IsDir()); match != nil && match.Ignore() {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if entry.IsDir() || !models.IsProjectFile(path) {
			return nil
		}

		file, loadErr := projectfile.Load(fsys, path)
		found = append(found, Found{Path: path, File: file, Err: loadErr})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return found, nil
}

// NotInSolution filters found down to the projects whose GUID is not a
// member of s. Files that failed to load are kept so they can be reported.
func NotInSolution(found []Found, s *sln.Solution) []Found {
	var out []Found
	for _, f := range found {
		if f.Err == nil {
			if _, ok := s.FindByGUID(f.File.GUID); ok {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

func loadGitIgnore(fsys filesystem.FileSystem, root string) (gitignore.GitIgnore, error) {
	ignorePath := filepath.Join(root, ".gitignore")
	if !fsys.Exists(ignorePath) {
		return nil, nil
	}

	data, err := fsys.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	return gitignore.New(bytes.NewReader(data), root, nil), nil
}
