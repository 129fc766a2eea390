// Package discover finds component roots and the code files they own.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/incgraph/internal/lang"
	"github.com/phobologic/incgraph/internal/model"
)

// Options controls which parts of the tree are walked.
type Options struct {
	// Blacklist entries match either a root-relative path prefix or an
	// exact file or directory name.
	Blacklist []string
	// RespectGitignore prunes paths ignored by the root .gitignore.
	RespectGitignore bool
}

// ComponentRoot is a directory recognized as a build unit.
type ComponentRoot struct {
	Root string
	Type model.ComponentType
}

// FileEntry represents a discovered code file and its owner.
type FileEntry struct {
	Path      string // Relative to project root, forward slashes
	Component string
}

// Layout is the result of a walk.
type Layout struct {
	Components []ComponentRoot
	Files      []FileEntry
	// Outside lists code files that matched no component root.
	Outside []string
}

// Walk discovers component roots and code files under root.
func Walk(root string, opts Options) (*Layout, error) {
	var gi *ignore.GitIgnore
	if opts.RespectGitignore {
		gi = loadGitignore(root)
	}

	types := make(map[string]model.ComponentType)
	var candidates []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if strings.HasPrefix(name, ".") || isBlacklisted(rel, name, opts.Blacklist) ||
			ignored(gi, rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if isDir(filepath.Join(path, "include")) || isDir(filepath.Join(path, "src")) {
				register(types, rel, model.Executable)
				if isDir(filepath.Join(path, "test")) {
					register(types, rel+"/test", model.Unittest)
				}
			}
			return nil
		}

		// Skip symlinks and special files
		if !d.Type().IsRegular() {
			return nil
		}

		if lang.IsCode(filepath.Ext(name)) {
			candidates = append(candidates, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	roots := make([]string, 0, len(types))
	for r := range types {
		roots = append(roots, r)
	}
	sort.Strings(roots)

	layout := &Layout{}
	for _, r := range roots {
		layout.Components = append(layout.Components, ComponentRoot{Root: r, Type: types[r]})
	}

	sort.Strings(candidates)
	for _, p := range candidates {
		owner := Owner(roots, p)
		if owner == "" {
			layout.Outside = append(layout.Outside, p)
			continue
		}
		layout.Files = append(layout.Files, FileEntry{Path: p, Component: owner})
	}

	return layout, nil
}

// Owner returns the root with the longest path-prefix match for path, or ""
// if none matches. A root never owns a path equal to itself.
func Owner(roots []string, path string) string {
	best := ""
	for _, r := range roots {
		if len(r) <= len(best) || len(r) >= len(path) {
			continue
		}
		if strings.HasPrefix(path, r) && path[len(r)] == '/' {
			best = r
		}
	}
	return best
}

// register keeps the first type assigned to a root, so a test directory
// that also looks like a component stays a unittest.
func register(types map[string]model.ComponentType, root string, typ model.ComponentType) {
	if _, ok := types[root]; !ok {
		types[root] = typ
	}
}

func isBlacklisted(rel, name string, blacklist []string) bool {
	for _, s := range blacklist {
		if s == "" {
			continue
		}
		if strings.HasPrefix(rel, s) || s == name {
			return true
		}
	}
	return false
}

func ignored(gi *ignore.GitIgnore, rel string, dir bool) bool {
	if gi == nil {
		return false
	}
	return gi.MatchesPath(rel) || (dir && gi.MatchesPath(rel+"/"))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
