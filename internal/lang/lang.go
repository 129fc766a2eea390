// Package lang provides a language registry mapping file extensions to
// tree-sitter languages and their embedded query files.
package lang

import (
	"embed"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name string
	// Extensions are matched case-sensitively: ".C" and ".c" are both
	// listed where both are meaningful.
	Extensions []string
	// UnitExtensions is the subset of Extensions that are compiled on
	// their own rather than only included.
	UnitExtensions []string
	lang           *sitter.Language
	queryOnce      sync.Once
	query          *sitter.Query
	queryErr       error
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetIncludeQuery returns the compiled include query (safe to share across goroutines).
func (l *Language) GetIncludeQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

var (
	extensionOnce sync.Once
	extensionMap  map[string]string
	unitMap       map[string]struct{}
)

func buildExtensionMaps() {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		unitMap = make(map[string]struct{})
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
			for _, ext := range l.UnitExtensions {
				unitMap[ext] = struct{}{}
			}
		}
	})
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	buildExtensionMaps()
	return extensionMap[ext]
}

// IsCode reports whether ext is a recognized source or header extension.
func IsCode(ext string) bool {
	return ForExtension(ext) != ""
}

// IsCompilationUnit reports whether ext names a file compiled on its own.
func IsCompilationUnit(ext string) bool {
	buildExtensionMaps()
	_, ok := unitMap[ext]
	return ok
}
