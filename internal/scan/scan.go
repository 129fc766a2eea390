// Package scan reads discovered files and extracts their include directives
// on a bounded worker pool.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/exp/mmap"

	"github.com/phobologic/incgraph/internal/lang"
	"github.com/phobologic/incgraph/internal/model"
	"github.com/phobologic/incgraph/internal/parse"
)

// Options configures a Scanner.
type Options struct {
	// MaxFileSize skips files larger than this many bytes. Zero disables
	// the limit.
	MaxFileSize int64
	// Workers bounds concurrency; zero means GOMAXPROCS.
	Workers int
	// CacheSize keeps that many scan results between calls; zero disables
	// caching.
	CacheSize int
	Logger    *log.Logger
}

// Result holds the scanned includes per root-relative path.
type Result struct {
	Includes map[string][]model.Include
	// Skipped maps files that could not be scanned to the reason.
	Skipped map[string]string
}

type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

// Scanner extracts includes from files. It is safe for sequential reuse;
// cached results are reused while a file's size and mtime are unchanged.
type Scanner struct {
	opts  Options
	cache *lru.Cache[cacheKey, []model.Include]
}

// New creates a Scanner.
func New(opts Options) (*Scanner, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Scanner{opts: opts}
	if opts.CacheSize > 0 {
		cache, err := lru.New[cacheKey, []model.Include](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating scan cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

type parserPair struct {
	parser *sitter.Parser
	query  *sitter.Query
}

type result struct {
	index    int
	includes []model.Include
	skip     string
}

// Scan reads every file in paths (relative to root) and returns their
// includes. Unreadable or oversized files are reported in Result.Skipped
// rather than failing the scan. Only cancellation of ctx is an error.
func (s *Scanner) Scan(ctx context.Context, root string, paths []string) (*Result, error) {
	out := &Result{
		Includes: make(map[string][]model.Include, len(paths)),
		Skipped:  make(map[string]string),
	}
	if len(paths) == 0 {
		return out, nil
	}

	numWorkers := s.opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	work := make(chan int, len(paths))
	results := make(chan result, len(paths))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser
			parsers := make(map[string]*parserPair)

			for idx := range work {
				if ctx.Err() != nil {
					continue
				}
				rel := paths[idx]
				name := lang.ForExtension(filepath.Ext(rel))
				pp, ok := parsers[name]
				if !ok {
					l := lang.Languages[name]
					if l == nil {
						results <- result{index: idx, skip: "unsupported extension"}
						continue
					}
					q, err := l.GetIncludeQuery()
					if err != nil {
						results <- result{index: idx, skip: err.Error()}
						continue
					}
					pp = &parserPair{parser: l.NewParser(), query: q}
					parsers[name] = pp
				}

				incs, skip := s.scanFile(filepath.Join(root, filepath.FromSlash(rel)), pp)
				results <- result{index: idx, includes: incs, skip: skip}
			}
		}()
	}

	for i := range paths {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		rel := paths[r.index]
		if r.skip != "" {
			s.opts.Logger.Warn("skipping file", "path", rel, "reason", r.skip)
			out.Skipped[rel] = r.skip
			continue
		}
		out.Includes[rel] = r.includes
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}
	return out, nil
}

// scanFile returns the includes of one file, or a non-empty reason when the
// file was skipped.
func (s *Scanner) scanFile(path string, pp *parserPair) ([]model.Include, string) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err.Error()
	}
	if s.opts.MaxFileSize > 0 && info.Size() > s.opts.MaxFileSize {
		return nil, fmt.Sprintf("skipped (>%d bytes)", s.opts.MaxFileSize)
	}

	key := cacheKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
	if s.cache != nil {
		if incs, ok := s.cache.Get(key); ok {
			return incs, ""
		}
	}

	source, err := readMapped(path)
	if err != nil {
		return nil, err.Error()
	}
	incs := parse.Includes(pp.parser, pp.query, source)

	if s.cache != nil {
		s.cache.Add(key, incs)
	}
	return incs, ""
}

// readMapped copies the file's contents out of a read-only mapping that is
// released before returning.
func readMapped(path string) ([]byte, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	defer r.Close()

	buf := make([]byte, r.Len())
	if _, err := r.ReadAt(buf, 0); err != nil && len(buf) > 0 {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return buf, nil
}
