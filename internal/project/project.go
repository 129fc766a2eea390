// Package project owns the reload cycle: it walks the tree, scans every code
// file, runs inference and publishes the finished graph for readers.
package project

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phobologic/incgraph/internal/config"
	"github.com/phobologic/incgraph/internal/discover"
	"github.com/phobologic/incgraph/internal/graph"
	"github.com/phobologic/incgraph/internal/model"
	"github.com/phobologic/incgraph/internal/scan"
)

// Service reloads a project and holds the latest published graph.
// Reloads are serialized; Graph may be called from any goroutine.
type Service struct {
	root    string
	cfg     *config.Config
	logger  *log.Logger
	scanner *scan.Scanner

	mu      sync.Mutex
	current atomic.Pointer[model.Graph]
}

// New creates a service for the project at root. A nil logger uses the
// package default.
func New(root string, cfg *config.Config, logger *log.Logger) (*Service, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}

	scanner, err := scan.New(scan.Options{
		MaxFileSize: int64(cfg.MaxFileSize),
		Workers:     cfg.Workers,
		CacheSize:   cfg.CacheSize,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		root:    root,
		cfg:     cfg,
		logger:  logger,
		scanner: scanner,
	}, nil
}

// Root returns the project root directory.
func (s *Service) Root() string { return s.root }

// Graph returns the most recently published graph, or nil before the first
// successful reload. The returned graph must not be modified.
func (s *Service) Graph() *model.Graph {
	return s.current.Load()
}

// Reload rebuilds the graph from disk and publishes it. On error the
// previously published graph stays in place.
func (s *Service) Reload(ctx context.Context) (*model.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	layout, err := discover.Walk(s.root, discover.Options{
		Blacklist:        s.cfg.Blacklist,
		RespectGitignore: s.cfg.RespectGitignore,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reload canceled: %w", err)
	}

	paths := make([]string, len(layout.Files))
	for i, fe := range layout.Files {
		paths[i] = fe.Path
	}
	res, err := s.scanner.Scan(ctx, s.root, paths)
	if err != nil {
		return nil, fmt.Errorf("scanning files: %w", err)
	}

	g := graph.Assemble(s.root, layout, res.Includes, res.Skipped)
	graph.Infer(g, graph.Registry{
		Externals: s.cfg.ExternalRegistry(),
		Known:     s.cfg.KnownHeaderSet(),
	})

	s.current.Store(g)
	s.logger.Debug("reloaded project",
		"components", len(g.Components),
		"files", len(g.Files),
		"ambiguous", len(g.Ambiguous),
		"unknown", len(g.Unknown),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return g, nil
}
