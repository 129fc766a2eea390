package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phobologic/incgraph/internal/lang"
	"github.com/phobologic/incgraph/internal/model"
)

// DefaultDebounce is the quiet period after the last relevant event before
// a reload starts.
const DefaultDebounce = 300 * time.Millisecond

// Watch reloads the project whenever a code file or directory below the
// root changes and passes every new graph to onReload. Events arriving
// within debounce of each other collapse into one reload; a non-positive
// debounce uses DefaultDebounce. Failed reloads are logged and the
// previous graph stays published. Watch returns nil when ctx is done.
func (s *Service) Watch(ctx context.Context, debounce time.Duration, onReload func(*model.Graph)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := s.addDirectories(fsw, s.root); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if !s.relevant(evt) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if err := s.addDirectories(fsw, evt.Name); err != nil {
						s.logger.Warn("watching new directory", "path", evt.Name, "err", err)
					}
				}
			}
			s.logger.Debug("change detected", "path", evt.Name, "op", evt.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			g, err := s.Reload(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.logger.Error("reload failed", "err", err)
				continue
			}
			if onReload != nil {
				onReload(g)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			s.logger.Warn("watch error", "err", err)
		}
	}
}

// addDirectories registers dir and every non-hidden directory below it.
func (s *Service) addDirectories(fsw *fsnotify.Watcher, dir string) error {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping inaccessible path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != s.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("adding watch directories: %w", err)
	}
	return nil
}

// relevant reports whether evt can change the graph: anything touching a
// code file, plus creation or removal of non-hidden directories.
func (s *Service) relevant(evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
		return false
	}
	rel, err := filepath.Rel(s.root, evt.Name)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return false
		}
	}
	if lang.IsCode(filepath.Ext(evt.Name)) {
		return true
	}
	if evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
		return true
	}
	info, err := os.Stat(evt.Name)
	return err == nil && info.IsDir()
}
