package texts

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Source serves picks from a pool that can be swapped while in use.
type Source struct {
	pool atomic.Pointer[Pool]
}

// NewSource returns a source serving p.
func NewSource(p *Pool) *Source {
	s := &Source{}
	s.pool.Store(p)
	return s
}

// Pool returns the current pool.
func (s *Source) Pool() *Pool { return s.pool.Load() }

// Store replaces the current pool.
func (s *Source) Store(p *Pool) { s.pool.Store(p) }

// Pick selects a text from the current pool.
func (s *Source) Pick(locale string, rnd *rand.Rand) string {
	return s.Pool().Pick(locale, rnd)
}

// Watch reloads dir into src whenever a .txt file in it changes, until ctx
// is done. A missing dir is not watched.
func Watch(ctx context.Context, dir string, src *Source, logger *slog.Logger) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat texts dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	go func() {
		defer func() {
			_ = watcher.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != ".txt" {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				pool, err := Load(dir)
				if err != nil {
					logger.Warn("texts reload failed", "dir", dir, "err", err)
					continue
				}
				src.Store(pool)
				logger.Info("texts reloaded", "dir", dir, "locales", pool.Locales())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("texts watcher error", "dir", dir, "err", err)
			}
		}
	}()
	return nil
}
