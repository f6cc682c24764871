package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/galleria/internal/config"
	"git.home.luguber.info/inful/galleria/internal/logfields"
)

// Rapid editor save bursts collapse into one rebuild.
const rebuildDebounce = 500 * time.Millisecond

// runWatch rebuilds the gallery whenever an example source or section README
// changes. The checksum cache keeps untouched examples cheap, so a full
// rebuild per change is affordable.
func runWatch(cfg *config.Config, logger *slog.Logger, src, target string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(src); err != nil {
		return fmt.Errorf("watch %s: %w", src, err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("list example root %s: %w", src, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if err := watcher.Add(filepath.Join(src, entry.Name())); err != nil {
				return fmt.Errorf("watch %s: %w", entry.Name(), err)
			}
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	rebuild := func() {
		runID := uuid.NewString()
		// Each rebuild starts from a clean failure registry.
		cfg.FailingExamples = make(map[string]string)
		if err := runBuild(cfg, logger.With(logfields.RunID(runID)), runID, src, target); err != nil {
			logger.Error("rebuild failed", logfields.Error(err))
		}
	}
	rebuild()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	logger.Info("watching for changes", slog.String("dir", src))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantChange(event) {
				continue
			}
			logger.Debug("source changed", slog.String("path", event.Name))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rebuildDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logfields.Error(err))
		case <-pending:
			rebuild()
		case <-sigs:
			logger.Info("shutting down")
			return nil
		}
	}
}

// relevantChange filters watcher noise down to example sources and section
// headers.
func relevantChange(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return strings.HasSuffix(base, ".star") || base == "README.txt"
}
