package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/cmake-graph/pkg/logging"
)

// ChangeEvent represents a batch of reply-directory changes
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// ReplyWatcher watches a File API reply directory for new reply indexes.
// CMake rewrites the whole reply atomically and drops a fresh index file, so
// index creations are the signal that a new snapshot is available.
type ReplyWatcher struct {
	watcher  *fsnotify.Watcher
	replyDir string
	events   chan ChangeEvent
}

// NewReplyWatcher creates a new file system watcher for a reply directory
func NewReplyWatcher(replyDir string) (*ReplyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &ReplyWatcher{
		watcher:  watcher,
		replyDir: replyDir,
		events:   make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for reply changes
func (w *ReplyWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.replyDir); err != nil {
		return fmt.Errorf("failed to watch reply directory: %w", err)
	}

	logging.Info("started watching reply directory", "path", w.replyDir)
	go w.processEvents(ctx)
	return nil
}

// processEvents batches index-file events so one CMake run produces one
// change event, not one per written file
func (w *ReplyWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		w.events <- ChangeEvent{Paths: pending, Timestamp: time.Now()}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			close(w.events)
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isIndexFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

func isIndexFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, "index-") && strings.HasSuffix(name, ".json")
}

// Events returns the channel of change events
func (w *ReplyWatcher) Events() <-chan ChangeEvent {
	return w.events
}

// Stop stops the watcher
func (w *ReplyWatcher) Stop() error {
	return w.watcher.Close()
}
