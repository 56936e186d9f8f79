// Package watcher turns file system activity under a scan root into batched
// change events.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/jsgraph/pkg/finder"
	"github.com/ritzau/jsgraph/pkg/logging"
)

var logger = logging.New("watcher")

// ChangeType represents the type of file change detected
type ChangeType int

const (
	ChangeTypeSource ChangeType = iota
	ChangeTypeManifest
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTypeSource:
		return "source"
	case ChangeTypeManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// ChangeEvent represents a batch of file system changes of one type
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches every non-ignored directory below a root
type FileWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	events  chan ChangeEvent
}

// NewFileWatcher creates a watcher for root
func NewFileWatcher(root string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		watcher: w,
		root:    root,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start registers the directories and processes events until ctx is done
func (fw *FileWatcher) Start(ctx context.Context) error {
	count, err := fw.addTree(fw.root)
	if err != nil {
		return err
	}
	logger.Info("Watching for changes", "root", fw.root, "directories", count)

	go fw.processEvents(ctx)
	return nil
}

// addTree watches dir and its subdirectories, skipping ignored names
func (fw *FileWatcher) addTree(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != fw.root && finder.IgnoredDirectories[d.Name()] {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			logger.Warn("Failed to watch directory", "path", path, "error", err)
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return count, nil
}

// Classify maps a changed path onto a change type. Paths inside ignored
// directories and ineligible files are not relevant.
func (fw *FileWatcher) Classify(path string) (ChangeType, bool) {
	rel, err := filepath.Rel(fw.root, path)
	if err != nil || finder.IsIgnoredPath(rel) {
		return 0, false
	}
	name := filepath.Base(path)
	switch {
	case finder.IgnoredFiles[name]:
		return 0, false
	case finder.IsSourceFile(name):
		return ChangeTypeSource, true
	case finder.IsManifest(name):
		return ChangeTypeManifest, true
	}
	return 0, false
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(ctx, event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// addTree skips the directory itself when its name is ignored
			if rel, err := filepath.Rel(fw.root, event.Name); err == nil && !finder.IsIgnoredPath(rel) {
				if _, err := fw.addTree(event.Name); err != nil {
					logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	kind, ok := fw.Classify(event.Name)
	if !ok {
		return
	}
	logger.Debug("File changed", "path", event.Name, "op", event.Op.String(), "type", kind)

	select {
	case fw.events <- ChangeEvent{Type: kind, Paths: []string{event.Name}, Timestamp: time.Now()}:
	case <-ctx.Done():
	}
}

// Events returns the channel of raw change events. It is closed when the
// watcher stops.
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}
