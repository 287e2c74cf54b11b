package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config configures a FileWatcher.
type Config struct {
	// Paths are the files and directories to watch. Files are watched
	// through their parent directory so that editors replacing them on save
	// are still seen.
	Paths []string

	// Debounce is the quiet period before the callback fires (default: 200ms)
	Debounce time.Duration

	// Extensions lists the file extensions that trigger the callback.
	Extensions []string

	// SkipHidden ignores files and directories starting with a dot.
	SkipHidden bool
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() *Config {
	return &Config{
		Debounce:   200 * time.Millisecond,
		Extensions: []string{".xml", ".yaml", ".yml"},
		SkipHidden: true,
	}
}

// FileWatcher calls back when a description document changes.
//
// By default any file with a watched extension under the watched paths
// counts. After Track, only the tracked files do, which lets the caller
// narrow events to the documents a compile actually read.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *Config
	debounce *Debouncer

	mu      sync.RWMutex
	running bool
	tracked map[string]struct{}

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(config *Config, logger *slog.Logger) (*FileWatcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		config:   config,
		debounce: NewDebouncer(config.Debounce),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Track restricts events to files, replacing any previous set, and starts
// watching the directories holding them. An empty list lifts the
// restriction.
func (fw *FileWatcher) Track(files []string) error {
	tracked := make(map[string]struct{}, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		tracked[abs] = struct{}{}
		if err := fw.watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
		}
	}

	fw.mu.Lock()
	if len(tracked) == 0 {
		fw.tracked = nil
	} else {
		fw.tracked = tracked
	}
	fw.mu.Unlock()

	fw.logger.Debug("Tracking files", "count", len(tracked))
	return nil
}

// Watch blocks until ctx is cancelled or Stop is called, invoking onChange
// with the last changed path once each burst of events settles. Errors from
// onChange are logged and watching continues.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(path string) error) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	for _, path := range fw.config.Paths {
		if err := fw.addPath(path); err != nil {
			return fmt.Errorf("failed to watch path: %w", err)
		}
	}

	fw.logger.Info("File watcher started",
		"paths", fw.config.Paths,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("File watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.logger.Debug("File event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			fw.debounce.Trigger(func() {
				fw.logger.Info("Triggering recompile", "path", event.Name)
				if err := onChange(event.Name); err != nil {
					fw.logger.Error("Recompile failed", "error", err)
				}
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases its resources. It is safe to call
// whether or not Watch is running.
func (fw *FileWatcher) Stop() error {
	fw.mu.RLock()
	running := fw.running
	fw.mu.RUnlock()

	fw.stopOnce.Do(func() { close(fw.stopCh) })
	if running {
		<-fw.doneCh
	}

	fw.debounce.Stop()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// addPath watches a file's directory, or a directory and its subdirectories.
func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fw.watcher.Add(filepath.Dir(path))
	}
	return fw.addDirectory(path)
}

func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if fw.config.SkipHidden && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("Watching directory", "path", path)
		return nil
	})
}

// shouldProcessEvent reports whether event should trigger the callback.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	base := filepath.Base(event.Name)
	if fw.config.SkipHidden && strings.HasPrefix(base, ".") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(base))
	if !slices.ContainsFunc(fw.config.Extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	}) {
		return false
	}

	fw.mu.RLock()
	defer fw.mu.RUnlock()
	if fw.tracked == nil {
		return true
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := fw.tracked[abs]
	return ok
}
