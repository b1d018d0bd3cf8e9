package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

var (
	ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")
)

// ChangeHandler receives the markdown files touched during one debounce window.
type ChangeHandler func(ctx context.Context, paths []string)

// VaultWatcher watches planner folders recursively and reports batches of
// changed .md files once the vault has been quiet for the debounce period.
type VaultWatcher struct {
	dirs     []string
	debounce time.Duration
	handler  ChangeHandler
	watcher  *fsnotify.Watcher
	log      *logger.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer    *time.Timer
	stop     chan struct{}
	stopOnce sync.Once
}

func New(dirs []string, debounce time.Duration, handler ChangeHandler, log *logger.Logger) (*VaultWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	return &VaultWatcher{
		dirs:     dirs,
		debounce: debounce,
		handler:  handler,
		watcher:  w,
		log:      log.Named("watcher"),
		pending:  make(map[string]struct{}),
		stop:     make(chan struct{}),
	}, nil
}

// Start adds every existing folder under the watched roots and begins
// processing events in the background. Missing roots are created lazily by the
// planner, so they are only logged.
func (w *VaultWatcher) Start(ctx context.Context) error {
	for _, dir := range w.dirs {
		if _, err := os.Stat(dir); err != nil {
			w.log.Warn("watch root missing", zap.String("dir", dir))
			continue
		}
		if err := w.addTree(dir); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop is safe to call more than once and from several goroutines.
func (w *VaultWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
}

func (w *VaultWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

func (w *VaultWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			w.Stop()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *VaultWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("failed to watch new folder", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !strings.HasSuffix(event.Name, ".md") {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[event.Name] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
}

func (w *VaultWatcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.log.Debug("vault changed", zap.Strings("paths", paths))
	w.handler(ctx, paths)
}
