// Package watch compresses images as they appear in watched directories.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ironsheep/image-compress-mcp/internal/config"
	"github.com/ironsheep/image-compress-mcp/internal/imaging"
	"github.com/ironsheep/image-compress-mcp/internal/textutil"
	"github.com/ironsheep/image-compress-mcp/internal/timing"
)

// ErrSelfOverwrite is returned when output would replace the watched
// sources: no output dir and no suffix.
var ErrSelfOverwrite = errors.New("watch needs an output dir or a file suffix")

// Result reports one compressed file.
type Result struct {
	Source string
	Output string
	Report *imaging.Report
	Err    error
}

// Watcher monitors directories and compresses new or modified images
type Watcher struct {
	cfg     *config.Config
	cache   *imaging.ImageCache
	watcher *fsnotify.Watcher
	results chan Result

	// now is swapped out in tests.
	now func() time.Time

	mu        sync.Mutex
	debounce  map[string]*timing.Debouncer
	closed    bool
	inflight  sync.WaitGroup
	outputAbs string
}

// New creates a watcher. cache may be nil.
func New(cfg *config.Config, cache *imaging.ImageCache) (*Watcher, error) {
	if cfg.Output.Dir == "" && cfg.Output.Suffix == "" {
		return nil, ErrSelfOverwrite
	}
	if cache == nil {
		cache = imaging.NewImageCache()
	}

	var outputAbs string
	if cfg.Output.Dir != "" {
		abs, err := filepath.Abs(cfg.Output.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve output dir: %w", err)
		}
		outputAbs = abs
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		cfg:       cfg,
		cache:     cache,
		watcher:   fsWatcher,
		results:   make(chan Result, 100),
		now:       time.Now,
		debounce:  make(map[string]*timing.Debouncer),
		outputAbs: outputAbs,
	}, nil
}

// Add starts watching dir. Sub-directories are not watched.
func (w *Watcher) Add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}
	log.Printf("Watching folder: %s", dir)
	return nil
}

// Results returns the channel of compressed files. It is closed when Run
// returns. Results are dropped when nobody reads them.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// Run processes events until ctx is done, then waits for in-flight
// compressions and closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.wants(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.forget(event.Name)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.schedule(event.Name)
	}
}

// wants filters out hidden files, unwatched extensions and our own output.
func (w *Watcher) wants(path string) bool {
	base := filepath.Base(path)
	if base == "" || base[0] == '.' {
		return false
	}
	if !w.cfg.WatchesExt(filepath.Ext(base)) {
		return false
	}

	if w.outputAbs != "" {
		if abs, err := filepath.Abs(path); err == nil && strings.HasPrefix(abs, w.outputAbs+string(filepath.Separator)) {
			return false
		}
	}
	if suffix := w.cfg.Output.Suffix; suffix != "" {
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if strings.HasSuffix(stem, suffix) {
			return false
		}
	}
	return true
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	d, ok := w.debounce[path]
	if !ok {
		d = timing.NewDebouncer(w.cfg.Watch.Debounce, false)
		w.debounce[path] = d
	}
	d.Call(func() { w.process(path) })
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	if d, ok := w.debounce[path]; ok {
		d.Stop()
		delete(w.debounce, path)
	}
	w.mu.Unlock()
	w.cache.Evict(path)
}

func (w *Watcher) process(path string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.debounce, path)
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	res := w.compress(path)
	if res.Err != nil {
		log.Printf("Failed to compress %s: %v", path, res.Err)
	} else {
		log.Printf("Compressed %s -> %s (%d -> %d bytes, %d%% saved)",
			path, res.Output, res.Report.OriginalBytes, res.Report.CompressedBytes, res.Report.SavedPercent)
	}

	select {
	case w.results <- res:
	default:
		log.Printf("Result channel full, dropping result for %s", path)
	}
}

func (w *Watcher) compress(path string) Result {
	res := Result{Source: path}

	// The file changed on disk, so a cached decode is stale.
	w.cache.Evict(path)
	defer w.cache.Evict(path)

	report, err := imaging.CompressFile(w.cache, path, w.cfg.Compression)
	if err != nil {
		res.Err = err
		return res
	}

	dst := imaging.OutputPath(path, w.outputDir(), w.cfg.Output.Suffix)
	if err := report.WriteFile(dst); err != nil {
		res.Err = err
		return res
	}

	res.Output = dst
	res.Report = report
	return res
}

func (w *Watcher) outputDir() string {
	dir := w.cfg.Output.Dir
	if layout := w.cfg.Output.DatedDirs; layout != "" && dir != "" {
		dir = filepath.Join(dir, textutil.FormatTime(w.now(), layout))
	}
	return dir
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	w.closed = true
	for path, d := range w.debounce {
		d.Stop()
		delete(w.debounce, path)
	}
	w.mu.Unlock()

	w.inflight.Wait()
	close(w.results)
	if err := w.watcher.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		log.Printf("Failed to close watcher: %v", err)
	}
}
