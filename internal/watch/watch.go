// Package watch recompiles Weft sources when they change on disk.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/weft-lang/weft/internal/compiler"
)

// DefaultDebounce is how long a Watcher waits after the last change to a
// file before recompiling it. Editors often write a file in several steps.
const DefaultDebounce = 100 * time.Millisecond

// Watcher compiles a fixed set of files, then recompiles each one whenever
// it is written or recreated.
type Watcher struct {
	// Debounce delays recompilation after a change.
	Debounce time.Duration

	// Logger receives I/O errors. If nil, they are dropped.
	Logger *log.Logger

	opts    compiler.Options
	report  func(*compiler.Result)
	fw      *fsnotify.Watcher
	order   []string          // absolute paths in the order given
	tracked map[string]string // absolute path -> path as given
}

// New returns a Watcher for paths. Every compilation result is passed to
// report, which is called from the goroutine running Run.
//
// Directories containing the files are watched rather than the files
// themselves, so files replaced by rename are still seen.
func New(paths []string, opts compiler.Options, report func(*compiler.Result)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		Debounce: DefaultDebounce,
		opts:     opts,
		report:   report,
		fw:       fw,
		tracked:  make(map[string]string),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		if _, dup := w.tracked[abs]; dup {
			continue
		}
		w.tracked[abs] = p
		w.order = append(w.order, abs)

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run compiles every file once and then recompiles changed files until ctx
// is done. It closes the Watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	for _, abs := range w.order {
		w.compile(abs)
	}

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs := filepath.Clean(ev.Name)
			if _, ok := w.tracked[abs]; !ok {
				continue
			}
			pending[abs] = true
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for abs := range pending {
				changed = append(changed, abs)
			}
			sort.Strings(changed)
			clear(pending)
			for _, abs := range changed {
				w.compile(abs)
			}
		}
	}
}

func (w *Watcher) compile(abs string) {
	r, err := compiler.CompileFile(w.tracked[abs], w.opts)
	if err != nil {
		if w.Logger != nil {
			w.Logger.Print(err)
		}
		if r == nil {
			return
		}
	}
	w.report(r)
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
