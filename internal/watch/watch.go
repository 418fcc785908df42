// Package watch triggers rebuilds when the RDF input file changes on
// disk. Editors and Zotero exports write files in bursts, so events are
// debounced before the callback fires.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is how long the watcher waits after the last event
// before invoking the callback.
const DefaultDebounce = time.Second

// Watcher observes one input file and invokes a callback after changes
// settle.
type Watcher struct {
	inputFile string
	debounce  time.Duration
	onChange  func()
}

// New returns a watcher for inputFile. onChange runs on the watcher's
// goroutine after each debounced change burst.
func New(inputFile string, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(inputFile)
	if err != nil {
		return nil, fmt.Errorf("resolve input path: %w", err)
	}
	return &Watcher{
		inputFile: abs,
		debounce:  DefaultDebounce,
		onChange:  onChange,
	}, nil
}

// SetDebounce overrides the debounce interval. Useful in tests.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches until ctx is cancelled. The parent directory is watched
// rather than the file itself: editors that replace files via rename
// would otherwise silently detach the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	watchDir := filepath.Dir(w.inputFile)
	if err := fsw.Add(watchDir); err != nil {
		return fmt.Errorf("watch %s: %w", watchDir, err)
	}
	log.Info().Str("file", w.inputFile).Str("dir", watchDir).Msg("watching for changes")

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug().Str("op", event.Op.String()).Str("path", event.Name).Msg("input changed")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			log.Info().Str("file", w.inputFile).Msg("rebuilding after change")
			w.onChange()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watch error")
		}
	}
}

// relevant reports whether the event concerns the watched file and is a
// content-affecting operation.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == w.inputFile
}
