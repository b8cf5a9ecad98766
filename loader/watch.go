package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/nathoo/cheesegates/engine/state"
)

// DebounceWindow is how long Watch waits for more changes before reloading.
const DebounceWindow = 100 * time.Millisecond

// Reload is the outcome of one reload triggered by Watch.
type Reload struct {
	Defs     *state.Defs
	Warnings []string
	Err      error
	Changed  []string // level files that changed since the last reload
}

// Watch loads dir once and again after every burst of changes to its level
// files. Results are delivered on the returned channel, which is closed
// when ctx is cancelled or the watcher fails.
func Watch(ctx context.Context, dir string, opts Options) (<-chan Reload, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	out := make(chan Reload, 1)
	go func() {
		defer close(out)
		defer w.Close()

		send := func(changed []string) bool {
			defs, warnings, err := Load(dir, opts)
			select {
			case out <- Reload{Defs: defs, Warnings: warnings, Err: err, Changed: changed}:
				return true
			case <-ctx.Done():
				return false
			}
		}
		if !send(nil) {
			return
		}

		var timer *time.Timer
		var timerC <-chan time.Time
		pending := map[string]bool{}
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				name := filepath.Base(ev.Name)
				if !isLevelFile(name) || ev.Op == fsnotify.Chmod {
					continue
				}
				pending[name] = true
				if timer == nil {
					timer = time.NewTimer(DebounceWindow)
					timerC = timer.C
				} else {
					timer.Reset(DebounceWindow)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Str("dir", dir).Msg("level watcher error")
			case <-timerC:
				timer, timerC = nil, nil
				changed := make([]string, 0, len(pending))
				for name := range pending {
					changed = append(changed, name)
				}
				sort.Strings(changed)
				pending = map[string]bool{}
				log.Debug().Strs("files", changed).Msg("reloading levels")
				if !send(changed) {
					return
				}
			}
		}
	}()
	return out, nil
}
