package reconcile

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
)

// debounce coalesces bursts of filesystem events into one pass. Editors
// typically produce several events per save.
const debounce = 500 * time.Millisecond

// Watch runs reconcile passes behind filesystem notifications on the
// detected agents' config files until ctx is canceled. The directories
// holding the files are watched, not the files themselves, so atomic
// rename-style saves are seen too. Pass failures are logged and watching
// continues.
func (r *Reconciler) Watch(ctx context.Context) error {
	log := logging.FromContext(ctx)

	agents, err := r.agents.DetectedAgents(ctx)
	if err != nil {
		return errors.Wrap(err, "listing agents")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating filesystem watcher")
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, ag := range agents {
		if ag.ConfigPath == "" {
			continue
		}
		dir := filepath.Dir(ag.ConfigPath)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			log.Warn("cannot watch agent config directory",
				"agent", ag.ID, "dir", dir, "error", err)
			continue
		}
		watched[dir] = true
		log.Debug("watching", "agent", ag.ID, "dir", dir)
	}
	if len(watched) == 0 {
		return errors.New("no agent config directories to watch")
	}

	// Initial pass so the records are consistent before we start waiting.
	if _, err := r.Run(ctx); err != nil {
		log.Error("initial reconcile pass failed", "error", err)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			log.Debug("config change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			if _, err := r.Run(ctx); err != nil {
				log.Error("reconcile pass failed", "error", err)
			}
		}
	}
}
