package confd

import (
	"github.com/fsnotify/fsnotify"
)

// bootstrapWatcher watches the controller's own bootstrap configuration
// file (Config.ConfigFile) and hot-reloads its logging settings on write —
// adapted from the teacher's coffer asset watcher, which does the same
// "fsnotify event -> drop/reload cached state" dance for static files.
//
// This is deliberately scoped to the bootstrap file alone. The
// configuration TREE served over the listening socket does not persist
// across restarts (§1 Non-goals) and is never watched here; watching the
// process's own startup file is an orthogonal operational convenience, not
// tree persistence.
type bootstrapWatcher struct {
	c        *Controller
	path     string
	watcher  *fsnotify.Watcher
}

// newBootstrapWatcher returns nil if path is empty: watching is optional.
func newBootstrapWatcher(c *Controller, path string) (*bootstrapWatcher, error) {
	if path == "" {
		return nil, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}

	return &bootstrapWatcher{c: c, path: path, watcher: w}, nil
}

// run reloads the bootstrap file on every write/create event until stopCh
// is closed or the watcher's channels are closed. Watcher errors are logged
// and watching continues.
func (bw *bootstrapWatcher) run(stopCh <-chan struct{}) {
	defer bw.watcher.Close()

	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-bw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := LoadConfigFile(bw.path)
			if err != nil {
				bw.c.Logger.Errorf("bootstrap config reload failed: %v", err)
				continue
			}

			bw.c.reloadConfig(cfg)
			bw.c.Logger.Infof("bootstrap config reloaded from %s", bw.path)

		case err, ok := <-bw.watcher.Errors:
			if !ok {
				return
			}
			bw.c.Logger.Errorf("bootstrap watcher error: %v", err)
		}
	}
}
