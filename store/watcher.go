package store

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"nexustab/events"
)

// Watcher observes the store file for edits made by other processes
// (settings saved from a second instance) and emits a config-changed
// event so in-memory configuration can be refreshed.
type Watcher struct {
	store   *Store
	bus     *events.EventBus
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a watcher for the store's backing file
func NewWatcher(store *Store, bus *events.EventBus) *Watcher {
	return &Watcher{
		store: store,
		bus:   bus,
		done:  make(chan struct{}),
	}
}

// Start begins watching the store directory. Watching the directory
// rather than the file survives atomic replace-on-save editors.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(filepath.Dir(w.store.Path())); err != nil {
		watcher.Close()
		return err
	}

	go w.loop()
	return nil
}

// Stop shuts down the watcher
func (w *Watcher) Stop() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) loop() {
	storeFile := filepath.Base(w.store.Path())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != storeFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Debug().Str("file", event.Name).Msg("store file changed externally")
				w.bus.EmitConfigChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("store watcher error")
		case <-w.done:
			return
		}
	}
}
