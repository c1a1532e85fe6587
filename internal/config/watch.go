package config

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/paramedit/paramedit/internal/event"
	"github.com/paramedit/paramedit/internal/logging"
)

// Watch reloads configuration when a config file in directory changes and
// publishes a config.reloaded event with the fresh config attached via the
// onReload callback. It blocks until ctx is cancelled.
func Watch(ctx context.Context, directory string, onReload func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs := []string{GetPaths().Config}
	if directory != "" {
		dirs = append(dirs, directory)
	}
	for _, dir := range dirs {
		// Missing directories are fine; they may appear later but are not
		// worth polling for.
		if err := watcher.Add(dir); err != nil {
			logging.Debug().Err(err).Str("dir", dir).Msg("not watching config dir")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logging.Info().Str("path", ev.Name).Msg("config file changed, reloading")
			if onReload != nil {
				onReload(ev.Name)
			}
			event.Publish(event.Event{Type: event.ConfigReloaded, Data: &event.ConfigReloadedData{Path: ev.Name}})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().Err(err).Msg("config watcher error")
		}
	}
}

// isConfigFile reports whether path names a paramedit config file.
func isConfigFile(path string) bool {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "paramedit.") {
		return false
	}
	switch filepath.Ext(base) {
	case ".json", ".jsonc", ".yaml", ".yml":
		return true
	}
	return false
}
