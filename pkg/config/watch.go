package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the global configuration whenever the config file changes
// and invokes onReload with the fresh config. It blocks until stop is
// closed or the watcher fails.
//
// The parent directory is watched rather than the file itself so that
// atomic replaces (write to temp file, rename over) are picked up.
func Watch(stop <-chan struct{}, onReload func(*Config)) error {
	cfg := Get()
	path := cfg.ConfigFilePath()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			fresh, err := Load()
			if err != nil {
				log.Printf("Config reload failed, keeping previous config: %v", err)
				continue
			}
			if err := fresh.Validate(); err != nil {
				log.Printf("Reloaded config is invalid, keeping previous config: %v", err)
				continue
			}
			setGlobal(fresh)

			log.Printf("Reloaded config from %s", path)
			if onReload != nil {
				onReload(fresh)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Config watcher error: %v", err)

		case <-stop:
			return nil
		}
	}
}
