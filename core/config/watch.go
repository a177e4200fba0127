package config

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/growthsystem/erpchat/core/infrastructure/logging"
)

// Watch watches the config file and invokes onChange with the freshly parsed
// configuration whenever it is rewritten. Changes are debounced because
// editors commonly emit several write events per save. A config that fails
// to parse is logged and skipped; the previous configuration stays active.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	log := logging.New("config:watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		reload := make(chan struct{}, 1)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(500*time.Millisecond, func() {
						select {
						case reload <- struct{}{}:
						default:
						}
					})
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-reload:
				cfg, err := Load(path)
				if err != nil {
					log.Errorf("Ignoring config reload: %v", err)
					continue
				}
				log.Infof("Config reloaded from %s", path)
				onChange(cfg)
			}
		}
	}()

	log.Infof("Watching %s for changes", path)
	return nil
}
