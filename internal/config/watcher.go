package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// WatchForChanges watches the config file under path for writes, re-reads it
// into viper on every change, and unmarshals the result into a fresh Config
// passed to onReload so the caller can apply whatever subset of it supports
// live reconfiguration (duskdb only propagates gc.interval and log.level;
// everything else, like server.port or persistence backends, still requires
// a restart). onReload may be nil if the caller has nothing to refresh.
// Grounded on the watch-directory-not-file technique (to survive editors
// that save by rename) used elsewhere in the example pack's config
// watchers. Returns a stop func that closes the underlying watcher.
func WatchForChanges(path string, logger *zap.Logger, onReload func(*Config)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	configFile := viper.ConfigFileUsed()
	dir := path
	if configFile != "" {
		dir = filepath.Dir(configFile)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close() //nolint:errcheck
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				logger.Info("config file changed, re-reading", zap.String("file", event.Name))
				if err := viper.ReadInConfig(); err != nil {
					logger.Warn("failed to re-read config", zap.Error(err))
					continue
				}
				if onReload == nil {
					continue
				}
				var cfg Config
				if err := viper.Unmarshal(&cfg); err != nil {
					logger.Warn("failed to unmarshal reloaded config", zap.Error(err))
					continue
				}
				onReload(&cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", zap.Error(err))
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		close(done)
		watcher.Close() //nolint:errcheck
	}
	return stop, nil
}
