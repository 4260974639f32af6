package internal

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	pkgconfig "github.com/starford/bloggerbox/pkg/config"
)

const reloadDebounce = 200 * time.Millisecond

// watchConfig reloads the config file whenever it changes and applies the new
// log level to level. Other settings need a restart; a change to them is logged.
// It returns when ctx is cancelled.
//
// The parent directory is watched rather than the file so that editors which
// save by rename are picked up.
func watchConfig(ctx context.Context, path string, level *slog.LevelVar, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("config watcher: started", slog.String("path", abs))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("config watcher: stopped")
			return nil

		case <-reloadCh:
			reloadConfig(abs, level, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Editors often emit several writes per save.
			if reloadTimer == nil {
				reloadTimer = time.NewTimer(reloadDebounce)
				reloadCh = reloadTimer.C
			} else {
				reloadTimer.Reset(reloadDebounce)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func reloadConfig(path string, level *slog.LevelVar, logger *slog.Logger) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		logger.Warn("config watcher: reload failed, keeping current settings",
			slog.String("error", err.Error()))
		return
	}
	if old := level.Level(); old != cfg.App.LogLevel {
		level.Set(cfg.App.LogLevel)
		logger.Info("config watcher: log level changed",
			slog.String("from", old.String()),
			slog.String("to", cfg.App.LogLevel.String()))
		return
	}
	logger.Info("config watcher: config changed; restart to apply settings other than log_level")
}
