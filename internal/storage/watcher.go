package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called when a snapshot file was changed by something
// other than this process. name is ContactsFile or NotesFile.
type ChangeCallback func(name string)

const watchDebounce = 200 * time.Millisecond

// Watch observes the data directory until ctx is cancelled and calls cb for
// every snapshot file whose content no longer matches what FS last read or
// wrote. Bursts of events for one file are coalesced.
func (f *FS) Watch(ctx context.Context, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the files: atomic saves replace the inode.
	if err := w.Add(f.root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", f.root))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(name string) {
		pending[name] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(watchDebounce)
			timerCh = timer.C
		} else {
			timer.Reset(watchDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for name := range pending {
				delete(pending, name)
				changed, err := f.Changed(name)
				if err != nil {
					logger.Warn("watcher: check failed", slog.String("file", name), slog.String("error", err.Error()))
					continue
				}
				if !changed {
					continue
				}
				logger.Debug("watcher: external change", slog.String("file", name))
				if cb != nil {
					cb(name)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if name != ContactsFile && name != NotesFile {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule(name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
