package locate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/pkg/log"
)

// WaitForSeries blocks until the series instance directory exists under
// the base directory, or the context is cancelled. Used when the
// producing simulation has been launched but has not written output yet.
func (l *Locator) WaitForSeries(ctx context.Context, q domain.Quantity) error {
	instDir := filepath.Join(l.base, q.InstanceDir())
	if dirExists(instDir) {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.base); err != nil {
		return fmt.Errorf("watch %s: %w", l.base, err)
	}

	// The directory may have appeared between the first check and the
	// watch registration.
	if dirExists(instDir) {
		return nil
	}

	l.logger.Info("waiting for simulation output",
		log.String("dir", instDir),
	)

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrCancelled, ctx.Err())
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed while waiting for %s", instDir)
			}
			if event.Op.Has(fsnotify.Create) && event.Name == instDir && dirExists(instDir) {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed while waiting for %s", instDir)
			}
			l.logger.Warn("watch error", log.Err(err))
		}
	}
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
