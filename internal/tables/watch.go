package tables

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/pipecalc/pipecalc/internal/logger"
)

// Watch rebuilds the table set whenever a YAML override in dir changes
// and hands each new snapshot to onChange. A reload that fails, for
// example a half-written file, is logged and skipped so the previous
// snapshot stays live. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, dir string, onChange func(*Set)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if filepath.Ext(ev.Name) != ".yaml" {
				continue
			}
			s, err := Load(dir)
			if err != nil {
				logger.Logger.Errorf("reload tables from %s: %v", dir, err)
				continue
			}
			logger.Logger.Infof("tables reloaded after change to %s", filepath.Base(ev.Name))
			onChange(s)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
