package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/philipparndt/roomgeo/pkg/watcher"
)

// Watch extracts the manifest, then again whenever the manifest or one of
// its mesh files changes, until ctx is done. Each successful run is passed
// to onRun. A failed run is logged and the previous result stays in place.
func (a *App) Watch(ctx context.Context, manifest string, onRun func(*Extraction) error) error {
	fw, err := watcher.NewFileWatcher(a.Config.Watch.Debounce, a.Log.Named("watch"))
	if err != nil {
		return err
	}
	defer fw.Close()

	// The manifest is always watched, even when it fails to load
	sources := []string{manifest}

	run := func() {
		x, err := a.Extract(ctx, manifest)
		if err != nil {
			a.Log.Error("extraction failed, waiting for changes", zap.Error(err))
			return
		}
		sources = x.Model.Sources
		if err := onRun(x); err != nil {
			a.Log.Error("handling extraction failed", zap.String("run", x.Result.RunID), zap.Error(err))
		}
	}

	run()
	if err := fw.Watch(sources); err != nil {
		return err
	}
	a.Log.Info("watching for changes", zap.Int("files", len(sources)))

	err = fw.Run(ctx, func(changed []string) {
		a.Log.Info("change detected", zap.Strings("files", changed))
		run()
		if err := fw.Watch(sources); err != nil {
			a.Log.Warn("updating watched files failed", zap.Error(err))
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
