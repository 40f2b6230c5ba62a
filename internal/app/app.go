// Package app wires configuration, loading, extraction, export and storage
// into the operations behind the roomgeo commands.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/philipparndt/roomgeo/internal/config"
	"github.com/philipparndt/roomgeo/internal/loader"
	"github.com/philipparndt/roomgeo/internal/store"
	"github.com/philipparndt/roomgeo/pkg/export"
	"github.com/philipparndt/roomgeo/pkg/extract"
)

// App runs extractions with one configuration
type App struct {
	Config *config.Config
	Log    *zap.Logger
}

// New creates an App; a nil logger discards output
func New(cfg *config.Config, log *zap.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &App{Config: cfg, Log: log}
}

// Extraction is the outcome of one run over one manifest
type Extraction struct {
	Model  *loader.Model
	Result *extract.Result
	Rooms  []export.Room
}

// Extract loads the manifest and extracts every room. Only an unreadable
// manifest or a building without rooms fails the whole run.
func (a *App) Extract(ctx context.Context, manifest string) (*Extraction, error) {
	l := &loader.Loader{Log: a.Log.Named("loader")}
	model, err := l.Load(ctx, manifest)
	if err != nil {
		return nil, err
	}

	ex := a.Config.Extraction
	runner := &extract.Runner{
		Categories: ex.ElementCategories,
		Workers:    ex.Workers,
		Options: extract.Options{
			FloorTolerance: ex.FloorTolerance,
			WeldTolerance:  ex.WeldTolerance,
		},
		Log: a.Log.Named("extract"),
	}
	res, err := runner.Run(ctx, model.Building)
	if err != nil {
		if errors.Is(err, extract.ErrNoRooms) {
			a.Log.Error("nothing to extract", zap.String("manifest", manifest), zap.Error(err))
		}
		return nil, err
	}

	return &Extraction{
		Model:  model,
		Result: res,
		Rooms:  export.NewRooms(res.Records, a.Config.Precision()),
	}, nil
}

// OpenStore opens the configured room database
func (a *App) OpenStore() (*store.Store, error) {
	return store.Open(a.Config.Store.Path, a.Log.Named("store"))
}

// Save replaces the stored rooms with the extraction's rooms
func (a *App) Save(x *Extraction) error {
	s, err := a.OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sum := x.Result.Summary
	run := store.Run{
		ID:           x.Result.RunID,
		Building:     x.Model.Building.Name,
		Approximated: sum.Approximated,
		TotalVolume:  sum.TotalVolume,
	}
	if err := s.ReplaceAll(run, x.Rooms); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}
