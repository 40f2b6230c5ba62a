package extract

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/philipparndt/roomgeo/pkg/analysis"
	"github.com/philipparndt/roomgeo/pkg/building"
	"github.com/philipparndt/roomgeo/pkg/containment"
)

// ErrNoRooms is returned when the building snapshot contains no rooms.
// It is fatal to the whole run, unlike per-room geometry failures.
var ErrNoRooms = errors.New("building contains no rooms")

// Runner extracts all rooms of a building. The containment index is built
// once before any room is processed; rooms are then processed by a fixed
// pool of workers, each room independently.
type Runner struct {
	// Categories selects the indexed element types; building.DefaultElementCategories when nil
	Categories []building.Category
	// Workers is the pool size; runtime.NumCPU() when zero or negative
	Workers int
	Options Options
	Log     *zap.Logger
}

// Summary aggregates one run
type Summary struct {
	Rooms        int
	Approximated int
	Indexed      int
	TotalArea    float64
	TotalVolume  float64
	Elapsed      time.Duration
}

// Result is the output of one run, records in storey and room order
type Result struct {
	RunID   string
	Records []*RoomRecord
	Summary Summary
}

type job struct {
	slot int
	ref  building.RoomRef
}

// Run processes every room of b. Per-room failures never abort the run;
// only an empty building (ErrNoRooms) or a cancelled context do.
func (r *Runner) Run(ctx context.Context, b *building.Building) (*Result, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	refs := b.Rooms()
	if len(refs) == 0 {
		return nil, ErrNoRooms
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	log = log.With(zap.String("run", runID))

	categories := r.Categories
	if categories == nil {
		categories = building.DefaultElementCategories
	}

	// Barrier: the index is complete before the first worker starts
	index := containment.Build(b.Elements, categories, log)
	builder := NewBuilder(index, r.Options, log)

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(refs) {
		workers = len(refs)
	}
	log.Info("extracting rooms",
		zap.String("building", b.Name),
		zap.Int("rooms", len(refs)),
		zap.Int("indexed", index.Len()),
		zap.Int("workers", workers))

	records := make([]*RoomRecord, len(refs))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				records[j.slot] = builder.Build(j.ref.Storey, j.ref.Room)
			}
		}()
	}

	var cancelled error
	for i, ref := range refs {
		select {
		case jobs <- job{slot: i, ref: ref}:
		case <-ctx.Done():
			cancelled = ctx.Err()
		}
		if cancelled != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		log.Warn("extraction cancelled", zap.Error(cancelled))
		return nil, cancelled
	}

	summary := Summarize(records)
	summary.Indexed = index.Len()
	summary.Elapsed = time.Since(start)
	log.Info("extraction finished",
		zap.Int("rooms", summary.Rooms),
		zap.Int("approximated", summary.Approximated),
		zap.Float64("total_volume", summary.TotalVolume),
		zap.Duration("elapsed", summary.Elapsed))

	return &Result{RunID: runID, Records: records, Summary: summary}, nil
}

// Summarize totals a set of records
func Summarize(records []*RoomRecord) Summary {
	var s Summary
	for _, rec := range records {
		if rec == nil {
			continue
		}
		s.Rooms++
		if rec.Approximated() {
			s.Approximated++
		}
		if rec.AreaQuality != analysis.Absent {
			s.TotalArea += rec.Dimensions.Area
		}
		s.TotalVolume += rec.Dimensions.Volume
	}
	return s
}
