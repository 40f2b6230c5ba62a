package extract

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/philipparndt/roomgeo/pkg/analysis"
	"github.com/philipparndt/roomgeo/pkg/building"
	"github.com/philipparndt/roomgeo/pkg/containment"
	"github.com/philipparndt/roomgeo/pkg/geometry"
	"github.com/philipparndt/roomgeo/pkg/mesh"
)

// Options tune the geometry stages
type Options struct {
	// FloorTolerance is the height band above the lowest vertex used for
	// the floor outline; analysis.DefaultFloorTolerance when zero.
	FloorTolerance float64
	// WeldTolerance merges vertices before the watertight check;
	// analysis.DefaultWeldTolerance when zero.
	WeldTolerance float64
}

// Builder assembles RoomRecords against one containment index.
// It holds no mutable state and may be shared by concurrent workers.
type Builder struct {
	outline analysis.OutlineExtractor
	volume  analysis.VolumeEstimator
	index   *containment.Index
	log     *zap.Logger
}

// NewBuilder creates a builder. The index must be fully built; a nil index
// attributes no elements.
func NewBuilder(index *containment.Index, opts Options, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	volume := analysis.NewVolumeEstimator()
	if opts.WeldTolerance > 0 {
		volume.WeldTolerance = opts.WeldTolerance
	}
	return &Builder{
		outline: analysis.NewOutlineExtractor(opts.FloorTolerance),
		volume:  volume,
		index:   index,
		log:     log,
	}
}

// Build derives the record of one room. It never fails: every stage that
// cannot produce a value leaves its default and a Diagnostic.
func (b *Builder) Build(storey *building.Storey, room *building.Entity) *RoomRecord {
	rec := &RoomRecord{
		ID:            room.ID,
		Name:          room.Name,
		AreaQuality:   analysis.Absent,
		VolumeQuality: analysis.Absent,
	}
	if storey != nil {
		rec.Storey = storey.Name
		rec.StoreyNumber = storey.Number
	}
	if v, ok := room.DeclaredArea(); ok {
		rec.DeclaredArea = &v
	}

	log := b.log.With(zap.String("room", room.ID), zap.String("name", room.Name))
	note := func(field string, q analysis.Quality, err error) {
		rec.Diagnostics = append(rec.Diagnostics, Diagnostic{Field: field, Quality: q, Err: err})
	}

	var vertices []geometry.Vector3
	if room.Mesh != nil {
		vertices = room.Mesh.Vertices
	}

	// Dimensions and the box used for containment
	var box geometry.BoundingBox
	boxOK := false
	if err := stage(FieldDimensions, func() error {
		dims, err := analysis.AnalyzeDimensions(vertices)
		if err != nil {
			return err
		}
		if !finite(dims.Length, dims.Width, dims.Height) {
			return fmt.Errorf("%w: non-finite extents", analysis.ErrGeometryConstruction)
		}
		rec.Dimensions.Length = dims.Length
		rec.Dimensions.Width = dims.Width
		rec.Dimensions.Height = dims.Height
		box, boxOK = dims.Box, true
		return nil
	}); err != nil {
		note(FieldDimensions, analysis.Absent, err)
	}

	// Floor outline and area
	if err := stage(FieldOutline, func() error {
		out := b.outline.Extract(vertices)
		if out.Area.Err != nil {
			return out.Area.Err
		}
		if !finite(out.Area.Value) {
			return fmt.Errorf("%w: floor area %v", analysis.ErrGeometryConstruction, out.Area.Value)
		}
		rec.Outline = out.Points
		rec.AreaQuality = out.Area.Quality
		rec.Dimensions.Area = out.Area.Value
		return nil
	}); err != nil {
		rec.Dimensions.Area = 0
		rec.Outline = nil
		rec.AreaQuality = analysis.Absent
		note(FieldArea, analysis.Absent, err)
	}

	// Triangulation and volume
	var tm *mesh.TriangleMesh
	if err := stage(FieldMesh, func() error {
		m, warnings := mesh.Triangulate(room.Mesh)
		for _, w := range warnings {
			log.Debug("skipped face", zap.Int("face", w.Face), zap.Stringer("kind", w.Kind), zap.String("detail", w.Detail))
		}
		tm = m
		rec.Mesh = m
		rec.FaceWarnings = len(warnings)
		return nil
	}); err != nil {
		note(FieldMesh, analysis.Absent, err)
	}

	est := b.estimateVolume(tm)
	rec.VolumeQuality = est.Quality
	if finite(est.Value) && est.Value >= 0 {
		rec.Dimensions.Volume = est.Value
	}
	if est.Quality != analysis.Exact {
		note(FieldVolume, est.Quality, est.Err)
	}

	// Contained elements
	if boxOK {
		if err := stage(FieldElements, func() error {
			for _, e := range b.index.Contained(box) {
				rec.Elements = append(rec.Elements, ElementSummary{ID: e.ID, Category: e.Category, Name: e.Name})
			}
			return nil
		}); err != nil {
			rec.Elements = nil
			note(FieldElements, analysis.Absent, err)
		}
	}

	if rec.Approximated() {
		for _, d := range rec.Diagnostics {
			log.Warn("room field degraded",
				zap.String("field", d.Field),
				zap.Stringer("quality", d.Quality),
				zap.NamedError("reason", d.Err))
		}
	}
	return rec
}

func (b *Builder) estimateVolume(tm *mesh.TriangleMesh) (est analysis.Estimate) {
	if tm == nil {
		return analysis.Estimate{Quality: analysis.Absent, Err: fmt.Errorf("%w: no triangle mesh", analysis.ErrGeometryConstruction)}
	}
	if err := stage(FieldVolume, func() error {
		est = b.volume.Estimate(tm)
		return nil
	}); err != nil {
		est = analysis.Estimate{Quality: analysis.Absent, Err: err}
	}
	return est
}

// stage runs fn and converts a panic into ErrGeometryConstruction
func stage(field string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", analysis.ErrGeometryConstruction, field, r)
		}
	}()
	return fn()
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
