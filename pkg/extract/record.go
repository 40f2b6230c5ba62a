// Package extract turns the rooms of a building snapshot into RoomRecords.
//
// Each room goes through the same stages: bounding dimensions, floor outline,
// triangulation and volume, then attribution of contained elements from a
// containment index built once per building. A failing stage only resets its
// own field to the default and leaves a Diagnostic; the record is still built.
package extract

import (
	"fmt"
	"strings"

	"github.com/philipparndt/roomgeo/pkg/analysis"
	"github.com/philipparndt/roomgeo/pkg/building"
	"github.com/philipparndt/roomgeo/pkg/geometry"
	"github.com/philipparndt/roomgeo/pkg/mesh"
)

// Record fields named in diagnostics
const (
	FieldDimensions = "dimensions"
	FieldArea       = "area"
	FieldOutline    = "outline"
	FieldVolume     = "volume"
	FieldElements   = "elements"
	FieldMesh       = "mesh"
)

// Dimensions are the scalar descriptors of a room; all are non-negative
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
	Area   float64
	Volume float64
}

// ElementSummary is an element attributed to a room
type ElementSummary struct {
	ID       string
	Category building.Category
	Name     string
}

// Diagnostic records a field that is approximate or missing
type Diagnostic struct {
	Field   string
	Quality analysis.Quality
	Err     error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %v", d.Field, d.Quality, d.Err)
}

// RoomRecord is the derived description of one room for one extraction
// run. Records are never modified after Build returns; a new run produces
// new records.
type RoomRecord struct {
	ID           string
	Name         string
	Storey       string
	StoreyNumber int

	Dimensions    Dimensions
	AreaQuality   analysis.Quality
	VolumeQuality analysis.Quality

	// DeclaredArea is the floor area from the room's quantities, if any
	DeclaredArea *float64

	// Outline is the convex floor footprint, counter-clockwise; may be empty
	Outline  []geometry.Point2
	Elements []ElementSummary

	// Mesh is the triangulated room geometry for rendering and export
	Mesh *mesh.TriangleMesh
	// FaceWarnings counts faces or triangles skipped while triangulating
	FaceWarnings int

	Diagnostics []Diagnostic
}

// Approximated reports whether any field fell back or is missing
func (r *RoomRecord) Approximated() bool {
	return len(r.Diagnostics) > 0
}

// DiagnosticFields lists the affected fields, e.g. "volume,outline"
func (r *RoomRecord) DiagnosticFields() string {
	fields := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		fields = append(fields, d.Field)
	}
	return strings.Join(fields, ",")
}
