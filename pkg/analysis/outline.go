package analysis

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/philipparndt/roomgeo/pkg/geometry"
)

// DefaultFloorTolerance is the vertical distance from the lowest vertex
// within which a vertex counts as part of the floor.
const DefaultFloorTolerance = 0.1

// Outline is a room's simplified 2D footprint
type Outline struct {
	// Points is the convex hull of the floor slice in counter-clockwise
	// hull order; empty when the floor could not be determined.
	Points []geometry.Point2
	// Area is the hull's enclosed area
	Area Estimate
}

// Ring returns the outline as a closed orb ring (first point repeated)
func (o Outline) Ring() orb.Ring {
	if len(o.Points) == 0 {
		return nil
	}
	ring := make(orb.Ring, 0, len(o.Points)+1)
	for _, p := range o.Points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	return append(ring, ring[0])
}

// OutlineExtractor slices the mesh at its lowest level and takes the
// convex hull of that slice. Concave rooms (L-shapes and the like) are
// therefore over-estimated.
type OutlineExtractor struct {
	// Tolerance is fixed per run, not adapted to the mesh.
	Tolerance float64
}

// NewOutlineExtractor returns an extractor using DefaultFloorTolerance
// when tolerance is not positive.
func NewOutlineExtractor(tolerance float64) OutlineExtractor {
	if tolerance <= 0 {
		tolerance = DefaultFloorTolerance
	}
	return OutlineExtractor{Tolerance: tolerance}
}

// FloorPoints returns the XY projection of every vertex whose height is
// strictly within Tolerance of the lowest vertex. Non-finite vertices are
// ignored.
func (x OutlineExtractor) FloorPoints(vertices []geometry.Vector3) []geometry.Point2 {
	if len(vertices) == 0 {
		return nil
	}
	floorZ := math.Inf(1)
	for _, v := range vertices {
		if v.IsFinite() {
			floorZ = math.Min(floorZ, v.Z)
		}
	}

	var points []geometry.Point2
	for _, v := range vertices {
		if v.IsFinite() && math.Abs(v.Z-floorZ) < x.Tolerance {
			points = append(points, v.XY())
		}
	}
	return points
}

// Extract computes the outline and floor area. A floor slice with fewer
// than three points, or one whose points are all collinear, yields an empty
// outline and an absent zero area, as does any non-finite vertex.
func (x OutlineExtractor) Extract(vertices []geometry.Vector3) (out Outline) {
	defer func() {
		if r := recover(); r != nil {
			out = Outline{Area: absent(fmt.Errorf("%w: floor outline: %v", ErrGeometryConstruction, r))}
		}
	}()

	for i, v := range vertices {
		if !v.IsFinite() {
			return Outline{Area: absent(fmt.Errorf("%w: vertex %d is not finite", ErrGeometryConstruction, i))}
		}
	}

	floor := x.FloorPoints(vertices)
	if len(floor) < 3 {
		return Outline{Area: absent(fmt.Errorf("%w: %d floor points", ErrDegenerateInput, len(floor)))}
	}

	hull := geometry.ConvexHull2D(floor)
	if hull == nil {
		return Outline{Area: absent(fmt.Errorf("%w: floor points are collinear", ErrDegenerateInput))}
	}

	out = Outline{Points: hull}
	out.Area = exact(math.Abs(planar.Area(out.Ring())))
	return out
}
