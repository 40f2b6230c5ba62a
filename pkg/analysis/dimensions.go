package analysis

import (
	"fmt"

	"github.com/philipparndt/roomgeo/pkg/geometry"
)

// Dimensions are the axis-aligned extents of a vertex set:
// length along X, width along Y, height along Z.
// This is not a minimum bounding box of the true footprint.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
	Box    geometry.BoundingBox
}

// AnalyzeDimensions measures the axis-aligned box of the vertices.
// An empty set is the only failure and returns zero dimensions with
// ErrDegenerateInput.
func AnalyzeDimensions(vertices []geometry.Vector3) (Dimensions, error) {
	box, ok := geometry.Bounds(vertices)
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: empty vertex set", ErrDegenerateInput)
	}
	return Dimensions{
		Length: box.Length(),
		Width:  box.Width(),
		Height: box.Height(),
		Box:    box,
	}, nil
}
