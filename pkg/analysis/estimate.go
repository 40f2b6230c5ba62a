// Package analysis derives scalar and polygonal descriptors from room meshes:
// bounding dimensions, the floor outline and its area, and enclosed volume.
//
// Every stage degrades instead of failing. Results carry a Quality so callers
// can tell a value computed by the primary algorithm from a fallback
// approximation or a value that could not be determined at all.
package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateInput marks input too small to measure: a face with
	// fewer than three indices, an empty vertex set, a floor slice with
	// fewer than three points.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrNonManifold marks a mesh that is not watertight or not
	// consistently wound; volume falls back to a bounding volume.
	ErrNonManifold = errors.New("non-manifold mesh")

	// ErrGeometryConstruction marks an unexpected failure while building or
	// querying geometry, such as invalid indices or non-finite coordinates.
	ErrGeometryConstruction = errors.New("geometry construction failed")
)

// Quality tells how an Estimate was obtained
type Quality int

const (
	// Exact is the primary algorithm's result
	Exact Quality = iota
	// Approximate is a documented fallback value
	Approximate
	// Absent means no value could be derived; Value holds the default (0)
	Absent
)

func (q Quality) String() string {
	switch q {
	case Exact:
		return "exact"
	case Approximate:
		return "approximate"
	case Absent:
		return "absent"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// Estimate is a scalar with its provenance. Err is nil for Exact and
// explains the fallback otherwise.
type Estimate struct {
	Value   float64
	Quality Quality
	Err     error
}

func exact(v float64) Estimate {
	return Estimate{Value: v, Quality: Exact}
}

func approximate(v float64, err error) Estimate {
	return Estimate{Value: v, Quality: Approximate, Err: err}
}

func absent(err error) Estimate {
	return Estimate{Quality: Absent, Err: err}
}

// guard converts a panic inside a geometry stage into an absent estimate
func guard(stage string, est *Estimate) {
	if r := recover(); r != nil {
		*est = absent(fmt.Errorf("%w: %s: %v", ErrGeometryConstruction, stage, r))
	}
}
