package analysis

import (
	"fmt"

	"github.com/philipparndt/roomgeo/pkg/geometry"
	"github.com/philipparndt/roomgeo/pkg/mesh"
)

// DefaultWeldTolerance is the distance below which two vertices are merged
// before the mesh topology is checked.
const DefaultWeldTolerance = 1e-6

// ManifoldReport summarizes the edge topology of a welded triangle mesh
type ManifoldReport struct {
	Triangles int
	// OpenEdges border exactly one triangle (holes)
	OpenEdges int
	// OverusedEdges border more than two triangles
	OverusedEdges int
	// FlippedEdges are traversed in the same direction by two triangles,
	// meaning their normals disagree
	FlippedEdges int
}

// Watertight reports whether every edge borders exactly two triangles
func (r ManifoldReport) Watertight() bool {
	return r.Triangles > 0 && r.OpenEdges == 0 && r.OverusedEdges == 0
}

// WindingConsistent reports whether neighbouring triangles agree on orientation
func (r ManifoldReport) WindingConsistent() bool {
	return r.FlippedEdges == 0
}

func (r ManifoldReport) err() error {
	return fmt.Errorf("%w: %d open, %d overused, %d inconsistently wound edges",
		ErrNonManifold, r.OpenEdges, r.OverusedEdges, r.FlippedEdges)
}

// CheckManifold counts the edge defects of a mesh. It expects welded vertices.
func CheckManifold(m *mesh.TriangleMesh) ManifoldReport {
	type edge [2]int
	undirected := make(map[edge]int)
	directed := make(map[edge]int)

	for _, t := range m.Triangles {
		for k := 0; k < 3; k++ {
			a, b := t[k], t[(k+1)%3]
			directed[edge{a, b}]++
			if a > b {
				a, b = b, a
			}
			undirected[edge{a, b}]++
		}
	}

	report := ManifoldReport{Triangles: len(m.Triangles)}
	for _, n := range undirected {
		switch {
		case n == 1:
			report.OpenEdges++
		case n > 2:
			report.OverusedEdges++
		}
	}
	for _, n := range directed {
		if n > 1 {
			report.FlippedEdges++
		}
	}
	return report
}

// VolumeEstimator computes enclosed volume from a triangulated mesh.
// A valid solid gives the exact divergence-theorem volume; anything else
// falls back to the oriented bounding box volume. No repair is attempted.
type VolumeEstimator struct {
	WeldTolerance float64
}

// NewVolumeEstimator returns an estimator with DefaultWeldTolerance
func NewVolumeEstimator() VolumeEstimator {
	return VolumeEstimator{WeldTolerance: DefaultWeldTolerance}
}

// Estimate returns a non-negative volume. Invalid indices, non-finite
// coordinates and panics give an absent 0; an empty mesh gives an absent 0
// with ErrDegenerateInput.
func (e VolumeEstimator) Estimate(m *mesh.TriangleMesh) (est Estimate) {
	defer guard("volume", &est)

	if m.TriangleCount() == 0 {
		return absent(fmt.Errorf("%w: no triangles", ErrDegenerateInput))
	}
	if err := validate(m); err != nil {
		return absent(err)
	}

	welded := mesh.Weld(m, e.WeldTolerance)
	if welded.TriangleCount() == 0 {
		return absent(fmt.Errorf("%w: every triangle collapsed when welding", ErrDegenerateInput))
	}

	report := CheckManifold(welded)
	if !report.Watertight() || !report.WindingConsistent() {
		box, ok := geometry.OrientedBounds(referenced(welded))
		if !ok {
			return absent(fmt.Errorf("%w: no referenced vertices", ErrDegenerateInput))
		}
		return approximate(box.Volume(), report.err())
	}

	ref := welded.Vertices[welded.Triangles[0][0]]
	var sum float64
	for i := range welded.Triangles {
		sum += welded.Triangle(i).SignedVolume(ref)
	}
	if sum < 0 {
		sum = -sum
	}
	return exact(sum)
}

func validate(m *mesh.TriangleMesh) error {
	n := len(m.Vertices)
	for i, t := range m.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrGeometryConstruction, i, idx, n)
			}
		}
	}
	for i, v := range m.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("%w: vertex %d is not finite", ErrGeometryConstruction, i)
		}
	}
	return nil
}

func referenced(m *mesh.TriangleMesh) []geometry.Vector3 {
	used := make([]bool, len(m.Vertices))
	var points []geometry.Vector3
	for _, t := range m.Triangles {
		for _, idx := range t {
			if !used[idx] {
				used[idx] = true
				points = append(points, m.Vertices[idx])
			}
		}
	}
	return points
}
