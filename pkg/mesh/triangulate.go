package mesh

import (
	"fmt"

	"github.com/philipparndt/roomgeo/pkg/geometry"
)

// Triangle is three vertex indices into the shared vertex buffer
type Triangle [3]int

// TriangleMesh references the vertices of the Buffer it was built from
type TriangleMesh struct {
	Vertices  []geometry.Vector3
	Triangles []Triangle
}

// TriangleCount returns the number of triangles
func (m *TriangleMesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Triangles)
}

// Triangle returns the geometric triangle at index i
func (m *TriangleMesh) Triangle(i int) geometry.Triangle {
	t := m.Triangles[i]
	return geometry.Triangle{V1: m.Vertices[t[0]], V2: m.Vertices[t[1]], V3: m.Vertices[t[2]]}
}

// WarningKind classifies a problem found while triangulating
type WarningKind int

const (
	// DegenerateFace is a polygon with fewer than three indices
	DegenerateFace WarningKind = iota
	// IndexOutOfRange is a fan triangle that referenced a missing vertex
	IndexOutOfRange
	// TruncatedStream is a face record whose count runs past the stream
	TruncatedStream
	// MalformedStream is a negative face count; the rest of the stream is ignored
	MalformedStream
)

func (k WarningKind) String() string {
	switch k {
	case DegenerateFace:
		return "degenerate face"
	case IndexOutOfRange:
		return "index out of range"
	case TruncatedStream:
		return "truncated face record"
	case MalformedStream:
		return "malformed face stream"
	default:
		return "unknown"
	}
}

// Warning describes one skipped face or triangle
type Warning struct {
	Face int // position of the face in the stream order
	Kind WarningKind
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("face %d: %s: %s", w.Face, w.Kind, w.Detail)
}

// Triangulate fan-triangulates every polygon of the buffer around its first
// vertex: an n-gon [i0..in-1] yields (i0, ij, ij+1) for j = 1..n-2.
//
// Only correct for convex or near-convex polygons, which is what
// architectural exporters emit; concave faces are accepted as an
// approximation. Faces with fewer than three indices are skipped, and
// triangles referencing a missing vertex are dropped one by one. Problems
// are returned as warnings; the source buffer is never modified.
func Triangulate(b *Buffer) (*TriangleMesh, []Warning) {
	if b == nil {
		return &TriangleMesh{}, nil
	}
	m := &TriangleMesh{Vertices: b.Vertices}
	var warnings []Warning

	nv := len(b.Vertices)
	inRange := func(idx int) bool { return idx >= 0 && idx < nv }

	face := 0
	stream := b.Faces
	for i := 0; i < len(stream); face++ {
		n := stream[i]
		if n < 0 {
			warnings = append(warnings, Warning{
				Face:   face,
				Kind:   MalformedStream,
				Detail: fmt.Sprintf("count %d at offset %d", n, i),
			})
			break
		}

		start := i + 1
		end := start + n
		if end > len(stream) {
			warnings = append(warnings, Warning{
				Face:   face,
				Kind:   TruncatedStream,
				Detail: fmt.Sprintf("declared %d indices, %d available", n, len(stream)-start),
			})
			end = len(stream)
		}
		indices := stream[start:end]
		i = start + n

		if len(indices) < 3 {
			warnings = append(warnings, Warning{
				Face:   face,
				Kind:   DegenerateFace,
				Detail: fmt.Sprintf("%d indices", len(indices)),
			})
			continue
		}

		for j := 1; j < len(indices)-1; j++ {
			t := Triangle{indices[0], indices[j], indices[j+1]}
			if !inRange(t[0]) || !inRange(t[1]) || !inRange(t[2]) {
				warnings = append(warnings, Warning{
					Face:   face,
					Kind:   IndexOutOfRange,
					Detail: fmt.Sprintf("triangle %v with %d vertices", t, nv),
				})
				continue
			}
			m.Triangles = append(m.Triangles, t)
		}
	}

	return m, warnings
}
