package mesh

import (
	"math"

	"github.com/philipparndt/roomgeo/pkg/geometry"
)

// Weld merges vertices that share a position (after snapping to tolerance)
// and rewrites the triangles to the merged indices. Triangles that collapse
// to fewer than three distinct vertices are dropped. Exporters often emit one
// vertex per face corner; edge topology is only meaningful after welding.
func Weld(m *TriangleMesh, tolerance float64) *TriangleMesh {
	if m == nil {
		return &TriangleMesh{}
	}
	if tolerance <= 0 {
		tolerance = 1e-9
	}

	type key [3]int64
	snap := func(v geometry.Vector3) key {
		return key{
			int64(math.Round(v.X / tolerance)),
			int64(math.Round(v.Y / tolerance)),
			int64(math.Round(v.Z / tolerance)),
		}
	}

	remap := make([]int, len(m.Vertices))
	seen := make(map[key]int, len(m.Vertices))
	welded := &TriangleMesh{}
	for i, v := range m.Vertices {
		k := snap(v)
		if idx, ok := seen[k]; ok {
			remap[i] = idx
			continue
		}
		seen[k] = len(welded.Vertices)
		remap[i] = len(welded.Vertices)
		welded.Vertices = append(welded.Vertices, v)
	}

	for _, t := range m.Triangles {
		w := Triangle{remap[t[0]], remap[t[1]], remap[t[2]]}
		if w[0] == w[1] || w[1] == w[2] || w[0] == w[2] {
			continue
		}
		welded.Triangles = append(welded.Triangles, w)
	}
	return welded
}
