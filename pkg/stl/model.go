package stl

import (
	"github.com/philipparndt/roomgeo/pkg/geometry"
	"github.com/philipparndt/roomgeo/pkg/mesh"
)

// Model represents a complete STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// ToBuffer converts the triangle soup into an indexed mesh buffer.
// STL repeats every corner per facet, so identical positions are merged into
// one vertex; the facets become three-index faces in file order.
func (m *Model) ToBuffer() *mesh.Buffer {
	index := make(map[geometry.Vector3]int)
	var vertices []geometry.Vector3
	lookup := func(v geometry.Vector3) int {
		if i, ok := index[v]; ok {
			return i
		}
		index[v] = len(vertices)
		vertices = append(vertices, v)
		return len(vertices) - 1
	}

	faces := make([]int, 0, 4*len(m.Triangles))
	for _, t := range m.Triangles {
		faces = append(faces, 3, lookup(t.V1), lookup(t.V2), lookup(t.V3))
	}
	return mesh.NewBuffer(vertices, faces)
}
