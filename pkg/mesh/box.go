package mesh

import "github.com/philipparndt/roomgeo/pkg/geometry"

// boxQuads are the six faces of a box, wound counter-clockwise seen from outside
var boxQuads = [][]int{
	{0, 3, 2, 1}, // bottom
	{4, 5, 6, 7}, // top
	{0, 1, 5, 4}, // front
	{2, 3, 7, 6}, // back
	{0, 4, 7, 3}, // left
	{1, 2, 6, 5}, // right
}

// Box builds a closed, outward-wound box between two corners as eight
// vertices and six quad faces.
func Box(min, max geometry.Vector3) *Buffer {
	vertices := []geometry.Vector3{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
	}
	return NewBufferFromPolygons(vertices, boxQuads)
}
