// Package mesh holds raw polygon meshes as delivered by a model loader and
// turns them into triangle meshes.
//
// Faces are kept in the flat stream encoding used by most IFC geometry
// exporters: each polygon is a count followed by that many vertex indices,
// e.g. [4, 0, 1, 2, 3, 3, 0, 2, 4].
package mesh

import "github.com/philipparndt/roomgeo/pkg/geometry"

// Buffer is the raw vertex and face data of one spatial entity.
// It is treated as immutable once built; derived meshes share Vertices.
type Buffer struct {
	Vertices []geometry.Vector3
	Faces    []int
}

// NewBuffer builds a buffer from vertices and a flat face stream
func NewBuffer(vertices []geometry.Vector3, faces []int) *Buffer {
	return &Buffer{Vertices: vertices, Faces: faces}
}

// NewBufferFromPolygons builds a buffer from one index slice per polygon
func NewBufferFromPolygons(vertices []geometry.Vector3, polygons [][]int) *Buffer {
	return &Buffer{Vertices: vertices, Faces: EncodeFaces(polygons)}
}

// VertexCount returns the number of vertices
func (b *Buffer) VertexCount() int {
	if b == nil {
		return 0
	}
	return len(b.Vertices)
}

// IsEmpty returns true if the buffer has no vertices
func (b *Buffer) IsEmpty() bool {
	return b.VertexCount() == 0
}

// Scaled returns a copy with every coordinate multiplied by s.
// The face stream is shared.
func (b *Buffer) Scaled(s float64) *Buffer {
	if b == nil || s == 1 {
		return b
	}
	vertices := make([]geometry.Vector3, len(b.Vertices))
	for i, v := range b.Vertices {
		vertices[i] = v.Mul(s)
	}
	return &Buffer{Vertices: vertices, Faces: b.Faces}
}

// EncodeFaces flattens polygons into the count-prefixed stream
func EncodeFaces(polygons [][]int) []int {
	size := 0
	for _, p := range polygons {
		size += len(p) + 1
	}
	stream := make([]int, 0, size)
	for _, p := range polygons {
		stream = append(stream, len(p))
		stream = append(stream, p...)
	}
	return stream
}

// DecodeFaces splits a face stream back into polygons. A record whose count
// runs past the end of the stream is truncated to the indices available;
// a negative count ends decoding since the stream cannot be resynchronized.
func DecodeFaces(stream []int) [][]int {
	var polygons [][]int
	for i := 0; i < len(stream); {
		n := stream[i]
		if n < 0 {
			break
		}
		start := i + 1
		end := start + n
		if end > len(stream) {
			end = len(stream)
		}
		polygons = append(polygons, stream[start:end])
		i = start + n
	}
	return polygons
}
