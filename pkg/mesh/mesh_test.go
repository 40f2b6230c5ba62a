package mesh

import (
	"testing"

	"github.com/philipparndt/roomgeo/pkg/geometry"
)

func square() []geometry.Vector3 {
	return []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 1, 0),
		geometry.NewVector3(0, 1, 0),
	}
}

func TestTriangulateQuad(t *testing.T) {
	m, warnings := Triangulate(NewBuffer(square(), []int{4, 0, 1, 2, 3}))

	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	expected := []Triangle{{0, 1, 2}, {0, 2, 3}}
	if len(m.Triangles) != len(expected) {
		t.Fatalf("expected %d triangles, got %d", len(expected), len(m.Triangles))
	}
	for i := range expected {
		if m.Triangles[i] != expected[i] {
			t.Errorf("triangle %d: expected %v, got %v", i, expected[i], m.Triangles[i])
		}
	}
}

func TestTriangulateDegenerateFace(t *testing.T) {
	m, warnings := Triangulate(NewBuffer(square(), []int{2, 0, 1}))

	if m.TriangleCount() != 0 {
		t.Errorf("expected 0 triangles, got %d", m.TriangleCount())
	}
	if len(warnings) != 1 || warnings[0].Kind != DegenerateFace {
		t.Fatalf("expected one degenerate-face warning, got %v", warnings)
	}
}

func TestTriangulateSkipsDegenerateAndContinues(t *testing.T) {
	stream := []int{
		0,          // empty face
		2, 0, 1,    // line
		3, 0, 1, 2, // valid
		1, 3,       // point
		3, 0, 2, 3, // valid
	}
	m, warnings := Triangulate(NewBuffer(square(), stream))

	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %d: %v", len(warnings), warnings)
	}
	if warnings[2].Face != 3 {
		t.Errorf("expected warning on face 3, got face %d", warnings[2].Face)
	}
}

func TestTriangulateDropsOutOfRangeTriangleOnly(t *testing.T) {
	// Pentagon whose last index is missing: (0,1,2) and (0,2,3) survive
	m, warnings := Triangulate(NewBuffer(square(), []int{5, 0, 1, 2, 3, 9}))

	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
	if len(warnings) != 1 || warnings[0].Kind != IndexOutOfRange {
		t.Errorf("expected one out-of-range warning, got %v", warnings)
	}
}

func TestTriangulateTruncatedStream(t *testing.T) {
	m, warnings := Triangulate(NewBuffer(square(), []int{6, 0, 1, 2, 3}))

	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles from available indices, got %d", m.TriangleCount())
	}
	if len(warnings) == 0 || warnings[0].Kind != TruncatedStream {
		t.Errorf("expected truncated-stream warning, got %v", warnings)
	}
}

func TestTriangulateNegativeCountStops(t *testing.T) {
	m, warnings := Triangulate(NewBuffer(square(), []int{3, 0, 1, 2, -1, 3, 0, 2, 3}))

	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle before the malformed record, got %d", m.TriangleCount())
	}
	if len(warnings) != 1 || warnings[0].Kind != MalformedStream {
		t.Errorf("expected malformed-stream warning, got %v", warnings)
	}
}

func TestTriangulateDoesNotMutateBuffer(t *testing.T) {
	stream := []int{4, 0, 1, 2, 3}
	b := NewBuffer(square(), stream)
	Triangulate(b)

	if len(b.Faces) != 5 || b.Faces[0] != 4 {
		t.Errorf("face stream modified: %v", b.Faces)
	}
}

func TestEncodeDecodeFaces(t *testing.T) {
	polygons := [][]int{{0, 1, 2, 3}, {0, 2, 3}}
	stream := EncodeFaces(polygons)

	expected := []int{4, 0, 1, 2, 3, 3, 0, 2, 3}
	if len(stream) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, stream)
	}
	for i := range expected {
		if stream[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, stream)
		}
	}

	decoded := DecodeFaces(stream)
	if len(decoded) != 2 || len(decoded[0]) != 4 || len(decoded[1]) != 3 {
		t.Errorf("unexpected decode: %v", decoded)
	}
}

func TestBoxTriangulatesClosed(t *testing.T) {
	b := Box(geometry.NewVector3(0, 0, 0), geometry.NewVector3(2, 3, 4))
	m, warnings := Triangulate(b)

	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}
}

func TestWeldMergesDuplicates(t *testing.T) {
	// Two triangles of a quad emitted with separate corner vertices
	vertices := []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 1, 0),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 1, 0),
		geometry.NewVector3(0, 1, 0),
	}
	m := &TriangleMesh{Vertices: vertices, Triangles: []Triangle{{0, 1, 2}, {3, 4, 5}}}

	welded := Weld(m, 1e-9)
	if len(welded.Vertices) != 4 {
		t.Errorf("expected 4 vertices after welding, got %d", len(welded.Vertices))
	}
	if welded.Triangles[1] != (Triangle{0, 2, 3}) {
		t.Errorf("unexpected remap: %v", welded.Triangles[1])
	}
}

func TestWeldDropsCollapsedTriangles(t *testing.T) {
	vertices := []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
	}
	welded := Weld(&TriangleMesh{Vertices: vertices, Triangles: []Triangle{{0, 1, 2}}}, 1e-9)
	if welded.TriangleCount() != 0 {
		t.Errorf("expected collapsed triangle to be dropped, got %d", welded.TriangleCount())
	}
}

func TestScaled(t *testing.T) {
	b := Box(geometry.Vector3{}, geometry.NewVector3(1000, 1000, 1000)).Scaled(0.001)
	bbox, _ := geometry.Bounds(b.Vertices)
	if bbox.Max != geometry.NewVector3(1, 1, 1) {
		t.Errorf("unexpected scaled max %v", bbox.Max)
	}
}
