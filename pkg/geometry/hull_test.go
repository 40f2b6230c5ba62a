package geometry

import "testing"

func TestConvexHull2DSquareWithInterior(t *testing.T) {
	points := []Point2{
		{0.5, 0.5},
		{1, 1},
		{0, 0},
		{1, 0},
		{0, 1},
		{0.5, 0}, // collinear on an edge
		{0, 0},   // duplicate
	}

	hull := ConvexHull2D(points)
	expected := []Point2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	if len(hull) != len(expected) {
		t.Fatalf("expected %d hull points, got %d: %v", len(expected), len(hull), hull)
	}
	for i := range expected {
		if hull[i] != expected[i] {
			t.Errorf("hull[%d]: expected %v, got %v", i, expected[i], hull[i])
		}
	}
}

func TestConvexHull2DIsConvex(t *testing.T) {
	points := []Point2{
		{0, 0}, {4, 0}, {4, 1}, {1, 1}, {1, 3}, {0, 3}, // L-shape
		{2, 0.5}, {0.5, 2},
	}

	hull := ConvexHull2D(points)
	if len(hull) < 3 {
		t.Fatalf("expected a polygon, got %v", hull)
	}
	for i := range hull {
		o := hull[i]
		a := hull[(i+1)%len(hull)]
		b := hull[(i+2)%len(hull)]
		if Cross2(o, a, b) <= 0 {
			t.Errorf("turn at %v is not counter-clockwise", a)
		}
	}
}

func TestConvexHull2DDegenerate(t *testing.T) {
	if hull := ConvexHull2D([]Point2{{0, 0}, {1, 1}}); hull != nil {
		t.Errorf("two points should give nil, got %v", hull)
	}
	if hull := ConvexHull2D([]Point2{{0, 0}, {1, 1}, {2, 2}, {3, 3}}); hull != nil {
		t.Errorf("collinear points should give nil, got %v", hull)
	}
	if hull := ConvexHull2D([]Point2{{1, 1}, {1, 1}, {1, 1}}); hull != nil {
		t.Errorf("coincident points should give nil, got %v", hull)
	}
}

func TestConvexHull2DDoesNotMutateInput(t *testing.T) {
	points := []Point2{{1, 1}, {0, 0}, {1, 0}}
	ConvexHull2D(points)
	if points[0] != (Point2{1, 1}) {
		t.Errorf("input was reordered: %v", points)
	}
}
