package containment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/philipparndt/roomgeo/pkg/building"
	"github.com/philipparndt/roomgeo/pkg/geometry"
	"github.com/philipparndt/roomgeo/pkg/mesh"
)

// element builds a small cube element centred on c
func element(id string, cat building.Category, c geometry.Vector3) *building.Entity {
	h := geometry.NewVector3(0.25, 0.25, 0.25) // dyadic, so centroids are exact
	return &building.Entity{
		ID:       id,
		Category: cat,
		Name:     id + "-name",
		Mesh:     mesh.Box(c.Sub(h), c.Add(h)),
	}
}

func unitBox() geometry.BoundingBox {
	box, _ := geometry.Bounds([]geometry.Vector3{geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 1, 1)})
	return box
}

func ids(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestContainedInclusiveBounds(t *testing.T) {
	idx := Build([]*building.Entity{
		element("inside", building.CategoryDoor, geometry.NewVector3(0.5, 0.5, 0.5)),
		element("on-face", building.CategoryWindow, geometry.NewVector3(1, 0.5, 0.5)),
		element("on-corner", building.CategoryWall, geometry.NewVector3(0, 0, 0)),
		element("outside", building.CategoryDoor, geometry.NewVector3(2, 0.5, 0.5)),
		element("below", building.CategoryCovering, geometry.NewVector3(0.5, 0.5, -1)),
	}, nil, zaptest.NewLogger(t))

	require.Equal(t, 5, idx.Len())
	assert.Equal(t, []string{"inside", "on-face", "on-corner"}, ids(idx.Contained(unitBox())))
}

func TestContainedBoundaryAtLargeOffsets(t *testing.T) {
	for _, o := range []float64{0, 1e6, 2e7, 5e8, 1e9} {
		origin := geometry.NewVector3(o, o, o)
		box, _ := geometry.Bounds([]geometry.Vector3{origin, origin.Add(geometry.NewVector3(4, 4, 2))})
		onFace := origin.Add(geometry.NewVector3(2, 4, 1))

		idx := Build([]*building.Entity{
			element("window", building.CategoryWindow, onFace),
		}, nil, zaptest.NewLogger(t))

		require.True(t, box.Contains(onFace), "offset %g", o)
		assert.Equal(t, []string{"window"}, ids(idx.Contained(box)), "offset %g", o)
		assert.Equal(t, ids(idx.scan(box)), ids(idx.Contained(box)), "offset %g", o)
	}
}

func TestBuildFiltersCategories(t *testing.T) {
	elements := []*building.Entity{
		element("door", building.CategoryDoor, geometry.NewVector3(0.5, 0.5, 0.5)),
		element("furniture", building.Category("Furniture"), geometry.NewVector3(0.5, 0.5, 0.5)),
	}

	idx := Build(elements, nil, nil)
	assert.Equal(t, []string{"door"}, ids(idx.Contained(unitBox())))

	idx = Build(elements, []building.Category{"Furniture"}, nil)
	assert.Equal(t, []string{"furniture"}, ids(idx.Contained(unitBox())))
}

func TestBuildSkipsElementsWithoutGeometry(t *testing.T) {
	idx := Build([]*building.Entity{
		{ID: "empty", Category: building.CategoryDoor, Mesh: &mesh.Buffer{}},
		{ID: "nil", Category: building.CategoryDoor},
		element("ok", building.CategoryDoor, geometry.NewVector3(0.5, 0.5, 0.5)),
		element("ok", building.CategoryDoor, geometry.NewVector3(5, 5, 5)),
	}, nil, zaptest.NewLogger(t))

	require.Equal(t, 1, idx.Len())
	e, ok := idx.Lookup("ok")
	require.True(t, ok)
	assert.InDelta(t, 0.5, e.Centroid.X, 1e-12)
	assert.Equal(t, "ok-name", e.Name)
}

func TestContainedPreservesIndexOrder(t *testing.T) {
	var elements []*building.Entity
	names := []string{"e0", "e1", "e2", "e3", "e4", "e5", "e6", "e7"}
	for i, id := range names {
		f := float64(i) / 10
		elements = append(elements, element(id, building.CategoryWall, geometry.NewVector3(0.9-f, 0.1+f, 0.5)))
	}
	idx := Build(elements, nil, nil)
	assert.Equal(t, names, ids(idx.Contained(unitBox())))
}

func TestContainedFlatRoomBox(t *testing.T) {
	// A degenerate room box with zero height still matches points on its plane
	idx := Build([]*building.Entity{
		element("floor-mark", building.CategoryCovering, geometry.NewVector3(0.5, 0.5, 0)),
	}, nil, nil)
	box, _ := geometry.Bounds([]geometry.Vector3{geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 1, 0)})
	assert.Equal(t, []string{"floor-mark"}, ids(idx.Contained(box)))
}

func TestContainedEmpty(t *testing.T) {
	var idx *Index
	assert.Nil(t, idx.Contained(unitBox()))
	assert.Nil(t, Build(nil, nil, nil).Contained(unitBox()))
	assert.Nil(t, Build([]*building.Entity{
		element("a", building.CategoryDoor, geometry.Vector3{}),
	}, nil, nil).Contained(geometry.NewBoundingBox()))
}
