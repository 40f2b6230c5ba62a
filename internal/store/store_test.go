package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/philipparndt/roomgeo/pkg/export"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rooms.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func rooms(prefix string, storeys ...int) []export.Room {
	var out []export.Room
	for i, n := range storeys {
		out = append(out, export.Room{
			ID:           fmt.Sprintf("%s-%d", prefix, i),
			Name:         fmt.Sprintf("Room %d", i),
			Storey:       fmt.Sprintf("Level %d", n),
			StoreyNumber: n,
			Dimensions:   export.Dimensions{Length: 2, Width: 3, Height: 2.5, Area: 6, Volume: 15},
			Elements:     []export.Element{{Type: "Door", Name: "d"}},
			Outline2D:    [][2]float64{{0, 0}, {2, 0}, {2, 3}, {0, 3}},
			Mesh3D:       export.Mesh{Vertices: [][3]float64{}, Faces: [][3]int{}},
		})
	}
	return out
}

func TestReplaceAllAndRead(t *testing.T) {
	s := openStore(t)
	want := rooms("a", 0, 1, 1, 2)

	require.NoError(t, s.ReplaceAll(Run{ID: "run-1", Building: "House"}, want))

	got, err := s.Rooms()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	run, err := s.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "House", run.Building)
	assert.Equal(t, 4, run.Rooms)
}

func TestReplaceAllReplacesPreviousSet(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.ReplaceAll(Run{ID: "run-1"}, rooms("a", 0, 1)))
	require.NoError(t, s.ReplaceAll(Run{ID: "run-2"}, rooms("b", 3)))

	got, err := s.Rooms()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b-0", got[0].ID)

	storeys, err := s.Storeys()
	require.NoError(t, err)
	assert.Equal(t, []int{3}, storeys)
}

func TestReplaceAllRefusesEmptySet(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.ReplaceAll(Run{ID: "run-1"}, rooms("a", 0)))

	assert.ErrorIs(t, s.ReplaceAll(Run{ID: "run-2"}, nil), ErrEmptyRun)

	// The previous set survives
	got, err := s.Rooms()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReplaceAllAllowsDuplicateRoomIDs(t *testing.T) {
	s := openStore(t)
	dup := append(rooms("a", 0), rooms("a", 1)...)

	require.NoError(t, s.ReplaceAll(Run{ID: "run-1"}, dup))

	got, err := s.Rooms()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStoreysSortedDistinct(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.ReplaceAll(Run{ID: "run-1"}, rooms("a", 2, 0, 2, 1, 0)))

	storeys, err := s.Storeys()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, storeys)
}

func TestRoomsByStorey(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.ReplaceAll(Run{ID: "run-1"}, rooms("a", 0, 1, 0, 1)))

	got, err := s.RoomsByStorey(1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a-1", got[0].ID)
	assert.Equal(t, "a-3", got[1].ID)

	none, err := s.RoomsByStorey(7)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEmptyStore(t *testing.T) {
	s := openStore(t)

	storeys, err := s.Storeys()
	require.NoError(t, err)
	assert.Empty(t, storeys)

	_, err = s.LatestRun()
	assert.ErrorIs(t, err, ErrNoRun)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "rooms.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.ReplaceAll(Run{ID: "run-1"}, rooms("a", 0)))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Rooms()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
