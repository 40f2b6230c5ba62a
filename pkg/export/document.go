// Package export converts RoomRecords into the documents handed to
// persistence and viewers. All floating values are rounded here; the
// records themselves keep full precision.
package export

import (
	"encoding/json"
	"io"
	"math"

	"github.com/samber/lo"

	"github.com/philipparndt/roomgeo/pkg/extract"
	"github.com/philipparndt/roomgeo/pkg/geometry"
	"github.com/philipparndt/roomgeo/pkg/mesh"
)

// Precision is the number of decimal places kept on export
type Precision struct {
	// Scalar applies to dimensions and areas
	Scalar int
	// Vertex applies to outline and mesh coordinates
	Vertex int
}

// DefaultPrecision keeps centimetres for scalars and millimetres for coordinates
var DefaultPrecision = Precision{Scalar: 2, Vertex: 3}

// Room is the serialized form of one RoomRecord
type Room struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Storey       string       `json:"storey"`
	StoreyNumber int          `json:"storeyNumber"`
	Dimensions   Dimensions   `json:"dimensions"`
	DeclaredArea *float64     `json:"declaredArea,omitempty"`
	Elements     []Element    `json:"elements"`
	Outline2D    [][2]float64 `json:"outline2D"`
	Mesh3D       Mesh         `json:"mesh3D"`
	Diagnostics  []Diagnostic `json:"diagnostics,omitempty"`
}

// Dimensions are the rounded scalar descriptors
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Area   float64 `json:"area"`
	Volume float64 `json:"volume"`
}

// Element is a contained element summary
type Element struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Mesh is the triangulated room geometry
type Mesh struct {
	Vertices [][3]float64 `json:"vertices"`
	Faces    [][3]int     `json:"faces"`
}

// Diagnostic marks a field that is approximate or missing
type Diagnostic struct {
	Field   string `json:"field"`
	Quality string `json:"quality"`
	Reason  string `json:"reason,omitempty"`
}

// Round rounds v to the given number of decimal places. Non-finite values
// become 0 and negative zero is normalized.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	scale := math.Pow(10, float64(places))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}

// NewRoom builds the export document of one record
func NewRoom(rec *extract.RoomRecord, p Precision) Room {
	d := rec.Dimensions
	room := Room{
		ID:           rec.ID,
		Name:         rec.Name,
		Storey:       rec.Storey,
		StoreyNumber: rec.StoreyNumber,
		Dimensions: Dimensions{
			Length: Round(d.Length, p.Scalar),
			Width:  Round(d.Width, p.Scalar),
			Height: Round(d.Height, p.Scalar),
			Area:   Round(d.Area, p.Scalar),
			Volume: Round(d.Volume, p.Scalar),
		},
		Elements: lo.Map(rec.Elements, func(e extract.ElementSummary, _ int) Element {
			return Element{Type: string(e.Category), Name: e.Name}
		}),
		Outline2D: lo.Map(rec.Outline, func(pt geometry.Point2, _ int) [2]float64 {
			return [2]float64{Round(pt.X, p.Vertex), Round(pt.Y, p.Vertex)}
		}),
		Mesh3D: newMesh(rec.Mesh, p.Vertex),
		Diagnostics: lo.Map(rec.Diagnostics, func(diag extract.Diagnostic, _ int) Diagnostic {
			out := Diagnostic{Field: diag.Field, Quality: diag.Quality.String()}
			if diag.Err != nil {
				out.Reason = diag.Err.Error()
			}
			return out
		}),
	}
	if rec.DeclaredArea != nil {
		v := Round(*rec.DeclaredArea, p.Scalar)
		room.DeclaredArea = &v
	}
	return room
}

func newMesh(m *mesh.TriangleMesh, places int) Mesh {
	if m == nil {
		return Mesh{Vertices: [][3]float64{}, Faces: [][3]int{}}
	}
	return Mesh{
		Vertices: lo.Map(m.Vertices, func(v geometry.Vector3, _ int) [3]float64 {
			return [3]float64{Round(v.X, places), Round(v.Y, places), Round(v.Z, places)}
		}),
		Faces: lo.Map(m.Triangles, func(t mesh.Triangle, _ int) [3]int {
			return [3]int(t)
		}),
	}
}

// NewRooms builds the documents of a whole run, in record order
func NewRooms(records []*extract.RoomRecord, p Precision) []Room {
	return lo.FilterMap(records, func(rec *extract.RoomRecord, _ int) (Room, bool) {
		if rec == nil {
			return Room{}, false
		}
		return NewRoom(rec, p), true
	})
}

// WriteJSON writes rooms as an indented JSON array
func WriteJSON(w io.Writer, rooms []Room) error {
	if rooms == nil {
		rooms = []Room{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rooms)
}
