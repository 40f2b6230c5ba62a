package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/philipparndt/roomgeo/pkg/extract"
)

// Outlines returns a FeatureCollection with one polygon per room that has
// a floor outline. Rooms without an outline are left out.
func Outlines(records []*extract.RoomRecord, p Precision) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, rec := range records {
		if rec == nil || len(rec.Outline) < 3 {
			continue
		}

		ring := make(orb.Ring, 0, len(rec.Outline)+1)
		for _, pt := range rec.Outline {
			ring = append(ring, orb.Point{Round(pt.X, p.Vertex), Round(pt.Y, p.Vertex)})
		}
		ring = append(ring, ring[0])

		f := geojson.NewFeature(orb.Polygon{ring})
		f.ID = rec.ID
		f.Properties["name"] = rec.Name
		f.Properties["storey"] = rec.Storey
		f.Properties["storeyNumber"] = rec.StoreyNumber
		f.Properties["area"] = Round(rec.Dimensions.Area, p.Scalar)
		f.Properties["volume"] = Round(rec.Dimensions.Volume, p.Scalar)
		f.Properties["height"] = Round(rec.Dimensions.Height, p.Scalar)
		fc.Append(f)
	}
	return fc
}
