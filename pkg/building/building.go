// Package building is the in-memory snapshot a model loader hands to the
// extraction engine: storeys, their rooms, and the building elements whose
// placement is attributed to rooms.
package building

import (
	"strings"

	"github.com/philipparndt/roomgeo/pkg/mesh"
)

// Category tags the kind of a spatial entity
type Category string

const (
	CategorySpace            Category = "Space"
	CategoryWall             Category = "Wall"
	CategoryWallStandardCase Category = "WallStandardCase"
	CategoryDoor             Category = "Door"
	CategoryWindow           Category = "Window"
	CategoryCovering         Category = "Covering"
	CategoryFlowTerminal     Category = "FlowTerminal"
)

// DefaultElementCategories are the element kinds attributed to rooms
var DefaultElementCategories = []Category{
	CategoryWall,
	CategoryWallStandardCase,
	CategoryDoor,
	CategoryWindow,
	CategoryCovering,
	CategoryFlowTerminal,
}

// ParseCategory maps name onto a known category, ignoring case and
// surrounding space. Unknown names are returned as given.
func ParseCategory(name string) Category {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, string(CategorySpace)) {
		return CategorySpace
	}
	for _, c := range DefaultElementCategories {
		if strings.EqualFold(name, string(c)) {
			return c
		}
	}
	return Category(name)
}

// Quantity names checked, in order, for a declared floor area
var declaredAreaQuantities = []string{"GrossFloorArea", "NetFloorArea", "Area"}

// Entity is a room or a building element with its geometry
type Entity struct {
	ID       string
	Category Category
	// Name is resolved once at ingestion; see ResolveName
	Name string
	Mesh *mesh.Buffer
	// Quantities holds numeric property-set values such as NetFloorArea
	Quantities map[string]float64
}

// ResolveName picks the first non-empty of long name, short name and id
func ResolveName(longName, name, id string) string {
	switch {
	case longName != "":
		return longName
	case name != "":
		return name
	default:
		return id
	}
}

// DeclaredArea returns the floor area stated in the entity's quantities,
// preferring gross over net over a plain area value.
func (e *Entity) DeclaredArea() (float64, bool) {
	for _, q := range declaredAreaQuantities {
		if v, ok := e.Quantities[q]; ok {
			return v, true
		}
	}
	return 0, false
}

// Storey is one building level; Number is its position in loader order
type Storey struct {
	Name   string
	Number int
	Rooms  []*Entity
}

// Building is a static snapshot of everything the loader produced
type Building struct {
	Name     string
	Storeys  []*Storey
	Elements []*Entity
}

// RoomCount returns the number of rooms across all storeys
func (b *Building) RoomCount() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, s := range b.Storeys {
		n += len(s.Rooms)
	}
	return n
}

// RoomRef locates a room within its storey
type RoomRef struct {
	Storey *Storey
	Room   *Entity
}

// Rooms lists every room in storey order, then room order
func (b *Building) Rooms() []RoomRef {
	if b == nil {
		return nil
	}
	refs := make([]RoomRef, 0, b.RoomCount())
	for _, s := range b.Storeys {
		for _, r := range s.Rooms {
			refs = append(refs, RoomRef{Storey: s, Room: r})
		}
	}
	return refs
}
