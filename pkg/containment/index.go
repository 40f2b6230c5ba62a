// Package containment attributes building elements to rooms by centroid.
//
// An element is contained in a room when the arithmetic mean of its vertices
// lies inside the room's axis-aligned bounding box, bounds included. Only the
// centroid is considered, so an element straddling two rooms (a shared wall)
// lands in at most one of them, or none.
package containment

import (
	"fmt"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"go.uber.org/zap"

	"github.com/philipparndt/roomgeo/pkg/building"
	"github.com/philipparndt/roomgeo/pkg/geometry"
)

// searchSlack is the minimum widening of R-tree rectangles. rtreego treats
// touching rectangles as disjoint, so boundary points need padding; the exact
// inclusive test runs afterwards.
const searchSlack = 1e-9

// Entry is one cached element
type Entry struct {
	ID       string
	Category building.Category
	Name     string
	Centroid geometry.Vector3

	seq  int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial
func (e *Entry) Bounds() rtreego.Rect {
	return e.rect
}

// Index caches element centroids for one building snapshot. It is built
// once and only read afterwards, so concurrent Contained calls are safe.
type Index struct {
	tree    *rtreego.Rtree
	entries []*Entry
	byID    map[string]*Entry
}

// Build scans the elements of the requested categories and caches their
// centroids. Elements without geometry are skipped and logged; an empty
// category list means building.DefaultElementCategories.
func Build(elements []*building.Entity, categories []building.Category, log *zap.Logger) *Index {
	if log == nil {
		log = zap.NewNop()
	}
	if len(categories) == 0 {
		categories = building.DefaultElementCategories
	}
	wanted := make(map[building.Category]bool, len(categories))
	for _, c := range categories {
		wanted[building.ParseCategory(string(c))] = true
	}

	idx := &Index{
		tree: rtreego.NewTree(3, 25, 50),
		byID: make(map[string]*Entry),
	}

	for _, el := range elements {
		if el == nil || !wanted[building.ParseCategory(string(el.Category))] {
			continue
		}
		if _, dup := idx.byID[el.ID]; dup {
			log.Warn("duplicate element id, keeping first", zap.String("element", el.ID))
			continue
		}
		if el.Mesh.IsEmpty() {
			log.Warn("element has no geometry, skipped",
				zap.String("element", el.ID),
				zap.String("category", string(el.Category)))
			continue
		}
		centroid, _ := geometry.Centroid(el.Mesh.Vertices)
		if !centroid.IsFinite() {
			log.Warn("element centroid is not finite, skipped", zap.String("element", el.ID))
			continue
		}

		rect, err := paddedRect(centroid, centroid)
		if err != nil {
			log.Warn("element not indexable, skipped", zap.String("element", el.ID), zap.Error(err))
			continue
		}
		entry := &Entry{
			ID:       el.ID,
			Category: el.Category,
			Name:     el.Name,
			Centroid: centroid,
			seq:      len(idx.entries),
			rect:     rect,
		}
		idx.entries = append(idx.entries, entry)
		idx.byID[entry.ID] = entry
		idx.tree.Insert(entry)
	}

	log.Debug("containment index built",
		zap.Int("elements", len(elements)),
		zap.Int("cached", len(idx.entries)))
	return idx
}

// Len returns the number of cached elements
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Lookup returns the cached entry for an element id
func (idx *Index) Lookup(id string) (*Entry, bool) {
	if idx == nil {
		return nil, false
	}
	e, ok := idx.byID[id]
	return e, ok
}

// Contained returns the elements whose centroid lies in box (inclusive),
// in the order they were indexed.
func (idx *Index) Contained(box geometry.BoundingBox) []*Entry {
	if idx.Len() == 0 || box.IsEmpty() {
		return nil
	}

	rect, err := searchRect(box)
	if err != nil {
		// Fall back to a linear scan; results are identical, only slower
		return idx.scan(box)
	}

	var found []*Entry
	for _, s := range idx.tree.SearchIntersect(rect) {
		e := s.(*Entry)
		if box.Contains(e.Centroid) {
			found = append(found, e)
		}
	}
	sortBySeq(found)
	return found
}

func (idx *Index) scan(box geometry.BoundingBox) []*Entry {
	var found []*Entry
	for _, e := range idx.entries {
		if box.Contains(e.Centroid) {
			found = append(found, e)
		}
	}
	return found
}

func searchRect(box geometry.BoundingBox) (rtreego.Rect, error) {
	rect, err := paddedRect(box.Min, box.Max)
	if err != nil {
		return rtreego.Rect{}, fmt.Errorf("containment: search rect for %v: %w", box, err)
	}
	return rect, nil
}

// paddedRect builds the rectangle [lo, hi] widened on every axis by a slack
// that grows with the coordinate magnitude, so it never rounds away.
func paddedRect(lo, hi geometry.Vector3) (rtreego.Rect, error) {
	if !lo.IsFinite() || !hi.IsFinite() {
		return rtreego.Rect{}, fmt.Errorf("non-finite bounds %v..%v", lo, hi)
	}
	minPoint := make(rtreego.Point, 3)
	maxPoint := make(rtreego.Point, 3)
	for i := 0; i < 3; i++ {
		a, b := lo.Component(i), hi.Component(i)
		s := slack(math.Max(math.Abs(a), math.Abs(b)))
		minPoint[i], maxPoint[i] = a-s, b+s
	}
	return rtreego.NewRectFromPoints(minPoint, maxPoint)
}

// slack returns a padding of at least four ulps at magnitude m
func slack(m float64) float64 {
	ulp := math.Nextafter(m, math.Inf(1)) - m
	return math.Max(searchSlack, 4*ulp)
}

func sortBySeq(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
}
