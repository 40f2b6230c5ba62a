package geometry

import "sort"

// ConvexHull2D returns the convex hull of the points in counter-clockwise
// order, starting at the point with the lowest X (then lowest Y).
// Duplicate and collinear boundary points are dropped, so a non-nil result
// always has at least three vertices and no self-intersection.
// Fewer than three non-collinear points yield nil.
//
// Uses Andrew's monotone chain: O(n log n).
func ConvexHull2D(points []Point2) []Point2 {
	if len(points) < 3 {
		return nil
	}

	sorted := make([]Point2, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	unique := sorted[:1]
	for _, p := range sorted[1:] {
		if p != unique[len(unique)-1] {
			unique = append(unique, p)
		}
	}
	if len(unique) < 3 {
		return nil
	}

	hull := make([]Point2, 0, 2*len(unique))

	// Lower chain
	for _, p := range unique {
		for len(hull) >= 2 && Cross2(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Upper chain
	lower := len(hull) + 1
	for i := len(unique) - 2; i >= 0; i-- {
		p := unique[i]
		for len(hull) >= lower && Cross2(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Last point repeats the first
	hull = hull[:len(hull)-1]
	if len(hull) < 3 {
		return nil
	}
	return hull
}
