package geometry

// Point2 is a point on the XY plane
type Point2 struct {
	X, Y float64
}

// Sub returns p - other
func (p Point2) Sub(other Point2) Point2 {
	return Point2{X: p.X - other.X, Y: p.Y - other.Y}
}

// Cross2 returns the z component of (a-o) x (b-o).
// Positive means o->a->b turns counter-clockwise.
func Cross2(o, a, b Point2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
