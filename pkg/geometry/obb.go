package geometry

import "math"

// OrientedBox is a box aligned to a set of orthonormal axes
type OrientedBox struct {
	Center  Vector3
	Axes    [3]Vector3
	Extents Vector3 // full edge length along each axis
}

// Volume returns the volume of the box
func (o OrientedBox) Volume() float64 {
	return o.Extents.X * o.Extents.Y * o.Extents.Z
}

// OrientedBounds fits a box to the point set along its principal axes
// (eigenvectors of the vertex covariance). If the world-aligned box is no
// larger, that one is returned instead, so the result never exceeds the
// axis-aligned volume. Returns false for an empty set.
func OrientedBounds(points []Vector3) (OrientedBox, bool) {
	aabb, ok := Bounds(points)
	if !ok {
		return OrientedBox{}, false
	}
	axisAligned := OrientedBox{
		Center:  aabb.Center(),
		Axes:    [3]Vector3{{X: 1}, {Y: 1}, {Z: 1}},
		Extents: aabb.Size(),
	}

	mean, _ := Centroid(points)
	var cov [3][3]float64
	for _, p := range points {
		d := p.Sub(mean)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i][j] += d.Component(i) * d.Component(j)
			}
		}
	}
	n := float64(len(points))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cov[i][j] /= n
		}
	}

	vecs := symmetricEigenvectors(cov)
	var axes [3]Vector3
	for k := 0; k < 3; k++ {
		axes[k] = NewVector3(vecs[0][k], vecs[1][k], vecs[2][k]).Normalize()
	}

	var lo, hi [3]float64
	for k := 0; k < 3; k++ {
		lo[k] = math.MaxFloat64
		hi[k] = -math.MaxFloat64
	}
	for _, p := range points {
		for k := 0; k < 3; k++ {
			d := p.Dot(axes[k])
			lo[k] = math.Min(lo[k], d)
			hi[k] = math.Max(hi[k], d)
		}
	}

	principal := OrientedBox{
		Axes:    axes,
		Extents: NewVector3(hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2]),
	}
	for k := 0; k < 3; k++ {
		principal.Center = principal.Center.Add(axes[k].Mul((lo[k] + hi[k]) / 2))
	}

	pv := principal.Volume()
	if math.IsNaN(pv) || pv >= axisAligned.Volume() {
		return axisAligned, true
	}
	return principal, true
}

// symmetricEigenvectors diagonalizes a symmetric 3x3 matrix with cyclic
// Jacobi rotations. Eigenvectors are the columns of the result.
func symmetricEigenvectors(a [3][3]float64) [3][3]float64 {
	v := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	for sweep := 0; sweep < 50; sweep++ {
		off := a[0][1]*a[0][1] + a[0][2]*a[0][2] + a[1][2]*a[1][2]
		if off < 1e-30 {
			break
		}
		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				if a[p][q] == 0 {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta < 0 {
					t = -t
				}
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				for k := 0; k < 3; k++ {
					akp, akq := a[k][p], a[k][q]
					a[k][p] = c*akp - s*akq
					a[k][q] = s*akp + c*akq
				}
				for k := 0; k < 3; k++ {
					apk, aqk := a[p][k], a[q][k]
					a[p][k] = c*apk - s*aqk
					a[q][k] = s*apk + c*aqk
				}
				for k := 0; k < 3; k++ {
					vkp, vkq := v[k][p], v[k][q]
					v[k][p] = c*vkp - s*vkq
					v[k][q] = s*vkp + c*vkq
				}
			}
		}
	}
	return v
}
