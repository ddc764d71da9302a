// 12 Oct 2026
// Distances and midpoints between atoms. Coordinates are gonum
// r3 vectors, so we do not carry our own xyz type around.

package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Dist is the Euclidean distance between p and q.
func Dist(p, q r3.Vec) float64 {
	return r3.Norm(r3.Sub(p, q))
}

// Midpoint returns the point half way between p and q.
func Midpoint(p, q r3.Vec) r3.Vec {
	return r3.Scale(0.5, r3.Add(p, q))
}

// Shift returns the vector which, added to from, lands on to.
func Shift(from, to r3.Vec) r3.Vec {
	return r3.Sub(to, from)
}

// Finite says whether all three components are usable numbers.
// A file can hold "nan" or "inf" literals, which parse, and callers
// can hand in anything.
func Finite(p r3.Vec) bool {
	for _, x := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
