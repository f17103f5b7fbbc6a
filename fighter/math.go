package fighter

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// angleDiff returns the signed shortest rotation from a to b in (-pi, pi].
func angleDiff(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// planar drops the vertical component.
func planar(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Z: v.Z}
}

// planarDistance is the XZ distance between two points.
func planarDistance(a, b r3.Vec) float64 {
	return math.Hypot(b.X-a.X, b.Z-a.Z)
}

// planarDirection returns the unit XZ vector from a to b and the distance.
// Coincident points yield the fallback direction and a distance of 1.
func planarDirection(a, b r3.Vec, fallback r3.Vec) (r3.Vec, float64) {
	d := planar(r3.Sub(b, a))
	dist := r3.Norm(d)
	if dist < 1e-6 {
		return fallback, 1
	}
	return r3.Scale(1/dist, d), dist
}
