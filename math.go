package trajviz

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// unit returns the unit vector of a given vector.
func unit(a r3.Vec) r3.Vec {
	n := r3.Norm(a)
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return r3.Vec{}
	}
	return r3.Scale(1/n, a)
}

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Spherical2Cartesian returns the provided spherical coordinates (r, θ from
// the Y axis, φ in the Z-X plane) in Cartesian with Y up.
func Spherical2Cartesian(r, θ, φ float64) r3.Vec {
	sθ, cθ := math.Sincos(θ)
	sφ, cφ := math.Sincos(φ)
	return r3.Vec{X: r * sθ * sφ, Y: r * cθ, Z: r * sθ * cφ}
}

// Cartesian2Spherical returns the spherical coordinates of a Y up vector,
// with the same conventions as Spherical2Cartesian.
func Cartesian2Spherical(a r3.Vec) (r, θ, φ float64) {
	r = r3.Norm(a)
	if r == 0 {
		return 0, 0, 0
	}
	θ = math.Acos(a.Y / r)
	φ = math.Atan2(a.X, a.Z)
	return
}

// velocity returns the finite difference velocity between two positions
// separated by dt.
func velocity(from, to r3.Vec, dt float64) r3.Vec {
	if dt <= 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/dt, r3.Sub(to, from))
}
