package trajviz

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	deg2rad = math.Pi / 180
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// ViewRotation returns the rotation from the scene frame (Y up) to the view
// frame for the provided azimuth (about Y) and elevation (above the X-Z
// plane) in degrees. In the view frame, X is right, Y is up and Z points to
// the viewer.
func ViewRotation(azimuth, elevation float64) *mat.Dense {
	var m mat.Dense
	m.Mul(R1(-elevation*deg2rad), R2(azimuth*deg2rad))
	return &m
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v r3.Vec) r3.Vec {
	vVec := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	var rVec mat.VecDense
	rVec.MulVec(m, vVec)
	return r3.Vec{X: rVec.AtVec(0), Y: rVec.AtVec(1), Z: rVec.AtVec(2)}
}
