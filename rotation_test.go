package trajviz

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRotationsOrthonormal(t *testing.T) {
	for _, angle := range []float64{0, 0.3, math.Pi / 2, -2.1} {
		for i, R := range []*mat.Dense{R1(angle), R2(angle), ViewRotation(angle/deg2rad, 2*angle/deg2rad)} {
			var prod mat.Dense
			prod.Mul(R, R.T())
			if !mat.EqualApprox(&prod, eye3(), 1e-12) {
				t.Fatalf("rotation #%d of %f is not orthonormal", i, angle)
			}
			if det := mat.Det(R); math.Abs(det-1) > 1e-12 {
				t.Fatalf("rotation #%d of %f has determinant %f", i, angle, det)
			}
		}
	}
}

func TestRotationAxes(t *testing.T) {
	x := r3.Vec{X: 1}
	y := r3.Vec{Y: 1}
	z := r3.Vec{Z: 1}
	if !vectorsEqual(MxV33(R1(math.Pi/2), y), r3.Vec{Z: -1}) {
		t.Fatal("R1 incorrect")
	}
	if !vectorsEqual(MxV33(R2(math.Pi/2), z), r3.Vec{X: -1}) {
		t.Fatal("R2 incorrect")
	}
	if !vectorsEqual(MxV33(R2(math.Pi/2), x), r3.Vec{Z: 1}) {
		t.Fatal("R2 incorrect")
	}
	for _, v := range []r3.Vec{x, y, z} {
		if !vectorsEqual(MxV33(R1(0.7), v), MxV33(R1(0.7+2*math.Pi), v)) {
			t.Fatal("R1 is not periodic")
		}
	}
}

func TestViewRotation(t *testing.T) {
	if !mat.EqualApprox(ViewRotation(0, 0), eye3(), 1e-12) {
		t.Fatal("zero angles should be the identity")
	}
	// From above, the scene up axis points to the viewer.
	if !vectorsEqual(MxV33(ViewRotation(0, 90), r3.Vec{Y: 1}), r3.Vec{Z: 1}) {
		t.Fatal("incorrect elevation")
	}
	// Azimuth turns about the scene up axis, which stays up.
	if !vectorsEqual(MxV33(ViewRotation(90, 0), r3.Vec{Y: 1}), r3.Vec{Y: 1}) {
		t.Fatal("azimuth should keep Y up")
	}
	if !vectorsEqual(MxV33(ViewRotation(90, 0), r3.Vec{X: 1}), r3.Vec{Z: 1}) {
		t.Fatal("incorrect azimuth")
	}
}

func eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}
