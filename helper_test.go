package trajviz

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b r3.Vec) bool {
	return scalar.EqualWithinAbs(a.X, b.X, 1e-12) && scalar.EqualWithinAbs(a.Y, b.Y, 1e-12) && scalar.EqualWithinAbs(a.Z, b.Z, 1e-12)
}
