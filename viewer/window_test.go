package viewer

import (
	"testing"

	"github.com/ChristopherRabotin/trajviz"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestColor(t *testing.T) {
	c := rlColor(trajviz.Olive, 0.2)
	if c.R != 128 || c.G != 128 || c.B != 0 || c.A != 51 {
		t.Fatalf("incorrect color %v", c)
	}
	if c = rlColor(trajviz.Red, 3); c.A != 255 {
		t.Fatalf("opacity should be clamped, got %d", c.A)
	}
}

func TestVec(t *testing.T) {
	v := vec(r3.Vec{X: 1.5, Y: -2, Z: 3})
	if v.X != 1.5 || v.Y != -2 || v.Z != 3 {
		t.Fatalf("incorrect vector %v", v)
	}
}

func TestCloseUnopened(t *testing.T) {
	w := New("test", func() {})
	w.Hold = true
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}
