package trajviz

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// Viewport is the fixed view into the scene.
type Viewport struct {
	Center        r3.Vec
	Width, Height int     // In pixels.
	Range         float64 // Half extent of the visible region on each axis.
}

// Sphere is a static or moving sphere.
type Sphere struct {
	Pos     r3.Vec
	Radius  float64
	Color   colorful.Color
	Opacity float64 // 1 is opaque.
}

// Ellipsoid is an axis aligned ellipsoid. Length is along X, Height along Y
// and Width along Z (full extents, not semi axes).
type Ellipsoid struct {
	Pos                   r3.Vec
	Length, Height, Width float64
	Color                 colorful.Color
	Opacity               float64
}

// SemiAxes returns the semi axes of the ellipsoid.
func (e Ellipsoid) SemiAxes() r3.Vec {
	return r3.Vec{X: e.Length / 2, Y: e.Height / 2, Z: e.Width / 2}
}

// TrailPoint is one point of a trail, with the color it was appended with.
type TrailPoint struct {
	Pos   r3.Vec
	Color colorful.Color
}

// Trail is the append only history of the marker positions.
type Trail struct {
	Color  colorful.Color // Current color, always the marker's.
	Points []TrailPoint
}

// Append adds a point to the trail.
func (t *Trail) Append(pos r3.Vec) {
	t.Points = append(t.Points, TrailPoint{pos, t.Color})
}

// Len returns the number of points in the trail.
func (t *Trail) Len() int {
	return len(t.Points)
}

// Marker is the moving sphere and its trail.
type Marker struct {
	Sphere
	Trail Trail
}

// SetColor changes the color of the marker and of its trail.
func (m *Marker) SetColor(c colorful.Color) {
	m.Color = c
	m.Trail.Color = c
}

// Scene holds all the objects drawn by the renderers.
// Objects are created once and then only mutated.
type Scene struct {
	Viewport  Viewport
	Horizon   *Sphere    // Nil when disabled.
	Ellipsoid *Ellipsoid // Nil when disabled.
	Marker    *Marker    // Nil until primed.
	Record    Record     // Last played record.
	Frame     int        // Number of records played.
}

// Update moves the marker to the record position, paints it and appends
// that position to the trail.
func (s *Scene) Update(rec Record, c colorful.Color) {
	pos := rec.Position()
	s.Marker.SetColor(c)
	s.Marker.Pos = pos
	s.Marker.Trail.Append(pos)
	s.Record = rec
	s.Frame++
}

func (s *Scene) String() string {
	str := fmt.Sprintf("viewport %dx%d ±%.1f", s.Viewport.Width, s.Viewport.Height, s.Viewport.Range)
	if s.Horizon != nil {
		str += fmt.Sprintf(" horizon r=%.4f", s.Horizon.Radius)
	}
	if s.Ellipsoid != nil {
		str += fmt.Sprintf(" ellipsoid %.2fx%.2fx%.2f", s.Ellipsoid.Length, s.Ellipsoid.Height, s.Ellipsoid.Width)
	}
	return str
}
