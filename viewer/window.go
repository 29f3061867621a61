// Package viewer draws a trajviz scene in an interactive raylib window.
//
// raylib must be driven from the main OS thread: the binary using this
// package must call runtime.LockOSThread from an init function.
package viewer

import (
	"context"
	"fmt"
	"math"

	"github.com/ChristopherRabotin/trajviz"
	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	colBg   = rl.NewColor(10, 10, 10, 255)
	colText = rl.NewColor(140, 140, 140, 255)
)

const (
	fovy       = 45.0
	rotateRate = 0.005 // radians per pixel of mouse drag
	zoomRate   = 0.1   // fraction of the distance per wheel step
)

// Window is a trajviz.Renderer drawing in a raylib window. Closing the
// window cancels the playback.
type Window struct {
	// Hold keeps the window open on Close until the user closes it.
	Hold    bool
	title   string
	cancel  context.CancelFunc
	camera  rl.Camera3D
	target  r3.Vec
	r, θ, φ float64 // Camera position around the target.
	opened  bool
	closed  bool // By the user.
	last    *trajviz.Scene
}

// New returns a window. The cancel function is called when the window is closed.
func New(title string, cancel context.CancelFunc) *Window {
	return &Window{title: title, cancel: cancel}
}

// Setup opens the window with the size of the viewport, looking at the
// viewport center along -Z with the whole range visible.
func (w *Window) Setup(s *trajviz.Scene) error {
	vp := s.Viewport
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(vp.Width), int32(vp.Height), w.title)
	if !rl.IsWindowReady() {
		return fmt.Errorf("could not open a %dx%d window", vp.Width, vp.Height)
	}
	w.opened = true
	rl.SetExitKey(rl.KeyQ)
	w.target = vp.Center
	// Looking along -Z with the whole range in view.
	eye := r3.Vec{Z: vp.Range / math.Tan(fovy/2*math.Pi/180)}
	w.r, w.θ, w.φ = trajviz.Cartesian2Spherical(eye)
	w.camera = rl.NewCamera3D(vec(vp.Center), vec(vp.Center), rl.NewVector3(0, 1, 0), fovy, rl.CameraPerspective)
	w.placeCamera()
	return nil
}

// Draw draws one frame. It does not block: pacing is done by the player.
func (w *Window) Draw(s *trajviz.Scene) error {
	if rl.WindowShouldClose() {
		w.closed = true
		w.cancel()
		return nil
	}
	w.handleInput()
	w.render(s)
	w.last = s
	return nil
}

// Close closes the window, after the user closes it if Hold is set.
func (w *Window) Close() error {
	if !w.opened {
		return nil
	}
	if w.Hold && !w.closed && w.last != nil {
		rl.SetTargetFPS(60)
		for !rl.WindowShouldClose() {
			w.handleInput()
			w.render(w.last)
		}
	}
	rl.CloseWindow()
	w.opened = false
	return nil
}

// handleInput orbits the camera with a right drag and zooms with the wheel.
func (w *Window) handleInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		w.φ -= float64(delta.X) * rotateRate
		w.θ = math.Max(0.01, math.Min(math.Pi-0.01, w.θ-float64(delta.Y)*rotateRate))
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		w.r = math.Max(0.1, w.r*(1-float64(wheel)*zoomRate))
	}
	w.placeCamera()
}

func (w *Window) placeCamera() {
	w.camera.Position = vec(r3.Add(w.target, trajviz.Spherical2Cartesian(w.r, w.θ, w.φ)))
}

func (w *Window) render(s *trajviz.Scene) {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)
	rl.BeginMode3D(w.camera)
	if m := s.Marker; m != nil {
		for i := 1; i < len(m.Trail.Points); i++ {
			rl.DrawLine3D(vec(m.Trail.Points[i-1].Pos), vec(m.Trail.Points[i].Pos), rlColor(m.Trail.Points[i].Color, 1))
		}
		rl.DrawSphere(vec(m.Pos), float32(m.Radius), rlColor(m.Color, m.Opacity))
	}
	// Translucent bodies last so that the trail shows through them.
	if h := s.Horizon; h != nil {
		rl.DrawSphere(vec(h.Pos), float32(h.Radius), rlColor(h.Color, h.Opacity))
	}
	if e := s.Ellipsoid; e != nil {
		semi := e.SemiAxes()
		rl.PushMatrix()
		rl.Translatef(float32(e.Pos.X), float32(e.Pos.Y), float32(e.Pos.Z))
		rl.Scalef(float32(semi.X), float32(semi.Y), float32(semi.Z))
		rl.DrawSphere(rl.NewVector3(0, 0, 0), 1, rlColor(e.Color, e.Opacity))
		rl.PopMatrix()
	}
	rl.EndMode3D()

	rl.DrawText(fmt.Sprintf("frame %d", s.Frame), 10, 10, 18, colText)
	if m := s.Record.Metric; m != nil {
		rl.DrawText(fmt.Sprintf("metric %.1f", *m), 10, 32, 18, colText)
	}
	rl.DrawFPS(int32(s.Viewport.Width)-90, 10)
	rl.EndDrawing()
}

func vec(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func rlColor(c colorful.Color, opacity float64) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, uint8(math.Round(math.Max(0, math.Min(1, opacity))*255)))
}
