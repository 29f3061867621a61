package trajviz

import (
	"context"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func testGIFConfig() GIFConfig {
	return GIFConfig{Width: 64, Height: 48, Every: 3, MaxFrames: 4, Azimuth: 30, Elevation: 60, Background: DarkGray}
}

func TestGIFFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "play.gif")
	g := NewGIFRenderer(path, testGIFConfig(), 60)
	p := testPlayer(t, PresetKerr, &Parameters{A: 0.9, M: 1}, lines(8, nil))
	if _, err := p.Play(context.Background(), g); err != nil {
		t.Fatal(err)
	}
	// Draws 1, 4 and 7 are kept.
	if g.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", g.Frames())
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 || anim.Config.Width != 64 || anim.Config.Height != 48 {
		t.Fatalf("unexpected GIF with %d frames of %dx%d", len(anim.Image), anim.Config.Width, anim.Config.Height)
	}
	// Three draws at 60 fps are 5/100 s.
	for i, d := range anim.Delay {
		if d != 5 {
			t.Fatalf("frame %d: delay %d", i, d)
		}
	}
}

func TestGIFMaxFrames(t *testing.T) {
	conf := testGIFConfig()
	conf.Every = 1
	conf.Delay = 7
	g := NewGIFRenderer(filepath.Join(t.TempDir(), "max.gif"), conf, 0)
	p := testPlayer(t, PresetError, nil, lines(20, func(i int) float64 { return -150 + 10*float64(i) }))
	if _, err := p.Play(context.Background(), g); err != nil {
		t.Fatal(err)
	}
	if g.Frames() != conf.MaxFrames {
		t.Fatalf("expected %d frames, got %d", conf.MaxFrames, g.Frames())
	}
	for _, d := range g.delays {
		if d != 7 {
			t.Fatalf("configured delay not used: %d", d)
		}
	}
}

func TestGIFErrors(t *testing.T) {
	conf := testGIFConfig()
	conf.Width = 0
	if err := NewGIFRenderer("x.gif", conf, 60).Setup(&Scene{Viewport: Viewport{Range: 1}}); err == nil {
		t.Fatal("invalid size should fail")
	}
	if err := NewGIFRenderer(filepath.Join(t.TempDir(), "empty.gif"), testGIFConfig(), 60).Close(); err == nil || !strings.Contains(err.Error(), "no GIF frame") {
		t.Fatalf("closing without frames should fail, got %v", err)
	}
}

func TestGIFRasterize(t *testing.T) {
	conf := testGIFConfig()
	conf.Azimuth, conf.Elevation = 0, 0
	g := NewGIFRenderer("", conf, 60)
	s := &Scene{Viewport: Viewport{Range: 10}, Horizon: &Sphere{Radius: 2, Color: Blue, Opacity: 1}}
	if err := g.Setup(s); err != nil {
		t.Fatal(err)
	}
	img := g.rasterize(s)
	// The opaque horizon covers the center of the image, not the corners.
	if c := img.NRGBAAt(32, 24); c.B == 0 || c.R != 0 {
		t.Fatalf("center should be blue, got %v", c)
	}
	if c := img.NRGBAAt(0, 0); c.R != c.G || c.G != c.B || c.R < 70 || c.R > 80 {
		t.Fatalf("corner should be the background, got %v", c)
	}

	// A trail along X is drawn through the center row.
	s.Horizon = nil
	s.Marker = &Marker{Sphere: Sphere{Radius: 0.01, Opacity: 1}}
	s.Marker.SetColor(Red)
	s.Marker.Trail.Append(r3.Vec{X: -5})
	s.Marker.Trail.Append(r3.Vec{X: 5})
	img = g.rasterize(s)
	if c := img.NRGBAAt(20, 24); c.R != 255 || c.G != 0 {
		t.Fatalf("trail should be red, got %v", c)
	}
}

func TestGIFOffLimits(t *testing.T) {
	g := NewGIFRenderer("", testGIFConfig(), 60)
	s := &Scene{Viewport: Viewport{Range: 1}}
	if err := g.Setup(s); err != nil {
		t.Fatal(err)
	}
	s.Marker = &Marker{Sphere: Sphere{Radius: 0.1, Opacity: 1}}
	s.Marker.SetColor(Green)
	s.Marker.Trail.Append(r3.Vec{})
	s.Marker.Trail.Append(r3.Vec{X: 1e12})
	// Must return without walking a trillion pixels.
	g.rasterize(s)
}
