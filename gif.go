package trajviz

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Light direction in the view frame (from the upper left, toward the viewer).
var lightDir = unit(r3.Vec{X: -0.4, Y: 0.6, Z: 1})

// GIFRenderer rasterizes the scene with an orthographic projection and
// writes the kept frames as an animated GIF on Close.
type GIFRenderer struct {
	path   string
	conf   GIFConfig
	rate   float64
	view   *mat.Dense
	center r3.Vec
	scale  float64 // Pixels per scene unit.
	draws  int
	frames []*image.Paletted
	delays []int
}

// NewGIFRenderer returns a renderer writing to path. The rate is the playback
// frame rate, used to derive the frame delay when conf.Delay is zero.
func NewGIFRenderer(path string, conf GIFConfig, rate float64) *GIFRenderer {
	if conf.Every < 1 {
		conf.Every = 1
	}
	return &GIFRenderer{path: path, conf: conf, rate: rate}
}

// Frames returns the number of frames kept so far.
func (g *GIFRenderer) Frames() int {
	return len(g.frames)
}

// Setup computes the view from the scene viewport.
func (g *GIFRenderer) Setup(s *Scene) error {
	if g.conf.Width <= 0 || g.conf.Height <= 0 {
		return errors.New("invalid GIF size")
	}
	g.view = ViewRotation(g.conf.Azimuth, g.conf.Elevation)
	g.center = s.Viewport.Center
	g.scale = float64(min(g.conf.Width, g.conf.Height)) / (2 * s.Viewport.Range)
	if g.conf.Delay <= 0 {
		fps := g.rate
		if fps <= 0 {
			fps = DefaultRate
		}
		// GIF delays below 2/100 s are not honored by most viewers.
		g.conf.Delay = max(2, int(math.Round(100*float64(g.conf.Every)/fps)))
	}
	return nil
}

// Draw rasterizes one frame every conf.Every draws, up to conf.MaxFrames.
func (g *GIFRenderer) Draw(s *Scene) error {
	g.draws++
	if (g.draws-1)%g.conf.Every != 0 || (g.conf.MaxFrames > 0 && len(g.frames) >= g.conf.MaxFrames) {
		return nil
	}
	img := g.rasterize(s)
	pimg := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), img, image.Point{})
	g.frames = append(g.frames, pimg)
	g.delays = append(g.delays, g.conf.Delay)
	return nil
}

// Close encodes all the kept frames.
func (g *GIFRenderer) Close() error {
	if len(g.frames) == 0 {
		return errors.New("no GIF frame to write")
	}
	f, err := os.Create(g.path)
	if err != nil {
		return err
	}
	if err = gif.EncodeAll(f, &gif.GIF{Image: g.frames, Delay: g.delays, LoopCount: 0}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// project returns the view frame coordinates of a scene position, with X
// and Y in pixels.
func (g *GIFRenderer) project(p r3.Vec) r3.Vec {
	v := MxV33(g.view, r3.Sub(p, g.center))
	return r3.Vec{
		X: float64(g.conf.Width)/2 + v.X*g.scale,
		Y: float64(g.conf.Height)/2 - v.Y*g.scale,
		Z: v.Z,
	}
}

// drawable is anything drawn in depth order, furthest first.
type drawable interface {
	depth() float64
	draw(g *GIFRenderer, img *image.NRGBA)
}

func (g *GIFRenderer) rasterize(s *Scene) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.conf.Width, g.conf.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(g.conf.Background.Clamped()), image.Point{}, draw.Src)

	var items []drawable
	if s.Horizon != nil {
		items = append(items, &body{center: s.Horizon.Pos, semi: r3.Vec{X: s.Horizon.Radius, Y: s.Horizon.Radius, Z: s.Horizon.Radius}, color: s.Horizon.Color, opacity: s.Horizon.Opacity})
	}
	if s.Ellipsoid != nil {
		items = append(items, &body{center: s.Ellipsoid.Pos, semi: s.Ellipsoid.SemiAxes(), color: s.Ellipsoid.Color, opacity: s.Ellipsoid.Opacity})
	}
	if m := s.Marker; m != nil {
		for i := 1; i < len(m.Trail.Points); i++ {
			items = append(items, &segment{from: m.Trail.Points[i-1].Pos, to: m.Trail.Points[i].Pos, color: m.Trail.Points[i].Color})
		}
		items = append(items, &body{center: m.Pos, semi: r3.Vec{X: m.Radius, Y: m.Radius, Z: m.Radius}, color: m.Color, opacity: m.Opacity, minPixels: 2})
	}
	for _, item := range items {
		if b, ok := item.(*body); ok {
			b.viewDepth = MxV33(g.view, r3.Sub(b.center, g.center)).Z
		} else if sg, ok := item.(*segment); ok {
			sg.viewDepth = MxV33(g.view, r3.Sub(r3.Scale(0.5, r3.Add(sg.from, sg.to)), g.center)).Z
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth() < items[j].depth() })
	for _, item := range items {
		item.draw(g, img)
	}
	return img
}

// blend composites c with opacity over the pixel at (x, y).
func blend(img *image.NRGBA, x, y int, c colorful.Color, opacity float64) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	dst, _ := colorful.MakeColor(img.NRGBAAt(x, y))
	img.Set(x, y, dst.BlendRgb(c, clamp01(opacity)).Clamped())
}

// body is an axis aligned ellipsoid, spheres included.
type body struct {
	center    r3.Vec
	semi      r3.Vec
	color     colorful.Color
	opacity   float64
	minPixels float64
	viewDepth float64
}

func (b *body) depth() float64 {
	return b.viewDepth
}

// draw casts one orthographic ray per pixel of the projected bounding box.
func (b *body) draw(g *GIFRenderer, img *image.NRGBA) {
	c := g.project(b.center)
	extent := math.Max(b.semi.X, math.Max(b.semi.Y, b.semi.Z)) * g.scale
	if extent < b.minPixels {
		extent = b.minPixels
	}
	// Ray direction in the scene frame is the view Z axis, i.e. the third row of the view rotation.
	dir := r3.Vec{X: g.view.At(2, 0), Y: g.view.At(2, 1), Z: g.view.At(2, 2)}
	right := r3.Vec{X: g.view.At(0, 0), Y: g.view.At(0, 1), Z: g.view.At(0, 2)}
	up := r3.Vec{X: g.view.At(1, 0), Y: g.view.At(1, 1), Z: g.view.At(1, 2)}
	inv := r3.Vec{X: 1 / b.semi.X, Y: 1 / b.semi.Y, Z: 1 / b.semi.Z}
	minPx := b.minPixels / g.scale
	degenerate := b.semi.X <= 0 || b.semi.Y <= 0 || b.semi.Z <= 0
	if degenerate && b.minPixels == 0 {
		return
	}

	for py := int(c.Y - extent); py <= int(c.Y+extent)+1; py++ {
		for px := int(c.X - extent); px <= int(c.X+extent)+1; px++ {
			dx := (float64(px) + 0.5 - c.X) / g.scale
			dy := (c.Y - float64(py) - 0.5) / g.scale
			// Ray origin relative to the body center, in the scene frame.
			o := r3.Add(r3.Scale(dx, right), r3.Scale(dy, up))
			// Scale to the unit sphere.
			so := r3.Vec{X: o.X * inv.X, Y: o.Y * inv.Y, Z: o.Z * inv.Z}
			sd := r3.Vec{X: dir.X * inv.X, Y: dir.Y * inv.Y, Z: dir.Z * inv.Z}
			// |so + t sd|² = 1, looking for the hit closest to the viewer.
			qa := r3.Dot(sd, sd)
			qb := 2 * r3.Dot(so, sd)
			qc := r3.Dot(so, so) - 1
			disc := qb*qb - 4*qa*qc
			if degenerate || disc < 0 {
				if math.Hypot(dx, dy) <= minPx {
					blend(img, px, py, b.color, b.opacity)
				}
				continue
			}
			t := (-qb + math.Sqrt(disc)) / (2 * qa)
			hit := r3.Add(o, r3.Scale(t, dir))
			// Gradient of the implicit surface, in the view frame.
			n := unit(MxV33(g.view, r3.Vec{X: hit.X * inv.X * inv.X, Y: hit.Y * inv.Y * inv.Y, Z: hit.Z * inv.Z * inv.Z}))
			shade := 0.35 + 0.65*math.Max(0, r3.Dot(n, lightDir))
			shaded := colorful.Color{R: b.color.R * shade, G: b.color.G * shade, B: b.color.B * shade}
			blend(img, px, py, shaded, b.opacity)
		}
	}
}

// segment is one trail segment.
type segment struct {
	from, to  r3.Vec
	color     colorful.Color
	viewDepth float64
}

func (s *segment) depth() float64 {
	return s.viewDepth
}

// draw uses Bresenham's algorithm.
func (s *segment) draw(g *GIFRenderer, img *image.NRGBA) {
	a, b := g.project(s.from), g.project(s.to)
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))
	if g.offLimits(a) || g.offLimits(b) {
		return
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		blend(img, x0, y0, s.color, 1)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// offLimits returns whether a projected point is too far out of the image to be drawn.
func (g *GIFRenderer) offLimits(p r3.Vec) bool {
	limit := 4 * float64(max(g.conf.Width, g.conf.Height))
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.Abs(p.X) > limit || math.Abs(p.Y) > limit
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
