package trajviz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	kitlog "github.com/go-kit/log"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrParamsRequired is returned when the configuration needs parameters which were not provided.
var ErrParamsRequired = errors.New("parameters are required by this configuration")

// Renderer draws the scene. Setup is called once after priming, Draw after
// each scene update and Close once at the end of the playback.
type Renderer interface {
	Setup(s *Scene) error
	Draw(s *Scene) error
	Close() error
}

// Stats summarizes a playback.
type Stats struct {
	Records     int
	TrailPoints int
	Elapsed     time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("%d records, %d trail points in %s", s.Records, s.TrailPoints, s.Elapsed)
}

// NewLogger returns the logfmt logger used across trajviz.
func NewLogger(w io.Writer, subsys string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	return kitlog.With(klog, "subsys", subsys)
}

// Player plays a record stream onto a scene.
type Player struct {
	conf    Config
	scene   *Scene
	records *RecordReader
	first   *Record
	pacer   *Pacer
	logger  kitlog.Logger
}

// NewPlayer builds the static scene from the configuration and the optional
// parameters, and returns a player reading records from rr.
func NewPlayer(conf Config, params *Parameters, rr *RecordReader) (*Player, error) {
	radius := conf.Horizon.Radius
	switch {
	case params != nil && conf.Params != ParamsIgnored:
		var err error
		if radius, err = params.Horizon(); err != nil {
			return nil, err
		}
	case conf.Params == ParamsRequired:
		return nil, ErrParamsRequired
	}

	scene := &Scene{Viewport: conf.Viewport}
	if conf.Horizon.Enabled {
		scene.Horizon = &Sphere{Radius: radius, Color: conf.Horizon.Color, Opacity: conf.Horizon.Opacity}
	}
	if conf.Ellipsoid.Enabled {
		scene.Ellipsoid = &Ellipsoid{
			Length:  conf.Ellipsoid.Length,
			Height:  conf.Ellipsoid.Height,
			Width:   conf.Ellipsoid.WidthFactor * radius,
			Color:   conf.Ellipsoid.Color,
			Opacity: conf.Ellipsoid.Opacity,
		}
	}
	return &Player{
		conf:    conf,
		scene:   scene,
		records: rr,
		pacer:   NewPacer(conf.Rate),
		logger:  NewLogger(os.Stderr, "player"),
	}, nil
}

// SetLogger sets the logger of this player.
func (p *Player) SetLogger(logger kitlog.Logger) {
	p.logger = logger
}

// Scene returns the scene of this player.
func (p *Player) Scene() *Scene {
	return p.scene
}

// Prime reads the first record and places the marker there, with an empty trail.
func (p *Player) Prime() error {
	if p.first != nil {
		return nil
	}
	rec, err := p.records.Next()
	if err == io.EOF {
		return ErrNoRecords
	} else if err != nil {
		return err
	}
	p.first = &rec
	p.scene.Marker = &Marker{Sphere: Sphere{Pos: rec.Position(), Radius: p.conf.Marker.Radius, Opacity: 1}}
	p.scene.Marker.SetColor(p.colorOf(rec, p.conf.Marker.Color))
	return nil
}

// colorOf returns the color for this record, or fallback if it does not carry one.
func (p *Player) colorOf(rec Record, fallback colorful.Color) colorful.Color {
	if !p.conf.ColorCoded || rec.Metric == nil {
		return fallback
	}
	return BandOf(*rec.Metric).Color()
}

// Play primes the player if needed and plays all the records until the
// stream is exhausted or ctx is done. Each record moves the marker, extends
// the trail and is drawn by all renderers. The renderers are closed on return.
func (p *Player) Play(ctx context.Context, renderers ...Renderer) (stats Stats, err error) {
	start := time.Now()
	if err = p.Prime(); err != nil {
		return
	}
	p.logger.Log("level", "info", "status", "primed", "scene", p.scene, "first", p.first)

	setup := 0
	defer func() {
		for _, r := range renderers[:setup] {
			if cerr := r.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing %T: %w", r, cerr)
			}
		}
		stats.TrailPoints = p.scene.Marker.Trail.Len()
		stats.Elapsed = time.Since(start)
		p.logger.Log("level", "notice", "status", "finished", "records", stats.Records, "trail", stats.TrailPoints, "duration", stats.Elapsed, "err", err)
	}()
	for _, r := range renderers {
		if err = r.Setup(p.scene); err != nil {
			return stats, fmt.Errorf("setting up %T: %w", r, err)
		}
		setup++
	}

	rec := *p.first
	for {
		if err = p.pacer.Wait(ctx); err != nil {
			return
		}
		p.scene.Update(rec, p.colorOf(rec, p.scene.Marker.Color))
		stats.Records++
		for _, r := range renderers {
			if err = r.Draw(p.scene); err != nil {
				return stats, fmt.Errorf("drawing %T: %w", r, err)
			}
		}
		if rec, err = p.records.Next(); err == io.EOF {
			return stats, nil
		} else if err != nil {
			return
		}
	}
}
