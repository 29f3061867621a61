package trajviz

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/spatial/r3"
)

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.New("only InterpolatedStates are currently supported in Cosmographia trajectory types")
	}
	return nil
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState definition.
type CgInterpolatedState struct {
	JD       float64
	Position r3.Vec
	Velocity r3.Vec
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected 7 fields, got %d", len(record))
	}
	vals := make([]float64, 7)
	for j, txt := range record {
		val, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return err
		}
		vals[j] = val
	}
	i.JD = vals[0]
	i.Position = r3.Vec{X: vals[1], Y: vals[2], Z: vals[3]}
	i.Velocity = r3.Vec{X: vals[4], Y: vals[5], Z: vals[6]}
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	// A 1e-10 day resolution (under 10 µs) keeps frames at any usual rate apart.
	return fmt.Sprintf("%.10f %f %f %f %f %f %f", i.JD, i.Position.X, i.Position.Y, i.Position.Z, i.Velocity.X, i.Velocity.Y, i.Velocity.Z)
}

// ParseInterpolatedStates reads the interpolated states of an xyzv file.
func ParseInterpolatedStates(r io.Reader) ([]*CgInterpolatedState, error) {
	var states = []*CgInterpolatedState{}
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.Comment = '#'
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		state := CgInterpolatedState{}
		if err := state.FromText(record); err != nil {
			return nil, err
		}
		states = append(states, &state)
	}
	return states, nil
}

// ExportConfig configures the exporting of the playback.
type ExportConfig struct {
	Dir       string
	Filename  string
	Center    string    // Cosmographia center of the trajectories.
	Epoch     time.Time // Time of t=0.
	Rate      float64   // Frames per second, used to time records without a coordinate time.
	Cosmo     bool
	AsCSV     bool
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.Cosmo && !c.AsCSV
}

// timeOf returns the date of a frame.
func (c ExportConfig) timeOf(st FrameState) time.Time {
	if st.T != nil {
		return c.Epoch.Add(time.Duration(*st.T * float64(time.Second)))
	}
	fps := c.Rate
	if fps <= 0 {
		fps = DefaultRate
	}
	return c.Epoch.Add(time.Duration(float64(st.Frame) / fps * float64(time.Second)))
}

func (c ExportConfig) path(prefix, name, ext string) string {
	if c.Timestamp {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return filepath.Join(c.Dir, fmt.Sprintf("%s%s.%s", prefix, name, ext))
}

// FrameState is one exported frame.
type FrameState struct {
	Frame  int
	Pos    r3.Vec
	Color  colorful.Color
	Metric *float64
	T      *float64
}

// Exporter is a Renderer which streams the frames to Cosmographia and/or CSV files.
type Exporter struct {
	conf   ExportConfig
	frames chan FrameState
	wg     sync.WaitGroup
	err    error
}

// NewExporter returns a new exporter.
func NewExporter(conf ExportConfig) *Exporter {
	return &Exporter{conf: conf}
}

// Setup starts the writer.
func (e *Exporter) Setup(s *Scene) error {
	if e.conf.IsUseless() {
		return errors.New("export enables neither Cosmographia nor CSV")
	}
	if e.conf.Dir != "" {
		if err := os.MkdirAll(e.conf.Dir, 0755); err != nil {
			return err
		}
	}
	e.frames = make(chan FrameState, 1000) // a 1k entry buffer
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.err = StreamFrames(e.conf, e.frames)
	}()
	return nil
}

// Draw queues the current frame for writing.
func (e *Exporter) Draw(s *Scene) error {
	e.frames <- FrameState{Frame: s.Frame, Pos: s.Marker.Pos, Color: s.Marker.Color, Metric: s.Record.Metric, T: s.Record.T}
	return nil
}

// Close waits for all the frames to be written.
func (e *Exporter) Close() error {
	close(e.frames)
	e.wg.Wait() // Don't return until we're done writing all the files.
	return e.err
}

// StreamFrames streams the frames of the channel to the files of conf until
// the channel is closed. On error, the channel is drained so that senders
// never block.
func StreamFrames(conf ExportConfig, frames <-chan FrameState) error {
	var writers []frameWriter
	if conf.Cosmo {
		writers = append(writers, &cosmoWriter{conf: conf})
	}
	if conf.AsCSV {
		w, err := newCSVWriter(conf)
		if err != nil {
			drain(frames)
			return err
		}
		writers = append(writers, w)
	}
	return streamFrames(frames, writers)
}

// frameWriter is one export format.
type frameWriter interface {
	write(state FrameState) error
	close() error
	abort() // Releases the files without finishing them.
}

func streamFrames(frames <-chan FrameState, writers []frameWriter) error {
	for state := range frames {
		for _, w := range writers {
			if err := w.write(state); err != nil {
				for _, w := range writers {
					w.abort()
				}
				drain(frames)
				return err
			}
		}
	}
	var err error
	for _, w := range writers {
		if cerr := w.close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func drain(frames <-chan FrameState) {
	for range frames {
	}
}

// cosmoWriter writes one xyzv file per color segment, and the catalog on close.
type cosmoWriter struct {
	conf      ExportConfig
	f         *os.File
	items     []*CgItems
	cur       *CgItems
	fileNo    int
	prev      *FrameState
	prevDT    time.Time
	segmentDT time.Time
}

func (w *cosmoWriter) write(state FrameState) error {
	dt := w.conf.timeOf(state)
	if w.cur == nil || state.Color != w.prev.Color {
		if err := w.startSegment(state, dt); err != nil {
			return err
		}
	} else if !dt.After(w.prevDT) {
		// Interpolated states must be strictly increasing in time.
		return nil
	}
	var vel r3.Vec
	if w.prev != nil {
		vel = velocity(w.prev.Pos, state.Pos, dt.Sub(w.prevDT).Seconds())
	}
	asTxt := CgInterpolatedState{JD: julian.TimeToJD(dt), Position: state.Pos, Velocity: vel}
	if _, err := w.f.WriteString("\n" + asTxt.ToText()); err != nil {
		return err
	}
	w.prev = &state
	w.prevDT = dt
	return nil
}

func (w *cosmoWriter) startSegment(state FrameState, dt time.Time) error {
	if w.cur != nil {
		if err := w.endSegment(); err != nil {
			return err
		}
	}
	name := fmt.Sprintf("%s-%d", w.conf.Filename, w.fileNo)
	path := w.conf.path("traj-", name, "xyzv")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	// Header
	if _, err = f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a Julian date
#   Position in units of M
#   Playback time start (UTC): %s`, time.Now().UTC(), dt.UTC())); err != nil {
		f.Close()
		return err
	}
	w.f = f
	color := []float64{state.Color.R, state.Color.G, state.Color.B}
	traj := CgTrajectory{Type: "InterpolatedStates", Source: filepath.Base(path)}
	label := CgLabel{Color: color, FadeSize: 1000000, ShowText: true}
	plot := CgTrajectoryPlot{Color: color, LineWidth: 1, Duration: "", Lead: "0 d", Fade: 0, SampleCount: 10}
	w.cur = &CgItems{Class: "spacecraft", Name: name, StartTime: fmt.Sprintf("%s", dt.UTC()), Center: w.conf.Center, TrajectoryFrame: "ICRF", Trajectory: &traj, Label: &label, TrajectoryPlot: &plot}
	w.segmentDT = dt
	w.fileNo++
	return nil
}

func (w *cosmoWriter) endSegment() error {
	f := w.f
	w.f = nil
	if _, err := f.WriteString(fmt.Sprintf("\n# Playback time end (UTC): %s\n", w.prevDT.UTC())); err != nil {
		f.Close()
		return err
	}
	w.cur.EndTime = fmt.Sprintf("%s", w.prevDT.UTC())
	w.cur.TrajectoryPlot.Duration = fmt.Sprintf("%g d", w.prevDT.Sub(w.segmentDT).Hours()/24)
	w.items = append(w.items, w.cur)
	return f.Close()
}

// abort closes the current segment file, if any, without writing the catalog.
func (w *cosmoWriter) abort() {
	if w.f != nil {
		w.f.Close()
		w.f = nil
	}
}


// close ends the current segment and writes the catalog.
func (w *cosmoWriter) close() error {
	if w.cur == nil {
		return nil
	}
	if err := w.endSegment(); err != nil {
		return err
	}
	for _, item := range w.items {
		if err := item.Trajectory.Validate(); err != nil {
			return err
		}
	}
	c := CgCatalog{Version: "1.0", Name: w.conf.Filename, Items: w.items}
	marsh, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(w.conf.path("catalog-", w.conf.Filename, "json"), marsh, 0644)
}

type csvWriter struct {
	f *os.File
	w *csv.Writer
}

func newCSVWriter(conf ExportConfig) (*csvWriter, error) {
	f, err := os.Create(conf.path("", conf.Filename, "csv"))
	if err != nil {
		return nil, err
	}
	// Header
	if _, err = f.WriteString(fmt.Sprintf("# Creation date (UTC): %s\n# Positions in units of M, metric in dB\n", time.Now().UTC())); err != nil {
		f.Close()
		return nil, err
	}
	w := csv.NewWriter(f)
	if err = w.Write([]string{"frame", "x", "y", "z", "metric", "color", "t"}); err != nil {
		f.Close()
		return nil, err
	}
	return &csvWriter{f, w}, nil
}

func optionalText(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func (c *csvWriter) write(state FrameState) error {
	return c.w.Write([]string{
		strconv.Itoa(state.Frame),
		strconv.FormatFloat(state.Pos.X, 'f', 6, 64),
		strconv.FormatFloat(state.Pos.Y, 'f', 6, 64),
		strconv.FormatFloat(state.Pos.Z, 'f', 6, 64),
		optionalText(state.Metric),
		state.Color.Hex(),
		optionalText(state.T),
	})
}

func (c *csvWriter) abort() {
	c.f.Close()
}

func (c *csvWriter) close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}
