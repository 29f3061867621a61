package trajviz

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
)

// ParamSource defines whether a parameter file is used.
type ParamSource uint8

const (
	// ParamsRequired requires a parameter file, the horizon is derived from it.
	ParamsRequired ParamSource = iota + 1
	// ParamsOptional uses a parameter file when provided and a fixed horizon otherwise.
	ParamsOptional
	// ParamsIgnored never reads a parameter file.
	ParamsIgnored
)

func (p ParamSource) String() string {
	switch p {
	case ParamsRequired:
		return "required"
	case ParamsOptional:
		return "optional"
	case ParamsIgnored:
		return "none"
	}
	panic("cannot stringify unknown parameter source")
}

// Player presets.
const (
	PresetKerr  = "kerr"
	PresetError = "error"
	PresetPlain = "plain"
)

// ErrUnknownPreset is returned for an unknown preset name.
var ErrUnknownPreset = errors.New("unknown preset")

// PresetParams returns the parameter source of a preset. It is fixed by the
// preset so that the command line can be checked before reading any file.
func PresetParams(preset string) (ParamSource, error) {
	switch preset {
	case PresetKerr:
		return ParamsRequired, nil
	case PresetError:
		return ParamsOptional, nil
	case PresetPlain:
		return ParamsIgnored, nil
	}
	return 0, fmt.Errorf("%w `%s`", ErrUnknownPreset, preset)
}

// HorizonConfig configures the static horizon sphere.
type HorizonConfig struct {
	Enabled bool
	Radius  float64 // Used when the horizon is not derived from parameters.
	Color   colorful.Color
	Opacity float64
}

// EllipsoidConfig configures the reference ellipsoid.
type EllipsoidConfig struct {
	Enabled        bool
	Length, Height float64
	WidthFactor    float64 // Width is WidthFactor times the horizon radius.
	Color          colorful.Color
	Opacity        float64
}

// MarkerConfig configures the moving marker.
type MarkerConfig struct {
	Radius float64
	Color  colorful.Color
}

// GIFConfig configures the GIF renderer.
type GIFConfig struct {
	Width, Height      int
	Every              int // Keep one frame every so many.
	MaxFrames          int
	Delay              int     // In 100ths of a second, 0 to derive it from the rate.
	Azimuth, Elevation float64 // View angles in degrees.
	Background         colorful.Color
}

// Config is the player configuration.
type Config struct {
	Preset      string
	Params      ParamSource
	Viewport    Viewport
	Horizon     HorizonConfig
	Ellipsoid   EllipsoidConfig
	Marker      MarkerConfig
	ColorCoded  bool
	MetricField string
	Rate        float64 // Frames per second, 0 disables pacing.
	GIF         GIFConfig
	Export      ExportConfig
}

func (c Config) String() string {
	return fmt.Sprintf("%s: params %s, ellipsoid %v, color coded %v (%s), %.0f fps", c.Preset, c.Params, c.Ellipsoid.Enabled, c.ColorCoded, c.MetricField, c.Rate)
}

func setDefaults(v *viper.Viper, preset string) error {
	v.SetDefault("viewport.width", 1000)
	v.SetDefault("viewport.height", 1000)
	v.SetDefault("viewport.range", 20.0)
	v.SetDefault("rate", 60.0)
	v.SetDefault("marker.color", "green")
	v.SetDefault("horizon.enabled", true)
	v.SetDefault("ellipsoid.length", 4.0)
	v.SetDefault("ellipsoid.height", 4.0)
	v.SetDefault("ellipsoid.width_factor", 2.0)
	v.SetDefault("color.field", DefaultMetricField)
	v.SetDefault("gif.width", 400)
	v.SetDefault("gif.height", 400)
	v.SetDefault("gif.every", 6)
	v.SetDefault("gif.max_frames", 500)
	v.SetDefault("gif.delay", 0)
	v.SetDefault("gif.azimuth", 30.0)
	v.SetDefault("gif.elevation", 60.0)
	v.SetDefault("gif.background", "#000000")
	v.SetDefault("export.filename", "trajviz")
	v.SetDefault("export.center", "SSB")
	v.SetDefault("export.epoch", "2000-01-01T12:00:00Z")
	switch preset {
	case PresetKerr:
		v.SetDefault("horizon.radius", 0.0)
		v.SetDefault("horizon.color", "blue")
		v.SetDefault("horizon.opacity", 0.6)
		v.SetDefault("ellipsoid.enabled", true)
		v.SetDefault("ellipsoid.color", "blue")
		v.SetDefault("ellipsoid.opacity", 0.2)
		v.SetDefault("marker.radius", 0.1)
		v.SetDefault("color.enabled", false)
	case PresetError:
		v.SetDefault("horizon.radius", 2.0)
		v.SetDefault("horizon.color", "blue")
		v.SetDefault("horizon.opacity", 0.4)
		v.SetDefault("ellipsoid.enabled", true)
		v.SetDefault("ellipsoid.color", "lightgray")
		v.SetDefault("ellipsoid.opacity", 0.1)
		v.SetDefault("marker.radius", 0.05)
		v.SetDefault("color.enabled", true)
	case PresetPlain:
		v.SetDefault("horizon.radius", 2.0)
		v.SetDefault("horizon.color", "lightgray")
		v.SetDefault("horizon.opacity", 0.5)
		v.SetDefault("ellipsoid.enabled", false)
		v.SetDefault("ellipsoid.color", "blue")
		v.SetDefault("ellipsoid.opacity", 0.2)
		v.SetDefault("marker.radius", 0.1)
		v.SetDefault("color.enabled", false)
	default:
		return fmt.Errorf("%w `%s`", ErrUnknownPreset, preset)
	}
	return nil
}

// LoadConfig returns the configuration of the provided preset, overridden by
// the TOML file at path (if not empty) and by TRAJVIZ_* environment variables.
func LoadConfig(preset, path string) (conf Config, err error) {
	v := viper.New()
	if err = setDefaults(v, preset); err != nil {
		return
	}
	if path != "" {
		v.SetConfigFile(path)
		if err = v.ReadInConfig(); err != nil {
			return conf, fmt.Errorf("%s: %w", path, err)
		}
	}
	v.SetEnvPrefix("TRAJVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return configFrom(v, preset)
}

func configFrom(v *viper.Viper, preset string) (conf Config, err error) {
	conf.Preset = preset
	if conf.Params, err = PresetParams(preset); err != nil {
		return
	}
	conf.Viewport = Viewport{Width: v.GetInt("viewport.width"), Height: v.GetInt("viewport.height"), Range: v.GetFloat64("viewport.range")}
	if conf.Viewport.Width <= 0 || conf.Viewport.Height <= 0 || conf.Viewport.Range <= 0 {
		return conf, fmt.Errorf("invalid viewport %dx%d ±%f", conf.Viewport.Width, conf.Viewport.Height, conf.Viewport.Range)
	}
	conf.Rate = v.GetFloat64("rate")

	colors := make(map[string]colorful.Color)
	for _, key := range []string{"horizon.color", "ellipsoid.color", "marker.color", "gif.background"} {
		if colors[key], err = ParseColor(v.GetString(key)); err != nil {
			return conf, fmt.Errorf("%s: %w", key, err)
		}
	}

	conf.Horizon = HorizonConfig{
		Enabled: v.GetBool("horizon.enabled"),
		Radius:  v.GetFloat64("horizon.radius"),
		Color:   colors["horizon.color"],
		Opacity: v.GetFloat64("horizon.opacity"),
	}
	if conf.Params != ParamsRequired && conf.Horizon.Radius <= 0 {
		return conf, fmt.Errorf("horizon radius must be positive without parameters (got %f)", conf.Horizon.Radius)
	}
	conf.Ellipsoid = EllipsoidConfig{
		Enabled:     v.GetBool("ellipsoid.enabled"),
		Length:      v.GetFloat64("ellipsoid.length"),
		Height:      v.GetFloat64("ellipsoid.height"),
		WidthFactor: v.GetFloat64("ellipsoid.width_factor"),
		Color:       colors["ellipsoid.color"],
		Opacity:     v.GetFloat64("ellipsoid.opacity"),
	}
	conf.Marker = MarkerConfig{Radius: v.GetFloat64("marker.radius"), Color: colors["marker.color"]}
	conf.ColorCoded = v.GetBool("color.enabled")
	conf.MetricField = v.GetString("color.field")

	conf.GIF = GIFConfig{
		Width:      v.GetInt("gif.width"),
		Height:     v.GetInt("gif.height"),
		Every:      v.GetInt("gif.every"),
		MaxFrames:  v.GetInt("gif.max_frames"),
		Delay:      v.GetInt("gif.delay"),
		Azimuth:    v.GetFloat64("gif.azimuth"),
		Elevation:  v.GetFloat64("gif.elevation"),
		Background: colors["gif.background"],
	}
	if conf.GIF.Every < 1 {
		conf.GIF.Every = 1
	}

	conf.Export = ExportConfig{
		Filename:  v.GetString("export.filename"),
		Center:    v.GetString("export.center"),
		Epoch:     v.GetTime("export.epoch"),
		Timestamp: v.GetBool("export.timestamp"),
		Rate:      conf.Rate,
	}
	return
}
