package trajviz

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette colors, in RGB fractions.
var (
	White     = colorful.Color{R: 1, G: 1, B: 1}
	Red       = colorful.Color{R: 1, G: 0, B: 0}
	Green     = colorful.Color{R: 0, G: 1, B: 0}
	Blue      = colorful.Color{R: 0, G: 0, B: 1}
	LightGray = colorful.Color{R: 0.7, G: 0.7, B: 0.7}
	Olive     = colorful.Color{R: 0.5, G: 0.5, B: 0}
	Purple    = colorful.Color{R: 0.5, G: 0, B: 0.5}
	Teal      = colorful.Color{R: 0, G: 0.5, B: 0.5}
	DarkGray  = colorful.Color{R: 0.3, G: 0.3, B: 0.3}
)

var namedColors = map[string]colorful.Color{
	"white":     White,
	"red":       Red,
	"green":     Green,
	"blue":      Blue,
	"lightgray": LightGray,
	"olive":     Olive,
	"purple":    Purple,
	"teal":      Teal,
	"darkgray":  DarkGray,
}

// ParseColor returns the color from its palette name or its hex code (#rrggbb).
func ParseColor(s string) (colorful.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return colorful.Hex(s)
	}
	return colorful.Color{}, fmt.Errorf("unknown color `%s`", s)
}

// Band is an error metric range.
type Band uint8

const (
	// BandExcellent is for metrics strictly below -120.
	BandExcellent Band = iota + 1
	// BandGood is for metrics in [-120, -90).
	BandGood
	// BandFair is for metrics in [-90, -60).
	BandFair
	// BandPoor is for metrics of -60 and above.
	BandPoor
)

// Band thresholds, evaluated in order with a strict comparison.
const (
	excellentBelow = -120.0
	goodBelow      = -90.0
	fairBelow      = -60.0
)

// BandOf returns the band of the provided error metric.
func BandOf(h float64) Band {
	switch {
	case h < excellentBelow:
		return BandExcellent
	case h < goodBelow:
		return BandGood
	case h < fairBelow:
		return BandFair
	default:
		return BandPoor
	}
}

// Color returns the color used to paint the marker and trail in this band.
func (b Band) Color() colorful.Color {
	switch b {
	case BandExcellent:
		return Green
	case BandGood:
		return Olive
	case BandFair:
		return DarkGray
	case BandPoor:
		return Red
	}
	panic("cannot color unknown band")
}

func (b Band) String() string {
	switch b {
	case BandExcellent:
		return "excellent"
	case BandGood:
		return "good"
	case BandFair:
		return "fair"
	case BandPoor:
		return "poor"
	}
	panic("cannot stringify unknown band")
}
