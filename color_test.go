package trajviz

import (
	"testing"
)

func TestBandOf(t *testing.T) {
	for _, tc := range []struct {
		h     float64
		band  Band
		color string
	}{
		{-150, BandExcellent, "#00ff00"},
		{-120.0001, BandExcellent, "#00ff00"},
		{-120, BandGood, "#808000"},
		{-100, BandGood, "#808000"},
		{-90, BandFair, "#4d4d4d"},
		{-70, BandFair, "#4d4d4d"},
		{-60, BandPoor, "#ff0000"},
		{-10, BandPoor, "#ff0000"},
		{25, BandPoor, "#ff0000"},
	} {
		band := BandOf(tc.h)
		if band != tc.band {
			t.Fatalf("%f: got band %s expected %s", tc.h, band, tc.band)
		}
		if hex := band.Color().Hex(); hex != tc.color {
			t.Fatalf("%f: got color %s expected %s", tc.h, hex, tc.color)
		}
	}
}

func TestBandColors(t *testing.T) {
	if BandGood.Color() != (Olive) || Olive.R != 0.5 || Olive.G != 0.5 || Olive.B != 0 {
		t.Fatal("good band must be olive (0.5, 0.5, 0)")
	}
	if BandFair.Color() != DarkGray || DarkGray.R != 0.3 {
		t.Fatal("fair band must be dark gray (0.3, 0.3, 0.3)")
	}
}

func TestBandPanics(t *testing.T) {
	assertPanic(t, func() {
		_ = Band(0).Color()
	})
	assertPanic(t, func() {
		_ = Band(42).String()
	})
}

func TestParseColor(t *testing.T) {
	for name, exp := range map[string]string{
		"green":     "#00ff00",
		" Blue ":    "#0000ff",
		"LightGray": "#b3b3b3",
		"#123456":   "#123456",
	} {
		c, err := ParseColor(name)
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if c.Hex() != exp {
			t.Fatalf("%s: got %s expected %s", name, c.Hex(), exp)
		}
	}
	for _, name := range []string{"", "mauve", "#12"} {
		if _, err := ParseColor(name); err == nil {
			t.Fatalf("%q should not parse", name)
		}
	}
}
