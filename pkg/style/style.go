// Package style defines the plotting style shared by every chart renderer.
package style

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// DefaultDPI is the output resolution of every chart.
const DefaultDPI = 300

// Resolution bounds accepted by Validate.
const (
	MinDPI = 36
	MaxDPI = 1200
)

// ErrInvalidDPI is returned when the resolution is outside MinDPI..MaxDPI.
var ErrInvalidDPI = errors.New("dpi out of range")

// ErrBadColor is returned for a malformed hex color.
var ErrBadColor = errors.New("invalid hex color")

// HeatmapPalette is the sequential color scheme used for heatmap cells.
const HeatmapPalette = "YlGnBu"

// HeatmapShades is the number of palette steps sampled for the heatmap.
const HeatmapShades = 9

// Font sizes in points.
const (
	TitleFontSize      = 16
	LabelFontSize      = 12
	TickFontSize       = 10
	AnnotationFontSize = 9
)

// Muted is the categorical palette used for series and slices.
var Muted = []string{
	"#4878D0", // blue.
	"#EE854A", // orange.
	"#6ACC64", // green.
	"#D65F5F", // red.
	"#956CB4", // purple.
	"#8C613C", // brown.
	"#DC7EC0", // pink.
	"#797979", // gray.
	"#D5BB67", // olive.
	"#82C6E2", // cyan.
}

// Style holds the values every renderer reads.
type Style struct {
	DPI     int
	Palette []string

	Background string
	Grid       string
	Text       string

	TitleSize      float64
	LabelSize      float64
	TickSize       float64
	AnnotationSize float64
}

// Default returns the style used when nothing is overridden.
func Default() Style {
	return Style{
		DPI:            DefaultDPI,
		Palette:        Muted,
		Background:     "#ffffff",
		Grid:           "#e5e5e5",
		Text:           "#262626",
		TitleSize:      TitleFontSize,
		LabelSize:      LabelFontSize,
		TickSize:       TickFontSize,
		AnnotationSize: AnnotationFontSize,
	}
}

// WithDPI returns a copy of s using dpi.
func (s Style) WithDPI(dpi int) Style {
	s.DPI = dpi

	return s
}

// Validate checks the style for unusable values.
func (s Style) Validate() error {
	if s.DPI < MinDPI || s.DPI > MaxDPI {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidDPI, s.DPI, MinDPI, MaxDPI)
	}

	for _, hex := range append([]string{s.Background, s.Grid, s.Text}, s.Palette...) {
		_, err := ParseHex(hex)
		if err != nil {
			return err
		}
	}

	return nil
}

// Series returns the palette color for series i, cycling when i exceeds the palette.
func (s Style) Series(i int) color.RGBA {
	if len(s.Palette) == 0 {
		return color.RGBA{A: 0xff}
	}

	return hexOrBlack(s.Palette[i%len(s.Palette)])
}

// BackgroundColor returns the figure background.
func (s Style) BackgroundColor() color.RGBA {
	return hexOrBlack(s.Background)
}

// GridColor returns the color of grid lines and rings.
func (s Style) GridColor() color.RGBA {
	return hexOrBlack(s.Grid)
}

// TextColor returns the color of titles and labels.
func (s Style) TextColor() color.RGBA {
	return hexOrBlack(s.Text)
}

// Figure is a chart size in inches.
type Figure struct {
	Width  float64
	Height float64
}

// Pixels returns the figure size in pixels at dpi.
func (f Figure) Pixels(dpi int) (width, height int) {
	return int(f.Width * float64(dpi)), int(f.Height * float64(dpi))
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(hex string) (color.RGBA, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, hex)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, hex)
	}

	if len(h) == 6 {
		v = v<<8 | 0xff
	}

	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// WithAlpha returns c with its alpha replaced, premultiplying the color channels.
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	a := alpha * float64(c.A) / 0xff

	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(a * 0xff),
	}
}

func hexOrBlack(hex string) color.RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		return color.RGBA{A: 0xff}
	}

	return c
}
