package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

const (
	pointsPerInch = 72
	sliceFontSize = 11
	legendSwatch  = 0.9
	legendLeading = 1.6
	sliceStroke   = 1
)

// Slice is one wedge of a pie or donut with its legend text.
type Slice struct {
	Value   float64
	Percent float64
	Legend  string
}

// Percentages returns each value as a share of the total in percent.
func Percentages(values []float64) ([]float64, error) {
	total := 0.0
	for _, v := range values {
		total += v
	}

	if total <= 0 {
		return nil, ErrEmptySeries
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / total * 100
	}

	return out, nil
}

// FormatPercent renders a share with one decimal.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

func drawingColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// pxFromPoints converts a font size in points to pixels at dpi.
func pxFromPoints(pt float64, dpi int) int {
	return int(pt * float64(dpi) / pointsPerInch)
}

// pieLayout places the circle and the legend on a canvas of width x height pixels.
type pieLayout struct {
	width, height int
	// legendLeft reports whether the legend sits left of the circle.
	legendLeft bool
	legendX    int
	padding    chart.Box
}

func newPieLayout(width, height int, legendShare float64, legendLeft bool) pieLayout {
	legendW := int(float64(width) * legendShare)
	margin := height / 20
	title := height / 8

	l := pieLayout{width: width, height: height, legendLeft: legendLeft}

	if legendLeft {
		l.legendX = margin
		l.padding = chart.Box{Top: title, Left: legendW + margin, Right: margin, Bottom: margin}
	} else {
		l.legendX = width - legendW
		l.padding = chart.Box{Top: title, Left: margin, Right: legendW + margin, Bottom: margin}
	}

	return l
}

func sliceValues(st style.Style, slices []Slice) []chart.Value {
	out := make([]chart.Value, len(slices))

	for i, s := range slices {
		out[i] = chart.Value{
			Value: s.Value,
			Label: FormatPercent(s.Percent),
			Style: chart.Style{
				FillColor:   drawingColor(st.Series(i)),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: sliceStroke,
				FontColor:   drawing.ColorBlack,
				FontSize:    sliceFontSize,
			},
		}
	}

	return out
}

// legend returns an element that draws colored swatches with their legend text.
func legend(st style.Style, layout pieLayout, title string, slices []Slice) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		fontPx := pxFromPoints(st.TickSize, st.DPI)
		row := int(float64(fontPx) * legendLeading)
		swatch := int(float64(fontPx) * legendSwatch)

		top := layout.height/2 - row*(len(slices)+1)/2
		x := layout.legendX

		chart.Draw.Text(r, title, x, top, chart.Style{
			Font:      defaults.Font,
			FontSize:  st.LabelSize,
			FontColor: drawingColor(st.TextColor()),
		})

		for i, s := range slices {
			y := top + row*(i+1)

			chart.Draw.Box(r, chart.Box{Top: y - swatch, Left: x, Right: x + swatch, Bottom: y}, chart.Style{
				FillColor:   drawingColor(st.Series(i)),
				StrokeColor: drawingColor(st.Series(i)),
				StrokeWidth: 1,
			})

			chart.Draw.Text(r, s.Legend, x+swatch+swatch/2, y, chart.Style{
				Font:      defaults.Font,
				FontSize:  st.TickSize,
				FontColor: drawingColor(st.TextColor()),
			})
		}
	}
}

func titleStyle(st style.Style, size float64) chart.Style {
	return chart.Style{
		FontSize:  size,
		FontColor: drawingColor(st.TextColor()),
	}
}

// renderPie draws a pie (or a donut when donut is set) to a decoded image.
func renderPie(st style.Style, layout pieLayout, title, legendTitle string, titleSize float64,
	slices []Slice, donut bool,
) (image.Image, error) {
	var buf bytes.Buffer

	background := chart.Style{
		Padding:   layout.padding,
		FillColor: drawingColor(st.BackgroundColor()),
	}

	elements := []chart.Renderable{legend(st, layout, legendTitle, slices)}

	var err error

	if donut {
		c := chart.DonutChart{
			Title:      title,
			TitleStyle: titleStyle(st, titleSize),
			Width:      layout.width,
			Height:     layout.height,
			DPI:        float64(st.DPI),
			Background: background,
			Values:     sliceValues(st, slices),
			Elements:   elements,
		}
		err = c.Render(chart.PNG, &buf)
	} else {
		c := chart.PieChart{
			Title:      title,
			TitleStyle: titleStyle(st, titleSize),
			Width:      layout.width,
			Height:     layout.height,
			DPI:        float64(st.DPI),
			Background: background,
			Values:     sliceValues(st, slices),
			Elements:   elements,
		}
		err = c.Render(chart.PNG, &buf)
	}

	if err != nil {
		return nil, err
	}

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}

	return img, nil
}
