package render

import (
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

const gridDash = 4

// newPlot returns a plot with the title, axis labels and font sizes of st applied.
func newPlot(st style.Style, title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()

	p.BackgroundColor = st.BackgroundColor()

	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(st.TitleSize)
	p.Title.TextStyle.Color = st.TextColor()
	p.Title.Padding = vg.Points(st.TitleSize)

	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font.Size = vg.Points(st.LabelSize)
		ax.Label.TextStyle.Color = st.TextColor()
		ax.Tick.Label.Font.Size = vg.Points(st.TickSize)
		ax.Tick.Label.Color = st.TextColor()
		ax.LineStyle.Color = st.GridColor()
		ax.Tick.LineStyle.Color = st.GridColor()
	}

	return p
}

// dashedGrid returns grid lines along one axis only.
func dashedGrid(st style.Style, horizontal bool) *plotter.Grid {
	g := plotter.NewGrid()

	dashed := draw.LineStyle{
		Color:  st.GridColor(),
		Width:  vg.Points(1),
		Dashes: []vg.Length{vg.Points(gridDash), vg.Points(gridDash)},
	}

	if horizontal {
		g.Horizontal = dashed
		g.Vertical.Color = nil
	} else {
		g.Vertical = dashed
		g.Horizontal.Color = nil
	}

	return g
}

// textLabels builds a label layer with every label sharing one style.
func textLabels(xys plotter.XYs, labels []string, size float64, col color.Color,
	xAlign draw.XAlignment, yAlign draw.YAlignment,
) (*plotter.Labels, error) {
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}

	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = vg.Points(size)
		l.TextStyle[i].Color = col
		l.TextStyle[i].XAlign = xAlign
		l.TextStyle[i].YAlign = yAlign
	}

	return l, nil
}

// savePlot draws p onto a raster canvas of fig at dpi and writes it as dir/name.
func savePlot(p *plot.Plot, st style.Style, fig style.Figure, dir, name string) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(fig.Width)*vg.Inch, vg.Length(fig.Height)*vg.Inch),
		vgimg.UseDPI(st.DPI),
		vgimg.UseBackgroundColor(st.BackgroundColor()),
	)

	p.Draw(draw.New(c))

	return writeFile(dir, name, st.DPI, func(w io.Writer) error {
		_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)

		return err
	})
}
