package render

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Sumatoshi-tech/contribviz/pkg/distribute"
	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/profile"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

const (
	heatmapTickRotation = math.Pi / 4
	// Cells above this share of the maximum get light text.
	heatmapDarkShare = 0.5
)

// Heatmap draws the per-domain-per-year contribution grid.
type Heatmap struct {
	style   style.Style
	domains []profile.Domain
}

// NewHeatmap returns the heatmap renderer.
func NewHeatmap(st style.Style, p profile.Profile) *Heatmap {
	return &Heatmap{style: st, domains: p.HeatmapDomains}
}

// Name implements Renderer.
func (h *Heatmap) Name() string { return "contribution heatmap" }

// Filename implements Renderer.
func (h *Heatmap) Filename() string { return HeatmapFile }

// HeatmapData is the prepared input of the heatmap.
type HeatmapData struct {
	Years  []string
	Labels []string
	Matrix distribute.Matrix
}

// PrepareHeatmap resolves the fixed domain rows against by_domain and spreads
// their totals over the years.
func PrepareHeatmap(stats metadata.Statistics, domains []profile.Domain) (HeatmapData, error) {
	years := stats.ByYear.Keys()
	if len(years) == 0 {
		return HeatmapData{}, fmt.Errorf("by_year: %w", ErrEmptySeries)
	}

	if len(domains) == 0 {
		return HeatmapData{}, fmt.Errorf("heatmap domains: %w", ErrEmptySeries)
	}

	totals := make([]float64, len(domains))
	labels := make([]string, len(domains))

	for i, d := range domains {
		v, ok := stats.ByDomain.Get(d.Key)
		if !ok {
			return HeatmapData{}, fmt.Errorf("%w: %s", ErrMissingDomain, d.Key)
		}

		totals[i] = float64(v)

		labels[i] = d.Label
		if labels[i] == "" {
			labels[i] = d.Key
		}
	}

	return HeatmapData{
		Years:  years,
		Labels: labels,
		Matrix: distribute.Proportional(totals, stats.ByYear.Floats()),
	}, nil
}

// Render implements Renderer.
func (h *Heatmap) Render(ctx context.Context, rec *metadata.Record, dir string) error {
	err := checkRecord(ctx, rec)
	if err != nil {
		return err
	}

	data, err := PrepareHeatmap(rec.Statistics, h.domains)
	if err != nil {
		return err
	}

	pal, err := brewer.GetPalette(brewer.TypeSequential, style.HeatmapPalette, style.HeatmapShades)
	if err != nil {
		return fmt.Errorf("heatmap palette: %w", err)
	}

	p := newPlot(h.style, "Contribution Heatmap (by Year and Domain)", "Year", "Technical Domain")

	grid := heatGrid{m: data.Matrix}
	hm := plotter.NewHeatMap(grid, pal)
	hm.Min = 0

	hm.Max = data.Matrix.Max()
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}

	p.Add(hm)

	cells, err := heatmapCellLabels(h.style, grid, hm.Max)
	if err != nil {
		return fmt.Errorf("heatmap labels: %w", err)
	}

	p.Add(cells)

	p.NominalX(data.Years...)
	p.NominalY(reversed(data.Labels)...)
	p.X.Tick.Label.Rotation = heatmapTickRotation
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return savePlot(p, h.style, HeatmapFigure, dir, h.Filename())
}

func heatmapCellLabels(st style.Style, g heatGrid, maxValue float64) (*plotter.Labels, error) {
	cols, rows := g.Dims()

	xys := make(plotter.XYs, 0, cols*rows)
	labels := make([]string, 0, cols*rows)
	values := make([]float64, 0, cols*rows)

	for c := range cols {
		for r := range rows {
			v := g.Z(c, r)
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			labels = append(labels, fmt.Sprintf("%.0f", v))
			values = append(values, v)
		}
	}

	l, err := textLabels(xys, labels, st.AnnotationSize, st.TextColor(), draw.XCenter, draw.YCenter)
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		if v > maxValue*heatmapDarkShare {
			l.TextStyle[i].Color = st.BackgroundColor()
		}
	}

	return l, nil
}

// heatGrid adapts a Matrix to plotter.GridXYZ with the first matrix row drawn at the top.
type heatGrid struct {
	m distribute.Matrix
}

func (g heatGrid) Dims() (c, r int) { return g.m.Cols(), g.m.Rows() }

func (g heatGrid) Z(c, r int) float64 { return g.m.At(g.m.Rows()-1-r, c) }

func (g heatGrid) X(c int) float64 { return float64(c) }

func (g heatGrid) Y(r int) float64 { return float64(r) }

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}

	return out
}
