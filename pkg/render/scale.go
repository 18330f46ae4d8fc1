package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/profile"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

const (
	scaleLegendShare = 0.3
	scaleTitleScale  = 14.0 / 16.0
)

// ScaleCharts draws the project-scale pie next to the star-weighted impact donut.
type ScaleCharts struct {
	style   style.Style
	buckets []profile.ScaleBucket
}

// NewScaleCharts returns the project scale renderer.
func NewScaleCharts(st style.Style, p profile.Profile) *ScaleCharts {
	return &ScaleCharts{style: st, buckets: p.ScaleBuckets}
}

// Name implements Renderer.
func (s *ScaleCharts) Name() string { return "project scale breakdown chart" }

// Filename implements Renderer.
func (s *ScaleCharts) Filename() string { return ScaleFile }

// ScaleData holds the pie and donut inputs in bucket order.
type ScaleData struct {
	Counts []Slice
	Impact []Slice
}

// ImpactValues multiplies each bucket's count by its estimated average stars.
func ImpactValues(stats metadata.Statistics, buckets []profile.ScaleBucket) ([]float64, error) {
	out := make([]float64, len(buckets))

	for i, b := range buckets {
		n, err := stats.ScaleCount(b.Key)
		if err != nil {
			return nil, err
		}

		out[i] = float64(n) * b.AvgStars
	}

	return out, nil
}

// PrepareScale builds the pie and donut slices. Legends carry the bucket labels.
func PrepareScale(stats metadata.Statistics, buckets []profile.ScaleBucket) (ScaleData, error) {
	counts := make([]float64, len(buckets))

	for i, b := range buckets {
		n, err := stats.ScaleCount(b.Key)
		if err != nil {
			return ScaleData{}, err
		}

		counts[i] = float64(n)
	}

	impact, err := ImpactValues(stats, buckets)
	if err != nil {
		return ScaleData{}, err
	}

	countSlices, err := scaleSlices(counts, buckets)
	if err != nil {
		return ScaleData{}, fmt.Errorf("by_scale: %w", err)
	}

	impactSlices, err := scaleSlices(impact, buckets)
	if err != nil {
		return ScaleData{}, fmt.Errorf("scale impact: %w", err)
	}

	return ScaleData{Counts: countSlices, Impact: impactSlices}, nil
}

func scaleSlices(values []float64, buckets []profile.ScaleBucket) ([]Slice, error) {
	pcts, err := Percentages(values)
	if err != nil {
		return nil, err
	}

	out := make([]Slice, len(values))

	for i, b := range buckets {
		label := b.Label
		if label == "" {
			label = b.Key
		}

		out[i] = Slice{Value: values[i], Percent: pcts[i], Legend: label}
	}

	return out, nil
}

// Render implements Renderer.
func (s *ScaleCharts) Render(ctx context.Context, rec *metadata.Record, dir string) error {
	err := checkRecord(ctx, rec)
	if err != nil {
		return err
	}

	data, err := PrepareScale(rec.Statistics, s.buckets)
	if err != nil {
		return err
	}

	w, h := ScaleFigure.Pixels(s.style.DPI)
	half := w / 2
	titleSize := s.style.TitleSize * scaleTitleScale

	left, err := renderPie(s.style, newPieLayout(half, h, scaleLegendShare, true),
		"Project Scale Distribution (by PR Count)", "Project Scale", titleSize, data.Counts, false)
	if err != nil {
		return fmt.Errorf("scale pie: %w", err)
	}

	right, err := renderPie(s.style, newPieLayout(w-half, h, scaleLegendShare, false),
		"Project Scale Distribution (by Impact)", "Project Scale", titleSize, data.Impact, true)
	if err != nil {
		return fmt.Errorf("impact donut: %w", err)
	}

	canvas := SideBySide(left, right)

	return writeFile(dir, s.Filename(), s.style.DPI, func(w io.Writer) error {
		return png.Encode(w, canvas)
	})
}

// SideBySide places left and right on one canvas, top-aligned.
func SideBySide(left, right image.Image) *image.RGBA {
	lb, rb := left.Bounds(), right.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, lb.Dx()+rb.Dx(), max(lb.Dy(), rb.Dy())))

	xdraw.Copy(dst, image.Point{}, left, lb, xdraw.Src, nil)
	xdraw.Copy(dst, image.Point{X: lb.Dx()}, right, rb, xdraw.Src, nil)

	return dst
}
