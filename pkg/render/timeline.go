package render

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/profile"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

const (
	timelineHeadroom   = 1.2
	timelineBarAlpha   = 0.7
	timelineBarShare   = 0.7
	timelinePlotShare  = 0.8
	timelineMarkerSize = 4
	timelineLineWidth  = 2
	// Gap between a callout and the bar label beneath it, as a share of the tallest bar.
	calloutGap = 0.04
)

// Timeline draws per-year contribution counts with milestone callouts.
type Timeline struct {
	style      style.Style
	milestones []profile.Milestone
}

// NewTimeline returns the timeline renderer.
func NewTimeline(st style.Style, p profile.Profile) *Timeline {
	return &Timeline{style: st, milestones: p.Milestones}
}

// Name implements Renderer.
func (t *Timeline) Name() string { return "contribution timeline" }

// Filename implements Renderer.
func (t *Timeline) Filename() string { return TimelineFile }

// Callout is a milestone resolved to chart coordinates.
type Callout struct {
	Label string
	Year  int
	Count float64
	// TextY is where the callout text sits.
	TextY float64
}

// TimelineData is the prepared input of the timeline.
type TimelineData struct {
	Years    []int
	Counts   []float64
	Max      float64
	YMax     float64
	Callouts []Callout
}

// PrepareTimeline parses the year keys and resolves every milestone against them.
// A milestone whose year is not a key of by_year is an error.
func PrepareTimeline(byYear metadata.Counts, milestones []profile.Milestone) (TimelineData, error) {
	keys := byYear.Keys()
	if len(keys) == 0 {
		return TimelineData{}, fmt.Errorf("by_year: %w", ErrEmptySeries)
	}

	years := make([]int, len(keys))

	for i, k := range keys {
		y, err := strconv.Atoi(k)
		if err != nil {
			return TimelineData{}, fmt.Errorf("%w: %q", ErrYearFormat, k)
		}

		years[i] = y
	}

	counts := byYear.Floats()
	maxCount := slices.Max(counts)

	data := TimelineData{
		Years:  years,
		Counts: counts,
		Max:    maxCount,
		YMax:   maxCount * timelineHeadroom,
	}

	if data.YMax == 0 {
		data.YMax = 1
	}

	for _, m := range milestones {
		idx := slices.Index(keys, m.Year)
		if idx < 0 {
			return TimelineData{}, fmt.Errorf("%w: %s (%s)", ErrMilestoneYear, m.Year, m.Label)
		}

		count := counts[idx]

		data.Callouts = append(data.Callouts, Callout{
			Label: m.Label,
			Year:  years[idx],
			Count: count,
			TextY: count + maxCount*(m.OffsetPercent/100+calloutGap),
		})
	}

	return data, nil
}

// Render implements Renderer.
func (t *Timeline) Render(ctx context.Context, rec *metadata.Record, dir string) error {
	err := checkRecord(ctx, rec)
	if err != nil {
		return err
	}

	data, err := PrepareTimeline(rec.Statistics.ByYear, t.milestones)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Contribution Timeline (%d-%d)", slices.Min(data.Years), slices.Max(data.Years))
	p := newPlot(t.style, title, "Year", "Pull Requests")
	p.Add(dashedGrid(t.style, true))

	err = t.addBars(p, data)
	if err != nil {
		return err
	}

	err = t.addTrend(p, data)
	if err != nil {
		return err
	}

	err = t.addAnnotations(p, data)
	if err != nil {
		return err
	}

	ticks := make([]plot.Tick, len(data.Years))
	for i, y := range data.Years {
		ticks[i] = plot.Tick{Value: float64(y), Label: strconv.Itoa(y)}
	}

	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Min = float64(slices.Min(data.Years)) - 1
	p.X.Max = float64(slices.Max(data.Years)) + 1
	p.Y.Min = 0
	p.Y.Max = data.YMax

	return savePlot(p, t.style, TimelineFigure, dir, t.Filename())
}

// barWidth spreads the bars over the plot area so neighbouring years do not touch.
func barWidth(years []int) vg.Length {
	span := slices.Max(years) - slices.Min(years) + 3
	area := vg.Length(TimelineFigure.Width) * vg.Inch * timelinePlotShare

	return area / vg.Length(span) * timelineBarShare
}

func (t *Timeline) addBars(p *plot.Plot, data TimelineData) error {
	width := barWidth(data.Years)
	fill := style.WithAlpha(t.style.Series(0), timelineBarAlpha)

	for i, y := range data.Years {
		bar, err := plotter.NewBarChart(plotter.Values{data.Counts[i]}, width)
		if err != nil {
			return fmt.Errorf("timeline bar %d: %w", y, err)
		}

		bar.XMin = float64(y)
		bar.Color = fill
		bar.LineStyle.Width = 0

		p.Add(bar)
	}

	return nil
}

func (t *Timeline) addTrend(p *plot.Plot, data TimelineData) error {
	xys := make(plotter.XYs, len(data.Years))
	for i, y := range data.Years {
		xys[i] = plotter.XY{X: float64(y), Y: data.Counts[i]}
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("timeline trend: %w", err)
	}

	accent := t.style.Series(1)
	line.Color = accent
	line.Width = vg.Points(timelineLineWidth)
	points.Shape = draw.CircleGlyph{}
	points.Color = accent
	points.Radius = vg.Points(timelineMarkerSize)

	p.Add(line, points)

	return nil
}

func (t *Timeline) addAnnotations(p *plot.Plot, data TimelineData) error {
	xys := make(plotter.XYs, len(data.Years))
	labels := make([]string, len(data.Years))

	for i, y := range data.Years {
		xys[i] = plotter.XY{X: float64(y), Y: data.Counts[i]}
		labels[i] = strconv.Itoa(int(data.Counts[i]))
	}

	counts, err := textLabels(xys, labels, t.style.TickSize, t.style.TextColor(), draw.XCenter, draw.YBottom)
	if err != nil {
		return fmt.Errorf("timeline labels: %w", err)
	}

	counts.Offset = vg.Point{Y: vg.Points(t.style.TickSize / 2)}

	p.Add(counts)

	if len(data.Callouts) == 0 {
		return nil
	}

	cxys := make(plotter.XYs, len(data.Callouts))
	clabels := make([]string, len(data.Callouts))

	for i, c := range data.Callouts {
		cxys[i] = plotter.XY{X: float64(c.Year), Y: c.TextY}
		clabels[i] = c.Label

		arrow, err := plotter.NewLine(plotter.XYs{
			{X: float64(c.Year), Y: c.TextY},
			{X: float64(c.Year), Y: c.Count + data.Max*calloutGap},
		})
		if err != nil {
			return fmt.Errorf("callout %s: %w", c.Label, err)
		}

		arrow.Color = t.style.TextColor()
		arrow.Width = vg.Points(1)

		p.Add(arrow)
	}

	callouts, err := textLabels(cxys, clabels, t.style.TickSize, t.style.TextColor(), draw.XCenter, draw.YBottom)
	if err != nil {
		return fmt.Errorf("timeline callouts: %w", err)
	}

	p.Add(callouts)

	return nil
}
