package render

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/src-d/enry/v2"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

const (
	languageBarAlpha  = 0.8
	languageBarShare  = 0.6
	languagePlotShare = 0.75
	// Room right of the longest bar for its count label.
	languageHeadroom = 1.1
)

// LanguageBars draws contributions per programming language, largest first.
type LanguageBars struct {
	style style.Style
}

// NewLanguageBars returns the language bar renderer.
func NewLanguageBars(st style.Style) *LanguageBars {
	return &LanguageBars{style: st}
}

// Name implements Renderer.
func (l *LanguageBars) Name() string { return "language usage bar chart" }

// Filename implements Renderer.
func (l *LanguageBars) Filename() string { return LanguageFile }

// LanguageBar is one bar of the language chart.
type LanguageBar struct {
	Key   string
	Name  string
	Count int
	// Row is the y position; the largest count gets the highest row.
	Row int
}

// PrepareLanguageBars sorts by_language by count descending. Ties keep their
// document order. Keys whose canonical names collide keep their raw key as
// the label so every bar stays distinguishable.
func PrepareLanguageBars(byLanguage metadata.Counts) []LanguageBar {
	entries := byLanguage.Entries()

	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		seen[DisplayLanguage(e.Key)]++
	}

	out := make([]LanguageBar, len(entries))
	for i, e := range entries {
		name := DisplayLanguage(e.Key)
		if seen[name] > 1 {
			name = e.Key
		}

		out[i] = LanguageBar{Key: e.Key, Name: name, Count: e.Count}
	}

	slices.SortStableFunc(out, func(a, b LanguageBar) int {
		return b.Count - a.Count
	})

	for i := range out {
		out[i].Row = len(out) - 1 - i
	}

	return out
}

// DisplayLanguage returns the canonical language name for a key such as
// "golang" or "c++", or the key itself when it is not a known alias.
func DisplayLanguage(key string) string {
	lang, ok := enry.GetLanguageByAlias(key)
	if !ok || lang == "" {
		return key
	}

	return lang
}

// Render implements Renderer.
func (l *LanguageBars) Render(ctx context.Context, rec *metadata.Record, dir string) error {
	err := checkRecord(ctx, rec)
	if err != nil {
		return err
	}

	bars := PrepareLanguageBars(rec.Statistics.ByLanguage)
	if len(bars) == 0 {
		return fmt.Errorf("by_language: %w", ErrEmptySeries)
	}

	p := newPlot(l.style, "Programming Language Distribution", "Pull Requests", "")
	p.Add(dashedGrid(l.style, false))

	n := len(bars)
	width := vg.Length(LanguageFigure.Height) * vg.Inch * languagePlotShare / vg.Length(n) * languageBarShare
	names := make([]string, n)
	xys := make(plotter.XYs, n)
	labels := make([]string, n)
	maxCount := 0

	for i, b := range bars {
		row := b.Row
		names[row] = b.Name
		xys[row] = plotter.XY{X: float64(b.Count), Y: float64(row)}
		labels[row] = strconv.Itoa(b.Count)
		maxCount = max(maxCount, b.Count)

		bar, barErr := plotter.NewBarChart(plotter.Values{float64(b.Count)}, width)
		if barErr != nil {
			return fmt.Errorf("language bar %s: %w", b.Key, barErr)
		}

		bar.Horizontal = true
		bar.XMin = float64(row)
		bar.Color = style.WithAlpha(l.style.Series(i), languageBarAlpha)
		bar.LineStyle.Width = 0

		p.Add(bar)
	}

	counts, err := textLabels(xys, labels, l.style.TickSize, l.style.TextColor(), draw.XLeft, draw.YCenter)
	if err != nil {
		return fmt.Errorf("language labels: %w", err)
	}

	counts.Offset = vg.Point{X: vg.Points(l.style.TickSize / 2)}

	p.Add(counts)
	p.NominalY(names...)

	p.X.Min = 0
	p.X.Max = float64(max(maxCount, 1)) * languageHeadroom

	return savePlot(p, l.style, LanguageFigure, dir, l.Filename())
}
