package render

import (
	"context"
	"fmt"
	"image/png"
	"io"

	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/profile"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

const domainLegendShare = 0.38

// DomainPie draws the share of contributions per technical domain.
type DomainPie struct {
	style   style.Style
	profile profile.Profile
}

// NewDomainPie returns the domain pie renderer.
func NewDomainPie(st style.Style, p profile.Profile) *DomainPie {
	return &DomainPie{style: st, profile: p}
}

// Name implements Renderer.
func (d *DomainPie) Name() string { return "domain distribution pie chart" }

// Filename implements Renderer.
func (d *DomainPie) Filename() string { return DomainFile }

// PrepareDomainSlices returns one slice per by_domain key in document order,
// with legend text "<label> (<pct>%)".
func PrepareDomainSlices(byDomain metadata.Counts, p profile.Profile) ([]Slice, error) {
	values := byDomain.Floats()

	pcts, err := Percentages(values)
	if err != nil {
		return nil, fmt.Errorf("by_domain: %w", err)
	}

	keys := byDomain.Keys()
	out := make([]Slice, len(keys))

	for i, k := range keys {
		out[i] = Slice{
			Value:   values[i],
			Percent: pcts[i],
			Legend:  fmt.Sprintf("%s (%s)", p.DomainLabel(k), FormatPercent(pcts[i])),
		}
	}

	return out, nil
}

// Render implements Renderer.
func (d *DomainPie) Render(ctx context.Context, rec *metadata.Record, dir string) error {
	err := checkRecord(ctx, rec)
	if err != nil {
		return err
	}

	slices, err := PrepareDomainSlices(rec.Statistics.ByDomain, d.profile)
	if err != nil {
		return err
	}

	w, h := DomainFigure.Pixels(d.style.DPI)
	layout := newPieLayout(w, h, domainLegendShare, false)

	img, err := renderPie(d.style, layout, "Technical Domain Distribution", "Technical Domain",
		d.style.TitleSize, slices, false)
	if err != nil {
		return fmt.Errorf("domain pie: %w", err)
	}

	return writeFile(dir, d.Filename(), d.style.DPI, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}
