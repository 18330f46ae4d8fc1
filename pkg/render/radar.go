package render

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/profile"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

const (
	radarFillAlpha  = 0.25
	radarLineWidth  = 2
	radarMarkerSize = 4
	ringStep        = 20
	ringSegments    = 120
	// Skill names sit just outside the outer ring.
	radarLabelRadius = 112
	radarExtent      = 130
	minRadarSkills   = 3
)

// RadarRings are the labelled radial grid levels.
var RadarRings = []float64{20, 40, 60, 80, 100}

// SkillRadar draws the self-assessed skill profile. It reads no record data.
type SkillRadar struct {
	style  style.Style
	skills []profile.Skill
}

// NewSkillRadar returns the skill radar renderer.
func NewSkillRadar(st style.Style, p profile.Profile) *SkillRadar {
	return &SkillRadar{style: st, skills: p.Skills}
}

// Name implements Renderer.
func (s *SkillRadar) Name() string { return "skill radar chart" }

// Filename implements Renderer.
func (s *SkillRadar) Filename() string { return RadarFile }

// RadarAngles returns n spoke angles in radians, starting at 0 and turning
// counter-clockwise in equal steps.
func RadarAngles(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 2 * math.Pi * float64(i) / float64(n)
	}

	return out
}

// RadarPolygon returns the closed outline of the skill scores: one vertex per
// skill followed by the first vertex again.
func RadarPolygon(skills []profile.Skill) plotter.XYs {
	angles := RadarAngles(len(skills))
	out := make(plotter.XYs, 0, len(skills)+1)

	for i, sk := range skills {
		out = append(out, polar(sk.Score, angles[i]))
	}

	if len(out) > 0 {
		out = append(out, out[0])
	}

	return out
}

func polar(r, theta float64) plotter.XY {
	return plotter.XY{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// Render implements Renderer. rec may be nil.
func (s *SkillRadar) Render(ctx context.Context, _ *metadata.Record, dir string) error {
	ctxErr := ctx.Err()
	if ctxErr != nil {
		return ctxErr
	}

	if len(s.skills) < minRadarSkills {
		return fmt.Errorf("%w: got %d", profile.ErrFewSkills, len(s.skills))
	}

	p := newPlot(s.style, "Skill Matrix Radar", "", "")
	p.HideAxes()

	p.X.Min, p.X.Max = -radarExtent, radarExtent
	p.Y.Min, p.Y.Max = -radarExtent, radarExtent

	err := s.addGrid(p)
	if err != nil {
		return err
	}

	outline := RadarPolygon(s.skills)

	area, err := plotter.NewPolygon(outline[:len(outline)-1])
	if err != nil {
		return fmt.Errorf("radar area: %w", err)
	}

	accent := s.style.Series(0)
	area.Color = style.WithAlpha(accent, radarFillAlpha)
	area.LineStyle.Width = 0

	line, points, err := plotter.NewLinePoints(outline)
	if err != nil {
		return fmt.Errorf("radar outline: %w", err)
	}

	line.Color = accent
	line.Width = vg.Points(radarLineWidth)
	points.Shape = draw.CircleGlyph{}
	points.Color = accent
	points.Radius = vg.Points(radarMarkerSize)

	p.Add(area, line, points)

	names, err := s.skillLabels()
	if err != nil {
		return err
	}

	p.Add(names)

	return savePlot(p, s.style, RadarFigure, dir, s.Filename())
}

func (s *SkillRadar) addGrid(p *plot.Plot) error {
	ringStyle := draw.LineStyle{Color: s.style.GridColor(), Width: vg.Points(1)}

	for _, r := range RadarRings {
		ring := make(plotter.XYs, ringSegments+1)
		for i := range ring {
			ring[i] = polar(r, 2*math.Pi*float64(i)/ringSegments)
		}

		l, err := plotter.NewLine(ring)
		if err != nil {
			return fmt.Errorf("radar ring %v: %w", r, err)
		}

		l.LineStyle = ringStyle

		p.Add(l)
	}

	for _, theta := range RadarAngles(len(s.skills)) {
		spoke, err := plotter.NewLine(plotter.XYs{{}, polar(RadarRings[len(RadarRings)-1], theta)})
		if err != nil {
			return fmt.Errorf("radar spoke: %w", err)
		}

		spoke.LineStyle = ringStyle

		p.Add(spoke)
	}

	xys := make(plotter.XYs, len(RadarRings))
	labels := make([]string, len(RadarRings))

	// Ring labels sit on a spoke between the first two skills.
	labelAngle := math.Pi / float64(len(s.skills))

	for i, r := range RadarRings {
		xys[i] = polar(r, labelAngle)
		labels[i] = fmt.Sprintf("%d%%", int(r))
	}

	rings, err := textLabels(xys, labels, s.style.AnnotationSize, s.style.TextColor(), draw.XLeft, draw.YBottom)
	if err != nil {
		return fmt.Errorf("radar ring labels: %w", err)
	}

	p.Add(rings)

	return nil
}

func (s *SkillRadar) skillLabels() (*plotter.Labels, error) {
	angles := RadarAngles(len(s.skills))
	xys := make(plotter.XYs, len(s.skills))
	labels := make([]string, len(s.skills))

	for i, sk := range s.skills {
		xys[i] = polar(radarLabelRadius, angles[i])
		labels[i] = sk.Name
	}

	l, err := textLabels(xys, labels, s.style.LabelSize, s.style.TextColor(), draw.XCenter, draw.YCenter)
	if err != nil {
		return nil, fmt.Errorf("radar skill labels: %w", err)
	}

	// Anchor each name on the side facing away from the center.
	for i, theta := range angles {
		cos := math.Cos(theta)

		switch {
		case cos > 0.1:
			l.TextStyle[i].XAlign = draw.XLeft
		case cos < -0.1:
			l.TextStyle[i].XAlign = draw.XRight
		}
	}

	return l, nil
}
