// Package profile holds the fixed label and weight tables used by the chart renderers.
//
// The tables are hand-maintained content rather than data derived from the
// metadata document: domain labels, timeline milestones, per-bucket popularity
// estimates and skill scores. A default profile is embedded; a YAML file can
// replace it wholesale.
package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Sentinel validation errors.
var (
	ErrNoHeatmapDomains = errors.New("profile has no heatmap domains")
	ErrNoScaleBuckets   = errors.New("profile has no scale buckets")
	ErrFewSkills        = errors.New("radar needs at least three skills")
	ErrSkillScore       = errors.New("skill score out of range")
	ErrNegativeWeight   = errors.New("scale bucket weight must be non-negative")
	ErrEmptyKey         = errors.New("empty key")
)

// MaxSkillScore is the upper bound of a skill score.
const MaxSkillScore = 100

const minRadarSkills = 3

// Profile is the full set of chart tables.
type Profile struct {
	HeatmapDomains []Domain          `yaml:"heatmap_domains"`
	DomainLabels   map[string]string `yaml:"domain_labels"`
	Milestones     []Milestone       `yaml:"milestones"`
	ScaleBuckets   []ScaleBucket     `yaml:"scale_buckets"`
	Skills         []Skill           `yaml:"skills"`
}

// Domain is a heatmap row: the metadata key and its display label.
type Domain struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// Milestone is a timeline callout anchored at a year.
type Milestone struct {
	Year string `yaml:"year"`
	// Label is the callout text.
	Label string `yaml:"label"`
	// OffsetPercent lifts the callout text above the bar, as a percentage of the tallest bar.
	OffsetPercent float64 `yaml:"offset_percent"`
}

// ScaleBucket is a project-size tier with its estimated average star count.
type ScaleBucket struct {
	Key      string  `yaml:"key"`
	Label    string  `yaml:"label"`
	AvgStars float64 `yaml:"avg_stars"`
}

// Skill is one spoke of the radar chart.
type Skill struct {
	Name  string  `yaml:"name"`
	Score float64 `yaml:"score"`
}

// Default returns the embedded profile.
func Default() Profile {
	p, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("profile: embedded default is invalid: %v", err))
	}

	return p
}

// Load reads a profile from a YAML file. An empty path returns the default.
func Load(path string) (Profile, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (Profile, error) {
	var p Profile

	err := yaml.Unmarshal(data, &p)
	if err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}

	validateErr := p.Validate()
	if validateErr != nil {
		return Profile{}, fmt.Errorf("invalid profile: %w", validateErr)
	}

	return p, nil
}

// Validate checks the profile for structural problems.
func (p Profile) Validate() error {
	if len(p.HeatmapDomains) == 0 {
		return ErrNoHeatmapDomains
	}

	for i, d := range p.HeatmapDomains {
		if d.Key == "" {
			return fmt.Errorf("heatmap domain %d: %w", i, ErrEmptyKey)
		}
	}

	if len(p.ScaleBuckets) == 0 {
		return ErrNoScaleBuckets
	}

	for _, b := range p.ScaleBuckets {
		if b.Key == "" {
			return fmt.Errorf("scale bucket: %w", ErrEmptyKey)
		}

		if b.AvgStars < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeWeight, b.Key)
		}
	}

	if len(p.Skills) < minRadarSkills {
		return fmt.Errorf("%w: got %d", ErrFewSkills, len(p.Skills))
	}

	for _, s := range p.Skills {
		if s.Score < 0 || s.Score > MaxSkillScore {
			return fmt.Errorf("%w: %s=%v", ErrSkillScore, s.Name, s.Score)
		}
	}

	return nil
}

// DomainLabel returns the display label for a domain key, or the key itself
// when no label is configured.
func (p Profile) DomainLabel(key string) string {
	if label, ok := p.DomainLabels[key]; ok && label != "" {
		return label
	}

	return key
}
