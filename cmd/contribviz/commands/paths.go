package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/contribviz/pkg/config"
)

// Paths are the resolved locations of one run.
type Paths struct {
	Anchor    string
	Metadata  string
	OutputDir string
	Profile   string
}

// ResolveAnchor returns anchor as an absolute path, or the directory of the
// running executable when anchor is empty.
func ResolveAnchor(anchor string) (string, error) {
	if anchor != "" {
		abs, err := filepath.Abs(anchor)
		if err != nil {
			return "", fmt.Errorf("resolve anchor: %w", err)
		}

		return abs, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}

	return filepath.Dir(resolved), nil
}

// ResolvePaths derives the input and output locations from cfg. The output
// directory is taken relative to the anchor; explicit metadata and profile
// paths are taken relative to the working directory.
func ResolvePaths(cfg *config.Config) (Paths, error) {
	anchor, err := ResolveAnchor(cfg.Anchor)
	if err != nil {
		return Paths{}, err
	}

	p := Paths{
		Anchor:    anchor,
		OutputDir: underAnchor(anchor, cfg.OutputDir),
		Metadata:  underAnchor(anchor, config.DefaultMetadataPath),
	}

	if cfg.Metadata != "" {
		p.Metadata, err = filepath.Abs(cfg.Metadata)
		if err != nil {
			return Paths{}, fmt.Errorf("resolve metadata path: %w", err)
		}
	}

	if cfg.Profile != "" {
		p.Profile, err = filepath.Abs(cfg.Profile)
		if err != nil {
			return Paths{}, fmt.Errorf("resolve profile path: %w", err)
		}
	}

	return p, nil
}

func underAnchor(anchor, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(anchor, path)
}
