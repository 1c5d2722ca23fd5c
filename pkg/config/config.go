// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/thumbforge/pkg/colors"
	"github.com/user/thumbforge/pkg/orchestrator"
	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
)

// Config represents a thumbnail job.
type Config struct {
	// Input/Output
	Image  string `yaml:"image"`
	Output string `yaml:"output"`

	// Canvas
	AspectRatio string `yaml:"aspect_ratio"`

	// Headlines
	Headline1 pipeline.HeadlineStyle `yaml:"headline1"`
	Headline2 pipeline.HeadlineStyle `yaml:"headline2"`
	Layout    pipeline.LayoutConfig  `yaml:"layout"`
	Bounds    pipeline.Bounds        `yaml:"bounds"`

	// Fonts registered before composing
	Fonts []FontConfig `yaml:"fonts"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	// Reports
	Summary     string `yaml:"summary"`
	MetricsFile string `yaml:"metrics_file"`
}

// FontConfig is a font file registered under a family and weight.
type FontConfig struct {
	Family string `yaml:"family"`
	Weight int    `yaml:"weight"`
	Path   string `yaml:"path"`
}

// DefaultFontFamily is requested by both headlines unless overridden. It is
// not bundled; without a matching font entry the built-in family is used.
const DefaultFontFamily = "Poppins"

// DefaultFontWeight is the black weight headlines use by default.
const DefaultFontWeight = 900

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		AspectRatio: string(pipeline.DefaultAspectRatio),

		Headline1: pipeline.HeadlineStyle{
			Color:            "#FFFFFF",
			FillOpacityPct:   100,
			FontFamily:       DefaultFontFamily,
			FontWeight:       DefaultFontWeight,
			FontSizePct:      10,
			StrokeColor:      "#000000",
			StrokeWidthPct:   10,
			StrokeOpacityPct: 100,
		},
		Headline2: pipeline.HeadlineStyle{
			Color:            "#FFFF00",
			FillOpacityPct:   100,
			FontFamily:       DefaultFontFamily,
			FontWeight:       DefaultFontWeight,
			FontSizePct:      8,
			StrokeColor:      "#000000",
			StrokeWidthPct:   10,
			StrokeOpacityPct: 100,
		},
		Layout: pipeline.LayoutConfig{
			VerticalAnchor:       pipeline.AnchorBottom,
			HorizontalAlign:      pipeline.AlignCenter,
			InterBlockSpacingPct: 2,
		},
		Bounds: pipeline.DefaultBounds(),

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file. Relative image, output
// and font paths are resolved against the file's directory.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.Image = resolvePath(base, cfg.Image)
	cfg.Output = resolvePath(base, cfg.Output)
	for i := range cfg.Fonts {
		cfg.Fonts[i].Path = resolvePath(base, cfg.Fonts[i].Path)
	}

	return cfg, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Validate reports problems that are corrected silently at composition
// time: unknown enums, out-of-range percentages and unparsable colors.
func (c Config) Validate() []string {
	var problems []string

	if _, ok := pipeline.ParseAspectRatio(c.AspectRatio); !ok {
		problems = append(problems, fmt.Sprintf("aspect_ratio %q is not supported, using %s", c.AspectRatio, pipeline.DefaultAspectRatio))
	}
	if got := c.Bounds.ClampLayout(c.Layout); got != c.Layout {
		problems = append(problems, fmt.Sprintf("layout %+v adjusted to %+v", c.Layout, got))
	}

	for i, h := range []pipeline.HeadlineStyle{c.Headline1, c.Headline2} {
		name := fmt.Sprintf("headline%d", i+1)
		if got := c.Bounds.ClampHeadline(h); got != h {
			problems = append(problems, fmt.Sprintf("%s percentages out of range, clamped", name))
		}
		if !colors.Valid(h.Color) {
			problems = append(problems, fmt.Sprintf("%s color %q is invalid, using black", name, h.Color))
		}
		if !colors.Valid(h.StrokeColor) {
			problems = append(problems, fmt.Sprintf("%s stroke_color %q is invalid, using black", name, h.StrokeColor))
		}
	}

	for _, f := range c.Fonts {
		if f.Family == "" || f.Path == "" {
			problems = append(problems, fmt.Sprintf("font entry %+v needs family and path", f))
		}
	}

	return problems
}

// ParseFontFlag parses "family:weight:path". The path may itself contain
// colons.
func ParseFontFlag(s string) (FontConfig, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return FontConfig{}, fmt.Errorf("font %q: expected family:weight:path", s)
	}
	weight, err := strconv.Atoi(parts[1])
	if err != nil || weight < 1 || weight > 1000 {
		return FontConfig{}, fmt.Errorf("font %q: invalid weight %q", s, parts[1])
	}
	return FontConfig{Family: parts[0], Weight: weight, Path: parts[2]}, nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	ratio, _ := pipeline.ParseAspectRatio(c.AspectRatio)

	cfg := orchestrator.DefaultConfig()
	cfg.ImagePath = c.Image
	cfg.OutputPath = c.Output
	cfg.Format = OutputFormat(c.Output)
	cfg.AspectRatio = ratio
	cfg.Headlines = [pipeline.HeadlineSlots]pipeline.HeadlineStyle{c.Headline1, c.Headline2}
	cfg.Layout = c.Layout

	for _, f := range c.Fonts {
		cfg.Fonts = append(cfg.Fonts, orchestrator.FontSource{
			Family: f.Family,
			Weight: f.Weight,
			Path:   f.Path,
		})
	}
	return cfg
}

// OutputFormat picks JPEG for .jpg and .jpeg outputs and PNG otherwise.
func OutputFormat(path string) ports.ImageFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return ports.FormatJPEG
	default:
		return ports.FormatPNG
	}
}

// CompositionInput returns the composition inputs without a background.
func (c Config) CompositionInput() pipeline.CompositionInput {
	ratio, _ := pipeline.ParseAspectRatio(c.AspectRatio)
	return pipeline.CompositionInput{
		AspectRatio: ratio,
		Headlines:   [pipeline.HeadlineSlots]pipeline.HeadlineStyle{c.Headline1, c.Headline2},
		Layout:      c.Layout,
	}
}
