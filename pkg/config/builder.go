package config

import (
	"github.com/user/thumbforge/pkg/pipeline"
)

// Builder provides a fluent interface for applying overrides, typically
// command line flags, on top of a base Config.
type Builder struct {
	config Config
}

// NewBuilder creates a new Builder starting from base.
func NewBuilder(base Config) *Builder {
	base.Fonts = append([]FontConfig(nil), base.Fonts...)
	return &Builder{config: base}
}

// Build returns the final Config. Unknown aspect ratios are replaced by
// the default and the bounds are applied to both headlines and the layout.
func (b *Builder) Build() Config {
	cfg := b.config

	ratio, _ := pipeline.ParseAspectRatio(cfg.AspectRatio)
	cfg.AspectRatio = string(ratio)

	cfg.Headline1 = cfg.Bounds.ClampHeadline(cfg.Headline1)
	cfg.Headline2 = cfg.Bounds.ClampHeadline(cfg.Headline2)
	cfg.Layout = cfg.Bounds.ClampLayout(cfg.Layout)

	return cfg
}

// Validate reports the problems Build will correct. It must be called
// before Build to see them.
func (b *Builder) Validate() []string {
	return b.config.Validate()
}

// WithImage sets the background image path.
func (b *Builder) WithImage(path string) *Builder {
	b.config.Image = path
	return b
}

// WithOutput sets the output path.
func (b *Builder) WithOutput(path string) *Builder {
	b.config.Output = path
	return b
}

// WithAspectRatio sets the output format ("16:9", "9:16" or "1:1").
func (b *Builder) WithAspectRatio(ratio string) *Builder {
	b.config.AspectRatio = ratio
	return b
}

// WithHeadline1 sets the text of the first headline.
func (b *Builder) WithHeadline1(text string) *Builder {
	b.config.Headline1.Text = text
	return b
}

// WithHeadline2 sets the text of the second headline.
func (b *Builder) WithHeadline2(text string) *Builder {
	b.config.Headline2.Text = text
	return b
}

// WithFontFamily sets family and weight for both headlines.
func (b *Builder) WithFontFamily(family string, weight int) *Builder {
	b.config.Headline1.FontFamily = family
	b.config.Headline1.FontWeight = weight
	b.config.Headline2.FontFamily = family
	b.config.Headline2.FontWeight = weight
	return b
}

// WithAnchor sets the vertical anchor of the headline stack.
func (b *Builder) WithAnchor(anchor pipeline.VerticalAnchor) *Builder {
	b.config.Layout.VerticalAnchor = anchor
	return b
}

// WithAlign sets the horizontal alignment of every line.
func (b *Builder) WithAlign(align pipeline.HorizontalAlign) *Builder {
	b.config.Layout.HorizontalAlign = align
	return b
}

// WithSpacing sets the gap between the headlines as a percentage of the
// canvas min dimension.
func (b *Builder) WithSpacing(pct float64) *Builder {
	b.config.Layout.InterBlockSpacingPct = pct
	return b
}

// WithFont adds a font file to register before composing.
func (b *Builder) WithFont(font FontConfig) *Builder {
	b.config.Fonts = append(b.config.Fonts, font)
	return b
}

// WithDebug enables the debug sink writing into dir.
func (b *Builder) WithDebug(dir string) *Builder {
	b.config.Debug = true
	if dir != "" {
		b.config.DebugDir = dir
	}
	return b
}

// WithSummary sets the Markdown summary path.
func (b *Builder) WithSummary(path string) *Builder {
	b.config.Summary = path
	return b
}

// WithMetricsFile sets the Prometheus textfile path.
func (b *Builder) WithMetricsFile(path string) *Builder {
	b.config.MetricsFile = path
	return b
}
