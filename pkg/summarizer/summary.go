// Package summarizer provides summary generation for composition results.
package summarizer

import "time"

// Summary contains all data collected during one composition run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Canvas information
	Canvas CanvasInfo

	// Background source, empty Path for the placeholder
	Background BackgroundInfo

	// Headline rendering, one entry per slot
	Headlines []HeadlineInfo

	// Layout settings
	Layout LayoutInfo

	// Output details
	Output OutputInfo

	// Font registration failures
	FontErrors []string
}

// CanvasInfo describes the output format.
type CanvasInfo struct {
	AspectRatio string
	Width       int
	Height      int
}

// BackgroundInfo describes the background image and its cover crop.
type BackgroundInfo struct {
	Path   string
	Width  int
	Height int

	// Crop in source pixels, zero when no image was drawn
	CropX, CropY, CropWidth, CropHeight float64
}

// HeadlineInfo describes one rendered headline.
type HeadlineInfo struct {
	Lines       []string
	Font        string // resolved family and weight
	Fallback    bool
	FontSize    float64
	StrokeWidth float64
	Y           float64
}

// LayoutInfo contains the stacking settings.
type LayoutInfo struct {
	Anchor string
	Align  string
	Gap    float64
}

// OutputInfo contains information about the written file.
type OutputInfo struct {
	Path       string
	FileSize   int64
	Digest     string
	Unchanged  bool
	DurationMs int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithCanvas sets canvas information.
func (b *Builder) WithCanvas(aspectRatio string, width, height int) *Builder {
	b.summary.Canvas = CanvasInfo{
		AspectRatio: aspectRatio,
		Width:       width,
		Height:      height,
	}
	return b
}

// WithBackground sets background information.
func (b *Builder) WithBackground(bg BackgroundInfo) *Builder {
	b.summary.Background = bg
	return b
}

// WithHeadline appends a headline.
func (b *Builder) WithHeadline(h HeadlineInfo) *Builder {
	b.summary.Headlines = append(b.summary.Headlines, h)
	return b
}

// WithLayout sets layout information.
func (b *Builder) WithLayout(anchor, align string, gap float64) *Builder {
	b.summary.Layout = LayoutInfo{
		Anchor: anchor,
		Align:  align,
		Gap:    gap,
	}
	return b
}

// WithOutput sets output information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// WithFontError records a font registration failure.
func (b *Builder) WithFontError(err error) *Builder {
	if err != nil {
		b.summary.FontErrors = append(b.summary.FontErrors, err.Error())
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
