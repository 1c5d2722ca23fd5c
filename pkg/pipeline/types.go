package pipeline

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/user/thumbforge/pkg/ports"
)

// =============================================================================
// Canvas
// =============================================================================

// AspectRatio selects one of the supported output formats.
type AspectRatio string

const (
	Ratio16x9 AspectRatio = "16:9"
	Ratio9x16 AspectRatio = "9:16"
	Ratio1x1  AspectRatio = "1:1"

	// DefaultAspectRatio is used for unknown selectors.
	DefaultAspectRatio = Ratio16x9
)

// AspectRatios lists the supported ratios in display order.
var AspectRatios = []AspectRatio{Ratio16x9, Ratio9x16, Ratio1x1}

// ParseAspectRatio parses "16:9", "9:16" or "1:1". The boolean is false for
// anything else, in which case DefaultAspectRatio is returned.
func ParseAspectRatio(s string) (AspectRatio, bool) {
	switch r := AspectRatio(strings.TrimSpace(s)); r {
	case Ratio16x9, Ratio9x16, Ratio1x1:
		return r, true
	default:
		return DefaultAspectRatio, false
	}
}

// CanvasSpec is the fixed pixel size of one output format.
type CanvasSpec struct {
	AspectRatio AspectRatio `json:"aspectRatio"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
}

// ResolveCanvas maps an aspect ratio to its pixel dimensions.
// Unknown selectors resolve to DefaultAspectRatio.
func ResolveCanvas(r AspectRatio) CanvasSpec {
	switch r {
	case Ratio9x16:
		return CanvasSpec{AspectRatio: Ratio9x16, Width: 720, Height: 1280}
	case Ratio1x1:
		return CanvasSpec{AspectRatio: Ratio1x1, Width: 1080, Height: 1080}
	default:
		return CanvasSpec{AspectRatio: Ratio16x9, Width: 1280, Height: 720}
	}
}

// MinDimension returns min(width, height), the base of all percentage sizes.
func (c CanvasSpec) MinDimension() int {
	if c.Width < c.Height {
		return c.Width
	}
	return c.Height
}

// PercentOfMin converts a percentage of the min dimension to pixels.
func (c CanvasSpec) PercentOfMin(pct float64) float64 {
	return pct * float64(c.MinDimension()) / 100
}

// PlaceholderColor fills the canvas when no background image is set (#E5E7EB).
var PlaceholderColor = color.RGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}

// =============================================================================
// Headline styling
// =============================================================================

// VerticalAnchor positions the headline stack vertically.
type VerticalAnchor string

const (
	AnchorTop    VerticalAnchor = "top"
	AnchorCenter VerticalAnchor = "center"
	AnchorBottom VerticalAnchor = "bottom"
)

// HorizontalAlign positions every line horizontally.
type HorizontalAlign string

const (
	AlignLeft   HorizontalAlign = "left"
	AlignCenter HorizontalAlign = "center"
	AlignRight  HorizontalAlign = "right"
)

// HeadlineSlots is the number of independently styled headlines.
const HeadlineSlots = 2

// HeadlineStyle is the text and styling of one headline slot.
// Percentages: FontSizePct of the canvas min dimension, StrokeWidthPct of
// the resolved font size.
type HeadlineStyle struct {
	Text             string  `yaml:"text" json:"text"`
	Color            string  `yaml:"color" json:"color"`
	FillOpacityPct   float64 `yaml:"opacity" json:"opacity"`
	FontFamily       string  `yaml:"font_family" json:"fontFamily"`
	FontWeight       int     `yaml:"font_weight" json:"fontWeight"`
	FontSizePct      float64 `yaml:"font_size" json:"fontSize"`
	StrokeColor      string  `yaml:"stroke_color" json:"strokeColor"`
	StrokeWidthPct   float64 `yaml:"stroke_width" json:"strokeWidth"`
	StrokeOpacityPct float64 `yaml:"stroke_opacity" json:"strokeOpacity"`
}

// LayoutConfig is shared by both headline slots.
type LayoutConfig struct {
	VerticalAnchor       VerticalAnchor  `yaml:"position" json:"position"`
	HorizontalAlign      HorizontalAlign `yaml:"align" json:"align"`
	InterBlockSpacingPct float64         `yaml:"spacing" json:"spacing"`
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Clamp limits v to the range. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Bounds are the valid ranges of the percentage inputs. They are applied
// before any stage sees the values.
type Bounds struct {
	FontSizePct    Range `yaml:"font_size" json:"fontSize"`
	StrokeWidthPct Range `yaml:"stroke_width" json:"strokeWidth"`
	OpacityPct     Range `yaml:"opacity" json:"opacity"`
	SpacingPct     Range `yaml:"spacing" json:"spacing"`
}

// DefaultBounds returns the ranges exposed by the editor controls.
func DefaultBounds() Bounds {
	return Bounds{
		FontSizePct:    Range{Min: 4, Max: 20},
		StrokeWidthPct: Range{Min: 0, Max: 20},
		OpacityPct:     Range{Min: 0, Max: 100},
		SpacingPct:     Range{Min: -5, Max: 15},
	}
}

// ClampHeadline returns h with every percentage clamped.
func (b Bounds) ClampHeadline(h HeadlineStyle) HeadlineStyle {
	h.FontSizePct = b.FontSizePct.Clamp(h.FontSizePct)
	h.StrokeWidthPct = b.StrokeWidthPct.Clamp(h.StrokeWidthPct)
	h.FillOpacityPct = b.OpacityPct.Clamp(h.FillOpacityPct)
	h.StrokeOpacityPct = b.OpacityPct.Clamp(h.StrokeOpacityPct)
	return h
}

// ClampLayout returns l with spacing clamped and unknown anchor/alignment
// values replaced by bottom/center.
func (b Bounds) ClampLayout(l LayoutConfig) LayoutConfig {
	l.InterBlockSpacingPct = b.SpacingPct.Clamp(l.InterBlockSpacingPct)
	switch l.VerticalAnchor {
	case AnchorTop, AnchorCenter, AnchorBottom:
	default:
		l.VerticalAnchor = AnchorBottom
	}
	switch l.HorizontalAlign {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		l.HorizontalAlign = AlignCenter
	}
	return l
}

// =============================================================================
// Derived layout
// =============================================================================

// TextBlock is one headline after wrapping.
type TextBlock struct {
	Lines       []string `json:"lines"`
	LineHeight  float64  `json:"lineHeight"`
	TotalHeight float64  `json:"totalHeight"`
}

// Empty reports whether the block occupies no vertical space.
func (b TextBlock) Empty() bool {
	return b.TotalHeight <= 0
}

// StackPlan holds the vertical offsets of both headline blocks.
type StackPlan struct {
	Gap            float64 `json:"gap"`
	CombinedHeight float64 `json:"combinedHeight"`
	StartY         float64 `json:"startY"`
	Block1Y        float64 `json:"block1Y"`
	Block2Y        float64 `json:"block2Y"`
}

// ResolvedFont records which face served a headline.
type ResolvedFont struct {
	RequestedFamily string `json:"requestedFamily"`
	RequestedWeight int    `json:"requestedWeight"`
	Family          string `json:"family"`
	Weight          int    `json:"weight"`
	Fallback        bool   `json:"fallback"`
}

// =============================================================================
// Composition
// =============================================================================

// CompositionInput is everything one composition depends on.
type CompositionInput struct {
	AspectRatio AspectRatio
	// Background is the decoded source image; nil draws the placeholder.
	Background image.Image
	Headlines  [HeadlineSlots]HeadlineStyle
	Layout     LayoutConfig
}

// CompositionResult is a complete raster plus the plan that produced it.
type CompositionResult struct {
	Image  image.Image                  `json:"-"`
	Canvas CanvasSpec                   `json:"canvas"`
	Crop   *ports.RectF                 `json:"crop,omitempty"`
	Blocks [HeadlineSlots]TextBlock     `json:"blocks"`
	Fonts  [HeadlineSlots]ResolvedFont  `json:"fonts"`
	Plan   StackPlan                    `json:"plan"`
	Sizes  [HeadlineSlots]ResolvedSizes `json:"sizes"`
}

// ResolvedSizes are the absolute pixel values of one headline's percentages.
type ResolvedSizes struct {
	FontSize    float64 `json:"fontSize"`
	StrokeWidth float64 `json:"strokeWidth"`
}
