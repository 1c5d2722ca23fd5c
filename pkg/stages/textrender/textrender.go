// Package textrender draws wrapped headline blocks onto a surface.
package textrender

import (
	"image/color"
	"math"

	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
)

// EdgeInsetRatio is the horizontal inset of left and right aligned text as a
// share of the canvas width.
const EdgeInsetRatio = 0.05

// Shaper measures and outlines text for one font at one size.
// *fonts.Face implements it.
type Shaper interface {
	Ascent() float64
	Measure(text string) float64
	Outline(text string, x, baseline float64) ports.Path
}

// Paint holds the resolved colors and stroke width of one headline.
type Paint struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// StrokeWidth resolves a stroke percentage of the font size to pixels.
// Any visible stroke is at least one pixel wide; zero disables the stroke.
func StrokeWidth(fontSize, pct float64) float64 {
	if pct <= 0 || math.IsNaN(pct) {
		return 0
	}
	return math.Max(1, fontSize*pct/100)
}

// OriginX returns the horizontal anchor of every line for an alignment.
func OriginX(align pipeline.HorizontalAlign, canvasWidth float64) float64 {
	switch align {
	case pipeline.AlignLeft:
		return EdgeInsetRatio * canvasWidth
	case pipeline.AlignRight:
		return canvasWidth - EdgeInsetRatio*canvasWidth
	default:
		return canvasWidth / 2
	}
}

// LineStart converts the anchor into the pen start of a line lineWidth wide:
// left-anchored text starts at the origin, right-anchored text ends there
// and centered text straddles it.
func LineStart(align pipeline.HorizontalAlign, originX, lineWidth float64) float64 {
	switch align {
	case pipeline.AlignLeft:
		return originX
	case pipeline.AlignRight:
		return originX - lineWidth
	default:
		return originX - lineWidth/2
	}
}

// DrawBlock draws block with its first line box starting at y. Each line
// is stroked first and filled second from the same outline so the fill is
// never covered by its own stroke.
func DrawBlock(s ports.Surface, block pipeline.TextBlock, y float64, shaper Shaper, paint Paint, align pipeline.HorizontalAlign) {
	originX := OriginX(align, float64(s.Width()))
	ascent := shaper.Ascent()

	for i, line := range block.Lines {
		top := y + float64(i)*block.LineHeight
		x := LineStart(align, originX, shaper.Measure(line))
		path := shaper.Outline(line, x, top+ascent)
		if len(path) == 0 {
			continue
		}
		if paint.StrokeWidth > 0 && paint.Stroke != nil {
			s.StrokePath(path, paint.StrokeWidth, paint.Stroke)
		}
		if paint.Fill != nil {
			s.FillPath(path, paint.Fill)
		}
	}
}
