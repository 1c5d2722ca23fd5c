// Package textlayout wraps headline text into lines and stacks the two
// headline blocks vertically on the canvas.
package textlayout

import (
	"strings"

	"github.com/user/thumbforge/pkg/pipeline"
)

const (
	// WrapWidthRatio is the share of the canvas width a line may occupy.
	WrapWidthRatio = 0.9
	// LineHeightRatio is the fixed leading multiplier.
	LineHeightRatio = 1.2
	// TopAnchorRatio and BottomAnchorRatio place the stack for the top and
	// bottom anchors as a share of the canvas height.
	TopAnchorRatio    = 0.10
	BottomAnchorRatio = 0.90
)

// Measurer reports the rendered width of a string in pixels for one font
// at one size.
type Measurer interface {
	Measure(text string) float64
}

// Layout upper-cases text and wraps it greedily at whitespace so that no
// line exceeds WrapWidthRatio of canvasWidth. A single word wider than that
// keeps a line of its own and is never split. Empty text yields an empty
// block.
func Layout(text string, m Measurer, fontSize, canvasWidth float64) pipeline.TextBlock {
	words := strings.Fields(strings.ToUpper(text))
	if len(words) == 0 || fontSize <= 0 {
		return pipeline.TextBlock{}
	}

	maxWidth := WrapWidthRatio * canvasWidth
	var lines []string
	var line string
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && m.Measure(candidate) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}

	lineHeight := fontSize * LineHeightRatio
	return pipeline.TextBlock{
		Lines:       lines,
		LineHeight:  lineHeight,
		TotalHeight: float64(len(lines)) * lineHeight,
	}
}

// PlanStack computes where each block starts. The gap only applies when
// both blocks have height, so an empty block leaves the other as if alone.
func PlanStack(b1, b2 pipeline.TextBlock, spacing float64, anchor pipeline.VerticalAnchor, canvasHeight float64) pipeline.StackPlan {
	gap := 0.0
	if !b1.Empty() && !b2.Empty() {
		gap = spacing
	}
	combined := b1.TotalHeight + gap + b2.TotalHeight

	var start float64
	switch anchor {
	case pipeline.AnchorTop:
		start = TopAnchorRatio * canvasHeight
	case pipeline.AnchorCenter:
		start = canvasHeight/2 - combined/2
	default:
		start = BottomAnchorRatio*canvasHeight - combined
	}

	return pipeline.StackPlan{
		Gap:            gap,
		CombinedHeight: combined,
		StartY:         start,
		Block1Y:        start,
		Block2Y:        start + b1.TotalHeight + gap,
	}
}
