// Package compose implements the composition stage: background, wrapped
// headlines, stack planning and stroke-then-fill rendering on a fresh surface.
package compose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/sfnt"

	"github.com/user/thumbforge/pkg/colors"
	"github.com/user/thumbforge/pkg/fonts"
	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
	"github.com/user/thumbforge/pkg/stages/fit"
	"github.com/user/thumbforge/pkg/stages/textlayout"
	"github.com/user/thumbforge/pkg/stages/textrender"
)

// FontResolver picks a font for a family/weight request without blocking.
// *fonts.Registry implements it.
type FontResolver interface {
	Resolve(family string, weight int) (*sfnt.Font, pipeline.ResolvedFont)
}

// Stage composes a thumbnail. Every call draws on a new surface, so output
// depends only on the input and the fonts resolved at call time.
type Stage struct {
	renderer ports.Renderer
	fonts    FontResolver
	bounds   pipeline.Bounds
	sink     ports.DebugSink
	logger   ports.Logger
}

// NewStage creates a new composition stage.
func NewStage(renderer ports.Renderer, fonts FontResolver, bounds pipeline.Bounds, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		fonts:    fonts,
		bounds:   bounds,
		sink:     sink,
		logger:   logger.WithComponent("compose"),
	}
}

// headline is one slot after percentages are resolved.
type headline struct {
	style pipeline.HeadlineStyle
	face  *fonts.Face
	sizes pipeline.ResolvedSizes
	font  pipeline.ResolvedFont
	block pipeline.TextBlock
}

// Execute composes in and returns the finished raster with its plan.
func (s *Stage) Execute(ctx context.Context, in pipeline.CompositionInput) (pipeline.CompositionResult, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.CompositionResult{}, err
	}

	canvas := pipeline.ResolveCanvas(in.AspectRatio)
	surface, err := s.renderer.NewSurface(canvas.Width, canvas.Height)
	if err != nil {
		if !errors.Is(err, pipeline.ErrSurfaceUnavailable) {
			err = fmt.Errorf("%w: %v", pipeline.ErrSurfaceUnavailable, err)
		}
		return pipeline.CompositionResult{}, err
	}

	result := pipeline.CompositionResult{Canvas: canvas}
	result.Crop = s.drawBackground(surface, in, canvas)
	if s.sink.Enabled() {
		s.sink.SaveBackground(imaging.Clone(surface.Image()))
	}

	layout := s.bounds.ClampLayout(in.Layout)

	var slots [pipeline.HeadlineSlots]headline
	for i := range slots {
		slots[i] = s.resolveHeadline(i, in.Headlines[i], canvas)
		result.Fonts[i] = slots[i].font
		result.Sizes[i] = slots[i].sizes
		result.Blocks[i] = slots[i].block
	}

	spacing := canvas.PercentOfMin(layout.InterBlockSpacingPct)
	plan := textlayout.PlanStack(slots[0].block, slots[1].block, spacing, layout.VerticalAnchor, float64(canvas.Height))
	result.Plan = plan
	s.logger.Debug("Stack starts at y=%.1f (gap %.1f)", plan.StartY, plan.Gap)

	starts := [pipeline.HeadlineSlots]float64{plan.Block1Y, plan.Block2Y}
	for i, h := range slots {
		if h.block.Empty() {
			continue
		}
		paint := textrender.Paint{
			Fill:        colors.Resolve(h.style.Color, h.style.FillOpacityPct),
			Stroke:      colors.Resolve(h.style.StrokeColor, h.style.StrokeOpacityPct),
			StrokeWidth: h.sizes.StrokeWidth,
		}
		textrender.DrawBlock(surface, h.block, starts[i], h.face, paint, layout.HorizontalAlign)
	}

	result.Image = surface.Image()

	if s.sink.Enabled() {
		if data, err := json.MarshalIndent(result, "", "  "); err == nil {
			s.sink.SavePlanJSON(data)
		}
		s.sink.SaveComposition(result.Image)
	}

	return result, nil
}

// drawBackground fills the surface with the cover-fitted background, or the
// placeholder color when there is none. It returns the crop used, if any.
func (s *Stage) drawBackground(surface ports.Surface, in pipeline.CompositionInput, canvas pipeline.CanvasSpec) *ports.RectF {
	if in.Background == nil || in.Background.Bounds().Empty() {
		s.logger.Debug("No background image, using placeholder")
		surface.Clear(pipeline.PlaceholderColor)
		return nil
	}

	b := in.Background.Bounds()
	crop := fit.CoverCrop(float64(b.Dx()), float64(b.Dy()), float64(canvas.Width), float64(canvas.Height))
	s.logger.Debug("Cover crop %.1f,%.1f %.1fx%.1f", crop.X, crop.Y, crop.Width, crop.Height)
	surface.Clear(color.Transparent)
	surface.DrawImageRegion(in.Background, crop)
	return &crop
}

// resolveHeadline clamps one slot, resolves its sizes and font, and wraps
// its text.
func (s *Stage) resolveHeadline(i int, style pipeline.HeadlineStyle, canvas pipeline.CanvasSpec) headline {
	style = s.bounds.ClampHeadline(style)
	fontSize := canvas.PercentOfMin(style.FontSizePct)

	f, info := s.fonts.Resolve(style.FontFamily, style.FontWeight)
	h := headline{
		style: style,
		font:  info,
		sizes: pipeline.ResolvedSizes{
			FontSize:    fontSize,
			StrokeWidth: textrender.StrokeWidth(fontSize, style.StrokeWidthPct),
		},
	}

	if strings.TrimSpace(style.Text) == "" {
		return h
	}
	if info.Fallback {
		s.logger.Debug("Headline %d uses fallback font %s %d", i+1, info.Family, info.Weight)
	}

	face, err := fonts.NewFace(f, fontSize)
	if err != nil {
		s.logger.Warn("Headline %d skipped, font face unavailable: %s", i+1, err)
		return h
	}
	h.face = face
	h.block = textlayout.Layout(style.Text, face, fontSize, float64(canvas.Width))
	s.logger.Debug("Headline %d: %d lines, %.1f px tall", i+1, len(h.block.Lines), h.block.TotalHeight)
	return h
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.CompositionInput, pipeline.CompositionResult] = (*Stage)(nil)
