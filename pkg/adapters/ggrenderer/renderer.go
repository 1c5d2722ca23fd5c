// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	// Additional decoders for uploaded backgrounds.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
)

// MaxSurfaceSize is the largest accepted surface side in pixels.
const MaxSurfaceSize = 8192

// JPEGQuality is used when encoding to JPEG.
const JPEGQuality = 95

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// NewSurface creates a new transparent drawing surface.
func (r *Renderer) NewSurface(width, height int) (ports.Surface, error) {
	if width <= 0 || height <= 0 || width > MaxSurfaceSize || height > MaxSurfaceSize {
		return nil, fmt.Errorf("%w: invalid size %dx%d", pipeline.ErrSurfaceUnavailable, width, height)
	}
	return &Surface{dc: gg.NewContext(width, height)}, nil
}

// DecodeImage decodes image data, applying any EXIF orientation.
func (r *Renderer) DecodeImage(data []byte) (img image.Image, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", pipeline.ErrImageDecode)
	}
	// Some decoders panic on crafted input instead of returning an error.
	defer func() {
		if p := recover(); p != nil {
			img, err = nil, fmt.Errorf("%w: %v", pipeline.ErrImageDecode, p)
		}
	}()

	img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrImageDecode, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", pipeline.ErrImageDecode)
	}
	return img, nil
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Surface implements ports.Surface using gg.Context.
type Surface struct {
	dc *gg.Context
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.dc.Width()
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.dc.Height()
}

// Clear fills the whole surface with c, replacing what was there.
func (s *Surface) Clear(c color.Color) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

// DrawImageRegion scales the src rectangle of img onto the whole surface
// with Catmull-Rom resampling. Fractional crop edges are honored exactly.
func (s *Surface) DrawImageRegion(img image.Image, src ports.RectF) {
	if src.Width <= 0 || src.Height <= 0 {
		return
	}
	dst, ok := s.dc.Image().(*image.RGBA)
	if !ok {
		return
	}

	b := img.Bounds()
	sx := float64(s.Width()) / src.Width
	sy := float64(s.Height()) / src.Height
	ox := float64(b.Min.X) + src.X
	oy := float64(b.Min.Y) + src.Y

	// Maps source pixel space to surface pixel space.
	s2d := f64.Aff3{
		sx, 0, -ox * sx,
		0, sy, -oy * sy,
	}
	sr := image.Rect(
		int(math.Floor(ox)), int(math.Floor(oy)),
		int(math.Ceil(ox+src.Width)), int(math.Ceil(oy+src.Height)),
	).Intersect(b)

	draw.CatmullRom.Transform(dst, s2d, img, sr, draw.Src, nil)
}

// FillPath fills p with the non-zero winding rule.
func (s *Surface) FillPath(p ports.Path, c color.Color) {
	if !s.tracePath(p) {
		return
	}
	s.dc.SetFillRule(gg.FillRuleWinding)
	s.dc.SetColor(c)
	s.dc.Fill()
}

// StrokePath strokes p centered on the outline with round joins.
func (s *Surface) StrokePath(p ports.Path, width float64, c color.Color) {
	if width <= 0 || !s.tracePath(p) {
		s.dc.ClearPath()
		return
	}
	s.dc.SetLineWidth(width)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetColor(c)
	s.dc.Stroke()
}

// Image returns the surface raster.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// tracePath replays p into the context's current path, closing every
// contour. It reports whether anything was traced.
func (s *Surface) tracePath(p ports.Path) bool {
	s.dc.ClearPath()
	if len(p) == 0 {
		return false
	}
	open := false
	for _, seg := range p {
		a := seg.Args
		switch seg.Op {
		case ports.PathMoveTo:
			if open {
				s.dc.ClosePath()
			}
			s.dc.MoveTo(a[0].X, a[0].Y)
			open = true
		case ports.PathLineTo:
			s.dc.LineTo(a[0].X, a[0].Y)
		case ports.PathQuadTo:
			s.dc.QuadraticTo(a[0].X, a[0].Y, a[1].X, a[1].Y)
		case ports.PathCubeTo:
			s.dc.CubicTo(a[0].X, a[0].Y, a[1].X, a[1].Y, a[2].X, a[2].Y)
		}
	}
	if open {
		s.dc.ClosePath()
	}
	return true
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
