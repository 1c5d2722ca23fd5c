package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts the drawing backend and image coding.
type Renderer interface {
	// NewSurface creates a drawing surface of the given pixel size.
	// It fails with pipeline.ErrSurfaceUnavailable when no surface can be obtained.
	NewSurface(width, height int) (Surface, error)

	// DecodeImage decodes encoded image bytes (JPEG, PNG, GIF, WebP, BMP, TIFF).
	DecodeImage(data []byte) (image.Image, error)

	// EncodeImage encodes an image to the given format.
	EncodeImage(img image.Image, format ImageFormat) ([]byte, error)
}

// Surface is a raster the compositor draws on.
type Surface interface {
	Width() int
	Height() int

	// Clear fills the whole surface with c.
	Clear(c color.Color)

	// DrawImageRegion scales the src rectangle of img (in img's own
	// coordinates, relative to its bounds origin) to cover the whole surface.
	DrawImageRegion(img image.Image, src RectF)

	// FillPath fills a closed path using the non-zero winding rule.
	FillPath(p Path, c color.Color)

	// StrokePath strokes a path with round joins centered on the outline.
	StrokePath(p Path, width float64, c color.Color)

	// Image returns the current raster. The returned image must not be
	// modified by the caller.
	Image() image.Image
}

// RectF is a rectangle in floating point pixel space.
type RectF struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a point in floating point pixel space.
type Point struct {
	X, Y float64
}

// PathOp identifies a path segment kind.
type PathOp int

const (
	PathMoveTo PathOp = iota
	PathLineTo
	PathQuadTo
	PathCubeTo
)

// PathSegment is one drawing instruction. MoveTo and LineTo use Args[0],
// QuadTo uses Args[0:2] and CubeTo uses Args[0:3].
type PathSegment struct {
	Op   PathOp
	Args [3]Point
}

// Path is a sequence of segments. Each MoveTo starts a new closed contour.
type Path []PathSegment

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
)
