package mocks

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/user/thumbforge/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	NewSurfaceFunc  func(width, height int) (ports.Surface, error)
	DecodeImageFunc func(data []byte) (image.Image, error)
	EncodeImageFunc func(img image.Image, format ports.ImageFormat) ([]byte, error)

	mu       sync.Mutex
	Surfaces []*Surface
}

func (m *Renderer) NewSurface(width, height int) (ports.Surface, error) {
	if m.NewSurfaceFunc != nil {
		return m.NewSurfaceFunc(width, height)
	}
	s := NewSurface(width, height)
	m.mu.Lock()
	m.Surfaces = append(m.Surfaces, s)
	m.mu.Unlock()
	return s, nil
}

func (m *Renderer) DecodeImage(data []byte) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format)
	}
	b := img.Bounds()
	return []byte{byte(format), byte(b.Dx()), byte(b.Dy())}, nil
}

// LastSurface returns the most recently created surface, or nil.
func (m *Renderer) LastSurface() *Surface {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Surfaces) == 0 {
		return nil
	}
	return m.Surfaces[len(m.Surfaces)-1]
}

var _ ports.Renderer = (*Renderer)(nil)

// SurfaceOp names a recorded surface call.
type SurfaceOp string

const (
	OpClear      SurfaceOp = "clear"
	OpDrawRegion SurfaceOp = "draw-region"
	OpFill       SurfaceOp = "fill"
	OpStroke     SurfaceOp = "stroke"
)

// SurfaceCall records one drawing call.
type SurfaceCall struct {
	Op       SurfaceOp
	Color    color.Color
	Width    float64
	Region   ports.RectF
	Segments int
}

// Surface is a mock implementation of ports.Surface. Clear really fills the
// backing image; every other call is only recorded.
type Surface struct {
	width  int
	height int
	img    *image.RGBA
	Calls  []SurfaceCall
}

// NewSurface creates a mock surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (m *Surface) Width() int  { return m.width }
func (m *Surface) Height() int { return m.height }

func (m *Surface) Clear(c color.Color) {
	draw.Draw(m.img, m.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	m.Calls = append(m.Calls, SurfaceCall{Op: OpClear, Color: c})
}

func (m *Surface) DrawImageRegion(img image.Image, src ports.RectF) {
	m.Calls = append(m.Calls, SurfaceCall{Op: OpDrawRegion, Region: src})
}

func (m *Surface) FillPath(p ports.Path, c color.Color) {
	m.Calls = append(m.Calls, SurfaceCall{Op: OpFill, Color: c, Segments: len(p)})
}

func (m *Surface) StrokePath(p ports.Path, width float64, c color.Color) {
	m.Calls = append(m.Calls, SurfaceCall{Op: OpStroke, Color: c, Width: width, Segments: len(p)})
}

func (m *Surface) Image() image.Image {
	return m.img
}

// Ops returns the recorded operation names in call order.
func (m *Surface) Ops() []SurfaceOp {
	ops := make([]SurfaceOp, len(m.Calls))
	for i, c := range m.Calls {
		ops[i] = c.Op
	}
	return ops
}

var _ ports.Surface = (*Surface)(nil)
