package fonts

import (
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/user/thumbforge/pkg/ports"
)

// Face is a font at a fixed pixel size. Measurement and outlines share the
// same advances and kerning, so wrapped lines render exactly as measured.
// A Face is not safe for concurrent use.
type Face struct {
	font    *sfnt.Font
	size    float64
	ppem    fixed.Int26_6
	buf     sfnt.Buffer
	metrics font.Metrics
}

// NewFace creates a face of f at sizePx pixels per em.
func NewFace(f *sfnt.Font, sizePx float64) (*Face, error) {
	if f == nil {
		return nil, fmt.Errorf("fonts: nil font")
	}
	if sizePx <= 0 || math.IsNaN(sizePx) || math.IsInf(sizePx, 0) {
		return nil, fmt.Errorf("fonts: invalid size %v", sizePx)
	}
	face := &Face{
		font: f,
		size: sizePx,
		ppem: fixed.Int26_6(math.Round(sizePx * 64)),
	}
	m, err := f.Metrics(&face.buf, face.ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("fonts: read metrics: %w", err)
	}
	face.metrics = m
	return face, nil
}

// Size returns the pixel size of the face.
func (f *Face) Size() float64 {
	return f.size
}

// Ascent returns the distance from the top of the line box to the baseline.
func (f *Face) Ascent() float64 {
	return fromFixed(f.metrics.Ascent)
}

// Descent returns the distance from the baseline to the bottom of the line box.
func (f *Face) Descent() float64 {
	return fromFixed(f.metrics.Descent)
}

// Measure returns the advance width of text in pixels.
func (f *Face) Measure(text string) float64 {
	return fromFixed(f.walk(text, nil))
}

// Outline returns the glyph contours of text with the pen starting at x on
// the given baseline.
func (f *Face) Outline(text string, x, baseline float64) ports.Path {
	var path ports.Path
	f.walk(text, func(idx sfnt.GlyphIndex, dot fixed.Int26_6) {
		segs, err := f.font.LoadGlyph(&f.buf, idx, f.ppem, nil)
		if err != nil {
			return
		}
		ox := x + fromFixed(dot)
		for _, s := range segs {
			seg := ports.PathSegment{}
			n := 1
			switch s.Op {
			case sfnt.SegmentOpMoveTo:
				seg.Op = ports.PathMoveTo
			case sfnt.SegmentOpLineTo:
				seg.Op = ports.PathLineTo
			case sfnt.SegmentOpQuadTo:
				seg.Op = ports.PathQuadTo
				n = 2
			case sfnt.SegmentOpCubeTo:
				seg.Op = ports.PathCubeTo
				n = 3
			}
			for i := 0; i < n; i++ {
				seg.Args[i] = ports.Point{
					X: ox + fromFixed(s.Args[i].X),
					Y: baseline + fromFixed(s.Args[i].Y),
				}
			}
			path = append(path, seg)
		}
	})
	return path
}

// walk advances a pen over text, calling visit (when non-nil) with each
// glyph and its pen offset, and returns the total advance.
func (f *Face) walk(text string, visit func(idx sfnt.GlyphIndex, dot fixed.Int26_6)) fixed.Int26_6 {
	var dot fixed.Int26_6
	var prev sfnt.GlyphIndex
	hasPrev := false
	for _, r := range text {
		idx, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil {
			idx = 0
		}
		if hasPrev {
			if k, err := f.font.Kern(&f.buf, prev, idx, f.ppem, font.HintingNone); err == nil {
				dot += k
			}
		}
		if visit != nil {
			visit(idx, dot)
		}
		adv, err := f.font.GlyphAdvance(&f.buf, idx, f.ppem, font.HintingNone)
		if err == nil {
			dot += adv
		}
		prev, hasPrev = idx, true
	}
	return dot
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
