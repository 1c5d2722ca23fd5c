// Package fit computes the cover-fit crop of a background image.
package fit

import (
	"github.com/user/thumbforge/pkg/ports"
)

// CoverCrop returns the centered source rectangle that, scaled to
// dstW x dstH, fills the destination with no distortion and no margins.
//
// A source relatively wider than the canvas keeps its full height and is
// cropped left and right; otherwise it keeps its full width and is cropped
// top and bottom. Equal aspects yield the whole image.
//
// Non-positive dimensions yield the whole source rectangle.
func CoverCrop(srcW, srcH, dstW, dstH float64) ports.RectF {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return ports.RectF{Width: max(srcW, 0), Height: max(srcH, 0)}
	}

	canvasAspect := dstW / dstH
	imageAspect := srcW / srcH

	if imageAspect > canvasAspect {
		sw := min(srcH*canvasAspect, srcW)
		return ports.RectF{
			X:      (srcW - sw) / 2,
			Y:      0,
			Width:  sw,
			Height: srcH,
		}
	}

	sh := min(srcW/canvasAspect, srcH)
	return ports.RectF{
		X:      0,
		Y:      (srcH - sh) / 2,
		Width:  srcW,
		Height: sh,
	}
}
