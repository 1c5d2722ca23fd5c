package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate composition results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SavePlanJSON saves the resolved composition plan (crop, blocks, offsets) as JSON.
	SavePlanJSON(data []byte) error

	// SaveBackground saves the canvas after the background pass, before any text.
	SaveBackground(img image.Image) error

	// SaveComposition saves the final composited raster.
	SaveComposition(img image.Image) error
}
