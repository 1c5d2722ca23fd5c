// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/thumbforge/pkg/ports"
)

// File names written under the sink directory.
const (
	PlanFile        = "plan.json"
	BackgroundFile  = "background.png"
	CompositionFile = "composition.png"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SavePlanJSON saves the composition plan as JSON.
func (s *Sink) SavePlanJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, PlanFile), data)
}

// SaveBackground saves the background pass as PNG.
func (s *Sink) SaveBackground(img image.Image) error {
	return s.savePNG(BackgroundFile, img)
}

// SaveComposition saves the final raster as PNG.
func (s *Sink) SaveComposition(img image.Image) error {
	return s.savePNG(CompositionFile, img)
}

func (s *Sink) savePNG(name string, img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, name), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
