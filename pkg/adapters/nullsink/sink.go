// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/thumbforge/pkg/ports"
)

// Sink discards all debug output. Stages check Enabled and skip building
// intermediates entirely.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

func (s *Sink) SavePlanJSON(data []byte) error        { return nil }
func (s *Sink) SaveBackground(img image.Image) error  { return nil }
func (s *Sink) SaveComposition(img image.Image) error { return nil }

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
