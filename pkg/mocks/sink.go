package mocks

import (
	"image"
	"sync"

	"github.com/user/thumbforge/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	PlanJSON    []byte
	Background  image.Image
	Composition image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SavePlanJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlanJSON = data
	return nil
}

func (m *DebugSink) SaveBackground(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Background = img
	return nil
}

func (m *DebugSink) SaveComposition(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Composition = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
