package mocks

import (
	"context"

	"github.com/user/thumbforge/pkg/ports"
)

// ImageDescriber is a mock implementation of ports.ImageDescriber.
type ImageDescriber struct {
	GenerateImageDescriptionFunc func(ctx context.Context, info ports.VideoInfo) (string, error)

	Calls []ports.VideoInfo
}

func (m *ImageDescriber) GenerateImageDescription(ctx context.Context, info ports.VideoInfo) (string, error) {
	m.Calls = append(m.Calls, info)
	if m.GenerateImageDescriptionFunc != nil {
		return m.GenerateImageDescriptionFunc(ctx, info)
	}
	return "a dramatic sunset over a mountain lake", nil
}

var _ ports.ImageDescriber = (*ImageDescriber)(nil)

// ImageGenerator is a mock implementation of ports.ImageGenerator.
type ImageGenerator struct {
	GenerateImageFunc func(ctx context.Context, prompt, aspectRatio string) ([]byte, error)

	// Recorded calls for verification
	Prompts      []string
	AspectRatios []string
}

func (m *ImageGenerator) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	m.Prompts = append(m.Prompts, prompt)
	m.AspectRatios = append(m.AspectRatios, aspectRatio)
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt, aspectRatio)
	}
	return []byte("generated"), nil
}

var _ ports.ImageGenerator = (*ImageGenerator)(nil)
