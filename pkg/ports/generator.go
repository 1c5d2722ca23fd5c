package ports

import "context"

// VideoInfo describes the video a thumbnail is made for. It is the context
// handed to the content generation service.
type VideoInfo struct {
	Summary  string `yaml:"summary" json:"summary"`
	Keyword  string `yaml:"keyword,omitempty" json:"keyword,omitempty"`
	Niche    string `yaml:"niche,omitempty" json:"niche,omitempty"`
	Audience string `yaml:"audience,omitempty" json:"audience,omitempty"`
	Style    string `yaml:"style,omitempty" json:"style,omitempty"`
}

// ImageDescriber turns video context into an image prompt.
type ImageDescriber interface {
	GenerateImageDescription(ctx context.Context, info VideoInfo) (string, error)
}

// ImageGenerator renders a prompt into encoded image bytes for an aspect
// ratio such as "16:9".
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, aspectRatio string) ([]byte, error)
}
