package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/thumbforge/pkg/fonts"
	"github.com/user/thumbforge/pkg/metrics"
	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
)

// ErrGeneratorUnavailable is returned by GenerateBackground when the editor
// was built without content generation capabilities.
var ErrGeneratorUnavailable = errors.New("thumbforge: background generation not configured")

// Editor holds the live inputs of one thumbnail and keeps a composition of
// them up to date. Setters recompose synchronously and return the
// composition error, if any. A failed composition keeps the previous output.
//
// Background images and fonts load asynchronously; each successful load
// triggers exactly one recomposition. Editor is safe for concurrent use.
type Editor struct {
	composeStage pipeline.Stage[pipeline.CompositionInput, pipeline.CompositionResult]
	renderer     ports.Renderer
	registry     *fonts.Registry
	describer    ports.ImageDescriber
	generator    ports.ImageGenerator
	metrics      *metrics.Metrics
	logger       ports.Logger

	mu       sync.Mutex
	input    pipeline.CompositionInput
	current  *pipeline.CompositionResult
	imageSeq uint64
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithGenerators enables GenerateBackground.
func WithGenerators(describer ports.ImageDescriber, generator ports.ImageGenerator) EditorOption {
	return func(e *Editor) {
		e.describer = describer
		e.generator = generator
	}
}

// WithMetrics records compositions, decodes and font loads.
func WithMetrics(m *metrics.Metrics) EditorOption {
	return func(e *Editor) {
		e.metrics = m
	}
}

// NewEditor creates an editor starting from initial. Nothing is composed
// until the first setter or Compose call.
func NewEditor(
	composeStage pipeline.Stage[pipeline.CompositionInput, pipeline.CompositionResult],
	renderer ports.Renderer,
	registry *fonts.Registry,
	initial pipeline.CompositionInput,
	logger ports.Logger,
	opts ...EditorOption,
) *Editor {
	e := &Editor{
		composeStage: composeStage,
		renderer:     renderer,
		registry:     registry,
		input:        initial,
		logger:       logger.WithComponent("editor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input returns a copy of the current inputs.
func (e *Editor) Input() pipeline.CompositionInput {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.input
}

// Compose recomposes the current inputs.
func (e *Editor) Compose(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.composeLocked(ctx)
}

// SetAspectRatio switches the output format.
func (e *Editor) SetAspectRatio(ctx context.Context, r pipeline.AspectRatio) error {
	return e.update(ctx, func(in *pipeline.CompositionInput) {
		in.AspectRatio = r
	})
}

// SetHeadline replaces the style of slot 0 or 1.
func (e *Editor) SetHeadline(ctx context.Context, slot int, style pipeline.HeadlineStyle) error {
	if slot < 0 || slot >= pipeline.HeadlineSlots {
		return fmt.Errorf("headline slot %d out of range", slot)
	}
	return e.update(ctx, func(in *pipeline.CompositionInput) {
		in.Headlines[slot] = style
	})
}

// SetLayout replaces the shared layout.
func (e *Editor) SetLayout(ctx context.Context, layout pipeline.LayoutConfig) error {
	return e.update(ctx, func(in *pipeline.CompositionInput) {
		in.Layout = layout
	})
}

// ClearImage removes the background so the placeholder is drawn.
func (e *Editor) ClearImage(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.imageSeq++
	e.input.Background = nil
	return e.composeLocked(ctx)
}

// SetImage decodes data in the background. On success the image replaces
// the background and the editor recomposes once; on failure the error wraps
// pipeline.ErrImageDecode and the previous output is kept. A decode
// superseded by a later SetImage or ClearImage is discarded and reports nil.
//
// The returned channel receives one value and is then closed.
func (e *Editor) SetImage(ctx context.Context, data []byte) <-chan error {
	e.mu.Lock()
	e.imageSeq++
	seq := e.imageSeq
	e.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		e.logger.Debug("Decoding background image (%d bytes)", len(data))
		img, err := e.renderer.DecodeImage(data)
		e.metrics.ObserveDecode(err)
		if err != nil {
			if !errors.Is(err, pipeline.ErrImageDecode) {
				err = fmt.Errorf("%w: %v", pipeline.ErrImageDecode, err)
			}
			e.logger.Warn("Failed to decode background: %s", err)
			done <- err
			return
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if seq != e.imageSeq {
			done <- nil
			return
		}
		b := img.Bounds()
		e.logger.Debug("Background decoded: %dx%d", b.Dx(), b.Dy())
		e.input.Background = img
		done <- e.composeLocked(ctx)
	}()
	return done
}

// LoadFont registers a font asynchronously. Compositions made while it
// loads use the fallback face. On success the editor recomposes once.
// A failed load keeps whatever face was active and is reported on the
// returned channel, which receives one value and is then closed.
func (e *Editor) LoadFont(ctx context.Context, family string, weight int, source string, fetch fonts.FetchFunc) <-chan error {
	loaded := e.registry.LoadAsync(ctx, family, weight, source, fetch)

	done := make(chan error, 1)
	go func() {
		defer close(done)
		err := <-loaded
		e.metrics.ObserveFontLoad(err)
		if err != nil {
			done <- err
			return
		}
		done <- e.Compose(ctx)
	}()
	return done
}

// Preview returns the current raster.
func (e *Editor) Preview() (image.Image, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil, pipeline.ErrNoComposition
	}
	return e.current.Image, nil
}

// Result returns the current composition with its plan.
func (e *Editor) Result() (pipeline.CompositionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return pipeline.CompositionResult{}, pipeline.ErrNoComposition
	}
	return *e.current, nil
}

// Export encodes the current raster as PNG at full resolution.
func (e *Editor) Export() ([]byte, error) {
	img, err := e.Preview()
	if err != nil {
		return nil, err
	}
	return e.renderer.EncodeImage(img, ports.FormatPNG)
}

// GenerateBackground asks the describer for an image prompt, renders it
// with the generator at the current aspect ratio and applies the result as
// with SetImage. Any failure leaves the editor untouched. It returns the
// prompt that was used.
func (e *Editor) GenerateBackground(ctx context.Context, info ports.VideoInfo) (string, error) {
	if e.describer == nil || e.generator == nil {
		return "", ErrGeneratorUnavailable
	}
	e.logger.Info(l10n.F("Generating background for %q", info.Summary))

	prompt, err := e.describer.GenerateImageDescription(ctx, info)
	if err != nil {
		e.logger.Error(l10n.F("Failed to generate background: %s", err))
		return "", fmt.Errorf("describe image: %w", err)
	}
	e.logger.Debug("Background prompt: %s", prompt)

	ratio := pipeline.ResolveCanvas(e.Input().AspectRatio).AspectRatio
	data, err := e.generator.GenerateImage(ctx, prompt, string(ratio))
	if err != nil {
		e.logger.Error(l10n.F("Failed to generate background: %s", err))
		return prompt, fmt.Errorf("generate image: %w", err)
	}

	select {
	case err := <-e.SetImage(ctx, data):
		return prompt, err
	case <-ctx.Done():
		// Supersede the pending decode so it cannot apply later.
		e.mu.Lock()
		e.imageSeq++
		e.mu.Unlock()
		return prompt, ctx.Err()
	}
}

func (e *Editor) update(ctx context.Context, apply func(*pipeline.CompositionInput)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	apply(&e.input)
	return e.composeLocked(ctx)
}

func (e *Editor) composeLocked(ctx context.Context) error {
	start := time.Now()
	result, err := e.composeStage.Execute(ctx, e.input)
	e.metrics.ObserveComposition(time.Since(start), err)
	if err != nil {
		e.logger.Error(l10n.F("Failed to compose thumbnail: %s", err))
		return err
	}
	e.current = &result
	return nil
}
