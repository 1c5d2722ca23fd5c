// Package orchestrator runs compositions: the file-driven Run used by the
// CLI and the live Editor used by interactive callers.
package orchestrator

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/zeebo/blake3"

	"github.com/user/thumbforge/pkg/fonts"
	"github.com/user/thumbforge/pkg/metrics"
	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
)

// FontSource is a font file registered under a family and weight before
// composing.
type FontSource struct {
	Family string
	Weight int
	Path   string
}

// Config contains all configuration for one run.
type Config struct {
	// Input
	ImagePath string // empty draws the placeholder
	Fonts     []FontSource

	// Output
	OutputPath string
	Format     ports.ImageFormat

	// Composition
	AspectRatio pipeline.AspectRatio
	Headlines   [pipeline.HeadlineSlots]pipeline.HeadlineStyle
	Layout      pipeline.LayoutConfig

	// SkipUnchanged leaves the output file alone when the encoded image has
	// the same digest as the previous run of this orchestrator.
	SkipUnchanged bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Format:      ports.FormatPNG,
		AspectRatio: pipeline.DefaultAspectRatio,
		Layout: pipeline.LayoutConfig{
			VerticalAnchor:       pipeline.AnchorBottom,
			HorizontalAlign:      pipeline.AlignCenter,
			InterBlockSpacingPct: 2,
		},
	}
}

// Orchestrator coordinates fonts, decoding, composition and output.
type Orchestrator struct {
	composeStage pipeline.Stage[pipeline.CompositionInput, pipeline.CompositionResult]
	registry     *fonts.Registry
	renderer     ports.Renderer
	fs           ports.FileSystem
	metrics      *metrics.Metrics
	logger       ports.Logger

	mu         sync.Mutex
	lastDigest string
}

// New creates a new Orchestrator. m may be nil.
func New(
	composeStage pipeline.Stage[pipeline.CompositionInput, pipeline.CompositionResult],
	registry *fonts.Registry,
	renderer ports.Renderer,
	fs ports.FileSystem,
	m *metrics.Metrics,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		composeStage: composeStage,
		registry:     registry,
		renderer:     renderer,
		fs:           fs,
		metrics:      m,
		logger:       logger,
	}
}

// Run composes one thumbnail from config and writes it to OutputPath.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()
	canvas := pipeline.ResolveCanvas(config.AspectRatio)
	o.logger.Info(l10n.F("Composing %s thumbnail (%dx%d)", canvas.AspectRatio, canvas.Width, canvas.Height))

	// 1. Fonts. A failed font is reported and the fallback face is used.
	fontErrs := o.loadFonts(ctx, config.Fonts)

	// 2. Background
	input := pipeline.CompositionInput{
		AspectRatio: config.AspectRatio,
		Headlines:   config.Headlines,
		Layout:      config.Layout,
	}
	var background BackgroundInfo
	if config.ImagePath != "" {
		data, err := o.fs.ReadFile(config.ImagePath)
		if err != nil {
			o.logger.Error(l10n.F("Failed to read background: %s", err))
			return RunResult{}, fmt.Errorf("read background: %w", err)
		}
		o.logger.Debug(l10n.F("Decoding background image (%d bytes)", len(data)))
		img, err := o.renderer.DecodeImage(data)
		o.metrics.ObserveDecode(err)
		if err != nil {
			o.logger.Error(l10n.F("Failed to decode background: %s", err))
			return RunResult{}, fmt.Errorf("decode background: %w", err)
		}
		b := img.Bounds()
		o.logger.Debug(l10n.F("Background decoded: %dx%d", b.Dx(), b.Dy()))
		input.Background = img
		background = BackgroundInfo{Path: config.ImagePath, Width: b.Dx(), Height: b.Dy()}
	}

	// 3. Compose
	composeStart := time.Now()
	composition, err := o.composeStage.Execute(ctx, input)
	o.metrics.ObserveComposition(time.Since(composeStart), err)
	if err != nil {
		o.logger.Error(l10n.F("Failed to compose thumbnail: %s", err))
		return RunResult{}, fmt.Errorf("compose stage: %w", err)
	}

	// 4. Encode
	data, err := o.renderer.EncodeImage(composition.Image, config.Format)
	if err != nil {
		o.logger.Error(l10n.F("Failed to compose thumbnail: %s", err))
		return RunResult{}, fmt.Errorf("encode output: %w", err)
	}
	digest := Digest(data)

	result := RunResult{
		OutputPath:  config.OutputPath,
		Background:  background,
		Composition: composition,
		FileSize:    int64(len(data)),
		Digest:      digest,
		FontErrors:  fontErrs,
	}

	// 5. Write output
	o.mu.Lock()
	unchanged := config.SkipUnchanged && digest == o.lastDigest
	o.mu.Unlock()

	if unchanged {
		o.logger.Info(l10n.T("Output unchanged, skipping write"))
		result.Unchanged = true
	} else {
		if err := o.fs.WriteFile(config.OutputPath, data); err != nil {
			o.logger.Error(l10n.F("Failed to write output: %s", err))
			return RunResult{}, fmt.Errorf("write output: %w", err)
		}
		o.mu.Lock()
		o.lastDigest = digest
		o.mu.Unlock()
		o.logger.Info(l10n.F("Output saved to %s", config.OutputPath))
	}

	result.DurationMs = int(time.Since(start).Milliseconds())
	o.logger.Info(l10n.F("Composition completed in %d ms", result.DurationMs))
	return result, nil
}

// loadFonts registers every font source concurrently and waits for all of
// them. Failures are returned, not fatal.
func (o *Orchestrator) loadFonts(ctx context.Context, sources []FontSource) []error {
	if len(sources) == 0 {
		return nil
	}
	pending := make([]<-chan error, len(sources))
	for i, src := range sources {
		path := src.Path
		pending[i] = o.registry.LoadAsync(ctx, src.Family, src.Weight, path, func(ctx context.Context) ([]byte, error) {
			return o.fs.ReadFile(path)
		})
	}

	var errs []error
	for _, ch := range pending {
		err := <-ch
		o.metrics.ObserveFontLoad(err)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BackgroundInfo describes the decoded background, if any.
type BackgroundInfo struct {
	Path   string
	Width  int
	Height int
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	OutputPath  string
	Background  BackgroundInfo
	Composition pipeline.CompositionResult

	// Output
	FileSize  int64
	Digest    string
	Unchanged bool // output file was left as is

	DurationMs int
	FontErrors []error
}

// FontError joins the font failures of a run, or returns nil.
func (r RunResult) FontError() error {
	return errors.Join(r.FontErrors...)
}
