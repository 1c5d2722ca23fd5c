package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/gobold"

	"github.com/user/thumbforge/pkg/adapters/logger"
	"github.com/user/thumbforge/pkg/fonts"
	"github.com/user/thumbforge/pkg/mocks"
	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
)

func newTestEditor(stage *mockComposeStage, renderer *mocks.Renderer, opts ...EditorOption) *Editor {
	log := logger.NewNoop()
	initial := pipeline.CompositionInput{AspectRatio: pipeline.Ratio16x9}
	return NewEditor(stage, renderer, fonts.NewRegistry(log), initial, log, opts...)
}

func wait(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for async operation")
		return nil
	}
}

func TestEditor_PreviewBeforeCompose(t *testing.T) {
	e := newTestEditor(&mockComposeStage{}, &mocks.Renderer{})

	if _, err := e.Preview(); !errors.Is(err, pipeline.ErrNoComposition) {
		t.Errorf("expected ErrNoComposition, got %v", err)
	}
	if _, err := e.Export(); !errors.Is(err, pipeline.ErrNoComposition) {
		t.Errorf("expected ErrNoComposition, got %v", err)
	}
}

func TestEditor_SettersRecompose(t *testing.T) {
	stage := &mockComposeStage{}
	e := newTestEditor(stage, &mocks.Renderer{})
	ctx := context.Background()

	if err := e.SetHeadline(ctx, 0, pipeline.HeadlineStyle{Text: "one"}); err != nil {
		t.Fatalf("SetHeadline: %v", err)
	}
	if err := e.SetLayout(ctx, pipeline.LayoutConfig{VerticalAnchor: pipeline.AnchorTop}); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}
	if err := e.SetAspectRatio(ctx, pipeline.Ratio9x16); err != nil {
		t.Fatalf("SetAspectRatio: %v", err)
	}

	if len(stage.inputs) != 3 {
		t.Fatalf("expected 3 compositions, got %d", len(stage.inputs))
	}
	last := stage.inputs[2]
	if last.Headlines[0].Text != "one" || last.Layout.VerticalAnchor != pipeline.AnchorTop || last.AspectRatio != pipeline.Ratio9x16 {
		t.Errorf("inputs not accumulated: %+v", last)
	}

	img, err := e.Preview()
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 720 || b.Dy() != 1280 {
		t.Errorf("preview is %dx%d", b.Dx(), b.Dy())
	}

	if err := e.SetHeadline(ctx, 2, pipeline.HeadlineStyle{}); err == nil {
		t.Error("expected error for slot 2")
	}
}

func TestEditor_ComposeFailureKeepsPreviousOutput(t *testing.T) {
	stage := &mockComposeStage{}
	e := newTestEditor(stage, &mocks.Renderer{})
	ctx := context.Background()

	if err := e.Compose(ctx); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	before, _ := e.Preview()

	stage.err = pipeline.ErrSurfaceUnavailable
	if err := e.SetAspectRatio(ctx, pipeline.Ratio1x1); !errors.Is(err, pipeline.ErrSurfaceUnavailable) {
		t.Fatalf("expected ErrSurfaceUnavailable, got %v", err)
	}

	after, _ := e.Preview()
	if after != before {
		t.Error("failed composition must not replace the previous output")
	}
}

func TestEditor_SetImage(t *testing.T) {
	stage := &mockComposeStage{}
	decoded := image.NewRGBA(image.Rect(0, 0, 640, 480))
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte) (image.Image, error) {
			return decoded, nil
		},
	}
	e := newTestEditor(stage, renderer)

	if err := wait(t, e.SetImage(context.Background(), []byte("jpeg"))); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	if len(stage.inputs) != 1 {
		t.Fatalf("expected exactly one recomposition, got %d", len(stage.inputs))
	}
	if stage.inputs[0].Background != decoded {
		t.Error("decoded image should be the background")
	}

	if err := e.ClearImage(context.Background()); err != nil {
		t.Fatalf("ClearImage: %v", err)
	}
	if e.Input().Background != nil {
		t.Error("expected background to be cleared")
	}
}

func TestEditor_SetImageFailure(t *testing.T) {
	stage := &mockComposeStage{}
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte) (image.Image, error) {
			return nil, errors.New("corrupt")
		},
	}
	e := newTestEditor(stage, renderer)
	ctx := context.Background()

	if err := e.SetHeadline(ctx, 0, pipeline.HeadlineStyle{Text: "kept"}); err != nil {
		t.Fatalf("SetHeadline: %v", err)
	}
	before, _ := e.Preview()

	err := wait(t, e.SetImage(ctx, []byte("not an image")))
	if !errors.Is(err, pipeline.ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode, got %v", err)
	}
	if len(stage.inputs) != 1 {
		t.Errorf("a failed decode must not recompose, got %d compositions", len(stage.inputs))
	}
	if after, _ := e.Preview(); after != before {
		t.Error("previous output must be retained")
	}
}

func TestEditor_SetImageSuperseded(t *testing.T) {
	stage := &mockComposeStage{}
	first := image.NewRGBA(image.Rect(0, 0, 10, 10))
	second := image.NewRGBA(image.Rect(0, 0, 20, 20))
	release := make(chan struct{})
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte) (image.Image, error) {
			if bytes.Equal(data, []byte("slow")) {
				<-release
				return first, nil
			}
			return second, nil
		},
	}
	e := newTestEditor(stage, renderer)
	ctx := context.Background()

	slow := e.SetImage(ctx, []byte("slow"))
	if err := wait(t, e.SetImage(ctx, []byte("fast"))); err != nil {
		t.Fatalf("fast SetImage: %v", err)
	}
	close(release)
	if err := wait(t, slow); err != nil {
		t.Fatalf("superseded SetImage should report nil, got %v", err)
	}

	if e.Input().Background != second {
		t.Error("the later image must win")
	}
	if len(stage.inputs) != 1 {
		t.Errorf("expected one recomposition, got %d", len(stage.inputs))
	}
}

func TestEditor_ClearImageSupersedesPendingDecode(t *testing.T) {
	stage := &mockComposeStage{}
	decoded := image.NewRGBA(image.Rect(0, 0, 10, 10))
	release := make(chan struct{})
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte) (image.Image, error) {
			<-release
			return decoded, nil
		},
	}
	e := newTestEditor(stage, renderer)
	ctx := context.Background()

	pending := e.SetImage(ctx, []byte("jpeg"))
	if err := e.ClearImage(ctx); err != nil {
		t.Fatalf("ClearImage: %v", err)
	}
	close(release)
	if err := wait(t, pending); err != nil {
		t.Fatalf("superseded SetImage should report nil, got %v", err)
	}

	if e.Input().Background != nil {
		t.Error("a decode requested before ClearImage must not apply")
	}
	if len(stage.inputs) != 1 || stage.inputs[0].Background != nil {
		t.Errorf("expected only the ClearImage composition, got %d", len(stage.inputs))
	}
}

func TestEditor_ClearAndSetImageConcurrently(t *testing.T) {
	stage := &mockComposeStage{}
	decoded := image.NewRGBA(image.Rect(0, 0, 10, 10))
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte) (image.Image, error) {
			return decoded, nil
		},
	}
	e := newTestEditor(stage, renderer)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		cleared := make(chan error, 1)
		go func() { cleared <- e.ClearImage(ctx) }()
		set := e.SetImage(ctx, []byte("jpeg"))
		if err := <-cleared; err != nil {
			t.Fatalf("ClearImage: %v", err)
		}
		if err := wait(t, set); err != nil {
			t.Fatalf("SetImage: %v", err)
		}

		// The latest composition always reflects the current input.
		e.mu.Lock()
		last := stage.inputs[len(stage.inputs)-1].Background
		e.mu.Unlock()
		if last != e.Input().Background {
			t.Fatalf("iteration %d: composition is stale", i)
		}
	}
}

func TestEditor_LoadFont(t *testing.T) {
	stage := &mockComposeStage{}
	e := newTestEditor(stage, &mocks.Renderer{})
	ctx := context.Background()

	err := wait(t, e.LoadFont(ctx, "Poppins", 900, "poppins.ttf", func(ctx context.Context) ([]byte, error) {
		return gobold.TTF, nil
	}))
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if len(stage.inputs) != 1 {
		t.Errorf("expected one recomposition after the load, got %d", len(stage.inputs))
	}

	err = wait(t, e.LoadFont(ctx, "Broken", 400, "broken.woff", func(ctx context.Context) ([]byte, error) {
		return []byte("wOFFxxxxxxxx"), nil
	}))
	if !errors.Is(err, pipeline.ErrFontLoad) {
		t.Fatalf("expected ErrFontLoad, got %v", err)
	}
	if len(stage.inputs) != 1 {
		t.Errorf("a failed font load must not recompose, got %d", len(stage.inputs))
	}
}

func TestEditor_Export(t *testing.T) {
	var format ports.ImageFormat = -1
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, f ports.ImageFormat) ([]byte, error) {
			format = f
			return []byte("png-bytes"), nil
		},
	}
	e := newTestEditor(&mockComposeStage{}, renderer)
	if err := e.Compose(context.Background()); err != nil {
		t.Fatalf("Compose: %v", err)
	}

	data, err := e.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if string(data) != "png-bytes" || format != ports.FormatPNG {
		t.Errorf("unexpected export %q in format %v", data, format)
	}
}

func TestEditor_GenerateBackground(t *testing.T) {
	stage := &mockComposeStage{}
	describer := &mocks.ImageDescriber{}
	generator := &mocks.ImageGenerator{}
	e := newTestEditor(stage, &mocks.Renderer{}, WithGenerators(describer, generator))
	ctx := context.Background()
	if err := e.SetAspectRatio(ctx, pipeline.Ratio9x16); err != nil {
		t.Fatalf("SetAspectRatio: %v", err)
	}

	prompt, err := e.GenerateBackground(ctx, ports.VideoInfo{Summary: "how to bake bread"})
	if err != nil {
		t.Fatalf("GenerateBackground: %v", err)
	}

	if len(describer.Calls) != 1 || describer.Calls[0].Summary != "how to bake bread" {
		t.Errorf("describer calls: %+v", describer.Calls)
	}
	if len(generator.Prompts) != 1 || generator.Prompts[0] != prompt {
		t.Errorf("generator prompts: %v (want %q)", generator.Prompts, prompt)
	}
	if generator.AspectRatios[0] != "9:16" {
		t.Errorf("aspect ratio = %q", generator.AspectRatios[0])
	}
	if e.Input().Background == nil {
		t.Error("generated image should become the background")
	}
}

func TestEditor_GenerateBackgroundFailure(t *testing.T) {
	stage := &mockComposeStage{}
	generator := &mocks.ImageGenerator{
		GenerateImageFunc: func(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
			return nil, errors.New("quota exceeded")
		},
	}
	e := newTestEditor(stage, &mocks.Renderer{}, WithGenerators(&mocks.ImageDescriber{}, generator))

	if _, err := e.GenerateBackground(context.Background(), ports.VideoInfo{Summary: "x"}); err == nil {
		t.Fatal("expected generation error")
	}
	if len(stage.inputs) != 0 || e.Input().Background != nil {
		t.Error("a failed generation must leave the editor untouched")
	}
}

func TestEditor_GenerateBackgroundUnavailable(t *testing.T) {
	e := newTestEditor(&mockComposeStage{}, &mocks.Renderer{})
	if _, err := e.GenerateBackground(context.Background(), ports.VideoInfo{}); !errors.Is(err, ErrGeneratorUnavailable) {
		t.Errorf("expected ErrGeneratorUnavailable, got %v", err)
	}
}
