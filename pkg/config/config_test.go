package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.AspectRatio != "16:9" {
		t.Errorf("aspect ratio = %q", cfg.AspectRatio)
	}
	if cfg.Layout.VerticalAnchor != pipeline.AnchorBottom || cfg.Layout.HorizontalAlign != pipeline.AlignCenter {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.InterBlockSpacingPct != 2 {
		t.Errorf("spacing = %v", cfg.Layout.InterBlockSpacingPct)
	}
	if cfg.Headline1.Color != "#FFFFFF" || cfg.Headline1.FontSizePct != 10 {
		t.Errorf("headline1 = %+v", cfg.Headline1)
	}
	if cfg.Headline2.Color != "#FFFF00" || cfg.Headline2.FontSizePct != 8 {
		t.Errorf("headline2 = %+v", cfg.Headline2)
	}
	for _, h := range []pipeline.HeadlineStyle{cfg.Headline1, cfg.Headline2} {
		if h.FontFamily != "Poppins" || h.FontWeight != 900 {
			t.Errorf("font = %s %d", h.FontFamily, h.FontWeight)
		}
		if h.StrokeColor != "#000000" || h.StrokeWidthPct != 10 || h.StrokeOpacityPct != 100 || h.FillOpacityPct != 100 {
			t.Errorf("stroke = %+v", h)
		}
	}
	if problems := cfg.Validate(); len(problems) != 0 {
		t.Errorf("defaults should validate, got %v", problems)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thumb.yaml")
	data := []byte(`
aspect_ratio: "9:16"
image: photos/bg.jpg
output: /tmp/out.png
headline1:
  text: the secret
  font_size: 12
layout:
  position: top
  align: left
fonts:
  - family: Poppins
    weight: 900
    path: fonts/Poppins-Black.ttf
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AspectRatio != "9:16" {
		t.Errorf("aspect ratio = %q", cfg.AspectRatio)
	}
	if cfg.Image != filepath.Join(dir, "photos/bg.jpg") {
		t.Errorf("image path not resolved: %q", cfg.Image)
	}
	if cfg.Output != "/tmp/out.png" {
		t.Errorf("absolute output changed: %q", cfg.Output)
	}
	if cfg.Fonts[0].Path != filepath.Join(dir, "fonts/Poppins-Black.ttf") {
		t.Errorf("font path not resolved: %q", cfg.Fonts[0].Path)
	}
	if cfg.Headline1.Text != "the secret" || cfg.Headline1.FontSizePct != 12 {
		t.Errorf("headline1 = %+v", cfg.Headline1)
	}
	// Unset fields keep their defaults.
	if cfg.Headline1.Color != "#FFFFFF" || cfg.Headline2.FontSizePct != 8 {
		t.Errorf("defaults lost: %+v / %+v", cfg.Headline1, cfg.Headline2)
	}
	if cfg.Layout.VerticalAnchor != pipeline.AnchorTop || cfg.Layout.InterBlockSpacingPct != 2 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("headline1: [unclosed"), 0644)
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.AspectRatio = "4:3"
	cfg.Layout.VerticalAnchor = "middle"
	cfg.Headline1.FontSizePct = 50
	cfg.Headline2.Color = "yellow"
	cfg.Fonts = []FontConfig{{Family: "NoPath", Weight: 400}}

	problems := cfg.Validate()
	if len(problems) != 5 {
		t.Errorf("expected 5 problems, got %d: %v", len(problems), problems)
	}
}

func TestParseFontFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    FontConfig
		wantErr bool
	}{
		{"Poppins:900:fonts/p.ttf", FontConfig{"Poppins", 900, "fonts/p.ttf"}, false},
		{`Inter:400:C:\fonts\inter.ttf`, FontConfig{"Inter", 400, `C:\fonts\inter.ttf`}, false},
		{"Poppins:fonts/p.ttf", FontConfig{}, true},
		{"Poppins:bold:p.ttf", FontConfig{}, true},
		{"Poppins:0:p.ttf", FontConfig{}, true},
		{":400:p.ttf", FontConfig{}, true},
		{"Poppins:400:", FontConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFontFlag(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestToOrchestratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Image = "bg.jpg"
	cfg.Output = "thumb.JPG"
	cfg.AspectRatio = "1:1"
	cfg.Headline1.Text = "hello"
	cfg.Fonts = []FontConfig{{Family: "Poppins", Weight: 900, Path: "p.ttf"}}

	oc := cfg.ToOrchestratorConfig()

	if oc.ImagePath != "bg.jpg" || oc.OutputPath != "thumb.JPG" {
		t.Errorf("paths = %q %q", oc.ImagePath, oc.OutputPath)
	}
	if oc.Format != ports.FormatJPEG {
		t.Errorf("format = %v, want JPEG", oc.Format)
	}
	if oc.AspectRatio != pipeline.Ratio1x1 {
		t.Errorf("aspect ratio = %q", oc.AspectRatio)
	}
	if oc.Headlines[0].Text != "hello" || oc.Headlines[1].Color != "#FFFF00" {
		t.Errorf("headlines = %+v", oc.Headlines)
	}
	if len(oc.Fonts) != 1 || oc.Fonts[0].Path != "p.ttf" {
		t.Errorf("fonts = %+v", oc.Fonts)
	}

	cfg.AspectRatio = "bogus"
	if got := cfg.ToOrchestratorConfig().AspectRatio; got != pipeline.Ratio16x9 {
		t.Errorf("unknown ratio should fall back to 16:9, got %q", got)
	}
}

func TestOutputFormat(t *testing.T) {
	tests := map[string]ports.ImageFormat{
		"a.png":  ports.FormatPNG,
		"a.jpg":  ports.FormatJPEG,
		"a.jpeg": ports.FormatJPEG,
		"a":      ports.FormatPNG,
		"a.webp": ports.FormatPNG,
	}
	for path, want := range tests {
		if got := OutputFormat(path); got != want {
			t.Errorf("OutputFormat(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestCompositionInput(t *testing.T) {
	cfg := Defaults()
	cfg.AspectRatio = "9:16"
	cfg.Headline2.Text = "second"

	in := cfg.CompositionInput()

	if in.AspectRatio != pipeline.Ratio9x16 || in.Background != nil {
		t.Errorf("input = %+v", in)
	}
	if in.Headlines[1].Text != "second" || in.Layout != cfg.Layout {
		t.Errorf("headlines/layout not carried: %+v", in)
	}
}
