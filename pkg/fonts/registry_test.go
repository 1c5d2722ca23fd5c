package fonts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/user/thumbforge/pkg/adapters/logger"
	"github.com/user/thumbforge/pkg/pipeline"
)

func TestRegistry_ResolveBuiltin(t *testing.T) {
	r := NewRegistry(logger.NewNoop())

	tests := []struct {
		name       string
		family     string
		weight     int
		wantFamily string
		wantWeight int
		fallback   bool
	}{
		{"exact regular", "Go", 400, "Go", 400, false},
		{"case insensitive", "go", 700, "Go", 700, false},
		{"empty family", "", 0, "Go", 400, false},
		{"heavier than available", "Go", 900, "Go", 700, false},
		{"unknown family", "Poppins", 900, "Go", 700, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, info := r.Resolve(tt.family, tt.weight)
			if f == nil {
				t.Fatal("expected a font")
			}
			if info.Family != tt.wantFamily || info.Weight != tt.wantWeight {
				t.Errorf("got %s %d, want %s %d", info.Family, info.Weight, tt.wantFamily, tt.wantWeight)
			}
			if info.Fallback != tt.fallback {
				t.Errorf("fallback = %v, want %v", info.Fallback, tt.fallback)
			}
		})
	}
}

func TestMatchWeight(t *testing.T) {
	tests := []struct {
		desired   int
		available []int
		want      int
	}{
		{400, []int{400, 700}, 400},
		{400, []int{300, 500, 700}, 500},
		{500, []int{300, 400, 700}, 400},
		{450, []int{700}, 700},
		{300, []int{100, 400}, 100},
		{300, []int{400, 700}, 400},
		{900, []int{400, 700}, 700},
		{600, []int{400, 800}, 800},
		{600, []int{400}, 400},
		{400, nil, 400},
	}

	for _, tt := range tests {
		if got := MatchWeight(tt.desired, tt.available); got != tt.want {
			t.Errorf("MatchWeight(%d, %v) = %d, want %d", tt.desired, tt.available, got, tt.want)
		}
	}
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	r := NewRegistry(logger.NewNoop())

	err := r.Register("Broken", 400, []byte("definitely not a font"), "broken.ttf")
	if !errors.Is(err, pipeline.ErrFontLoad) {
		t.Fatalf("expected ErrFontLoad, got %v", err)
	}
	if state, ok := r.State("Broken", 400); !ok || state != StateFailed {
		t.Errorf("state = %v (%v), want failed", state, ok)
	}

	_, info := r.Resolve("Broken", 400)
	if !info.Fallback || info.Family != DefaultFamily {
		t.Errorf("expected default family fallback, got %+v", info)
	}
}

func TestRegistry_FailedReloadKeepsPreviousFace(t *testing.T) {
	r := NewRegistry(logger.NewNoop())

	if err := r.Register("Display", 700, gobold.TTF, "bold.ttf"); err != nil {
		t.Fatalf("register: %v", err)
	}
	before, _ := r.Resolve("Display", 700)

	if err := r.Register("Display", 700, []byte("garbage!"), "bad.ttf"); err == nil {
		t.Fatal("expected error for garbage data")
	}

	after, info := r.Resolve("Display", 700)
	if after != before {
		t.Error("expected the previously loaded face to stay active")
	}
	if info.Family != "Display" || !info.Fallback {
		t.Errorf("unexpected resolution %+v", info)
	}
}

func TestParse_RejectsWOFF(t *testing.T) {
	for _, magic := range []string{"wOFF", "wOF2"} {
		_, err := Parse([]byte(magic + "\x00\x01\x00\x00rest"))
		if !errors.Is(err, pipeline.ErrFontLoad) {
			t.Errorf("%s: expected ErrFontLoad, got %v", magic, err)
		}
		if err != nil && !strings.Contains(err.Error(), "WOFF") {
			t.Errorf("%s: expected WOFF in message, got %v", magic, err)
		}
	}
}

func TestParse_TooShort(t *testing.T) {
	if _, err := Parse([]byte{0, 1}); !errors.Is(err, pipeline.ErrFontLoad) {
		t.Errorf("expected ErrFontLoad, got %v", err)
	}
}

func TestRegistry_RegisterCustom(t *testing.T) {
	r := NewRegistry(logger.NewNoop())

	family, err := r.RegisterCustom("My Upload", goregular.TTF)
	if err != nil {
		t.Fatalf("register custom: %v", err)
	}
	if !strings.HasPrefix(family, "custom-") {
		t.Errorf("family %q lacks custom- prefix", family)
	}

	_, info := r.Resolve(family, 900)
	if info.Family != family || info.Weight != DefaultWeight || info.Fallback {
		t.Errorf("unexpected resolution %+v", info)
	}

	var found bool
	for _, fi := range r.Families() {
		if fi.Family == family {
			found = true
			if fi.DisplayName != "My Upload" {
				t.Errorf("display name = %q", fi.DisplayName)
			}
		}
	}
	if !found {
		t.Error("custom family missing from listing")
	}
}

func TestRegistry_LoadAsync(t *testing.T) {
	r := NewRegistry(logger.NewNoop())

	release := make(chan struct{})
	done := r.LoadAsync(context.Background(), "Poppins", 900, "poppins.ttf", func(ctx context.Context) ([]byte, error) {
		<-release
		return gobold.TTF, nil
	})

	if state, _ := r.State("Poppins", 900); state != StatePending {
		t.Errorf("state = %v, want pending", state)
	}
	_, info := r.Resolve("Poppins", 900)
	if !info.Fallback || info.Family != DefaultFamily {
		t.Errorf("pending load should resolve to fallback, got %+v", info)
	}

	close(release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}

	_, info = r.Resolve("Poppins", 900)
	if info.Fallback || info.Family != "Poppins" {
		t.Errorf("expected loaded face, got %+v", info)
	}
}

func TestRegistry_LoadAsyncNewestWins(t *testing.T) {
	r := NewRegistry(logger.NewNoop())
	ctx := context.Background()

	releaseOld := make(chan struct{})
	older := r.LoadAsync(ctx, "Brand", 400, "old.ttf", func(ctx context.Context) ([]byte, error) {
		<-releaseOld
		return goregular.TTF, nil
	})
	newer := r.LoadAsync(ctx, "Brand", 400, "new.ttf", func(ctx context.Context) ([]byte, error) {
		return gobold.TTF, nil
	})

	if err := <-newer; err != nil {
		t.Fatalf("newer load failed: %v", err)
	}
	want, _ := r.Resolve("Brand", 400)

	close(releaseOld)
	if err := <-older; err != nil {
		t.Fatalf("superseded load should report nil, got %v", err)
	}

	got, info := r.Resolve("Brand", 400)
	if got != want {
		t.Error("the older load must not replace the newer face")
	}
	if info.Fallback {
		t.Errorf("expected loaded face, got %+v", info)
	}
	for _, f := range r.Families() {
		if f.Family == "Brand" && f.Source != "new.ttf" {
			t.Errorf("source = %q, want new.ttf", f.Source)
		}
	}
}

func TestRegistry_LoadAsyncFetchError(t *testing.T) {
	r := NewRegistry(logger.NewNoop())

	done := r.LoadAsync(context.Background(), "Missing", 400, "missing.ttf", func(ctx context.Context) ([]byte, error) {
		return nil, errors.New("no such file")
	})

	err := <-done
	if !errors.Is(err, pipeline.ErrFontLoad) {
		t.Fatalf("expected ErrFontLoad, got %v", err)
	}
	if state, _ := r.State("Missing", 400); state != StateFailed {
		t.Errorf("state = %v, want failed", state)
	}
	if _, ok := <-done; ok {
		t.Error("expected channel to be closed")
	}
}
