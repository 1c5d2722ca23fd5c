package fonts

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/user/thumbforge/pkg/ports"
)

func newTestFace(t *testing.T, size float64) *Face {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	face, err := NewFace(f, size)
	if err != nil {
		t.Fatalf("new face: %v", err)
	}
	return face
}

func TestFace_Measure(t *testing.T) {
	face := newTestFace(t, 48)

	if got := face.Measure(""); got != 0 {
		t.Errorf("empty string measured %v", got)
	}

	short := face.Measure("THE")
	long := face.Measure("THE SECRET")
	if short <= 0 || long <= short {
		t.Errorf("expected growing widths, got %v then %v", short, long)
	}

	bigger := newTestFace(t, 96)
	if w := bigger.Measure("THE"); w <= short {
		t.Errorf("doubling the size should widen text: %v vs %v", w, short)
	}
}

func TestFace_Metrics(t *testing.T) {
	face := newTestFace(t, 64)
	if face.Size() != 64 {
		t.Errorf("size = %v", face.Size())
	}
	if face.Ascent() <= 0 || face.Descent() <= 0 {
		t.Errorf("expected positive ascent and descent, got %v %v", face.Ascent(), face.Descent())
	}
}

func TestFace_Outline(t *testing.T) {
	face := newTestFace(t, 64)

	path := face.Outline("A", 100, 200)
	if len(path) == 0 {
		t.Fatal("expected segments for A")
	}
	if path[0].Op != ports.PathMoveTo {
		t.Errorf("first segment op = %v, want MoveTo", path[0].Op)
	}
	for _, seg := range path {
		p := seg.Args[0]
		if p.X < 100-1 || p.X > 100+face.Measure("A")+1 {
			t.Errorf("x %v outside glyph advance", p.X)
		}
		if p.Y > 200+1 {
			t.Errorf("y %v below baseline for A", p.Y)
		}
	}

	if got := face.Outline(" ", 0, 0); len(got) != 0 {
		t.Errorf("space should have no contours, got %d segments", len(got))
	}
}

func TestNewFace_Invalid(t *testing.T) {
	f, _ := opentype.Parse(goregular.TTF)
	for _, size := range []float64{0, -4} {
		if _, err := NewFace(f, size); err == nil {
			t.Errorf("size %v: expected error", size)
		}
	}
	if _, err := NewFace(nil, 12); err == nil {
		t.Error("nil font: expected error")
	}
}
