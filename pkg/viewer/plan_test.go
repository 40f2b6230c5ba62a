package viewer

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/philipparndt/roomgeo/pkg/export"
)

func square(id string, x0, y0, size float64) export.Room {
	return export.Room{
		ID: id,
		Outline2D: [][2]float64{
			{x0, y0}, {x0 + size, y0}, {x0 + size, y0 + size}, {x0, y0 + size},
		},
	}
}

// near compares colours allowing for anti-aliasing round-off
func near(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return x-y <= 2 || y-x <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestRenderPlan(t *testing.T) {
	opts := DefaultPlanOptions()
	opts.Width, opts.Height, opts.Margin = 100, 100, 10

	rooms := []export.Room{square("a", 0, 0, 1), {ID: "no-outline"}, square("b", 2, 0, 1)}
	img, err := RenderPlan(rooms, opts)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	// x spans 0..3 over 80px, so each unit is ~26.7px and the rooms sit
	// vertically centred around y=50
	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"room a", 23, 50, opts.Palette[0]},
		{"room b", 76, 50, opts.Palette[2]},
		{"gap", 50, 50, opts.Background},
		{"margin", 1, 1, opts.Background},
		{"above rooms", 23, 20, opts.Background},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); !near(got, tt.want) {
			t.Errorf("%s: pixel (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}

	// The left edge of room a is outlined
	if got := img.RGBAAt(10, 50); got != opts.Edge {
		t.Errorf("expected edge colour at (10,50), got %v", got)
	}
}

func TestRenderPlanWithoutOutlines(t *testing.T) {
	_, err := RenderPlan([]export.Room{{ID: "x"}}, DefaultPlanOptions())
	if err != ErrNoOutlines {
		t.Errorf("expected ErrNoOutlines, got %v", err)
	}
}

func TestWritePNG(t *testing.T) {
	img, err := RenderPlan([]export.Room{square("a", 0, 0, 4)}, DefaultPlanOptions())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Bounds().Dx() != 1024 || decoded.Bounds().Dy() != 768 {
		t.Errorf("unexpected size %v", decoded.Bounds())
	}
}
