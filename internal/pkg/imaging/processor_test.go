package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcessCropsToSquare(t *testing.T) {
	p := NewProcessor(Config{Size: 100, ThumbSize: 20})

	out, err := p.Process(encodePNG(t, 300, 150))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if out.Width != 100 || out.Height != 100 {
		t.Fatalf("portrait %dx%d, want 100x100", out.Width, out.Height)
	}
	if out.ContentType != "image/jpeg" {
		t.Fatalf("content type %q", out.ContentType)
	}

	thumb, _, err := image.Decode(bytes.NewReader(out.Thumbnail))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("thumbnail %dx%d, want 20x20", b.Dx(), b.Dy())
	}
}

func TestProcessDoesNotUpscale(t *testing.T) {
	p := NewProcessor(Config{Size: 500, ThumbSize: 20})

	out, err := p.Process(encodePNG(t, 60, 80))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if out.Width != 60 || out.Height != 60 {
		t.Fatalf("portrait %dx%d, want 60x60", out.Width, out.Height)
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	if _, err := NewProcessor(DefaultConfig()).Process([]byte("nope")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPortraitKeys(t *testing.T) {
	full, thumb := PortraitKeys(4, "abc")
	if full != "stylists/4/abc.jpg" || thumb != "stylists/4/abc_thumb.jpg" {
		t.Fatalf("keys = %q, %q", full, thumb)
	}
}
