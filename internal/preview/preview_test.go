package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(4, 4, color.White)); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("width: %d", img.Bounds().Dx())
	}

	if _, err := Decode(strings.NewReader("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFit(t *testing.T) {
	img := Fit(solid(100, 50, color.Black), 10, 10)
	b := img.Bounds()
	if b.Dx() > 10 || b.Dy() > 20 {
		t.Fatalf("did not fit: %v", b)
	}
}

func TestRender(t *testing.T) {
	out := Render(solid(8, 8, color.White), 4, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if strings.Count(lines[0], halfBlock) != 4 {
		t.Fatalf("expected 4 cells per row: %q", lines[0])
	}
	if Render(nil, 4, 4) != "" || Render(solid(1, 1, color.White), 0, 4) != "" {
		t.Fatal("expected empty render")
	}
}
