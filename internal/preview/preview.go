// Package preview renders images as ANSI half-block text for the terminal
// lightbox.
package preview

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// halfBlock draws the upper pixel as foreground and the lower as background
const halfBlock = "▀"

// Decode reads a jpeg, png, gif, webp or bmp image
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Fit scales img to fit within cols x rows terminal cells. Each cell holds two
// vertical pixels.
func Fit(img image.Image, cols, rows int) image.Image {
	if cols <= 0 || rows <= 0 {
		return img
	}
	return resize.Thumbnail(uint(cols), uint(rows*2), img, resize.Lanczos3)
}

// Render draws img into at most cols x rows cells
func Render(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	img = Fit(img, cols, rows)
	b := img.Bounds()

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.At(x, y)
			style := lipgloss.NewStyle().Foreground(hex(top))
			if y+1 < b.Max.Y {
				style = style.Background(hex(img.At(x, y+1)))
			}
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

func hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
