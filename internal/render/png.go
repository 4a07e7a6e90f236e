package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Renderer turns a feature vector into encoded image bytes.
type Renderer interface {
	Render(features []float64) ([]byte, error)
}

// PNG renders a row-major grayscale feature vector as a PNG.
// Values are stretched to the full 0..255 range of the individual image,
// and each source pixel becomes a Scale x Scale block.
type PNG struct {
	Width  int
	Height int
	Scale  int
}

func NewPNG(width, height, scale int) *PNG {
	if scale < 1 {
		scale = 1
	}
	return &PNG{Width: width, Height: height, Scale: scale}
}

func (p *PNG) Render(features []float64) ([]byte, error) {
	if len(features) == 0 || len(features) != p.Width*p.Height {
		return nil, fmt.Errorf("cannot render %d values as %dx%d image", len(features), p.Width, p.Height)
	}

	lo, hi := features[0], features[0]
	for _, v := range features {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	img := image.NewGray(image.Rect(0, 0, p.Width*p.Scale, p.Height*p.Scale))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			g := color.Gray{Y: level(features[y*p.Width+x], lo, hi)}
			for dy := 0; dy < p.Scale; dy++ {
				for dx := 0; dx < p.Scale; dx++ {
					img.SetGray(x*p.Scale+dx, y*p.Scale+dy, g)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func level(v, lo, hi float64) uint8 {
	if hi <= lo {
		return 0
	}
	return uint8((v-lo)/(hi-lo)*255 + 0.5)
}
