package viewport

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// DisplaySettings controls how a controller renders its tile. It is passed
// to each controller explicitly instead of being shared global state.
type DisplaySettings struct {
	ShowOverlay bool    `json:"show_overlay" yaml:"show_overlay"`
	Contrast    float64 `json:"contrast" yaml:"contrast"`
	Brightness  float64 `json:"brightness" yaml:"brightness"`
}

// DefaultDisplay returns identity contrast and brightness with the overlay
// enabled.
func DefaultDisplay() DisplaySettings {
	return DisplaySettings{ShowOverlay: true, Contrast: 1.0, Brightness: 0}
}

func (s DisplaySettings) isIdentity() bool {
	return s.Contrast == 1.0 && s.Brightness == 0
}

// adjust applies l*contrast+brightness to every color channel, clamped to
// the 8 bit range.
func (s DisplaySettings) adjust(img *image.NRGBA) *image.NRGBA {
	if s.isIdentity() {
		return img
	}
	var lut [256]uint8
	for i := range lut {
		v := float64(i)*s.Contrast + s.Brightness
		switch {
		case v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		lut[i] = uint8(v)
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{lut[c.R], lut[c.G], lut[c.B], c.A}
	})
}

// buildOverlay merges the two masks into one RGBA layer: the primary mask is
// drawn red and the secondary cyan, each with alpha equal to the mask value.
// Channels are combined by maximum.
func buildOverlay(primary, secondary *image.Gray, size image.Point) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			var p, s uint8
			if primary != nil {
				p = maskAt(primary, x, y)
			}
			if secondary != nil {
				s = maskAt(secondary, x, y)
			}
			i := out.PixOffset(x, y)
			out.Pix[i+0] = p
			out.Pix[i+1] = s
			out.Pix[i+2] = s
			out.Pix[i+3] = max(p, s)
		}
	}
	return out
}

func maskAt(m *image.Gray, x, y int) uint8 {
	b := m.Bounds()
	pt := image.Point{b.Min.X + x, b.Min.Y + y}
	if !pt.In(b) {
		return 0
	}
	return m.GrayAt(pt.X, pt.Y).Y
}

// composite scales the sr region of overlay to the size of base with nearest
// neighbor sampling and alpha blends it on top.
func composite(base *image.NRGBA, overlay *image.NRGBA, sr image.Rectangle) *image.NRGBA {
	sr = sr.Intersect(overlay.Bounds())
	if sr.Empty() {
		return base
	}
	scaled := image.NewNRGBA(base.Bounds())
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), overlay, sr, xdraw.Src, nil)

	out := imaging.Clone(base)
	xdraw.Draw(out, out.Bounds(), scaled, image.Point{}, xdraw.Over)
	return out
}
