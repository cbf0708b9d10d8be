// Package mapping converts pointer positions on a zoomed and panned view into
// indices of the source image array.
package mapping

import (
	"image"

	"github.com/menta2k/vbcrop/pkg/types"
)

// Frame is the view state a pointer position is interpreted against.
type Frame struct {
	// Scale is the current zoom of the source image on the view.
	Scale float64
	// Origin is the offset of the image's top-left corner from the view's
	// top-left corner. A negative component means the image is clipped on
	// that axis and the value is minus the number of source pixels hidden.
	Origin types.Point
}

// ToIndex maps a pointer position in view pixels to a (column, row) index
// into the source array. Results are truncated toward zero; pointers outside
// the image produce out of range indices and must be guarded by the caller.
func ToIndex(pointer types.Point, f Frame) image.Point {
	return image.Point{
		X: axis(pointer.X, f.Origin.X, f.Scale),
		Y: axis(pointer.Y, f.Origin.Y, f.Scale),
	}
}

func axis(p, origin, scale float64) int {
	if origin < 0 {
		return int(p/scale - origin)
	}
	return int((p - origin) / scale)
}

// ToView is the inverse of ToIndex for the top-left corner of a source pixel.
func ToView(idx image.Point, f Frame) types.Point {
	return types.Point{
		X: inverse(float64(idx.X), f.Origin.X, f.Scale),
		Y: inverse(float64(idx.Y), f.Origin.Y, f.Scale),
	}
}

func inverse(i, origin, scale float64) float64 {
	if origin < 0 {
		return (i + origin) * scale
	}
	return i*scale + origin
}

// InBounds reports whether idx addresses a pixel of an array of the given size.
func InBounds(idx image.Point, size image.Point) bool {
	return idx.X >= 0 && idx.Y >= 0 && idx.X < size.X && idx.Y < size.Y
}
