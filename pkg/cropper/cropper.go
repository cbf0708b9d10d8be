package cropper

import (
	"errors"
	"fmt"
	"image"

	"github.com/menta2k/vbcrop/pkg/types"
)

// ErrEmptyCrop is returned when the requested crop does not overlap the
// source image.
var ErrEmptyCrop = errors.New("crop area empty or out of bounds")

// Default crop box sizing
const (
	DefaultStartDim = 384
	DefaultMinDim   = 100
	DefaultStep     = 2
)

// Sizing holds the crop box size rules
type Sizing struct {
	Start int `json:"start_dim" yaml:"start_dim"`
	Min   int `json:"min_dim" yaml:"min_dim"`
	Step  int `json:"step" yaml:"step"`
}

// DefaultSizing returns the default crop box sizing
func DefaultSizing() Sizing {
	return Sizing{Start: DefaultStartDim, Min: DefaultMinDim, Step: DefaultStep}
}

// Validate checks the sizing rules are usable
func (s Sizing) Validate() error {
	if s.Min < 1 {
		return fmt.Errorf("min_dim must be positive")
	}
	if s.Start < s.Min {
		return fmt.Errorf("start_dim (%d) must not be below min_dim (%d)", s.Start, s.Min)
	}
	if s.Step < 1 {
		return fmt.Errorf("step must be positive")
	}
	return nil
}

// Box is the square crop cursor. The center is in view coordinates and the
// side length in source pixels.
type Box struct {
	Center types.Point
	Dim    int
	sizing Sizing
}

// NewBox creates a box of the starting size
func NewBox(s Sizing) *Box {
	dim := max(s.Start, s.Min)
	return &Box{Dim: dim, sizing: s}
}

// MoveTo centers the box on p
func (b *Box) MoveTo(p types.Point) {
	b.Center = p
}

// Scroll grows the box for a non-negative wheel delta and shrinks it for a
// negative one. The side never drops below the minimum.
func (b *Box) Scroll(delta float64) int {
	if delta < 0 {
		b.Dim = max(b.Dim-b.sizing.Step, b.sizing.Min)
	} else {
		b.Dim += b.sizing.Step
	}
	return b.Dim
}

// SetDim sets the side length, clamped to the minimum
func (b *Box) SetDim(dim int) {
	b.Dim = max(dim, b.sizing.Min)
}

// Rect returns the box outline around its center with half side Dim/2,
// scaled by zoom for display on a view.
func (b *Box) Rect(zoom float64) types.Rect {
	half := float64(b.Dim/2) * zoom
	return types.Rect{
		X1: b.Center.X - half,
		Y1: b.Center.Y - half,
		X2: b.Center.X + half,
		Y2: b.Center.Y + half,
	}
}

// Bounds returns the source rectangle of a crop centered on center. Both the
// low and high edges at center -/+ dim/2 are included.
func Bounds(center image.Point, dim int) image.Rectangle {
	half := dim / 2
	return image.Rect(center.X-half, center.Y-half, center.X+half+1, center.Y+half+1)
}

// Result contains the result of a cropping operation
type Result struct {
	Image  *image.Gray
	Region image.Rectangle
	Center image.Point
	Dim    int
}

// Slice copies the crop centered on center out of src. The region is clipped
// to the source bounds and the copy is rebased to (0, 0); it shares no memory
// with src.
func Slice(src *image.Gray, center image.Point, dim int) (Result, error) {
	if dim < 1 {
		return Result{}, fmt.Errorf("invalid crop dimension %d", dim)
	}
	region := Bounds(center, dim).Intersect(src.Bounds())
	if region.Empty() {
		return Result{}, ErrEmptyCrop
	}

	out := image.NewGray(image.Rect(0, 0, region.Dx(), region.Dy()))
	for y := region.Min.Y; y < region.Max.Y; y++ {
		from := src.PixOffset(region.Min.X, y)
		to := out.PixOffset(0, y-region.Min.Y)
		copy(out.Pix[to:to+region.Dx()], src.Pix[from:from+region.Dx()])
	}

	return Result{
		Image:  out,
		Region: region,
		Center: center,
		Dim:    dim,
	}, nil
}

// Blank returns a white dim x dim image used as the empty crop preview
func Blank(dim int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, dim, dim))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}
