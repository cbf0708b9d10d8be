// Package viewport implements a zoomable and pannable view onto a single
// image. Rendering samples the visible tile from an image pyramid so that
// zoomed out views never resample the full resolution source.
package viewport

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/menta2k/vbcrop/pkg/mapping"
	"github.com/menta2k/vbcrop/pkg/pyramid"
	"github.com/menta2k/vbcrop/pkg/types"
)

// Default zoom behaviour.
const (
	DefaultZoomFactor = 1.1
	DefaultMinSize    = 30
)

// ErrUnsupportedPlacement is returned when a controller is attached with a
// placement method other than Grid.
var ErrUnsupportedPlacement = errors.New("unsupported placement")

// Placement is the layout method used to put a viewport on its parent.
type Placement int

const (
	Grid Placement = iota
	Pack
	Place
)

func (p Placement) String() string {
	switch p {
	case Grid:
		return "grid"
	case Pack:
		return "pack"
	case Place:
		return "place"
	default:
		return fmt.Sprintf("placement(%d)", int(p))
	}
}

// Options holds zoom and pyramid parameters for a controller
type Options struct {
	// ZoomFactor is the scale multiplier of a single zoom step.
	ZoomFactor float64
	// MinSize is the smallest on-screen size, in pixels, the shorter image
	// side may be zoomed out to.
	MinSize int
	Pyramid pyramid.Options
}

// DefaultOptions returns the standard zoom and pyramid parameters.
func DefaultOptions() Options {
	return Options{
		ZoomFactor: DefaultZoomFactor,
		MinSize:    DefaultMinSize,
		Pyramid:    pyramid.DefaultOptions(),
	}
}

// Controller owns the view state of one image: zoom, pan, selected pyramid
// level and the image origin used for pointer mapping. It is not safe for
// concurrent use.
type Controller struct {
	pyr      *pyramid.Pyramid
	settings DisplaySettings
	opts     Options

	primary   *image.Gray
	secondary *image.Gray
	overlay   *image.NRGBA

	viewW, viewH int
	view         types.Point // canvas coordinate of the view's top-left corner
	container    types.Rect  // image bounds in canvas coordinates
	minSide      int

	imscale float64 // zoom of the source image
	scale   float64 // zoom of the selected pyramid level
	level   int

	origin types.Point
	anchor types.Point
	tile   *types.Tile

	mark     types.Point
	markView types.Point
	attached bool
}

// New creates a controller for img and builds its pyramid.
func New(img image.Image, settings DisplaySettings, opts Options) *Controller {
	if opts.ZoomFactor <= 1 {
		opts.ZoomFactor = DefaultZoomFactor
	}
	if opts.MinSize < 1 {
		opts.MinSize = DefaultMinSize
	}
	c := &Controller{settings: settings, opts: opts}
	c.reset(img)
	return c
}

func (c *Controller) reset(img image.Image) {
	b := img.Bounds()
	c.pyr = pyramid.Build(img, c.opts.Pyramid)
	c.minSide = min(b.Dx(), b.Dy())
	c.imscale = 1.0
	c.scale = 1.0
	c.level = 0
	c.view = types.Point{}
	c.container = types.Rect{X2: float64(b.Dx()), Y2: float64(b.Dy())}
	c.origin = types.Point{}
	c.anchor = types.Point{}
	c.primary, c.secondary, c.overlay = nil, nil, nil
	c.tile = nil
}

// Attach records that the viewport has been put on its parent. Only the
// Grid placement is supported.
func (c *Controller) Attach(p Placement) error {
	if p != Grid {
		return fmt.Errorf("cannot use %s with the viewport: %w", p, ErrUnsupportedPlacement)
	}
	c.attached = true
	return nil
}

// Attached reports whether Attach succeeded.
func (c *Controller) Attached() bool {
	return c.attached
}

// Update replaces the displayed image, rebuilds the pyramid and resets zoom
// and pan.
func (c *Controller) Update(img image.Image) *types.Tile {
	c.reset(img)
	return c.Show()
}

// SetDisplay changes the display settings and re-renders.
func (c *Controller) SetDisplay(s DisplaySettings) *types.Tile {
	c.settings = s
	return c.Show()
}

// Display returns the current display settings.
func (c *Controller) Display() DisplaySettings {
	return c.settings
}

// SetOverlay sets the masks composited over the image when the overlay is
// enabled. Masks are in source coordinates; either may be nil.
func (c *Controller) SetOverlay(primary, secondary *image.Gray) *types.Tile {
	c.primary, c.secondary = primary, secondary
	c.overlay = nil
	if primary != nil || secondary != nil {
		b := c.pyr.Source().Bounds()
		c.overlay = buildOverlay(primary, secondary, b.Size())
	}
	return c.Show()
}

// Resize sets the size of the view in pixels and re-renders.
func (c *Controller) Resize(w, h int) *types.Tile {
	c.viewW, c.viewH = w, h
	return c.Show()
}

// ViewSize returns the view dimensions.
func (c *Controller) ViewSize() image.Point {
	return image.Point{c.viewW, c.viewH}
}

// Show renders the visible part of the image and returns it, or nil if the
// image does not intersect the view. It also records the image origin.
func (c *Controller) Show() *types.Tile {
	boxImage := c.container
	boxCanvas := types.Rect{
		X1: c.view.X,
		Y1: c.view.Y,
		X2: c.view.X + float64(c.viewW),
		Y2: c.view.Y + float64(c.viewH),
	}

	// tile bounds relative to the image's top-left corner, in view pixels
	x1 := math.Max(boxCanvas.X1-boxImage.X1, 0)
	y1 := math.Max(boxCanvas.Y1-boxImage.Y1, 0)
	x2 := math.Min(boxCanvas.X2, boxImage.X2) - boxImage.X1
	y2 := math.Min(boxCanvas.Y2, boxImage.Y2) - boxImage.Y1

	w, h := int(x2-x1), int(y2-y1)
	if w <= 0 || h <= 0 {
		c.tile = nil
		return nil
	}

	crop := image.Rect(
		int(x1/c.scale), int(y1/c.scale),
		int(x2/c.scale), int(y2/c.scale),
	)
	if crop.Dx() < 1 {
		crop.Max.X = crop.Min.X + 1
	}
	if crop.Dy() < 1 {
		crop.Max.Y = crop.Min.Y + 1
	}

	src := c.pyr.Level(c.level)
	cropped := imaging.Crop(src, crop)
	if cropped.Bounds().Empty() {
		c.tile = nil
		return nil
	}

	// the origin is kept in source pixels when clipped so it stays valid at
	// every pyramid level
	factor := c.scale / c.imscale
	if x1 > 0 {
		c.origin.X = -float64(crop.Min.X) * factor
	} else {
		c.origin.X = boxImage.X1 - boxCanvas.X1
	}
	if y1 > 0 {
		c.origin.Y = -float64(crop.Min.Y) * factor
	} else {
		c.origin.Y = boxImage.Y1 - boxCanvas.Y1
	}

	out := imaging.Resize(cropped, w, h, imaging.NearestNeighbor)
	out = c.settings.adjust(out)
	if c.settings.ShowOverlay && c.overlay != nil {
		sr := image.Rect(
			int(x1/c.imscale), int(y1/c.imscale),
			int(x2/c.imscale), int(y2/c.imscale),
		)
		out = composite(out, c.overlay, sr)
	}

	c.anchor = types.Point{
		X: math.Max(boxCanvas.X1, float64(int(boxImage.X1))),
		Y: math.Max(boxCanvas.Y1, float64(int(boxImage.Y1))),
	}
	c.tile = &types.Tile{
		Image:    out,
		Position: c.anchor.Sub(c.view),
		Level:    c.level,
	}
	return c.tile
}

// Tile returns the most recently rendered tile.
func (c *Controller) Tile() *types.Tile {
	return c.tile
}

// Render draws the current tile onto a view sized image filled with bg.
func (c *Controller) Render(bg color.Color) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, c.viewW, c.viewH))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)
	if c.tile == nil {
		return dst
	}
	at := image.Point{int(c.tile.Position.X), int(c.tile.Position.Y)}
	r := c.tile.Image.Bounds().Sub(c.tile.Image.Bounds().Min).Add(at)
	xdraw.Draw(dst, r, c.tile.Image, c.tile.Image.Bounds().Min, xdraw.Over)
	return dst
}

// ScanMark records the pointer position at the start of a drag.
func (c *Controller) ScanMark(x, y float64) {
	c.mark = types.Pt(x, y)
	c.markView = c.view
}

// ScanDragTo moves the view so the image follows the pointer since the last
// ScanMark, then re-renders.
func (c *Controller) ScanDragTo(x, y float64) *types.Tile {
	c.view = types.Point{
		X: c.markView.X - (x - c.mark.X),
		Y: c.markView.Y - (y - c.mark.Y),
	}
	return c.Show()
}

// Pan moves the image by (dx, dy) view pixels and re-renders.
func (c *Controller) Pan(dx, dy float64) *types.Tile {
	c.view = c.view.Sub(types.Pt(dx, dy))
	return c.Show()
}

// Zoom scales the image by factor about center (view pixels). It returns
// false and leaves the state untouched when the result would shrink the
// shorter image side below MinSize or make one source pixel larger than half
// the view.
func (c *Controller) Zoom(factor float64, center types.Point) bool {
	if factor <= 0 || factor == 1 {
		return false
	}
	next := c.imscale * factor
	if factor > 1 {
		limit := float64(min(c.viewW, c.viewH) / 2)
		if next > limit {
			return false
		}
	} else if math.Round(float64(c.minSide)*next) < float64(c.opts.MinSize) {
		return false
	}

	c.imscale = next
	r := float64(c.pyr.Reduction())
	level := -int(math.Log2(next) / math.Log2(r))
	c.level = c.pyr.Clamp(level)
	c.scale = next * math.Pow(r, float64(c.level))

	at := c.view.Add(center)
	c.container = types.Rect{
		X1: at.X + (c.container.X1-at.X)*factor,
		Y1: at.Y + (c.container.Y1-at.Y)*factor,
		X2: at.X + (c.container.X2-at.X)*factor,
		Y2: at.Y + (c.container.Y2-at.Y)*factor,
	}
	c.Show()
	return true
}

// ZoomIn zooms one step in about center.
func (c *Controller) ZoomIn(center types.Point) bool {
	return c.Zoom(c.opts.ZoomFactor, center)
}

// ZoomOut zooms one step out about center.
func (c *Controller) ZoomOut(center types.Point) bool {
	return c.Zoom(1/c.opts.ZoomFactor, center)
}

// Scale returns the zoom of the source image on the view.
func (c *Controller) Scale() float64 {
	return c.imscale
}

// RenderScale returns the zoom applied to the selected pyramid level.
func (c *Controller) RenderScale() float64 {
	return c.scale
}

// Level returns the selected pyramid level.
func (c *Controller) Level() int {
	return c.level
}

// Pyramid returns the controller's image pyramid.
func (c *Controller) Pyramid() *pyramid.Pyramid {
	return c.pyr
}

// Image returns the full resolution image.
func (c *Controller) Image() image.Image {
	return c.pyr.Source()
}

// Origin returns the offset of the image's top-left corner from the view's
// top-left corner as recorded by the last Show.
func (c *Controller) Origin() types.Point {
	return c.origin
}

// Anchor returns the canvas position of the last rendered tile.
func (c *Controller) Anchor() types.Point {
	return c.anchor
}

// ViewOffset returns the canvas coordinate of the view's top-left corner.
func (c *Controller) ViewOffset() types.Point {
	return c.view
}

// ImageRect returns the image bounds in canvas coordinates.
func (c *Controller) ImageRect() types.Rect {
	return c.container
}

// ViewRect returns the image bounds in view coordinates.
func (c *Controller) ViewRect() types.Rect {
	r := c.container
	return types.Rect{
		X1: r.X1 - c.view.X, Y1: r.Y1 - c.view.Y,
		X2: r.X2 - c.view.X, Y2: r.Y2 - c.view.Y,
	}
}

// Outside reports whether the view position (x, y) is not strictly inside
// the image.
func (c *Controller) Outside(x, y float64) bool {
	return !c.container.Contains(c.view.Add(types.Pt(x, y)))
}

// Frame returns the mapping frame for the current view state.
func (c *Controller) Frame() mapping.Frame {
	return mapping.Frame{Scale: c.imscale, Origin: c.origin}
}

// IndexAt maps a view position to an index into the source array.
func (c *Controller) IndexAt(x, y float64) image.Point {
	return mapping.ToIndex(types.Pt(x, y), c.Frame())
}

// SourceToView maps a source pixel index to its view position.
func (c *Controller) SourceToView(idx image.Point) types.Point {
	return mapping.ToView(idx, c.Frame())
}
