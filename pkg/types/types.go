package types

import "image"

// Point is a position in view or canvas space. Coordinates are fractional
// because zooming scales the canvas by non-integer factors.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Rect is an axis aligned rectangle in canvas coordinates.
type Rect struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Dx returns the width of r.
func (r Rect) Dx() float64 { return r.X2 - r.X1 }

// Dy returns the height of r.
func (r Rect) Dy() float64 { return r.Y2 - r.Y1 }

// Contains reports whether p lies strictly inside r.
func (r Rect) Contains(p Point) bool {
	return r.X1 < p.X && p.X < r.X2 && r.Y1 < p.Y && p.Y < r.Y2
}

// Tile is the rendered visible portion of an image. Position is the view
// position of its top-left corner.
type Tile struct {
	Image    image.Image
	Position Point
	// Level is the pyramid level the tile was sampled from.
	Level int
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Area        int     `json:"area"`
}

// IntensityStats summarises the intensity distribution of a grayscale image
type IntensityStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// CropRequest describes a scripted crop
type CropRequest struct {
	Center image.Point
	Dim    int
}

// OutputOptions contains options for writing cropped images
type OutputOptions struct {
	Format   string
	Quality  int
	Lossless bool
}
