// Package pyramid builds multi-resolution copies of an image so that zoomed
// out views can be resampled from a small image instead of the full source.
package pyramid

import (
	"image"

	"github.com/disintegration/imaging"
)

// Default build parameters.
const (
	DefaultThreshold = 512
	DefaultReduction = 2
)

// Options controls how a pyramid is built
type Options struct {
	// Threshold stops the build once both dimensions are at or below it.
	Threshold int `json:"threshold" yaml:"threshold"`
	// Reduction is the integer factor each level is divided by.
	Reduction int `json:"reduction" yaml:"reduction"`
}

// DefaultOptions returns the 512px / factor 2 settings.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Reduction: DefaultReduction}
}

func (o Options) normalized() Options {
	if o.Threshold < 1 {
		o.Threshold = DefaultThreshold
	}
	if o.Reduction < 2 {
		o.Reduction = DefaultReduction
	}
	return o
}

// Pyramid is an ordered sequence of progressively downsampled images.
// Level 0 is always the source image.
type Pyramid struct {
	levels []image.Image
	opts   Options
}

// Build creates the pyramid for src. Each level after the first is the
// previous level resized by nearest neighbor to floor(w/r) x floor(h/r).
func Build(src image.Image, opts Options) *Pyramid {
	opts = opts.normalized()
	p := &Pyramid{levels: []image.Image{src}, opts: opts}

	sizes := LevelSizes(src.Bounds().Dx(), src.Bounds().Dy(), opts)
	for _, sz := range sizes[1:] {
		prev := p.levels[len(p.levels)-1]
		p.levels = append(p.levels, imaging.Resize(prev, sz.X, sz.Y, imaging.NearestNeighbor))
	}
	return p
}

// LevelSizes returns the dimensions of every level Build would produce for a
// w x h image, without touching any pixels.
func LevelSizes(w, h int, opts Options) []image.Point {
	opts = opts.normalized()
	sizes := []image.Point{{w, h}}
	for w > opts.Threshold || h > opts.Threshold {
		w = max(1, w/opts.Reduction)
		h = max(1, h/opts.Reduction)
		sizes = append(sizes, image.Point{w, h})
	}
	return sizes
}

// Len returns the number of levels.
func (p *Pyramid) Len() int {
	return len(p.levels)
}

// Level returns level i, clamped to the valid range.
func (p *Pyramid) Level(i int) image.Image {
	return p.levels[p.Clamp(i)]
}

// Clamp returns i limited to [0, Len()-1].
func (p *Pyramid) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(p.levels) {
		return len(p.levels) - 1
	}
	return i
}

// Source returns level 0.
func (p *Pyramid) Source() image.Image {
	return p.levels[0]
}

// Reduction returns the per-level reduction factor.
func (p *Pyramid) Reduction() int {
	return p.opts.Reduction
}

// Sizes returns the dimensions of each level in order.
func (p *Pyramid) Sizes() []image.Point {
	out := make([]image.Point, len(p.levels))
	for i, l := range p.levels {
		b := l.Bounds()
		out[i] = image.Point{b.Dx(), b.Dy()}
	}
	return out
}
