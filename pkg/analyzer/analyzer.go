package analyzer

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/stat"

	"github.com/menta2k/vbcrop/pkg/types"
)

// ImageAnalyzer reports image metadata and intensity statistics for the info
// panel
type ImageAnalyzer struct {
	config Config
}

// Config holds configuration for the image analyzer
type Config struct {
	MinImageSize int
}

// New creates a new ImageAnalyzer with default configuration
func New() *ImageAnalyzer {
	return &ImageAnalyzer{
		config: Config{
			MinImageSize: 1,
		},
	}
}

// NewWithConfig creates a new ImageAnalyzer with custom configuration
func NewWithConfig(config Config) *ImageAnalyzer {
	return &ImageAnalyzer{config: config}
}

// GetImageInfo returns basic information about an image
func (a *ImageAnalyzer) GetImageInfo(img image.Image) types.ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	info := types.ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

// ValidateImage checks if an image meets minimum requirements
func (a *ImageAnalyzer) ValidateImage(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() < a.config.MinImageSize || bounds.Dy() < a.config.MinImageSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), a.config.MinImageSize)
	}
	return nil
}

// Histogram counts the pixels of each intensity
func Histogram(img *image.Gray) [256]float64 {
	var h [256]float64
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y) : img.PixOffset(b.Min.X, y)+b.Dx()]
		for _, v := range row {
			h[v]++
		}
	}
	return h
}

// Intensity computes weighted statistics over the intensity histogram, so
// large images never need a per-pixel float slice.
func (a *ImageAnalyzer) Intensity(img *image.Gray) types.IntensityStats {
	hist := Histogram(img)

	var values, weights []float64
	for v, n := range hist {
		if n > 0 {
			values = append(values, float64(v))
			weights = append(weights, n)
		}
	}
	if len(values) == 0 {
		return types.IntensityStats{}
	}

	var stats types.IntensityStats
	stats.Mean, stats.StdDev = stat.MeanStdDev(values, weights)
	stats.Min = values[0]
	stats.Max = values[len(values)-1]
	stats.Median = stat.Quantile(0.5, stat.Empirical, values, weights)
	return stats
}

// FormatDimensions renders "W x H" for the info panel
func FormatDimensions(w, h int) string {
	return fmt.Sprintf("%d x %d", w, h)
}

// FormatIntensity renders intensity statistics for the info panel
func FormatIntensity(s types.IntensityStats) string {
	return fmt.Sprintf("%.1f ± %.1f (min %.0f, median %.0f, max %.0f)", s.Mean, s.StdDev, s.Min, s.Median, s.Max)
}
