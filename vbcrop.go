// Package vbcrop crops square regions of interest, such as vertebral bodies,
// out of large grayscale scans.
//
// Basic usage:
//
//	package main
//
//	import (
//		"image"
//		"log"
//
//		"github.com/menta2k/vbcrop"
//		"github.com/menta2k/vbcrop/pkg/types"
//	)
//
//	func main() {
//		c := vbcrop.New()
//
//		// Crop a 384 pixel square around (200, 200) and save it as JPEG
//		req := types.CropRequest{Center: image.Pt(200, 200), Dim: 384}
//		if _, err := c.CropFile("L4_US0042.png", "0042-.jpg", req); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these main components:
//
// 1. Pyramid (pkg/pyramid): Downsampled copies of the image for fast zooming
// 2. Viewport (pkg/viewport): Pan and zoom state and rendering of the visible tile
// 3. Mapping (pkg/mapping): View positions to source array indices
// 4. Cropper (pkg/cropper): Crop box sizing and slicing of the source array
// 5. Session (pkg/session): The interactive View/Crop application shell
//
// The desktop application lives in cmd/vbcrop and a scripted command line
// in cmd/cropctl.
package vbcrop

import (
	"fmt"
	"image"

	"github.com/menta2k/vbcrop/internal/utils"
	"github.com/menta2k/vbcrop/pkg/analyzer"
	"github.com/menta2k/vbcrop/pkg/cropper"
	"github.com/menta2k/vbcrop/pkg/processing"
	"github.com/menta2k/vbcrop/pkg/pyramid"
	"github.com/menta2k/vbcrop/pkg/types"
)

// Version of the vbcrop library
const Version = "1.0.0"

// Options configures a Cropper
type Options struct {
	Formats []string
	Crop    cropper.Sizing
	Pyramid pyramid.Options
	Output  types.OutputOptions
}

// DefaultOptions returns the options used by New
func DefaultOptions() Options {
	return Options{
		Formats: processing.DefaultFormats,
		Crop:    cropper.DefaultSizing(),
		Pyramid: pyramid.DefaultOptions(),
		Output:  types.OutputOptions{Format: "jpg", Quality: 95},
	}
}

// Cropper provides a high-level interface for loading, cropping and saving
type Cropper struct {
	opts      Options
	processor *processing.Processor
	analyzer  *analyzer.ImageAnalyzer
}

// New creates a new Cropper with default options
func New() *Cropper {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new Cropper with custom options
func NewWithOptions(opts Options) *Cropper {
	return &Cropper{
		opts:      opts,
		processor: processing.NewProcessorWithFormats(opts.Formats),
		analyzer:  analyzer.New(),
	}
}

// LoadImage loads the first channel of an image file
func (c *Cropper) LoadImage(path string) (*image.Gray, error) {
	return c.processor.LoadFirstChannel(path)
}

// SaveImage saves an image with the configured output options
func (c *Cropper) SaveImage(img image.Image, path string) error {
	return c.processor.SaveImage(img, path, c.opts.Output)
}

// GetImageInfo returns basic information about an image
func (c *Cropper) GetImageInfo(img image.Image) types.ImageInfo {
	return c.analyzer.GetImageInfo(img)
}

// Intensity returns intensity statistics of a grayscale image
func (c *Cropper) Intensity(img *image.Gray) types.IntensityStats {
	return c.analyzer.Intensity(img)
}

// Pyramid builds the image pyramid used for display
func (c *Cropper) Pyramid(img image.Image) *pyramid.Pyramid {
	return pyramid.Build(img, c.opts.Pyramid)
}

// Crop cuts a square of side req.Dim centered on req.Center. A zero Dim
// uses the starting crop size.
func (c *Cropper) Crop(img *image.Gray, req types.CropRequest) (cropper.Result, error) {
	dim := req.Dim
	if dim == 0 {
		dim = c.opts.Crop.Start
	}
	if dim < c.opts.Crop.Min {
		return cropper.Result{}, fmt.Errorf("crop size %d below minimum %d", dim, c.opts.Crop.Min)
	}
	return cropper.Slice(img, req.Center, dim)
}

// CropFile is a convenience function that loads, crops and saves an image
func (c *Cropper) CropFile(inputPath, outputPath string, req types.CropRequest) (cropper.Result, error) {
	img, err := c.LoadImage(inputPath)
	if err != nil {
		return cropper.Result{}, fmt.Errorf("failed to load image: %w", err)
	}

	if err := c.analyzer.ValidateImage(img); err != nil {
		return cropper.Result{}, fmt.Errorf("image validation failed: %w", err)
	}

	result, err := c.Crop(img, req)
	if err != nil {
		return cropper.Result{}, fmt.Errorf("cropping failed: %w", err)
	}

	outputPath = processing.EnsureExtension(outputPath, c.opts.Output.Format)
	if err := c.SaveImage(result.Image, outputPath); err != nil {
		return cropper.Result{}, fmt.Errorf("failed to save crop: %w", err)
	}
	return result, nil
}

// SuggestedName returns the save name for a crop of inputPath, the part of
// the file name after marker followed by suffix and the output extension.
func (c *Cropper) SuggestedName(inputPath, marker, suffix string) string {
	return processing.EnsureExtension(utils.SuggestName(inputPath, marker, suffix), c.opts.Output.Format)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
