package vbcrop

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/vbcrop/pkg/cropper"
	"github.com/menta2k/vbcrop/pkg/types"
)

// createTestImage creates a grayscale gradient
func createTestImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = uint8((x*3 + y) % 256)
		}
	}
	return img
}

func writeTestImage(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "L1_US7.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, createTestImage(width, height)); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.processor == nil {
		t.Error("processor component is nil")
	}
	if c.analyzer == nil {
		t.Error("analyzer component is nil")
	}
}

func TestCrop(t *testing.T) {
	c := New()
	img := createTestImage(1024, 1024)

	result, err := c.Crop(img, types.CropRequest{Center: image.Pt(200, 200), Dim: 384})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if result.Region != image.Rect(8, 8, 393, 393) {
		t.Errorf("Expected region (8,8)-(393,393), got %v", result.Region)
	}
	if result.Image.GrayAt(0, 0) != img.GrayAt(8, 8) {
		t.Error("Expected crop to start at (8, 8)")
	}
}

func TestCropDefaultSize(t *testing.T) {
	c := New()
	result, err := c.Crop(createTestImage(1024, 1024), types.CropRequest{Center: image.Pt(512, 512)})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Dim != 384 {
		t.Errorf("Expected default dim 384, got %d", result.Dim)
	}
}

func TestCropBelowMinimum(t *testing.T) {
	c := New()
	_, err := c.Crop(createTestImage(200, 200), types.CropRequest{Center: image.Pt(100, 100), Dim: 50})
	if err == nil {
		t.Error("Expected error for crop below minimum size")
	}
}

func TestCropOutsideImage(t *testing.T) {
	c := New()
	_, err := c.Crop(createTestImage(200, 200), types.CropRequest{Center: image.Pt(5000, 5000), Dim: 100})
	if !errors.Is(err, cropper.ErrEmptyCrop) {
		t.Errorf("Expected ErrEmptyCrop, got %v", err)
	}
}

func TestPyramid(t *testing.T) {
	c := New()
	p := c.Pyramid(createTestImage(1024, 1024))
	if p.Len() != 2 {
		t.Errorf("Expected 2 levels, got %d", p.Len())
	}
}

func TestCropFile(t *testing.T) {
	c := New()
	in := writeTestImage(t, 600, 400)
	out := filepath.Join(t.TempDir(), "crop")

	result, err := c.CropFile(in, out, types.CropRequest{Center: image.Pt(300, 200), Dim: 200})
	if err != nil {
		t.Fatalf("CropFile failed: %v", err)
	}
	if result.Image.Bounds().Dx() != 201 {
		t.Errorf("Expected width 201, got %d", result.Image.Bounds().Dx())
	}
	if _, err := os.Stat(out + ".jpg"); err != nil {
		t.Errorf("Expected output file: %v", err)
	}
}

func TestCropFileMissingInput(t *testing.T) {
	c := New()
	_, err := c.CropFile(filepath.Join(t.TempDir(), "missing.png"), "out.jpg", types.CropRequest{})
	if err == nil {
		t.Error("Expected error for missing input")
	}
}

func TestSuggestedName(t *testing.T) {
	c := New()
	if got := c.SuggestedName("/scans/L1_US7.png", "US", "-"); got != "7-.jpg" {
		t.Errorf("Expected 7-.jpg, got %s", got)
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("Expected %s, got %s", Version, GetVersion())
	}
}
