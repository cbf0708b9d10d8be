package analyzer

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// createTestImage creates a gray image whose left half is lo and right half hi
func createTestImage(width, height int, lo, hi uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := lo
			if x >= width/2 {
				v = hi
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestNew(t *testing.T) {
	analyzer := New()
	if analyzer == nil {
		t.Fatal("New() returned nil")
	}

	if analyzer.config.MinImageSize != 1 {
		t.Errorf("Expected default min size 1, got %d", analyzer.config.MinImageSize)
	}
}

func TestGetImageInfo(t *testing.T) {
	analyzer := New()
	info := analyzer.GetImageInfo(createTestImage(400, 300, 0, 0))

	if info.Width != 400 || info.Height != 300 {
		t.Errorf("Expected 400x300, got %dx%d", info.Width, info.Height)
	}
	if info.Area != 120000 {
		t.Errorf("Expected area 120000, got %d", info.Area)
	}
	if math.Abs(info.AspectRatio-4.0/3.0) > 1e-9 {
		t.Errorf("Expected aspect ratio 1.333, got %f", info.AspectRatio)
	}
}

func TestValidateImage(t *testing.T) {
	analyzer := NewWithConfig(Config{MinImageSize: 100})

	if err := analyzer.ValidateImage(createTestImage(200, 200, 0, 0)); err != nil {
		t.Errorf("Expected valid image, got %v", err)
	}
	if err := analyzer.ValidateImage(createTestImage(50, 200, 0, 0)); err == nil {
		t.Error("Expected error for small image")
	}
}

func TestHistogram(t *testing.T) {
	h := Histogram(createTestImage(10, 10, 3, 9))

	if h[3] != 50 || h[9] != 50 {
		t.Errorf("Expected 50/50 split, got %v/%v", h[3], h[9])
	}
}

func TestHistogramSubImage(t *testing.T) {
	img := createTestImage(10, 10, 3, 9)
	sub := img.SubImage(image.Rect(0, 0, 5, 2)).(*image.Gray)

	h := Histogram(sub)
	if h[3] != 10 || h[9] != 0 {
		t.Errorf("Expected only the left half, got %v/%v", h[3], h[9])
	}
}

func TestIntensity(t *testing.T) {
	stats := New().Intensity(createTestImage(10, 10, 0, 200))

	if stats.Mean != 100 {
		t.Errorf("Expected mean 100, got %f", stats.Mean)
	}
	if math.Abs(stats.StdDev-100) > 1 {
		t.Errorf("Expected std dev near 100, got %f", stats.StdDev)
	}
	if stats.Min != 0 || stats.Max != 200 {
		t.Errorf("Expected range 0..200, got %f..%f", stats.Min, stats.Max)
	}
	if stats.Median != 0 {
		t.Errorf("Expected median 0, got %f", stats.Median)
	}
}

func TestIntensityEmpty(t *testing.T) {
	stats := New().Intensity(image.NewGray(image.Rect(0, 0, 0, 0)))

	if stats.Mean != 0 || stats.Max != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

func TestFormatDimensions(t *testing.T) {
	if got := FormatDimensions(1024, 768); got != "1024 x 768" {
		t.Errorf("Expected '1024 x 768', got %q", got)
	}
}
