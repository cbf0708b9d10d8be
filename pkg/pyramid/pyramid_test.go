package pyramid

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	return img
}

func TestBuildSquare1024(t *testing.T) {
	p := Build(createTestImage(1024, 1024), DefaultOptions())

	require.Equal(t, 2, p.Len())
	assert.Equal(t, []image.Point{{1024, 1024}, {512, 512}}, p.Sizes())
}

func TestBuildSmallImageKeepsOnlySource(t *testing.T) {
	src := createTestImage(300, 200)
	p := Build(src, DefaultOptions())

	require.Equal(t, 1, p.Len())
	assert.Same(t, src, p.Level(0))
}

func TestBuildLevelZeroIsSource(t *testing.T) {
	src := createTestImage(2000, 700)
	p := Build(src, DefaultOptions())

	assert.Same(t, src, p.Source())
	assert.Equal(t, image.Point{2000, 700}, p.Sizes()[0])
}

func TestBuildStopsWhenBothBelowThreshold(t *testing.T) {
	// 2000x700 -> 1000x350 -> 500x175
	p := Build(createTestImage(2000, 700), DefaultOptions())

	assert.Equal(t, []image.Point{{2000, 700}, {1000, 350}, {500, 175}}, p.Sizes())
}

func TestLevelSizesDecrease(t *testing.T) {
	dims := []image.Point{
		{513, 513}, {1024, 768}, {4096, 4096}, {3000, 600}, {600, 3000}, {7, 9000}, {512, 512},
	}
	for _, d := range dims {
		sizes := LevelSizes(d.X, d.Y, DefaultOptions())
		require.Equal(t, d, sizes[0])

		last := sizes[len(sizes)-1]
		assert.LessOrEqual(t, last.X, DefaultThreshold, "dims %v", d)
		assert.LessOrEqual(t, last.Y, DefaultThreshold, "dims %v", d)

		for i := 1; i < len(sizes); i++ {
			prev, cur := sizes[i-1], sizes[i]
			assert.LessOrEqual(t, cur.X, prev.X)
			assert.LessOrEqual(t, cur.Y, prev.Y)
			assert.Less(t, max(cur.X, cur.Y), max(prev.X, prev.Y))
			// every level but the last is still above the threshold
			assert.True(t, prev.X > DefaultThreshold || prev.Y > DefaultThreshold)
		}
	}
}

func TestBuildMatchesLevelSizes(t *testing.T) {
	src := createTestImage(1500, 1100)
	p := Build(src, DefaultOptions())

	assert.Equal(t, LevelSizes(1500, 1100, DefaultOptions()), p.Sizes())
}

func TestBuildDeterministic(t *testing.T) {
	src := createTestImage(1300, 900)
	a := Build(src, DefaultOptions())
	b := Build(src, DefaultOptions())

	require.Equal(t, a.Sizes(), b.Sizes())
	for i := 0; i < a.Len(); i++ {
		ba := a.Level(i).Bounds()
		assert.Equal(t, a.Level(i).At(ba.Dx()/2, ba.Dy()/2), b.Level(i).At(ba.Dx()/2, ba.Dy()/2))
	}
}

func TestLevelClamps(t *testing.T) {
	p := Build(createTestImage(1024, 1024), DefaultOptions())

	assert.Equal(t, 0, p.Clamp(-3))
	assert.Equal(t, 1, p.Clamp(9))
	assert.Equal(t, image.Point{512, 512}, p.Level(9).Bounds().Size())
}

func TestCustomOptions(t *testing.T) {
	sizes := LevelSizes(1000, 1000, Options{Threshold: 100, Reduction: 3})

	assert.Equal(t, []image.Point{{1000, 1000}, {333, 333}, {111, 111}, {37, 37}}, sizes)
}

func TestZeroOptionsUseDefaults(t *testing.T) {
	assert.Equal(t, LevelSizes(1024, 1024, DefaultOptions()), LevelSizes(1024, 1024, Options{}))
}
