package session

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/vbcrop/internal/config"
	"github.com/menta2k/vbcrop/pkg/types"
)

func writeTestImage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = uint8((x + y) % 256)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	app := New(config.Default(), WithLogger(log.New(&buf, "", 0)))
	app.Resize(1200, 1100)
	app.ResizePreview(400, 400)
	return app, &buf
}

func openTestApp(t *testing.T, width, height int) (*App, *bytes.Buffer) {
	t.Helper()
	app, buf := newTestApp(t)
	path := writeTestImage(t, t.TempDir(), "L4_US0042.png", width, height)
	require.NoError(t, app.Open(path))
	return app, buf
}

func TestOpenCancelledLeavesState(t *testing.T) {
	app, buf := openTestApp(t, 300, 200)
	img, main, name := app.Image(), app.MainView(), app.Name()
	buf.Reset()

	require.NoError(t, app.Open(""))

	assert.Equal(t, "Open failed\n", buf.String())
	assert.Same(t, img, app.Image())
	assert.Same(t, main, app.MainView())
	assert.Equal(t, name, app.Name())
}

func TestOpenCancelledBeforeAnyImage(t *testing.T) {
	app, buf := newTestApp(t)

	require.NoError(t, app.Open(""))

	assert.Contains(t, buf.String(), "Open failed")
	assert.Nil(t, app.Image())
	assert.Nil(t, app.MainView())
}

func TestOpenLoadsImage(t *testing.T) {
	app, buf := openTestApp(t, 300, 200)

	assert.Contains(t, buf.String(), "Opened ")
	assert.Equal(t, "L4_US0042.png", app.Info().Value(InfoImageName))
	assert.Equal(t, "300 x 200", app.Info().Value(InfoDimension))
	assert.Equal(t, "384 x 384", app.Info().Value(InfoCropDim))
	assert.NotEqual(t, "-", app.Info().Value(InfoIntensity))

	require.NotNil(t, app.MainView())
	assert.True(t, app.MainView().Attached())
	assert.NotNil(t, app.MainView().Tile())

	preview := app.Cropped()
	require.NotNil(t, preview)
	assert.Equal(t, image.Pt(384, 384), preview.Bounds().Size())
	assert.Equal(t, uint8(0xff), preview.GrayAt(10, 10).Y)
	assert.NotNil(t, app.PreviewView())
	assert.Equal(t, View, app.Mode())
}

func TestOpenMissingFile(t *testing.T) {
	app, _ := newTestApp(t)

	err := app.Open(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
	assert.Nil(t, app.Image())
}

func TestSwitchMode(t *testing.T) {
	app, _ := newTestApp(t)

	require.NoError(t, app.SwitchMode('c'))
	assert.Equal(t, Crop, app.Mode())
	assert.Equal(t, CursorCrop, app.Cursor())

	err := app.SwitchMode('q')
	assert.True(t, errors.Is(err, ErrInvalidMode))
	assert.Equal(t, Crop, app.Mode())

	require.NoError(t, app.SwitchMode('v'))
	assert.Equal(t, CursorView, app.Cursor())
}

func TestCropCommit(t *testing.T) {
	app, _ := openTestApp(t, 1024, 1024)
	require.NoError(t, app.SwitchMode('c'))

	app.Move(200, 200)
	outline, ok := app.CropOutline()
	require.True(t, ok)
	assert.Equal(t, types.Rect{X1: 8, Y1: 8, X2: 392, Y2: 392}, outline)

	app.Press(200, 200)

	region, ok := app.Committed()
	require.True(t, ok)
	assert.Equal(t, image.Rect(8, 8, 393, 393), region)

	cropped := app.Cropped()
	require.NotNil(t, cropped)
	assert.Equal(t, image.Pt(385, 385), cropped.Bounds().Size())
	assert.Equal(t, app.Image().GrayAt(8, 8), cropped.GrayAt(0, 0))
	assert.Equal(t, app.Image().GrayAt(392, 392), cropped.GrayAt(384, 384))

	drawn, ok := app.CommittedOutline()
	require.True(t, ok)
	assert.Equal(t, types.Rect{X1: 8, Y1: 8, X2: 393, Y2: 393}, drawn)

	app.SecondaryPress(0, 0)
	_, ok = app.Committed()
	assert.False(t, ok)
	assert.Same(t, cropped, app.Cropped())
}

func TestCropScrollResizesBox(t *testing.T) {
	app, _ := openTestApp(t, 1024, 1024)
	require.NoError(t, app.SwitchMode('c'))

	app.Scroll(100, 100, 1)
	assert.Equal(t, 386, app.CropBox().Dim)
	assert.Equal(t, "386 x 386", app.Info().Value(InfoCropDim))

	for i := 0; i < 500; i++ {
		app.Scroll(100, 100, -1)
	}
	assert.Equal(t, 100, app.CropBox().Dim)
	assert.Equal(t, "100 x 100", app.Info().Value(InfoCropDim))
}

func TestLeavingCropHidesOutline(t *testing.T) {
	app, _ := openTestApp(t, 1024, 1024)
	require.NoError(t, app.SwitchMode('c'))
	app.Move(50, 50)

	require.NoError(t, app.SwitchMode('v'))

	_, ok := app.CropOutline()
	assert.False(t, ok)
}

func TestViewModePansAndZooms(t *testing.T) {
	app, _ := openTestApp(t, 1024, 1024)
	changes := 0
	app.OnChange = func() { changes++ }

	app.Press(100, 100)
	app.Drag(50, 80)
	assert.Equal(t, types.Pt(50, 20), app.MainView().ViewOffset())

	app.Scroll(500, 500, 1)
	assert.InDelta(t, 1.1, app.MainView().Scale(), 1e-9)
	assert.Equal(t, 2, changes)

	app.Move(10, 10)
	_, ok := app.CropOutline()
	assert.False(t, ok)
}

func TestViewModeIgnoresCropHandlers(t *testing.T) {
	app, _ := openTestApp(t, 1024, 1024)

	app.Press(200, 200)

	_, ok := app.Committed()
	assert.False(t, ok)
}

func TestSave(t *testing.T) {
	app, buf := openTestApp(t, 1024, 1024)
	require.NoError(t, app.SwitchMode('c'))
	app.Press(200, 200)

	out := filepath.Join(t.TempDir(), "0042-")
	require.NoError(t, app.Save(out))

	_, err := os.Stat(out + ".jpg")
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Saved ")
}

func TestSaveCancelled(t *testing.T) {
	app, buf := openTestApp(t, 100, 100)
	buf.Reset()

	require.NoError(t, app.Save(""))
	assert.Equal(t, "Save path not specified - file not saved\n", buf.String())
}

func TestSaveWithoutImage(t *testing.T) {
	app, _ := newTestApp(t)

	assert.True(t, errors.Is(app.Save("out.jpg"), ErrNoImage))
	assert.True(t, errors.Is(app.Commit(0, 0), ErrNoImage))
}

func TestSuggestedName(t *testing.T) {
	app, _ := openTestApp(t, 100, 100)

	assert.Equal(t, "0042-.jpg", app.SuggestedName())
}
