package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/vbcrop/internal/utils"
	"github.com/menta2k/vbcrop/pkg/types"
)

// ErrUnsupportedFormat is returned for input or output formats the
// processor does not handle.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultFormats are the input extensions accepted by default
var DefaultFormats = []string{"jpg", "jpeg", "png"}

// Processor handles image loading and saving
type Processor struct {
	formats []string
}

// NewProcessor creates a processor accepting the default input formats
func NewProcessor() *Processor {
	return &Processor{formats: DefaultFormats}
}

// NewProcessorWithFormats creates a processor accepting the given input
// extensions (without dots)
func NewProcessorWithFormats(formats []string) *Processor {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	return &Processor{formats: formats}
}

// Formats returns the accepted input extensions
func (p *Processor) Formats() []string {
	return p.formats
}

// Supports reports whether path has an accepted input extension
func (p *Processor) Supports(path string) bool {
	ext := utils.GetFileExtension(path)
	for _, f := range p.formats {
		if strings.EqualFold(ext, f) {
			return true
		}
	}
	return false
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	if !p.Supports(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}

	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: read and decode from memory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return p.decodeImageFromBytes(data)
}

// LoadFirstChannel loads an image and keeps only its first channel as an
// 8 bit grayscale array
func (p *Processor) LoadFirstChannel(path string) (*image.Gray, error) {
	img, err := p.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return FirstChannel(img), nil
}

// decodeImageFromBytes decodes an image from byte data with WebP support
func (p *Processor) decodeImageFromBytes(data []byte) (image.Image, error) {
	// Try standard image.Decode first
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	// Try WebP decode
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("failed to decode image: %w", ErrUnsupportedFormat)
}

// FirstChannel returns the first (red or gray) channel of img as a
// grayscale image with bounds rebased to (0, 0). Gray images are returned
// unchanged when already rebased.
func FirstChannel(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}

	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < b.Dx(); x++ {
				out.Pix[y*out.Stride+x] = row[x*4]
			}
		}
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			from := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], src.Pix[from:from+b.Dx()])
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				out.Pix[y*out.Stride+x] = c.R
			}
		}
	}
	return out
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path string, opts types.OutputOptions) error {
	switch strings.ToLower(opts.Format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(opts.Quality)})
	case "png":
		return encodeFile(path, img, imaging.PNG)
	case "jpg", "jpeg", "":
		quality := opts.Quality
		if quality < 1 || quality > 100 {
			quality = 95
		}
		return encodeFile(path, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}
}

// encodeFile writes img in the given format regardless of the extension of
// path.
func encodeFile(path string, img image.Image, format imaging.Format, opts ...imaging.EncodeOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := imaging.Encode(f, img, format, opts...); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return f.Close()
}

// EnsureExtension appends ext to path when path has no extension
func EnsureExtension(path, ext string) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path + ext
}

// Box is a rectangle to outline on a preview image
type Box struct {
	Rect   image.Rectangle
	Color  color.NRGBA
	Stroke int
}

// Common outline colors
var (
	Lime      = color.NRGBA{0, 255, 0, 255}
	Firebrick = color.NRGBA{178, 34, 34, 255}
)

// BoxOverlay returns a copy of img with the given boxes outlined
func BoxOverlay(img image.Image, boxes ...Box) *image.NRGBA {
	nrgba := imaging.Clone(img)
	for _, b := range boxes {
		DrawBox(nrgba, b.Rect, b.Color, b.Stroke)
	}
	return nrgba
}

// DrawBox outlines r on img with the given stroke width, drawn inwards
func DrawBox(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	stroke = max(stroke, 1)
	for s := 0; s < stroke; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
