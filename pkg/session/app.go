// Package session holds the interactive state of the cropper independent of
// any GUI toolkit: the loaded image, the main and preview viewports, the crop
// box, the info panel and the View/Crop mode machine.
package session

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/menta2k/vbcrop/internal/config"
	"github.com/menta2k/vbcrop/internal/utils"
	"github.com/menta2k/vbcrop/pkg/analyzer"
	"github.com/menta2k/vbcrop/pkg/cropper"
	"github.com/menta2k/vbcrop/pkg/processing"
	"github.com/menta2k/vbcrop/pkg/types"
	"github.com/menta2k/vbcrop/pkg/viewport"
)

// ErrNoImage is returned by operations that need an opened image.
var ErrNoImage = errors.New("no image loaded")

// Info panel keys
const (
	InfoImageName = "img_name"
	InfoDimension = "img_dim"
	InfoIntensity = "img_intensity"
	InfoCropDim   = "c_dim"
)

// Cursors reported for each mode
const (
	CursorView = "arrow"
	CursorCrop = "pencil"
)

// Option configures an App
type Option func(*App)

// WithLogger sets the logger used for notices
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithProcessor sets the processor used to open and save images
func WithProcessor(p *processing.Processor) Option {
	return func(a *App) {
		a.proc = p
	}
}

// App is the application shell
type App struct {
	cfg      *config.Config
	proc     *processing.Processor
	analyzer *analyzer.ImageAnalyzer
	log      *log.Logger

	path string
	name string
	img  *image.Gray

	main    *viewport.Controller
	preview *viewport.Controller
	mainSz  image.Point
	prevSz  image.Point

	box        *cropper.Box
	boxVisible bool
	committed  *image.Rectangle
	cropped    *image.Gray

	info  *InfoPanel
	modes *Machine

	// OnChange is called after any change that needs a redraw.
	OnChange func()
}

// New creates an application shell. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		cfg:      cfg,
		analyzer: analyzer.New(),
		log:      log.Default(),
		box:      cropper.NewBox(cfg.Crop),
		info:     NewInfoPanel(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.proc == nil {
		a.proc = processing.NewProcessorWithFormats(cfg.Input.SupportedFormats)
	}

	a.info.Add("Image info", "")
	a.info.Add("Image name", InfoImageName)
	a.info.Add("Dimensions", InfoDimension)
	a.info.Add("Intensity", InfoIntensity)
	a.info.Add("Crop info", "")
	a.info.Add("Crop dimensions", InfoCropDim)

	// both states are registered, so entering View cannot fail
	a.modes, _ = NewMachine(View, map[Mode]State{
		View: {
			Cursor:   CursorView,
			Handlers: a.viewHandlers(),
		},
		Crop: {
			Cursor:   CursorCrop,
			Handlers: a.cropHandlers(),
			OnExit: func() {
				a.boxVisible = false
			},
		},
	})
	return a
}

func (a *App) viewHandlers() Handlers {
	return Handlers{
		Press: func(e Event) {
			if a.main != nil {
				a.main.ScanMark(e.X, e.Y)
			}
		},
		Drag: func(e Event) {
			if a.main != nil {
				a.main.ScanDragTo(e.X, e.Y)
				a.changed()
			}
		},
		Scroll: func(e Event) {
			if a.main == nil {
				return
			}
			center := types.Pt(e.X, e.Y)
			var zoomed bool
			if e.Delta > 0 {
				zoomed = a.main.ZoomIn(center)
			} else if e.Delta < 0 {
				zoomed = a.main.ZoomOut(center)
			}
			if zoomed {
				a.changed()
			}
		},
	}
}

func (a *App) cropHandlers() Handlers {
	move := func(e Event) {
		a.box.MoveTo(types.Pt(e.X, e.Y))
		a.boxVisible = a.img != nil
		a.changed()
	}
	return Handlers{
		Move: move,
		Drag: move,
		Scroll: func(e Event) {
			a.box.Scroll(e.Delta)
			a.box.MoveTo(types.Pt(e.X, e.Y))
			a.boxVisible = a.img != nil
			a.updateCropInfo()
			a.changed()
		},
		Press: func(e Event) {
			if err := a.Commit(e.X, e.Y); err != nil && !errors.Is(err, ErrNoImage) {
				a.log.Printf("Crop failed: %v", err)
			}
		},
		SecondaryPress: func(Event) {
			a.ClearCommitted()
		},
	}
}

func (a *App) changed() {
	if a.OnChange != nil {
		a.OnChange()
	}
}

func (a *App) updateCropInfo() {
	a.info.Update(InfoCropDim, analyzer.FormatDimensions(a.box.Dim, a.box.Dim))
}

// Open loads the image at path. An empty path means the open dialog was
// cancelled: a notice is logged and nothing changes.
func (a *App) Open(path string) error {
	if path == "" {
		a.log.Println("Open failed")
		return nil
	}

	img, err := a.proc.LoadFirstChannel(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := a.analyzer.ValidateImage(img); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	a.path = path
	a.name = utils.BaseName(path)
	a.img = img
	a.log.Printf("Opened %s", path)

	info := a.analyzer.GetImageInfo(img)
	a.info.Update(InfoImageName, a.name)
	a.info.Update(InfoDimension, analyzer.FormatDimensions(info.Width, info.Height))
	a.info.Update(InfoIntensity, analyzer.FormatIntensity(a.analyzer.Intensity(img)))

	if err := a.initViews(); err != nil {
		return err
	}
	a.modes.Switch(View)
	a.changed()
	return nil
}

func (a *App) initViews() error {
	opts := a.cfg.ViewportOptions()

	a.main = viewport.New(a.img, a.cfg.Display, opts)
	if err := a.main.Attach(viewport.Grid); err != nil {
		return err
	}
	if a.mainSz != (image.Point{}) {
		a.main.Resize(a.mainSz.X, a.mainSz.Y)
	}

	a.committed = nil
	a.cropped = cropper.Blank(a.box.Dim)
	a.updateCropInfo()
	return a.showPreview()
}

func (a *App) showPreview() error {
	a.preview = viewport.New(a.cropped, a.cfg.Display, a.cfg.ViewportOptions())
	if err := a.preview.Attach(viewport.Grid); err != nil {
		return err
	}
	if a.prevSz != (image.Point{}) {
		a.preview.Resize(a.prevSz.X, a.prevSz.Y)
	}
	return nil
}

// Save writes the cropped image to path using the configured output format.
// An empty path means the save dialog was cancelled.
func (a *App) Save(path string) error {
	if a.cropped == nil {
		return ErrNoImage
	}
	if path == "" {
		a.log.Println("Save path not specified - file not saved")
		return nil
	}

	path = processing.EnsureExtension(path, a.cfg.Output.Format)
	if err := a.proc.SaveImage(a.cropped, path, a.cfg.OutputOptions()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	a.log.Printf("Saved %s", path)
	return nil
}

// SuggestedName returns the default file name for the save dialog
func (a *App) SuggestedName() string {
	stem := utils.SuggestName(a.name, a.cfg.Output.NameMarker, a.cfg.Output.NameSuffix)
	return processing.EnsureExtension(stem, a.cfg.Output.Format)
}

// SwitchMode switches to the mode bound to the shortcut key
func (a *App) SwitchMode(key rune) error {
	mode, err := ParseMode(key)
	if err != nil {
		return err
	}
	if err := a.modes.Switch(mode); err != nil {
		return err
	}
	a.changed()
	return nil
}

// Commit crops the source around the view position (x, y) using the current
// crop box size and shows the result in the preview.
func (a *App) Commit(x, y float64) error {
	if a.img == nil || a.main == nil {
		return ErrNoImage
	}
	center := a.main.IndexAt(x, y)
	res, err := cropper.Slice(a.img, center, a.box.Dim)
	if err != nil {
		return err
	}

	bounds := cropper.Bounds(center, a.box.Dim)
	a.committed = &bounds
	a.cropped = res.Image
	if err := a.showPreview(); err != nil {
		return err
	}
	a.changed()
	return nil
}

// ClearCommitted hides the outline of the last committed crop. The crop
// itself stays in the preview.
func (a *App) ClearCommitted() {
	if a.committed == nil {
		return
	}
	a.committed = nil
	a.changed()
}

// Resize sets the size of the main image panel
func (a *App) Resize(w, h int) {
	a.mainSz = image.Pt(w, h)
	if a.main != nil {
		a.main.Resize(w, h)
	}
}

// ResizePreview sets the size of the crop preview panel
func (a *App) ResizePreview(w, h int) {
	a.prevSz = image.Pt(w, h)
	if a.preview != nil {
		a.preview.Resize(w, h)
	}
}

// Press dispatches a primary button press at view position (x, y)
func (a *App) Press(x, y float64) { a.modes.Press(Event{X: x, Y: y}) }

// Drag dispatches pointer motion with the primary button held
func (a *App) Drag(x, y float64) { a.modes.Drag(Event{X: x, Y: y}) }

// Move dispatches pointer motion
func (a *App) Move(x, y float64) { a.modes.Move(Event{X: x, Y: y}) }

// Scroll dispatches a wheel event; positive delta scrolls up
func (a *App) Scroll(x, y, delta float64) { a.modes.Scroll(Event{X: x, Y: y, Delta: delta}) }

// SecondaryPress dispatches a secondary button press
func (a *App) SecondaryPress(x, y float64) { a.modes.SecondaryPress(Event{X: x, Y: y}) }

// CropOutline returns the crop cursor rectangle in view coordinates, scaled
// to the current zoom.
func (a *App) CropOutline() (types.Rect, bool) {
	if !a.boxVisible || a.main == nil || a.modes.Mode() != Crop {
		return types.Rect{}, false
	}
	return a.box.Rect(a.main.Scale()), true
}

// CommittedOutline returns the last committed crop in view coordinates
func (a *App) CommittedOutline() (types.Rect, bool) {
	if a.committed == nil || a.main == nil {
		return types.Rect{}, false
	}
	p0 := a.main.SourceToView(a.committed.Min)
	p1 := a.main.SourceToView(a.committed.Max)
	return types.Rect{X1: p0.X, Y1: p0.Y, X2: p1.X, Y2: p1.Y}, true
}

// Mode returns the active mode
func (a *App) Mode() Mode { return a.modes.Mode() }

// Cursor returns the pointer cursor for the active mode
func (a *App) Cursor() string { return a.modes.Cursor() }

// Config returns the configuration in use
func (a *App) Config() *config.Config { return a.cfg }

// Info returns the info panel model
func (a *App) Info() *InfoPanel { return a.info }

// CropBox returns the crop cursor
func (a *App) CropBox() *cropper.Box { return a.box }

// Committed returns the source rectangle of the last committed crop
func (a *App) Committed() (image.Rectangle, bool) {
	if a.committed == nil {
		return image.Rectangle{}, false
	}
	return *a.committed, true
}

// Image returns the loaded source image, nil before the first open
func (a *App) Image() *image.Gray { return a.img }

// Cropped returns the image shown in the crop preview
func (a *App) Cropped() *image.Gray { return a.cropped }

// Path returns the path of the opened image
func (a *App) Path() string { return a.path }

// Name returns the file name of the opened image
func (a *App) Name() string { return a.name }

// MainView returns the image panel controller
func (a *App) MainView() *viewport.Controller { return a.main }

// PreviewView returns the crop preview controller
func (a *App) PreviewView() *viewport.Controller { return a.preview }
