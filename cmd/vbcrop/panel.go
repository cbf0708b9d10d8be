package main

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/menta2k/vbcrop/pkg/processing"
	"github.com/menta2k/vbcrop/pkg/session"
	"github.com/menta2k/vbcrop/pkg/types"
	"github.com/menta2k/vbcrop/pkg/viewport"
)

var panelBackground = color.NRGBA{0x30, 0x30, 0x30, 0xff}

// imagePanel shows one viewport of the session. The main panel forwards
// pointer events to the session and draws the crop outlines; the preview
// panel only displays.
type imagePanel struct {
	widget.BaseWidget

	sess    *session.App
	preview bool
}

func newImagePanel(sess *session.App, preview bool) *imagePanel {
	p := &imagePanel{sess: sess, preview: preview}
	p.ExtendBaseWidget(p)
	return p
}

func (p *imagePanel) controller() *viewport.Controller {
	if p.preview {
		return p.sess.PreviewView()
	}
	return p.sess.MainView()
}

func (p *imagePanel) resizeView(size fyne.Size) {
	w, h := int(size.Width), int(size.Height)
	if p.preview {
		p.sess.ResizePreview(w, h)
	} else {
		p.sess.Resize(w, h)
	}
}

// CreateRenderer is a Fyne lifecycle method.
func (p *imagePanel) CreateRenderer() fyne.WidgetRenderer {
	r := &imagePanelRenderer{
		panel:     p,
		image:     canvas.NewImageFromImage(image.NewNRGBA(image.Rect(0, 0, 1, 1))),
		cursor:    outline(processing.Lime, 3),
		committed: outline(processing.Firebrick, 2),
	}
	r.image.FillMode = canvas.ImageFillStretch
	r.image.ScaleMode = canvas.ImageScalePixels
	return r
}

func outline(c color.Color, width float32) *canvas.Rectangle {
	rect := canvas.NewRectangle(color.Transparent)
	rect.StrokeColor = c
	rect.StrokeWidth = width
	rect.Hide()
	return rect
}

func (p *imagePanel) event(pos fyne.Position) (float64, float64) {
	return float64(pos.X), float64(pos.Y)
}

// MouseDown implements desktop.Mouseable.
func (p *imagePanel) MouseDown(ev *desktop.MouseEvent) {
	if p.preview {
		return
	}
	x, y := p.event(ev.Position)
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		p.sess.Press(x, y)
	case desktop.MouseButtonSecondary:
		p.sess.SecondaryPress(x, y)
	}
}

// MouseUp implements desktop.Mouseable.
func (p *imagePanel) MouseUp(_ *desktop.MouseEvent) {}

// Dragged implements fyne.Draggable.
func (p *imagePanel) Dragged(ev *fyne.DragEvent) {
	if p.preview {
		return
	}
	p.sess.Drag(p.event(ev.Position))
}

// DragEnd implements fyne.Draggable.
func (p *imagePanel) DragEnd() {}

// MouseIn implements desktop.Hoverable.
func (p *imagePanel) MouseIn(ev *desktop.MouseEvent) {
	p.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (p *imagePanel) MouseMoved(ev *desktop.MouseEvent) {
	if p.preview {
		return
	}
	p.sess.Move(p.event(ev.Position))
}

// MouseOut implements desktop.Hoverable.
func (p *imagePanel) MouseOut() {}

// Scrolled implements fyne.Scrollable.
func (p *imagePanel) Scrolled(ev *fyne.ScrollEvent) {
	if p.preview {
		return
	}
	x, y := p.event(ev.Position)
	p.sess.Scroll(x, y, float64(ev.Scrolled.DY))
}

// Cursor implements desktop.Cursorable.
func (p *imagePanel) Cursor() desktop.Cursor {
	if !p.preview && p.sess.Cursor() == session.CursorCrop {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

type imagePanelRenderer struct {
	panel     *imagePanel
	image     *canvas.Image
	cursor    *canvas.Rectangle
	committed *canvas.Rectangle
	size      fyne.Size
}

func (r *imagePanelRenderer) Layout(size fyne.Size) {
	r.image.Resize(size)
	if size != r.size {
		r.size = size
		r.panel.resizeView(size)
		r.Refresh()
	}
}

func (r *imagePanelRenderer) MinSize() fyne.Size { return fyne.NewSize(100, 100) }

func (r *imagePanelRenderer) Refresh() {
	if c := r.panel.controller(); c != nil {
		r.image.Image = c.Render(panelBackground)
	} else {
		bg := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		bg.SetNRGBA(0, 0, panelBackground)
		r.image.Image = bg
	}
	canvas.Refresh(r.image)

	if r.panel.preview {
		return
	}
	placeOutline(r.cursor, r.panel.sess.CropOutline)
	placeOutline(r.committed, r.panel.sess.CommittedOutline)
}

func placeOutline(rect *canvas.Rectangle, get func() (types.Rect, bool)) {
	box, ok := get()
	if !ok {
		rect.Hide()
		return
	}
	rect.Move(fyne.NewPos(float32(box.X1), float32(box.Y1)))
	rect.Resize(fyne.NewSize(float32(box.Dx()), float32(box.Dy())))
	rect.Show()
	canvas.Refresh(rect)
}

func (r *imagePanelRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.image, r.committed, r.cursor}
}

func (r *imagePanelRenderer) Destroy() {}

var _ fyne.Widget = (*imagePanel)(nil)
var _ fyne.Scrollable = (*imagePanel)(nil)
var _ fyne.Draggable = (*imagePanel)(nil)
var _ desktop.Mouseable = (*imagePanel)(nil)
var _ desktop.Hoverable = (*imagePanel)(nil)
var _ desktop.Cursorable = (*imagePanel)(nil)
