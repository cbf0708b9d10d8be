package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/menta2k/vbcrop/internal/config"
	"github.com/menta2k/vbcrop/pkg/session"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "config file (json or yaml), default "+config.DefaultPath())
	flag.Parse()

	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	a := app.NewWithID("com.github.menta2k.vbcrop")
	w := a.NewWindow("Vertebral Body Cropper")

	u := newUI(session.New(cfg), w)
	w.SetMainMenu(u.menu())
	w.SetContent(u.layout())
	u.bindKeys()
	w.Resize(fyne.NewSize(1400, 900))

	if flag.NArg() > 0 {
		if err := u.sess.Open(flag.Arg(0)); err != nil {
			log.Printf("%v", err)
		}
	}
	w.ShowAndRun()
}

type ui struct {
	sess   *session.App
	win    fyne.Window
	main   *imagePanel
	crop   *imagePanel
	values map[string]*widget.Label

	openShortcut *desktop.CustomShortcut
	saveShortcut *desktop.CustomShortcut
}

func newUI(sess *session.App, win fyne.Window) *ui {
	u := &ui{
		sess:         sess,
		win:          win,
		values:       make(map[string]*widget.Label),
		openShortcut: &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		saveShortcut: &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
	}
	u.main = newImagePanel(sess, false)
	u.crop = newImagePanel(sess, true)
	sess.OnChange = u.refresh
	return u
}

func (u *ui) menu() *fyne.MainMenu {
	open := fyne.NewMenuItem("Open image", u.openImage)
	open.Shortcut = u.openShortcut
	save := fyne.NewMenuItem("Save cropped", u.saveImage)
	save.Shortcut = u.saveShortcut

	view := fyne.NewMenuItem("View (V)", func() { u.switchMode('v') })
	crop := fyne.NewMenuItem("Crop (C)", func() { u.switchMode('c') })

	return fyne.NewMainMenu(
		fyne.NewMenu("File", open, save),
		fyne.NewMenu("Tools", view, crop),
	)
}

func (u *ui) bindKeys() {
	c := u.win.Canvas()
	c.AddShortcut(u.openShortcut, func(fyne.Shortcut) { u.openImage() })
	c.AddShortcut(u.saveShortcut, func(fyne.Shortcut) { u.saveImage() })
	c.SetOnTypedRune(func(r rune) {
		switch r {
		case 'v', 'V', 'c', 'C':
			u.switchMode(r)
		}
	})
}

func (u *ui) layout() fyne.CanvasObject {
	info := container.NewVBox()
	for _, e := range u.sess.Info().Entries() {
		if e.Key == "" {
			info.Add(widget.NewLabelWithStyle(e.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
			continue
		}
		value := widget.NewLabel(e.Value)
		u.values[e.Key] = value
		info.Add(container.NewHBox(widget.NewLabel(e.Title+":"), value))
	}

	saveButton := widget.NewButton("Save image", u.saveImage)
	preview := container.NewBorder(nil, saveButton, nil, nil, u.crop)

	right := container.NewVSplit(info, preview)
	right.SetOffset(0.3)
	split := container.NewHSplit(u.main, right)
	split.SetOffset(0.7)
	return split
}

func (u *ui) refresh() {
	for _, e := range u.sess.Info().Entries() {
		if l, ok := u.values[e.Key]; ok {
			l.SetText(e.Value)
		}
	}
	u.main.Refresh()
	u.crop.Refresh()
}

func (u *ui) switchMode(r rune) {
	if err := u.sess.SwitchMode(r); err != nil {
		log.Fatal(err)
	}
}

func (u *ui) openImage() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		path := ""
		if rc != nil {
			path = rc.URI().Path()
			rc.Close()
		}
		if err := u.sess.Open(path); err != nil {
			dialog.ShowError(err, u.win)
		}
	}, u.win)

	exts := make([]string, 0, len(u.sess.Config().Input.SupportedFormats))
	for _, f := range u.sess.Config().Input.SupportedFormats {
		exts = append(exts, "."+strings.TrimPrefix(f, "."))
	}
	d.SetFilter(storage.NewExtensionFileFilter(exts))
	d.Show()
}

func (u *ui) saveImage() {
	if u.sess.Cropped() == nil {
		dialog.ShowInformation("Save cropped", "Open an image first", u.win)
		return
	}

	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		path := ""
		if wc != nil {
			path = wc.URI().Path()
			wc.Close()
		}
		if err := u.sess.Save(path); err != nil && !errors.Is(err, session.ErrNoImage) {
			dialog.ShowError(err, u.win)
		}
	}, u.win)
	d.SetFileName(u.sess.SuggestedName())
	if dir := u.sess.Config().Output.OutputDir; dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			if _, err := os.Stat(abs); err == nil {
				if lister, err := storage.ListerForURI(storage.NewFileURI(abs)); err == nil {
					d.SetLocation(lister)
				}
			}
		}
	}
	d.Show()
}
