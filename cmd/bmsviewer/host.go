package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/iafilius/BMSLogPlotter/src/bmslog"
	"github.com/iafilius/BMSLogPlotter/src/plot"
	"github.com/iafilius/BMSLogPlotter/src/shell"
)

// fyneHost is the Fyne side of the shell: file dialog, chart windows, error dialogs and quit.
type fyneHost struct {
	app    fyne.App
	window fyne.Window
}

func newFyneHost(a fyne.App, w fyne.Window) *fyneHost {
	return &fyneHost{app: a, window: w}
}

var _ shell.Host = (*fyneHost)(nil)

func (h *fyneHost) ChooseFile(done func(string, error)) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			done("", err)
			return
		}
		if rc == nil {
			done("", nil)
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		done(path, nil)
	}, h.window)
	d.SetFilter(storage.NewExtensionFileFilter(shell.FileExtensions))
	d.Resize(fyne.NewSize(800, 560))
	d.Show()
}

func (h *fyneHost) ShowView(v *plot.View) error {
	cw, err := newChartWindow(h.app, v)
	if err != nil {
		return err
	}
	cw.show()
	return nil
}

func (h *fyneHost) ShowError(err error) {
	dialog.ShowError(err, h.window)
}

func (h *fyneHost) Terminate() {
	bmslog.Infof("quitting")
	h.app.Quit()
}
