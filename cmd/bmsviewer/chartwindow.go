package main

import (
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/iafilius/BMSLogPlotter/cmd/bmsviewer/uihelpers"
	"github.com/iafilius/BMSLogPlotter/src/bmslog"
	"github.com/iafilius/BMSLogPlotter/src/plot"
)

// chartWindow shows the three panels of one view. Closing it ends that view's session.
type chartWindow struct {
	win      fyne.Window
	view     *plot.View
	images   []*canvas.Image
	overlays []*panelOverlay
}

func newChartWindow(a fyne.App, v *plot.View) (*chartWindow, error) {
	return buildChartWindow(a, v, v.RenderPanel)
}

func buildChartWindow(a fyne.App, v *plot.View, render func(plot.Quantity) (image.Image, error)) (*chartWindow, error) {
	cw := &chartWindow{view: v}

	// render everything before a window exists so a failure leaves nothing behind
	imgs := make([]image.Image, 0, len(v.Panels()))
	for _, p := range v.Panels() {
		img, err := render(p.Quantity())
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}

	cw.win = a.NewWindow(fmt.Sprintf("%s - %s", filepath.Base(v.Source()), mainTitle))
	rows := make([]fyne.CanvasObject, 0, len(imgs))
	for i, p := range v.Panels() {
		ci := canvas.NewImageFromImage(imgs[i])
		ci.FillMode = canvas.ImageFillContain
		ci.SetMinSize(fyne.NewSize(480, 160))
		ov := newPanelOverlay(v, p.Quantity(), ci)
		cw.images = append(cw.images, ci)
		cw.overlays = append(cw.overlays, ov)
		rows = append(rows, container.NewStack(ci, ov))
	}
	v.OnRedraw(cw.refreshPanel)
	cw.win.SetContent(container.NewGridWithRows(len(rows), rows...))

	w, h := v.Size()
	cw.win.Resize(fyne.NewSize(float32(w), float32(3*h)))

	save := fyne.NewMenuItem("Save Figure…", cw.saveFigure)
	fileMenu := fyne.NewMenu("File", save, fyne.NewMenuItemSeparator(), fyne.NewMenuItem("Close Window", cw.win.Close))
	cw.win.SetMainMenu(fyne.NewMainMenu(fileMenu))
	if c := cw.win.Canvas(); c != nil {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { cw.saveFigure() })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { cw.saveFigure() })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { cw.win.Close() })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { cw.win.Close() })
	}
	return cw, nil
}

func (cw *chartWindow) show() {
	cw.win.Show()
	cw.watchResize()
}

// watchResize re-renders the panels at the new size when the window is resized. The ticker
// goroutine only samples the canvas size; rendering is scheduled on the main thread.
func (cw *chartWindow) watchResize() {
	c := cw.win.Canvas()
	if c == nil {
		return
	}
	prev := c.Size()
	done := make(chan struct{})
	cw.win.SetOnClosed(func() {
		bmslog.Debugf("chart window for %s closed", cw.view.Source())
		close(done)
	})
	go func() {
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				cur := c.Size()
				if !uihelpers.SizeChanged(prev.Width, prev.Height, cur.Width, cur.Height) {
					continue
				}
				prev = cur
				fyne.Do(func() { cw.resize(cur) })
			}
		}
	}()
}

func (cw *chartWindow) resize(sz fyne.Size) {
	w, h := uihelpers.ComputePanelDimensions(sz.Width, sz.Height)
	if curW, curH := cw.view.Size(); curW == w && curH == h {
		return
	}
	cw.view.SetSize(w, h)
	for q := range cw.images {
		cw.refreshPanel(plot.Quantity(q))
	}
}

// refreshPanel re-renders one panel, e.g. after an annotation was added to it.
func (cw *chartWindow) refreshPanel(q plot.Quantity) {
	if int(q) < 0 || int(q) >= len(cw.images) {
		return
	}
	img, err := cw.view.RenderPanel(q)
	if err != nil {
		bmslog.Errorf("redraw %s: %v", q, err)
		dialog.ShowError(err, cw.win)
		return
	}
	cw.images[q].Image = img
	cw.images[q].Refresh()
	cw.overlays[q].Refresh()
}

func (cw *chartWindow) saveFigure() {
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, cw.win)
			return
		}
		if wc == nil {
			return
		}
		defer wc.Close()
		img, err := cw.view.RenderFigure()
		if err == nil {
			err = png.Encode(wc, img)
		}
		if err != nil {
			bmslog.Errorf("save figure: %v", err)
			dialog.ShowError(fmt.Errorf("save figure: %w", err), cw.win)
			return
		}
		bmslog.Infof("figure saved to %s", wc.URI().Path())
	}, cw.win)
	fs.SetFileName(figureFileName(cw.view.Source()))
	fs.Show()
}

// figureFileName suggests "<log name>_figure.png" for a source log path.
func figureFileName(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "bms"
	}
	return base + "_figure.png"
}
