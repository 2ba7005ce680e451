package main

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/BMSLogPlotter/cmd/bmsviewer/uihelpers"
	"github.com/iafilius/BMSLogPlotter/src/plot"
)

// panelOverlay sits on top of a panel image. It forwards clicks to the view in image pixel
// coordinates and draws a crosshair with the data coordinate under the cursor.
type panelOverlay struct {
	widget.BaseWidget
	view     *plot.View
	quantity plot.Quantity
	img      *canvas.Image
	mouse    fyne.Position
	hovering bool
}

func newPanelOverlay(v *plot.View, q plot.Quantity, img *canvas.Image) *panelOverlay {
	o := &panelOverlay{view: v, quantity: q, img: img}
	o.ExtendBaseWidget(o)
	return o
}

// toImage maps an overlay position to pixels of the displayed image.
func (o *panelOverlay) toImage(pos fyne.Position) (float64, float64, bool) {
	if o.img == nil || o.img.Image == nil {
		return 0, 0, false
	}
	b := o.img.Image.Bounds()
	sz := o.Size()
	return uihelpers.ViewToImage(pos.X, pos.Y, float32(b.Dx()), float32(b.Dy()), sz.Width, sz.Height)
}

func (o *panelOverlay) send(kind plot.EventKind, pos fyne.Position) bool {
	ix, iy, ok := o.toImage(pos)
	if !ok {
		return false
	}
	return o.view.HandleEvent(plot.PointerEvent{Kind: kind, Panel: o.quantity, X: ix, Y: iy})
}

func (o *panelOverlay) Tapped(ev *fyne.PointEvent)       { o.send(plot.SingleClick, ev.Position) }
func (o *panelOverlay) DoubleTapped(ev *fyne.PointEvent) { o.send(plot.DoubleClick, ev.Position) }

func (o *panelOverlay) MouseIn(ev *desktop.MouseEvent) {
	o.hovering = true
	o.mouse = ev.Position
	o.Refresh()
}

func (o *panelOverlay) MouseMoved(ev *desktop.MouseEvent) {
	o.hovering = true
	o.mouse = ev.Position
	o.Refresh()
}

func (o *panelOverlay) MouseOut() {
	o.hovering = false
	o.Refresh()
}

// readout is the data coordinate under the cursor, or "" outside the data area.
func (o *panelOverlay) readout() string {
	if !o.hovering {
		return ""
	}
	ix, iy, ok := o.toImage(o.mouse)
	if !ok {
		return ""
	}
	x, y, ok := o.view.Locate(o.quantity, ix, iy)
	if !ok {
		return ""
	}
	unit := ""
	if p := o.view.Panel(o.quantity); p != nil {
		unit = " " + p.Unit()
	}
	return fmt.Sprintf("%.2f h, %.2f%s", x, y, unit)
}

func (o *panelOverlay) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Transparent)
	lineV := canvas.NewLine(theme.Color(theme.ColorNameDisabled))
	lineV.StrokeWidth = 1
	lineH := canvas.NewLine(theme.Color(theme.ColorNameDisabled))
	lineH.StrokeWidth = 1
	labelBG := canvas.NewRectangle(color.NRGBA{R: 0, G: 0, B: 0, A: 170})
	label := canvas.NewText("", color.White)
	label.TextSize = theme.TextSize() * 0.9
	r := &overlayRenderer{o: o, bg: bg, lineV: lineV, lineH: lineH, labelBG: labelBG, label: label}
	r.objs = []fyne.CanvasObject{bg, lineV, lineH, labelBG, label}
	return r
}

type overlayRenderer struct {
	o       *panelOverlay
	bg      *canvas.Rectangle
	lineV   *canvas.Line
	lineH   *canvas.Line
	labelBG *canvas.Rectangle
	label   *canvas.Text
	objs    []fyne.CanvasObject
}

func (r *overlayRenderer) hide() {
	off := fyne.NewPos(-10, -10)
	r.lineV.Position1, r.lineV.Position2 = off, off
	r.lineH.Position1, r.lineH.Position2 = off, off
	r.labelBG.Resize(fyne.NewSize(0, 0))
	r.labelBG.Move(fyne.NewPos(-1000, -1000))
	r.label.Move(fyne.NewPos(-1000, -1000))
}

func (r *overlayRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	text := r.o.readout()
	if text == "" {
		r.label.Text = ""
		r.hide()
		return
	}
	x, y := r.o.mouse.X, r.o.mouse.Y
	r.lineV.Position1 = fyne.NewPos(x, 0)
	r.lineV.Position2 = fyne.NewPos(x, size.Height)
	r.lineH.Position1 = fyne.NewPos(0, y)
	r.lineH.Position2 = fyne.NewPos(size.Width, y)

	r.label.Text = text
	pad := float32(4)
	ts := r.label.MinSize()
	bgW, bgH := ts.Width+2*pad, ts.Height+2*pad
	tx, ty := x+8, y+8
	if tx+bgW > size.Width {
		tx = x - 8 - bgW
	}
	if ty+bgH > size.Height {
		ty = y - 8 - bgH
	}
	r.labelBG.Resize(fyne.NewSize(bgW, bgH))
	r.labelBG.Move(fyne.NewPos(tx, ty))
	r.label.Move(fyne.NewPos(tx+pad, ty+pad))
	r.label.Resize(ts)
}

func (r *overlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *overlayRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *overlayRenderer) Destroy()                     {}

func (r *overlayRenderer) Refresh() {
	r.Layout(r.o.Size())
	r.lineV.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.lineH.StrokeColor = theme.Color(theme.ColorNameDisabled)
	for _, obj := range r.objs {
		obj.Refresh()
	}
}

var (
	_ fyne.Tappable       = (*panelOverlay)(nil)
	_ fyne.DoubleTappable = (*panelOverlay)(nil)
	_ desktop.Hoverable   = (*panelOverlay)(nil)
)
