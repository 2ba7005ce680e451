package main

import (
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"github.com/iafilius/BMSLogPlotter/cmd/bmsviewer/uihelpers"
	"github.com/iafilius/BMSLogPlotter/src/bmslog"
	"github.com/iafilius/BMSLogPlotter/src/plot"
)

func testView(t *testing.T) *plot.View {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lt := &bmslog.LogTable{Source: "pack.log", Columns: append([]string(nil), bmslog.RequiredColumns...)}
	for i := 0; i < 7; i++ {
		lt.Records = append(lt.Records, bmslog.LogRecord{
			Timestamp:   base.Add(time.Duration(i) * 30 * time.Minute),
			Voltage:     3680 + float64(i%3)*20,
			AvgCurrent:  150 - float64(i),
			Temperature: 25,
		})
	}
	nt, err := bmslog.Normalize(lt)
	if err != nil {
		t.Fatal(err)
	}
	v, err := plot.NewView(nt, plot.Options{Width: 800, PanelHeight: 300})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// newTestOverlay renders the Voltage panel and sizes the overlay to twice the image size, so
// view positions and image pixels differ by the contain-fit scale.
func newTestOverlay(t *testing.T, v *plot.View) (*panelOverlay, fyne.Size) {
	t.Helper()
	img, err := v.RenderPanel(plot.Voltage)
	if err != nil {
		t.Fatal(err)
	}
	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillContain
	o := newPanelOverlay(v, plot.Voltage, ci)
	sz := fyne.NewSize(1600, 600)
	o.Resize(sz)
	return o, sz
}

func viewPos(v *plot.View, x, y float64, sz fyne.Size) fyne.Position {
	px, py := v.Panel(plot.Voltage).DataToPixel(x, y)
	vx, vy := uihelpers.ImageToView(px, py, 800, 300, sz.Width, sz.Height)
	return fyne.NewPos(vx, vy)
}

func TestOverlay_DoubleTapAnnotates(t *testing.T) {
	test.NewApp()
	v := testView(t)
	o, sz := newTestOverlay(t, v)
	var redrawn []plot.Quantity
	v.OnRedraw(func(q plot.Quantity) { redrawn = append(redrawn, q) })

	pos := viewPos(v, 2.0, 3700.0, sz)
	o.Tapped(&fyne.PointEvent{Position: pos})
	if n := len(v.Annotations(plot.Voltage)); n != 0 {
		t.Fatalf("single tap added %d annotations", n)
	}
	o.DoubleTapped(&fyne.PointEvent{Position: pos})
	anns := v.Annotations(plot.Voltage)
	if len(anns) != 1 {
		t.Fatalf("expected 1 annotation got %d", len(anns))
	}
	// float32 view coordinates lose a little precision; the label rounds it away
	if anns[0].Label() != "(2.00, 3700.00)" {
		t.Fatalf("label = %q", anns[0].Label())
	}
	if len(redrawn) != 1 || redrawn[0] != plot.Voltage {
		t.Fatalf("redraw calls = %v", redrawn)
	}

	o.DoubleTapped(&fyne.PointEvent{Position: fyne.NewPos(1, 1)})
	if len(v.Annotations(plot.Voltage)) != 1 {
		t.Fatalf("double tap outside the data area must be ignored")
	}
}

func TestOverlay_Readout(t *testing.T) {
	test.NewApp()
	v := testView(t)
	o, sz := newTestOverlay(t, v)
	if o.readout() != "" {
		t.Fatalf("no readout before hovering")
	}
	o.MouseMoved(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: viewPos(v, 1.5, 3690, sz)}})
	got := o.readout()
	if !strings.HasPrefix(got, "1.50 h, 3690.00 mV") {
		t.Fatalf("readout = %q", got)
	}
	o.MouseOut()
	if o.readout() != "" {
		t.Fatalf("readout should clear on mouse out")
	}
}

func TestFigureFileName(t *testing.T) {
	cases := map[string]string{
		"/data/cell_01.log": "cell_01_figure.png",
		"pack.csv":          "pack_figure.png",
		"":                  "bms_figure.png",
	}
	for in, want := range cases {
		if got := figureFileName(in); got != want {
			t.Fatalf("figureFileName(%q) = %q want %q", in, got, want)
		}
	}
}

func TestChartWindow_RenderFailureOpensNoWindow(t *testing.T) {
	a := test.NewApp()
	v := testView(t)
	before := len(a.Driver().AllWindows())
	failing := func(q plot.Quantity) (image.Image, error) {
		if q == plot.Temperature {
			return nil, &plot.RenderError{Column: bmslog.ColTemperature, Err: errors.New("boom")}
		}
		return v.RenderPanel(q)
	}
	if _, err := buildChartWindow(a, v, failing); err == nil {
		t.Fatalf("expected render error")
	}
	if got := len(a.Driver().AllWindows()); got != before {
		t.Fatalf("failed render left %d windows, want %d", got, before)
	}

	cw, err := newChartWindow(a, v)
	if err != nil {
		t.Fatalf("newChartWindow: %v", err)
	}
	if got := len(a.Driver().AllWindows()); got != before+1 {
		t.Fatalf("expected one chart window, have %d", got-before)
	}
	if len(cw.images) != 3 || len(cw.overlays) != 3 {
		t.Fatalf("chart window has %d images, %d overlays", len(cw.images), len(cw.overlays))
	}
	cw.win.Close()
}
