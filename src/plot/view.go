package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/BMSLogPlotter/src/bmslog"
)

// Options sizes the rendered panels.
type Options struct {
	// Width of every panel in pixels.
	Width int
	// PanelHeight is the height of a single panel in pixels.
	PanelHeight int
	// MaxTicks caps major ticks per axis; values above MaxTicks are clamped.
	MaxTicks int
}

// DefaultOptions gives a 1000 px wide figure of 420 px panels with the full tick budget.
func DefaultOptions() Options {
	return Options{Width: 1000, PanelHeight: 420, MaxTicks: MaxTicks}
}

const (
	minWidth       = 320
	minPanelHeight = 160
	captionHeight  = 22
)

// View holds the three stacked panels for one normalized log. All panels share one time axis.
// The methods of View may be called from multiple goroutines. The *Panel values returned by
// Panels and Panel are for reading titles and axes; their pixel mapping is only stable while no
// render is running.
type View struct {
	mu       sync.Mutex
	source   string
	opts     Options
	panels   []*Panel
	onRedraw func(Quantity)
	span     float64
	rows     int
}

// NewView builds the Voltage, AvgCurrent and Temperature panels for t. A required column that is
// missing yields a *RenderError naming it.
func NewView(t *bmslog.NormalizedTable, opts Options) (*View, error) {
	if t == nil || t.Len() == 0 {
		src := ""
		if t != nil {
			src = t.Source
		}
		return nil, &RenderError{Err: &bmslog.EmptyDataError{Path: src}}
	}
	if !t.HasColumn(bmslog.ColElapsedHours) {
		return nil, &RenderError{Column: bmslog.ColElapsedHours, Err: bmslog.ErrMissingColumn}
	}
	for _, s := range panelDefs {
		if !t.HasColumn(s.column) {
			return nil, &RenderError{Column: s.column, Err: bmslog.ErrMissingColumn}
		}
	}
	opts = opts.withDefaults()
	xs := t.Column(bmslog.ColElapsedHours)
	xmin, xmax := minMax(xs)
	xAxis := NiceAxis(xmin, xmax, opts.MaxTicks)
	if !xAxis.Plottable() {
		return nil, &RenderError{Column: bmslog.ColElapsedHours, Err: ErrRangeTooWide}
	}

	v := &View{source: t.Source, opts: opts, span: t.Span(), rows: t.Len()}
	for q := range panelDefs {
		quantity := Quantity(q)
		ys := t.Column(panelDefs[q].column)
		p := newPanel(quantity, xs, ys, xAxis, opts.MaxTicks, quantity == Temperature)
		if !p.y.Plottable() {
			return nil, &RenderError{Column: panelDefs[q].column, Err: ErrRangeTooWide}
		}
		v.panels = append(v.panels, p)
	}
	bmslog.Debugf("view %s: %d rows, x %s..%s h", t.Source, t.Len(), xAxis.FormatTick(xAxis.Min), xAxis.FormatTick(xAxis.Max))
	return v, nil
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.PanelHeight <= 0 {
		o.PanelHeight = d.PanelHeight
	}
	if o.MaxTicks <= 0 {
		o.MaxTicks = d.MaxTicks
	}
	if o.MaxTicks > MaxTicks {
		o.MaxTicks = MaxTicks
	}
	return o
}

// Source is the path of the log shown by the view.
func (v *View) Source() string { return v.source }

// Panels returns the panels top to bottom.
func (v *View) Panels() []*Panel { return append([]*Panel(nil), v.panels...) }

// Panel returns the panel for q, or nil.
func (v *View) Panel(q Quantity) *Panel {
	if q < 0 || int(q) >= len(v.panels) {
		return nil
	}
	return v.panels[q]
}

// Size reports the current per-panel size in pixels.
func (v *View) Size() (width, panelHeight int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opts.Width, v.opts.PanelHeight
}

// SetSize changes the per-panel render size, clamped to a readable minimum. Annotations are
// kept in data coordinates and follow the new layout on the next render.
func (v *View) SetSize(width, panelHeight int) {
	if width < minWidth {
		width = minWidth
	}
	if panelHeight < minPanelHeight {
		panelHeight = minPanelHeight
	}
	v.mu.Lock()
	v.opts.Width, v.opts.PanelHeight = width, panelHeight
	v.mu.Unlock()
}

// OnRedraw registers fn to be called with the panel that needs redrawing after an annotation.
func (v *View) OnRedraw(fn func(Quantity)) {
	v.mu.Lock()
	v.onRedraw = fn
	v.mu.Unlock()
}

func (v *View) redraw(q Quantity) {
	v.mu.Lock()
	fn := v.onRedraw
	v.mu.Unlock()
	if fn != nil {
		fn(q)
	}
}

// Annotations returns the markers placed on panel q.
func (v *View) Annotations(q Quantity) []Annotation {
	p := v.Panel(q)
	if p == nil {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return p.Annotations()
}

// Annotate adds a marker at data coordinate (x, y) on panel q without redrawing it.
func (v *View) Annotate(q Quantity, x, y float64) (Annotation, bool) {
	p := v.Panel(q)
	if p == nil {
		return Annotation{}, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return p.annotate(x, y), true
}

// Locate converts an image pixel of panel q into data coordinates.
func (v *View) Locate(q Quantity, px, py float64) (x, y float64, ok bool) {
	p := v.Panel(q)
	if p == nil {
		return 0, 0, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return p.PixelToData(px, py)
}

// RenderPanel draws panel q at the current size, annotations included.
func (v *View) RenderPanel(q Quantity) (image.Image, error) {
	p := v.Panel(q)
	if p == nil {
		return nil, &RenderError{Err: fmt.Errorf("unknown panel %v", q)}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return p.render(v.opts.Width, v.opts.PanelHeight)
}

// RenderFigure stacks all panels top to bottom under a caption naming the source log.
func (v *View) RenderFigure() (image.Image, error) {
	imgs := make([]image.Image, 0, len(v.panels))
	for q := range v.panels {
		img, err := v.RenderPanel(Quantity(q))
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	w, h := 0, captionHeight
	for _, img := range imgs {
		b := img.Bounds()
		if b.Dx() > w {
			w = b.Dx()
		}
		h += b.Dy()
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	drawCaption(out, v.caption())
	y := captionHeight
	for _, img := range imgs {
		b := img.Bounds()
		draw.Draw(out, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}
	return out, nil
}

func (v *View) caption() string {
	return fmt.Sprintf("%s  |  %d samples over %.2f h", filepath.Base(v.source), v.rows, v.span)
}

func drawCaption(dst draw.Image, text string) {
	face := basicfont.Face7x13
	dr := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 255}),
		Face: face,
	}
	y := (captionHeight + face.Metrics().Ascent.Ceil()) / 2
	dr.Dot = fixed.Point26_6{X: fixed.I(8), Y: fixed.I(y)}
	dr.DrawString(text)
}
