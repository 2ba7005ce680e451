package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/BMSLogPlotter/src/bmslog"
)

// Quantity identifies one of the three panels.
type Quantity int

const (
	Voltage Quantity = iota
	AvgCurrent
	Temperature
)

func (q Quantity) String() string {
	if q >= 0 && int(q) < len(panelDefs) {
		return panelDefs[q].column
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

type panelDef struct {
	column string
	title  string
	legend string
	unit   string
	color  drawing.Color
}

var panelDefs = [...]panelDef{
	Voltage:     {column: bmslog.ColVoltage, title: "Voltage Over Time", legend: "Voltage (mV)", unit: "mV", color: chart.ColorBlue},
	AvgCurrent:  {column: bmslog.ColAvgCurrent, title: "Average Current Over Time", legend: "Average Current (mA)", unit: "mA", color: chart.ColorRed},
	Temperature: {column: bmslog.ColTemperature, title: "Temperature Over Time", legend: "Temperature (°C)", unit: "°C", color: chart.ColorGreen},
}

const (
	timeAxisName   = "Time (hours)"
	markerRadius   = 4.0
	labelOffsetPx  = 10
	labelFontSize  = 9.0
	lineWidth      = 1.5
	singlePointDot = 3.0
)

var (
	markerColor = drawing.Color{R: 220, G: 30, B: 30, A: 255}
	labelColor  = drawing.Color{R: 20, G: 20, B: 20, A: 255}
)

// Annotation is a user-placed marker in data coordinates.
type Annotation struct {
	X, Y float64
}

// Label is the text drawn next to the marker.
func (a Annotation) Label() string {
	return fmt.Sprintf("(%.2f, %.2f)", a.X, a.Y)
}

// Panel is one time-series chart of a View. It owns its annotations and the pixel box of its
// data area as of the last render.
type Panel struct {
	quantity    Quantity
	def         panelDef
	xs, ys      []float64
	x, y        Axis
	bottom      bool
	annotations []Annotation

	plotBox  chart.Box
	rendered bool
}

func newPanel(q Quantity, xs, ys []float64, xAxis Axis, maxTicks int, bottom bool) *Panel {
	xs, ys = finitePoints(xs, ys)
	ymin, ymax := minMax(ys)
	return &Panel{
		quantity: q,
		def:      panelDefs[q],
		xs:       xs,
		ys:       ys,
		x:        xAxis,
		y:        NiceAxis(ymin, ymax, maxTicks),
		bottom:   bottom,
	}
}

func (p *Panel) Quantity() Quantity { return p.quantity }
func (p *Panel) Title() string      { return p.def.title }
func (p *Panel) Legend() string     { return p.def.legend }
func (p *Panel) Unit() string       { return p.def.unit }
func (p *Panel) XAxis() Axis        { return p.x }
func (p *Panel) YAxis() Axis        { return p.y }

// Annotations returns a copy of the markers placed on this panel.
func (p *Panel) Annotations() []Annotation {
	return append([]Annotation(nil), p.annotations...)
}

func (p *Panel) annotate(x, y float64) Annotation {
	a := Annotation{X: x, Y: y}
	p.annotations = append(p.annotations, a)
	return a
}

// PlotBox returns the data area in image pixels of the last render. Like DataToPixel it reads
// state written by rendering; use View.Locate while renders may be in flight.
func (p *Panel) PlotBox() (image.Rectangle, bool) {
	if !p.rendered {
		return image.Rectangle{}, false
	}
	return image.Rect(p.plotBox.Left, p.plotBox.Top, p.plotBox.Right, p.plotBox.Bottom), true
}

// DataToPixel maps a data coordinate to image pixels using the last rendered data area.
func (p *Panel) DataToPixel(x, y float64) (float64, float64) {
	b := p.plotBox
	px := float64(b.Left) + (x-p.x.Min)/(p.x.Max-p.x.Min)*float64(b.Width())
	py := float64(b.Bottom) - (y-p.y.Min)/(p.y.Max-p.y.Min)*float64(b.Height())
	return px, py
}

// PixelToData maps an image pixel to data coordinates. ok is false when the panel has not been
// rendered yet or the pixel lies outside the data area.
func (p *Panel) PixelToData(px, py float64) (x, y float64, ok bool) {
	if !p.rendered {
		return 0, 0, false
	}
	b := p.plotBox
	if b.Width() <= 0 || b.Height() <= 0 {
		return 0, 0, false
	}
	if px < float64(b.Left) || px > float64(b.Right) || py < float64(b.Top) || py > float64(b.Bottom) {
		return 0, 0, false
	}
	x = p.x.Min + (px-float64(b.Left))/float64(b.Width())*(p.x.Max-p.x.Min)
	y = p.y.Min + (float64(b.Bottom)-py)/float64(b.Height())*(p.y.Max-p.y.Min)
	return x, y, true
}

func (p *Panel) chart(width, height int) chart.Chart {
	series := chart.ContinuousSeries{
		Name:    p.def.legend,
		XValues: p.xs,
		YValues: p.ys,
		Style:   chart.Style{StrokeColor: p.def.color, StrokeWidth: lineWidth},
	}
	if len(p.xs) == 1 {
		series.Style.DotWidth = singlePointDot
		series.Style.DotColor = p.def.color
	}
	xName := ""
	if p.bottom {
		xName = timeAxisName
	}
	ch := chart.Chart{
		Title:      p.def.title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: 12}},
		XAxis: chart.XAxis{
			Name:           xName,
			Range:          p.x.chartRange(),
			Ticks:          p.x.chartTicks(p.bottom),
			GridLines:      p.x.gridLines(),
			GridMajorStyle: majorGridStyle,
			GridMinorStyle: minorGridStyle,
		},
		YAxis: chart.YAxis{
			Name:           p.def.unit,
			Range:          p.y.chartRange(),
			Ticks:          p.y.chartTicks(true),
			GridLines:      p.y.gridLines(),
			GridMajorStyle: majorGridStyle,
			GridMinorStyle: minorGridStyle,
		},
		Series: []chart.Series{series},
	}
	ch.Elements = []chart.Renderable{p.drawAnnotations, chart.Legend(&ch)}
	return ch
}

// drawAnnotations runs after axes and series are drawn; go-chart hands it the final data area,
// which becomes the panel's pixel mapping.
func (p *Panel) drawAnnotations(r chart.Renderer, box chart.Box, defaults chart.Style) {
	p.plotBox = box
	p.rendered = true
	if len(p.annotations) == 0 {
		return
	}
	if defaults.Font != nil {
		r.SetFont(defaults.Font)
	}
	for _, a := range p.annotations {
		fx, fy := p.DataToPixel(a.X, a.Y)
		x, y := int(math.Round(fx)), int(math.Round(fy))

		r.SetFillColor(markerColor)
		r.SetStrokeColor(markerColor)
		r.SetStrokeWidth(1)
		r.Circle(markerRadius, x, y)
		r.FillStroke()

		label := a.Label()
		r.SetFontSize(labelFontSize)
		r.SetFontColor(labelColor)
		tb := r.MeasureText(label)
		r.Text(label, x-tb.Width()/2, y-labelOffsetPx)
	}
}

func (p *Panel) render(width, height int) (image.Image, error) {
	ch := p.chart(width, height)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, &RenderError{Column: p.def.column, Err: err}
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, &RenderError{Column: p.def.column, Err: fmt.Errorf("decode png: %w", err)}
	}
	return img, nil
}

// finitePoints drops samples whose x or y is NaN or infinite.
func finitePoints(xs, ys []float64) ([]float64, []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	outX := make([]float64, 0, n)
	outY := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			outX = append(outX, xs[i])
			outY = append(outY, ys[i])
		}
	}
	return outX, outY
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// minMax ignores NaN and infinite values. With no finite value it returns the unit range.
func minMax(vs []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		if !isFinite(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return 0, 1
	}
	return lo, hi
}
