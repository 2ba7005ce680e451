package plot

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// MaxTicks is the upper bound on major ticks per axis.
const MaxTicks = 10

// Axis is a value range snapped to "nice" major ticks, with minor subdivisions between them.
type Axis struct {
	Min, Max float64
	Step     float64
	Major    []float64
	Minor    []float64
}

var (
	majorGridStyle = chart.Style{
		StrokeColor:     drawing.Color{R: 176, G: 176, B: 176, A: 255},
		StrokeWidth:     0.5,
		StrokeDashArray: []float64{4, 3},
	}
	minorGridStyle = chart.Style{
		StrokeColor:     drawing.Color{R: 214, G: 214, B: 214, A: 255},
		StrokeWidth:     0.5,
		StrokeDashArray: []float64{2, 3},
	}
)

// NiceAxis covers [min,max] with at most maxTicks major ticks using 1, 2, 2.5, 5 x 10^k steps.
// maxTicks is clamped to [2, MaxTicks]. A degenerate range is widened around its value.
func NiceAxis(min, max float64, maxTicks int) Axis {
	if maxTicks < 2 {
		maxTicks = 2
	}
	if maxTicks > MaxTicks {
		maxTicks = MaxTicks
	}
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		min, max = 0, 1
	}
	if max < min {
		min, max = max, min
	}
	if max == min {
		pad := math.Abs(min) * 0.05
		if pad == 0 {
			pad = 0.5
		}
		min, max = min-pad, max+pad
	}
	span := max - min
	if math.IsInf(span, 0) {
		return Axis{Min: min, Max: max, Step: span, Major: []float64{min, max}}
	}
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(maxTicks-1))))
	for decade := 0; decade < 4; decade++ {
		for _, c := range []float64{1, 2, 2.5, 5} {
			step := c * mag
			lo := math.Floor(min/step) * step
			hi := math.Ceil(max/step) * step
			if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
				continue
			}
			n := int(math.Round((hi-lo)/step)) + 1
			if n > maxTicks {
				continue
			}
			a := Axis{Min: roundTo(lo, step), Max: roundTo(hi, step), Step: step}
			for i := 0; i < n; i++ {
				a.Major = append(a.Major, roundTo(lo+float64(i)*step, step))
			}
			div := minorDivisions(c)
			for i := 0; i < n-1; i++ {
				for k := 1; k < div; k++ {
					a.Minor = append(a.Minor, roundTo(lo+(float64(i)+float64(k)/float64(div))*step, step/float64(div)))
				}
			}
			return a
		}
		mag *= 10
	}
	return Axis{Min: min, Max: max, Step: span, Major: []float64{min, max}}
}

// minorDivisions mirrors the usual auto-minor rule: 5 subdivisions for 1, 2.5 and 5 steps, 4 for 2.
func minorDivisions(mantissa float64) int {
	if mantissa == 2 {
		return 4
	}
	return 5
}

func roundTo(v, step float64) float64 {
	d := decimalsFor(step) + 2
	p := math.Pow(10, float64(d))
	scaled := v * p
	if math.IsInf(scaled, 0) {
		return v
	}
	r := math.Round(scaled) / p
	if r == 0 {
		return 0 // no negative zero
	}
	return r
}

func decimalsFor(step float64) int {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return 0
	}
	exp := math.Floor(math.Log10(step) + 1e-9)
	d := int(-exp)
	// 2.5 x 10^k needs one more digit than its decade
	if m := step / math.Pow(10, exp); math.Abs(m-2.5) < 1e-9 {
		d++
	}
	if d < 0 {
		return 0
	}
	return d
}

// FormatTick renders a tick value with just enough decimals for the axis step.
func (a Axis) FormatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', decimalsFor(a.Step), 64)
}

// Plottable reports whether the axis range and step are finite, which the renderer needs to
// scale values into pixels.
func (a Axis) Plottable() bool {
	for _, v := range []float64{a.Min, a.Max, a.Step, a.Max - a.Min} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return a.Max > a.Min
}

// Contains reports whether v lies within the axis range.
func (a Axis) Contains(v float64) bool { return v >= a.Min && v <= a.Max }

func (a Axis) chartRange() *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: a.Min, Max: a.Max}
}

func (a Axis) chartTicks(labels bool) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(a.Major))
	for _, v := range a.Major {
		t := chart.Tick{Value: v}
		if labels {
			t.Label = a.FormatTick(v)
		}
		ticks = append(ticks, t)
	}
	return ticks
}

func (a Axis) gridLines() []chart.GridLine {
	lines := make([]chart.GridLine, 0, len(a.Major)+len(a.Minor))
	for _, v := range a.Minor {
		lines = append(lines, chart.GridLine{IsMinor: true, Value: v, Style: minorGridStyle})
	}
	for _, v := range a.Major {
		lines = append(lines, chart.GridLine{Value: v, Style: majorGridStyle})
	}
	return lines
}
