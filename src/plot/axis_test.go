package plot

import (
	"math"
	"testing"
)

func TestNiceAxis_TickBound(t *testing.T) {
	ranges := [][2]float64{
		{0, 3}, {3515, 3885}, {-120.5, 150}, {24.5, 26}, {0, 0.0123}, {0, 97.3}, {1e-3, 1e6}, {-5, -5}, {0, 0},
	}
	for _, r := range ranges {
		for _, max := range []int{2, 5, 10, 25} {
			a := NiceAxis(r[0], r[1], max)
			limit := max
			if limit > MaxTicks {
				limit = MaxTicks
			}
			if len(a.Major) > limit {
				t.Fatalf("NiceAxis(%v, %d) produced %d major ticks", r, max, len(a.Major))
			}
			if a.Min > math.Min(r[0], r[1]) || a.Max < math.Max(r[0], r[1]) {
				t.Fatalf("NiceAxis(%v) = [%v,%v] does not cover data", r, a.Min, a.Max)
			}
			if a.Max <= a.Min {
				t.Fatalf("NiceAxis(%v) degenerate range [%v,%v]", r, a.Min, a.Max)
			}
		}
	}
}

func TestNiceAxis_Steps(t *testing.T) {
	cases := []struct {
		min, max        float64
		lo, hi, step    float64
		minorPerSegment int
	}{
		{0, 3, 0, 3, 0.5, 4},
		{3515, 3885, 3500, 3900, 50, 4},
		{0, 9, 0, 9, 1, 4},
		{0, 16, 0, 16, 2, 3},
		{0, 20, 0, 20, 2.5, 4},
	}
	for _, c := range cases {
		a := NiceAxis(c.min, c.max, MaxTicks)
		if a.Min != c.lo || a.Max != c.hi || a.Step != c.step {
			t.Fatalf("NiceAxis(%v,%v) = [%v,%v] step %v", c.min, c.max, a.Min, a.Max, a.Step)
		}
		if got := len(a.Minor); got != (len(a.Major)-1)*c.minorPerSegment {
			t.Fatalf("NiceAxis(%v,%v): %d minor ticks for %d majors", c.min, c.max, got, len(a.Major))
		}
	}
}

func TestNiceAxis_Degenerate(t *testing.T) {
	a := NiceAxis(3700, 3700, MaxTicks)
	if !a.Contains(3700) || a.Min == a.Max {
		t.Fatalf("single value axis = %+v", a)
	}
	a = NiceAxis(math.NaN(), 1, MaxTicks)
	if a.Min != 0 || a.Max != 1 {
		t.Fatalf("NaN input axis = [%v,%v]", a.Min, a.Max)
	}
	a = NiceAxis(10, 0, MaxTicks)
	if a.Min != 0 || a.Max != 10 {
		t.Fatalf("swapped bounds axis = [%v,%v]", a.Min, a.Max)
	}
}

func TestNiceAxis_HugeSpan(t *testing.T) {
	a := NiceAxis(-1e308, 1e308, MaxTicks)
	if a.Plottable() {
		t.Fatalf("axis spanning more than MaxFloat64 reported plottable: %+v", a)
	}
	if math.IsNaN(a.Min) || math.IsNaN(a.Max) {
		t.Fatalf("huge span produced NaN bounds: %+v", a)
	}
	a = NiceAxis(0, 1.7e308, MaxTicks)
	if !a.Plottable() || !a.Contains(1.7e308) {
		t.Fatalf("near-max range = %+v", a)
	}
	if !NiceAxis(3515, 3885, MaxTicks).Plottable() {
		t.Fatalf("ordinary axis should be plottable")
	}
}

func TestFormatTick(t *testing.T) {
	cases := []struct {
		step float64
		v    float64
		want string
	}{
		{0.5, 1.5, "1.5"},
		{0.25, 0.75, "0.75"},
		{2.5, 7.5, "7.5"},
		{50, 3650, "3650"},
		{1, 0, "0"},
		{0.2, 0.4, "0.4"},
	}
	for _, c := range cases {
		if got := (Axis{Step: c.step}).FormatTick(c.v); got != c.want {
			t.Fatalf("FormatTick(step %v, %v) = %q want %q", c.step, c.v, got, c.want)
		}
	}
}

func TestGridLines_MinorBeforeMajor(t *testing.T) {
	a := NiceAxis(0, 3, MaxTicks)
	lines := a.gridLines()
	if len(lines) != len(a.Major)+len(a.Minor) {
		t.Fatalf("grid lines = %d", len(lines))
	}
	seenMajor := false
	for _, l := range lines {
		if !l.IsMinor {
			seenMajor = true
		} else if seenMajor {
			t.Fatalf("minor line after major lines")
		}
	}
	if ticks := a.chartTicks(false); ticks[0].Label != "" {
		t.Fatalf("unlabelled ticks carry label %q", ticks[0].Label)
	}
}
