package plot

import "github.com/iafilius/BMSLogPlotter/src/bmslog"

// EventKind distinguishes pointer gestures delivered to a View.
type EventKind int

const (
	SingleClick EventKind = iota
	DoubleClick
)

func (k EventKind) String() string {
	switch k {
	case SingleClick:
		return "single"
	case DoubleClick:
		return "double"
	default:
		return "unknown"
	}
}

// PointerEvent is a click on a panel image, in image pixel coordinates.
type PointerEvent struct {
	Kind  EventKind
	Panel Quantity
	X, Y  float64
}

// HandleEvent applies a pointer event. A double-click inside a panel's data area adds an
// annotation at the corresponding data coordinate and redraws only that panel. Anything else is
// ignored. The return value reports whether an annotation was added.
func (v *View) HandleEvent(ev PointerEvent) bool {
	if ev.Kind != DoubleClick {
		return false
	}
	p := v.Panel(ev.Panel)
	if p == nil {
		return false
	}
	v.mu.Lock()
	x, y, ok := p.PixelToData(ev.X, ev.Y)
	var a Annotation
	if ok {
		a = p.annotate(x, y)
	}
	v.mu.Unlock()
	if !ok {
		return false
	}
	bmslog.Debugf("annotate %s at %s", ev.Panel, a.Label())
	v.redraw(ev.Panel)
	return true
}
