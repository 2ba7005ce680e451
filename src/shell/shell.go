// Package shell wires the two user actions of the plotter, "Upload File" and "Close", to the
// parse, normalize and render pipeline. The windowing toolkit stays behind Host.
package shell

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/iafilius/BMSLogPlotter/src/bmslog"
	"github.com/iafilius/BMSLogPlotter/src/plot"
)

// FileExtensions are offered by the file chooser.
var FileExtensions = []string{".log", ".csv", ".txt"}

// Host is the windowing side of the shell.
type Host interface {
	// ChooseFile asks the user for a log file and calls done with the chosen path, or with an
	// empty path when the dialog was cancelled. done may run after ChooseFile returns.
	ChooseFile(done func(path string, err error))
	// ShowView presents a rendered view. It returns once the view is on screen; the view lives
	// until its window is closed.
	ShowView(v *plot.View) error
	ShowError(err error)
	Terminate()
}

// Controller runs the shell actions against a Host. Every upload builds an independent table
// and view.
type Controller struct {
	host     Host
	parse    bmslog.Options
	render   plot.Options
	mu       sync.Mutex
	lastView *plot.View
}

func NewController(h Host, parse bmslog.Options, render plot.Options) *Controller {
	return &Controller{host: h, parse: parse, render: render}
}

// Upload handles the "Upload File" action.
func (c *Controller) Upload() {
	c.host.ChooseFile(func(path string, err error) {
		if err != nil {
			bmslog.Errorf("file dialog: %v", err)
			c.host.ShowError(fmt.Errorf("file dialog: %w", err))
			return
		}
		if strings.TrimSpace(path) == "" {
			bmslog.Debugf("upload cancelled")
			return
		}
		_, _ = c.Open(path)
	})
}

// Open loads path, builds its view and shows it. Any failure is reported through the host and no
// view is shown.
func (c *Controller) Open(path string) (*plot.View, error) {
	v, err := c.load(path)
	if err == nil {
		err = c.host.ShowView(v)
	}
	if err != nil {
		bmslog.Errorf("open %s: %v", path, err)
		c.host.ShowError(userError(err))
		return nil, err
	}
	c.mu.Lock()
	c.lastView = v
	c.mu.Unlock()
	bmslog.Infof("opened %s", path)
	return v, nil
}

// Close handles the "Close" action.
func (c *Controller) Close() {
	bmslog.Debugf("close requested")
	c.host.Terminate()
}

// LastView is the most recently shown view, or nil.
func (c *Controller) LastView() *plot.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastView
}

func (c *Controller) load(path string) (*plot.View, error) {
	t, err := bmslog.Load(path, c.parse)
	if err != nil {
		return nil, err
	}
	return plot.NewView(t, c.render)
}

// userError prefixes the error with a short category for the error dialog.
func userError(err error) error {
	var re *plot.RenderError
	switch {
	case bmslog.IsEmptyData(err):
		return fmt.Errorf("no data: %w", err)
	case bmslog.IsParseError(err):
		return fmt.Errorf("cannot read log: %w", err)
	case errors.As(err, &re):
		return fmt.Errorf("cannot draw chart: %w", err)
	default:
		return err
	}
}
