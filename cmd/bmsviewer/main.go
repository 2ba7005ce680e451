package main

import (
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/BMSLogPlotter/src/bmslog"
	"github.com/iafilius/BMSLogPlotter/src/config"
	"github.com/iafilius/BMSLogPlotter/src/shell"
)

const (
	mainTitle = "Battery Management Studio Data Plotter"
	intro     = "Upload a Battery Management Studio log (.log, .csv or .txt) to plot voltage,\n" +
		"average current and temperature over time. Double-click a chart to mark a point."
)

func main() {
	var fileFlag, configFlag, levelFlag string
	flag.StringVar(&fileFlag, "file", "", "Path to a Battery Management Studio log to open at startup")
	flag.StringVar(&configFlag, "config", "", "Path to a YAML config file")
	flag.StringVar(&levelFlag, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	bmslog.SetLogLevel(cfg.Log.Level)
	if levelFlag != "" {
		if _, ok := bmslog.ParseLogLevel(levelFlag); !ok {
			fmt.Fprintf(os.Stderr, "error: unknown log level %q\n", levelFlag)
			os.Exit(2)
		}
		bmslog.SetLogLevel(levelFlag)
	}

	a := app.NewWithID("com.bms.plotter")
	w := a.NewWindow(mainTitle)
	w.Resize(fyne.NewSize(560, 220))

	host := newFyneHost(a, w)
	ctrl := shell.NewController(host, cfg.ParserOptions(), cfg.PlotOptions())

	upload := widget.NewButton("Upload File", ctrl.Upload)
	upload.Importance = widget.HighImportance
	closeBtn := widget.NewButton("Close", ctrl.Close)
	w.SetContent(container.NewVBox(
		widget.NewLabel(intro),
		container.NewHBox(upload, closeBtn),
	))
	w.SetMaster()

	if c := w.Canvas(); c != nil {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { ctrl.Upload() })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { ctrl.Upload() })
		c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { ctrl.Close() })
	}

	if fileFlag != "" {
		// errors are already shown in a dialog
		_, _ = ctrl.Open(fileFlag)
	}
	w.ShowAndRun()
}
