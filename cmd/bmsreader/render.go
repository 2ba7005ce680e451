package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iafilius/BMSLogPlotter/src/bmslog"
	"github.com/iafilius/BMSLogPlotter/src/plot"
)

func newRenderCommand(opts *rootOptions) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Write the figure and each panel as PNG files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nt, err := bmslog.Load(args[0], opts.cfg.ParserOptions())
			if err != nil {
				return err
			}
			v, err := plot.NewView(nt, opts.cfg.PlotOptions())
			if err != nil {
				return err
			}
			written, err := renderFigures(v, outDir)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

var panelFiles = map[plot.Quantity]string{
	plot.Voltage:     "voltage.png",
	plot.AvgCurrent:  "current.png",
	plot.Temperature: "temperature.png",
}

// renderFigures writes figure.png and one PNG per panel under outDir and returns their paths.
// It runs headlessly.
func renderFigures(v *plot.View, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	type item struct {
		name   string
		render func() (image.Image, error)
	}
	items := []item{{"figure.png", v.RenderFigure}}
	for _, p := range v.Panels() {
		q := p.Quantity()
		items = append(items, item{panelFiles[q], func() (image.Image, error) { return v.RenderPanel(q) }})
	}
	var written []string
	for _, it := range items {
		img, err := it.render()
		if err != nil {
			return written, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return written, fmt.Errorf("png encode %s: %w", it.name, err)
		}
		outPath := filepath.Join(outDir, it.name)
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", outPath, err)
		}
		written = append(written, outPath)
	}
	return written, nil
}
