package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iafilius/BMSLogPlotter/src/bmslog"
	"github.com/iafilius/BMSLogPlotter/src/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
	noColor    bool
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "bmsreader",
		Short: "Inspect and render Battery Management Studio logs",
		Long: `bmsreader reads Battery Management Studio logs without opening a window.

It prints a summary of a log (samples, time span, columns) or renders the
voltage, current and temperature charts to PNG files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			bmslog.SetLogLevel(cfg.Log.Level)
			if opts.logLevel != "" {
				if _, ok := bmslog.ParseLogLevel(opts.logLevel); !ok {
					return fmt.Errorf("unknown log level %q", opts.logLevel)
				}
				bmslog.SetLogLevel(opts.logLevel)
			}
			opts.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable styled output")

	rootCmd.AddCommand(newSummaryCommand(opts))
	rootCmd.AddCommand(newRenderCommand(opts))
	return rootCmd
}
