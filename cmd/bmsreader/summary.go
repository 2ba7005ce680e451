package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iafilius/BMSLogPlotter/src/bmslog"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file>",
		Short: "Print rows, time span and columns of a log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nt, err := bmslog.Load(args[0], opts.cfg.ParserOptions())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatSummary(summarize(nt), !opts.noColor))
			return err
		},
	}
}

type logSummary struct {
	Source        string
	Rows          int
	First, Last   time.Time
	SpanHours     float64
	BackwardSteps int
	Columns       []string
}

func summarize(nt *bmslog.NormalizedTable) logSummary {
	s := logSummary{
		Source:        nt.Source,
		Rows:          nt.Len(),
		SpanHours:     nt.Span(),
		BackwardSteps: nt.BackwardSteps(),
	}
	if nt.Len() > 0 {
		s.First = nt.Records[0].Timestamp
		s.Last = nt.Records[nt.Len()-1].Timestamp
	}
	s.Columns = append(s.Columns, nt.Columns...)
	return s
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1F4E79", Dark: "#7FB3E6"})
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#A0A0A0"}).Width(16)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B35900", Dark: "#FFB347"})
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func formatSummary(s logSummary, styled bool) string {
	const stamp = "2006-01-02 15:04:05"
	key := func(k string) string {
		if styled {
			return keyStyle.Render(k)
		}
		return fmt.Sprintf("%-16s", k)
	}
	var lines []string
	title := filepath.Base(s.Source)
	if styled {
		title = titleStyle.Render(title)
	}
	lines = append(lines, title)
	lines = append(lines, key("Samples")+fmt.Sprintf("%d", s.Rows))
	lines = append(lines, key("First")+s.First.Format(stamp))
	lines = append(lines, key("Last")+s.Last.Format(stamp))
	lines = append(lines, key("Span")+fmt.Sprintf("%.2f h", s.SpanHours))
	lines = append(lines, key("Columns")+strings.Join(s.Columns, ", "))
	if s.BackwardSteps > 0 {
		w := fmt.Sprintf("timestamps go backwards %d times", s.BackwardSteps)
		if styled {
			w = warnStyle.Render(w)
		}
		lines = append(lines, key("Warning")+w)
	}
	out := strings.Join(lines, "\n")
	if styled {
		return boxStyle.Render(out)
	}
	return out
}
