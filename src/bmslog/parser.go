package bmslog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultHeaderLines is the size of the free-form block Battery Management Studio writes before
// the column header row.
const DefaultHeaderLines = 7

// DefaultTimeLayouts are tried in order for the DateTime column. Naive values are read as UTC.
var DefaultTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006/01/02 15:04:05.999999999",
	"2006/01/02 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"02.01.2006 15:04:05",
}

// Options controls how a log file is read.
// The zero value reads a plain CSV with a header row on line 1 and an auto-detected delimiter.
type Options struct {
	// HeaderLines is the number of raw lines discarded before the column header row.
	HeaderLines int
	// Delimiter separates fields; 0 picks the first of ',', ';', '\t' found in the header row.
	Delimiter rune
	// TimeLayouts overrides DefaultTimeLayouts when non-empty.
	TimeLayouts []string
	// SkipMalformedRows drops rows with unparsable values (logging a warning) instead of failing the load.
	SkipMalformedRows bool
}

// DefaultOptions returns the layout of a Battery Management Studio export.
func DefaultOptions() Options {
	return Options{HeaderLines: DefaultHeaderLines, Delimiter: ','}
}

// ParseFile reads the log at path. See Parse.
func ParseFile(path string, opts Options) (*LogTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()
	start := time.Now()
	defer TimeTrack(start, "parse "+path)
	return Parse(f, path, opts)
}

// Parse reads a log table from r. source names the input in errors and in the returned table.
//
// Whole-file rejection is the default for a bad row: a partially loaded log would plot a
// misleading time axis. Set Options.SkipMalformedRows to keep the good rows instead.
func Parse(r io.Reader, source string, opts Options) (*LogTable, error) {
	br := bufio.NewReader(r)
	for i := 0; i < opts.HeaderLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, &EmptyDataError{Path: source}
			}
			return nil, &ParseError{Path: source, Line: i + 1, Err: err}
		}
	}
	headerLineNo := opts.HeaderLines + 1
	headerLine, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: source, Line: headerLineNo, Err: err}
	}
	if strings.TrimSpace(headerLine) == "" {
		return nil, &EmptyDataError{Path: source}
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = detectDelimiter(headerLine)
	}
	columns, err := readHeader(headerLine, delim)
	if err != nil {
		return nil, &ParseError{Path: source, Line: headerLineNo, Err: err}
	}
	idx, err := columnIndex(columns)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path, pe.Line = source, headerLineNo
		}
		return nil, err
	}

	layouts := opts.TimeLayouts
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	table := &LogTable{Source: source, Columns: columns}
	skipped := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var ce *csv.ParseError
			if errors.As(err, &ce) {
				line = ce.Line + headerLineNo
			}
			return nil, &ParseError{Path: source, Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		line += headerLineNo
		rec, perr := parseRow(row, len(columns), idx, layouts)
		if perr != nil {
			perr.Path, perr.Line = source, line
			if opts.SkipMalformedRows {
				Warnf("skipping row: %v", perr)
				skipped++
				continue
			}
			return nil, perr
		}
		table.Records = append(table.Records, rec)
	}
	if skipped > 0 {
		Warnf("%s: skipped %d malformed rows, kept %d", source, skipped, len(table.Records))
	}
	if len(table.Records) == 0 {
		return nil, &EmptyDataError{Path: source}
	}
	Debugf("%s: %d records, %d columns", source, len(table.Records), len(columns))
	return table, nil
}

type columnPositions struct {
	dateTime, voltage, current, temperature int
}

func columnIndex(columns []string) (columnPositions, error) {
	pos := map[string]int{}
	for i, c := range columns {
		if _, dup := pos[c]; !dup {
			pos[c] = i
		}
	}
	for _, name := range RequiredColumns {
		if _, ok := pos[name]; !ok {
			return columnPositions{}, &ParseError{Column: name, Err: ErrMissingColumn}
		}
	}
	return columnPositions{
		dateTime:    pos[ColDateTime],
		voltage:     pos[ColVoltage],
		current:     pos[ColAvgCurrent],
		temperature: pos[ColTemperature],
	}, nil
}

func readHeader(line string, delim rune) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	fields, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("header row: %w", err)
	}
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, strings.TrimSpace(f))
	}
	// a trailing delimiter yields an empty last name
	if n := len(cols); n > 0 && cols[n-1] == "" {
		cols = cols[:n-1]
	}
	return cols, nil
}

func parseRow(row []string, width int, idx columnPositions, layouts []string) (LogRecord, *ParseError) {
	n := len(row)
	if n == width+1 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	if n != width {
		return LogRecord{}, &ParseError{Err: fmt.Errorf("expected %d fields, got %d", width, n)}
	}
	ts, err := parseTimestamp(row[idx.dateTime], layouts)
	if err != nil {
		return LogRecord{}, &ParseError{Column: ColDateTime, Err: err}
	}
	rec := LogRecord{Timestamp: ts}
	for _, f := range []struct {
		name string
		at   int
		dst  *float64
	}{
		{ColVoltage, idx.voltage, &rec.Voltage},
		{ColAvgCurrent, idx.current, &rec.AvgCurrent},
		{ColTemperature, idx.temperature, &rec.Temperature},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[f.at]), 64)
		if err != nil {
			return LogRecord{}, &ParseError{Column: f.name, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return LogRecord{}, &ParseError{Column: f.name, Err: fmt.Errorf("non-finite reading %q", strings.TrimSpace(row[f.at]))}
		}
		*f.dst = v
	}
	return rec, nil
}

func parseTimestamp(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// detectDelimiter picks the candidate that occurs most often in the header row, preferring ','.
func detectDelimiter(header string) rune {
	best, bestN := ',', strings.Count(header, ",")
	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(header, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
